// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

package routepolicy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trannhat/mangahive/internal/platform/routepolicy"
	"github.com/trannhat/mangahive/internal/platform/sec"
)

/*
TestEvaluate drives the gate with synthetic (path, authState, role) triples
covering every transition rule.
*/
func TestEvaluate(t *testing.T) {
	policy := routepolicy.Default()

	tests := []struct {
		name          string
		path          string
		rawQuery      string
		authenticated bool
		role          sec.Role
		wantAction    routepolicy.Action
		wantLocation  string
	}{
		// API bypass
		{"api_route_anonymous", "/api/manga", "", false, "", routepolicy.ActionAllow, ""},
		{"api_auth_route", "/api/auth/login", "", false, "", routepolicy.ActionAllow, ""},

		// Public routes, regardless of auth state
		{"home_anonymous", "/", "", false, "", routepolicy.ActionAllow, ""},
		{"home_authenticated", "/", "", true, sec.RoleUser, routepolicy.ActionAllow, ""},
		{"about_anonymous", "/about", "", false, "", routepolicy.ActionAllow, ""},
		{"health_probe_anonymous", "/health", "", false, "", routepolicy.ActionAllow, ""},
		{"readiness_probe_anonymous", "/ready", "", false, "", routepolicy.ActionAllow, ""},
		{"reader_prefix_anonymous", "/manga-chapters/0190b7a2/chapters/3", "", false, "", routepolicy.ActionAllow, ""},

		// Auth routes
		{"login_anonymous", "/login", "", false, "", routepolicy.ActionAllow, ""},
		{"login_authenticated_redirects_home", "/login", "", true, sec.RoleUser, routepolicy.ActionRedirect, "/"},
		{"register_authenticated_redirects_home", "/register", "", true, sec.RoleAdmin, routepolicy.ActionRedirect, "/"},

		// Protected pages for anonymous visitors carry a callbackUrl
		{
			"protected_anonymous_redirects_login",
			"/settings", "", false, "",
			routepolicy.ActionRedirect, "/login?callbackUrl=%2Fsettings",
		},
		{
			"protected_anonymous_keeps_query",
			"/library", "sort=recent&tab=reading", false, "",
			routepolicy.ActionRedirect, "/login?callbackUrl=%2Flibrary%3Fsort%3Drecent%26tab%3Dreading",
		},
		{"protected_authenticated_allowed", "/settings", "", true, sec.RoleUser, routepolicy.ActionAllow, ""},

		// Admin pages
		{"uploads_admin_allowed", "/uploads", "", true, sec.RoleAdmin, routepolicy.ActionAllow, ""},
		{"uploads_user_redirects_home", "/uploads", "", true, sec.RoleUser, routepolicy.ActionRedirect, "/"},
		{
			"uploads_anonymous_redirects_login",
			"/uploads", "", false, "",
			routepolicy.ActionRedirect, "/login?callbackUrl=%2Fuploads",
		},
		{"admin_page_user_redirects_home", "/admin", "", true, sec.RoleUser, routepolicy.ActionRedirect, "/"},
		{
			"add_chapter_under_public_prefix_still_gated",
			"/manga-chapters/0190b7a2/add-chapter", "", true, sec.RoleUser,
			routepolicy.ActionRedirect, "/",
		},
		{
			"add_chapter_admin_allowed",
			"/manga-chapters/0190b7a2/add-chapter", "", true, sec.RoleAdmin,
			routepolicy.ActionAllow, "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := policy.Evaluate(tt.path, tt.rawQuery, tt.authenticated, tt.role)

			assert.Equal(t, tt.wantAction, decision.Action)
			assert.Equal(t, tt.wantLocation, decision.Location)
		})
	}
}

/*
TestEvaluate_Idempotent confirms the gate is a pure function: the same input
triple always yields the same decision.
*/
func TestEvaluate_Idempotent(t *testing.T) {
	policy := routepolicy.Default()

	first := policy.Evaluate("/library", "tab=reading", false, "")
	second := policy.Evaluate("/library", "tab=reading", false, "")

	assert.Equal(t, first, second)
}
