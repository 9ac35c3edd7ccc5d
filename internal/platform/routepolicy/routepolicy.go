// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

/*
Package routepolicy implements the per-request access gate.

It is a pure decision function over (path, query, authentication state, role).
The gate itself performs no I/O; the middleware layer translates its decisions
into HTTP redirects. Keeping the policy side-effect free makes it directly
testable with synthetic triples.

Evaluation order:

 1. API routes bypass the gate (the API enforces auth per endpoint).
 2. Admin-only pages require an authenticated account whose role holds the
    upload capability; others are sent back to the default landing route.
 3. Public routes are always allowed.
 4. Auth routes (login/register/...) redirect already-authenticated users
    to the default landing route.
 5. Anything else requires authentication; anonymous visitors are redirected
    to the login page with the original destination as callbackUrl.
*/
package routepolicy

import (
	"net/url"
	"strings"

	"github.com/trannhat/mangahive/internal/platform/sec"
)

// Action is the gate's verdict for a request.
type Action int

const (
	// ActionAllow lets the request through to the underlying handler.
	ActionAllow Action = iota
	// ActionRedirect sends the client to Decision.Location instead.
	ActionRedirect
)

// Decision is the outcome of evaluating the gate for one request.
type Decision struct {
	Action Action
	// Location is the redirect target. Empty unless Action is ActionRedirect.
	Location string
}

// allow is the zero-value pass-through decision.
var allow = Decision{Action: ActionAllow}

// Policy holds the static route tables the gate is evaluated against.
type Policy struct {
	// PublicRoutes are exact paths accessible without authentication.
	PublicRoutes []string
	// PublicPrefixes are path prefixes reserved for freely readable content.
	PublicPrefixes []string
	// AuthRoutes are the login/register/reset pages. Authenticated users are
	// redirected away from them.
	AuthRoutes []string
	// AdminPrefixes are page prefixes reserved for catalog management.
	AdminPrefixes []string
	// APIPrefix marks routes the gate bypasses entirely.
	APIPrefix string
	// LoginRoute is where anonymous visitors are sent.
	LoginRoute string
	// DefaultRoute is the landing page after login and the fallback target
	// for visitors lacking a required role.
	DefaultRoute string
}

// Default returns the production route tables.
func Default() Policy {
	return Policy{
		PublicRoutes: []string{
			"/",
			// Orchestration probes carry no session and must never be
			// redirected to the login page.
			"/health",
			"/ready",
			"/about",
			"/contact",
			"/terms-of-service",
			"/privacy-policy",
		},
		PublicPrefixes: []string{
			"/manga-chapters/",
		},
		AuthRoutes: []string{
			"/login",
			"/register",
			"/error",
			"/reset",
			"/new-password",
		},
		AdminPrefixes: []string{
			"/admin",
			"/uploads",
		},
		APIPrefix:    "/api/",
		LoginRoute:   "/login",
		DefaultRoute: "/",
	}
}

// Evaluate decides whether a request may proceed.
//
// rawQuery is the un-parsed query string (may be empty). It is only used to
// build the callbackUrl for login redirects, so the login flow can return
// the visitor to their original destination.
func (p Policy) Evaluate(path, rawQuery string, authenticated bool, role sec.Role) Decision {
	// 1. API traffic is gated per endpoint, not per page.
	if strings.HasPrefix(path, p.APIPrefix) {
		return allow
	}

	// 2. Management pages demand the upload capability. This is checked
	// before the public-prefix rule so that management sub-pages nested
	// under public prefixes stay gated.
	if p.isAdminPage(path) {
		if !authenticated {
			return p.redirectToLogin(path, rawQuery)
		}
		if !role.Can(sec.CapUploadManga) {
			return Decision{Action: ActionRedirect, Location: p.DefaultRoute}
		}
		return allow
	}

	// 3. Freely readable content.
	if p.isPublicRoute(path) {
		return allow
	}

	// 4. Login/register pages bounce users who already have a session.
	if p.isAuthRoute(path) {
		if authenticated {
			return Decision{Action: ActionRedirect, Location: p.DefaultRoute}
		}
		return allow
	}

	// 5. Everything else requires a session.
	if !authenticated {
		return p.redirectToLogin(path, rawQuery)
	}

	return allow
}

// redirectToLogin builds the login redirect carrying the original
// destination (path plus query string) as an encoded callbackUrl.
func (p Policy) redirectToLogin(path, rawQuery string) Decision {
	callbackURL := path
	if rawQuery != "" {
		callbackURL += "?" + rawQuery
	}

	return Decision{
		Action:   ActionRedirect,
		Location: p.LoginRoute + "?callbackUrl=" + url.QueryEscape(callbackURL),
	}
}

// isPublicRoute reports whether the path is freely readable.
func (p Policy) isPublicRoute(path string) bool {
	for _, route := range p.PublicRoutes {
		if path == route {
			return true
		}
	}
	for _, prefix := range p.PublicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// isAuthRoute reports whether the path is a login/register/reset page.
func (p Policy) isAuthRoute(path string) bool {
	for _, route := range p.AuthRoutes {
		if path == route {
			return true
		}
	}
	return false
}

// isAdminPage reports whether the path belongs to catalog management.
//
// Chapter management pages live under the otherwise-public reader prefix,
// so the "/add-chapter" suffix is matched explicitly.
func (p Policy) isAdminPage(path string) bool {
	for _, prefix := range p.AdminPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return strings.HasSuffix(path, "/add-chapter")
}
