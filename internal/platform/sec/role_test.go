// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trannhat/mangahive/internal/platform/sec"
)

/*
TestRole_Can verifies the central capability check used by handlers,
middleware, and the route gate.
*/
func TestRole_Can(t *testing.T) {
	tests := []struct {
		name       string
		role       sec.Role
		capability sec.Capability
		allowed    bool
	}{
		{"admin_can_upload", sec.RoleAdmin, sec.CapUploadManga, true},
		{"admin_can_manage_chapters", sec.RoleAdmin, sec.CapManageChapters, true},
		{"user_cannot_upload", sec.RoleUser, sec.CapUploadManga, false},
		{"user_cannot_manage_chapters", sec.RoleUser, sec.CapManageChapters, false},
		{"unknown_role_denied", sec.Role("guest"), sec.CapUploadManga, false},
		{"unknown_capability_denied", sec.RoleAdmin, sec.Capability("delete_everything"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.role.Can(tt.capability))
		})
	}
}

/*
TestRole_IsValid checks that only the two known tiers are accepted.
*/
func TestRole_IsValid(t *testing.T) {
	assert.True(t, sec.RoleAdmin.IsValid())
	assert.True(t, sec.RoleUser.IsValid())
	assert.False(t, sec.Role("").IsValid())
	assert.False(t, sec.Role("moderator").IsValid())
}
