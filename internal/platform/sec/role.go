// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

package sec

// # User Roles

// Role represents the authorization tier granted to an account.
type Role string

const (
	// Can upload manga, add chapters, and manage the catalog
	RoleAdmin Role = "ADMIN"

	// Default role for standard registered readers
	RoleUser Role = "USER"
)

// # Capabilities

// Capability names a privileged action a role may or may not perform.
//
// Handlers, middleware, and the route gate all consult the same
// [Role.Can] check so that UI gating and server-side enforcement
// cannot drift apart.
type Capability string

const (
	// CapUploadManga allows creating new manga entries with a first chapter.
	CapUploadManga Capability = "upload_manga"

	// CapManageChapters allows appending chapters to an existing manga.
	CapManageChapters Capability = "manage_chapters"
)

// Can reports whether the role is permitted to perform the capability.
func (r Role) Can(capability Capability) bool {
	switch capability {
	case CapUploadManga, CapManageChapters:
		return r == RoleAdmin
	default:
		return false
	}
}

// IsValid reports whether the role is one of the known tiers.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}
