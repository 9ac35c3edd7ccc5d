// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

// Package auth owns the user account entity and authentication use cases.
//
// # Architecture
//
// The entity in this file represents the "Truth" of the system. It has no
// dependencies on outer layers (databases, APIs) beyond the shared role
// vocabulary in [sec], which is also consumed by the route gate.
package auth

import (
	"time"

	"github.com/trannhat/mangahive/internal/platform/sec"
)

// User represents a registered member of the MangaHive platform.
//
// # Rules
//   - Email is unique and validated.
//   - PasswordHash is generated via Bcrypt exclusively via the auth Service.
//   - Role is one of the values defined in [sec]: ADMIN or USER.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string    `json:"name"`
	Role         sec.Role  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
