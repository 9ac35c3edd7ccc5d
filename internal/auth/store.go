// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

package auth

import (
	"context"
	"time"
)

// UserRepository defines the data access contract for user accounts.
//
// # Review Process
//
// This interface is placed in a separate file from user.go so entity changes
// and storage-contract changes can be reviewed independently by the team.
//
// # Implementations
//
// The canonical implementation for MangaHive is PostgreSQL.
type UserRepository interface {
	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email.
	//
	// Returns [apperr.NotFound] if no user is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a brand-new user account to the storage.
	//
	// Returns a wrapped error if the email unique constraint fails.
	Create(ctx context.Context, user *User) error

	// UpdatePassword replaces only the user's password hash.
	// This is separate from profile updates to prevent accidental
	// overwrites during unrelated changes.
	UpdatePassword(ctx context.Context, userID, newHash string) error
}

// ResetTokenRepository defines the contract for storing volatile password
// reset tokens.
//
// # Implementations
//
// Backed by Redis: entries expire without cleanup workers, and losing the
// store only invalidates in-flight reset requests.
type ResetTokenRepository interface {
	// Set stores a reset token hash associated with a userID for a limited duration.
	Set(ctx context.Context, tokenHash string, userID string, ttl time.Duration) error

	// Get retrieves the userID associated with a given reset token hash.
	//
	// Returns [apperr.NotFound] if the token is unknown or expired.
	Get(ctx context.Context, tokenHash string) (string, error)

	// Delete removes a reset token after successful use.
	Delete(ctx context.Context, tokenHash string) error
}
