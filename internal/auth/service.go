// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

// Package auth implements the account lifecycle use cases.
//
// # Architecture
//
// The service orchestrates domain entities and interacts with repositories
// through interfaces. It is technology-agnostic and does not know about
// HTTP or SQL.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/trannhat/mangahive/internal/platform/apperr"
	"github.com/trannhat/mangahive/internal/platform/constants"
	"github.com/trannhat/mangahive/internal/platform/sec"
	"github.com/trannhat/mangahive/pkg/uuidv7"
)

// TokenProvider defines the contract for generating session tokens.
type TokenProvider interface {
	// GenerateSessionToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - displayName: The display name embedded in the claims.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an error if signing fails.
	GenerateSessionToken(userID, displayName, role string, timeToLive time.Duration) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository  UserRepository
	resetRepository ResetTokenRepository
	tokenProvider   TokenProvider
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	resetRepo ResetTokenRepository,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		userRepository:  userRepo,
		resetRepository: resetRepo,
		tokenProvider:   tokenProv,
	}
}

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// Register validates, hashes, and persists a brand new user account.
//
// # Parameters
//   - context: Context for the database operation.
//   - input: The user-provided registration details.
//
// # Returns
//   - A pointer to the newly created [*User].
//   - Returns [apperr.Conflict] if the email already exists.
//
// # Business Rules
//   - Emails must be unique.
//   - Default role is always USER; admin accounts are promoted out-of-band.
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	// ── 1. Uniqueness Check ───────────────────────────────────────────────

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// ── 2. Security ───────────────────────────────────────────────────────

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// ── 3. Entity Construction ────────────────────────────────────────────

	user := &User{
		ID:           uuidv7.New(), // Time-sortable ID to prevent PG index fragmentation.
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  input.DisplayName,
		Role:         sec.RoleUser, // Rule: Default role is always USER
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user, nil
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	SessionToken string
	ExpiresAt    time.Time
	User         *User
}

// Login validates user credentials and issues a session token.
//
// # Parameters
//   - context: Context for the database operation.
//   - input: Contains Email and plain-text Password.
//
// # Returns
//   - A pointer to [LoginSession] containing the signed SessionToken.
//   - Returns [apperr.Unauthorized] if credentials do not match.
//
// # Flow
//  1. Lookup user by email.
//  2. Verify password hash using Bcrypt.
//  3. Generate the JWT session token carrying uid/unm/rol claims.
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	// ── 1. Fetch User Profile ─────────────────────────────────────────────

	user, err := service.userRepository.FindByEmail(context, input.Email)

	// Return generic unauthorized error to prevent email enumeration attacks.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// ── 2. Security Verification ──────────────────────────────────────────

	// Prevent timing attacks by always using constant-time comparison in bcrypt.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// ── 3. Token Issuance ─────────────────────────────────────────────────

	expiresAt := time.Now().Add(constants.SessionTokenTTL)
	sessionToken, err := service.tokenProvider.GenerateSessionToken(
		user.ID, user.DisplayName, string(user.Role), constants.SessionTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &LoginSession{
		SessionToken: sessionToken,
		ExpiresAt:    expiresAt,
		User:         user,
	}, nil
}

// CurrentUser resolves the full account profile for an authenticated session.
func (service *Service) CurrentUser(context context.Context, userID string) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RequestPasswordReset creates a short-lived reset token for the account.
//
// # Enumeration Safety
//
// The method succeeds even when the email is unknown, so callers cannot
// probe which addresses are registered. Token delivery (email) is out of
// scope; the token is only stored for later consumption by [ResetPassword].
func (service *Service) RequestPasswordReset(context context.Context, email string) error {
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		// Pretend success for unknown emails.
		return nil
	}

	token, err := sec.GenerateSecureToken(32)
	if err != nil {
		return fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	// Only the hash is stored so a Redis snapshot cannot be replayed.
	if err := service.resetRepository.Set(context, sec.HashToken(token), user.ID, constants.ResetTokenTTL); err != nil {
		return fmt.Errorf("auth_service_reset_store_failed: %w", err)
	}

	return nil
}

// ResetPassword consumes a reset token and replaces the account password.
//
// # Returns
//   - Returns [apperr.Unauthorized] if the token is unknown or expired.
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	tokenHash := sec.HashToken(token)

	userID, err := service.resetRepository.Get(context, tokenHash)
	if err != nil {
		return apperr.Unauthorized("Invalid or expired reset token")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_update_failed: %w", err)
	}

	// Single use: a consumed token must never reset a password twice.
	if err := service.resetRepository.Delete(context, tokenHash); err != nil {
		return fmt.Errorf("auth_service_reset_cleanup_failed: %w", err)
	}

	return nil
}
