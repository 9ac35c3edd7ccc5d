// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trannhat/mangahive/internal/auth"
	"github.com/trannhat/mangahive/internal/platform/apperr"
	"github.com/trannhat/mangahive/internal/platform/sec"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	byID    map[string]*auth.User
	byEmail map[string]*auth.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*auth.User),
		byEmail: make(map[string]*auth.User),
	}
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User not found")
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	if user, ok := f.byEmail[email]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User not found with this email")
}

func (f *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID, newHash string) error {
	if user, ok := f.byID[userID]; ok {
		user.PasswordHash = newHash
	}
	return nil
}

// fakeResetRepo is an in-memory ResetTokenRepository.
type fakeResetRepo struct {
	tokens map[string]string
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]string)}
}

func (f *fakeResetRepo) Set(_ context.Context, tokenHash, userID string, _ time.Duration) error {
	f.tokens[tokenHash] = userID
	return nil
}

func (f *fakeResetRepo) Get(_ context.Context, tokenHash string) (string, error) {
	if userID, ok := f.tokens[tokenHash]; ok {
		return userID, nil
	}
	return "", apperr.NotFound("Reset token is invalid or expired")
}

func (f *fakeResetRepo) Delete(_ context.Context, tokenHash string) error {
	delete(f.tokens, tokenHash)
	return nil
}

// fakeTokenProvider returns a deterministic token string.
type fakeTokenProvider struct {
	lastRole string
}

func (f *fakeTokenProvider) GenerateSessionToken(userID, displayName, role string, _ time.Duration) (string, error) {
	f.lastRole = role
	return "signed." + userID, nil
}

func newTestService() (*auth.Service, *fakeUserRepo, *fakeResetRepo, *fakeTokenProvider) {
	users := newFakeUserRepo()
	resets := newFakeResetRepo()
	tokens := &fakeTokenProvider{}
	return auth.NewService(users, resets, tokens), users, resets, tokens
}

func TestService_Register_DefaultsToUserRole(t *testing.T) {
	service, _, _, _ := newTestService()

	user, err := service.Register(context.Background(), auth.RegisterInput{
		Email:       "reader@example.com",
		Password:    "correct horse battery",
		DisplayName: "Reader",
	})

	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)
}

func TestService_Register_DuplicateEmailConflicts(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Email: "dup@example.com", Password: "password123", DisplayName: "First",
	})
	require.NoError(t, err)

	_, err = service.Register(context.Background(), auth.RegisterInput{
		Email: "dup@example.com", Password: "password456", DisplayName: "Second",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

func TestService_Login(t *testing.T) {
	service, _, _, tokens := newTestService()

	registered, err := service.Register(context.Background(), auth.RegisterInput{
		Email: "login@example.com", Password: "password123", DisplayName: "Login",
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{"valid_credentials", "login@example.com", "password123", false},
		{"wrong_password", "login@example.com", "not-the-password", true},
		{"unknown_email", "ghost@example.com", "password123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := service.Login(context.Background(), auth.LoginInput{
				Email:    tt.email,
				Password: tt.password,
			})

			if tt.wantErr {
				require.Error(t, err)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				// Same generic code for both failure modes; no enumeration.
				assert.Equal(t, "UNAUTHORIZED", ae.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "signed."+registered.ID, session.SessionToken)
			assert.Equal(t, string(sec.RoleUser), tokens.lastRole)
			assert.True(t, session.ExpiresAt.After(time.Now()))
		})
	}
}

func TestService_PasswordReset_RoundTrip(t *testing.T) {
	service, users, resets, _ := newTestService()

	registered, err := service.Register(context.Background(), auth.RegisterInput{
		Email: "reset@example.com", Password: "oldpassword", DisplayName: "Reset",
	})
	require.NoError(t, err)
	oldHash := registered.PasswordHash

	require.NoError(t, service.RequestPasswordReset(context.Background(), "reset@example.com"))
	require.Len(t, resets.tokens, 1)

	// Unknown raw tokens must be rejected.
	err = service.ResetPassword(context.Background(), "not-a-real-token", "newpassword1")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	// Seed a token as if it was delivered to the user, then consume it.
	const rawToken = "delivered-reset-token"
	require.NoError(t, resets.Set(context.Background(), sec.HashToken(rawToken), registered.ID, time.Minute))

	require.NoError(t, service.ResetPassword(context.Background(), rawToken, "newpassword1"))
	assert.NotEqual(t, oldHash, users.byID[registered.ID].PasswordHash)

	// A consumed token never resets a password twice.
	err = service.ResetPassword(context.Background(), rawToken, "anotherpassword")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

func TestService_RequestPasswordReset_UnknownEmailSucceeds(t *testing.T) {
	service, _, resets, _ := newTestService()

	err := service.RequestPasswordReset(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.Empty(t, resets.tokens)
}
