// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

// HTTP delivery layer for the account lifecycle.
//
// # Architecture
//
// Handlers act as the "gatekeepers" to the system. They are responsible for:
//   - JSON Request parsing and strict input validation.
//   - Mapping HTTP contexts to service layer method calls.
//   - Standardizing JSON response formats via the [respond] package.
//
// They contain NO business logic or database queries.
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/trannhat/mangahive/internal/platform/constants"
	requestutil "github.com/trannhat/mangahive/internal/platform/request"
	"github.com/trannhat/mangahive/internal/platform/respond"
	"github.com/trannhat/mangahive/internal/platform/validate"
)

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Registration, Login, Logout, Password Reset, current-session lookup).
type Handler struct {
	authService   *Service
	secureCookies bool
}

// NewHandler constructs a new [Handler] with its service dependency.
// secureCookies should be true outside local development so the session
// cookie is only ever sent over TLS.
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{authService: service, secureCookies: secureCookies}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register     : Creates a new account.
//   - POST /login        : Authenticates and returns a session token.
//   - POST /logout       : Clears the session cookie.
//   - GET  /me           : Returns the authenticated user's profile.
//   - POST /reset        : Starts a password reset.
//   - POST /new-password : Completes a password reset.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Get("/me", handler.me)
	router.Post("/reset", handler.reset)
	router.Post("/new-password", handler.newPassword)

	return router
}

// registerRequest represents the JSON payload expected for account creation.
type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"name"`
}

// register handles POST /api/register requests.
//
// # Returns
//   - Writes HTTP 201 Created on success with the User profile.
//   - Writes HTTP 400 Bad Request if validation rules fail.
//   - Writes HTTP 409 Conflict if the email is taken.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.
		Required("email", input.Email).
		Email("email", input.Email).
		MinLen("password", input.Password, 8).
		Required("name", input.DisplayName).
		MaxLen("name", input.DisplayName, 100)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
	})

	// Service handles uniqueness checks and Bcrypt hashing.
	// If it fails, we simply pass the domain error to the respond helper
	// which will automatically map it to the correct HTTP status code.
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	respond.Created(writer, user)
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles POST /api/login requests.
//
// # Returns
//   - Writes HTTP 200 OK on success with the token and User profile, and
//     sets the session cookie consumed by the route gate.
//   - Writes HTTP 401 Unauthorized for bad credentials.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	if input.Email == "" || input.Password == "" {
		respond.Error(writer, request, validate.RequiredError("email/password", "are required"))
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		// Returns HTTP 401 Unauthorized without leaking the reason
		// (wrong password vs unknown email).
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Presentation Output ────────────────────────────────────────────

	// The cookie is what lets plain page navigation carry auth state through
	// the route gate; the JSON token serves API clients.
	handler.setSessionCookie(writer, session.SessionToken, session.ExpiresAt)

	respond.OK(writer, map[string]any{
		"token": session.SessionToken,
		"user":  session.User,
	})
}

// logout handles POST /api/logout requests by expiring the session cookie.
//
// Logout is idempotent: it succeeds whether or not a session was active.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.setSessionCookie(writer, "", time.Unix(0, 0))
	respond.NoContent(writer)
}

// me handles GET /api/me requests.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.CurrentUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// resetRequest represents the JSON payload to start a password reset.
type resetRequest struct {
	Email string `json:"email"`
}

// reset handles POST /api/reset requests.
//
// Always answers 200 OK so the endpoint cannot be used to probe which
// emails are registered.
func (handler *Handler) reset(writer http.ResponseWriter, request *http.Request) {
	var input resetRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.Required("email", input.Email).Email("email", input.Email).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
}

// newPasswordRequest represents the JSON payload to complete a password reset.
type newPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// newPassword handles POST /api/new-password requests.
func (handler *Handler) newPassword(writer http.ResponseWriter, request *http.Request) {
	var input newPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.
		Required("token", input.Token).
		MinLen("password", input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
}

// setSessionCookie writes (or clears) the httpOnly session cookie.
func (handler *Handler) setSessionCookie(writer http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
