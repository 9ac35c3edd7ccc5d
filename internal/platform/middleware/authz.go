// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

package middleware

import (
	"net/http"

	"github.com/trannhat/mangahive/internal/platform/apperr"
	"github.com/trannhat/mangahive/internal/platform/constants"
	"github.com/trannhat/mangahive/internal/platform/ctxutil"
	"github.com/trannhat/mangahive/internal/platform/respond"
	"github.com/trannhat/mangahive/internal/platform/sec"
)

// # Authentication & Authorization

// TokenVerifier validates a raw session token and returns its claims.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.SessionClaims, error)
}

// Authenticate extracts the session token from the request and, if valid,
// stores the claims in the context. It never rejects the request itself:
// anonymous traffic passes through untouched so that public endpoints and
// the route gate can apply their own policy.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			tokenString := extractToken(request)
			if tokenString == "" {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := verifier.VerifyToken(tokenString)
			if err != nil {
				// An invalid or expired token is treated as anonymous traffic.
				// Endpoints that require auth will still reject downstream.
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithSession(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// extractToken looks for the session token in the Authorization header first,
// then falls back to the session cookie set at login. The cookie fallback is
// what lets plain browser navigation carry authentication state.
func extractToken(request *http.Request) string {
	const bearerPrefix = "Bearer "

	header := request.Header.Get("Authorization")
	if len(header) > len(bearerPrefix) && header[:len(bearerPrefix)] == bearerPrefix {
		return header[len(bearerPrefix):]
	}

	cookie, err := request.Cookie(constants.SessionCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}

// RequireAuth rejects anonymous requests with 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetSession(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireCapability enforces that the authenticated user's role grants the
// given capability. Anonymous requests get 401, authenticated users whose
// role lacks the capability get 403.
func RequireCapability(capability sec.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			claims := ctxutil.GetSession(request.Context())
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !sec.Role(claims.Role).Can(capability) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
