// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trannhat/mangahive/internal/platform/ctxutil"
	"github.com/trannhat/mangahive/internal/platform/middleware"
	"github.com/trannhat/mangahive/internal/platform/sec"
)

/*
TestRequireCapability verifies the 401/403 split: anonymous callers are
unauthorized, authenticated callers without the capability are forbidden,
and admins pass through to the handler.
*/
func TestRequireCapability(t *testing.T) {
	next := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	})
	guarded := middleware.RequireCapability(sec.CapUploadManga)(next)

	tests := []struct {
		name       string
		claims     *sec.SessionClaims
		wantStatus int
		wantCode   string
	}{
		{"anonymous_unauthorized", nil, http.StatusUnauthorized, "UNAUTHORIZED"},
		{
			"user_forbidden",
			&sec.SessionClaims{UserID: "u1", Role: string(sec.RoleUser)},
			http.StatusForbidden, "FORBIDDEN",
		},
		{
			"admin_allowed",
			&sec.SessionClaims{UserID: "a1", Role: string(sec.RoleAdmin)},
			http.StatusNoContent, "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/api/upload-manga", nil)
			if tt.claims != nil {
				ctx := ctxutil.WithSession(request.Context(), tt.claims)
				request = request.WithContext(ctx)
			}

			recorder := httptest.NewRecorder()
			guarded.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantCode != "" {
				assert.Contains(t, recorder.Body.String(), tt.wantCode)
			}
		})
	}
}
