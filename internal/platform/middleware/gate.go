// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

package middleware

import (
	"net/http"
	"path"

	"github.com/trannhat/mangahive/internal/platform/ctxutil"
	"github.com/trannhat/mangahive/internal/platform/routepolicy"
	"github.com/trannhat/mangahive/internal/platform/sec"
)

// # Route Gate

// Gate evaluates every page navigation against the route access policy and
// issues redirects for traffic that is not allowed to proceed.
//
// It must run AFTER Authenticate so that the session claims are available,
// and BEFORE the page handlers so that gated pages are never reached by
// unauthorized visitors. API routes are exempted by the policy itself and
// rely on endpoint-level RequireAuth / RequireCapability instead.
func Gate(policy routepolicy.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			claims := ctxutil.GetSession(request.Context())

			authenticated := claims != nil
			role := sec.Role("")
			if claims != nil {
				role = sec.Role(claims.Role)
			}

			// The policy matches on exact paths and prefixes, so the gate
			// must not be fooled by un-normalized forms like "//uploads".
			decision := policy.Evaluate(path.Clean(request.URL.Path), request.URL.RawQuery, authenticated, role)

			if decision.Action == routepolicy.ActionRedirect {
				http.Redirect(writer, request, decision.Location, http.StatusFound)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
