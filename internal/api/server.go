// Copyright (c) 2026 MangaHive. All rights reserved.
// Author: nhat.trandinh.vn@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/trannhat/mangahive/internal/auth"
	"github.com/trannhat/mangahive/internal/core/chapter"
	"github.com/trannhat/mangahive/internal/core/manga"
	"github.com/trannhat/mangahive/internal/platform/config"
	"github.com/trannhat/mangahive/internal/platform/constants"
	"github.com/trannhat/mangahive/internal/platform/middleware"
	"github.com/trannhat/mangahive/internal/platform/routepolicy"
	"github.com/trannhat/mangahive/internal/platform/sec"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the account lifecycle (register, login, reset).
	Auth *auth.Handler

	// Manga handles the catalog listing and the upload intake.
	Manga *manga.Handler

	// Chapter handles chapter reads and the add-chapter intake.
	Chapter *chapter.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// The route gate runs after Authenticate so page navigation is evaluated
// with session claims in hand; API routes bypass the gate and rely on
// per-route RequireCapability middleware instead.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution. CleanPath runs first
	// so everything downstream routes on canonical paths; the gate runs last,
	// after Authenticate has attached session claims.
	r.Use(chimw.CleanPath)
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.Gate(routepolicy.Default()))

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api", func(api chi.Router) {

		// Catalog and chapters.
		api.Route("/manga", func(mangaRouter chi.Router) {
			mangaRouter.Get("/", h.Manga.List)

			mangaRouter.
				With(middleware.RequireCapability(sec.CapManageChapters)).
				Post("/add-chapter", h.Chapter.Add)

			mangaRouter.Route("/{mangaId}", func(sub chi.Router) {
				sub.Get("/", h.Manga.Get)
				sub.Mount("/chapters", h.Chapter.Routes())
			})
		})

		// Manga intake.
		api.
			With(middleware.RequireCapability(sec.CapUploadManga)).
			Post("/upload-manga", h.Manga.Upload)

		// Account lifecycle.
		api.Mount("/", h.Auth.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
