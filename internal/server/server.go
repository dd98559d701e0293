// Package server implements the refdag HTTP API.
//
// The API exposes graph analysis as a small REST surface: submit a graph
// declaration, get back the stored analysis (cycle or topological order),
// and fetch rendered DOT or SVG for any stored graph. Analysis documents
// live in a pluggable [store.Store]; rendered artifacts go through a
// [cache.Cache].
//
// # Endpoints
//
//	POST   /graphs            submit a graph declaration, returns the analysis record
//	GET    /graphs            list stored records, newest first
//	GET    /graphs/{id}       fetch one record
//	DELETE /graphs/{id}       remove a record
//	GET    /graphs/{id}/dot   DOT source for the stored graph
//	GET    /graphs/{id}/svg   rendered SVG for the stored graph
//	GET    /healthz           liveness probe
//
// Declarations with dangling edge references are rejected with 422 and a
// body naming the unresolved identifiers.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/driftlab/refdag/pkg/cache"
	"github.com/driftlab/refdag/pkg/store"
)

// Config holds server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// RenderTTL bounds how long rendered artifacts stay cached.
	// Zero means no expiration.
	RenderTTL time.Duration
}

// Server ties the router to its backends.
type Server struct {
	store     store.Store
	cache     cache.Cache
	logger    *log.Logger
	renderTTL time.Duration
	http      *http.Server
}

// New creates a server. The store is required; a nil cache disables
// artifact caching and a nil logger falls back to the default logger.
func New(cfg Config, st store.Store, c cache.Cache, logger *log.Logger) *Server {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		store:     st,
		cache:     c,
		logger:    logger,
		renderTTL: cfg.RenderTTL,
	}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the chi router. Exposed separately so tests can drive the
// handlers without a listening socket.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/graphs", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/dot", s.handleDOT)
			r.Get("/svg", s.handleSVG)
		})
	})
	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully with a short drain window.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
