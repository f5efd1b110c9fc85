// Package server exposes the knowledge store over HTTP. Every
// endpoint returns exactly one response envelope: raw store output is
// piped through the canon standardizers and validator before it is
// serialized, so callers only ever see canonical shapes.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/satchel/pkg/canon"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

// Server is the HTTP protocol adapter.
type Server struct {
	store    types.Store
	pipeline *canon.Pipeline
	logger   *zap.Logger
	addr     string
}

// Config holds construction parameters for the server.
type Config struct {
	Store  types.Store
	Addr   string
	Logger *zap.Logger
}

// New creates a Server. A nil logger disables diagnostics.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		store:    cfg.Store,
		pipeline: canon.NewPipeline(logger),
		logger:   logger,
		addr:     cfg.Addr,
	}
}

// Routes builds the HTTP handler. Exposed separately so tests can
// drive the mux without binding a listener.
func (s *Server) Routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Recoverer,
		s.requestLogger,
	)

	r.Route("/api", func(r chi.Router) {
		r.Get("/people", s.handleListPeople)
		r.Post("/people", s.handleAddPerson)
		r.Get("/people/{id}", s.handlePersonDetails)
		r.Post("/people/{id}/traits", s.handleAssignTrait)
		r.Post("/people/{id}/attributes", s.handleSetAttribute)
		r.Post("/relations", s.handleAddRelation)
		r.Get("/types/{name}", s.handleTypeDescriptor)
	})
	return r
}

// Serve starts the HTTP server and blocks until the context is
// cancelled or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting satchel server", zap.String("addr", s.addr))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Debug("shutting down satchel server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// requestLogger tags each request with an id and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			zap.String("request_id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
