// Package server exposes the shuffle pipeline over HTTP.
//
// Routes:
//
//	POST /v1/shuffle?seed=N&tracker=bool&attempts=N   TOML body → JSON result
//	POST /v1/check?tracker=bool                       TOML body → JSON reduction report
//	POST /v1/graph?format=svg|dot&seed=N&place=bool   TOML body → diagram
//	GET  /healthz
//
// Errors are JSON objects {"code": ..., "message": ...} with the status
// given by errors.HTTPStatus.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/itemshuffle/pkg/cache"
	"github.com/matzehuels/itemshuffle/pkg/shuffle"
)

// Server serves the HTTP API.
type Server struct {
	cfg    Config
	runner *shuffle.Runner
	log    *log.Logger
}

// New creates a server. A nil runner gets a cache chosen from cfg.
func New(ctx context.Context, cfg Config, runner *shuffle.Runner, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		var c cache.Cache = cache.NewNullCache()
		if cfg.RedisURL != "" {
			rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
			if err != nil {
				return nil, err
			}
			c = rc
		}
		runner = shuffle.NewRunner(c, nil, logger)
	}
	return &Server{cfg: cfg, runner: runner, log: logger}, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/shuffle", s.handleShuffle)
		r.Post("/check", s.handleCheck)
		r.Post("/graph", s.handleGraph)
	})
	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down", "timeout", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return s.runner.Close()
}
