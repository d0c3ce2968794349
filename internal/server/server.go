// Package server exposes the detection engine over HTTP for editor
// front-ends.
//
// Stateless endpoints detect, resolve and report on a document sent in the
// request body. Editors that type continuously open a session instead: the
// session owns a single-entry detection cache, so the keystroke-driven
// detect and hover calls of one editor share work without evicting another
// editor's result.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/baseline/pkg/cache"
	"github.com/matzehuels/baseline/pkg/detect"
	"github.com/matzehuels/baseline/pkg/integrations/webstatus"
	"github.com/matzehuels/baseline/pkg/session"
)

const (
	defaultRequestTimeout = 30 * time.Second
	shutdownTimeout       = 5 * time.Second
	cleanupInterval       = time.Minute
)

// Catalog is the part of the metadata client the explorer endpoints use.
// *webstatus.Client implements it.
type Catalog interface {
	Catalog(ctx context.Context) ([]webstatus.Feature, error)
}

// Options configures a Server.
type Options struct {
	RequestTimeout time.Duration
	Logger         *log.Logger

	// Cache is the catalog cache tier. When it can drop expired entries
	// (the in-process memory cache), Run sweeps it with the sessions.
	Cache cache.Cache
}

type expirer interface {
	Expire() int
}

// Server is the HTTP API.
type Server struct {
	detector *detect.Detector
	catalog  Catalog
	sessions session.Store
	cache    cache.Cache
	logger   *log.Logger
	timeout  time.Duration
	router   chi.Router
}

// New builds the server and its routes.
func New(d *detect.Detector, catalog Catalog, sessions session.Store, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	s := &Server{
		detector: d,
		catalog:  catalog,
		sessions: sessions,
		cache:    opts.Cache,
		logger:   opts.Logger,
		timeout:  opts.RequestTimeout,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/detect", s.handleDetect)
		r.Post("/resolve", s.handleResolve)
		r.Post("/report", s.handleReport)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Use(s.loadSession)
			r.Post("/detect", s.handleSessionDetect)
			r.Get("/resolve", s.handleSessionResolve)
			r.Delete("/cache", s.handleSessionClear)
			r.Delete("/", s.handleDeleteSession)
		})

		r.Get("/features", s.handleFeatures)
		r.Get("/features/stats", s.handleStats)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is done, then shuts down gracefully. It also
// sweeps expired sessions and cache entries in the background.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go session.RunCleanup(ctx, s.sessions, cleanupInterval, s.logger)
	go s.sweepCache(ctx, cleanupInterval)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) sweepCache(ctx context.Context, interval time.Duration) {
	if _, ok := s.cache.(expirer); !ok {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.expireCache()
		}
	}
}

// expireCache drops expired catalog cache entries and returns how many went.
func (s *Server) expireCache() int {
	e, ok := s.cache.(expirer)
	if !ok {
		return 0
	}
	n := e.Expire()
	if n > 0 {
		s.logger.Debug("expired cache entries removed", "count", n)
	}
	return n
}
