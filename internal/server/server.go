// Package server exposes masonry engines over HTTP.
//
// Each surface is a session owning one engine and the emitter that stands in
// for a client's scroll container. Clients report scroll and resize events
// and read back layout snapshots as JSON, SVG, DOT, or rendered images.
//
// # Routes
//
//	GET    /healthz
//	GET    /v1/surfaces
//	POST   /v1/surfaces
//	GET    /v1/surfaces/{id}
//	DELETE /v1/surfaces/{id}
//	POST   /v1/surfaces/{id}/scroll
//	POST   /v1/surfaces/{id}/resize
//	GET    /v1/surfaces/{id}/layout?format=json|svg|dot|png|jpg
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/recycleview/pkg/cache"
	"github.com/matzehuels/recycleview/pkg/masonry"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultMaxSurfaces bounds the number of live sessions.
	DefaultMaxSurfaces = 256

	// DefaultIdleTimeout is how long a session may go untouched before it
	// is unmounted and dropped.
	DefaultIdleTimeout = 30 * time.Minute

	shutdownTimeout = 10 * time.Second
	requestTimeout  = 60 * time.Second
	maxBodyBytes    = 1 << 20
)

// Options configures a [Server].
type Options struct {
	// Geometry is used for surfaces created without one.
	Geometry masonry.Geometry
	// Cache backs remote feeds. Nil disables feed caching.
	Cache cache.Cache

	// FeedTTL is how long cached feeds live. Zero means [cache.FeedTTL].
	FeedTTL time.Duration
	// MaxSurfaces bounds live sessions. Zero means DefaultMaxSurfaces.
	MaxSurfaces int
	// IdleTimeout drops sessions untouched for this long. Zero means
	// DefaultIdleTimeout.
	IdleTimeout time.Duration
	// AllowFileFeeds lets clients load feeds from the server's filesystem.
	AllowFileFeeds bool
	// Logger receives request and session logs. Defaults to a discarding logger.
	Logger *log.Logger
}

// Server holds the surface sessions and the router.
type Server struct {
	opts   Options
	logger *log.Logger
	router chi.Router

	// ctx outlives requests; loads started by a request run under it.
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	sessions map[string]*session
	now      func() time.Time
}

// New builds a server. Call [Server.Close] to unmount every session.
func New(opts Options) *Server {
	if opts.Geometry == (masonry.Geometry{}) {
		opts.Geometry = masonry.Geometry{
			MinWidth:  masonry.DefaultMinWidth,
			MinHeight: masonry.DefaultMinHeight,
			Gap:       masonry.DefaultGap,
		}
	}
	if opts.MaxSurfaces <= 0 {
		opts.MaxSurfaces = DefaultMaxSurfaces
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		opts:     opts,
		logger:   opts.Logger,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*session),
		now:      time.Now,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/surfaces", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/scroll", s.handleScroll)
			r.Post("/resize", s.handleResize)
			r.Get("/layout", s.handleLayout)
		})
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and unmounts all sessions. Idle sessions are reaped while
// serving.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.reapLoop(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	s.logger.Info("server stopped")
	if err != nil {
		return err
	}
	return ctx.Err()
}

// Close unmounts every session and cancels pending loads.
func (s *Server) Close() {
	s.cancel()
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
	if len(sessions) > 0 {
		s.logger.Debug("closed sessions", "count", len(sessions))
	}
}

// Len returns the number of live sessions.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Server) reapLoop(ctx context.Context) {
	ticker := time.NewTicker(max(s.opts.IdleTimeout/4, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reap()
		}
	}
}

// reap drops sessions idle for longer than the idle timeout.
func (s *Server) reap() int {
	cutoff := s.now().Add(-s.opts.IdleTimeout)

	s.mu.Lock()
	var stale []*session
	for id, sess := range s.sessions {
		if sess.lastSeen().Before(cutoff) {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		sess.close()
		s.logger.Debug("reaped idle surface", "id", sess.id)
	}
	return len(stale)
}

// logRequests logs each request at debug level with its status and latency.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
