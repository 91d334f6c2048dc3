package server

import (
	stderrors "errors"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/recycleview/pkg/buildinfo"
	"github.com/matzehuels/recycleview/pkg/errors"
	"github.com/matzehuels/recycleview/pkg/feed"
	"github.com/matzehuels/recycleview/pkg/masonry"
	"github.com/matzehuels/recycleview/pkg/render/sink"
)

// =============================================================================
// Request Types
// =============================================================================

type createRequest struct {
	Geometry *masonry.Geometry `json:"geometry,omitempty"`
	Viewport sizeRequest       `json:"viewport"`
	Offset   float64           `json:"offset"`
	Feed     feed.Config       `json:"feed"`
	// Wait holds the response until the feed has loaded.
	Wait bool `json:"wait"`
}

type sizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r sizeRequest) validate() error {
	if r.Width < 0 || r.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "viewport size must not be negative (got %gx%g)", r.Width, r.Height)
	}
	return nil
}

type scrollRequest struct {
	Offset float64 `json:"offset"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Version,
		"surfaces": s.Len(),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	infos := make([]surfaceInfo, 0, len(s.sessions))
	for _, sess := range s.sessions {
		infos = append(infos, sess.info())
	}
	s.mu.RUnlock()

	slices.SortFunc(infos, func(a, b surfaceInfo) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	writeJSON(w, http.StatusOK, map[string]any{"surfaces": infos})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(w, r, &req); err != nil && !stderrors.Is(err, io.EOF) {
		s.writeError(w, r, err)
		return
	}
	if err := req.Viewport.validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Feed.Kind == feed.KindFile && !s.opts.AllowFileFeeds {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFeed, "file feeds are disabled on this server"))
		return
	}
	geom := s.opts.Geometry
	if req.Geometry != nil {
		geom = *req.Geometry
	}
	if s.Len() >= s.opts.MaxSurfaces {
		s.writeError(w, r, s.limitError())
		return
	}

	req.Feed.TTL = s.opts.FeedTTL
	loader, err := feed.Open(r.Context(), req.Feed, s.opts.Cache, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := uuid.NewString()
	sess, err := newSession(s.ctx, id, geom, loader, s.logger, s.now)
	if err != nil {
		_ = loader.Close()
		s.writeError(w, r, err)
		return
	}
	sess.surface.Resize(req.Viewport.Width, req.Viewport.Height)

	if !s.register(sess) {
		sess.close()
		s.writeError(w, r, s.limitError())
		return
	}

	sess.start(s.ctx, req.Offset)
	s.logger.Info("created surface", "id", id, "feed", loader.Kind()+":"+loader.Location())

	if req.Wait {
		if err := sess.wait(r.Context()); err != nil {
			s.remove(id)
			s.writeError(w, r, err)
			return
		}
	}

	w.Header().Set("Location", "/v1/surfaces/"+id)
	writeJSON(w, http.StatusCreated, sess.info())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.info())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.remove(sess.id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req scrollRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.surface.Scroll(req.Offset)
	writeJSON(w, http.StatusOK, sink.NewDocument(sess.engine.Layout(), sink.WithStats(sess.engine.Stats())))
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req sizeRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.surface.Resize(req.Width, req.Height)
	writeJSON(w, http.StatusOK, sink.NewDocument(sess.engine.Layout(), sink.WithStats(sess.engine.Stats())))
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = sink.FormatJSON
	}
	if err := sink.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := sink.Render(r.Context(), sess.engine.Layout(), format, sess.engine.Stats())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", sink.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Session Registry
// =============================================================================

// lookup resolves the {id} URL parameter and marks the session as used.
func (s *Server) lookup(r *http.Request) (*session, error) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeSurfaceNotFound, "surface %q not found", id)
	}

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeSurfaceNotFound, "surface %q not found", id)
	}
	sess.touch()
	return sess, nil
}

// register adds sess unless the surface limit is reached. The check and the
// insert happen under one lock.
func (s *Server) register(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions) >= s.opts.MaxSurfaces {
		return false
	}
	s.sessions[sess.id] = sess
	return true
}

func (s *Server) limitError() error {
	return errors.New(errors.ErrCodeRateLimited, "surface limit of %d reached", s.opts.MaxSurfaces)
}

func (s *Server) remove(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		sess.close()
		s.logger.Info("deleted surface", "id", id)
	}
}
