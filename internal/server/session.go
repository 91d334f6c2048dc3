package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/recycleview/pkg/errors"
	"github.com/matzehuels/recycleview/pkg/feed"
	"github.com/matzehuels/recycleview/pkg/masonry"
)

// session is one remote surface: an engine mounted on an emitter that the
// HTTP handlers drive on the client's behalf.
type session struct {
	id      string
	engine  *masonry.Engine[feed.Card, feed.Card]
	surface *masonry.Emitter
	loader  feed.Loader
	created time.Time
	now     func() time.Time

	loaded chan struct{}

	mu      sync.Mutex
	loadErr error
	seen    time.Time
}

func newSession(ctx context.Context, id string, g masonry.Geometry, loader feed.Loader, logger *log.Logger, now func() time.Time) (*session, error) {
	engine, err := masonry.New(masonry.Options[feed.Card, feed.Card]{
		MinWidth:   g.MinWidth,
		MinHeight:  g.MinHeight,
		Gap:        g.Gap,
		RenderItem: func(c feed.Card) feed.Card { return c },
		Load:       loader.Load,
		Logger:     logger.With("surface", id),
	})
	if err != nil {
		return nil, err
	}

	surface := masonry.NewEmitter()
	if err := engine.Mount(ctx, surface); err != nil {
		return nil, err
	}

	t := now()
	return &session{
		id:      id,
		engine:  engine,
		surface: surface,
		loader:  loader,
		created: t,
		now:     now,
		loaded:  make(chan struct{}),
		seen:    t,
	}, nil
}

// start loads the feed in the background. A positive offset is applied once
// the items are in, since scrolling an empty surface clamps to zero.
func (s *session) start(ctx context.Context, offset float64) {
	done := s.engine.Start(ctx)
	go func() {
		err := <-done
		if err == nil && offset > 0 {
			s.surface.Scroll(offset)
		}
		s.mu.Lock()
		s.loadErr = err
		s.mu.Unlock()
		close(s.loaded)
	}()
}

// wait blocks until the load has finished or ctx is done.
func (s *session) wait(ctx context.Context) error {
	select {
	case <-s.loaded:
		return s.err()
	case <-ctx.Done():
		return errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "wait for load")
	}
}

func (s *session) err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

func (s *session) touch() {
	s.mu.Lock()
	s.seen = s.now()
	s.mu.Unlock()
}

func (s *session) lastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen
}

func (s *session) close() {
	s.engine.Unmount()
	_ = s.loader.Close()
}

// surfaceInfo describes a session.
type surfaceInfo struct {
	ID        string           `json:"id"`
	State     string           `json:"state"`
	Feed      feedInfo         `json:"feed"`
	Items     int              `json:"items"`
	Geometry  masonry.Geometry `json:"geometry"`
	Viewport  masonry.Viewport `json:"viewport"`
	Range     masonry.Range    `json:"range"`
	Columns   int              `json:"columns"`
	Stats     masonry.Stats    `json:"stats"`
	Created   time.Time        `json:"created"`
	LoadError string           `json:"load_error,omitempty"`
	Warnings  []errorDetail    `json:"warnings,omitempty"`
}

type feedInfo struct {
	Kind     string `json:"kind"`
	Location string `json:"location"`
}

func (s *session) info() surfaceInfo {
	l := s.engine.Layout()
	info := surfaceInfo{
		ID:       s.id,
		State:    s.engine.State().String(),
		Feed:     feedInfo{Kind: s.loader.Kind(), Location: s.loader.Location()},
		Items:    l.ItemCount,
		Geometry: l.Geometry,
		Viewport: s.engine.Viewport(),
		Range:    l.Range,
		Columns:  l.ColumnCount(),
		Stats:    s.engine.Stats(),
		Created:  s.created,
	}
	if err := s.err(); err != nil {
		info.LoadError = errors.UserMessage(err)
	}
	if err := info.Viewport.Check(); err != nil {
		info.Warnings = append(info.Warnings, errorDetail{Code: errors.GetCode(err), Message: errors.UserMessage(err)})
	}
	return info
}
