package masonry

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/recycleview/pkg/errors"
	"github.com/matzehuels/recycleview/pkg/observability"
)

// State is the lifecycle stage of an [Engine].
type State int

const (
	// StateEmpty means the collection has not been loaded.
	StateEmpty State = iota
	// StateLoaded means items are present but no column set is computed.
	StateLoaded
	// StateReady means the column set reflects the current viewport.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Stats counts engine work since construction.
type Stats struct {
	Recomputes    int           `json:"recomputes"`
	Invalidations int           `json:"invalidations"`
	RenderCalls   int           `json:"render_calls"`
	LoadDuration  time.Duration `json:"load_duration"`
}

// Engine orchestrates loading, viewport tracking, and column balancing.
//
// Layout snapshots are recomputed only when the visible range, the column
// count, or the collection changes. A column-count change discards the
// current column set before rebuilding it. Any other viewport movement
// publishes a new snapshot that shares the previous columns.
type Engine[T, V any] struct {
	geom   Geometry
	render func(T) V
	source *Source[T]
	logger *log.Logger

	mu       sync.Mutex
	ctx      context.Context
	tracker  *Tracker
	items    []T
	state    State
	layout   *Layout[V]
	stats    Stats
	version  uint64
	mounted  bool
	closed   bool
	release  []func()
	watchers map[int]func(*Layout[V])
	nextID   int

	dirtyRange   bool
	dirtyColumns bool
	dirtyItems   bool
}

// New validates opts and returns an engine in [StateEmpty].
func New[T, V any](opts Options[T, V]) (*Engine[T, V], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	g := opts.Geometry()
	tracker := NewTracker(g, opts.Viewport)
	return &Engine[T, V]{
		geom:     g,
		render:   opts.RenderItem,
		source:   NewSource(opts.Load),
		logger:   opts.logger(),
		ctx:      context.Background(),
		tracker:  tracker,
		layout:   newLayout[V](g, tracker.Viewport(), tracker.Range(), 0, nil),
		watchers: make(map[int]func(*Layout[V])),
	}, nil
}

// Mount subscribes the engine to the surface's scroll and resize events.
// An engine can be mounted once; after [Engine.Unmount] it cannot be reused.
func (e *Engine[T, V]) Mount(ctx context.Context, s Surface) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return errors.New(errors.ErrCodeListenerLifecycle, "engine already unmounted")
	}
	if e.mounted {
		return errors.New(errors.ErrCodeListenerLifecycle, "engine already mounted")
	}
	e.ctx = ctx
	e.release = append(e.release,
		s.OnScroll(e.Scroll),
		s.OnResize(e.Resize),
	)
	e.mounted = true
	e.logger.Debug("mounted surface")
	return nil
}

// Unmount releases every surface listener and marks the engine destroyed.
// Results of an in-flight load are discarded. Unmount is idempotent.
func (e *Engine[T, V]) Unmount() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	release := e.release
	e.release = nil
	clear(e.watchers)
	e.mu.Unlock()

	for _, fn := range release {
		fn()
	}
	e.logger.Debug("unmounted surface", "listeners", len(release))
}

// Load invokes the data source and commits the result. It must be called
// at most once; later calls return [errors.ErrCodeAlreadyLoaded].
//
// A producer failure is returned wrapped as [errors.ErrCodeDataSource] and
// the engine stays in [StateEmpty]. A result arriving after Unmount is
// dropped without error.
func (e *Engine[T, V]) Load(ctx context.Context) error {
	hooks := observability.Engine()
	hooks.OnLoadStart(ctx)
	start := time.Now()

	items, err := e.source.Load(ctx)
	elapsed := time.Since(start)
	hooks.OnLoadComplete(ctx, len(items), elapsed, err)
	if err != nil {
		if !errors.Is(err, errors.ErrCodeAlreadyLoaded) {
			e.logger.Error("load failed", "err", err, "duration", elapsed)
		}
		return err
	}

	snapshot, ok := e.commit(items, elapsed)
	if !ok {
		e.logger.Debug("discarding load result for unmounted surface", "items", len(items))
		return nil
	}
	e.logger.Info("loaded items", "items", len(items), "duration", elapsed)
	e.notify(snapshot)
	return nil
}

// Start runs Load on a new goroutine. The returned channel receives the
// result and is then closed.
func (e *Engine[T, V]) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- e.Load(ctx)
	}()
	return done
}

// Scroll applies a scroll event. It is the handler registered by Mount and
// may also be called directly by hosts without a [Surface].
func (e *Engine[T, V]) Scroll(offset float64) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	snapshot := e.apply(e.tracker.Scroll(offset))
	e.mu.Unlock()
	e.notify(snapshot)
}

// Resize applies a resize event. Like Scroll, it may be called directly.
func (e *Engine[T, V]) Resize(width, height float64) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	ch := e.tracker.Resize(width, height)
	if err := e.tracker.Viewport().Check(); err != nil {
		e.logger.Debug("degenerate container", "err", err)
	}
	snapshot := e.apply(ch)
	e.mu.Unlock()
	e.notify(snapshot)
}

// Layout returns the current snapshot. It is never nil.
func (e *Engine[T, V]) Layout() *Layout[V] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layout
}

// State returns the lifecycle stage.
func (e *Engine[T, V]) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Stats returns the work counters.
func (e *Engine[T, V]) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Viewport returns the tracked viewport, with the scroll offset clamped.
func (e *Engine[T, V]) Viewport() Viewport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Viewport()
}

// MaxScroll returns the largest useful scroll offset.
func (e *Engine[T, V]) MaxScroll() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.MaxScroll()
}

// Items returns the number of loaded items.
func (e *Engine[T, V]) Items() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.items)
}

// Item returns the item at index i of the loaded collection.
func (e *Engine[T, V]) Item(i int) (T, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.items) {
		var zero T
		return zero, false
	}
	return e.items[i], true
}

// Mounted reports whether the engine is subscribed to a live surface.
func (e *Engine[T, V]) Mounted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mounted && !e.closed
}

// OnChange registers fn to receive every newly published snapshot. fn runs
// outside the engine lock on the goroutine that caused the change.
func (e *Engine[T, V]) OnChange(fn func(*Layout[V])) (release func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return func() {}
	}
	id := e.nextID
	e.nextID++
	e.watchers[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.watchers, id)
	}
}

func (e *Engine[T, V]) commit(items []T, elapsed time.Duration) (*Layout[V], bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, false
	}

	e.items = items
	e.stats.LoadDuration = elapsed
	e.dirtyItems = true
	if len(items) > 0 {
		e.state = StateLoaded
	}
	return e.apply(e.tracker.SetItemCount(len(items))), true
}

// apply marks dirty flags for ch and recomputes. A viewport move that
// leaves the range and columns alone republishes the current columns under
// the new viewport. It returns the new snapshot, or nil when nothing
// changed. Callers hold e.mu.
func (e *Engine[T, V]) apply(ch Change) *Layout[V] {
	if ch.ColumnsChanged {
		e.invalidate(ch.OldColumns, ch.Columns)
	}
	if ch.RangeChanged {
		e.dirtyRange = true
	}
	if e.dirtyRange || e.dirtyColumns || e.dirtyItems {
		return e.recompute()
	}
	if vp := e.tracker.Viewport(); vp != e.layout.Viewport {
		return e.move(vp)
	}
	return nil
}

// move publishes a copy of the current snapshot with vp. Columns are shared;
// no item is rendered again.
func (e *Engine[T, V]) move(vp Viewport) *Layout[V] {
	l := *e.layout
	l.Viewport = vp
	e.version++
	l.Version = e.version
	e.layout = &l
	return e.layout
}

func (e *Engine[T, V]) invalidate(from, to int) {
	e.dirtyColumns = true
	if e.state != StateReady {
		return
	}
	e.state = StateLoaded
	e.stats.Invalidations++
	observability.Engine().OnInvalidate(e.ctx, from, to)
	e.logger.Debug("column count changed", "from", from, "to", to)
}

func (e *Engine[T, V]) recompute() *Layout[V] {
	start := time.Now()
	r := e.tracker.Range()
	n := len(e.items)

	var cols []Column[V]
	if n > 0 {
		var visible []T
		if !r.Empty() {
			visible = e.items[r.Start : r.End+1]
		}
		cols = Balance(r.Start, visible, e.tracker.Columns(), e.geom.Stride(), e.render)
		e.stats.RenderCalls += len(visible)
		e.state = StateReady
	}

	e.version++
	l := newLayout(e.geom, e.tracker.Viewport(), r, n, cols)
	l.Version = e.version
	e.layout = l
	e.dirtyRange, e.dirtyColumns, e.dirtyItems = false, false, false
	e.stats.Recomputes++

	observability.Engine().OnLayout(e.ctx, r.Start, r.End, len(cols), time.Since(start))
	return l
}

func (e *Engine[T, V]) notify(l *Layout[V]) {
	if l == nil {
		return
	}
	e.mu.Lock()
	fns := make([]func(*Layout[V]), 0, len(e.watchers))
	for _, fn := range e.watchers {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(l)
	}
}
