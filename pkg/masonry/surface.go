package masonry

import "sync"

// Surface is the scrollable host that delivers viewport events.
//
// Each registration returns a release function that removes the listener.
// Release functions must be safe to call more than once.
type Surface interface {
	OnScroll(fn func(offset float64)) (release func())
	OnResize(fn func(width, height float64)) (release func())
}

// Emitter is an in-memory [Surface]. Hosts call Scroll and Resize when their
// own measurements change; registered listeners run synchronously on the
// calling goroutine, outside the emitter's lock.
type Emitter struct {
	mu     sync.Mutex
	next   int
	scroll map[int]func(float64)
	resize map[int]func(float64, float64)
}

// NewEmitter returns an emitter with no listeners.
func NewEmitter() *Emitter {
	return &Emitter{
		scroll: make(map[int]func(float64)),
		resize: make(map[int]func(float64, float64)),
	}
}

// OnScroll registers fn for scroll events.
func (e *Emitter) OnScroll(fn func(offset float64)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.next
	e.next++
	e.scroll[id] = fn
	return e.releaser(func() { delete(e.scroll, id) })
}

// OnResize registers fn for resize events.
func (e *Emitter) OnResize(fn func(width, height float64)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.next
	e.next++
	e.resize[id] = fn
	return e.releaser(func() { delete(e.resize, id) })
}

func (e *Emitter) releaser(remove func()) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			remove()
		})
	}
}

// Scroll dispatches a scroll event to every registered listener.
func (e *Emitter) Scroll(offset float64) {
	e.mu.Lock()
	fns := make([]func(float64), 0, len(e.scroll))
	for _, fn := range e.scroll {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(offset)
	}
}

// Resize dispatches a resize event to every registered listener.
func (e *Emitter) Resize(width, height float64) {
	e.mu.Lock()
	fns := make([]func(float64, float64), 0, len(e.resize))
	for _, fn := range e.resize {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(width, height)
	}
}

// Listeners returns the number of registered scroll and resize listeners.
func (e *Emitter) Listeners() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.scroll) + len(e.resize)
}
