package masonry

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/recycleview/pkg/errors"
)

// Producer supplies the full item collection. It is called at most once.
type Producer[T any] func(ctx context.Context) ([]T, error)

// Source wraps a [Producer] and guarantees it is invoked exactly once.
//
// Failures are wrapped with [errors.ErrCodeDataSource] and never retried.
// Any subsequent Load returns [errors.ErrCodeAlreadyLoaded] without calling
// the producer again.
type Source[T any] struct {
	produce Producer[T]

	mu    sync.Mutex
	calls int
}

// NewSource returns a source backed by produce.
func NewSource[T any](produce Producer[T]) *Source[T] {
	return &Source[T]{produce: produce}
}

// Load invokes the producer. The returned slice is owned by the caller and
// is not shared with the producer.
func (s *Source[T]) Load(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	if s.calls > 0 {
		s.mu.Unlock()
		return nil, errors.New(errors.ErrCodeAlreadyLoaded, "data source already invoked")
	}
	s.calls++
	s.mu.Unlock()

	items, err := s.produce(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSource, err, "load items")
	}
	return slices.Clone(items), nil
}

// Calls returns how many times the producer has been invoked (0 or 1).
func (s *Source[T]) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
