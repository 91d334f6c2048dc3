package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/recycleview/pkg/cache"
)

// Cached serves a loader's cards from a cache, falling back to the loader
// on a miss and storing the result.
type Cached struct {
	inner   Loader
	backend cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	refresh bool
}

// NewCached wraps inner. With refresh set, the cache is never read but
// still written.
func NewCached(inner Loader, backend cache.Cache, ttl time.Duration, refresh bool) *Cached {
	return &Cached{
		inner:   inner,
		backend: backend,
		keyer:   cache.NewDefaultKeyer(),
		ttl:     ttl,
		refresh: refresh,
	}
}

func (c *Cached) Kind() string     { return c.inner.Kind() }
func (c *Cached) Location() string { return c.inner.Location() }
func (c *Cached) Close() error     { return c.inner.Close() }

// Key returns the cache key for the wrapped feed.
func (c *Cached) Key() string { return c.keyer.FeedKey(c.inner.Kind(), c.inner.Location()) }

// Load returns cached cards or loads and caches them.
func (c *Cached) Load(ctx context.Context) ([]Card, error) {
	key := c.Key()
	if !c.refresh {
		if data, ok, _ := c.backend.Get(ctx, key); ok {
			var cards []Card
			if err := json.Unmarshal(data, &cards); err == nil {
				return cards, nil
			}
		}
	}

	cards, err := c.inner.Load(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(cards); err == nil {
		_ = c.backend.Set(ctx, key, data, c.ttl)
	}
	return cards, nil
}
