// Package cache provides byte-level caching for feeds and rendered artifacts.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a local directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys are built by a [Keyer] so that every component agrees on the format.
// [NewScopedKeyer] adds a prefix for per-tenant isolation.
package cache

import (
	"context"
	"strings"
	"time"
)

// Default TTLs for the different kinds of cached data.
const (
	// FeedTTL is how long a loaded feed stays cached.
	FeedTTL = 24 * time.Hour

	// ArtifactTTL is how long rendered layout exports stay cached.
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache stores opaque byte values with an optional time-to-live.
//
// Get reports a miss as (nil, false, nil); an error means the backend
// itself failed. A ttl of 0 means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey generates a key for a raw HTTP response body.
	HTTPKey(namespace, key string) string

	// FeedKey generates a key for a decoded item collection.
	FeedKey(kind, location string) string

	// ArtifactKey generates a key for a rendered layout export.
	ArtifactKey(feedHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds everything that changes a rendered export.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Offset    float64 `json:"offset"`
	MinWidth  float64 `json:"min_width"`
	MinHeight float64 `json:"min_height"`
	Gap       float64 `json:"gap"`
}

// DefaultKeyer implements [Keyer] with a hashed, prefix-tagged key format.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace><key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + key
}

// FeedKey returns "feed:<sha256(kind, location)>".
func (DefaultKeyer) FeedKey(kind, location string) string {
	return hashKey("feed", kind, location)
}

// ArtifactKey returns "artifact:<sha256(feedHash, opts)>".
func (DefaultKeyer) ArtifactKey(feedHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", feedHash, opts)
}

// keyType returns the prefix before the first colon, used to label hooks.
func keyType(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "unknown"
}
