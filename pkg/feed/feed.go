// Package feed provides item collections for the masonry engine.
//
// A [Loader] produces the full list of [Card] values in one call. Loaders
// exist for a built-in demo set ([Static]), local JSON and TOML files
// ([File]), HTTP endpoints ([HTTP]), Redis lists ([Redis]), and MongoDB
// collections ([Mongo]). [Cached] wraps any loader with a cache.Cache.
//
// [Open] builds a loader from a [Config], which is how the CLI and the
// server select a feed:
//
//	loader, err := feed.Open(ctx, feed.Config{Kind: feed.KindFile, Path: "cards.toml"}, nil, false)
//	if err != nil {
//	    return err
//	}
//	defer loader.Close()
//	engine, err := masonry.New(masonry.Options[feed.Card, string]{
//	    Load: loader.Load,
//	    // ...
//	})
package feed

import (
	"context"
	"strconv"
	"time"

	"github.com/matzehuels/recycleview/pkg/cache"
	"github.com/matzehuels/recycleview/pkg/errors"
)

// Card is one item of a feed.
type Card struct {
	ID    string   `json:"id" toml:"id"`
	Title string   `json:"title" toml:"title"`
	Body  string   `json:"body,omitempty" toml:"body"`
	Tags  []string `json:"tags,omitempty" toml:"tags"`
}

// Loader produces a complete card collection.
type Loader interface {
	// Kind names the backend, e.g. "file" or "redis".
	Kind() string
	// Location identifies the collection within the backend.
	Location() string
	// Load returns every card. It is called at most once per engine.
	Load(ctx context.Context) ([]Card, error)
	// Close releases backend connections.
	Close() error
}

// Feed kinds accepted by [Open].
const (
	KindDemo  = "demo"
	KindFile  = "file"
	KindHTTP  = "http"
	KindRedis = "redis"
	KindMongo = "mongo"
)

// Kinds lists the supported feed kinds, for flag help and validation.
var Kinds = []string{KindDemo, KindFile, KindHTTP, KindRedis, KindMongo}

// Config selects and configures a feed. It is the [feed] table of the
// config file.
type Config struct {
	Kind            string `toml:"kind" json:"kind"`
	Count           int    `toml:"count" json:"count,omitempty"`
	Path            string `toml:"path" json:"path,omitempty"`
	URL             string `toml:"url" json:"url,omitempty"`
	RedisAddr       string `toml:"redis_addr" json:"redis_addr,omitempty"`
	RedisKey        string `toml:"redis_key" json:"redis_key,omitempty"`
	MongoURI        string `toml:"mongo_uri" json:"mongo_uri,omitempty"`
	MongoDatabase   string `toml:"mongo_database" json:"mongo_database,omitempty"`
	MongoCollection string `toml:"mongo_collection" json:"mongo_collection,omitempty"`

	// TTL is how long remote cards stay cached. Zero means [cache.FeedTTL].
	TTL time.Duration `toml:"-" json:"-"`
}

// Open builds the loader described by cfg. An empty kind selects the demo
// feed. When backend is non-nil, remote feeds (http, redis, mongo) are
// wrapped with [Cached]; refresh bypasses cached entries.
func Open(ctx context.Context, cfg Config, backend cache.Cache, refresh bool) (Loader, error) {
	var (
		l   Loader
		err error
	)
	switch cfg.Kind {
	case "", KindDemo:
		return Demo(cfg.Count), nil
	case KindFile:
		f, err := NewFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		return f, nil
	case KindHTTP:
		l, err = NewHTTP(cfg.URL, nil)
	case KindRedis:
		l, err = OpenRedis(ctx, cfg.RedisAddr, cfg.RedisKey)
	case KindMongo:
		l, err = OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFeed, "unknown feed kind %q (want one of %v)", cfg.Kind, Kinds)
	}
	if err != nil {
		return nil, err
	}
	if backend != nil {
		ttl := cfg.TTL
		if ttl <= 0 {
			ttl = cache.FeedTTL
		}
		l = NewCached(l, backend, ttl, refresh)
	}
	return l, nil
}

// normalize assigns 1-based positional IDs to cards that have none.
func normalize(cards []Card) []Card {
	for i := range cards {
		if cards[i].ID == "" {
			cards[i].ID = strconv.Itoa(i + 1)
		}
	}
	return cards
}
