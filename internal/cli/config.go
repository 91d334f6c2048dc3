package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/recycleview/internal/server"
	"github.com/matzehuels/recycleview/internal/tui"
	"github.com/matzehuels/recycleview/pkg/cache"
	"github.com/matzehuels/recycleview/pkg/errors"
	"github.com/matzehuels/recycleview/pkg/feed"
	"github.com/matzehuels/recycleview/pkg/masonry"
)

// =============================================================================
// Config File
// =============================================================================

// Config is the contents of config.toml. Command-line flags override it.
type Config struct {
	Layout GeometryConfig `toml:"layout"`
	TUI    GeometryConfig `toml:"tui"`
	Feed   feed.Config    `toml:"feed"`
	Cache  CacheConfig    `toml:"cache"`
	Server ServerConfig   `toml:"server"`
}

// GeometryConfig holds item measurements. [layout] is in pixels, [tui] in
// terminal cells.
type GeometryConfig struct {
	MinWidth  float64 `toml:"min_width"`
	MinHeight float64 `toml:"min_height"`
	Gap       float64 `toml:"gap"`
}

// Geometry converts the config to masonry geometry.
func (g GeometryConfig) Geometry() masonry.Geometry {
	return masonry.Geometry{MinWidth: g.MinWidth, MinHeight: g.MinHeight, Gap: g.Gap}
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	// Backend is "file", "redis", or "none".
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	// TTL is a Go duration string such as "24h".
	TTL string `toml:"ttl"`
}

// ServerConfig configures "recycleview serve".
type ServerConfig struct {
	Addr           string `toml:"addr"`
	MaxSurfaces    int    `toml:"max_surfaces"`
	IdleTimeout    string `toml:"idle_timeout"`
	AllowFileFeeds bool   `toml:"allow_file_feeds"`
}

// Cache backends.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() Config {
	return Config{
		Layout: GeometryConfig{
			MinWidth:  masonry.DefaultMinWidth,
			MinHeight: masonry.DefaultMinHeight,
			Gap:       masonry.DefaultGap,
		},
		TUI: GeometryConfig{
			MinWidth:  tui.DefaultGeometry.MinWidth,
			MinHeight: tui.DefaultGeometry.MinHeight,
			Gap:       tui.DefaultGeometry.Gap,
		},
		Feed: feed.Config{Kind: feed.KindDemo, Count: 300},
		Cache: CacheConfig{
			Backend:   backendFile,
			RedisAddr: "localhost:6379",
			TTL:       cache.FeedTTL.String(),
		},
		Server: ServerConfig{
			Addr:        server.DefaultAddr,
			MaxSurfaces: server.DefaultMaxSurfaces,
			IdleTimeout: server.DefaultIdleTimeout.String(),
		},
	}
}

// loadConfig reads path on top of the defaults. An empty path uses the
// default location, which may be absent. An explicit path must exist.
// Unknown keys are rejected.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Feed.TTL, _ = cfg.cacheTTL()
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case "", backendFile, backendRedis, backendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis, or none)", c.Cache.Backend)
	}
	if _, err := c.cacheTTL(); err != nil {
		return err
	}
	if _, err := c.idleTimeout(); err != nil {
		return err
	}
	return nil
}

func (c Config) cacheTTL() (time.Duration, error) {
	return parseDuration("cache.ttl", c.Cache.TTL, cache.FeedTTL)
}

func (c Config) idleTimeout() (time.Duration, error) {
	return parseDuration("server.idle_timeout", c.Server.IdleTimeout, server.DefaultIdleTimeout)
}

func parseDuration(key, s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", key)
	}
	return d, nil
}

// =============================================================================
// Paths
// =============================================================================

// configPath returns the config file location using the XDG standard
// (~/.config/recycleview/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// =============================================================================
// Flag Overrides
// =============================================================================

// feedFlags exposes feed.Config on a command.
type feedFlags struct {
	cfg feed.Config
}

func (f *feedFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.cfg.Kind, "feed", "", fmt.Sprintf("feed kind: %s", strings.Join(feed.Kinds, ", ")))
	fs.IntVar(&f.cfg.Count, "count", 0, "number of demo cards")
	fs.StringVar(&f.cfg.Path, "path", "", "feed file (.json or .toml)")
	fs.StringVar(&f.cfg.URL, "url", "", "feed URL returning a JSON card list")
	fs.StringVar(&f.cfg.RedisAddr, "redis-addr", "", "redis address for the redis feed")
	fs.StringVar(&f.cfg.RedisKey, "redis-key", "", "redis list holding JSON cards")
	fs.StringVar(&f.cfg.MongoURI, "mongo-uri", "", "mongodb connection URI")
	fs.StringVar(&f.cfg.MongoDatabase, "mongo-db", "", "mongodb database")
	fs.StringVar(&f.cfg.MongoCollection, "mongo-collection", "", "mongodb collection")
}

// apply copies every flag the user set onto dst.
func (f *feedFlags) apply(cmd *cobra.Command, dst *feed.Config) {
	fs := cmd.Flags()
	set := func(name string, to *string, from string) {
		if fs.Changed(name) {
			*to = from
		}
	}
	set("feed", &dst.Kind, f.cfg.Kind)
	set("path", &dst.Path, f.cfg.Path)
	set("url", &dst.URL, f.cfg.URL)
	set("redis-addr", &dst.RedisAddr, f.cfg.RedisAddr)
	set("redis-key", &dst.RedisKey, f.cfg.RedisKey)
	set("mongo-uri", &dst.MongoURI, f.cfg.MongoURI)
	set("mongo-db", &dst.MongoDatabase, f.cfg.MongoDatabase)
	set("mongo-collection", &dst.MongoCollection, f.cfg.MongoCollection)
	if fs.Changed("count") {
		dst.Count = f.cfg.Count
	}

	// A path or URL alone implies its kind.
	if !fs.Changed("feed") {
		switch {
		case fs.Changed("path"):
			dst.Kind = feed.KindFile
		case fs.Changed("url"):
			dst.Kind = feed.KindHTTP
		}
	}
}

// geometryFlags exposes item measurements on a command.
type geometryFlags struct {
	cfg GeometryConfig
}

func (g *geometryFlags) register(cmd *cobra.Command, unit string) {
	fs := cmd.Flags()
	fs.Float64Var(&g.cfg.MinWidth, "min-width", 0, "minimum column width in "+unit)
	fs.Float64Var(&g.cfg.MinHeight, "min-height", 0, "item height in "+unit)
	fs.Float64Var(&g.cfg.Gap, "gap", 0, "gap between items and columns in "+unit)
}

func (g *geometryFlags) apply(cmd *cobra.Command, dst *GeometryConfig) {
	fs := cmd.Flags()
	if fs.Changed("min-width") {
		dst.MinWidth = g.cfg.MinWidth
	}
	if fs.Changed("min-height") {
		dst.MinHeight = g.cfg.MinHeight
	}
	if fs.Changed("gap") {
		dst.Gap = g.cfg.Gap
	}
}
