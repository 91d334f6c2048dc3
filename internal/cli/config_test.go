package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recycleview/pkg/errors"
	"github.com/matzehuels/recycleview/pkg/feed"
	"github.com/matzehuels/recycleview/pkg/masonry"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Layout.MinWidth != masonry.DefaultMinWidth || cfg.Layout.Gap != masonry.DefaultGap {
		t.Errorf("Layout = %+v, want defaults", cfg.Layout)
	}
	if cfg.Feed.Kind != feed.KindDemo {
		t.Errorf("Feed.Kind = %q, want %q", cfg.Feed.Kind, feed.KindDemo)
	}
	if ttl, _ := cfg.cacheTTL(); ttl != 24*time.Hour {
		t.Errorf("cacheTTL() = %v, want 24h", ttl)
	}
}

func TestLoadConfigFile(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, appName, "config.toml"), `
[layout]
min_width = 200
min_height = 150
gap = 8

[feed]
kind = "file"
path = "cards.toml"

[cache]
backend = "none"
ttl = "1h"

[server]
addr = ":9000"
idle_timeout = "5m"
`)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if want := (GeometryConfig{MinWidth: 200, MinHeight: 150, Gap: 8}); cfg.Layout != want {
		t.Errorf("Layout = %+v, want %+v", cfg.Layout, want)
	}
	if cfg.Feed.Kind != feed.KindFile || cfg.Feed.Path != "cards.toml" {
		t.Errorf("Feed = %+v", cfg.Feed)
	}
	if cfg.Cache.Backend != backendNone {
		t.Errorf("Cache.Backend = %q, want none", cfg.Cache.Backend)
	}
	if cfg.Feed.TTL != time.Hour {
		t.Errorf("Feed.TTL = %v, want cache.ttl of 1h", cfg.Feed.TTL)
	}
	if d, _ := cfg.idleTimeout(); d != 5*time.Minute {
		t.Errorf("idleTimeout() = %v, want 5m", d)
	}
	// Tables not in the file keep their defaults.
	if cfg.TUI.MinWidth != 28 {
		t.Errorf("TUI.MinWidth = %v, want default 28", cfg.TUI.MinWidth)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "[layout]\ncolumns = 3\n"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n"},
		{"bad ttl", "[cache]\nttl = \"soon\"\n"},
		{"bad toml", "[layout\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			writeFile(t, path, tt.content)

			_, err := loadConfig(path)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("loadConfig() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("loadConfig() with a missing explicit path should fail")
	}
}

func TestFeedFlagsApply(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want feed.Config
	}{
		{"none", nil, feed.Config{Kind: feed.KindDemo, Count: 300}},
		{"count", []string{"--count", "12"}, feed.Config{Kind: feed.KindDemo, Count: 12}},
		{"path implies file", []string{"--path", "cards.json"}, feed.Config{Kind: feed.KindFile, Count: 300, Path: "cards.json"}},
		{"url implies http", []string{"--url", "https://example.com/c.json"}, feed.Config{Kind: feed.KindHTTP, Count: 300, URL: "https://example.com/c.json"}},
		{"explicit kind wins", []string{"--feed", "redis", "--path", "x.json", "--redis-key", "cards"}, feed.Config{Kind: feed.KindRedis, Count: 300, Path: "x.json", RedisKey: "cards"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f feedFlags
			cmd := &cobra.Command{Use: "x"}
			f.register(cmd)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}

			got := defaultConfig().Feed
			f.apply(cmd, &got)
			if got != tt.want {
				t.Errorf("apply() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGeometryFlagsApply(t *testing.T) {
	var g geometryFlags
	cmd := &cobra.Command{Use: "x"}
	g.register(cmd, "pixels")
	if err := cmd.ParseFlags([]string{"--gap", "0"}); err != nil {
		t.Fatal(err)
	}

	got := defaultConfig().Layout
	g.apply(cmd, &got)
	if want := (GeometryConfig{MinWidth: 100, MinHeight: 100, Gap: 0}); got != want {
		t.Errorf("apply() = %+v, want %+v", got, want)
	}
}

func TestConfigShowAndInit(t *testing.T) {
	home := isolate(t)

	out, err := runCLI(t, "config", "show")
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}
	for _, table := range []string{"[layout]", "[feed]", "[cache]", "[server]"} {
		if !strings.Contains(out, table) {
			t.Errorf("config show missing %s:\n%s", table, out)
		}
	}

	if _, err := runCLI(t, "config", "init"); err != nil {
		t.Fatalf("config init error: %v", err)
	}
	path := filepath.Join(home, appName, "config.toml")
	if _, err := loadConfig(path); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}
