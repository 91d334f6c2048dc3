package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/recycleview/pkg/cache"
	"github.com/matzehuels/recycleview/pkg/errors"
	"github.com/matzehuels/recycleview/pkg/httputil"
)

func TestDemo(t *testing.T) {
	cards, err := Demo(0).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"woof", "meow", "baaah"}
	if len(cards) != len(want) {
		t.Fatalf("got %d cards, want %d", len(cards), len(want))
	}
	for i, w := range want {
		if cards[i].Title != w {
			t.Errorf("card %d title = %q, want %q", i, cards[i].Title, w)
		}
		if cards[i].ID == "" {
			t.Errorf("card %d has no ID", i)
		}
	}
	if cards[0].Body != "woof dog" {
		t.Errorf("body = %q, want %q", cards[0].Body, "woof dog")
	}
}

func TestDemoRepeats(t *testing.T) {
	cards, _ := Demo(300).Load(context.Background())
	if len(cards) != 300 {
		t.Fatalf("got %d cards, want 300", len(cards))
	}
	if cards[299].ID != "300" {
		t.Errorf("last ID = %q, want 300", cards[299].ID)
	}
	if cards[3].Title != "woof #2" {
		t.Errorf("card 3 title = %q, want %q", cards[3].Title, "woof #2")
	}
}

func TestStaticCopies(t *testing.T) {
	s := NewStatic("t", []Card{{Title: "a"}})
	first, _ := s.Load(context.Background())
	first[0].Title = "changed"
	second, _ := s.Load(context.Background())
	if second[0].Title != "a" {
		t.Error("Load returned shared storage")
	}
	if second[0].ID != "1" {
		t.Errorf("ID = %q, want positional 1", second[0].ID)
	}
}

func TestFileFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"array.json":    `[{"id":"a","title":"woof"},{"title":"meow"}]`,
		"envelope.json": `{"cards":[{"id":"a","title":"woof"},{"title":"meow"}]}`,
		"cards.toml": `
[[cards]]
id = "a"
title = "woof"

[[cards]]
title = "meow"
tags = ["cat"]
`,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			f, err := NewFile(path)
			if err != nil {
				t.Fatalf("NewFile: %v", err)
			}
			cards, err := f.Load(context.Background())
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(cards) != 2 {
				t.Fatalf("got %d cards, want 2", len(cards))
			}
			if cards[0].ID != "a" || cards[0].Title != "woof" {
				t.Errorf("card 0 = %+v", cards[0])
			}
			if cards[1].ID != "2" || cards[1].Title != "meow" {
				t.Errorf("card 1 = %+v", cards[1])
			}
		})
	}
}

func TestFileErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"cards": 3}`), 0o644)
	badTOML := filepath.Join(dir, "bad.toml")
	os.WriteFile(badTOML, []byte(`[[cards]`), 0o644)

	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing", filepath.Join(dir, "nope.json"), errors.ErrCodeFileNotFound},
		{"bad json", bad, errors.ErrCodeInvalidFormat},
		{"bad toml", badTOML, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFile(tt.path)
			if err != nil {
				t.Fatalf("NewFile: %v", err)
			}
			if _, err := f.Load(context.Background()); !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := NewFile(""); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("NewFile(\"\") error = %v, want INVALID_PATH", err)
	}
}

func TestHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"1","title":"woof"},{"id":"2","title":"meow"}]`))
	}))
	defer srv.Close()

	h, err := NewHTTP(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}
	cards, err := h.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cards) != 2 || cards[1].Title != "meow" {
		t.Errorf("cards = %+v", cards)
	}
	if h.Location() != srv.URL {
		t.Errorf("Location = %q", h.Location())
	}
}

func TestHTTPNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	client := httputil.NewClient(nil, 0, nil).WithRetry(1, 0)
	h, _ := NewHTTP(srv.URL, client)
	if _, err := h.Load(context.Background()); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load() error = %v, want NOT_FOUND", err)
	}
}

func TestCached(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[{"id":"1","title":"woof"}]`))
	}))
	defer srv.Close()

	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		l, err := Open(ctx, Config{Kind: KindHTTP, URL: srv.URL}, backend, false)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		cards, err := l.Load(ctx)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(cards) != 1 || cards[0].Title != "woof" {
			t.Errorf("cards = %+v", cards)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}

	l, _ := Open(ctx, Config{Kind: KindHTTP, URL: srv.URL}, backend, true)
	if _, err := l.Load(ctx); err != nil {
		t.Fatalf("Load(refresh): %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("refresh should reload: %d calls", got)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		cfg      Config
		wantKind string
		wantCode errors.Code
	}{
		{"default is demo", Config{}, KindDemo, ""},
		{"demo", Config{Kind: KindDemo, Count: 10}, KindDemo, ""},
		{"file", Config{Kind: KindFile, Path: "cards.json"}, KindFile, ""},
		{"http", Config{Kind: KindHTTP, URL: "https://example.com/cards.json"}, KindHTTP, ""},
		{"file without path", Config{Kind: KindFile}, "", errors.ErrCodeInvalidPath},
		{"http bad scheme", Config{Kind: KindHTTP, URL: "ftp://x"}, "", errors.ErrCodeInvalidInput},
		{"redis without addr", Config{Kind: KindRedis, RedisKey: "cards"}, "", errors.ErrCodeInvalidFeed},
		{"redis bad key", Config{Kind: KindRedis, RedisAddr: "localhost:6379", RedisKey: " x"}, "", errors.ErrCodeInvalidFeed},
		{"mongo without uri", Config{Kind: KindMongo}, "", errors.ErrCodeInvalidFeed},
		{"mongo dollar database", Config{Kind: KindMongo, MongoURI: "mongodb://localhost", MongoDatabase: "a$b", MongoCollection: "c"}, "", errors.ErrCodeInvalidFeed},
		{"unknown", Config{Kind: "carrier-pigeon"}, "", errors.ErrCodeInvalidFeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Open(ctx, tt.cfg, nil, false)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Errorf("Open() error = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer l.Close()
			if l.Kind() != tt.wantKind {
				t.Errorf("Kind() = %q, want %q", l.Kind(), tt.wantKind)
			}
		})
	}
}

func TestDecodeElements(t *testing.T) {
	cards, err := decodeElements([]string{`{"title":"woof"}`, `{"id":"x","title":"meow"}`})
	if err != nil {
		t.Fatalf("decodeElements: %v", err)
	}
	if cards[0].ID != "1" || cards[1].ID != "x" {
		t.Errorf("IDs = %q, %q", cards[0].ID, cards[1].ID)
	}

	if _, err := decodeElements([]string{`{`}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad element error = %v, want INVALID_FORMAT", err)
	}
}

func TestMongoID(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{int32(7), "7"},
	}
	for _, tt := range tests {
		if got := mongoID(tt.in); got != tt.want {
			t.Errorf("mongoID(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
