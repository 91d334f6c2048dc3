package sink

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/recycleview/pkg/errors"
	"github.com/matzehuels/recycleview/pkg/feed"
	"github.com/matzehuels/recycleview/pkg/masonry"
)

func testLayout(t *testing.T, n int, scroll float64) (*masonry.Layout[feed.Card], masonry.Stats) {
	t.Helper()
	e, err := masonry.New(masonry.Options[feed.Card, feed.Card]{
		MinWidth:   100,
		MinHeight:  100,
		Gap:        12,
		RenderItem: func(c feed.Card) feed.Card { return c },
		Load:       feed.Demo(n).Load,
	})
	if err != nil {
		t.Fatal(err)
	}
	e.Resize(312, 336)
	if err := e.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	e.Scroll(scroll)
	return e.Layout(), e.Stats()
}

func TestRenderJSON(t *testing.T) {
	l, stats := testLayout(t, 3, 0)

	data, err := RenderJSON(l, WithStats(stats))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	if doc.ItemCount != 3 {
		t.Errorf("ItemCount = %d, want 3", doc.ItemCount)
	}
	if len(doc.Columns) != 2 {
		t.Fatalf("Columns = %d, want 2", len(doc.Columns))
	}
	if got := doc.Columns[0].Items; len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("column 0 items = %v, want [0 2]", got)
	}
	if doc.Columns[0].BlockHeight != 212 {
		t.Errorf("column 0 block height = %v, want 212", doc.Columns[0].BlockHeight)
	}
	if doc.Columns[1].X != 112 {
		t.Errorf("column 1 x = %v, want 112", doc.Columns[1].X)
	}
	if len(doc.Items) != 3 || doc.Items[2].Card.Title != "baaah" || doc.Items[2].Y != 112 {
		t.Errorf("items = %+v", doc.Items)
	}
	if doc.ScrollExtent != 336 {
		t.Errorf("ScrollExtent = %v, want 336", doc.ScrollExtent)
	}
	if doc.Stats == nil || doc.Stats.Recomputes == 0 {
		t.Errorf("Stats = %+v, want embedded counters", doc.Stats)
	}
}

func TestRenderSVG(t *testing.T) {
	l, _ := testLayout(t, 300, 1120)

	svg := string(RenderSVG(l, WithSpacers(), WithColumns()))
	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`id="top-spacer"`,
		`id="bottom-spacer"`,
		`class="column"`,
		`id="card-10"`,
		"</svg>",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(svg, `id="card-0"`) {
		t.Error("SVG contains a card outside the visible range")
	}

	window := string(RenderSVG(l, WithWindow()))
	if !strings.Contains(window, `viewBox="0 1120.0 212.0 336.0"`) {
		t.Errorf("windowed SVG has wrong viewBox:\n%s", window[:120])
	}
}

func TestRenderSVGNoSpacersAtTop(t *testing.T) {
	l, _ := testLayout(t, 3, 0)
	svg := string(RenderSVG(l, WithSpacers()))
	if strings.Contains(svg, "spacer\" id") {
		t.Error("fully visible list should not draw spacers")
	}
}

func TestRenderSVGEscapes(t *testing.T) {
	e, _ := masonry.New(masonry.Options[feed.Card, feed.Card]{
		MinWidth: 100, MinHeight: 100, Gap: 12,
		RenderItem: func(c feed.Card) feed.Card { return c },
		Load: feed.NewStatic("x", []feed.Card{{Title: "<script>"}}).Load,
	})
	e.Resize(312, 336)
	e.Load(context.Background())

	svg := string(RenderSVG(e.Layout()))
	if strings.Contains(svg, "<script>") {
		t.Error("title was not escaped")
	}
}

func TestToDOT(t *testing.T) {
	l, _ := testLayout(t, 3, 0)
	dot := ToDOT(l)

	for _, want := range []string{
		"digraph masonry {",
		"layout=neato;",
		`"card-0" [label="woof", pos="50.0,174.0!"`,
		`"card-1" [label="meow", pos="162.0,174.0!"`,
		`"card-2" [label="baaah", pos="50.0,62.0!"`,
		`"card-0" -> "card-2" [style=invis];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestRenderGraphvizUnsupported(t *testing.T) {
	_, err := RenderGraphviz(context.Background(), "digraph {}", "pdf")
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("RenderGraphviz(pdf) error = %v, want UNSUPPORTED", err)
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range Formats {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v", f, err)
		}
	}
	if err := ValidateFormat("gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(gif) = %v, want INVALID_FORMAT", err)
	}
}

func TestRender(t *testing.T) {
	l, stats := testLayout(t, 30, 0)

	tests := []struct {
		format string
		prefix string
		ctype  string
	}{
		{FormatJSON, "{", "application/json"},
		{FormatSVG, "<svg", "image/svg+xml"},
		{FormatDOT, "digraph", "text/vnd.graphviz"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, err := Render(context.Background(), l, tt.format, stats)
			if err != nil {
				t.Fatalf("Render(%q) error: %v", tt.format, err)
			}
			if !strings.HasPrefix(strings.TrimSpace(string(data)), tt.prefix) {
				t.Errorf("Render(%q) = %.40q..., want prefix %q", tt.format, data, tt.prefix)
			}
			if got := ContentType(tt.format); got != tt.ctype {
				t.Errorf("ContentType(%q) = %q, want %q", tt.format, got, tt.ctype)
			}
		})
	}

	if _, err := Render(context.Background(), l, "gif", stats); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v, want INVALID_FORMAT", err)
	}
}
