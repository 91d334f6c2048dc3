package term

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/recycleview/pkg/feed"
	"github.com/matzehuels/recycleview/pkg/masonry"
)

func TestCardSize(t *testing.T) {
	th := DefaultTheme()
	tests := []struct {
		name string
		card feed.Card
	}{
		{"short", feed.Card{ID: "7", Title: "woof", Body: "woof dog"}},
		{"long body", feed.Card{Title: "meow", Body: strings.Repeat("meow cat ", 40), Tags: []string{"cat"}}},
		{"long title", feed.Card{ID: "1234567890", Title: strings.Repeat("baaah", 20)}},
		{"unbreakable word", feed.Card{Title: "x", Body: strings.Repeat("z", 200)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Card(tt.card, 24, 6, th)
			if w := lipgloss.Width(out); w != 24 {
				t.Errorf("width = %d, want 24\n%s", w, out)
			}
			if h := lipgloss.Height(out); h != 6 {
				t.Errorf("height = %d, want 6\n%s", h, out)
			}
		})
	}
}

func TestCardContent(t *testing.T) {
	out := Card(feed.Card{ID: "1", Title: "woof", Body: "woof dog", Tags: []string{"dog"}}, 30, 6, DefaultTheme())
	for _, want := range []string{"woof", "woof dog", "#dog"} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q:\n%s", want, out)
		}
	}
}

func TestComposeWindow(t *testing.T) {
	const visible = 10
	e, err := masonry.New(masonry.Options[int, string]{
		MinWidth:  4,
		MinHeight: 3,
		Gap:       1,
		RenderItem: func(i int) string {
			return strings.Repeat(string(rune('a'+i%26)), 4)
		},
		Load: func(context.Context) ([]int, error) {
			items := make([]int, 40)
			for i := range items {
				items[i] = i
			}
			return items, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	e.Resize(9, visible)
	if err := e.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	out := Compose(e.Layout())
	lines := strings.Split(out, "\n")
	if len(lines) != visible {
		t.Fatalf("got %d lines, want %d", len(lines), visible)
	}
	if !strings.HasPrefix(lines[0], "aaaa bbbb") {
		t.Errorf("first line = %q, want items 0 and 1 side by side", lines[0])
	}

	e.Scroll(8)
	lines = strings.Split(Compose(e.Layout()), "\n")
	if len(lines) != visible {
		t.Fatalf("after scroll got %d lines, want %d", len(lines), visible)
	}
	// Offset 8 with stride 4 puts item 2 at the top of the window.
	if !strings.HasPrefix(lines[0], "cccc dddd") {
		t.Errorf("first line after scroll = %q", lines[0])
	}
}

func TestComposeFollowsScrollWithinRange(t *testing.T) {
	e, err := masonry.New(masonry.Options[int, string]{
		MinWidth:   4,
		MinHeight:  3,
		Gap:        1,
		RenderItem: func(i int) string { return strings.Repeat(string(rune('a'+i%26)), 4) },
		Load: func(context.Context) ([]int, error) {
			return make([]int, 100), nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	e.Resize(9, 10)
	if err := e.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := strings.Split(Compose(e.Layout()), "\n")
	rng := e.Layout().Range

	e.Scroll(1)
	if got := e.Layout().Range; got != rng {
		t.Fatalf("Range = %+v, want %+v for a one-line scroll", got, rng)
	}
	after := strings.Split(Compose(e.Layout()), "\n")
	if strings.Join(after, "\n") == strings.Join(before, "\n") {
		t.Fatal("one-line scroll left the composed view unchanged")
	}
	if after[0] != before[1] {
		t.Errorf("first line after scroll = %q, want %q", after[0], before[1])
	}
}

func TestComposeEmpty(t *testing.T) {
	l := &masonry.Layout[string]{}
	if got := Compose(l); got != "" {
		t.Errorf("Compose(empty) = %q, want empty", got)
	}
}
