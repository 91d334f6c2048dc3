package masonry

import "testing"

func TestLayoutPlacements(t *testing.T) {
	cols := Balance(10, []int{10, 11, 12}, 2, testGeometry.Stride(), itoa)
	l := newLayout(testGeometry, Viewport{}, Range{10, 12}, 300, cols)

	want := []struct {
		index, column int
		x, y          float64
	}{
		{10, 0, 0, 1120},
		{11, 1, 112, 1120},
		{12, 0, 0, 1232},
	}

	got := l.Placements()
	if len(got) != len(want) {
		t.Fatalf("got %d placements, want %d", len(got), len(want))
	}
	for i, w := range want {
		p := got[i]
		if p.Index != w.index || p.Column != w.column || p.X != w.x || p.Y != w.y {
			t.Errorf("placement %d = {index %d col %d x %v y %v}, want %+v", i, p.Index, p.Column, p.X, p.Y, w)
		}
		if p.Width != 100 || p.Height != 100 {
			t.Errorf("placement %d size = %vx%v, want 100x100", i, p.Width, p.Height)
		}
		if p.View != itoa(w.index) {
			t.Errorf("placement %d view = %q", i, p.View)
		}
	}
}

func TestLayoutSpacers(t *testing.T) {
	tests := []struct {
		name        string
		r           Range
		n           int
		top, bottom float64
	}{
		{"whole list", Range{0, 2}, 3, 0, 0},
		{"head", Range{0, 5}, 300, 0, 294 * 112},
		{"middle", Range{10, 15}, 300, 10 * 112, 284 * 112},
		{"tail", Range{294, 299}, 300, 294 * 112, 0},
		{"degenerate", EmptyRange(), 300, 0, 300 * 112},
		{"empty collection", EmptyRange(), 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLayout[string](testGeometry, Viewport{}, tt.r, tt.n, nil)
			if l.TopSpacer != tt.top || l.BottomSpacer != tt.bottom {
				t.Errorf("spacers = %v/%v, want %v/%v", l.TopSpacer, l.BottomSpacer, tt.top, tt.bottom)
			}
			if l.HasTopSpacer() != (tt.top > 0) || l.HasBottomSpacer() != (tt.bottom > 0) {
				t.Errorf("HasTopSpacer=%v HasBottomSpacer=%v", l.HasTopSpacer(), l.HasBottomSpacer())
			}
		})
	}
}

func TestLayoutExtents(t *testing.T) {
	cols := Balance(0, []int{0, 1, 2}, 2, testGeometry.Stride(), itoa)
	l := newLayout(testGeometry, Viewport{}, Range{0, 2}, 3, cols)

	if got := l.ScrollExtent(); got != 336 {
		t.Errorf("ScrollExtent = %v, want 336", got)
	}
	if got := l.ContentHeight(); got != 224 {
		t.Errorf("ContentHeight = %v, want 224", got)
	}
	if got := l.Width(); got != 212 {
		t.Errorf("Width = %v, want 212", got)
	}
	if got := l.Visible(); got != 3 {
		t.Errorf("Visible = %d, want 3", got)
	}
	if got := l.ColumnCount(); got != 2 {
		t.Errorf("ColumnCount = %d, want 2", got)
	}
}
