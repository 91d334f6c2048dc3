package masonry

import "slices"

// Layout is an immutable snapshot of the virtualized layout.
//
// Columns hold the rendered views for Range only. TopSpacer stands in for
// every item before Range.Start and BottomSpacer for every item after
// Range.End, so the scrollable extent always equals ItemCount * Stride.
type Layout[V any] struct {
	Columns      []Column[V] `json:"columns"`
	TopSpacer    float64     `json:"top_spacer"`
	BottomSpacer float64     `json:"bottom_spacer"`
	Range        Range       `json:"range"`
	ItemCount    int         `json:"item_count"`
	Geometry     Geometry    `json:"geometry"`
	Viewport     Viewport    `json:"viewport"`
	Version      uint64      `json:"version"`
}

// Placement is the absolute position of one rendered item.
type Placement[V any] struct {
	Index  int     `json:"index"`
	Column int     `json:"column"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	View   V       `json:"view"`
}

func newLayout[V any](g Geometry, vp Viewport, r Range, n int, cols []Column[V]) *Layout[V] {
	stride := g.Stride()
	l := &Layout[V]{
		Columns:   cols,
		Range:     r,
		ItemCount: n,
		Geometry:  g,
		Viewport:  vp,
	}
	if n == 0 {
		return l
	}
	if !r.Empty() {
		l.TopSpacer = float64(r.Start) * stride
	}
	if below := n - r.End - 1; below > 0 {
		l.BottomSpacer = float64(below) * stride
	}
	return l
}

// ColumnCount returns the number of columns in the snapshot.
func (l *Layout[V]) ColumnCount() int { return len(l.Columns) }

// Visible returns the number of rendered items.
func (l *Layout[V]) Visible() int {
	n := 0
	for _, c := range l.Columns {
		n += len(c.Items)
	}
	return n
}

// HasTopSpacer reports whether a top spacer needs to be emitted.
func (l *Layout[V]) HasTopSpacer() bool { return l.TopSpacer > 0 }

// HasBottomSpacer reports whether a bottom spacer needs to be emitted.
func (l *Layout[V]) HasBottomSpacer() bool { return l.BottomSpacer > 0 }

// ScrollExtent returns the height of the full content, as if every item had
// been rendered in a single track.
func (l *Layout[V]) ScrollExtent() float64 {
	return float64(l.ItemCount) * l.Geometry.Stride()
}

// ContentHeight returns the height of the spacers plus the tallest column.
func (l *Layout[V]) ContentHeight() float64 {
	tallest := 0.0
	for _, c := range l.Columns {
		tallest = max(tallest, c.Height)
	}
	return l.TopSpacer + tallest + l.BottomSpacer
}

// Width returns the horizontal extent of the columns without a trailing gap.
func (l *Layout[V]) Width() float64 {
	if len(l.Columns) == 0 {
		return 0
	}
	return l.Geometry.ColumnX(len(l.Columns)-1) + l.Geometry.MinWidth
}

// Placements returns every rendered item with its absolute position, ordered
// by collection index. Column c starts at x = c*(MinWidth+Gap); the k-th item
// of a column starts at y = TopSpacer + k*(MinHeight+Gap).
func (l *Layout[V]) Placements() []Placement[V] {
	out := make([]Placement[V], 0, l.Visible())
	stride := l.Geometry.Stride()
	for c, col := range l.Columns {
		x := l.Geometry.ColumnX(c)
		for k, e := range col.Items {
			out = append(out, Placement[V]{
				Index:  e.Index,
				Column: c,
				X:      x,
				Y:      l.TopSpacer + float64(k)*stride,
				Width:  l.Geometry.MinWidth,
				Height: l.Geometry.MinHeight,
				View:   e.View,
			})
		}
	}
	slices.SortFunc(out, func(a, b Placement[V]) int { return a.Index - b.Index })
	return out
}
