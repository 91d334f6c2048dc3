package masonry

import (
	"math"

	"github.com/matzehuels/recycleview/pkg/errors"
)

// Viewport is the current measurement of the scrollable surface.
type Viewport struct {
	// ScrollOffset is the distance scrolled from the top, never negative.
	ScrollOffset float64 `json:"scroll_offset"`
	// VisibleExtent is the height of the visible window.
	VisibleExtent float64 `json:"visible_extent"`
	// ContainerExtent is the width available for columns.
	ContainerExtent float64 `json:"container_extent"`
}

// Degenerate reports whether the surface has not been measured yet, or has
// collapsed to zero width or height.
func (v Viewport) Degenerate() bool {
	return !(v.VisibleExtent > 0) || !(v.ContainerExtent > 0)
}

// Check returns an [errors.ErrCodeDegenerateContainer] error when the
// viewport is degenerate. Layouts of a degenerate viewport are still valid:
// one column and no visible items.
func (v Viewport) Check() error {
	if !v.Degenerate() {
		return nil
	}
	return errors.New(errors.ErrCodeDegenerateContainer,
		"container is %vx%v, nothing is visible until it has a positive width and height",
		v.ContainerExtent, v.VisibleExtent)
}

// Change describes what a viewport update altered.
type Change struct {
	RangeChanged   bool
	ColumnsChanged bool
	Range          Range
	OldColumns     int
	Columns        int
}

// Any reports whether the update changed anything the layout depends on.
func (c Change) Any() bool { return c.RangeChanged || c.ColumnsChanged }

// Tracker derives the visible range and the column count from viewport
// measurements and the collection size. It reports a [Change] only when a
// derived value actually differs from the previous one.
//
// Tracker is not safe for concurrent use; [Engine] serializes access to it.
type Tracker struct {
	geom      Geometry
	viewport  Viewport
	itemCount int
	rng       Range
	columns   int
}

// NewTracker returns a tracker for an empty collection.
func NewTracker(g Geometry, vp Viewport) *Tracker {
	t := &Tracker{geom: g, viewport: vp, rng: EmptyRange()}
	t.viewport.ScrollOffset = t.clamp(vp.ScrollOffset)
	return t
}

// Scroll records a new scroll offset and re-derives the visible range.
// The offset is clamped to [0, MaxScroll()].
func (t *Tracker) Scroll(offset float64) Change {
	t.viewport.ScrollOffset = t.clamp(offset)
	return t.derive(false)
}

// Resize records new surface dimensions and re-derives both the column
// count and the visible range.
func (t *Tracker) Resize(width, height float64) Change {
	t.viewport.ContainerExtent = width
	t.viewport.VisibleExtent = height
	t.viewport.ScrollOffset = t.clamp(t.viewport.ScrollOffset)
	return t.derive(true)
}

// SetItemCount records the collection size and re-derives everything.
func (t *Tracker) SetItemCount(n int) Change {
	t.itemCount = max(0, n)
	t.viewport.ScrollOffset = t.clamp(t.viewport.ScrollOffset)
	return t.derive(true)
}

// Viewport returns the current measurements.
func (t *Tracker) Viewport() Viewport { return t.viewport }

// Range returns the current visible range.
func (t *Tracker) Range() Range { return t.rng }

// Columns returns the current column count.
func (t *Tracker) Columns() int { return t.columns }

// ItemCount returns the collection size the tracker derives against.
func (t *Tracker) ItemCount() int { return t.itemCount }

// MaxScroll returns the largest offset that still shows content.
func (t *Tracker) MaxScroll() float64 {
	return math.Max(0, float64(t.itemCount)*t.geom.Stride()-t.viewport.VisibleExtent)
}

func (t *Tracker) clamp(offset float64) float64 {
	if !(offset > 0) {
		return 0
	}
	return math.Min(offset, t.MaxScroll())
}

func (t *Tracker) derive(columns bool) Change {
	ch := Change{Range: t.rng, OldColumns: t.columns, Columns: t.columns}

	r := VisibleRange(t.viewport.ScrollOffset, t.viewport.VisibleExtent, t.geom.MinHeight, t.geom.Gap, t.itemCount)
	if t.viewport.Degenerate() {
		r = EmptyRange()
	}
	if r != t.rng {
		t.rng = r
		ch.Range = r
		ch.RangeChanged = true
	}

	if columns {
		c := ColumnCount(t.viewport.ContainerExtent, t.geom.MinWidth, t.geom.Gap, t.itemCount)
		if c != t.columns {
			t.columns = c
			ch.Columns = c
			ch.ColumnsChanged = true
		}
	}
	return ch
}
