package masonry

import "math"

// Range is an inclusive, 0-based span of item indices.
//
// For a non-empty collection a valid range satisfies 0 <= Start <= End < n.
// An empty range has End < Start; [EmptyRange] is the canonical value.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// EmptyRange returns the range used when nothing is eligible for rendering.
func EmptyRange() Range { return Range{Start: 0, End: -1} }

// Empty reports whether the range holds no indices.
func (r Range) Empty() bool { return r.End < r.Start }

// Len returns the number of indices in the range.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether index i lies inside the range.
func (r Range) Contains(i int) bool { return !r.Empty() && i >= r.Start && i <= r.End }

// Geometry holds the fixed per-item measurements used by all layout math.
type Geometry struct {
	MinWidth  float64 `json:"min_width"`
	MinHeight float64 `json:"min_height"`
	Gap       float64 `json:"gap"`
}

// Stride returns the vertical extent consumed by one item: MinHeight + Gap.
func (g Geometry) Stride() float64 { return g.MinHeight + g.Gap }

// ColumnX returns the horizontal offset of column i.
func (g Geometry) ColumnX(i int) float64 { return float64(i) * (g.MinWidth + g.Gap) }

// ColumnCount returns how many columns of at least minWidth fit into
// containerWidth when separated by gap.
//
// The raw count floor((containerWidth+gap)/(minWidth+gap)) is clamped to at
// least 1 and at most itemCount, so no column is ever created without items.
// A zero-width container (not yet measured) or a non-positive item width
// yields a single column. An empty collection yields 0.
func ColumnCount(containerWidth, minWidth, gap float64, itemCount int) int {
	if itemCount <= 0 {
		return 0
	}

	count := 1.0
	if stride := minWidth + gap; stride > 0 && containerWidth > 0 {
		count = math.Floor((containerWidth + gap) / stride)
	}
	if !(count >= 1) {
		count = 1
	}
	if count >= float64(itemCount) {
		return itemCount
	}
	return int(count)
}

// VisibleRange returns the indices intersecting the window
// [scrollOffset, scrollOffset+visibleExtent) under a single-track model where
// item i occupies [i*(itemExtent+gap), (i+1)*(itemExtent+gap)).
//
//	start = floor(scrollOffset / (itemExtent+gap))
//	end   = min(itemCount-1, ceil((scrollOffset+visibleExtent) / (itemExtent+gap)) - 1)
//
// Negative offsets are treated as 0 and an offset past the content clamps
// start to end. An empty collection, a non-positive visible extent, or a
// non-positive stride yields [EmptyRange].
func VisibleRange(scrollOffset, visibleExtent, itemExtent, gap float64, itemCount int) Range {
	stride := itemExtent + gap
	if itemCount <= 0 || !(visibleExtent > 0) || !(stride > 0) {
		return EmptyRange()
	}

	offset := scrollOffset
	if !(offset > 0) {
		offset = 0
	}

	last := itemCount - 1
	end := last
	if e := math.Ceil((offset+visibleExtent)/stride) - 1; e < float64(last) {
		end = int(e)
	}

	start := end
	if s := math.Floor(offset / stride); s < float64(end) {
		start = int(s)
	}
	return Range{Start: start, End: end}
}
