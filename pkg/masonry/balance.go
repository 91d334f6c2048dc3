package masonry

// Entry is a rendered item placed in a column, tagged with its position in
// the full collection.
type Entry[V any] struct {
	Index int `json:"index"`
	View  V   `json:"view"`
}

// Column is one vertical track of the masonry layout.
//
// Height is the accumulated extent of the entries, including one trailing
// gap per entry.
type Column[V any] struct {
	Height float64    `json:"height"`
	Items  []Entry[V] `json:"items"`
}

// BlockHeight returns the height of the column's content without the
// trailing gap of its last entry.
func (c Column[V]) BlockHeight(gap float64) float64 {
	if len(c.Items) == 0 {
		return 0
	}
	return c.Height - gap
}

// Balance distributes items across columns, always appending to the column
// with the smallest accumulated height. Ties go to the lowest column index.
// Each placement grows its column by extent.
//
// start is the collection index of items[0]; render is invoked exactly once
// per item, in order. A non-positive column count yields no columns.
func Balance[T, V any](start int, items []T, columns int, extent float64, render func(T) V) []Column[V] {
	if columns <= 0 {
		return nil
	}

	cols := make([]Column[V], columns)
	for i, item := range items {
		shortest := 0
		for c := 1; c < columns; c++ {
			if cols[c].Height < cols[shortest].Height {
				shortest = c
			}
		}
		cols[shortest].Height += extent
		cols[shortest].Items = append(cols[shortest].Items, Entry[V]{
			Index: start + i,
			View:  render(item),
		})
	}
	return cols
}
