package masonry

import (
	"strconv"
	"testing"
)

func itoa(i int) string { return strconv.Itoa(i) }

func TestBalanceTwoColumns(t *testing.T) {
	cols := Balance(0, []int{0, 1, 2}, 2, 112, itoa)

	if len(cols) != 2 {
		t.Fatalf("got %d columns, want 2", len(cols))
	}
	assertIndices(t, cols[0], 0, 2)
	assertIndices(t, cols[1], 1)
	if cols[0].Height != 224 {
		t.Errorf("column 0 height = %v, want 224", cols[0].Height)
	}
	if cols[1].Height != 112 {
		t.Errorf("column 1 height = %v, want 112", cols[1].Height)
	}
	if cols[0].Items[1].View != "2" {
		t.Errorf("view = %q, want %q", cols[0].Items[1].View, "2")
	}
}

func TestBalanceOffsetsIndices(t *testing.T) {
	cols := Balance(10, []int{10, 11, 12, 13}, 3, 112, itoa)
	assertIndices(t, cols[0], 10, 13)
	assertIndices(t, cols[1], 11)
	assertIndices(t, cols[2], 12)
}

func TestBalanceHeightsDifferByAtMostOneExtent(t *testing.T) {
	for columns := 1; columns <= 6; columns++ {
		for n := 0; n <= 40; n++ {
			items := make([]int, n)
			for i := range items {
				items[i] = i
			}
			cols := Balance(0, items, columns, 112, itoa)

			lo, hi, total := cols[0].Height, cols[0].Height, 0
			for _, c := range cols {
				lo = min(lo, c.Height)
				hi = max(hi, c.Height)
				total += len(c.Items)
			}
			if hi-lo > 112 {
				t.Fatalf("columns=%d n=%d: height spread %v exceeds one extent", columns, n, hi-lo)
			}
			if total != n {
				t.Fatalf("columns=%d n=%d: placed %d items", columns, n, total)
			}
		}
	}
}

func TestBalanceRendersOncePerItem(t *testing.T) {
	calls := 0
	Balance(0, []int{1, 2, 3, 4, 5}, 2, 112, func(i int) int {
		calls++
		return i
	})
	if calls != 5 {
		t.Errorf("render called %d times, want 5", calls)
	}
}

func TestBalanceNoColumns(t *testing.T) {
	if cols := Balance(0, []int{1}, 0, 112, itoa); cols != nil {
		t.Errorf("Balance with 0 columns = %v, want nil", cols)
	}
	cols := Balance(0, []int(nil), 3, 112, itoa)
	if len(cols) != 3 {
		t.Fatalf("got %d columns, want 3", len(cols))
	}
	for i, c := range cols {
		if c.Height != 0 || len(c.Items) != 0 {
			t.Errorf("column %d not empty: %+v", i, c)
		}
	}
}

func TestColumnBlockHeight(t *testing.T) {
	c := Column[string]{Height: 224, Items: make([]Entry[string], 2)}
	if got := c.BlockHeight(12); got != 212 {
		t.Errorf("BlockHeight = %v, want 212", got)
	}
	if got := (Column[string]{}).BlockHeight(12); got != 0 {
		t.Errorf("empty BlockHeight = %v, want 0", got)
	}
}

func assertIndices[V any](t *testing.T, c Column[V], want ...int) {
	t.Helper()
	if len(c.Items) != len(want) {
		t.Fatalf("column has %d items, want %d", len(c.Items), len(want))
	}
	for i, e := range c.Items {
		if e.Index != want[i] {
			t.Errorf("item %d index = %d, want %d", i, e.Index, want[i])
		}
	}
}
