package sink

import (
	"encoding/json"

	"github.com/matzehuels/recycleview/pkg/feed"
	"github.com/matzehuels/recycleview/pkg/masonry"
)

// Document is the interchange form of a layout snapshot. The HTTP server
// returns it as is.
type Document struct {
	Version      uint64           `json:"version"`
	Geometry     masonry.Geometry `json:"geometry"`
	Viewport     masonry.Viewport `json:"viewport"`
	ItemCount    int              `json:"item_count"`
	Range        masonry.Range    `json:"range"`
	Columns      []DocColumn      `json:"columns"`
	TopSpacer    float64          `json:"top_spacer"`
	BottomSpacer float64          `json:"bottom_spacer"`
	ScrollExtent float64          `json:"scroll_extent"`
	Items        []DocItem        `json:"items"`
	Stats        *masonry.Stats   `json:"stats,omitempty"`
}

// DocColumn summarizes one column.
type DocColumn struct {
	X           float64 `json:"x"`
	Height      float64 `json:"height"`
	BlockHeight float64 `json:"block_height"`
	Items       []int   `json:"items"`
}

// DocItem is one placed card.
type DocItem struct {
	Index  int       `json:"index"`
	Column int       `json:"column"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Card   feed.Card `json:"card"`
}

// JSONOption configures [RenderJSON] and [NewDocument].
type JSONOption func(*Document)

// WithStats embeds engine counters in the document.
func WithStats(s masonry.Stats) JSONOption {
	return func(d *Document) { d.Stats = &s }
}

// NewDocument converts a snapshot.
func NewDocument(l *masonry.Layout[feed.Card], opts ...JSONOption) Document {
	d := Document{
		Version:      l.Version,
		Geometry:     l.Geometry,
		Viewport:     l.Viewport,
		ItemCount:    l.ItemCount,
		Range:        l.Range,
		Columns:      make([]DocColumn, len(l.Columns)),
		TopSpacer:    l.TopSpacer,
		BottomSpacer: l.BottomSpacer,
		ScrollExtent: l.ScrollExtent(),
	}
	for c, col := range l.Columns {
		dc := DocColumn{
			X:           l.Geometry.ColumnX(c),
			Height:      col.Height,
			BlockHeight: col.BlockHeight(l.Geometry.Gap),
			Items:       make([]int, len(col.Items)),
		}
		for k, e := range col.Items {
			dc.Items[k] = e.Index
		}
		d.Columns[c] = dc
	}

	placements := l.Placements()
	d.Items = make([]DocItem, len(placements))
	for i, p := range placements {
		d.Items[i] = DocItem{
			Index: p.Index, Column: p.Column,
			X: p.X, Y: p.Y, Width: p.Width, Height: p.Height,
			Card: p.View,
		}
	}

	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// RenderJSON exports the snapshot as pretty-printed JSON.
func RenderJSON(l *masonry.Layout[feed.Card], opts ...JSONOption) ([]byte, error) {
	return json.MarshalIndent(NewDocument(l, opts...), "", "  ")
}
