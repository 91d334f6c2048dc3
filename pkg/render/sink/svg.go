package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/recycleview/pkg/feed"
	"github.com/matzehuels/recycleview/pkg/masonry"
)

const svgStyle = `
    .column { fill: #f4f6f8; }
    .spacer { fill: url(#hatch); stroke: #c0c6cc; stroke-dasharray: 4 4; }
    .card { fill: #ffffff; stroke: #5a6b7b; stroke-width: 1; }
    .title { font: bold 13px sans-serif; fill: #1d6f6f; }
    .body { font: 11px sans-serif; fill: #333; }
    .index { font: 10px monospace; fill: #999; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	window  bool
	spacers bool
	columns bool
}

// WithWindow crops the image to the viewport instead of the full content.
func WithWindow() SVGOption { return func(r *svgRenderer) { r.window = true } }

// WithSpacers draws the top and bottom spacers as hatched regions.
func WithSpacers() SVGOption { return func(r *svgRenderer) { r.spacers = true } }

// WithColumns draws a background block behind each column.
func WithColumns() SVGOption { return func(r *svgRenderer) { r.columns = true } }

// RenderSVG draws the snapshot as a standalone SVG document.
func RenderSVG(l *masonry.Layout[feed.Card], opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	width := max(l.Width(), 1)
	top, height := 0.0, max(l.ContentHeight(), 1)
	if r.window && !l.Viewport.Degenerate() {
		top, height = l.Viewport.ScrollOffset, l.Viewport.VisibleExtent
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		top, width, height, width, height)
	buf.WriteString("  <defs>\n")
	buf.WriteString(`    <pattern id="hatch" width="8" height="8" patternUnits="userSpaceOnUse" patternTransform="rotate(45)">` +
		`<line x1="0" y1="0" x2="0" y2="8" stroke="#dde1e5" stroke-width="2"/></pattern>` + "\n")
	fmt.Fprintf(&buf, "    <style>%s\n    </style>\n", svgStyle)
	buf.WriteString("  </defs>\n")

	if r.spacers {
		renderSpacers(&buf, l, width)
	}
	if r.columns {
		for c, col := range l.Columns {
			if len(col.Items) == 0 {
				continue
			}
			fmt.Fprintf(&buf, `  <rect class="column" x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
				l.Geometry.ColumnX(c), l.TopSpacer, l.Geometry.MinWidth, col.BlockHeight(l.Geometry.Gap))
		}
	}
	for _, p := range l.Placements() {
		renderCard(&buf, p)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderSpacers(buf *bytes.Buffer, l *masonry.Layout[feed.Card], width float64) {
	if l.HasTopSpacer() {
		fmt.Fprintf(buf, `  <rect class="spacer" id="top-spacer" x="0" y="0" width="%.1f" height="%.1f"/>`+"\n",
			width, l.TopSpacer)
	}
	if l.HasBottomSpacer() {
		y := l.ContentHeight() - l.BottomSpacer
		fmt.Fprintf(buf, `  <rect class="spacer" id="bottom-spacer" x="0" y="%.1f" width="%.1f" height="%.1f"/>`+"\n",
			y, width, l.BottomSpacer)
	}
}

func renderCard(buf *bytes.Buffer, p masonry.Placement[feed.Card]) {
	fmt.Fprintf(buf, `  <g id="card-%d">`+"\n", p.Index)
	fmt.Fprintf(buf, `    <rect class="card" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6"/>`+"\n",
		p.X, p.Y, p.Width, p.Height)
	fmt.Fprintf(buf, `    <text class="title" x="%.1f" y="%.1f">%s</text>`+"\n",
		p.X+8, p.Y+20, html.EscapeString(p.View.Title))
	if p.View.Body != "" {
		fmt.Fprintf(buf, `    <text class="body" x="%.1f" y="%.1f">%s</text>`+"\n",
			p.X+8, p.Y+38, html.EscapeString(p.View.Body))
	}
	fmt.Fprintf(buf, `    <text class="index" x="%.1f" y="%.1f" text-anchor="end">%d</text>`+"\n",
		p.X+p.Width-6, p.Y+p.Height-6, p.Index)
	buf.WriteString("  </g>\n")
}
