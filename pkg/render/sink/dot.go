package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/recycleview/pkg/errors"
	"github.com/matzehuels/recycleview/pkg/feed"
	"github.com/matzehuels/recycleview/pkg/masonry"
)

// pointsPerInch converts layout units (treated as points) to Graphviz inches.
const pointsPerInch = 72.0

// ToDOT converts a snapshot to a DOT graph for the neato engine. Every card
// is a fixed-size box pinned at its layout position; cards in the same
// column are chained with invisible edges in top-to-bottom order.
func ToDOT(l *masonry.Layout[feed.Card]) string {
	height := l.ContentHeight()

	var buf bytes.Buffer
	buf.WriteString("digraph masonry {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true, fontsize=12];\n")
	buf.WriteString("\n")

	for _, p := range l.Placements() {
		// DOT positions are box centers with y growing upward.
		cx := p.X + p.Width/2
		cy := height - (p.Y + p.Height/2)
		fmt.Fprintf(&buf, "  %q [label=%q, pos=\"%.1f,%.1f!\", width=%.3f, height=%.3f];\n",
			nodeID(p.Index), p.View.Title, cx, cy, p.Width/pointsPerInch, p.Height/pointsPerInch)
	}

	buf.WriteString("\n")
	for _, col := range l.Columns {
		for k := 1; k < len(col.Items); k++ {
			fmt.Fprintf(&buf, "  %q -> %q [style=invis];\n", nodeID(col.Items[k-1].Index), nodeID(col.Items[k].Index))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(index int) string { return fmt.Sprintf("card-%d", index) }

// RenderGraphviz renders a DOT graph with the neato engine. Supported
// formats are svg, png, and jpg.
func RenderGraphviz(ctx context.Context, dot, format string) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	case FormatJPG:
		gvFormat = graphviz.JPG
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "graphviz cannot render %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
