package sink

import (
	"context"

	"github.com/matzehuels/recycleview/pkg/feed"
	"github.com/matzehuels/recycleview/pkg/masonry"
)

// Render exports l in the given format. Stats are embedded in JSON output.
// SVG output includes spacers and column outlines.
func Render(ctx context.Context, l *masonry.Layout[feed.Card], format string, stats masonry.Stats) ([]byte, error) {
	switch format {
	case FormatJSON:
		return RenderJSON(l, WithStats(stats))
	case FormatSVG:
		return RenderSVG(l, WithSpacers(), WithColumns()), nil
	case FormatDOT:
		return []byte(ToDOT(l)), nil
	case FormatPNG, FormatJPG:
		return RenderGraphviz(ctx, ToDOT(l), format)
	}
	return nil, ValidateFormat(format)
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatSVG:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatPNG:
		return "image/png"
	case FormatJPG:
		return "image/jpeg"
	}
	return "application/octet-stream"
}
