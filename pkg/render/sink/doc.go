// Package sink exports masonry layouts of feed cards.
//
// Formats:
//
//   - [RenderJSON]: the layout snapshot as a [Document]
//   - [RenderSVG]: a standalone SVG of the columns, spacers, and cards
//   - [ToDOT]: a Graphviz DOT graph with every card pinned to its position
//   - [RenderGraphviz]: DOT rendered to SVG, PNG, or JPG through Graphviz
//
// All renderers read the snapshot only and are safe for concurrent use.
package sink

import (
	"slices"

	"github.com/matzehuels/recycleview/pkg/errors"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatJPG  = "jpg"
)

// Formats lists every supported output format.
var Formats = []string{FormatJSON, FormatSVG, FormatDOT, FormatPNG, FormatJPG}

// ValidateFormat reports an error for unsupported formats.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want one of %v)", format, Formats)
	}
	return nil
}
