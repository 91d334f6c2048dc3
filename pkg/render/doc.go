// Package render groups the outputs of a masonry layout snapshot.
//
// # Exports
//
// The [sink] subpackage turns a layout of feed cards into files and wire
// documents: JSON, standalone SVG, Graphviz DOT with pinned positions, and
// PNG or JPG rendered through Graphviz.
//
//	data, err := sink.Render(ctx, engine.Layout(), sink.FormatSVG, engine.Stats())
//
// # Terminal
//
// The [term] subpackage draws a snapshot of rendered cards in
// terminal cells, for the interactive browser.
//
//	view := term.Compose(engine.Layout())
//
// [sink]: github.com/matzehuels/recycleview/pkg/render/sink
// [term]: github.com/matzehuels/recycleview/pkg/render/term
package render
