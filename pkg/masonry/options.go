package masonry

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/recycleview/pkg/errors"
)

// =============================================================================
// Default Values - Shared by the CLI, the TUI, and the HTTP server
// =============================================================================

const (
	// DefaultMinWidth is the default minimum column width.
	DefaultMinWidth = 100.0

	// DefaultMinHeight is the default fixed item height.
	DefaultMinHeight = 100.0

	// DefaultGap is the default spacing between items and columns.
	DefaultGap = 12.0
)

// Options configures an [Engine].
type Options[T, V any] struct {
	// MinWidth is the minimum width of a column. Must be positive.
	MinWidth float64
	// MinHeight is the fixed height of every item. Must be positive.
	MinHeight float64
	// Gap is the spacing between items and between columns. Must not be negative.
	Gap float64

	// RenderItem turns one item into its view. Required.
	RenderItem func(T) V
	// Load supplies the collection. Required; invoked at most once.
	Load Producer[T]

	// Viewport seeds the initial measurements before the surface reports any.
	Viewport Viewport

	// Logger receives engine diagnostics. Defaults to a discarding logger.
	Logger *log.Logger
}

// Geometry returns the item measurements carried by the options.
func (o Options[T, V]) Geometry() Geometry {
	return Geometry{MinWidth: o.MinWidth, MinHeight: o.MinHeight, Gap: o.Gap}
}

// Validate checks that the options describe a usable engine.
func (o Options[T, V]) Validate() error {
	if !finite(o.MinWidth) || o.MinWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "min width must be positive, got %v", o.MinWidth)
	}
	if !finite(o.MinHeight) || o.MinHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "min height must be positive, got %v", o.MinHeight)
	}
	if !finite(o.Gap) || o.Gap < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "gap must not be negative, got %v", o.Gap)
	}
	if o.RenderItem == nil {
		return errors.New(errors.ErrCodeInvalidOptions, "render function is required")
	}
	if o.Load == nil {
		return errors.New(errors.ErrCodeInvalidOptions, "load function is required")
	}
	return nil
}

func (o Options[T, V]) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
