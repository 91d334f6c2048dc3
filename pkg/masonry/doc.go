// Package masonry implements a virtualized multi-column ("masonry") layout
// engine for large, uniformly sized item collections.
//
// Only items inside the visible viewport are turned into views. Everything
// above and below the visible window is represented by two spacers whose
// heights keep the scrollable extent equal to what it would be if every item
// had been rendered.
//
// # Components
//
// The package is built leaf-first:
//
//   - Geometry: [ColumnCount] and [VisibleRange], pure functions
//   - Balancing: [Balance], greedy shortest-column assignment
//   - Tracking: [Tracker] derives the visible [Range] and column count from
//     a [Viewport]; [Surface] and [Emitter] deliver scroll and resize events
//   - Loading: [Source] wraps a one-shot [Producer]
//   - Orchestration: [Engine] owns the dirty flags, the state machine, and
//     publishes immutable [Layout] snapshots
//
// # Usage
//
//	engine, err := masonry.New(masonry.Options[Card, string]{
//	    MinWidth:   100,
//	    MinHeight:  100,
//	    Gap:        12,
//	    RenderItem: func(c Card) string { return c.Title },
//	    Load:       loadCards,
//	})
//	if err != nil {
//	    return err
//	}
//	surface := masonry.NewEmitter()
//	if err := engine.Mount(ctx, surface); err != nil {
//	    return err
//	}
//	defer engine.Unmount()
//
//	surface.Resize(312, 600)
//	if err := engine.Load(ctx); err != nil {
//	    return err
//	}
//	surface.Scroll(224)
//	layout := engine.Layout()
//
// # Concurrency
//
// All engine state is owned by a single mutex. Event handlers, the load
// commit, and readers serialize through it. Readers receive *[Layout]
// snapshots that are never modified after publication.
package masonry
