// Package pkg provides the core libraries for recycleview virtualized
// masonry layouts.
//
// # Overview
//
// Recycleview arranges a large collection of uniformly sized cards into
// balanced columns and materializes views only for the cards that intersect
// the visible viewport. The pkg directory is organized into these areas:
//
//  1. [masonry] - The layout engine (geometry, visible range, balancing)
//  2. [feed] - Card collections (demo, file, HTTP, Redis, MongoDB)
//  3. [render] - Layout exports (JSON, SVG, DOT, PNG) and terminal cards
//  4. [cache] - Feed and artifact caching (file, Redis, null)
//  5. Support: [errors], [observability], [httputil], [buildinfo]
//
// # Architecture
//
// The data flow for one surface:
//
//	Feed (demo, file, http, redis, mongo)
//	         ↓
//	    [feed] loader (optionally cached)
//	         ↓
//	    [masonry] engine  ←  scroll / resize events from a surface
//	         ↓
//	    immutable layout snapshot
//	         ↓
//	    [render/sink] or [render/term] output
//
// # Quick Start
//
// Lay out a demo feed in a 1024x768 viewport:
//
//	loader := feed.Demo(300)
//	engine, _ := masonry.New(masonry.Options[feed.Card, feed.Card]{
//	    MinWidth:   masonry.DefaultMinWidth,
//	    MinHeight:  masonry.DefaultMinHeight,
//	    Gap:        masonry.DefaultGap,
//	    RenderItem: func(c feed.Card) feed.Card { return c },
//	    Load:       loader.Load,
//	})
//
//	surface := masonry.NewEmitter()
//	_ = engine.Mount(ctx, surface)
//	defer engine.Unmount()
//
//	surface.Resize(1024, 768)
//	_ = engine.Load(ctx)
//	surface.Scroll(2000)
//
//	svg := sink.RenderSVG(engine.Layout())
//
// # Testing
//
//	go test ./pkg/...                 # All tests
//	go test ./pkg/masonry/...         # Specific package
//	go test -run Example ./pkg/...    # Examples only
//
// Redis-backed tests run only when RECYCLEVIEW_TEST_REDIS names a server.
//
// [masonry]: https://pkg.go.dev/github.com/matzehuels/recycleview/pkg/masonry
// [feed]: https://pkg.go.dev/github.com/matzehuels/recycleview/pkg/feed
// [render]: https://pkg.go.dev/github.com/matzehuels/recycleview/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/recycleview/pkg/render/sink
// [render/term]: https://pkg.go.dev/github.com/matzehuels/recycleview/pkg/render/term
// [cache]: https://pkg.go.dev/github.com/matzehuels/recycleview/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/recycleview/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/recycleview/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/recycleview/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/recycleview/pkg/buildinfo
package pkg
