package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/recycleview/pkg/cache"
	"github.com/matzehuels/recycleview/pkg/feed"
	"github.com/matzehuels/recycleview/pkg/masonry"
	"github.com/matzehuels/recycleview/pkg/render/sink"
)

// layoutRequest is everything "recycleview layout" needs to produce one export.
type layoutRequest struct {
	feed     feed.Config
	geometry masonry.Geometry
	width    float64
	height   float64
	offset   float64
	format   string
	output   string
	noCache  bool
	refresh  bool
}

// layoutCommand creates the layout command for headless layout export.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		req   layoutRequest
		feeds feedFlags
		geom  geometryFlags
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute one masonry layout and export it",
		Long: `Compute the masonry layout a surface of the given size would show at the
given scroll offset, and export it.

Formats: json (layout document), svg, dot (Graphviz with pinned positions),
png and jpg (rendered through Graphviz). Text formats go to stdout unless
--output is set.

Rendered exports are cached by feed content and layout parameters.`,
		Example: `  recycleview layout --count 300 --width 1024 --height 768 --offset 2000
  recycleview layout --path cards.toml --format svg -o grid.svg
  recycleview layout --url https://example.com/cards.json --format png -o grid.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config
			feeds.apply(cmd, &cfg.Feed)
			geom.apply(cmd, &cfg.Layout)
			req.feed = cfg.Feed
			req.geometry = cfg.Layout.Geometry()
			return c.runLayout(cmd.Context(), req, cmd.OutOrStdout())
		},
	}

	feeds.register(cmd)
	geom.register(cmd, "pixels")
	cmd.Flags().Float64Var(&req.width, "width", 1024, "container width")
	cmd.Flags().Float64Var(&req.height, "height", 768, "visible height")
	cmd.Flags().Float64Var(&req.offset, "offset", 0, "scroll offset")
	cmd.Flags().StringVarP(&req.format, "format", "f", sink.FormatJSON, "output format: json, svg, dot, png, jpg")
	cmd.Flags().StringVarP(&req.output, "output", "o", "", "output file (default: stdout for text formats, layout.<format> otherwise)")
	cmd.Flags().BoolVar(&req.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&req.refresh, "refresh", false, "reload remote feeds even when cached")

	return cmd
}

// runLayout loads the feed, computes the layout, and writes the export.
func (c *CLI) runLayout(ctx context.Context, req layoutRequest, stdout io.Writer) error {
	if err := sink.ValidateFormat(req.format); err != nil {
		return err
	}
	output := req.output
	if output == "" && (req.format == sink.FormatPNG || req.format == sink.FormatJPG) {
		output = "layout." + req.format
	}

	backend, err := c.newCache(ctx, req.noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer backend.Close()

	loader, err := feed.Open(ctx, req.feed, backend, req.refresh)
	if err != nil {
		return fmt.Errorf("open feed: %w", err)
	}
	defer loader.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Loading %s feed...", loader.Kind()))
	spinner.Start()
	res, err := computeLayout(ctx, loader, req, c.Logger)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Laid out %d of %d cards", res.layout.Visible(), res.layout.ItemCount))

	data, cached, err := c.export(ctx, backend, res, req)
	if err != nil {
		return fmt.Errorf("export %s: %w", req.format, err)
	}

	if output == "" || output == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(res.layout.ItemCount, res.layout.Visible(), res.layout.ColumnCount(), cached)
	if res.layout.ColumnCount() > 0 {
		fmt.Println(columnTable(res.layout))
	}
	printNewline()
	printNextStep("Browse interactively", appName+" browse")
	return nil
}

type layoutResult struct {
	layout *masonry.Layout[feed.Card]
	stats  masonry.Stats
	cards  []feed.Card
}

// computeLayout drives an engine through the same events a surface would
// send: a resize, the load, then a scroll.
func computeLayout(ctx context.Context, loader feed.Loader, req layoutRequest, logger *log.Logger) (layoutResult, error) {
	var cards []feed.Card
	engine, err := masonry.New(masonry.Options[feed.Card, feed.Card]{
		MinWidth:   req.geometry.MinWidth,
		MinHeight:  req.geometry.MinHeight,
		Gap:        req.geometry.Gap,
		RenderItem: func(c feed.Card) feed.Card { return c },
		Load: func(ctx context.Context) ([]feed.Card, error) {
			cs, err := loader.Load(ctx)
			cards = cs
			return cs, err
		},
		Logger: logger,
	})
	if err != nil {
		return layoutResult{}, err
	}

	surface := masonry.NewEmitter()
	if err := engine.Mount(ctx, surface); err != nil {
		return layoutResult{}, err
	}
	defer engine.Unmount()

	surface.Resize(req.width, req.height)
	if err := engine.Load(ctx); err != nil {
		return layoutResult{}, err
	}
	surface.Scroll(req.offset)

	return layoutResult{layout: engine.Layout(), stats: engine.Stats(), cards: cards}, nil
}

// export renders res in the requested format. Non-JSON exports are cached
// under a key derived from the card contents and every layout parameter.
func (c *CLI) export(ctx context.Context, backend cache.Cache, res layoutResult, req layoutRequest) ([]byte, bool, error) {
	if req.format == sink.FormatJSON {
		data, err := sink.Render(ctx, res.layout, req.format, res.stats)
		return data, false, err
	}

	content, err := json.Marshal(res.cards)
	if err != nil {
		return nil, false, err
	}
	key := cache.NewDefaultKeyer().ArtifactKey(cache.Hash(content), cache.ArtifactKeyOpts{
		Format:    req.format,
		Width:     req.width,
		Height:    req.height,
		Offset:    res.layout.Viewport.ScrollOffset,
		MinWidth:  req.geometry.MinWidth,
		MinHeight: req.geometry.MinHeight,
		Gap:       req.geometry.Gap,
	})

	if data, ok, err := backend.Get(ctx, key); err != nil {
		c.Logger.Warn("artifact cache read failed", "err", err)
	} else if ok && !req.refresh {
		return data, true, nil
	}

	data, err := sink.Render(ctx, res.layout, req.format, res.stats)
	if err != nil {
		return nil, false, err
	}
	if err := backend.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
		c.Logger.Warn("artifact cache write failed", "err", err)
	}
	return data, false, nil
}
