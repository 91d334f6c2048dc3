package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recycleview/internal/server"
)

// serveCommand creates the HTTP layout service command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		maxSurfaces int
		idleTimeout time.Duration
		allowFiles  bool
		noCache     bool
		geom        geometryFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve masonry layouts over HTTP",
		Long: `Serve masonry layouts over HTTP.

Each client creates a surface, reports scroll and resize events, and reads
back layout snapshots:

  POST   /v1/surfaces                 create (geometry, viewport, feed)
  POST   /v1/surfaces/{id}/scroll     {"offset": 1200}
  POST   /v1/surfaces/{id}/resize     {"width": 1024, "height": 768}
  GET    /v1/surfaces/{id}/layout     ?format=json|svg|dot|png|jpg
  DELETE /v1/surfaces/{id}

Remote feeds are cached in the configured cache backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config
			geom.apply(cmd, &cfg.Layout)
			fs := cmd.Flags()
			if fs.Changed("addr") {
				cfg.Server.Addr = addr
			}
			if fs.Changed("max-surfaces") {
				cfg.Server.MaxSurfaces = maxSurfaces
			}
			if fs.Changed("allow-files") {
				cfg.Server.AllowFileFeeds = allowFiles
			}
			idle, err := cfg.idleTimeout()
			if err != nil {
				return err
			}
			if fs.Changed("idle-timeout") {
				idle = idleTimeout
			}

			opts := server.Options{
				Geometry:       cfg.Layout.Geometry(),
				MaxSurfaces:    cfg.Server.MaxSurfaces,
				IdleTimeout:    idle,
				FeedTTL:        cfg.Feed.TTL,
				AllowFileFeeds: cfg.Server.AllowFileFeeds,
				Logger:         c.Logger,
			}
			return c.runServe(cmd.Context(), cfg.Server.Addr, opts, noCache)
		},
	}

	geom.register(cmd, "pixels")
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().IntVar(&maxSurfaces, "max-surfaces", server.DefaultMaxSurfaces, "maximum live surfaces")
	cmd.Flags().DurationVar(&idleTimeout, "idle-timeout", server.DefaultIdleTimeout, "drop surfaces idle for this long")
	cmd.Flags().BoolVar(&allowFiles, "allow-files", false, "let clients load feed files from this machine")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable feed caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, opts server.Options, noCache bool) error {
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer backend.Close()
	opts.Cache = backend

	srv := server.New(opts)
	fmt.Println(StyleTitle.Render(appName + " serve"))
	printKeyValue("address", StyleLink.Render("http://"+addr))
	printKeyValue("geometry", StyleValue.Render(fmt.Sprintf("%gx%g gap %g", opts.Geometry.MinWidth, opts.Geometry.MinHeight, opts.Geometry.Gap)))
	printKeyValue("surfaces", StyleNumber.Render(fmt.Sprintf("max %d", opts.MaxSurfaces))+StyleDim.Render(fmt.Sprintf(" · idle %s", opts.IdleTimeout)))
	printNewline()
	printDetail("Press Ctrl+C to stop")
	return srv.ListenAndServe(ctx, addr)
}
