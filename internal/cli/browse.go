package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recycleview/internal/tui"
	"github.com/matzehuels/recycleview/pkg/feed"
	"github.com/matzehuels/recycleview/pkg/masonry"
)

// browseCommand creates the interactive terminal browser.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		logFile string
		noCache bool
		refresh bool
		feeds   feedFlags
		geom    geometryFlags
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Scroll a feed as a masonry grid in the terminal",
		Long: `Scroll a feed as a masonry grid in the terminal.

The terminal window is the scroll container: resizing it changes the column
count, and only the cards in view are drawn. Card sizes are in terminal cells.

Keys: j/k or arrows scroll a line, f/b page, g/G jump to top/bottom, q quits.
The mouse wheel scrolls too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config
			feeds.apply(cmd, &cfg.Feed)
			geom.apply(cmd, &cfg.TUI)
			return c.runBrowse(cmd.Context(), cfg.Feed, cfg.TUI.Geometry(), logFile, noCache, refresh)
		},
	}

	feeds.register(cmd)
	geom.register(cmd, "cells")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs here while the browser owns the terminal")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "reload remote feeds even when cached")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, fc feed.Config, g masonry.Geometry, logFile string, noCache, refresh bool) error {
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer backend.Close()

	loader, err := feed.Open(ctx, fc, backend, refresh)
	if err != nil {
		return fmt.Errorf("open feed: %w", err)
	}
	defer loader.Close()

	// The alt screen owns the terminal, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	c.Logger.SetOutput(out)
	defer c.Logger.SetOutput(os.Stderr)
	if c.verbose {
		c.registerHooks()
	}

	m, err := tui.New(ctx, loader, g, c.Logger)
	if err != nil {
		return err
	}
	return tui.Run(ctx, m)
}
