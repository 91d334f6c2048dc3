package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/recycleview/pkg/buildinfo"
	"github.com/matzehuels/recycleview/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, the config file is loaded into c.Config and
// the log level is set from --verbose. Verbose mode also registers logging
// observability hooks.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Recycleview renders huge card feeds as virtualized masonry grids",
		Long: `Recycleview lays out large collections of uniformly sized cards in balanced
columns, creating views only for the cards inside the visible viewport.

Browse a feed in the terminal, export a single layout, or serve layouts to
remote surfaces over HTTP.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.SetLogLevel(LogInfo)
			if c.verbose {
				c.SetLogLevel(LogDebug)
				c.registerHooks()
			}

			if cmd.Annotations[skipConfig] == "" {
				cfg, err := loadConfig(c.configFile)
				if err != nil {
					return err
				}
				c.Config = cfg
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default: $XDG_CONFIG_HOME/recycleview/config.toml)")

	root.AddCommand(c.browseCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

// registerHooks routes observability events to the CLI logger.
func (c *CLI) registerHooks() {
	hooks := newLogHooks(c.Logger)
	observability.SetEngineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
}
