package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recycleview/pkg/errors"
	"github.com/matzehuels/recycleview/pkg/feed"
	"github.com/matzehuels/recycleview/pkg/render/sink"
)

var shells = []string{"bash", "zsh", "fish", "powershell"}

// completionCommand prints shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate a shell completion script",
		Long: `Print a completion script for bash, zsh, fish, or powershell.

  source <(recycleview completion bash)
  recycleview completion zsh > "${fpath[1]}/_recycleview"
  recycleview completion fish > ~/.config/fish/completions/recycleview.fish

Besides commands and flags, the scripts complete feed kinds (--feed),
export formats (--format), and feed or config file names.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Annotations:           map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}
}

func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return errors.New(errors.ErrCodeInvalidInput, "unsupported shell %q (want one of %v)", shell, shells)
}

// registerCompletions attaches value completion to every enumerated or
// file-valued flag in the command tree.
func registerCompletions(cmd *cobra.Command) {
	fs := cmd.Flags()
	fixed := func(flag string, values []string) {
		if fs.Lookup(flag) != nil {
			_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		}
	}
	fixed("feed", feed.Kinds)
	fixed("format", sink.Formats)

	if fs.Lookup("path") != nil {
		_ = cmd.MarkFlagFilename("path", "json", "toml")
	}
	if fs.Lookup("log-file") != nil {
		_ = cmd.MarkFlagFilename("log-file")
	}
	if cmd.PersistentFlags().Lookup("config") != nil {
		_ = cmd.MarkPersistentFlagFilename("config", "toml")
	}

	for _, sub := range cmd.Commands() {
		registerCompletions(sub)
	}
}
