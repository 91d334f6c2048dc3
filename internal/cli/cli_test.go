package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/recycleview/pkg/observability"
)

// isolate points config and cache lookups at fresh temp directories and
// returns the config home.
func isolate(t *testing.T) string {
	t.Helper()
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Cleanup(observability.Reset)
	return configHome
}

// runCLI executes the root command with args and returns what it wrote to
// the command's stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
