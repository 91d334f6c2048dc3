package cli

import (
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recycleview/pkg/errors"
	"github.com/matzehuels/recycleview/pkg/feed"
	"github.com/matzehuels/recycleview/pkg/render/sink"
)

func TestCompletionScripts(t *testing.T) {
	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			isolate(t)
			out, err := runCLI(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s error: %v", shell, err)
			}
			if !strings.Contains(out, appName) {
				t.Errorf("completion %s output does not mention %s", shell, appName)
			}
		})
	}
}

func TestCompletionRejectsUnknownShell(t *testing.T) {
	isolate(t)
	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
	if err := writeCompletion(&cobra.Command{Use: appName}, "tcsh", &strings.Builder{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("writeCompletion(tcsh) error = %v, want INVALID_INPUT", err)
	}
}

func TestFlagValueCompletion(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"layout format", []string{"layout", "--format", ""}, sink.Formats},
		{"layout feed", []string{"layout", "--feed", ""}, feed.Kinds},
		{"browse feed", []string{"browse", "--feed", ""}, feed.Kinds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			out, err := runCLI(t, append([]string{cobra.ShellCompRequestCmd}, tt.args...)...)
			if err != nil {
				t.Fatalf("completion request error: %v", err)
			}
			lines := strings.Split(out, "\n")
			for _, want := range tt.want {
				if !slices.Contains(lines, want) {
					t.Errorf("completions for %v missing %q:\n%s", tt.args, want, out)
				}
			}
		})
	}
}

func TestSubcommandCompletion(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, cobra.ShellCompRequestCmd, "cache", "")
	if err != nil {
		t.Fatalf("completion request error: %v", err)
	}
	for _, want := range []string{"clear", "path"} {
		if !strings.Contains(out, want) {
			t.Errorf("cache completions missing %q:\n%s", want, out)
		}
	}
}
