package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// executeCommand runs the root command with args and returns what it wrote
// to stdout and stderr. Flag values from earlier runs are reset first.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand(t, "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{"modapply", "Module Lifecycle:", "apply", "clean", "status"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected help to contain %q, got %q", want, stdout)
		}
	}
}

func TestRootCommand_NoArgsPrintsHelp(t *testing.T) {
	stdout, _, err := executeCommand(t)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Errorf("expected usage in output, got %q", stdout)
	}
}

func TestRootCommand_UnknownCommandPrintsHelp(t *testing.T) {
	stdout, _, err := executeCommand(t, "invalid-command", "--force")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Errorf("expected usage in output, got %q", stdout)
	}
}

func TestRootCommand_Version(t *testing.T) {
	SetVersion("1.2.3")
	defer SetVersion("dev")

	stdout, _, err := executeCommand(t, "--version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(stdout) != "1.2.3" {
		t.Errorf("--version = %q, want %q", stdout, "1.2.3")
	}

	stdout, _, err = executeCommand(t, "version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(stdout) != "1.2.3" {
		t.Errorf("version = %q, want %q", stdout, "1.2.3")
	}
}

func TestSetVersion(t *testing.T) {
	defer SetVersion("dev")

	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"normal version", "1.2.3", "1.2.3"},
		{"empty version", "", "1.2.3"}, // Should not change if empty
		{"dev version", "dev", "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetVersion(tt.version)
			if rootCmd.Version != tt.want {
				t.Errorf("SetVersion(%q) = %q, want %q", tt.version, rootCmd.Version, tt.want)
			}
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	subcommands := []string{"apply", "clean", "status", "version", "completion"}

	for _, name := range subcommands {
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := rootCmd.Find([]string{name})
			if err != nil {
				t.Fatalf("Find(%q) error = %v", name, err)
			}
			if subCmd.Name() != name {
				t.Errorf("Find(%q) = %q", name, subCmd.Name())
			}
		})
	}
}

func TestApplyCommand_Flags(t *testing.T) {
	tests := []struct {
		flag      string
		shorthand string
	}{
		{"modules-file", ""},
		{"force", "f"},
		{"dry-run", ""},
		{"strict-patches", ""},
	}

	for _, tt := range tests {
		f := applyCmd.Flags().Lookup(tt.flag)
		if f == nil {
			t.Errorf("apply is missing --%s", tt.flag)
			continue
		}
		if f.Shorthand != tt.shorthand {
			t.Errorf("--%s shorthand = %q, want %q", tt.flag, f.Shorthand, tt.shorthand)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "completion", "bash")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stdout, "modapply") {
		t.Error("expected bash completion script to mention modapply")
	}
}
