package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/modapply/internal/clock"
	"github.com/danieljhkim/modapply/internal/config"
	"github.com/danieljhkim/modapply/internal/engine"
	"github.com/danieljhkim/modapply/internal/fsops"
	"github.com/danieljhkim/modapply/internal/gitx"
	"github.com/danieljhkim/modapply/internal/hash"
	"github.com/danieljhkim/modapply/internal/manifest"
)

// newEngine creates a new engine with real implementations of all
// dependencies. It also returns the environment it was configured from.
func newEngine(cmd *cobra.Command) (*engine.Engine, *config.Env, error) {
	env, err := config.LoadEnv(cmd.Context())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", engine.ErrConfig, err)
	}

	git := gitx.NewRealGit(env.Git)
	if verbose {
		git = git.WithProgress(cmd.ErrOrStderr())
	}

	root, err := resolveRoot(env, git)
	if err != nil {
		return nil, nil, err
	}

	paths, err := config.NewPaths(root, env.ScratchDir, env.Manifest)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", engine.ErrConfig, err)
	}

	fs := fsops.NewRealFS()
	store := manifest.NewFileStore(fs, paths.Manifest, paths.Root)
	hasher := hash.NewSHA256Hasher()
	clk := clock.RealClock{}

	return engine.New(git, fs, store, hasher, clk, *paths), env, nil
}

// resolveRoot picks the target root: --root, then $MODAPPLY_ROOT, then the
// git repository enclosing the working directory, then the working
// directory itself.
func resolveRoot(env *config.Env, git gitx.Git) (string, error) {
	if rootFlag != "" {
		return rootFlag, nil
	}
	if env.Root != "" {
		return env.Root, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	root, err := git.Discover(cwd)
	if err != nil {
		if errors.Is(err, gitx.ErrNotInRepo) {
			return cwd, nil
		}
		return "", err
	}
	return root, nil
}

// formatJSON formats a value as JSON.
func formatJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// outputJSON outputs a value as JSON to the command output.
func outputJSON(v interface{}) error {
	s, err := formatJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, s)
	return err
}
