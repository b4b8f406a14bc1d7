package gitx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/go-git/go-git/v5"
)

var (
	// ErrGitNotFound indicates the git executable is not on the search path.
	ErrGitNotFound = errors.New("git command not found")

	// ErrNotInRepo indicates no enclosing git repository was found.
	ErrNotInRepo = errors.New("not in a git repository")
)

// Git provides the version-control operations modapply depends on.
type Git interface {
	// Available checks that the git executable can be found.
	Available() error

	// Discover finds the git repository root starting from cwd.
	Discover(cwd string) (root string, err error)

	// Clone clones url into dir. dir must not exist yet.
	Clone(ctx context.Context, url, dir string) error

	// Restore reverts every tracked file under root to its committed state.
	// Untracked files are left alone.
	Restore(ctx context.Context, root string) error

	// ApplyPatch applies patchFile to the working tree at root, ignoring
	// whitespace differences between the patch context and the files.
	ApplyPatch(ctx context.Context, root, patchFile string) error
}

// RealGit implements Git with go-git for clones and the git executable for
// working tree operations go-git does not offer.
type RealGit struct {
	binary   string
	progress io.Writer
}

// NewRealGit creates a new RealGit that runs binary (default "git").
func NewRealGit(binary string) *RealGit {
	if binary == "" {
		binary = "git"
	}
	return &RealGit{binary: binary}
}

// WithProgress returns a copy of g that streams clone progress to w.
func (g *RealGit) WithProgress(w io.Writer) *RealGit {
	return &RealGit{binary: g.binary, progress: w}
}

// Available checks that the git executable is on PATH.
func (g *RealGit) Available() error {
	if _, err := exec.LookPath(g.binary); err != nil {
		return fmt.Errorf("%w: %s", ErrGitNotFound, g.binary)
	}
	return nil
}

// Discover finds the git repository root by walking up from cwd looking for .git.
func (g *RealGit) Discover(cwd string) (string, error) {
	absPath, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	current := absPath
	for {
		gitDir := filepath.Join(current, ".git")
		if info, err := os.Stat(gitDir); err == nil {
			// .git can be a directory or a file (for worktrees/submodules)
			if info.IsDir() || info.Mode().IsRegular() {
				return current, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrNotInRepo
		}
		current = parent
	}
}

// Clone clones url into dir.
func (g *RealGit) Clone(ctx context.Context, url, dir string) error {
	if _, err := os.Lstat(dir); err == nil {
		return fmt.Errorf("destination path %s already exists", dir)
	}

	clog.FromContext(ctx).Infof("Cloning %s into %s", url, dir)

	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:      url,
		Progress: g.progress,
	})
	if err != nil {
		_ = os.RemoveAll(dir)
		return fmt.Errorf("cloning %s: %w", url, err)
	}

	return nil
}

// Restore runs `git restore .` in root.
func (g *RealGit) Restore(ctx context.Context, root string) error {
	if _, err := g.runGit(ctx, root, "restore", "."); err != nil {
		return fmt.Errorf("failed to restore working tree: %w", err)
	}
	return nil
}

// ApplyPatch runs `git apply --ignore-space-change --ignore-whitespace` in root.
func (g *RealGit) ApplyPatch(ctx context.Context, root, patchFile string) error {
	if _, err := g.runGit(ctx, root, "apply", "--ignore-space-change", "--ignore-whitespace", patchFile); err != nil {
		return fmt.Errorf("failed to apply %s: %w", filepath.Base(patchFile), err)
	}
	return nil
}

// runGit executes git in dir and returns trimmed stdout.
func (g *RealGit) runGit(ctx context.Context, dir string, args ...string) (string, error) {
	clog.FromContext(ctx).Debugf("Running %s %s in %s", g.binary, strings.Join(args, " "), dir)

	cmd := exec.CommandContext(ctx, g.binary, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git command failed: %w\nstderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(stdout.String()), nil
}
