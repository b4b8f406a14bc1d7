// Package engine provides the core logic for modapply operations.
//
// The engine sits between the CLI and the lower-level packages. It reads the
// module list, drives git through gitx, copies module trees through fsops,
// and keeps the manifest that lets clean undo an apply.
//
// Key components:
//   - Engine: orchestrator constructed with explicit paths and dependencies
//   - Apply: clone, copy modules/thirdparty, apply patches, write manifest
//   - Clean: restore tracked files, delete recorded paths, drop manifest
//   - Status: report what the manifest currently records
package engine

import (
	"fmt"

	"github.com/danieljhkim/modapply/internal/clock"
	"github.com/danieljhkim/modapply/internal/config"
	"github.com/danieljhkim/modapply/internal/fsops"
	"github.com/danieljhkim/modapply/internal/gitx"
	"github.com/danieljhkim/modapply/internal/hash"
	"github.com/danieljhkim/modapply/internal/manifest"
)

// Engine orchestrates all modapply operations.
// It is the main API surface called by the CLI.
type Engine struct {
	git      gitx.Git
	fs       fsops.FS
	manifest manifest.Store
	hasher   hash.Hasher
	clock    clock.Clock
	paths    config.Paths
}

// New creates a new Engine with the given dependencies.
func New(
	git gitx.Git,
	fs fsops.FS,
	store manifest.Store,
	hasher hash.Hasher,
	clk clock.Clock,
	paths config.Paths,
) *Engine {
	return &Engine{
		git:      git,
		fs:       fs,
		manifest: store,
		hasher:   hasher,
		clock:    clk,
		paths:    paths,
	}
}

// Paths returns the paths the engine operates on.
func (e *Engine) Paths() config.Paths {
	return e.paths
}

// checkRoot verifies the target root exists.
func (e *Engine) checkRoot() error {
	if err := e.paths.ValidateRoot(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return nil
}

// checkGit verifies git is available.
func (e *Engine) checkGit() error {
	if err := e.git.Available(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return nil
}

// countPathSeparators counts the number of path separators in a path.
func countPathSeparators(path string) int {
	count := 0
	for _, ch := range path {
		if ch == '/' || ch == '\\' {
			count++
		}
	}
	return count
}
