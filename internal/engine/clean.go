package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/chainguard-dev/clog"

	"github.com/danieljhkim/modapply/internal/manifest"
)

// Clean reverts the last apply.
//
// Algorithm:
// 1. Require the manifest (and a usable target root and git)
// 2. Load and validate every recorded path
// 3. Restore tracked files, discarding patch effects
// 4. Remove recorded paths deepest-first, skipping ones already gone
// 5. Delete the manifest
func (e *Engine) Clean(ctx context.Context, req *CleanRequest) (*CleanResult, error) {
	log := clog.FromContext(ctx)

	// Step 1: Preconditions
	exists, err := e.manifest.Exists()
	if err != nil {
		return nil, fmt.Errorf("failed to check manifest: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s does not exist", ErrManifestMissing, e.manifest.Path())
	}
	if err := e.checkRoot(); err != nil {
		return nil, err
	}
	if !req.DryRun {
		if err := e.checkGit(); err != nil {
			return nil, err
		}
	}

	// Step 2: Load manifest before touching the tree
	m, err := e.manifest.Load()
	if err != nil {
		if errors.Is(err, manifest.ErrInvalidManifest) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	relPaths := m.Paths()
	sort.SliceStable(relPaths, func(i, j int) bool {
		depthI := countPathSeparators(relPaths[i])
		depthJ := countPathSeparators(relPaths[j])
		if depthI != depthJ {
			return depthI > depthJ // Deeper paths first
		}
		return relPaths[i] > relPaths[j]
	})

	result := &CleanResult{
		Removed:      []string{},
		Skipped:      []string{},
		ManifestPath: e.manifest.Path(),
		DryRun:       req.DryRun,
	}

	if req.DryRun {
		for _, relPath := range relPaths {
			exists, err := e.fs.Exists(e.paths.Abs(relPath))
			if err != nil {
				return nil, fmt.Errorf("failed to check %s: %w", relPath, err)
			}
			if exists {
				result.Removed = append(result.Removed, relPath)
			} else {
				result.Skipped = append(result.Skipped, relPath)
			}
		}
		return result, nil
	}

	// Step 3: Restore tracked files
	if err := e.git.Restore(ctx, e.paths.Root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRestore, err)
	}

	// Step 4: Remove recorded paths
	for _, relPath := range relPaths {
		absPath := e.paths.Abs(relPath)

		exists, err := e.fs.Exists(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", relPath, err)
		}
		if !exists {
			log.Warnf("%s does not exist, skipping", relPath)
			result.Skipped = append(result.Skipped, relPath)
			continue
		}

		if err := e.fs.RemoveAll(absPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove %s: %w", relPath, err)
		}
		result.Removed = append(result.Removed, relPath)
	}

	// Step 5: Delete manifest
	if err := e.manifest.Delete(); err != nil {
		return nil, err
	}

	log.Infof("Removed %d paths, skipped %d", len(result.Removed), len(result.Skipped))
	return result, nil
}
