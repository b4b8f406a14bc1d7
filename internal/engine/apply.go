package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chainguard-dev/clog"

	"github.com/danieljhkim/modapply/internal/config"
	"github.com/danieljhkim/modapply/internal/manifest"
	"github.com/danieljhkim/modapply/internal/modlist"
	"github.com/danieljhkim/modapply/internal/patchset"
	"github.com/danieljhkim/modapply/internal/planner"
)

// Apply clones every module listed in req.ModulesFile and applies it to the
// target root.
//
// Algorithm steps:
// 1. Preflight: module list, target root and git must all be present
// 2. Reset the scratch directory
// 3. Clone every source into scratch
// 4. Plan: per clone, copy modules/ and thirdparty/ children, apply
//    patches/*.patch; conflicts abort before the target is touched
// 5. Execute the plan
// 6. Remove the scratch directory
// 7. Write the manifest (overwriting any previous one)
//
// A run aborted in step 5 still removes scratch and writes a manifest of
// what it changed, so clean can revert it.
func (e *Engine) Apply(ctx context.Context, req *ApplyRequest) (*ApplyResult, error) {
	log := clog.FromContext(ctx)

	modulesFile := req.ModulesFile
	if modulesFile == "" {
		modulesFile = config.DefaultModulesFile
	}

	// Step 1: Preflight
	if err := e.checkModulesFile(modulesFile); err != nil {
		return nil, err
	}
	if err := e.checkRoot(); err != nil {
		return nil, err
	}
	if err := e.checkGit(); err != nil {
		return nil, err
	}

	sources, err := modlist.Load(modulesFile)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrConfig, modulesFile, err)
	}
	log.Infof("Read %d module sources from %s", len(sources), modulesFile)

	// Step 2: Reset scratch
	if err := e.resetScratch(ctx); err != nil {
		return nil, err
	}

	// Step 3: Clone
	origins := make(map[string]string, len(sources))
	for _, src := range sources {
		isDir, err := e.fs.IsDir(e.paths.Scratch)
		if err != nil || !isDir {
			return nil, fmt.Errorf("%w: unable to clone %s: scratch directory %s is missing", ErrEnvironment, src.URL, e.paths.Scratch)
		}

		name := cloneDirName(src, origins)
		dir := filepath.Join(e.paths.Scratch, name)
		if err := e.git.Clone(ctx, src.URL, dir); err != nil {
			return nil, fmt.Errorf("%w: unable to clone %s (line %d): %v", ErrClone, src.URL, src.Line, err)
		}
		origins[name] = src.URL
	}

	// Step 4: Plan
	clones, err := e.listClones(origins)
	if err != nil {
		return nil, err
	}
	plan, err := planner.BuildApplyPlan(clones, e.paths, e.fs, req.Force)
	if err != nil {
		return nil, fmt.Errorf("failed to build apply plan: %w", err)
	}
	for _, skipped := range plan.Skipped {
		log.Warnf("Skipping %s: not a directory", skipped)
	}

	result := &ApplyResult{
		Sources:   sources,
		Conflicts: plan.Conflicts,
		DryRun:    req.DryRun,
	}
	m := manifest.New(e.clock.Now())

	if req.DryRun {
		recorded := make(map[string]bool)
		for _, op := range plan.Copies() {
			if !recorded[op.RelPath] {
				m.AddEntry(op.RelPath, op.Kind, op.Source)
				recorded[op.RelPath] = true
			}
		}
		for _, op := range plan.Patches() {
			m.AddPatch(e.patchRecord(op))
		}
	} else {
		if plan.HasConflicts() {
			e.removeScratch(ctx)
			return result, fmt.Errorf("%w: %s (use --force to overwrite)",
				ErrDestinationExists, strings.Join(plan.ConflictPaths(), ", "))
		}

		// Step 5: Copy and patch
		if err := e.executePlan(ctx, req, plan, m); err != nil {
			e.removeScratch(ctx)
			return e.savePartial(ctx, result, m), err
		}
	}

	// Step 6: Remove scratch
	if err := e.fs.RemoveAll(e.paths.Scratch); err != nil {
		return nil, fmt.Errorf("failed to remove scratch directory: %w", err)
	}

	result.Copied = m.Entries
	result.Patches = m.Patches

	if req.DryRun {
		return result, nil
	}

	// Step 7: Write manifest
	if err := e.manifest.Save(m); err != nil {
		return nil, fmt.Errorf("failed to save manifest: %w", err)
	}
	result.ManifestPath = e.manifest.Path()

	log.Infof("Applied %d directories and %d patches", len(m.Entries), len(m.Patches))
	return result, nil
}

// checkModulesFile verifies the module list exists and is a regular file.
func (e *Engine) checkModulesFile(path string) error {
	exists, err := e.fs.Exists(path)
	if err != nil {
		return fmt.Errorf("%w: failed to check %s: %v", ErrConfig, path, err)
	}
	if !exists {
		return fmt.Errorf("%w: path %s not found", ErrConfig, path)
	}
	isDir, err := e.fs.IsDir(path)
	if err != nil {
		return fmt.Errorf("%w: failed to check %s: %v", ErrConfig, path, err)
	}
	if isDir {
		return fmt.Errorf("%w: path %s is a directory", ErrConfig, path)
	}
	return nil
}

// resetScratch removes any scratch directory left by a previous run and
// creates a fresh one.
func (e *Engine) resetScratch(ctx context.Context) error {
	scratch := e.paths.Scratch

	exists, err := e.fs.Exists(scratch)
	if err != nil {
		return fmt.Errorf("%w: failed to check scratch directory: %v", ErrEnvironment, err)
	}
	if exists {
		clog.FromContext(ctx).Infof("Removing stale scratch directory %s", scratch)
		if err := e.fs.RemoveAll(scratch); err != nil {
			return fmt.Errorf("%w: failed to remove stale scratch directory: %v", ErrEnvironment, err)
		}
	}

	if err := e.fs.MkdirAll(scratch, 0755); err != nil {
		return fmt.Errorf("%w: unable to create temp directory at %s: %v", ErrEnvironment, scratch, err)
	}

	isDir, err := e.fs.IsDir(scratch)
	if err != nil || !isDir {
		return fmt.Errorf("%w: unable to create temp directory at %s", ErrEnvironment, scratch)
	}

	return nil
}

// removeScratch deletes the scratch directory after a failed run. Failure
// is only logged; the next apply resets scratch anyway.
func (e *Engine) removeScratch(ctx context.Context) {
	if err := e.fs.RemoveAll(e.paths.Scratch); err != nil {
		clog.FromContext(ctx).Warnf("Failed to remove scratch directory %s: %v", e.paths.Scratch, err)
	}
}

// savePartial records what an aborted run already changed so clean can
// revert it. Nothing is written when the run changed nothing.
func (e *Engine) savePartial(ctx context.Context, result *ApplyResult, m *manifest.Manifest) *ApplyResult {
	result.Copied = m.Entries
	result.Patches = m.Patches
	if len(m.Entries) == 0 && len(m.Patches) == 0 {
		return result
	}

	if err := e.manifest.Save(m); err != nil {
		clog.FromContext(ctx).Errorf("Failed to save manifest for partial apply: %v", err)
		return result
	}
	result.ManifestPath = e.manifest.Path()
	return result
}

// cloneDirName picks the scratch directory for src. Sources whose default
// clone directory is already taken get the module list line appended.
func cloneDirName(src modlist.Source, taken map[string]string) string {
	name := src.DirName()
	if _, ok := taken[name]; !ok {
		return name
	}

	base := fmt.Sprintf("%s-%d", name, src.Line)
	name = base
	for n := 2; ; n++ {
		if _, ok := taken[name]; !ok {
			return name
		}
		name = fmt.Sprintf("%s-%d", base, n)
	}
}

// listClones returns the clone directories in scratch, in name order.
func (e *Engine) listClones(origins map[string]string) ([]planner.Clone, error) {
	entries, err := e.fs.ReadDir(e.paths.Scratch)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list scratch directory: %v", ErrEnvironment, err)
	}

	clones := make([]planner.Clone, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		clones = append(clones, planner.Clone{
			Dir:    filepath.Join(e.paths.Scratch, entry.Name()),
			Source: origins[entry.Name()],
		})
	}
	return clones, nil
}

// executePlan runs the plan's operations in order and records each outcome.
// A failing patch is recorded and logged; it only aborts the run when
// req.StrictPatches is set.
func (e *Engine) executePlan(ctx context.Context, req *ApplyRequest, plan *planner.ApplyPlan, m *manifest.Manifest) error {
	log := clog.FromContext(ctx)
	recorded := make(map[string]bool)

	for _, op := range plan.Operations {
		switch op.Type {
		case planner.OpCopy:
			log.Debugf("Copying %s to %s", op.SourcePath, op.RelPath)
			if err := e.fs.CopyDir(op.SourcePath, op.DestPath, req.Force); err != nil {
				if errors.Is(err, ErrDestinationExists) {
					return fmt.Errorf("%w: %s (use --force to overwrite)", ErrDestinationExists, op.RelPath)
				}
				return fmt.Errorf("failed to copy %s: %w", op.RelPath, err)
			}
			// A forced merge from a later source keeps the first entry
			if !recorded[op.RelPath] {
				m.AddEntry(op.RelPath, op.Kind, op.Source)
				recorded[op.RelPath] = true
			}

		case planner.OpPatch:
			rec := e.patchRecord(op)

			log.Infof("Applying patch %s", op.Name)
			if err := e.git.ApplyPatch(ctx, e.paths.Root, op.SourcePath); err != nil {
				rec.Error = err.Error()
				m.AddPatch(rec)
				if req.StrictPatches {
					return fmt.Errorf("%w: %s: %v", ErrPatch, op.Name, err)
				}
				log.Warnf("Patch %s did not apply: %v", op.Name, err)
				continue
			}

			rec.Applied = true
			m.AddPatch(rec)

		default:
			return fmt.Errorf("unknown operation type: %s", op.Type)
		}
	}

	return nil
}

// patchRecord describes a planned patch. Checksum and touched files are best
// effort.
func (e *Engine) patchRecord(op planner.Operation) manifest.PatchRecord {
	rec := manifest.PatchRecord{
		Name:   op.Name,
		Source: op.Source,
	}
	if checksum, err := e.hasher.HashFile(op.SourcePath); err == nil {
		rec.Checksum = checksum
	}
	if data, err := e.fs.ReadFile(op.SourcePath); err == nil {
		rec.Files = patchset.TouchedFiles(data)
	}
	return rec
}
