package planner

import (
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/modapply/internal/config"
	"github.com/danieljhkim/modapply/internal/fsops"
	"github.com/danieljhkim/modapply/internal/manifest"
	"github.com/danieljhkim/modapply/internal/patchset"
)

// Clone is one module repository cloned into scratch.
type Clone struct {
	// Dir is the clone directory (absolute)
	Dir string

	// Source is the module list location it was cloned from
	Source string
}

// BuildApplyPlan generates a deterministic plan to apply cloned module
// repositories. For every clone, in order, it plans a copy for each directory
// directly inside modules/ and thirdparty/, then a patch for each
// patches/*.patch file.
func BuildApplyPlan(clones []Clone, paths config.Paths, fs fsops.FS, force bool) (*ApplyPlan, error) {
	sources := make([]string, 0, len(clones))
	for _, clone := range clones {
		sources = append(sources, clone.Source)
	}

	plan := NewApplyPlan(sources)
	checker := NewConflictChecker(fs, force)

	for _, clone := range clones {
		targets := []struct {
			src  string
			dst  string
			kind manifest.Kind
		}{
			{filepath.Join(clone.Dir, config.ModulesDirName), paths.Modules, manifest.KindModules},
			{filepath.Join(clone.Dir, config.ThirdpartyDirName), paths.Thirdparty, manifest.KindThirdparty},
		}

		for _, target := range targets {
			if err := planCopies(plan, checker, paths, fs, clone.Source, target.src, target.dst, target.kind); err != nil {
				return nil, err
			}
		}

		if err := planPatches(plan, fs, clone.Source, filepath.Join(clone.Dir, config.PatchesDirName)); err != nil {
			return nil, err
		}
	}

	return plan, nil
}

func planCopies(
	plan *ApplyPlan,
	checker *ConflictChecker,
	paths config.Paths,
	fs fsops.FS,
	source, srcDir, dstDir string,
	kind manifest.Kind,
) error {
	isDir, err := fs.IsDir(srcDir)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", srcDir, err)
	}
	if !isDir {
		return nil
	}

	children, err := fs.ReadDir(srcDir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", srcDir, err)
	}

	for _, child := range children {
		sourcePath := filepath.Join(srcDir, child.Name())
		if !child.IsDir() {
			plan.Skipped = append(plan.Skipped, sourcePath)
			continue
		}

		destPath := filepath.Join(dstDir, child.Name())
		relPath, err := paths.Rel(destPath)
		if err != nil {
			return err
		}

		if conflict := checker.CheckPath(destPath, relPath, source); conflict != nil {
			plan.AddConflict(*conflict)
			continue
		}

		plan.AddOperation(Operation{
			Type:       OpCopy,
			SourcePath: sourcePath,
			DestPath:   destPath,
			RelPath:    relPath,
			Kind:       kind,
			Source:     source,
		})
	}

	return nil
}

func planPatches(plan *ApplyPlan, fs fsops.FS, source, dir string) error {
	isDir, err := fs.IsDir(dir)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", dir, err)
	}
	if !isDir {
		return nil
	}

	patches, err := patchset.List(fs, dir)
	if err != nil {
		return err
	}

	for _, p := range patches {
		plan.AddOperation(Operation{
			Type:       OpPatch,
			SourcePath: p.Path,
			Name:       p.Name,
			Source:     source,
		})
	}

	return nil
}
