package engine

import (
	"time"

	"github.com/danieljhkim/modapply/internal/manifest"
	"github.com/danieljhkim/modapply/internal/modlist"
	"github.com/danieljhkim/modapply/internal/planner"
)

// ApplyResult represents the result of an apply.
type ApplyResult struct {
	// Sources are the module list entries that were cloned
	Sources []modlist.Source `json:"sources"`

	// Copied are the destinations copied (or, for DryRun, to be copied)
	Copied []manifest.Entry `json:"copied"`

	// Patches are the patch outcomes (for DryRun, the patches found)
	Patches []manifest.PatchRecord `json:"patches"`

	// Conflicts are destinations that block the apply without Force
	Conflicts []planner.Conflict `json:"conflicts,omitempty"`

	// ManifestPath is where the manifest was written (empty for DryRun)
	ManifestPath string `json:"manifestPath,omitempty"`

	// DryRun reports whether the target was left untouched
	DryRun bool `json:"dryRun"`
}

// FailedPatches returns the patches that did not apply.
func (r *ApplyResult) FailedPatches() []manifest.PatchRecord {
	var failed []manifest.PatchRecord
	if r.DryRun {
		return failed
	}
	for _, p := range r.Patches {
		if !p.Applied {
			failed = append(failed, p)
		}
	}
	return failed
}

// CleanResult represents the result of a clean.
type CleanResult struct {
	// Removed are the recorded paths that were deleted
	Removed []string `json:"removed"`

	// Skipped are recorded paths that no longer existed
	Skipped []string `json:"skipped"`

	// ManifestPath is the manifest that was consumed
	ManifestPath string `json:"manifestPath,omitempty"`

	// DryRun reports whether the target was left untouched
	DryRun bool `json:"dryRun"`
}

// StatusResult represents what the manifest currently records.
type StatusResult struct {
	// Applied is true when a manifest exists
	Applied bool `json:"applied"`

	// Root is the target root
	Root string `json:"root"`

	// ManifestPath is the manifest location
	ManifestPath string `json:"manifestPath"`

	// AppliedAt is when the manifest was written (zero for legacy manifests)
	AppliedAt time.Time `json:"appliedAt,omitempty"`

	// Entries are the recorded destinations and whether they still exist
	Entries []EntryStatus `json:"entries"`

	// Patches are the recorded patch outcomes
	Patches []manifest.PatchRecord `json:"patches,omitempty"`
}

// EntryStatus is a manifest entry with its on-disk presence.
type EntryStatus struct {
	manifest.Entry

	// Exists reports whether the path is still present
	Exists bool `json:"exists"`
}
