package planner

import (
	"fmt"

	"github.com/danieljhkim/modapply/internal/fsops"
)

// ConflictChecker checks for conflicts when copying module directories.
type ConflictChecker struct {
	fs    fsops.FS
	force bool

	// owners maps a destination to the source that claimed it earlier in
	// the same plan
	owners map[string]string
}

// NewConflictChecker creates a new ConflictChecker.
func NewConflictChecker(fs fsops.FS, force bool) *ConflictChecker {
	return &ConflictChecker{
		fs:     fs,
		force:  force,
		owners: make(map[string]string),
	}
}

// CheckPath checks for conflicts at destPath for a directory coming from
// source. Returns a Conflict if one is detected, or nil if the path is safe
// to use. A path that passes is claimed by source.
func (c *ConflictChecker) CheckPath(destPath, relPath, source string) *Conflict {
	// Another module repository already provides this directory
	if previous, claimed := c.owners[destPath]; claimed {
		if !c.force {
			return &Conflict{
				Path:     relPath,
				Reason:   fmt.Sprintf("Also provided by %s", previous),
				Existing: "module",
				Incoming: "directory",
			}
		}
		// Force is enabled - later source merges over the earlier one
		c.owners[destPath] = source
		return nil
	}

	exists, err := c.fs.Exists(destPath)
	if err != nil {
		return &Conflict{
			Path:     relPath,
			Reason:   fmt.Sprintf("Failed to check path: %v", err),
			Existing: "unknown",
			Incoming: "directory",
		}
	}

	if !exists {
		c.owners[destPath] = source
		return nil
	}

	info, err := c.fs.Lstat(destPath)
	if err != nil {
		return &Conflict{
			Path:     relPath,
			Reason:   fmt.Sprintf("Failed to stat existing path: %v", err),
			Existing: "unknown",
			Incoming: "directory",
		}
	}

	// A directory cannot be merged onto a file, forced or not
	if !info.IsDir() {
		return &Conflict{
			Path:     relPath,
			Reason:   "Type mismatch: existing is file, incoming is directory",
			Existing: "file",
			Incoming: "directory",
		}
	}

	if !c.force {
		return &Conflict{
			Path:     relPath,
			Reason:   "Directory already exists at destination",
			Existing: "directory",
			Incoming: "directory",
		}
	}

	// Force is enabled - merge into the existing directory
	c.owners[destPath] = source
	return nil
}
