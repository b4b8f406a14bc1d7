package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Status reports what the manifest records and whether each recorded path
// is still present. A missing manifest is not an error.
func (e *Engine) Status(ctx context.Context) (*StatusResult, error) {
	result := &StatusResult{
		Root:         e.paths.Root,
		ManifestPath: e.manifest.Path(),
		Entries:      []EntryStatus{},
	}

	m, err := e.manifest.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	result.Applied = true
	result.AppliedAt = m.AppliedAt
	result.Patches = m.Patches

	for _, entry := range m.Entries {
		exists, err := e.fs.Exists(e.paths.Abs(entry.Path))
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", entry.Path, err)
		}
		result.Entries = append(result.Entries, EntryStatus{Entry: entry, Exists: exists})
	}

	return result, nil
}
