// Package patchset discovers patch files shipped by a module repository.
package patchset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/waigani/diffparser"

	"github.com/danieljhkim/modapply/internal/fsops"
)

// Ext is the suffix a file needs to be treated as a patch.
const Ext = ".patch"

// Patch is a patch file inside a module repository's patches directory.
type Patch struct {
	// Name is the file name, e.g. 001-fix.patch
	Name string

	// Path is the absolute path of the file
	Path string
}

// List returns the patch files directly inside dir, sorted by name.
// Subdirectories and files without the .patch suffix are ignored.
func List(fs fsops.FS, dir string) ([]Patch, error) {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read patches directory: %w", err)
	}

	var patches []Patch
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Ext) {
			continue
		}
		patches = append(patches, Patch{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
		})
	}
	return patches, nil
}

// TouchedFiles returns the target paths a unified diff modifies, in the
// order they appear. It is best effort: content it cannot parse yields nil.
func TouchedFiles(data []byte) (files []string) {
	text := string(data)
	if !hasDiffHeader(text) {
		return nil
	}

	// diffparser dereferences a nil file on some malformed input.
	defer func() {
		if recover() != nil {
			files = nil
		}
	}()

	diff, err := diffparser.Parse(text)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	for _, f := range diff.Files {
		name := f.NewName
		if f.Mode == diffparser.DELETED || name == "" {
			name = f.OrigName
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		files = append(files, name)
	}
	return files
}

func hasDiffHeader(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "diff ") {
			return true
		}
	}
	return false
}
