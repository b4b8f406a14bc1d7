// Package config manages modapply configuration and filesystem paths.
//
// Every path modapply touches is derived from a single target root, which is
// passed in explicitly rather than inferred from where the binary lives. The
// defaults can be overridden through MODAPPLY_* environment variables (see
// Env) and then by command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultModulesFile is the module list read by apply when none is given.
	DefaultModulesFile = "modules_file.txt"

	// DefaultScratchDir is the scratch directory name under the target root.
	DefaultScratchDir = "temp"

	// DefaultManifest is the manifest file name under the target root.
	DefaultManifest = ".applied_modules"

	// ModulesDirName is the directory holding engine modules, both inside a
	// module repository and inside the target root.
	ModulesDirName = "modules"

	// ThirdpartyDirName is the directory holding vendored dependencies.
	ThirdpartyDirName = "thirdparty"

	// PatchesDirName is the directory of *.patch files inside a module repository.
	PatchesDirName = "patches"
)

// Paths contains all the filesystem paths used by modapply.
type Paths struct {
	// Root is the target project checkout
	Root string

	// Scratch is the transient clone directory (default: <root>/temp)
	Scratch string

	// Manifest is the applied-modules record (default: <root>/.applied_modules)
	Manifest string

	// Modules is <root>/modules
	Modules string

	// Thirdparty is <root>/thirdparty
	Thirdparty string
}

// NewPaths returns the paths for the given target root. Empty scratch and
// manifest names fall back to the defaults; relative names are resolved
// against root.
func NewPaths(root, scratch, manifest string) (*Paths, error) {
	if root == "" {
		return nil, fmt.Errorf("target root is empty")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	if scratch == "" {
		scratch = DefaultScratchDir
	}
	if manifest == "" {
		manifest = DefaultManifest
	}

	return &Paths{
		Root:       absRoot,
		Scratch:    underRoot(absRoot, scratch),
		Manifest:   underRoot(absRoot, manifest),
		Modules:    filepath.Join(absRoot, ModulesDirName),
		Thirdparty: filepath.Join(absRoot, ThirdpartyDirName),
	}, nil
}

// ValidateRoot checks that the target root exists and is a directory.
func (p *Paths) ValidateRoot() error {
	info, err := os.Stat(p.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path %s not found", p.Root)
		}
		return fmt.Errorf("failed to stat target root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path %s is not a directory", p.Root)
	}
	return nil
}

// Rel returns path relative to the target root, slash-separated.
func (p *Paths) Rel(path string) (string, error) {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		return "", fmt.Errorf("failed to compute relative path: %w", err)
	}
	return filepath.ToSlash(rel), nil
}

// Abs resolves a slash-separated root-relative path.
func (p *Paths) Abs(relPath string) string {
	return filepath.Join(p.Root, filepath.FromSlash(relPath))
}

func underRoot(root, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(root, name)
}
