// Package fsops provides filesystem operations with safety guarantees.
//
// All filesystem mutations in modapply go through the FS interface, which
// provides abstractions for common operations along with path validation
// so that manifest entries can never reach outside the target root.
//
// Key features:
//   - Atomic writes using temp file + rename
//   - Recursive directory copies with an explicit overwrite policy
//   - Path validation for root-relative paths
//   - Testable via the FS interface
package fsops

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/copy"
)

// ErrDestinationExists is returned by CopyDir when the destination exists
// and overwriting was not requested.
var ErrDestinationExists = errors.New("destination already exists")

// FS provides an abstraction for filesystem operations.
// All filesystem mutations in modapply must go through this interface.
type FS interface {
	// Lstat returns file info without following symlinks.
	Lstat(path string) (os.FileInfo, error)

	// Exists checks if a path exists.
	Exists(path string) (bool, error)

	// IsDir reports whether path exists and is a directory.
	IsDir(path string) (bool, error)

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm os.FileMode) error

	// Remove removes a file or empty directory.
	Remove(path string) error

	// RemoveAll removes a path and all its contents.
	RemoveAll(path string) error

	// ReadDir lists the entries of a directory sorted by name.
	ReadDir(path string) ([]os.DirEntry, error)

	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// AtomicWrite writes data to path atomically using temp file + rename.
	AtomicWrite(path string, data []byte, perm os.FileMode) error

	// CopyDir recursively copies the directory src to dst. When overwrite is
	// false and dst already exists, it returns ErrDestinationExists without
	// touching dst. When overwrite is true, dst is merged into and
	// conflicting files are replaced.
	CopyDir(src, dst string, overwrite bool) error

	// ValidateRelPath validates a root-relative path for safety.
	ValidateRelPath(relPath string) error
}

// RealFS implements FS using actual OS operations.
type RealFS struct{}

// NewRealFS creates a new RealFS.
func NewRealFS() *RealFS {
	return &RealFS{}
}

// Lstat returns file info without following symlinks.
func (fs *RealFS) Lstat(path string) (os.FileInfo, error) {
	return os.Lstat(path)
}

// Exists checks if a path exists.
func (fs *RealFS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether path is a directory, following symlinks.
func (fs *RealFS) IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// MkdirAll creates a directory and all parent directories.
func (fs *RealFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Remove removes a file or empty directory.
func (fs *RealFS) Remove(path string) error {
	return os.Remove(path)
}

// RemoveAll removes a path and all its contents.
func (fs *RealFS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// ReadDir lists the entries of a directory sorted by name.
func (fs *RealFS) ReadDir(path string) ([]os.DirEntry, error) {
	return os.ReadDir(path)
}

// ReadFile reads the entire contents of a file.
func (fs *RealFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// CopyDir recursively copies src to dst.
// Symlinks inside src are recreated as symlinks rather than followed.
func (fs *RealFS) CopyDir(src, dst string, overwrite bool) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}
	if !srcInfo.IsDir() {
		return fmt.Errorf("source %q is not a directory", src)
	}

	exists, err := fs.Exists(dst)
	if err != nil {
		return fmt.Errorf("failed to stat destination: %w", err)
	}
	if exists && !overwrite {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dst)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	opts := copy.Options{
		OnSymlink: func(string) copy.SymlinkAction {
			return copy.Shallow
		},
	}
	if err := copy.Copy(src, dst, opts); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}

	return nil
}

// AtomicWrite writes data to path atomically using temp file + rename.
func (fs *RealFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	// Create parent directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".modapply-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	tmpFile = nil
	return nil
}

// ValidateRelPath validates a root-relative path for safety.
// Returns an error if the path is empty, absolute, or escapes the root.
func (fs *RealFS) ValidateRelPath(relPath string) error {
	return ValidateRelPath(relPath)
}

// ValidateRelPath is the FS-independent form of RealFS.ValidateRelPath.
func ValidateRelPath(relPath string) error {
	cleaned := filepath.Clean(filepath.FromSlash(relPath))

	if relPath == "" || cleaned == "." {
		return fmt.Errorf("invalid path: empty or current directory")
	}

	if filepath.IsAbs(cleaned) || strings.HasPrefix(relPath, "/") {
		return fmt.Errorf("invalid path: must be relative, got absolute path %q", relPath)
	}

	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("invalid path: path traversal not allowed in %q", relPath)
	}

	return nil
}
