package manifest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/modapply/internal/fsops"
)

// ErrInvalidManifest indicates the manifest could not be parsed or holds an
// unsafe entry.
var ErrInvalidManifest = errors.New("invalid manifest")

// Store loads and saves a single manifest file.
type Store interface {
	// Path returns the manifest file location.
	Path() string

	// Exists reports whether the manifest file is present.
	Exists() (bool, error)

	// Load reads the manifest. Returns os.ErrNotExist if it is absent.
	Load() (*Manifest, error)

	// Save writes the manifest atomically, replacing any previous one.
	Save(m *Manifest) error

	// Delete removes the manifest file.
	Delete() error
}

// FileStore implements Store with a JSON file on disk.
type FileStore struct {
	fs   fsops.FS
	path string
	root string
}

// NewFileStore creates a FileStore for the manifest at path. root is the
// target root that entries are relative to.
func NewFileStore(fs fsops.FS, path, root string) *FileStore {
	return &FileStore{fs: fs, path: path, root: root}
}

// Path returns the manifest file location.
func (s *FileStore) Path() string {
	return s.path
}

// Exists reports whether the manifest file is present.
func (s *FileStore) Exists() (bool, error) {
	return s.fs.Exists(s.path)
}

// Load reads the manifest.
func (s *FileStore) Load() (*Manifest, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return Parse(data, s.root)
}

// Save writes the manifest atomically.
func (s *FileStore) Save(m *Manifest) error {
	if err := validate(m); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	data = append(data, '\n')

	if err := s.fs.AtomicWrite(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// Delete removes the manifest file.
func (s *FileStore) Delete() error {
	if err := s.fs.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete manifest: %w", err)
	}
	return nil
}

// Parse decodes manifest data. JSON objects are read as the structured
// format; anything else is read as a legacy flat list of paths. root is used
// to relativise absolute legacy paths.
func Parse(data []byte, root string) (*Manifest, error) {
	trimmed := bytes.TrimSpace(data)

	var m *Manifest
	if bytes.HasPrefix(trimmed, []byte("{")) {
		m = &Manifest{}
		if err := json.Unmarshal(trimmed, m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
		}
		if m.Version > CurrentVersion {
			return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidManifest, m.Version)
		}
		if m.Entries == nil {
			m.Entries = []Entry{}
		}
	} else {
		var err error
		m, err = parseLegacy(trimmed, root)
		if err != nil {
			return nil, err
		}
	}

	if err := validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

func parseLegacy(data []byte, root string) (*Manifest, error) {
	m := &Manifest{Entries: []Entry{}}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		path := line
		if filepath.IsAbs(path) {
			if root == "" {
				return nil, fmt.Errorf("%w: absolute path %q without a target root", ErrInvalidManifest, line)
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
			}
			path = rel
		}
		m.AddEntry(filepath.ToSlash(filepath.Clean(path)), KindLegacy, "")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	return m, nil
}

func validate(m *Manifest) error {
	for _, e := range m.Entries {
		if err := fsops.ValidateRelPath(e.Path); err != nil {
			return fmt.Errorf("%w: entry %q: %v", ErrInvalidManifest, e.Path, err)
		}
	}
	return nil
}
