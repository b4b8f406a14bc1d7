package manifest

import "time"

// CurrentVersion is the manifest format version written by this build.
const CurrentVersion = 1

// Kind identifies which target directory an entry was copied into.
type Kind string

const (
	KindModules    Kind = "modules"
	KindThirdparty Kind = "thirdparty"

	// KindLegacy marks entries read from a flat-list manifest.
	KindLegacy Kind = "legacy"
)

// Manifest is the authoritative record of what the last apply added to the
// target tree.
type Manifest struct {
	// Version is the format version
	Version int `json:"version"`

	// AppliedAt is when the apply that wrote this manifest finished
	AppliedAt time.Time `json:"appliedAt"`

	// Entries are destination paths in the order they were copied
	Entries []Entry `json:"entries"`

	// Patches records every patch apply attempted
	Patches []PatchRecord `json:"patches,omitempty"`
}

// Entry is one directory copied into the target tree.
type Entry struct {
	// Path is slash-separated and relative to the target root
	Path string `json:"path"`

	// Kind is the target directory the entry lives under
	Kind Kind `json:"kind"`

	// Source is the module list location the entry was cloned from
	Source string `json:"source,omitempty"`
}

// PatchRecord describes one patch file apply attempted.
type PatchRecord struct {
	// Name is the patch file name
	Name string `json:"name"`

	// Source is the module list location the patch came from
	Source string `json:"source,omitempty"`

	// Checksum is the SHA-256 of the patch file
	Checksum string `json:"checksum,omitempty"`

	// Files are the target paths the patch touches, when parseable
	Files []string `json:"files,omitempty"`

	// Applied reports whether the patch applied cleanly
	Applied bool `json:"applied"`

	// Error is the failure reported by git when Applied is false
	Error string `json:"error,omitempty"`
}

// New creates an empty manifest stamped with appliedAt.
func New(appliedAt time.Time) *Manifest {
	return &Manifest{
		Version:   CurrentVersion,
		AppliedAt: appliedAt.UTC(),
		Entries:   []Entry{},
	}
}

// AddEntry records a copied destination.
func (m *Manifest) AddEntry(path string, kind Kind, source string) {
	m.Entries = append(m.Entries, Entry{Path: path, Kind: kind, Source: source})
}

// AddPatch records a patch outcome.
func (m *Manifest) AddPatch(rec PatchRecord) {
	m.Patches = append(m.Patches, rec)
}

// Paths returns the entry paths in order.
func (m *Manifest) Paths() []string {
	paths := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		paths = append(paths, e.Path)
	}
	return paths
}

// FailedPatches returns the records of patches that did not apply.
func (m *Manifest) FailedPatches() []PatchRecord {
	var failed []PatchRecord
	for _, p := range m.Patches {
		if !p.Applied {
			failed = append(failed, p)
		}
	}
	return failed
}
