package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/danieljhkim/modapply/internal/clock"
	"github.com/danieljhkim/modapply/internal/config"
	"github.com/danieljhkim/modapply/internal/engine"
	"github.com/danieljhkim/modapply/internal/fsops"
	"github.com/danieljhkim/modapply/internal/gitx"
	"github.com/danieljhkim/modapply/internal/hash"
	"github.com/danieljhkim/modapply/internal/manifest"
)

// testManifestStore keeps the manifest in memory
type testManifestStore struct {
	path  string
	m     *manifest.Manifest
	saves int
}

func newTestManifestStore(path string) *testManifestStore {
	return &testManifestStore{path: path}
}

func (s *testManifestStore) Path() string { return s.path }

func (s *testManifestStore) Exists() (bool, error) { return s.m != nil, nil }

func (s *testManifestStore) Load() (*manifest.Manifest, error) {
	if s.m == nil {
		return nil, os.ErrNotExist
	}
	cp := *s.m
	cp.Entries = append([]manifest.Entry(nil), s.m.Entries...)
	cp.Patches = append([]manifest.PatchRecord(nil), s.m.Patches...)
	return &cp, nil
}

func (s *testManifestStore) Save(m *manifest.Manifest) error {
	s.m = m
	s.saves++
	return nil
}

func (s *testManifestStore) Delete() error {
	s.m = nil
	return nil
}

// initRepo creates a committed repository at dir containing files.
func initRepo(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit(%s) error = %v", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree() error = %v", err)
	}

	for name, content := range files {
		writeFile(t, filepath.Join(dir, filepath.FromSlash(name)), content)
		if _, err := wt.Add(name); err != nil {
			t.Fatalf("Add(%s) error = %v", name, err)
		}
	}

	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

type testSetup struct {
	eng     *engine.Engine
	store   *testManifestStore
	paths   config.Paths
	remotes string
}

// setupTestEngine wires the engine to the real filesystem and git against
// a committed target tree holding files.
func setupTestEngine(t *testing.T, files map[string]string) *testSetup {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not available")
	}

	root := filepath.Join(t.TempDir(), "godot")
	initRepo(t, root, files)

	paths, err := config.NewPaths(root, "", "")
	if err != nil {
		t.Fatalf("NewPaths() error = %v", err)
	}

	store := newTestManifestStore(paths.Manifest)
	hasher := hash.NewFakeHasher()
	clk := clock.NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	eng := engine.New(gitx.NewRealGit("git"), fsops.NewRealFS(), store, hasher, clk, *paths)
	return &testSetup{
		eng:     eng,
		store:   store,
		paths:   *paths,
		remotes: t.TempDir(),
	}
}

// addRemote creates a module repository and returns its clone location.
func (s *testSetup) addRemote(t *testing.T, name string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(s.remotes, name)
	initRepo(t, dir, files)
	return dir
}

// writeModulesFile writes a module list naming sources and returns its path.
func (s *testSetup) writeModulesFile(t *testing.T, sources ...string) string {
	t.Helper()
	path := filepath.Join(s.remotes, config.DefaultModulesFile)
	content := "# module repositories\n"
	for _, src := range sources {
		content += src + "\n"
	}
	writeFile(t, path, content)
	return path
}
