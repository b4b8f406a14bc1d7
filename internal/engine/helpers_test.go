package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/modapply/internal/clock"
	"github.com/danieljhkim/modapply/internal/config"
	"github.com/danieljhkim/modapply/internal/fsops"
	"github.com/danieljhkim/modapply/internal/gitx"
	"github.com/danieljhkim/modapply/internal/hash"
	"github.com/danieljhkim/modapply/internal/manifest"
)

var testNow = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	eng   *Engine
	git   *gitx.FakeGit
	paths config.Paths
	store *manifest.FileStore

	// fixtures holds module repositories and module lists outside the root
	fixtures string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	paths, err := config.NewPaths(root, "", "")
	require.NoError(t, err)

	fs := fsops.NewRealFS()
	git := gitx.NewFakeGit()
	store := manifest.NewFileStore(fs, paths.Manifest, paths.Root)

	return &testEnv{
		eng:      New(git, fs, store, hash.NewSHA256Hasher(), clock.NewFakeClock(testNow), *paths),
		git:      git,
		paths:    *paths,
		store:    store,
		fixtures: t.TempDir(),
	}
}

// addRepo registers a module repository served at url with the given files.
func (env *testEnv) addRepo(t *testing.T, url, name string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(env.fixtures, "repos", name)
	writeTree(t, dir, files)
	env.git.Repos[url] = dir
}

// writeModulesFile writes a module list and returns its path.
func (env *testEnv) writeModulesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(env.fixtures, "modules_file.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (env *testEnv) rootPath(rel string) string {
	return env.paths.Abs(rel)
}

func writeTree(t *testing.T, base string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(base, 0755))
	for name, content := range files {
		path := filepath.Join(base, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func pathExists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Lstat(path)
	if err == nil {
		return true
	}
	require.True(t, os.IsNotExist(err), "unexpected stat error: %v", err)
	return false
}
