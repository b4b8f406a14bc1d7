package gitx

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTestRepo creates a committed repository containing files.
func initTestRepo(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := wt.Add(name)
		require.NoError(t, err)
	}

	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return dir
}

func requireGitBinary(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not available")
	}
}

func TestRealGit_Clone(t *testing.T) {
	remote := initTestRepo(t, map[string]string{
		"modules/foo/SCsub": "Import('env')",
	})

	dest := filepath.Join(t.TempDir(), "repoA")
	g := NewRealGit("")
	require.NoError(t, g.Clone(context.Background(), remote, dest))

	data, err := os.ReadFile(filepath.Join(dest, "modules", "foo", "SCsub"))
	require.NoError(t, err)
	assert.Equal(t, "Import('env')", string(data))
}

func TestRealGit_CloneExistingDestination(t *testing.T) {
	remote := initTestRepo(t, map[string]string{"a.txt": "a"})
	dest := t.TempDir()

	err := NewRealGit("").Clone(context.Background(), remote, dest)
	assert.Error(t, err)
}

func TestRealGit_CloneMissingRemote(t *testing.T) {
	parent := t.TempDir()
	dest := filepath.Join(parent, "missing")

	err := NewRealGit("").Clone(context.Background(), filepath.Join(parent, "does-not-exist"), dest)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "failed clone should not leave a directory behind")
}

func TestRealGit_Available(t *testing.T) {
	err := NewRealGit("modapply-no-such-binary").Available()
	assert.True(t, errors.Is(err, ErrGitNotFound), "got %v", err)
}

func TestRealGit_Discover(t *testing.T) {
	root := initTestRepo(t, map[string]string{"a.txt": "a"})
	nested := filepath.Join(root, "core", "io")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	g := NewRealGit("")
	got, err := g.Discover(nested)
	require.NoError(t, err)

	want, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRealGit_Restore(t *testing.T) {
	requireGitBinary(t)

	root := initTestRepo(t, map[string]string{"core/version.h": "#define V 1\n"})
	tracked := filepath.Join(root, "core", "version.h")
	require.NoError(t, os.WriteFile(tracked, []byte("#define V 2\n"), 0o644))

	untracked := filepath.Join(root, "modules", "foo", "SCsub")
	require.NoError(t, os.MkdirAll(filepath.Dir(untracked), 0o755))
	require.NoError(t, os.WriteFile(untracked, []byte("x"), 0o644))

	require.NoError(t, NewRealGit("").Restore(context.Background(), root))

	data, err := os.ReadFile(tracked)
	require.NoError(t, err)
	assert.Equal(t, "#define V 1\n", string(data))

	_, err = os.Stat(untracked)
	assert.NoError(t, err, "restore must leave untracked files in place")
}

func TestRealGit_ApplyPatch(t *testing.T) {
	requireGitBinary(t)

	root := initTestRepo(t, map[string]string{"hello.txt": "line one\nline two\n"})

	// Context line carries extra whitespace; it must still apply.
	patch := "--- a/hello.txt\n" +
		"+++ b/hello.txt\n" +
		"@@ -1,2 +1,2 @@\n" +
		" line  one\n" +
		"-line two\n" +
		"+line 2\n"
	patchFile := filepath.Join(t.TempDir(), "001-fix.patch")
	require.NoError(t, os.WriteFile(patchFile, []byte(patch), 0o644))

	require.NoError(t, NewRealGit("").ApplyPatch(context.Background(), root, patchFile))

	data, err := os.ReadFile(filepath.Join(root, "hello.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "line 2")
}

func TestRealGit_ApplyPatchFailure(t *testing.T) {
	requireGitBinary(t)

	root := initTestRepo(t, map[string]string{"hello.txt": "alpha\n"})

	patch := "--- a/hello.txt\n" +
		"+++ b/hello.txt\n" +
		"@@ -1 +1 @@\n" +
		"-omega\n" +
		"+beta\n"
	patchFile := filepath.Join(t.TempDir(), "bad.patch")
	require.NoError(t, os.WriteFile(patchFile, []byte(patch), 0o644))

	err := NewRealGit("").ApplyPatch(context.Background(), root, patchFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.patch")
}
