package gitx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
)

// FakeGit implements Git without touching a real repository. Clones copy a
// registered fixture directory; other operations only record their calls.
type FakeGit struct {
	// Repos maps a clone URL to a local directory whose contents are copied
	// on Clone. Unregistered URLs produce an empty clone directory.
	Repos map[string]string

	CloneCalls   []CloneCall
	RestoreCalls []string
	PatchCalls   []PatchCall

	// Configurable responses
	AvailableErr error
	DiscoverRoot string
	DiscoverErr  error
	CloneErrs    map[string]error
	RestoreErr   error
	PatchErrs    map[string]error
}

type CloneCall struct {
	URL string
	Dir string
}

type PatchCall struct {
	Root  string
	Patch string
}

// NewFakeGit creates a new FakeGit.
func NewFakeGit() *FakeGit {
	return &FakeGit{
		Repos:     make(map[string]string),
		CloneErrs: make(map[string]error),
		PatchErrs: make(map[string]error),
	}
}

func (f *FakeGit) Available() error {
	return f.AvailableErr
}

func (f *FakeGit) Discover(cwd string) (string, error) {
	if f.DiscoverErr != nil {
		return "", f.DiscoverErr
	}
	if f.DiscoverRoot != "" {
		return f.DiscoverRoot, nil
	}
	return cwd, nil
}

func (f *FakeGit) Clone(ctx context.Context, url, dir string) error {
	f.CloneCalls = append(f.CloneCalls, CloneCall{URL: url, Dir: dir})
	if err := f.CloneErrs[url]; err != nil {
		return err
	}
	if _, err := os.Lstat(filepath.Dir(dir)); err != nil {
		return fmt.Errorf("cloning %s: %w", url, err)
	}
	if _, err := os.Lstat(dir); err == nil {
		return fmt.Errorf("destination path %s already exists", dir)
	}

	src, ok := f.Repos[url]
	if !ok {
		return os.Mkdir(dir, 0755)
	}
	return copy.Copy(src, dir)
}

func (f *FakeGit) Restore(ctx context.Context, root string) error {
	f.RestoreCalls = append(f.RestoreCalls, root)
	return f.RestoreErr
}

func (f *FakeGit) ApplyPatch(ctx context.Context, root, patchFile string) error {
	f.PatchCalls = append(f.PatchCalls, PatchCall{Root: root, Patch: patchFile})
	return f.PatchErrs[filepath.Base(patchFile)]
}
