package engine

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/modapply/internal/manifest"
)

func TestStatus_NothingApplied(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.eng.Status(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Applied)
	assert.Equal(t, env.paths.Root, result.Root)
	assert.Equal(t, env.paths.Manifest, result.ManifestPath)
	assert.Empty(t, result.Entries)
}

func TestStatus_AfterApply(t *testing.T) {
	env := newTestEnv(t)
	env.addRepo(t, repoA, "repoA", map[string]string{
		"modules/foo/SCsub": "x",
		"modules/bar/SCsub": "y",
		"patches/001.patch": "diff --git a/core/a.cpp b/core/a.cpp\n",
	})
	modulesFile := env.writeModulesFile(t, repoA+"\n")

	_, err := env.eng.Apply(context.Background(), &ApplyRequest{ModulesFile: modulesFile})
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(env.rootPath("modules/bar")))

	result, err := env.eng.Status(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Applied)
	assert.True(t, result.AppliedAt.Equal(testNow))

	present := make(map[string]bool)
	for _, entry := range result.Entries {
		assert.Equal(t, manifest.KindModules, entry.Kind)
		assert.Equal(t, repoA, entry.Source)
		present[entry.Path] = entry.Exists
	}
	assert.Equal(t, map[string]bool{"modules/foo": true, "modules/bar": false}, present)

	require.Len(t, result.Patches, 1)
	assert.Equal(t, "001.patch", result.Patches[0].Name)
	assert.True(t, result.Patches[0].Applied)
}

func TestStatus_InvalidManifest(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(env.paths.Manifest, []byte("{not json"), 0644))

	_, err := env.eng.Status(context.Background())
	assert.ErrorIs(t, err, manifest.ErrInvalidManifest)
}
