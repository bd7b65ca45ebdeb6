package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(prev) })
}

func TestInitialize_AndLoad(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Initialize()
	require.NoError(t, err)
	assert.True(t, cfg.Journal)
	assert.False(t, cfg.Interactive)

	loaded, err := Load()
	require.NoError(t, err)
	assert.True(t, loaded.Journal)
	assert.NotEmpty(t, loaded.DatabasePath())
}

func TestInitialize_FailsWhenWorkspaceExists(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Initialize()
	require.NoError(t, err)

	_, err = Initialize()
	assert.Error(t, err)
}

func TestFindKyneticRoot_WalksUp(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)
	_, err := Initialize()
	require.NoError(t, err)

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	chdir(t, nested)

	found, err := FindKyneticRoot()
	require.NoError(t, err)
	assert.Equal(t, evalSymlinks(t, filepath.Join(root, KyneticDir)), evalSymlinks(t, found))
}

func evalSymlinks(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}

func TestLoadOrDefault_NoWorkspace(t *testing.T) {
	chdir(t, t.TempDir())

	cfg := LoadOrDefault()
	assert.False(t, cfg.Journal)
	assert.False(t, cfg.Interactive)
	assert.Empty(t, cfg.DatabasePath())
}

func TestSave_RoundTrip(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Initialize()
	require.NoError(t, err)

	cfg.Interactive = true
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.True(t, loaded.Interactive)
}