package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("main: []\n"), 0o644))
}

func TestDiscoverMatchesIncludeGlob(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.yaml"))
	writeFile(t, filepath.Join(root, "sub", "b.yaml"))
	writeFile(t, filepath.Join(root, "notes.txt"))

	found, err := Discover(root, []string{"**/*.yaml"}, nil)
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Contains(t, found, filepath.Join(root, "a.yaml"))
	assert.Contains(t, found, filepath.Join(root, "sub", "b.yaml"))
}

func TestDiscoverHonorsExcludeGlob(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.yaml"))
	writeFile(t, filepath.Join(root, "a.fixture.yaml"))

	found, err := Discover(root, []string{"**/*.yaml"}, []string{"*.fixture.yaml"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.yaml")}, found)
}

func TestDiscoverDedupesPathsMatchedByMultipleIncludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.yaml"))

	found, err := Discover(root, []string{"*.yaml", "a.*"}, nil)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestDiscoverReturnsNoMatchesForEmptyRoot(t *testing.T) {
	root := t.TempDir()

	found, err := Discover(root, []string{"**/*.yaml"}, nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFSDiscovererDelegatesToDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.yaml"))

	found, err := NewFSDiscoverer().Discover(root, []string{"*.yaml"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.yaml")}, found)
}
