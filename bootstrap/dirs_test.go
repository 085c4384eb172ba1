package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureDirectoriesCreatesNested(t *testing.T) {
	root := t.TempDir()
	paths := []string{
		filepath.Join(root, "app", "logs"),
		filepath.Join(root, "data"),
	}

	assert.NoError(t, EnsureDirectories(paths))
	for _, p := range paths {
		fi, err := os.Stat(p)
		assert.NoError(t, err)
		assert.True(t, fi.IsDir())
	}
}

func TestEnsureDirectoriesIdempotent(t *testing.T) {
	root := t.TempDir()
	paths := []string{filepath.Join(root, "logs")}

	assert.NoError(t, EnsureDirectories(paths))
	assert.NoError(t, EnsureDirectories(paths))

	fi, err := os.Stat(paths[0])
	assert.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestEnsureDirectoriesExistingContentsKept(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "logs")
	assert.NoError(t, os.MkdirAll(dir, 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "app.log"), []byte("x"), 0o644))

	assert.NoError(t, EnsureDirectories([]string{dir}))

	_, err := os.Stat(filepath.Join(dir, "app.log"))
	assert.NoError(t, err)
}

func TestEnsureDirectoriesFileCollision(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "logs")
	assert.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	assert.ErrorContains(t, EnsureDirectories([]string{p}), "unable to create")
}
