package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCacheFile(t *testing.T, dir, name string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(`{"cached_at":"2026-08-31T10:00:00Z","items":[]}`), 0o644))
	return path
}

func TestCacheStatus(t *testing.T) {
	dir := t.TempDir()
	writeCacheFile(t, dir, "staff_abcdef012345_default.json")
	t.Setenv("SM8_CACHE_DIR", dir)
	t.Setenv("SM8_NO_CACHE", "")

	out, _, err := runCLI(t, "", "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Directory:")
	assert.Contains(t, out, dir)
	assert.Contains(t, out, "staff_abcdef012345_default.json")
	assert.NotContains(t, out, "Disabled:")
}

func TestCacheStatusEmpty(t *testing.T) {
	t.Setenv("SM8_CACHE_DIR", t.TempDir())
	t.Setenv("SM8_NO_CACHE", "")

	out, _, err := runCLI(t, "", "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "No cached files.")
}

func TestCacheStatusDisabled(t *testing.T) {
	t.Setenv("SM8_CACHE_DIR", t.TempDir())
	t.Setenv("SM8_NO_CACHE", "1")

	out, _, err := runCLI(t, "", "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Disabled:")
	assert.Contains(t, out, "SM8_NO_CACHE")
}

func TestCacheStatusJSON(t *testing.T) {
	dir := t.TempDir()
	writeCacheFile(t, dir, "queues_abcdef012345_default.json")
	t.Setenv("SM8_CACHE_DIR", dir)
	t.Setenv("SM8_NO_CACHE", "")

	out, _, err := runCLI(t, "", "cache", "status", "-o", "json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, dir, got["dir"])
	assert.Equal(t, false, got["disabled"])
	files, ok := got["files"].([]any)
	require.True(t, ok)
	assert.Len(t, files, 1)
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	kept := writeCacheFile(t, dir, "notes.txt")
	cleared := writeCacheFile(t, dir, "staff_abcdef012345_default.json")
	t.Setenv("SM8_CACHE_DIR", dir)

	out, _, err := runCLI(t, "", "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared cache in "+dir)

	_, err = os.Stat(cleared)
	assert.True(t, os.IsNotExist(err))

	// ClearAll only removes files matching the cache naming scheme.
	_, err = os.Stat(kept)
	assert.NoError(t, err)
}
