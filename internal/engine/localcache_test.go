package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c, err := NewFileCache(path)
	require.NoError(t, err)

	require.NoError(t, c.Set("completed_exercises_1", []string{"ex-1", "ex-2"}))

	// Reopen: mutations must have been flushed synchronously.
	c2, err := NewFileCache(path)
	require.NoError(t, err)

	var ids []string
	ok, err := c2.Get("completed_exercises_1", &ids)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"ex-1", "ex-2"}, ids)
}

func TestFileCacheMissingKey(t *testing.T) {
	c := NewMemoryCache()

	var v []string
	ok, err := c.Get("absent", &v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileCacheDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c, err := NewFileCache(path)
	require.NoError(t, err)

	require.NoError(t, c.Set("k", 42))
	require.NoError(t, c.Delete("k"))

	c2, err := NewFileCache(path)
	require.NoError(t, err)
	var v int
	ok, _ := c2.Get("k", &v)
	assert.False(t, ok)
}

func TestFileCacheCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	c, err := NewFileCache(path)
	require.NoError(t, err)

	var v string
	ok, err := c.Get("anything", &v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileCacheCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "cache.json")
	c, err := NewFileCache(path)
	require.NoError(t, err)

	require.NoError(t, c.Set("k", "v"))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
