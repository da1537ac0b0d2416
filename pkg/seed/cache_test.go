package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(WithDir(t.TempDir()))
	require.NoError(t, err)
	return c
}

func TestSaveAndLoad(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.Save("TestFoo", 1234))

	seed, ok, err := c.Load("TestFoo")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1234), seed)
}

func TestLoadMissingEntry(t *testing.T) {
	c := newTestCache(t)

	_, ok, err := c.Load("TestNeverRecorded")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaveOverwrites(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.Save("TestFoo", 1))
	require.NoError(t, c.Save("TestFoo", 2))

	seed, ok, err := c.Load("TestFoo")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), seed)
}

func TestClear(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.Save("TestFoo", 1234))
	require.NoError(t, c.Clear("TestFoo"))

	_, ok, err := c.Load("TestFoo")
	require.NoError(t, err)
	assert.False(t, ok)

	// Clearing again is a no-op, not an error.
	require.NoError(t, c.Clear("TestFoo"))
}

func TestHostileTestNames(t *testing.T) {
	c := newTestCache(t)

	names := []string{
		"TestWith/Subtest",
		"TestWith/../../escape",
		"Test With Spaces",
		"Test\x00Null",
	}
	for i, name := range names {
		require.NoError(t, c.Save(name, int64(i)))
	}
	for i, name := range names {
		seed, ok, err := c.Load(name)
		require.NoError(t, err)
		require.True(t, ok, "entry for %q missing", name)
		assert.Equal(t, int64(i), seed)
	}

	// Nothing may have escaped the cache dir.
	files, err := os.ReadDir(c.Dir())
	require.NoError(t, err)
	assert.Len(t, files, len(names))
}

func TestListSorted(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.Save("TestB", 2))
	require.NoError(t, c.Save("TestA", 1))
	require.NoError(t, c.Save("TestC", 3))

	entries, err := c.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "TestA", entries[0].Test)
	assert.Equal(t, "TestB", entries[1].Test)
	assert.Equal(t, "TestC", entries[2].Test)
}

func TestListEmptyDir(t *testing.T) {
	c, err := NewCache(WithDir(filepath.Join(t.TempDir(), "does-not-exist")))
	require.NoError(t, err)

	entries, err := c.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClearAll(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.Save("TestA", 1))
	require.NoError(t, c.Save("TestB", 2))
	require.NoError(t, c.ClearAll())

	entries, err := c.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCorruptEntryTreatedAsAbsent(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.Save("TestFoo", 1234))

	// Corrupt the file on disk.
	files, err := os.ReadDir(c.Dir())
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.NoError(t, os.WriteFile(filepath.Join(c.Dir(), files[0].Name()), []byte("not json"), 0o644))

	_, ok, err := c.Load("TestFoo")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDefaultDirFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PROPCHECK_CACHE_DIR", dir)

	c, err := NewCache()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "seeds"), c.Dir())
}
