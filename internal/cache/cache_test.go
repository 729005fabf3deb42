package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/crussella0129/diffr/internal/core"
)

type fakeStore struct {
	entries map[string]core.HashCacheEntry
	puts    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]core.HashCacheEntry)}
}

func key(driveID uuid.UUID, relPath string) string {
	return driveID.String() + ":" + relPath
}

func (f *fakeStore) GetHashCacheEntry(driveID uuid.UUID, relPath string) (core.HashCacheEntry, bool, error) {
	e, ok := f.entries[key(driveID, relPath)]
	return e, ok, nil
}

func (f *fakeStore) PutHashCacheEntry(entry core.HashCacheEntry) error {
	f.puts++
	f.entries[key(entry.DriveID, entry.RelPath)] = entry
	return nil
}

func TestGetOrHashFileMissCachesResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	info, err := os.Stat(path)
	require.NoError(t, err)

	store := newFakeStore()
	c := New(store)
	driveID := uuid.New()
	entry := core.FileEntry{RelPath: "a.txt", DriveID: driveID, Size: uint64(info.Size()), ModTime: info.ModTime()}

	result, err := c.GetOrHashFile(entry, path, false)
	require.NoError(t, err)
	require.NotEmpty(t, result.XXH3)
	require.Equal(t, 1, store.puts)

	// Second call should hit the cache rather than re-hashing or re-writing.
	result2, err := c.GetOrHashFile(entry, path, false)
	require.NoError(t, err)
	require.Equal(t, result, result2)
	require.Equal(t, 1, store.puts)
}

func TestGetOrHashFileStaleOnSizeChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	info, _ := os.Stat(path)

	store := newFakeStore()
	c := New(store)
	driveID := uuid.New()
	entry := core.FileEntry{RelPath: "a.txt", DriveID: driveID, Size: uint64(info.Size()), ModTime: info.ModTime()}
	_, err := c.GetOrHashFile(entry, path, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("hello world, longer now"), 0o644))
	info2, _ := os.Stat(path)
	entry2 := core.FileEntry{RelPath: "a.txt", DriveID: driveID, Size: uint64(info2.Size()), ModTime: info2.ModTime()}

	result2, err := c.GetOrHashFile(entry2, path, false)
	require.NoError(t, err)
	require.Equal(t, 2, store.puts)
	require.NotEmpty(t, result2.XXH3)
}

func TestGetOrHashFileRequiresSHA256(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	info, _ := os.Stat(path)

	store := newFakeStore()
	c := New(store)
	driveID := uuid.New()
	entry := core.FileEntry{RelPath: "a.txt", DriveID: driveID, Size: uint64(info.Size()), ModTime: info.ModTime()}

	// First hash without SHA-256.
	_, err := c.GetOrHashFile(entry, path, false)
	require.NoError(t, err)
	require.Equal(t, 1, store.puts)

	// Requesting SHA-256 now should force a rehash since the cached entry
	// lacks one.
	result, err := c.GetOrHashFile(entry, path, true)
	require.NoError(t, err)
	require.NotEmpty(t, result.SHA256)
	require.Equal(t, 2, store.puts)
}
