package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/crussella0129/diffr/internal/core"
)

func intPtr(i int) *int          { return &i }
func u64Ptr(v uint64) *uint64    { return &v }

func writeArchiveFile(t *testing.T, root, archiveRel string, size int) {
	t.Helper()
	full := filepath.Join(root, archiveRel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, make([]byte, size), 0o644))
}

func TestEnforceRetentionMaxVersions(t *testing.T) {
	dir := t.TempDir()
	driveID := uuid.New()
	store := &fakeRetentionStore{entries: make(map[uuid.UUID]core.ArchiveEntry)}

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		id := uuid.New()
		rel := filepath.Join(".diffr", "archive", "a.txt", "v"+string(rune('0'+i))+".zst")
		writeArchiveFile(t, dir, rel, 10)
		store.entries[id] = core.ArchiveEntry{
			ID: id, DriveID: driveID, OriginalPath: "a.txt", ArchivePath: rel,
			CompressedSize: 10, ArchivedAt: now.Add(-time.Duration(i) * time.Hour),
		}
	}

	policy := core.RetentionPolicy{MaxVersions: intPtr(2)}
	result, err := EnforceRetention(store, driveID, dir, policy)
	require.NoError(t, err)
	require.Equal(t, 3, result.EntriesPruned)
	require.Len(t, store.entries, 2)
}

func TestEnforceRetentionMaxAgeDays(t *testing.T) {
	dir := t.TempDir()
	driveID := uuid.New()
	store := &fakeRetentionStore{entries: make(map[uuid.UUID]core.ArchiveEntry)}

	oldID := uuid.New()
	rel := filepath.Join(".diffr", "archive", "a.txt", "old.zst")
	writeArchiveFile(t, dir, rel, 10)
	store.entries[oldID] = core.ArchiveEntry{
		ID: oldID, DriveID: driveID, OriginalPath: "a.txt", ArchivePath: rel,
		CompressedSize: 10, ArchivedAt: time.Now().UTC().Add(-100 * 24 * time.Hour),
	}

	policy := core.RetentionPolicy{MaxAgeDays: intPtr(90)}
	result, err := EnforceRetention(store, driveID, dir, policy)
	require.NoError(t, err)
	require.Equal(t, 1, result.EntriesPruned)
	require.Equal(t, uint64(10), result.BytesFreed)
}

func TestEnforceRetentionMaxTotalBytes(t *testing.T) {
	dir := t.TempDir()
	driveID := uuid.New()
	store := &fakeRetentionStore{entries: make(map[uuid.UUID]core.ArchiveEntry)}

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		id := uuid.New()
		rel := filepath.Join(".diffr", "archive", "a.txt", string(rune('a'+i))+".zst")
		writeArchiveFile(t, dir, rel, 100)
		store.entries[id] = core.ArchiveEntry{
			ID: id, DriveID: driveID, OriginalPath: "a.txt", ArchivePath: rel,
			CompressedSize: 100, ArchivedAt: now.Add(-time.Duration(3-i) * time.Hour),
		}
	}

	policy := core.RetentionPolicy{MaxTotalBytes: u64Ptr(150)}
	result, err := EnforceRetention(store, driveID, dir, policy)
	require.NoError(t, err)
	require.GreaterOrEqual(t, result.BytesFreed, uint64(150))
	require.Less(t, len(store.entries), 3)
}

func TestEnforceRetentionIdempotent(t *testing.T) {
	dir := t.TempDir()
	driveID := uuid.New()
	store := &fakeRetentionStore{entries: make(map[uuid.UUID]core.ArchiveEntry)}

	id := uuid.New()
	rel := filepath.Join(".diffr", "archive", "a.txt", "v0.zst")
	writeArchiveFile(t, dir, rel, 10)
	store.entries[id] = core.ArchiveEntry{
		ID: id, DriveID: driveID, OriginalPath: "a.txt", ArchivePath: rel,
		CompressedSize: 10, ArchivedAt: time.Now().UTC(),
	}

	policy := core.RetentionPolicy{MaxVersions: intPtr(5)}
	_, err := EnforceRetention(store, driveID, dir, policy)
	require.NoError(t, err)

	result, err := EnforceRetention(store, driveID, dir, policy)
	require.NoError(t, err)
	require.Equal(t, 0, result.EntriesPruned)
}
