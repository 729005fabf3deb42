package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/crussella0129/diffr/internal/core"
)

func TestArchiveAndRestoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := "hello world, this is test content for archive/restore cycle"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.txt"), []byte(original), 0o644))

	drive := core.NewDrive(core.NewSyntheticIdentity(), dir)

	entry, err := ArchiveFile(drive, "test.txt", core.ArchiveReasonBeforeOverwrite)
	require.NoError(t, err)
	require.Equal(t, "test.txt", entry.OriginalPath)
	require.Greater(t, entry.CompressedSize, uint64(0))
	require.Equal(t, core.CompressionZstd, entry.Compression)
	require.FileExists(t, filepath.Join(dir, entry.ArchivePath))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.txt"), []byte("modified content"), 0o644))

	require.NoError(t, RestoreFile(drive, entry, ""))

	restored, err := os.ReadFile(filepath.Join(dir, "test.txt"))
	require.NoError(t, err)
	require.Equal(t, original, string(restored))
}

func TestArchiveFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	drive := core.NewDrive(core.NewSyntheticIdentity(), dir)

	_, err := ArchiveFile(drive, "does_not_exist.txt", core.ArchiveReasonManual)
	require.Error(t, err)
}

func TestRestoreFileHashMismatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.txt"), []byte("content"), 0o644))
	drive := core.NewDrive(core.NewSyntheticIdentity(), dir)

	entry, err := ArchiveFile(drive, "test.txt", core.ArchiveReasonManual)
	require.NoError(t, err)
	entry.XXH3Hash = "deadbeefdeadbeef"

	err = RestoreFile(drive, entry, "")
	require.Error(t, err)
}

type fakeRetentionStore struct {
	entries map[uuid.UUID]core.ArchiveEntry
}

func (f *fakeRetentionStore) ListArchivesForDrive(driveID uuid.UUID) ([]core.ArchiveEntry, error) {
	var out []core.ArchiveEntry
	for _, e := range f.entries {
		if e.DriveID == driveID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRetentionStore) DeleteArchiveEntry(id uuid.UUID) error {
	delete(f.entries, id)
	return nil
}
