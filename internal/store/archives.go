package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/crussella0129/diffr/internal/core"
)

// InsertArchive persists an ArchiveEntry produced by the Archiver.
func (s *Store) InsertArchive(entry core.ArchiveEntry) error {
	_, err := s.db.Exec(
		`INSERT INTO archives (id, original_path, archive_path, drive_id, original_size, compressed_size, compression, xxh3_hash, reason, archived_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID.String(), entry.OriginalPath, entry.ArchivePath, entry.DriveID.String(),
		int64(entry.OriginalSize), int64(entry.CompressedSize), entry.Compression.String(),
		entry.XXH3Hash, entry.Reason.String(), formatTime(entry.ArchivedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting archive entry: %w", err)
	}
	return nil
}

// ListArchivesForPath returns every archive for a single original path,
// newest first.
func (s *Store) ListArchivesForPath(originalPath string) ([]core.ArchiveEntry, error) {
	rows, err := s.db.Query(archiveSelectBase+` WHERE original_path = ? ORDER BY archived_at DESC`, originalPath)
	if err != nil {
		return nil, fmt.Errorf("listing archives for path: %w", err)
	}
	defer rows.Close()
	return scanArchives(rows)
}

// ListArchivesForDrive returns every archive entry belonging to a drive,
// newest first. Satisfies archive.RetentionStore.
func (s *Store) ListArchivesForDrive(driveID uuid.UUID) ([]core.ArchiveEntry, error) {
	rows, err := s.db.Query(archiveSelectBase+` WHERE drive_id = ? ORDER BY archived_at DESC`, driveID.String())
	if err != nil {
		return nil, fmt.Errorf("listing archives for drive: %w", err)
	}
	defer rows.Close()
	return scanArchives(rows)
}

// DeleteArchiveEntry removes an archive's metadata row. Satisfies
// archive.RetentionStore. Callers are responsible for removing the
// underlying archive file themselves (as internal/archive.EnforceRetention
// does before calling this).
func (s *Store) DeleteArchiveEntry(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM archives WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting archive entry: %w", err)
	}
	return nil
}

// TotalArchiveSize sums compressed_size across a drive's archive entries.
func (s *Store) TotalArchiveSize(driveID uuid.UUID) (uint64, error) {
	var total int64
	err := s.db.QueryRow(`SELECT COALESCE(SUM(compressed_size), 0) FROM archives WHERE drive_id = ?`, driveID.String()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing archive size: %w", err)
	}
	return uint64(total), nil
}

const archiveSelectBase = `SELECT id, original_path, archive_path, drive_id, original_size, compressed_size, compression, xxh3_hash, reason, archived_at FROM archives`

func scanArchives(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]core.ArchiveEntry, error) {
	var entries []core.ArchiveEntry
	for rows.Next() {
		var idStr, originalPath, archivePath, driveIDStr, compressionStr, xxh3, reasonStr, archivedStr string
		var originalSize, compressedSize int64
		if err := rows.Scan(&idStr, &originalPath, &archivePath, &driveIDStr, &originalSize, &compressedSize,
			&compressionStr, &xxh3, &reasonStr, &archivedStr); err != nil {
			return nil, fmt.Errorf("scanning archive row: %w", err)
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parsing archive id: %w", err)
		}
		driveID, err := uuid.Parse(driveIDStr)
		if err != nil {
			return nil, fmt.Errorf("parsing drive id: %w", err)
		}

		var compression core.CompressionFormat
		_ = compression.UnmarshalText([]byte(compressionStr))
		var reason core.ArchiveReason
		_ = reason.UnmarshalText([]byte(reasonStr))

		entries = append(entries, core.ArchiveEntry{
			ID: id, OriginalPath: originalPath, ArchivePath: archivePath, DriveID: driveID,
			OriginalSize: uint64(originalSize), CompressedSize: uint64(compressedSize),
			Compression: compression, XXH3Hash: xxh3, Reason: reason, ArchivedAt: parseTime(archivedStr),
		})
	}
	return entries, rows.Err()
}
