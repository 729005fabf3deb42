package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/crussella0129/diffr/internal/core"
)

// UpsertFileEntry inserts or replaces a drive's file_index row for a path.
func (s *Store) UpsertFileEntry(entry core.FileEntry) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO file_index (rel_path, drive_id, is_dir, size, mtime, xxh3_hash, sha256_hash, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RelPath, entry.DriveID.String(), boolToInt(entry.IsDir), int64(entry.Size),
		formatTime(entry.ModTime), nullString(entry.XXH3), nullString(entry.SHA256), formatTime(entry.IndexedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting file index entry: %w", err)
	}
	return nil
}

// ListFileEntriesForDrive returns every indexed entry for a drive, ordered
// by path — the set a Diff call is computed against.
func (s *Store) ListFileEntriesForDrive(driveID uuid.UUID) ([]core.FileEntry, error) {
	rows, err := s.db.Query(
		`SELECT rel_path, drive_id, is_dir, size, mtime, xxh3_hash, sha256_hash, indexed_at
		 FROM file_index WHERE drive_id = ? ORDER BY rel_path`, driveID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing file index: %w", err)
	}
	defer rows.Close()

	var entries []core.FileEntry
	for rows.Next() {
		var relPath, driveIDStr, mtimeStr, indexedStr string
		var isDir int64
		var size int64
		var xxh3, sha256 sql.NullString
		if err := rows.Scan(&relPath, &driveIDStr, &isDir, &size, &mtimeStr, &xxh3, &sha256, &indexedStr); err != nil {
			return nil, fmt.Errorf("scanning file index row: %w", err)
		}
		id, err := uuid.Parse(driveIDStr)
		if err != nil {
			return nil, fmt.Errorf("parsing drive id: %w", err)
		}
		entries = append(entries, core.FileEntry{
			RelPath: relPath, DriveID: id, IsDir: isDir != 0, Size: uint64(size),
			ModTime: parseTime(mtimeStr), XXH3: xxh3.String, SHA256: sha256.String,
			IndexedAt: parseTime(indexedStr),
		})
	}
	return entries, rows.Err()
}

// ClearFileIndexForDrive deletes every file_index row for a drive, ahead of
// a fresh scan repopulating it.
func (s *Store) ClearFileIndexForDrive(driveID uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM file_index WHERE drive_id = ?`, driveID.String())
	if err != nil {
		return fmt.Errorf("clearing file index: %w", err)
	}
	return nil
}
