package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/crussella0129/diffr/internal/core"
)

// GetHashCacheEntry and PutHashCacheEntry together satisfy cache.Store, so
// *Store can back internal/cache directly.

// GetHashCacheEntry looks up a (drive, rel_path) cache row.
func (s *Store) GetHashCacheEntry(driveID uuid.UUID, relPath string) (core.HashCacheEntry, bool, error) {
	row := s.db.QueryRow(
		`SELECT rel_path, drive_id, size, mtime, xxh3_hash, sha256_hash, cached_at
		 FROM hash_cache WHERE drive_id = ? AND rel_path = ?`, driveID.String(), relPath,
	)

	var rel, driveIDStr, mtimeStr, xxh3, cachedStr string
	var size int64
	var sha256 sql.NullString
	err := row.Scan(&rel, &driveIDStr, &size, &mtimeStr, &xxh3, &sha256, &cachedStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.HashCacheEntry{}, false, nil
		}
		return core.HashCacheEntry{}, false, fmt.Errorf("scanning hash cache entry: %w", err)
	}

	id, err := uuid.Parse(driveIDStr)
	if err != nil {
		return core.HashCacheEntry{}, false, fmt.Errorf("parsing drive id: %w", err)
	}

	return core.HashCacheEntry{
		RelPath: rel, DriveID: id, Size: uint64(size), ModTime: parseTime(mtimeStr),
		XXH3: xxh3, SHA256: sha256.String, CachedAt: parseTime(cachedStr),
	}, true, nil
}

// PutHashCacheEntry inserts or replaces a cache row.
func (s *Store) PutHashCacheEntry(entry core.HashCacheEntry) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO hash_cache (rel_path, drive_id, size, mtime, xxh3_hash, sha256_hash, cached_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.RelPath, entry.DriveID.String(), int64(entry.Size), formatTime(entry.ModTime),
		entry.XXH3, nullString(entry.SHA256), formatTime(entry.CachedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting hash cache entry: %w", err)
	}
	return nil
}
