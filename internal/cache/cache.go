// Package cache implements the hash cache that lets a rescan skip content
// hashing for files whose (size, mtime) have not changed since they were
// last hashed.
package cache

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crussella0129/diffr/internal/core"
	"github.com/crussella0129/diffr/internal/hashing"
	"github.com/crussella0129/diffr/internal/logging"
)

// Store is the persistence surface the cache needs. It is satisfied by
// internal/store's sqlite-backed implementation; tests use an in-memory
// fake.
type Store interface {
	GetHashCacheEntry(driveID uuid.UUID, relPath string) (core.HashCacheEntry, bool, error)
	PutHashCacheEntry(entry core.HashCacheEntry) error
}

// Cache wraps a Store with the get-or-hash policy: consult the cache first,
// and only fall through to hashing the file on disk when the cached entry is
// missing or stale.
type Cache struct {
	store Store
}

// New constructs a Cache backed by store.
func New(store Store) *Cache {
	return &Cache{store: store}
}

// GetOrHashFile returns the XXH3 (and, if requireSHA256, SHA-256) hash of
// the file described by entry, whose content lives at absPath. It consults
// the cache first and only hashes the file when the cached entry is missing
// or stale (per core.HashCacheEntry.IsValid), writing a fresh entry back in
// that case. A failure to write the entry back is logged as a warning and
// does not fail the call.
func (c *Cache) GetOrHashFile(entry core.FileEntry, absPath string, requireSHA256 bool) (hashing.Result, error) {
	cached, found, err := c.store.GetHashCacheEntry(entry.DriveID, entry.RelPath)
	if err != nil {
		return hashing.Result{}, fmt.Errorf("reading hash cache for %s: %w", entry.RelPath, err)
	}
	if found && cached.IsValid(entry.Size, entry.ModTime, requireSHA256) {
		return hashing.Result{XXH3: cached.XXH3, SHA256: cached.SHA256}, nil
	}

	result, err := hashing.HashFile(absPath, requireSHA256)
	if err != nil {
		return hashing.Result{}, fmt.Errorf("hashing %s: %w", entry.RelPath, err)
	}

	fresh := core.HashCacheEntry{
		RelPath:  entry.RelPath,
		DriveID:  entry.DriveID,
		Size:     entry.Size,
		ModTime:  entry.ModTime,
		XXH3:     result.XXH3,
		SHA256:   result.SHA256,
		CachedAt: time.Now().UTC(),
	}
	if err := c.store.PutHashCacheEntry(fresh); err != nil {
		logging.RootLogger.Sublogger("cache").Warnf("writing hash cache for %s: %v", entry.RelPath, err)
	}
	return result, nil
}
