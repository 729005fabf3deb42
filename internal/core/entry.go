package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NormalizePath normalizes a scanner-produced relative path into the form
// FileEntry.RelPath requires: forward slashes, no leading separator, and no
// "." segments. It does not resolve ".." segments, since a scan never
// produces paths above its root.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "/")

	if p == "" || p == "." {
		return ""
	}

	segments := strings.Split(p, "/")
	kept := segments[:0]
	for _, s := range segments {
		if s == "" || s == "." {
			continue
		}
		kept = append(kept, s)
	}
	return strings.Join(kept, "/")
}

// FileEntry describes a single file or directory observed during a scan, or
// reconstructed from the persistent file index.
//
// RelPath is normalized and uniquely identifies an entry within a drive.
type FileEntry struct {
	RelPath   string
	DriveID   uuid.UUID
	IsDir     bool
	Size      uint64
	ModTime   time.Time
	XXH3      string // empty if not yet hashed
	SHA256    string // empty if not yet hashed
	IndexedAt time.Time
}

// HasXXH3 reports whether the entry carries a fast fingerprint.
func (e FileEntry) HasXXH3() bool {
	return e.XXH3 != ""
}

// HashCacheEntry is a persisted (rel_path, drive) -> hash record. It is
// authoritative only while (Size, ModTime) continue to match the file on
// disk; any mismatch forces a rehash and replacement.
type HashCacheEntry struct {
	RelPath  string
	DriveID  uuid.UUID
	Size     uint64
	ModTime  time.Time
	XXH3     string
	SHA256   string // empty if never requested
	CachedAt time.Time
}

// IsValid implements the cache validity rule: an entry is authoritative iff
// its (Size, ModTime) match the current file's, and, when the caller
// requires a SHA-256, the cached entry has one.
func (e HashCacheEntry) IsValid(size uint64, modTime time.Time, requireSHA256 bool) bool {
	if e.Size != size {
		return false
	}
	if !e.ModTime.Equal(modTime) {
		return false
	}
	if requireSHA256 && e.SHA256 == "" {
		return false
	}
	return true
}
