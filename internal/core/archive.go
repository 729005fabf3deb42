package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CompressionFormat is the compression used to store an archived file. It
// is a closed set; only Zstd is currently produced by the Archiver, but
// None is reserved so that a future per-drive-role policy can bypass
// compression without a schema change.
type CompressionFormat int

const (
	// CompressionZstd is Zstandard level 3, the only format the Archiver
	// currently produces.
	CompressionZstd CompressionFormat = iota
	// CompressionNone stores the archived file uncompressed. Reserved for
	// future policy; nothing in the current Archiver selects it.
	CompressionNone
)

// String returns the persisted/display representation of a CompressionFormat.
func (c CompressionFormat) String() string {
	switch c {
	case CompressionZstd:
		return "zstd"
	case CompressionNone:
		return "none"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c CompressionFormat) MarshalText() ([]byte, error) {
	if c.String() == "unknown" {
		return nil, fmt.Errorf("unknown compression format: %d", c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CompressionFormat) UnmarshalText(text []byte) error {
	switch string(text) {
	case "zstd":
		*c = CompressionZstd
	case "none":
		*c = CompressionNone
	default:
		return fmt.Errorf("unknown compression format: %s", text)
	}
	return nil
}

// Extension returns the file extension associated with the format,
// including the leading dot ("" for CompressionNone).
func (c CompressionFormat) Extension() string {
	if c == CompressionZstd {
		return ".zst"
	}
	return ""
}

// ArchiveReason records why a file version was archived.
type ArchiveReason int

const (
	// ArchiveReasonBeforeOverwrite precedes an Overwrite op.
	ArchiveReasonBeforeOverwrite ArchiveReason = iota
	// ArchiveReasonBeforeDelete precedes a Delete op.
	ArchiveReasonBeforeDelete
	// ArchiveReasonManual is a user-requested archive outside of a sync.
	ArchiveReasonManual
)

// String returns the persisted/display representation of an ArchiveReason.
func (r ArchiveReason) String() string {
	switch r {
	case ArchiveReasonBeforeOverwrite:
		return "before_overwrite"
	case ArchiveReasonBeforeDelete:
		return "before_delete"
	case ArchiveReasonManual:
		return "manual"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r ArchiveReason) MarshalText() ([]byte, error) {
	if r.String() == "unknown" {
		return nil, fmt.Errorf("unknown archive reason: %d", r)
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *ArchiveReason) UnmarshalText(text []byte) error {
	switch string(text) {
	case "before_overwrite":
		*r = ArchiveReasonBeforeOverwrite
	case "before_delete":
		*r = ArchiveReasonBeforeDelete
	case "manual":
		*r = ArchiveReasonManual
	default:
		return fmt.Errorf("unknown archive reason: %s", text)
	}
	return nil
}

// ArchiveEntry records a single superseded file version stored in a drive's
// archive tree.
//
// The on-disk file's decompressed contents hash to XXH3Hash. ArchivePath is
// built from the original path and a UTC timestamp to the second, and is
// never overwritten: the Archiver fails rather than replace an existing
// archive file. Entries sort by ArchivedAt within a path to form a version
// history.
type ArchiveEntry struct {
	ID              uuid.UUID
	OriginalPath    string
	ArchivePath     string
	DriveID         uuid.UUID
	OriginalSize    uint64
	CompressedSize  uint64
	Compression     CompressionFormat
	XXH3Hash        string
	Reason          ArchiveReason
	ArchivedAt      time.Time
}

// archiveTimestampLayout is the format used for the timestamp component of
// an archive path: YYYYMMDDTHHMMSS, UTC.
const archiveTimestampLayout = "20060102T150405"

// ArchiveRelPath builds the archive-tree-relative path for a given original
// rel_path, timestamp, and compression format:
// .diffr/archive/<original>/<UTC-timestamp>.<ext>
func ArchiveRelPath(originalRelPath string, at time.Time, compression CompressionFormat) string {
	return ".diffr/archive/" + originalRelPath + "/" + at.UTC().Format(archiveTimestampLayout) + compression.Extension()
}

// RetentionPolicy bounds how many archive entries are kept. Absent (nil)
// fields mean "no limit".
type RetentionPolicy struct {
	MaxAgeDays    *int
	MaxVersions   *int
	MaxTotalBytes *uint64
}

// DefaultRetentionPolicy is the retention policy config.Default uses: keep
// 90 days, 10 versions per path, no byte cap.
func DefaultRetentionPolicy() RetentionPolicy {
	maxAge := 90
	maxVersions := 10
	return RetentionPolicy{MaxAgeDays: &maxAge, MaxVersions: &maxVersions}
}
