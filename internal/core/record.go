package core

import (
	"time"

	"github.com/google/uuid"
)

// SyncStatus is the terminal outcome of a sync run.
type SyncStatus int

const (
	// StatusSuccess means every planned op completed without error.
	StatusSuccess SyncStatus = iota
	// StatusPartialSuccess means at least one op completed and at least
	// one failed.
	StatusPartialSuccess
	// StatusFailed means no op completed successfully, or the run was
	// aborted before execution began.
	StatusFailed
)

// String returns the persisted/display representation of a SyncStatus.
func (s SyncStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPartialSuccess:
		return "partial_success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ConflictResolution records how a single DiffConflict entry was resolved
// during a sync run.
//
// Under ConflictStrategyKeepBoth, WinnerDriveID/LoserDriveID record which
// side's content was written back under RelPath unchanged (the left drive,
// by convention) and which was renamed; the renamed-to paths themselves live
// on the SyncOps the resolver emitted, not here.
type ConflictResolution struct {
	RelPath        string
	WinnerDriveID  uuid.UUID
	LoserDriveID   uuid.UUID
	StrategyUsed   ConflictStrategy
	ResolvedAt     time.Time
}

// SyncRecord is the persisted outcome of one sync run against a cluster:
// what was planned, what succeeded, what failed, and how conflicts were
// resolved.
type SyncRecord struct {
	ID          uuid.UUID
	ClusterID   uuid.UUID
	StartedAt   time.Time
	FinishedAt  time.Time
	Status      SyncStatus
	OpsPlanned  int
	OpsApplied  int
	OpsFailed   int
	BytesCopied uint64
	Conflicts   []ConflictResolution
	Errors      []string
}

// Duration returns the wall-clock time the run took.
func (r SyncRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// DeriveStatus computes the terminal SyncStatus from applied/failed counts.
func DeriveStatus(opsApplied, opsFailed int) SyncStatus {
	switch {
	case opsFailed == 0:
		return StatusSuccess
	case opsApplied == 0:
		return StatusFailed
	default:
		return StatusPartialSuccess
	}
}
