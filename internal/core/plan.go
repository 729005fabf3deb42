package core

import (
	"fmt"

	"github.com/google/uuid"
)

// SyncOpKind is the action a SyncOp performs.
type SyncOpKind int

const (
	// OpCopyNew copies a file that exists on only one side to the other.
	OpCopyNew SyncOpKind = iota
	// OpOverwrite copies a modified file over its counterpart, archiving
	// the counterpart first.
	OpOverwrite
	// OpDelete removes a file to match the other side's deletion,
	// archiving it first.
	OpDelete
	// OpResolveConflict is a placeholder for a DiffConflict entry; the
	// conflict resolver replaces it with concrete ops, and one that reaches
	// the executor unexpanded is a no-op.
	OpResolveConflict
)

// String returns the display representation of a SyncOpKind.
func (k SyncOpKind) String() string {
	switch k {
	case OpCopyNew:
		return "copy_new"
	case OpOverwrite:
		return "overwrite"
	case OpDelete:
		return "delete"
	case OpResolveConflict:
		return "resolve_conflict"
	default:
		return "unknown"
	}
}

// SyncOp is a single planned filesystem action, derived from one DiffEntry.
//
// TargetDriveID is always the drive written to (or, for OpDelete, the drive
// the path is removed from). SourceDriveID is nil for an OpResolveConflict
// placeholder op, whose real source is decided later by the conflict
// resolver and carried on the ops it emits in place of the placeholder.
type SyncOp struct {
	ID            uuid.UUID
	Kind          SyncOpKind
	RelPath       string
	SourceDriveID *uuid.UUID
	TargetDriveID uuid.UUID
	SizeBytes     uint64
}

// SyncPlan is an ordered, executable set of operations derived from a
// diff between a cluster's drives, plus a list of skipped paths.
type SyncPlan struct {
	ClusterID    uuid.UUID
	Ops          []SyncOp
	SkippedPaths []string // not filled by the planner or the conflict resolver
}

// Validate reports a non-nil error if the plan contains a structurally
// invalid op.
func (p SyncPlan) Validate() error {
	for i, op := range p.Ops {
		if op.RelPath == "" {
			return fmt.Errorf("sync plan op %d: empty rel_path", i)
		}
	}
	return nil
}

// ByteTotal sums SizeBytes across every op, for progress reporting.
func (p SyncPlan) ByteTotal() uint64 {
	var total uint64
	for _, op := range p.Ops {
		total += op.SizeBytes
	}
	return total
}

// NewSyncPlan constructs an empty plan for a cluster, ready to be appended to
// by a topology generator.
func NewSyncPlan(clusterID uuid.UUID) SyncPlan {
	return SyncPlan{ClusterID: clusterID}
}
