// Package plan converts a cluster's topology, its drives, and pairwise
// diffs into an ordered SyncPlan.
package plan

import (
	"github.com/google/uuid"

	"github.com/crussella0129/diffr/internal/core"
)

// DrivePair is one pairwise diff between two drives belonging to the same
// cluster.
type DrivePair struct {
	Left    core.Drive
	Right   core.Drive
	Entries []core.DiffEntry
}

// Generate produces a SyncPlan for cluster from its drives and the pairwise
// diffs computed between them.
func Generate(cluster core.Cluster, drives []core.Drive, pairs []DrivePair) core.SyncPlan {
	p := core.NewSyncPlan(cluster.ID)
	switch cluster.Topology {
	case core.TopologyPrimaryReplica:
		generatePrimaryReplica(&p, drives, pairs)
	default:
		generateMesh(&p, pairs)
	}
	return p
}

// generateMesh treats every drive as an equal peer: a file missing on one
// side is copied there, and a two-sided modification is resolved by
// whichever side has the newer mtime.
func generateMesh(p *core.SyncPlan, pairs []DrivePair) {
	for _, pair := range pairs {
		for _, entry := range pair.Entries {
			switch entry.Kind {
			case core.DiffOnlyLeft:
				p.Ops = append(p.Ops, copyOp(entry.RelPath, pair.Left.ID, pair.Right.ID, entry.Left.Size))
			case core.DiffOnlyRight:
				p.Ops = append(p.Ops, copyOp(entry.RelPath, pair.Right.ID, pair.Left.ID, entry.Right.Size))
			case core.DiffModified:
				source, target, size := pickNewer(pair.Left, pair.Right, entry)
				p.Ops = append(p.Ops, overwriteOp(entry.RelPath, source, target, size))
			case core.DiffConflict:
				p.Ops = append(p.Ops, conflictPlaceholderOp(entry, pair.Right.ID))
			case core.DiffIdentical:
				// nothing to do
			}
		}
	}
}

// generatePrimaryReplica treats the cluster's designated primary drive (or,
// if none is marked, the right-hand side of each pair, as documented) as
// authoritative: its files always win, and its OnlyLeft/OnlyRight entries
// always propagate outward; the replica's do not.
func generatePrimaryReplica(p *core.SyncPlan, drives []core.Drive, pairs []DrivePair) {
	var primaryID uuid.UUID
	havePrimary := false
	for _, d := range drives {
		if d.IsPrimary {
			primaryID = d.ID
			havePrimary = true
			break
		}
	}

	for _, pair := range pairs {
		leftIsPrimary := havePrimary && pair.Left.ID == primaryID
		if !havePrimary {
			// Documented edge case: no member flagged primary; treat the
			// right-hand side of each pair as primary.
			leftIsPrimary = false
		}

		for _, entry := range pair.Entries {
			switch entry.Kind {
			case core.DiffOnlyLeft:
				if leftIsPrimary {
					p.Ops = append(p.Ops, copyOp(entry.RelPath, pair.Left.ID, pair.Right.ID, entry.Left.Size))
				}
			case core.DiffOnlyRight:
				if !leftIsPrimary {
					p.Ops = append(p.Ops, copyOp(entry.RelPath, pair.Right.ID, pair.Left.ID, entry.Right.Size))
				}
			case core.DiffModified, core.DiffConflict:
				source, target := pair.Left, pair.Right
				if !leftIsPrimary {
					source, target = pair.Right, pair.Left
				}
				size := entrySize(entry)
				p.Ops = append(p.Ops, overwriteOp(entry.RelPath, source.ID, target.ID, size))
			case core.DiffIdentical:
				// nothing to do
			}
		}
	}
}

func pickNewer(left, right core.Drive, entry core.DiffEntry) (source, target uuid.UUID, size uint64) {
	if entry.Left != nil && entry.Right != nil && !entry.Left.ModTime.Before(entry.Right.ModTime) {
		return left.ID, right.ID, entry.Left.Size
	}
	return right.ID, left.ID, entry.Right.Size
}

func entrySize(entry core.DiffEntry) uint64 {
	if entry.Left != nil {
		return entry.Left.Size
	}
	if entry.Right != nil {
		return entry.Right.Size
	}
	return 0
}

func copyOp(relPath string, source, target uuid.UUID, size uint64) core.SyncOp {
	return core.SyncOp{
		ID:            uuid.New(),
		Kind:          core.OpCopyNew,
		RelPath:       relPath,
		SourceDriveID: &source,
		TargetDriveID: target,
		SizeBytes:     size,
	}
}

func overwriteOp(relPath string, source, target uuid.UUID, size uint64) core.SyncOp {
	return core.SyncOp{
		ID:            uuid.New(),
		Kind:          core.OpOverwrite,
		RelPath:       relPath,
		SourceDriveID: &source,
		TargetDriveID: target,
		SizeBytes:     size,
	}
}

// conflictPlaceholderOp emits the undirected ResolveConflict op the planner
// defers to ConflictResolver; it carries no source, since the winning side
// is decided by the configured strategy, not by topology.
func conflictPlaceholderOp(entry core.DiffEntry, target uuid.UUID) core.SyncOp {
	return core.SyncOp{
		ID:            uuid.New(),
		Kind:          core.OpResolveConflict,
		RelPath:       entry.RelPath,
		TargetDriveID: target,
		SizeBytes:     entrySize(entry),
	}
}
