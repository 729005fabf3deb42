package plan

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/crussella0129/diffr/internal/core"
)

func TestGenerateMeshCopyNew(t *testing.T) {
	left := core.NewDrive(core.NewSyntheticIdentity(), "/left")
	right := core.NewDrive(core.NewSyntheticIdentity(), "/right")
	cluster := core.NewCluster("c", core.TopologyMesh, core.ConflictStrategyNewestWins)

	leftEntry := core.FileEntry{RelPath: "a.txt", Size: 100}
	pairs := []DrivePair{{
		Left: left, Right: right,
		Entries: []core.DiffEntry{{RelPath: "a.txt", Kind: core.DiffOnlyLeft, Left: &leftEntry}},
	}}

	p := Generate(cluster, []core.Drive{left, right}, pairs)
	require.Len(t, p.Ops, 1)
	require.Equal(t, core.OpCopyNew, p.Ops[0].Kind)
	require.Equal(t, left.ID, *p.Ops[0].SourceDriveID)
	require.Equal(t, right.ID, p.Ops[0].TargetDriveID)
}

func TestGenerateMeshOverwritePicksNewer(t *testing.T) {
	left := core.NewDrive(core.NewSyntheticIdentity(), "/left")
	right := core.NewDrive(core.NewSyntheticIdentity(), "/right")
	cluster := core.NewCluster("c", core.TopologyMesh, core.ConflictStrategyNewestWins)

	now := time.Now()
	leftEntry := core.FileEntry{RelPath: "a.txt", Size: 10, ModTime: now.Add(time.Hour)}
	rightEntry := core.FileEntry{RelPath: "a.txt", Size: 20, ModTime: now}
	pairs := []DrivePair{{
		Left: left, Right: right,
		Entries: []core.DiffEntry{{RelPath: "a.txt", Kind: core.DiffModified, Left: &leftEntry, Right: &rightEntry}},
	}}

	p := Generate(cluster, []core.Drive{left, right}, pairs)
	require.Len(t, p.Ops, 1)
	require.Equal(t, core.OpOverwrite, p.Ops[0].Kind)
	require.Equal(t, left.ID, *p.Ops[0].SourceDriveID, "newer (left) should win")
	require.Equal(t, right.ID, p.Ops[0].TargetDriveID)
}

func TestGeneratePrimaryReplicaPrimaryWins(t *testing.T) {
	primary := core.NewDrive(core.NewSyntheticIdentity(), "/primary")
	primary.IsPrimary = true
	replica := core.NewDrive(core.NewSyntheticIdentity(), "/replica")
	cluster := core.NewCluster("c", core.TopologyPrimaryReplica, core.ConflictStrategyNewestWins)

	replicaOnly := core.FileEntry{RelPath: "only_on_replica.txt", Size: 5}
	pairs := []DrivePair{{
		Left: primary, Right: replica,
		Entries: []core.DiffEntry{{RelPath: "only_on_replica.txt", Kind: core.DiffOnlyRight, Right: &replicaOnly}},
	}}

	p := Generate(cluster, []core.Drive{primary, replica}, pairs)
	// replica-only files never propagate back to the primary
	require.Empty(t, p.Ops)
}

func TestGeneratePrimaryReplicaNoPrimaryFlaggedTreatsRightAsPrimary(t *testing.T) {
	left := core.NewDrive(core.NewSyntheticIdentity(), "/left")
	right := core.NewDrive(core.NewSyntheticIdentity(), "/right")
	cluster := core.NewCluster("c", core.TopologyPrimaryReplica, core.ConflictStrategyNewestWins)

	leftEntry := core.FileEntry{RelPath: "a.txt", Size: 5}
	rightEntry := core.FileEntry{RelPath: "a.txt", Size: 9}
	pairs := []DrivePair{{
		Left: left, Right: right,
		Entries: []core.DiffEntry{{RelPath: "a.txt", Kind: core.DiffModified, Left: &leftEntry, Right: &rightEntry}},
	}}

	p := Generate(cluster, []core.Drive{left, right}, pairs)
	require.Len(t, p.Ops, 1)
	require.Equal(t, right.ID, *p.Ops[0].SourceDriveID)
	require.Equal(t, left.ID, p.Ops[0].TargetDriveID)
}

func TestGenerateMeshConflictPlaceholder(t *testing.T) {
	left := core.NewDrive(core.NewSyntheticIdentity(), "/left")
	right := core.NewDrive(core.NewSyntheticIdentity(), "/right")
	cluster := core.NewCluster("c", core.TopologyMesh, core.ConflictStrategyKeepBoth)

	pairs := []DrivePair{{
		Left: left, Right: right,
		Entries: []core.DiffEntry{{RelPath: "a.txt", Kind: core.DiffConflict}},
	}}

	p := Generate(cluster, []core.Drive{left, right}, pairs)
	require.Len(t, p.Ops, 1)
	require.Equal(t, core.OpResolveConflict, p.Ops[0].Kind)
	require.Nil(t, p.Ops[0].SourceDriveID)
	require.Equal(t, right.ID, p.Ops[0].TargetDriveID)
}

func TestByteTotal(t *testing.T) {
	p := core.NewSyncPlan(uuid.New())
	p.Ops = []core.SyncOp{{SizeBytes: 10}, {SizeBytes: 20}}
	require.Equal(t, uint64(30), p.ByteTotal())
}
