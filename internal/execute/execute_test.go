package execute

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/crussella0129/diffr/internal/core"
)

func TestExecuteCopyNew(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("hello"), 0o644))

	source := core.NewDrive(core.NewSyntheticIdentity(), srcDir)
	target := core.NewDrive(core.NewSyntheticIdentity(), dstDir)
	sourceID := source.ID

	plan := core.SyncPlan{Ops: []core.SyncOp{{
		ID: uuid.New(), Kind: core.OpCopyNew, RelPath: "a.txt",
		SourceDriveID: &sourceID, TargetDriveID: target.ID, SizeBytes: 5,
	}}}

	record, err := Execute(plan, []core.Drive{source, target}, Config{Archive: false}, nil)
	require.NoError(t, err)
	require.Equal(t, core.StatusSuccess, record.Status)
	require.Equal(t, 1, record.OpsApplied)
	require.FileExists(t, filepath.Join(dstDir, "a.txt"))

	content, err := os.ReadFile(filepath.Join(dstDir, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(content))
}

func TestExecuteOverwriteArchivesFirst(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dstDir, "a.txt"), []byte("old"), 0o644))

	source := core.NewDrive(core.NewSyntheticIdentity(), srcDir)
	target := core.NewDrive(core.NewSyntheticIdentity(), dstDir)
	sourceID := source.ID

	plan := core.SyncPlan{Ops: []core.SyncOp{{
		ID: uuid.New(), Kind: core.OpOverwrite, RelPath: "a.txt",
		SourceDriveID: &sourceID, TargetDriveID: target.ID, SizeBytes: 3,
	}}}

	var archived []core.ArchiveEntry
	record, err := Execute(plan, []core.Drive{source, target}, Config{Archive: true}, func(e core.ArchiveEntry) error {
		archived = append(archived, e)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, core.StatusSuccess, record.Status)
	require.Len(t, archived, 1)
	require.Equal(t, core.ArchiveReasonBeforeOverwrite, archived[0].Reason)

	content, err := os.ReadFile(filepath.Join(dstDir, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, "new", string(content))
}

func TestExecuteDelete(t *testing.T) {
	dstDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dstDir, "a.txt"), []byte("gone soon"), 0o644))
	target := core.NewDrive(core.NewSyntheticIdentity(), dstDir)

	plan := core.SyncPlan{Ops: []core.SyncOp{{
		ID: uuid.New(), Kind: core.OpDelete, RelPath: "a.txt", TargetDriveID: target.ID,
	}}}

	record, err := Execute(plan, []core.Drive{target}, Config{Archive: false}, nil)
	require.NoError(t, err)
	require.Equal(t, core.StatusSuccess, record.Status)
	require.NoFileExists(t, filepath.Join(dstDir, "a.txt"))
}

func TestExecuteUnresolvedConflictIsNoOp(t *testing.T) {
	dstDir := t.TempDir()
	target := core.NewDrive(core.NewSyntheticIdentity(), dstDir)

	plan := core.SyncPlan{Ops: []core.SyncOp{{
		ID: uuid.New(), Kind: core.OpResolveConflict, RelPath: "a.txt", TargetDriveID: target.ID,
	}}}

	record, err := Execute(plan, []core.Drive{target}, Config{}, nil)
	require.NoError(t, err)
	require.Equal(t, core.StatusSuccess, record.Status)
	require.Equal(t, 1, record.OpsApplied)
}

func TestExecuteMissingSourceDriveIsOpError(t *testing.T) {
	dstDir := t.TempDir()
	target := core.NewDrive(core.NewSyntheticIdentity(), dstDir)
	bogusSource := uuid.New()

	plan := core.SyncPlan{Ops: []core.SyncOp{{
		ID: uuid.New(), Kind: core.OpCopyNew, RelPath: "a.txt",
		SourceDriveID: &bogusSource, TargetDriveID: target.ID,
	}}}

	record, err := Execute(plan, []core.Drive{target}, Config{}, nil)
	require.NoError(t, err)
	require.Equal(t, core.StatusFailed, record.Status)
	require.Len(t, record.Errors, 1)
}

func TestExecuteDryRunTouchesNothing(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("hello"), 0o644))
	source := core.NewDrive(core.NewSyntheticIdentity(), srcDir)
	target := core.NewDrive(core.NewSyntheticIdentity(), dstDir)
	sourceID := source.ID

	plan := core.SyncPlan{Ops: []core.SyncOp{{
		ID: uuid.New(), Kind: core.OpCopyNew, RelPath: "a.txt",
		SourceDriveID: &sourceID, TargetDriveID: target.ID, SizeBytes: 5,
	}}}

	record, err := Execute(plan, []core.Drive{source, target}, Config{DryRun: true}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, record.OpsApplied)
	require.NoFileExists(t, filepath.Join(dstDir, "a.txt"))
}

func TestExecuteVerifyMatchSucceeds(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("hello"), 0o644))
	source := core.NewDrive(core.NewSyntheticIdentity(), srcDir)
	target := core.NewDrive(core.NewSyntheticIdentity(), dstDir)
	sourceID := source.ID

	plan := core.SyncPlan{Ops: []core.SyncOp{{
		ID: uuid.New(), Kind: core.OpCopyNew, RelPath: "a.txt",
		SourceDriveID: &sourceID, TargetDriveID: target.ID, SizeBytes: 5,
	}}}

	record, err := Execute(plan, []core.Drive{source, target}, Config{Verify: true}, nil)
	require.NoError(t, err)
	require.Equal(t, core.StatusSuccess, record.Status)
}
