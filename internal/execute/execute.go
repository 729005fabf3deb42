// Package execute applies a SyncPlan against a set of drives: copying,
// overwriting, and deleting files, archiving superseded versions first when
// requested, and producing the resulting SyncRecord.
package execute

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/crussella0129/diffr/internal/archive"
	"github.com/crussella0129/diffr/internal/core"
	"github.com/crussella0129/diffr/internal/hashing"
	"github.com/crussella0129/diffr/internal/logging"
)

// Config controls how a plan is applied.
type Config struct {
	// DryRun reports what would happen without touching the filesystem.
	DryRun bool
	// Verify SHA-256s the destination against the source after every copy.
	Verify bool
	// Archive runs the Archiver before any Overwrite or Delete whose target
	// path already exists.
	Archive bool
	Logger  *logging.Logger
}

// ArchiveRecorder receives every ArchiveEntry produced by an archive
// precondition during execution, so callers can persist them.
type ArchiveRecorder func(core.ArchiveEntry) error

// Execute applies plan's operations against drives in order and returns the
// resulting SyncRecord. A bare OpResolveConflict reaching Execute (one that
// was never expanded by the conflict resolver) is logged as a warning and
// counted as an error-free no-op, per the documented contract.
func Execute(plan core.SyncPlan, drives []core.Drive, cfg Config, recordArchive ArchiveRecorder) (core.SyncRecord, error) {
	startedAt := time.Now().UTC()
	driveByID := make(map[uuid.UUID]core.Drive, len(drives))
	for _, d := range drives {
		driveByID[d.ID] = d
	}

	var filesSynced, opsFailed uint64
	var bytesTransferred uint64
	var errs []string

	for _, op := range plan.Ops {
		if cfg.DryRun {
			if cfg.Logger != nil {
				cfg.Logger.Infof("[dry-run] %s %s -> target %s", op.Kind, op.RelPath, op.TargetDriveID)
			}
			filesSynced++
			bytesTransferred += op.SizeBytes
			continue
		}

		if err := executeOp(op, driveByID, cfg, recordArchive); err != nil {
			opsFailed++
			msg := fmt.Sprintf("%s: %s", op.RelPath, err)
			errs = append(errs, msg)
			if cfg.Logger != nil {
				cfg.Logger.Errorf("%s", msg)
			}
			continue
		}
		filesSynced++
		bytesTransferred += op.SizeBytes
	}

	record := core.SyncRecord{
		ID:          uuid.New(),
		ClusterID:   plan.ClusterID,
		StartedAt:   startedAt,
		FinishedAt:  time.Now().UTC(),
		Status:      core.DeriveStatus(int(filesSynced), int(opsFailed)),
		OpsPlanned:  len(plan.Ops),
		OpsApplied:  int(filesSynced),
		OpsFailed:   int(opsFailed),
		BytesCopied: bytesTransferred,
		Errors:      errs,
	}
	return record, nil
}

func executeOp(op core.SyncOp, drives map[uuid.UUID]core.Drive, cfg Config, recordArchive ArchiveRecorder) error {
	target, ok := drives[op.TargetDriveID]
	if !ok {
		return fmt.Errorf("target drive not found: %s", op.TargetDriveID)
	}

	switch op.Kind {
	case core.OpCopyNew, core.OpOverwrite:
		if op.SourceDriveID == nil {
			return fmt.Errorf("no source drive for copy op")
		}
		source, ok := drives[*op.SourceDriveID]
		if !ok {
			return fmt.Errorf("source drive not found: %s", *op.SourceDriveID)
		}

		dstPath := target.Path(op.RelPath)
		if cfg.Archive {
			if _, statErr := os.Stat(dstPath); statErr == nil {
				if err := archiveBeforeDestructive(target, op.RelPath, core.ArchiveReasonBeforeOverwrite, recordArchive); err != nil {
					return err
				}
			}
		}

		srcPath := source.Path(op.RelPath)
		if err := atomicCopy(srcPath, dstPath); err != nil {
			return err
		}
		if cfg.Verify {
			if err := verifyContentsMatch(srcPath, dstPath); err != nil {
				return err
			}
		}

	case core.OpDelete:
		dstPath := target.Path(op.RelPath)
		if _, statErr := os.Stat(dstPath); statErr == nil {
			if cfg.Archive {
				if err := archiveBeforeDestructive(target, op.RelPath, core.ArchiveReasonBeforeDelete, recordArchive); err != nil {
					return err
				}
			}
			if err := os.Remove(dstPath); err != nil {
				return err
			}
		}

	case core.OpResolveConflict:
		if cfg.Logger != nil {
			cfg.Logger.Warnf("unresolved conflict reached executor: %s", op.RelPath)
		}
	}

	return nil
}

func archiveBeforeDestructive(drive core.Drive, relPath string, reason core.ArchiveReason, recordArchive ArchiveRecorder) error {
	entry, err := archive.ArchiveFile(drive, relPath, reason)
	if err != nil {
		return fmt.Errorf("archiving before destructive op: %w", err)
	}
	if recordArchive != nil {
		if err := recordArchive(entry); err != nil {
			return fmt.Errorf("recording archive entry: %w", err)
		}
	}
	return nil
}

// atomicCopy streams src into a temporary file in dst's parent directory,
// then renames it into place so that dst is never visible in a partially
// written state.
func atomicCopy(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("source file does not exist: %s", src)
	}

	dstDir := filepath.Dir(dst)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	temp, err := os.CreateTemp(dstDir, ".diffr-tmp-*")
	if err != nil {
		return err
	}
	tempName := temp.Name()

	if _, err := io.Copy(temp, in); err != nil {
		temp.Close()
		os.Remove(tempName)
		return err
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempName)
		return err
	}

	if err := os.Rename(tempName, dst); err != nil {
		os.Remove(tempName)
		return err
	}
	return nil
}

func verifyContentsMatch(src, dst string) error {
	srcHash, err := hashing.SHA256(src)
	if err != nil {
		return fmt.Errorf("hashing source for verify: %w", err)
	}
	dstHash, err := hashing.SHA256(dst)
	if err != nil {
		return fmt.Errorf("hashing destination for verify: %w", err)
	}
	if srcHash != dstHash {
		return fmt.Errorf("verify mismatch: source %s != destination %s", srcHash, dstHash)
	}
	return nil
}
