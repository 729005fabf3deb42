// Package conflict expands a ResolveConflict placeholder op into the
// concrete SyncOps dictated by a cluster's conflict strategy.
package conflict

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crussella0129/diffr/internal/core"
	"github.com/crussella0129/diffr/internal/diffrerrors"
)

// Prompter supplies the stdin/stdout collaborator interactive mode needs.
// The CLI wires this to a real terminal; tests supply an in-memory fake.
type Prompter struct {
	In  io.Reader
	Out io.Writer
}

// Resolve expands entry (which must be core.DiffConflict) into the SyncOps
// and audit record dictated by strategy.
func Resolve(strategy core.ConflictStrategy, entry core.DiffEntry, left, right core.Drive, prompter *Prompter) ([]core.SyncOp, core.ConflictResolution, error) {
	switch strategy {
	case core.ConflictStrategyNewestWins:
		return resolveNewestWins(entry, left, right)
	case core.ConflictStrategyKeepBoth:
		return resolveKeepBoth(entry, left, right)
	case core.ConflictStrategyInteractive:
		return resolveInteractive(entry, left, right, prompter)
	default:
		return nil, core.ConflictResolution{}, fmt.Errorf("unknown conflict strategy: %v", strategy)
	}
}

func resolveNewestWins(entry core.DiffEntry, left, right core.Drive) ([]core.SyncOp, core.ConflictResolution, error) {
	winner, loser := pickNewer(entry, left, right)
	return newestWinsOutcome(entry, winner, loser, core.ConflictStrategyNewestWins)
}

// pickNewer picks the side with the later mtime; ties go to left.
func pickNewer(entry core.DiffEntry, left, right core.Drive) (winner, loser core.Drive) {
	var leftTime, rightTime time.Time
	if entry.Left != nil {
		leftTime = entry.Left.ModTime
	}
	if entry.Right != nil {
		rightTime = entry.Right.ModTime
	}
	if entry.Left != nil && (entry.Right == nil || !leftTime.Before(rightTime)) {
		return left, right
	}
	return right, left
}

func newestWinsOutcome(entry core.DiffEntry, winner, loser core.Drive, strategy core.ConflictStrategy) ([]core.SyncOp, core.ConflictResolution, error) {
	source := winner.ID
	op := core.SyncOp{
		ID:            uuid.New(),
		Kind:          core.OpOverwrite,
		RelPath:       entry.RelPath,
		SourceDriveID: &source,
		TargetDriveID: loser.ID,
		SizeBytes:     winnerSize(entry, winner),
	}
	resolution := core.ConflictResolution{
		RelPath:       entry.RelPath,
		WinnerDriveID: winner.ID,
		LoserDriveID:  loser.ID,
		StrategyUsed:  strategy,
		ResolvedAt:    time.Now().UTC(),
	}
	return []core.SyncOp{op}, resolution, nil
}

func winnerSize(entry core.DiffEntry, winner core.Drive) uint64 {
	if entry.Left != nil && entry.Left.DriveID == winner.ID {
		return entry.Left.Size
	}
	if entry.Right != nil {
		return entry.Right.Size
	}
	if entry.Left != nil {
		return entry.Left.Size
	}
	return 0
}

// generateConflictName renames file.txt to file.conflict-<label>.txt, using
// the losing drive's label (or "unknown" when it has none).
func generateConflictName(relPath string, loser core.Drive) string {
	dir := filepath.ToSlash(filepath.Dir(relPath))
	base := filepath.Base(relPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	name := fmt.Sprintf("%s.conflict-%s%s", stem, loser.LabelOrIdentity(), ext)
	if dir == "." || dir == "" {
		return name
	}
	return dir + "/" + name
}

func resolveKeepBoth(entry core.DiffEntry, left, right core.Drive) ([]core.SyncOp, core.ConflictResolution, error) {
	conflictName := generateConflictName(entry.RelPath, right)

	leftSource, rightSource := left.ID, right.ID
	ops := []core.SyncOp{
		{
			ID:            uuid.New(),
			Kind:          core.OpOverwrite,
			RelPath:       entry.RelPath,
			SourceDriveID: &leftSource,
			TargetDriveID: right.ID,
			SizeBytes:     entrySizeFor(entry, left.ID),
		},
		{
			ID:            uuid.New(),
			Kind:          core.OpCopyNew,
			RelPath:       conflictName,
			SourceDriveID: &rightSource,
			TargetDriveID: left.ID,
			SizeBytes:     entrySizeFor(entry, right.ID),
		},
		{
			ID:            uuid.New(),
			Kind:          core.OpCopyNew,
			RelPath:       conflictName,
			SourceDriveID: &rightSource,
			TargetDriveID: right.ID,
			SizeBytes:     entrySizeFor(entry, right.ID),
		},
	}

	resolution := core.ConflictResolution{
		RelPath:       entry.RelPath,
		WinnerDriveID: left.ID,
		LoserDriveID:  right.ID,
		StrategyUsed:  core.ConflictStrategyKeepBoth,
		ResolvedAt:    time.Now().UTC(),
	}
	return ops, resolution, nil
}

func entrySizeFor(entry core.DiffEntry, driveID uuid.UUID) uint64 {
	if entry.Left != nil && entry.Left.DriveID == driveID {
		return entry.Left.Size
	}
	if entry.Right != nil && entry.Right.DriveID == driveID {
		return entry.Right.Size
	}
	return 0
}

// resolveInteractive prompts prompter with both sides' metadata and accepts
// L/R/B (case-insensitive, full words also accepted); any other input
// defaults to keep-both. A nil prompter means no TTY collaborator is
// available, which is a PolicyConflict per diffr's non-interactive (JSON)
// mode contract.
func resolveInteractive(entry core.DiffEntry, left, right core.Drive, prompter *Prompter) ([]core.SyncOp, core.ConflictResolution, error) {
	if prompter == nil {
		return nil, core.ConflictResolution{}, diffrerrors.New(diffrerrors.KindPolicyConflict, "interactive conflict resolution requires a TTY; refusing under non-interactive mode")
	}

	fmt.Fprintf(prompter.Out, "\nConflict: %s\n", entry.RelPath)
	if entry.Left != nil {
		fmt.Fprintf(prompter.Out, "  [L] %s — size: %d, modified: %s\n", left.MountPoint, entry.Left.Size, entry.Left.ModTime)
	}
	if entry.Right != nil {
		fmt.Fprintf(prompter.Out, "  [R] %s — size: %d, modified: %s\n", right.MountPoint, entry.Right.Size, entry.Right.ModTime)
	}
	fmt.Fprint(prompter.Out, "Choose [L]eft, [R]ight, or [B]oth: ")

	reader := bufio.NewReader(prompter.In)
	line, _ := reader.ReadString('\n')
	choice := strings.ToLower(strings.TrimSpace(line))

	switch choice {
	case "l", "left":
		return newestWinsOutcome(entry, left, right, core.ConflictStrategyInteractive)
	case "r", "right":
		return newestWinsOutcome(entry, right, left, core.ConflictStrategyInteractive)
	case "b", "both":
		return resolveKeepBothInteractive(entry, left, right)
	default:
		fmt.Fprintln(prompter.Out, "Invalid choice, defaulting to keep-both")
		return resolveKeepBothInteractive(entry, left, right)
	}
}

func resolveKeepBothInteractive(entry core.DiffEntry, left, right core.Drive) ([]core.SyncOp, core.ConflictResolution, error) {
	ops, resolution, err := resolveKeepBoth(entry, left, right)
	resolution.StrategyUsed = core.ConflictStrategyInteractive
	return ops, resolution, err
}
