package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/crussella0129/diffr/internal/cache"
	"github.com/crussella0129/diffr/internal/config"
	"github.com/crussella0129/diffr/internal/conflict"
	"github.com/crussella0129/diffr/internal/core"
	"github.com/crussella0129/diffr/internal/diff"
	"github.com/crussella0129/diffr/internal/execute"
	"github.com/crussella0129/diffr/internal/logging"
	"github.com/crussella0129/diffr/internal/plan"
)

var syncConfiguration struct {
	dryRun    bool
	verify    bool
	noArchive bool
}

// syncable reports whether a drive participates in active sync traffic
// (every role except ArchiveOnly).
func syncable(d core.Drive) bool {
	return d.Role != core.DriveRoleArchiveOnly
}

func syncMain(command *cobra.Command, arguments []string) error {
	name := arguments[0]

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	cluster, err := s.GetClusterByName(name)
	if err != nil {
		return fmt.Errorf("cluster %q not found", name)
	}

	allDrives, err := s.ListDrivesForCluster(cluster.ID)
	if err != nil {
		return err
	}
	if len(allDrives) < 2 {
		return fmt.Errorf("cluster %q has fewer than two drives", name)
	}

	var drives []core.Drive
	for _, d := range allDrives {
		if syncable(d) {
			drives = append(drives, d)
		}
	}
	if len(drives) < 2 {
		return fmt.Errorf("cluster %q has fewer than two syncable drives (archive-only drives do not count)", name)
	}

	logger := logging.RootLogger.Sublogger("sync")

	userConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	requireSHA256 := userConfig.HashByDefault || syncConfiguration.verify
	hashCache := cache.New(s)

	scans := make(map[string][]core.FileEntry, len(drives))
	for _, d := range drives {
		entries, err := scanAndHash(s, hashCache, d, requireSHA256, logger)
		if err != nil {
			return err
		}
		scans[d.ID.String()] = entries
	}

	var pairs []plan.DrivePair
	for i := 0; i < len(drives); i++ {
		for j := i + 1; j < len(drives); j++ {
			left, right := drives[i], drives[j]
			entries := diff.Compute(scans[left.ID.String()], scans[right.ID.String()])
			pairs = append(pairs, plan.DrivePair{Left: left, Right: right, Entries: entries})
		}
	}

	syncPlan := plan.Generate(cluster, allDrives, pairs)

	resolvedPlan, conflicts, err := resolveConflicts(syncPlan, pairs, cluster.ConflictStrategy)
	if err != nil {
		return err
	}

	if len(resolvedPlan.Ops) == 0 {
		if jsonOutput {
			fmt.Println("{\"status\": \"up_to_date\"}")
		} else {
			fmt.Printf("Cluster '%s' is up to date.\n", name)
		}
		return nil
	}

	execCfg := execute.Config{
		DryRun:  syncConfiguration.dryRun,
		Verify:  syncConfiguration.verify || userConfig.VerifyAfterSync,
		Archive: !syncConfiguration.noArchive,
		Logger:  logger,
	}

	recordArchive := func(entry core.ArchiveEntry) error {
		return s.InsertArchive(entry)
	}

	record, err := execute.Execute(resolvedPlan, allDrives, execCfg, recordArchive)
	if err != nil {
		return err
	}
	record.Conflicts = conflicts

	if !syncConfiguration.dryRun {
		if err := s.InsertSyncRecord(record); err != nil {
			return fmt.Errorf("recording sync history: %w", err)
		}
	}

	if jsonOutput {
		fmt.Printf("{\"status\": %q, \"ops_applied\": %d, \"ops_failed\": %d, \"bytes_copied\": %d}\n",
			record.Status, record.OpsApplied, record.OpsFailed, record.BytesCopied)
	} else {
		fmt.Printf("Sync %s: %d applied, %d failed, %s transferred\n",
			record.Status, record.OpsApplied, record.OpsFailed, formatBytes(record.BytesCopied))
		for _, e := range record.Errors {
			fmt.Printf("  Error: %s\n", e)
		}
	}
	return nil
}

// resolveConflicts expands every OpResolveConflict placeholder in syncPlan
// using the cluster's conflict strategy, returning the rewritten plan and
// the resolutions produced along the way. pairs is consulted to recover the
// originating DiffEntry and drive pair for each placeholder.
func resolveConflicts(syncPlan core.SyncPlan, pairs []plan.DrivePair, strategy core.ConflictStrategy) (core.SyncPlan, []core.ConflictResolution, error) {
	var conflicts []core.ConflictResolution
	hasPlaceholder := false
	for _, op := range syncPlan.Ops {
		if op.Kind == core.OpResolveConflict {
			hasPlaceholder = true
			break
		}
	}
	if !hasPlaceholder {
		return syncPlan, conflicts, nil
	}

	var rewritten []core.SyncOp
	for _, op := range syncPlan.Ops {
		if op.Kind != core.OpResolveConflict {
			rewritten = append(rewritten, op)
			continue
		}

		pair, entry, found := findConflictEntry(pairs, op.RelPath, op.TargetDriveID)
		if !found {
			rewritten = append(rewritten, op)
			continue
		}

		ops, resolution, err := conflict.Resolve(strategy, entry, pair.Left, pair.Right, nil)
		if err != nil {
			return core.SyncPlan{}, nil, fmt.Errorf("resolving conflict at %s: %w", op.RelPath, err)
		}
		rewritten = append(rewritten, ops...)
		conflicts = append(conflicts, resolution)
	}

	syncPlan.Ops = rewritten
	return syncPlan, conflicts, nil
}

func findConflictEntry(pairs []plan.DrivePair, relPath string, targetDriveID uuid.UUID) (plan.DrivePair, core.DiffEntry, bool) {
	for _, pair := range pairs {
		if pair.Right.ID != targetDriveID {
			continue
		}
		for _, entry := range pair.Entries {
			if entry.Kind == core.DiffConflict && entry.RelPath == relPath {
				return pair, entry, true
			}
		}
	}
	return plan.DrivePair{}, core.DiffEntry{}, false
}

var syncCommand = &cobra.Command{
	Use:   "sync <cluster>",
	Short: "Sync a cluster",
	Args:  cobra.ExactArgs(1),
	RunE:  syncMain,
}

func init() {
	flags := syncCommand.Flags()
	flags.BoolVar(&syncConfiguration.dryRun, "dry-run", false, "Report what would happen without touching the filesystem")
	flags.BoolVar(&syncConfiguration.verify, "verify", false, "SHA-256 verify every copy's destination against its source")
	flags.BoolVar(&syncConfiguration.noArchive, "no-archive", false, "Skip archiving superseded versions before overwrite/delete")
}
