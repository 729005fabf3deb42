package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crussella0129/diffr/internal/cache"
	"github.com/crussella0129/diffr/internal/config"
	"github.com/crussella0129/diffr/internal/core"
	"github.com/crussella0129/diffr/internal/diff"
	"github.com/crussella0129/diffr/internal/logging"
	"github.com/crussella0129/diffr/internal/store"
)

func statusMain(command *cobra.Command, arguments []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var clusters []core.Cluster
	if len(arguments) > 0 {
		c, err := s.GetClusterByName(arguments[0])
		if err != nil {
			return fmt.Errorf("cluster %q not found", arguments[0])
		}
		clusters = []core.Cluster{c}
	} else {
		clusters, err = s.ListClusters()
		if err != nil {
			return err
		}
	}

	if len(clusters) == 0 && !jsonOutput {
		fmt.Println("No clusters found. Create one with: diffr cluster create <name>")
		return nil
	}

	userConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	hashCache := cache.New(s)
	logger := logging.RootLogger.Sublogger("status")

	for _, cluster := range clusters {
		drives, err := s.ListDrivesForCluster(cluster.ID)
		if err != nil {
			return err
		}
		history, err := s.ListSyncHistory(cluster.ID, 1)
		if err != nil {
			return err
		}
		var lastSync *core.SyncRecord
		if len(history) > 0 {
			lastSync = &history[0]
		}

		summary, summaryErr := pendingChanges(s, hashCache, drives, userConfig.HashByDefault, logger)
		if summaryErr != nil {
			logger.Warnf("computing change summary for %s: %v", cluster.Name, summaryErr)
		}

		if jsonOutput {
			lastSyncJSON := "null"
			if lastSync != nil {
				lastSyncJSON = fmt.Sprintf("%q", lastSync.FinishedAt)
			}
			fmt.Printf("{\"cluster\": %q, \"drives\": %d, \"last_sync\": %s, \"pending_changes\": %d}\n",
				cluster.Name, len(drives), lastSyncJSON, summary.TotalChanges())
			continue
		}

		fmt.Printf("Cluster: %s\n", cluster.Name)
		fmt.Printf("  Topology: %s\n", cluster.Topology)
		fmt.Printf("  Conflict: %s\n", cluster.ConflictStrategy)
		fmt.Printf("  Drives:   %d\n", len(drives))
		for _, d := range drives {
			root := d.EffectiveRoot()
			connected := "-"
			if _, err := os.Stat(root); err == nil {
				connected = "+"
			}
			primary := ""
			if d.IsPrimary {
				primary = " [PRIMARY]"
			}
			syncInfo := ""
			if d.SyncRoot != "" {
				syncInfo = " -> " + root
			}
			fmt.Printf("    %s %s (%s)%s %s%s\n", connected, d.Identity, d.Role, primary, d.MountPoint, syncInfo)
		}
		if lastSync != nil {
			fmt.Printf("  Last sync: %s (%s)\n", lastSync.FinishedAt, lastSync.Status)
			fmt.Printf("    %d files, %d bytes transferred\n", lastSync.OpsApplied, lastSync.BytesCopied)
		} else {
			fmt.Println("  Last sync: never")
		}
		if summary.TotalChanges() == 0 {
			fmt.Println("  Pending changes: none")
		} else {
			fmt.Printf("  Pending changes: %d (%d new, %d modified, %d conflicting)\n",
				summary.TotalChanges(), summary.OnlyLeft+summary.OnlyRight, summary.Modified, summary.Conflicts)
		}
		fmt.Println()
	}
	return nil
}

// pendingChanges runs a read-only scan and diff across every connected,
// syncable drive in the cluster and tallies the result, without planning or
// executing a sync. Disconnected drives are skipped rather than erroring,
// since status is meant to reflect whatever subset of a cluster happens to
// be mounted right now.
func pendingChanges(s *store.Store, hashCache *cache.Cache, drives []core.Drive, requireSHA256 bool, logger *logging.Logger) (diff.Summary, error) {
	var connected []core.Drive
	for _, d := range drives {
		if !syncable(d) {
			continue
		}
		if _, err := os.Stat(d.EffectiveRoot()); err != nil {
			continue
		}
		connected = append(connected, d)
	}
	if len(connected) < 2 {
		return diff.Summary{}, nil
	}

	scans := make(map[string][]core.FileEntry, len(connected))
	for _, d := range connected {
		entries, err := scanAndHash(s, hashCache, d, requireSHA256, logger)
		if err != nil {
			return diff.Summary{}, err
		}
		scans[d.ID.String()] = entries
	}

	var total diff.Summary
	for i := 0; i < len(connected); i++ {
		for j := i + 1; j < len(connected); j++ {
			left, right := connected[i], connected[j]
			pairSummary := diff.Summarize(diff.Compute(scans[left.ID.String()], scans[right.ID.String()]))
			total.OnlyLeft += pairSummary.OnlyLeft
			total.OnlyRight += pairSummary.OnlyRight
			total.Modified += pairSummary.Modified
			total.Conflicts += pairSummary.Conflicts
			total.Identical += pairSummary.Identical
		}
	}
	return total, nil
}

var statusCommand = &cobra.Command{
	Use:   "status [cluster]",
	Short: "Show cluster status",
	Args:  cobra.MaximumNArgs(1),
	RunE:  statusMain,
}
