package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/crussella0129/diffr/internal/core"
)

// RetentionStore is the persistence surface retention enforcement needs.
type RetentionStore interface {
	ListArchivesForDrive(driveID uuid.UUID) ([]core.ArchiveEntry, error)
	DeleteArchiveEntry(id uuid.UUID) error
}

// RetentionResult summarizes one enforcement pass.
type RetentionResult struct {
	EntriesPruned int
	BytesFreed    uint64
	Errors        []string
}

// EnforceRetention prunes archive entries for a drive according to policy:
// per-path version and age limits, then a global byte-budget sweep if
// policy.MaxTotalBytes is set. The algorithm is idempotent — a second pass
// with no new archives and an unchanged policy prunes nothing.
func EnforceRetention(store RetentionStore, driveID uuid.UUID, driveRoot string, policy core.RetentionPolicy) (RetentionResult, error) {
	entries, err := store.ListArchivesForDrive(driveID)
	if err != nil {
		return RetentionResult{}, fmt.Errorf("listing archives: %w", err)
	}

	byPath := make(map[string][]core.ArchiveEntry)
	for _, e := range entries {
		byPath[e.OriginalPath] = append(byPath[e.OriginalPath], e)
	}
	for path := range byPath {
		group := byPath[path]
		sort.Slice(group, func(i, j int) bool { return group[i].ArchivedAt.After(group[j].ArchivedAt) })
		byPath[path] = group
	}

	now := time.Now().UTC()
	toDelete := make(map[uuid.UUID]core.ArchiveEntry)

	for _, group := range byPath {
		for i, entry := range group {
			prune := false
			if policy.MaxVersions != nil && i >= *policy.MaxVersions {
				prune = true
			}
			if policy.MaxAgeDays != nil {
				ageDays := int(now.Sub(entry.ArchivedAt).Hours() / 24)
				if ageDays > *policy.MaxAgeDays {
					prune = true
				}
			}
			if prune {
				toDelete[entry.ID] = entry
			}
		}
	}

	if policy.MaxTotalBytes != nil {
		var currentTotal uint64
		for _, e := range entries {
			currentTotal += e.CompressedSize
		}
		if currentTotal > *policy.MaxTotalBytes {
			excess := currentTotal - *policy.MaxTotalBytes
			all := make([]core.ArchiveEntry, len(entries))
			copy(all, entries)
			sort.Slice(all, func(i, j int) bool { return all[i].ArchivedAt.Before(all[j].ArchivedAt) })

			var freed uint64
			for _, entry := range all {
				if freed >= excess {
					break
				}
				if _, already := toDelete[entry.ID]; already {
					continue
				}
				freed += entry.CompressedSize
				toDelete[entry.ID] = entry
			}
		}
	}

	var result RetentionResult
	for _, entry := range toDelete {
		fullPath := filepath.Join(driveRoot, entry.ArchivePath)
		if _, statErr := os.Stat(fullPath); statErr == nil {
			if rmErr := os.Remove(fullPath); rmErr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("failed to delete %s: %s", fullPath, rmErr))
				continue
			}
			result.BytesFreed += entry.CompressedSize
		}
		if err := store.DeleteArchiveEntry(entry.ID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to delete archive record %s: %s", entry.ID, err))
			continue
		}
		result.EntriesPruned++
	}

	return result, nil
}
