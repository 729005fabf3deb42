package store

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/crussella0129/diffr/internal/core"
)

// InsertSyncRecord persists a completed sync run. Conflicts are stored only
// as a count (conflicts_resolved), matching the schema's design — detailed
// per-conflict history is not retained.
func (s *Store) InsertSyncRecord(record core.SyncRecord) error {
	errorsJSON, err := json.Marshal(record.Errors)
	if err != nil {
		return fmt.Errorf("marshaling sync record errors: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO sync_history (id, cluster_id, started_at, finished_at, files_synced, bytes_transferred, conflicts_resolved, errors, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID.String(), record.ClusterID.String(), formatTime(record.StartedAt), formatTime(record.FinishedAt),
		int64(record.OpsApplied), int64(record.BytesCopied), int64(len(record.Conflicts)), string(errorsJSON),
		record.Status.String(),
	)
	if err != nil {
		return fmt.Errorf("inserting sync record: %w", err)
	}
	return nil
}

// ListSyncHistory returns a cluster's most recent sync records, newest
// first, capped at limit.
func (s *Store) ListSyncHistory(clusterID uuid.UUID, limit int) ([]core.SyncRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, cluster_id, started_at, finished_at, files_synced, bytes_transferred, conflicts_resolved, errors, status
		 FROM sync_history WHERE cluster_id = ? ORDER BY started_at DESC LIMIT ?`,
		clusterID.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sync history: %w", err)
	}
	defer rows.Close()

	var records []core.SyncRecord
	for rows.Next() {
		var idStr, clusterStr, startedStr, finishedStr, errorsStr, statusStr string
		var filesSynced, bytesTransferred, conflictsResolved int64
		if err := rows.Scan(&idStr, &clusterStr, &startedStr, &finishedStr, &filesSynced, &bytesTransferred, &conflictsResolved, &errorsStr, &statusStr); err != nil {
			return nil, fmt.Errorf("scanning sync record row: %w", err)
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parsing sync record id: %w", err)
		}
		clusterID, err := uuid.Parse(clusterStr)
		if err != nil {
			return nil, fmt.Errorf("parsing cluster id: %w", err)
		}
		var errs []string
		_ = json.Unmarshal([]byte(errorsStr), &errs)

		var status core.SyncStatus
		switch statusStr {
		case "success":
			status = core.StatusSuccess
		case "partial_success":
			status = core.StatusPartialSuccess
		default:
			status = core.StatusFailed
		}

		records = append(records, core.SyncRecord{
			ID: id, ClusterID: clusterID, StartedAt: parseTime(startedStr), FinishedAt: parseTime(finishedStr),
			Status: status, OpsApplied: int(filesSynced), BytesCopied: uint64(bytesTransferred), Errors: errs,
		})
		_ = conflictsResolved // persisted only as a count; not reconstructed into ConflictResolution detail
	}
	return records, rows.Err()
}
