package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crussella0129/diffr/internal/core"
	"github.com/crussella0129/diffr/internal/diffrerrors"
)

// InsertDrive persists a new drive.
func (s *Store) InsertDrive(d core.Drive) error {
	_, err := s.db.Exec(
		`INSERT INTO drives (id, identity_type, identity_value, label, mount_point, sync_root, cluster_id, role, is_primary, total_bytes, free_bytes, last_seen, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID.String(), d.Identity.TypeString(), d.Identity.Value, nullString(d.Label),
		d.MountPoint, nullString(d.SyncRoot), nullClusterID(d), d.Role.String(), boolToInt(d.IsPrimary),
		nullUint64(d.TotalBytes), nullUint64(d.FreeBytes), formatTime(d.LastSeen), formatTime(d.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting drive: %w", err)
	}
	return nil
}

// GetDriveByIdentity looks up a drive by its (type, value) identity pair —
// the uniqueness key that lets diffr recognize a previously-registered
// drive across mounts.
func (s *Store) GetDriveByIdentity(identity core.DriveIdentity) (core.Drive, error) {
	row := s.db.QueryRow(driveSelectBase+` WHERE identity_type = ? AND identity_value = ?`,
		identity.TypeString(), identity.Value)
	return scanDrive(row)
}

// GetDriveByID looks up a drive by its primary key.
func (s *Store) GetDriveByID(id uuid.UUID) (core.Drive, error) {
	row := s.db.QueryRow(driveSelectBase+` WHERE id = ?`, id.String())
	return scanDrive(row)
}

// ListDrivesForCluster returns every drive belonging to a cluster, ordered
// by creation time.
func (s *Store) ListDrivesForCluster(clusterID uuid.UUID) ([]core.Drive, error) {
	rows, err := s.db.Query(driveSelectBase+` WHERE cluster_id = ? ORDER BY created_at`, clusterID.String())
	if err != nil {
		return nil, fmt.Errorf("listing drives for cluster: %w", err)
	}
	defer rows.Close()
	return scanDrives(rows)
}

// ListAllDrives returns every known drive, ordered by creation time.
func (s *Store) ListAllDrives() ([]core.Drive, error) {
	rows, err := s.db.Query(driveSelectBase + ` ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing drives: %w", err)
	}
	defer rows.Close()
	return scanDrives(rows)
}

// UpdateDriveCluster reassigns a drive's cluster membership (nil clears it).
func (s *Store) UpdateDriveCluster(driveID uuid.UUID, clusterID *uuid.UUID) error {
	var clusterStr any
	if clusterID != nil {
		clusterStr = clusterID.String()
	}
	_, err := s.db.Exec(`UPDATE drives SET cluster_id = ? WHERE id = ?`, clusterStr, driveID.String())
	if err != nil {
		return fmt.Errorf("updating drive cluster: %w", err)
	}
	return nil
}

// UpdateDriveSyncRoot updates a drive's sync root (empty string clears it).
func (s *Store) UpdateDriveSyncRoot(driveID uuid.UUID, syncRoot string) error {
	_, err := s.db.Exec(`UPDATE drives SET sync_root = ? WHERE id = ?`, nullString(syncRoot), driveID.String())
	if err != nil {
		return fmt.Errorf("updating drive sync root: %w", err)
	}
	return nil
}

// SetDrivePrimary flips is_primary for a single drive. Callers are
// responsible for clearing any previous primary within the same cluster
// first, matching the one-primary-per-cluster invariant.
func (s *Store) SetDrivePrimary(driveID uuid.UUID, isPrimary bool) error {
	_, err := s.db.Exec(`UPDATE drives SET is_primary = ? WHERE id = ?`, boolToInt(isPrimary), driveID.String())
	if err != nil {
		return fmt.Errorf("updating drive primary flag: %w", err)
	}
	return nil
}

// TouchDriveLastSeen updates a drive's last_seen timestamp.
func (s *Store) TouchDriveLastSeen(driveID uuid.UUID, lastSeen time.Time) error {
	_, err := s.db.Exec(`UPDATE drives SET last_seen = ? WHERE id = ?`, formatTime(lastSeen), driveID.String())
	if err != nil {
		return fmt.Errorf("updating drive last_seen: %w", err)
	}
	return nil
}

// DeleteDrive removes a drive. Its file index, hash cache, and archive
// entries cascade with it.
func (s *Store) DeleteDrive(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM drives WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting drive: %w", err)
	}
	return nil
}

const driveSelectBase = `SELECT id, identity_type, identity_value, label, mount_point, sync_root, cluster_id, role, is_primary, total_bytes, free_bytes, last_seen, created_at FROM drives`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDrive(row rowScanner) (core.Drive, error) {
	var idStr, idType, idValue, mountPoint, role, lastSeenStr, createdStr string
	var label, syncRoot, clusterID sql.NullString
	var isPrimary int64
	var totalBytes, freeBytes sql.NullInt64

	err := row.Scan(&idStr, &idType, &idValue, &label, &mountPoint, &syncRoot, &clusterID,
		&role, &isPrimary, &totalBytes, &freeBytes, &lastSeenStr, &createdStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Drive{}, diffrerrors.New(diffrerrors.KindNotFound, "drive not found")
		}
		return core.Drive{}, fmt.Errorf("scanning drive: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return core.Drive{}, fmt.Errorf("parsing drive id: %w", err)
	}

	identity := core.DriveIdentity{Value: idValue}
	if idType == "hardware" {
		identity.Kind = core.DriveIdentityHardware
	} else {
		identity.Kind = core.DriveIdentitySynthetic
	}

	var driveRole core.DriveRole
	_ = driveRole.UnmarshalText([]byte(role))

	d := core.Drive{
		ID: id, Identity: identity, Label: label.String, MountPoint: mountPoint,
		SyncRoot: syncRoot.String, Role: driveRole, IsPrimary: isPrimary != 0,
		LastSeen: parseTime(lastSeenStr), CreatedAt: parseTime(createdStr),
	}
	if clusterID.Valid {
		cid, err := uuid.Parse(clusterID.String)
		if err == nil {
			d.ClusterID = cid
			d.HasCluster = true
		}
	}
	if totalBytes.Valid {
		v := uint64(totalBytes.Int64)
		d.TotalBytes = &v
	}
	if freeBytes.Valid {
		v := uint64(freeBytes.Int64)
		d.FreeBytes = &v
	}
	return d, nil
}

func scanDrives(rows *sql.Rows) ([]core.Drive, error) {
	var drives []core.Drive
	for rows.Next() {
		d, err := scanDrive(rows)
		if err != nil {
			return nil, err
		}
		drives = append(drives, d)
	}
	return drives, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullUint64(v *uint64) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func nullClusterID(d core.Drive) any {
	if !d.HasCluster {
		return nil
	}
	return d.ClusterID.String()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
