package core

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// DriveRole classifies how a drive participates in a cluster's sync and
// archival traffic. It is a closed set matched exhaustively by callers.
type DriveRole int

const (
	// DriveRoleNormal drives sync files and may also hold archives.
	DriveRoleNormal DriveRole = iota
	// DriveRoleArchiveAssist drives additionally store extra archive
	// copies beyond their own superseded versions.
	DriveRoleArchiveAssist
	// DriveRoleArchiveOnly drives do not participate in active sync; they
	// only hold archives.
	DriveRoleArchiveOnly
)

// String returns the persisted/display representation of a DriveRole.
func (r DriveRole) String() string {
	switch r {
	case DriveRoleNormal:
		return "normal"
	case DriveRoleArchiveAssist:
		return "archive_assist"
	case DriveRoleArchiveOnly:
		return "archive_only"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r DriveRole) MarshalText() ([]byte, error) {
	if r.String() == "unknown" {
		return nil, fmt.Errorf("unknown drive role: %d", r)
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *DriveRole) UnmarshalText(text []byte) error {
	switch string(text) {
	case "normal":
		*r = DriveRoleNormal
	case "archive_assist", "archive-assist":
		*r = DriveRoleArchiveAssist
	case "archive_only", "archive-only":
		*r = DriveRoleArchiveOnly
	default:
		return fmt.Errorf("unknown drive role: %s", text)
	}
	return nil
}

// DriveIdentityKind distinguishes how a Drive's Identity was established.
type DriveIdentityKind int

const (
	// DriveIdentityHardware identities come from a hardware serial number
	// reported by the discovery backend.
	DriveIdentityHardware DriveIdentityKind = iota
	// DriveIdentitySynthetic identities are a UUID persisted inside
	// .diffr/drive_identity.toml on the drive itself, used when no stable
	// hardware serial is available.
	DriveIdentitySynthetic
)

// DriveIdentity is a tagged identity value: either a hardware serial number
// or a synthetic UUID written to the drive. Identity is immutable once
// chosen for a Drive.
type DriveIdentity struct {
	Kind  DriveIdentityKind
	Value string
}

// NewHardwareIdentity constructs a hardware-backed identity.
func NewHardwareIdentity(serial string) DriveIdentity {
	return DriveIdentity{Kind: DriveIdentityHardware, Value: serial}
}

// NewSyntheticIdentity constructs a synthetic identity with a freshly
// generated UUID.
func NewSyntheticIdentity() DriveIdentity {
	return DriveIdentity{Kind: DriveIdentitySynthetic, Value: uuid.NewString()}
}

// TypeString returns the persisted discriminator for the identity kind.
func (d DriveIdentity) TypeString() string {
	switch d.Kind {
	case DriveIdentityHardware:
		return "hardware"
	case DriveIdentitySynthetic:
		return "synthetic"
	default:
		return "unknown"
	}
}

// String renders the identity for display and for uniqueness checks
// ("<type>:<value>").
func (d DriveIdentity) String() string {
	return fmt.Sprintf("%s:%s", d.TypeString(), d.Value)
}

// Drive is a storage volume known to diffr: a stable identity, the mount
// point observed at runtime, an optional sync root, cluster membership, a
// role, and descriptive metadata.
//
// Identity is immutable once chosen. EffectiveRoot is what every scan, copy,
// and archive operation is relative to.
type Drive struct {
	ID         uuid.UUID
	Identity   DriveIdentity
	Label      string // empty if unset
	MountPoint string
	SyncRoot   string // empty if unset; use EffectiveRoot()
	ClusterID  uuid.UUID
	HasCluster bool
	Role       DriveRole
	IsPrimary  bool
	TotalBytes *uint64
	FreeBytes  *uint64
	LastSeen   time.Time
	CreatedAt  time.Time
}

// NewDrive constructs a Drive with a fresh ID, defaulting to DriveRoleNormal
// and no cluster membership.
func NewDrive(identity DriveIdentity, mountPoint string) Drive {
	now := time.Now().UTC()
	return Drive{
		ID:         uuid.New(),
		Identity:   identity,
		MountPoint: mountPoint,
		Role:       DriveRoleNormal,
		LastSeen:   now,
		CreatedAt:  now,
	}
}

// EffectiveRoot returns the directory that scan, diff, and archive
// operations are relative to: SyncRoot if set, otherwise MountPoint.
func (d Drive) EffectiveRoot() string {
	if d.SyncRoot != "" {
		return d.SyncRoot
	}
	return d.MountPoint
}

// Path resolves a rel_path against the drive's effective root.
func (d Drive) Path(relPath string) string {
	return filepath.Join(d.EffectiveRoot(), filepath.FromSlash(relPath))
}

// LabelOrIdentity returns the drive's label if set, or "unknown" otherwise,
// for use in conflict-name generation and diagnostics.
func (d Drive) LabelOrIdentity() string {
	if d.Label != "" {
		return d.Label
	}
	return "unknown"
}
