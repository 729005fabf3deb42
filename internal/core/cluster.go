package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Topology is the directional rule governing how changes flow between a
// cluster's drives.
type Topology int

const (
	// TopologyMesh treats all drives as equal peers; changes flow in all
	// directions.
	TopologyMesh Topology = iota
	// TopologyPrimaryReplica treats exactly one drive as authoritative;
	// changes flow only from the primary outward.
	TopologyPrimaryReplica
)

// String returns the persisted/display representation of a Topology.
func (t Topology) String() string {
	switch t {
	case TopologyMesh:
		return "mesh"
	case TopologyPrimaryReplica:
		return "primary_replica"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Topology) MarshalText() ([]byte, error) {
	if t.String() == "unknown" {
		return nil, fmt.Errorf("unknown topology: %d", t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Topology) UnmarshalText(text []byte) error {
	switch string(text) {
	case "mesh":
		*t = TopologyMesh
	case "primary_replica", "primary-replica":
		*t = TopologyPrimaryReplica
	default:
		return fmt.Errorf("unknown topology: %s", text)
	}
	return nil
}

// ConflictStrategy is the policy used to resolve a DiffConflict entry, by
// expanding the OpResolveConflict placeholder the planner emits for it.
type ConflictStrategy int

const (
	// ConflictStrategyNewestWins picks the side with the later
	// modification time.
	ConflictStrategyNewestWins ConflictStrategy = iota
	// ConflictStrategyKeepBoth keeps both versions, renaming the losing
	// side.
	ConflictStrategyKeepBoth
	// ConflictStrategyInteractive prompts the user to choose.
	ConflictStrategyInteractive
)

// String returns the persisted/display representation of a ConflictStrategy.
func (s ConflictStrategy) String() string {
	switch s {
	case ConflictStrategyNewestWins:
		return "newest_wins"
	case ConflictStrategyKeepBoth:
		return "keep_both"
	case ConflictStrategyInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s ConflictStrategy) MarshalText() ([]byte, error) {
	if s.String() == "unknown" {
		return nil, fmt.Errorf("unknown conflict strategy: %d", s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ConflictStrategy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "newest_wins", "newest-wins":
		*s = ConflictStrategyNewestWins
	case "keep_both", "keep-both":
		*s = ConflictStrategyKeepBoth
	case "interactive":
		*s = ConflictStrategyInteractive
	default:
		return fmt.Errorf("unknown conflict strategy: %s", text)
	}
	return nil
}

// Cluster groups drives that sync together under a shared topology and
// conflict strategy.
type Cluster struct {
	ID               uuid.UUID
	Name             string
	Topology         Topology
	ConflictStrategy ConflictStrategy
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewCluster constructs a Cluster with a fresh ID and current timestamps.
func NewCluster(name string, topology Topology, strategy ConflictStrategy) Cluster {
	now := time.Now().UTC()
	return Cluster{
		ID:               uuid.New(),
		Name:             name,
		Topology:         topology,
		ConflictStrategy: strategy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
