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

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Now().UTC()
	}
	return t.UTC()
}

// InsertCluster persists a new cluster.
func (s *Store) InsertCluster(cluster core.Cluster) error {
	_, err := s.db.Exec(
		`INSERT INTO clusters (id, name, topology, conflict_strategy, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		cluster.ID.String(), cluster.Name, cluster.Topology.String(), cluster.ConflictStrategy.String(),
		formatTime(cluster.CreatedAt), formatTime(cluster.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting cluster: %w", err)
	}
	return nil
}

// GetClusterByName looks up a cluster by its unique name.
func (s *Store) GetClusterByName(name string) (core.Cluster, error) {
	row := s.db.QueryRow(
		`SELECT id, name, topology, conflict_strategy, created_at, updated_at
		 FROM clusters WHERE name = ?`, name,
	)
	return scanCluster(row)
}

// GetClusterByID looks up a cluster by ID.
func (s *Store) GetClusterByID(id uuid.UUID) (core.Cluster, error) {
	row := s.db.QueryRow(
		`SELECT id, name, topology, conflict_strategy, created_at, updated_at
		 FROM clusters WHERE id = ?`, id.String(),
	)
	return scanCluster(row)
}

func scanCluster(row *sql.Row) (core.Cluster, error) {
	var idStr, name, topoStr, csStr, createdStr, updatedStr string
	if err := row.Scan(&idStr, &name, &topoStr, &csStr, &createdStr, &updatedStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Cluster{}, diffrerrors.New(diffrerrors.KindNotFound, "cluster not found")
		}
		return core.Cluster{}, fmt.Errorf("scanning cluster: %w", err)
	}

	var topo core.Topology
	_ = topo.UnmarshalText([]byte(topoStr))
	var strategy core.ConflictStrategy
	_ = strategy.UnmarshalText([]byte(csStr))

	id, err := uuid.Parse(idStr)
	if err != nil {
		return core.Cluster{}, fmt.Errorf("parsing cluster id: %w", err)
	}

	return core.Cluster{
		ID:               id,
		Name:             name,
		Topology:         topo,
		ConflictStrategy: strategy,
		CreatedAt:        parseTime(createdStr),
		UpdatedAt:        parseTime(updatedStr),
	}, nil
}

// ListClusters returns every cluster, ordered by name.
func (s *Store) ListClusters() ([]core.Cluster, error) {
	rows, err := s.db.Query(
		`SELECT id, name, topology, conflict_strategy, created_at, updated_at
		 FROM clusters ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing clusters: %w", err)
	}
	defer rows.Close()

	var clusters []core.Cluster
	for rows.Next() {
		var idStr, name, topoStr, csStr, createdStr, updatedStr string
		if err := rows.Scan(&idStr, &name, &topoStr, &csStr, &createdStr, &updatedStr); err != nil {
			return nil, fmt.Errorf("scanning cluster row: %w", err)
		}
		var topo core.Topology
		_ = topo.UnmarshalText([]byte(topoStr))
		var strategy core.ConflictStrategy
		_ = strategy.UnmarshalText([]byte(csStr))
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parsing cluster id: %w", err)
		}
		clusters = append(clusters, core.Cluster{
			ID: id, Name: name, Topology: topo, ConflictStrategy: strategy,
			CreatedAt: parseTime(createdStr), UpdatedAt: parseTime(updatedStr),
		})
	}
	return clusters, rows.Err()
}

// DeleteCluster removes a cluster by ID. Member drives have their
// cluster_id cleared rather than being deleted (ON DELETE SET NULL).
func (s *Store) DeleteCluster(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM clusters WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting cluster: %w", err)
	}
	return nil
}
