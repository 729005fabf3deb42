// Package store implements the relational persistence layer backing diffr's
// clusters, drives, file index, hash cache, sync history, and archives: a
// SQLite database reachable through a narrow, typed operations surface
// rather than raw SQL at the call sites.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go driver, registers as "sqlite"

	"github.com/crussella0129/diffr/internal/logging"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite connection holding diffr's full relational schema.
type Store struct {
	db     *sql.DB
	logger *logging.Logger
}

// Open opens (creating if necessary) the database at path and applies any
// pending migrations. Use ":memory:" for an ephemeral, test-only database.
func Open(path string, logger *logging.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// modernc.org/sqlite has no real concept of connection pooling for a
	// single file; for ":memory:" databases a second connection would see
	// an entirely separate, empty database, so pin the pool to one.
	db.SetMaxOpenConns(1)

	if err := setPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db, logger); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func setPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB, logger *logging.Logger) error {
	subFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("preparing migration filesystem: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, subFS)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}

	results, err := provider.Up(context.Background())
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	for _, r := range results {
		logger.Debugf("applied migration %s in %s", r.Source.Path, r.Duration)
	}
	return nil
}
