package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/crussella0129/diffr/internal/cache"
	"github.com/crussella0129/diffr/internal/config"
	"github.com/crussella0129/diffr/internal/core"
	"github.com/crussella0129/diffr/internal/logging"
	"github.com/crussella0129/diffr/internal/scan"
	"github.com/crussella0129/diffr/internal/store"
)

// jsonOutput is bound to the root command's --json flag and consulted by
// every subcommand to pick between human-readable and machine-readable
// output.
var jsonOutput bool

// verboseOutput is bound to the root command's --verbose flag.
var verboseOutput bool

// openStore opens the store at the configured database path, creating
// ~/.diffr and applying migrations if this is the first run.
func openStore() (*store.Store, error) {
	if verboseOutput {
		logging.DebugEnabled = true
	}
	if _, err := config.Init(); err != nil {
		return nil, fmt.Errorf("initializing diffr home: %w", err)
	}
	dbPath, err := config.DBPath()
	if err != nil {
		return nil, err
	}
	s, err := store.Open(dbPath, logging.RootLogger.Sublogger("store"))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return s, nil
}

// resolveExistingPath canonicalizes a path argument, returning a descriptive
// error if it does not exist.
func resolveExistingPath(raw string) (string, error) {
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("path does not exist: %s", raw)
	}
	return real, nil
}

// parseTopology parses a CLI topology flag value.
func parseTopology(raw string) (core.Topology, error) {
	var t core.Topology
	if err := t.UnmarshalText([]byte(raw)); err != nil {
		return 0, err
	}
	return t, nil
}

// parseConflictStrategy parses a CLI conflict-strategy flag value.
func parseConflictStrategy(raw string) (core.ConflictStrategy, error) {
	var s core.ConflictStrategy
	if err := s.UnmarshalText([]byte(raw)); err != nil {
		return 0, err
	}
	return s, nil
}

// parseDriveRole parses a CLI drive-role flag value.
func parseDriveRole(raw string) (core.DriveRole, error) {
	var r core.DriveRole
	if err := r.UnmarshalText([]byte(raw)); err != nil {
		return 0, err
	}
	return r, nil
}

// formatBytes renders a byte count the way `diffr drive scan` displays
// capacity figures and `diffr sync` reports bytes transferred.
func formatBytes(n uint64) string {
	return humanize.Bytes(n)
}

// formatBytesPtr renders an optional byte figure, or "-" if unknown.
func formatBytesPtr(n *uint64) string {
	if n == nil {
		return "-"
	}
	return formatBytes(*n)
}

// scanAndHash walks d's effective root, resolves each file's content hash
// through c (skipping the rehash when the hash cache already has a valid
// entry for that path's current size and mtime), and refreshes the drive's
// persisted file index with the result. It is the single scan+hash path
// shared by `sync` and `status`, so both commands classify files against
// real content hashes rather than (size, mtime) alone whenever the cache
// already knows better.
func scanAndHash(s *store.Store, c *cache.Cache, d core.Drive, requireSHA256 bool, logger *logging.Logger) ([]core.FileEntry, error) {
	root := d.EffectiveRoot()
	result, err := scan.Scan(scan.Config{Root: root, DriveID: d.ID, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", d.Identity, err)
	}

	if err := s.ClearFileIndexForDrive(d.ID); err != nil {
		return nil, fmt.Errorf("clearing file index for %s: %w", d.Identity, err)
	}

	entries := result.Entries
	for i := range entries {
		if entries[i].IsDir {
			continue
		}
		hashed, err := c.GetOrHashFile(entries[i], d.Path(entries[i].RelPath), requireSHA256)
		if err != nil {
			return nil, fmt.Errorf("hashing %s on %s: %w", entries[i].RelPath, d.Identity, err)
		}
		entries[i].XXH3 = hashed.XXH3
		entries[i].SHA256 = hashed.SHA256
	}

	for _, e := range entries {
		if err := s.UpsertFileEntry(e); err != nil {
			return nil, fmt.Errorf("indexing %s on %s: %w", e.RelPath, d.Identity, err)
		}
	}

	return entries, nil
}
