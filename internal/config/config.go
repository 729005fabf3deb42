// Package config loads and saves diffr's top-level user configuration,
// stored at ~/.diffr/config.toml: default topology and conflict strategy for
// new clusters, default retention policy, and hashing/verification defaults.
package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/crussella0129/diffr/internal/core"
	"github.com/crussella0129/diffr/internal/diffrerrors"
)

const (
	homeDirName   = ".diffr"
	configFileName = "config.toml"
	dbFileName     = "diffr.db"
)

// Config is diffr's persisted user configuration.
type Config struct {
	DefaultTopology         core.Topology         `toml:"default_topology"`
	DefaultConflictStrategy core.ConflictStrategy `toml:"default_conflict_strategy"`
	Retention               core.RetentionPolicy  `toml:"retention"`
	HashByDefault            bool                  `toml:"hash_by_default"`
	VerifyAfterSync          bool                  `toml:"verify_after_sync"`
}

// Default returns diffr's built-in configuration defaults.
func Default() Config {
	return Config{
		DefaultTopology:         core.TopologyMesh,
		DefaultConflictStrategy: core.ConflictStrategyNewestWins,
		Retention:               core.DefaultRetentionPolicy(),
	}
}

// HomeDir returns the diffr home directory (~/.diffr).
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", diffrerrors.Wrap(diffrerrors.KindIoFailure, "determining home directory", err)
	}
	return filepath.Join(home, homeDirName), nil
}

// ConfigPath returns the path to the user config file.
func ConfigPath() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// DBPath returns the path to the store's SQLite database file.
func DBPath() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dbFileName), nil
}

// Load reads the config file at its default location, returning built-in
// defaults if it does not yet exist.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file from an explicit path, returning built-in
// defaults if it does not exist.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, diffrerrors.Wrap(diffrerrors.KindIoFailure, "reading config file", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, diffrerrors.Wrap(diffrerrors.KindSerializationFailure, "parsing config file", err)
	}
	return cfg, nil
}

// Save writes cfg to its default location, atomically.
func (c Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes cfg to an explicit path, atomically, creating parent
// directories as needed.
func (c Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return diffrerrors.Wrap(diffrerrors.KindIoFailure, "creating config directory", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return diffrerrors.Wrap(diffrerrors.KindSerializationFailure, "encoding config", err)
	}

	if err := writeFileAtomic(path, buf.Bytes(), 0o600); err != nil {
		return diffrerrors.Wrap(diffrerrors.KindIoFailure, "writing config file", err)
	}
	return nil
}

// Init ensures ~/.diffr exists and writes a default config.toml if one is
// not already present, mirroring `diffr config init`.
func Init() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return "", diffrerrors.Wrap(diffrerrors.KindIoFailure, "creating diffr home directory", err)
	}

	path, err := ConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return home, nil
	}

	if err := Default().SaveTo(path); err != nil {
		return "", err
	}
	return home, nil
}
