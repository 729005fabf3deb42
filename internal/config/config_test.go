package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crussella0129/diffr/internal/core"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFrom(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.DefaultTopology = core.TopologyPrimaryReplica
	cfg.HashByDefault = true
	cfg.VerifyAfterSync = true

	require.NoError(t, cfg.SaveTo(path))
	require.FileExists(t, path)

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, core.TopologyPrimaryReplica, loaded.DefaultTopology)
	require.True(t, loaded.HashByDefault)
	require.True(t, loaded.VerifyAfterSync)
}

func TestSaveToCreatesParentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	require.NoError(t, Default().SaveTo(path))
	require.FileExists(t, path)
}
