package scan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestScanBasic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file1.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file2.txt"), []byte("world"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "subdir", "file3.txt"), []byte("nested"), 0o644))

	result, err := Scan(Config{Root: dir, DriveID: uuid.New()})
	require.NoError(t, err)
	require.Equal(t, uint64(3), result.TotalFiles)
	require.Equal(t, uint64(1), result.TotalDirs)
	require.Empty(t, result.Errors)
}

func TestScanDiffrignore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".diffrignore"), []byte("ignore_me\n# comment\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("keep"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "ignore_me"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore_me", "secret.txt"), []byte("secret"), 0o644))

	result, err := Scan(Config{Root: dir, DriveID: uuid.New()})
	require.NoError(t, err)
	for _, e := range result.Entries {
		require.False(t, e.RelPath == "ignore_me" || strings.HasPrefix(e.RelPath, "ignore_me/"))
	}
}

func TestScanAlwaysIgnoresDiffrDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".diffr", "archive"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("keep"), 0o644))

	result, err := Scan(Config{Root: dir, DriveID: uuid.New()})
	require.NoError(t, err)
	for _, e := range result.Entries {
		require.NotEqual(t, ".diffr", e.RelPath)
	}
	require.Equal(t, uint64(1), result.TotalFiles)
}

func TestScanGlobIgnore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".diffrignore"), []byte("*.tmp\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.tmp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))

	result, err := Scan(Config{Root: dir, DriveID: uuid.New()})
	require.NoError(t, err)
	var names []string
	for _, e := range result.Entries {
		names = append(names, e.RelPath)
	}
	require.Contains(t, names, "a.txt")
	require.NotContains(t, names, "a.tmp")
}
