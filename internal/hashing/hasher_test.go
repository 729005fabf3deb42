package hashing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestXXH3Deterministic(t *testing.T) {
	path := writeTemp(t, "hello world")

	h1, err := XXH3(path)
	require.NoError(t, err)
	h2, err := XXH3(path)
	require.NoError(t, err)

	require.Equal(t, h1, h2)
	require.Len(t, h1, 16)
}

func TestSHA256Known(t *testing.T) {
	path := writeTemp(t, "hello world")

	h, err := SHA256(path)
	require.NoError(t, err)
	require.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde", h)
}

func TestHashFileBoth(t *testing.T) {
	path := writeTemp(t, "test data")

	result, err := HashFile(path, true)
	require.NoError(t, err)
	require.NotEmpty(t, result.XXH3)
	require.NotEmpty(t, result.SHA256)
}

func TestHashFileWithoutSHA256(t *testing.T) {
	path := writeTemp(t, "test data")

	result, err := HashFile(path, false)
	require.NoError(t, err)
	require.NotEmpty(t, result.XXH3)
	require.Empty(t, result.SHA256)
}

func TestHashManyContinuesOnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	results := HashMany(dir, []string{"a.txt", "missing.txt"}, false, nil)

	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	require.NotEmpty(t, results[0].Result.XXH3)
	require.Error(t, results[1].Err)
}

func TestHashManyPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	names := []string{"a.txt", "b.txt", "c.txt"}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte(n), 0o644))
	}

	var seen []int
	results := HashMany(dir, names, false, func(done, total int) {
		seen = append(seen, done)
	})

	for i, r := range results {
		require.Equal(t, i, r.Index)
	}
	require.Equal(t, []int{1, 2, 3}, seen)
}
