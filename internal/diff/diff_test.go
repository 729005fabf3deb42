package diff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crussella0129/diffr/internal/core"
)

func TestComputeOnlyLeft(t *testing.T) {
	left := []core.FileEntry{{RelPath: "a.txt", Size: 100}}
	entries := Compute(left, nil)
	require.Len(t, entries, 1)
	require.Equal(t, core.DiffOnlyLeft, entries[0].Kind)
}

func TestComputeIdenticalByMetadata(t *testing.T) {
	mtime := time.Now()
	left := []core.FileEntry{{RelPath: "a.txt", Size: 100, ModTime: mtime}}
	right := []core.FileEntry{{RelPath: "a.txt", Size: 100, ModTime: mtime}}
	entries := Compute(left, right)
	require.Len(t, entries, 1)
	require.Equal(t, core.DiffIdentical, entries[0].Kind)
}

func TestComputeModifiedByHash(t *testing.T) {
	left := []core.FileEntry{{RelPath: "a.txt", XXH3: "aaa"}}
	right := []core.FileEntry{{RelPath: "a.txt", XXH3: "bbb"}}
	entries := Compute(left, right)
	require.Equal(t, core.DiffModified, entries[0].Kind)
}

func TestComputeIdenticalByHash(t *testing.T) {
	left := []core.FileEntry{{RelPath: "a.txt", XXH3: "aaa", Size: 5, ModTime: time.Now()}}
	right := []core.FileEntry{{RelPath: "a.txt", XXH3: "aaa", Size: 5, ModTime: time.Now().Add(time.Hour)}}
	entries := Compute(left, right)
	require.Equal(t, core.DiffIdentical, entries[0].Kind)
}

func TestComputeNeverEmitsConflict(t *testing.T) {
	left := []core.FileEntry{{RelPath: "a.txt", Size: 1, ModTime: time.Now()}}
	right := []core.FileEntry{{RelPath: "a.txt", Size: 2, ModTime: time.Now().Add(time.Hour)}}
	entries := Compute(left, right)
	require.NotEqual(t, core.DiffConflict, entries[0].Kind)
}

func TestComputeSortedByPath(t *testing.T) {
	left := []core.FileEntry{{RelPath: "z.txt"}, {RelPath: "a.txt"}}
	entries := Compute(left, nil)
	require.Equal(t, "a.txt", entries[0].RelPath)
	require.Equal(t, "z.txt", entries[1].RelPath)
}

func TestSummarize(t *testing.T) {
	entries := []core.DiffEntry{
		{Kind: core.DiffOnlyLeft},
		{Kind: core.DiffModified},
		{Kind: core.DiffIdentical},
	}
	s := Summarize(entries)
	require.Equal(t, 1, s.OnlyLeft)
	require.Equal(t, 1, s.Modified)
	require.Equal(t, 1, s.Identical)
	require.True(t, s.HasChanges())
	require.Equal(t, 2, s.TotalChanges())
}
