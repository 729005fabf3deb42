package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"a/b/c":       "a/b/c",
		"/a/b":        "a/b",
		`a\b\c`:       "a/b/c",
		"./a/./b":     "a/b",
		".":           "",
		"":            "",
		"a//b":        "a/b",
	}
	for in, want := range cases {
		require.Equal(t, want, NormalizePath(in), "input %q", in)
	}
}

func TestDriveRoleTextRoundTrip(t *testing.T) {
	for _, r := range []DriveRole{DriveRoleNormal, DriveRoleArchiveAssist, DriveRoleArchiveOnly} {
		text, err := r.MarshalText()
		require.NoError(t, err)

		var got DriveRole
		require.NoError(t, got.UnmarshalText(text))
		require.Equal(t, r, got)
	}

	var hyphen DriveRole
	require.NoError(t, hyphen.UnmarshalText([]byte("archive-assist")))
	require.Equal(t, DriveRoleArchiveAssist, hyphen)

	var bad DriveRole
	require.Error(t, bad.UnmarshalText([]byte("bogus")))
}

func TestDriveIdentityString(t *testing.T) {
	hw := NewHardwareIdentity("SN123")
	require.Equal(t, "hardware:SN123", hw.String())

	synth := NewSyntheticIdentity()
	require.Equal(t, DriveIdentitySynthetic, synth.Kind)
	require.NotEmpty(t, synth.Value)
}

func TestDriveEffectiveRootAndPath(t *testing.T) {
	d := NewDrive(NewSyntheticIdentity(), "/mnt/drive1")
	require.Equal(t, "/mnt/drive1", d.EffectiveRoot())
	require.Equal(t, "/mnt/drive1/a/b.txt", d.Path("a/b.txt"))

	d.SyncRoot = "/mnt/drive1/sync"
	require.Equal(t, "/mnt/drive1/sync", d.EffectiveRoot())
}

func TestHashCacheEntryIsValid(t *testing.T) {
	now := time.Now()
	e := HashCacheEntry{Size: 10, ModTime: now, XXH3: "abc"}

	require.True(t, e.IsValid(10, now, false))
	require.False(t, e.IsValid(11, now, false))
	require.False(t, e.IsValid(10, now.Add(time.Second), false))
	require.False(t, e.IsValid(10, now, true)) // no SHA256 cached

	e.SHA256 = "def"
	require.True(t, e.IsValid(10, now, true))
}

func TestArchiveRelPath(t *testing.T) {
	at := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	got := ArchiveRelPath("docs/notes.txt", at, CompressionZstd)
	require.Equal(t, ".diffr/archive/docs/notes.txt/20260731T120000.zst", got)
}

func TestCompressionFormatTextRoundTrip(t *testing.T) {
	text, err := CompressionZstd.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "zstd", string(text))

	var got CompressionFormat
	require.NoError(t, got.UnmarshalText([]byte("none")))
	require.Equal(t, CompressionNone, got)
	require.Equal(t, "", got.Extension())
}

func TestDiffEntryValidate(t *testing.T) {
	left := &FileEntry{RelPath: "a"}
	right := &FileEntry{RelPath: "a"}

	require.NoError(t, DiffEntry{RelPath: "a", Kind: DiffOnlyLeft, Left: left}.Validate())
	require.Error(t, DiffEntry{RelPath: "a", Kind: DiffOnlyLeft, Left: left, Right: right}.Validate())
	require.NoError(t, DiffEntry{RelPath: "a", Kind: DiffModified, Left: left, Right: right}.Validate())
	require.Error(t, DiffEntry{RelPath: "a", Kind: DiffModified, Left: left}.Validate())

	require.False(t, DiffEntry{Kind: DiffIdentical}.IsActionable())
	require.True(t, DiffEntry{Kind: DiffConflict}.IsActionable())
}

func TestDeriveStatus(t *testing.T) {
	require.Equal(t, StatusSuccess, DeriveStatus(5, 0))
	require.Equal(t, StatusFailed, DeriveStatus(0, 3))
	require.Equal(t, StatusPartialSuccess, DeriveStatus(2, 1))
}

func TestConflictStrategyTextRoundTrip(t *testing.T) {
	var s ConflictStrategy
	require.NoError(t, s.UnmarshalText([]byte("keep-both")))
	require.Equal(t, ConflictStrategyKeepBoth, s)

	text, err := ConflictStrategyInteractive.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "interactive", string(text))
}
