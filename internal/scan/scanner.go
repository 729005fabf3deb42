// Package scan walks a drive's effective root and produces the FileEntry set
// that the rest of diffr diffs, plans, and archives against.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/crussella0129/diffr/internal/core"
	"github.com/crussella0129/diffr/internal/logging"
)

// Config configures a single scan pass.
type Config struct {
	// Root is the directory scanned; normally Drive.EffectiveRoot().
	Root string
	// DriveID is attached to every produced FileEntry.
	DriveID uuid.UUID
	// FollowSymlinks has no effect on the walk: filepath.WalkDir never
	// descends into a symlinked directory, and every symlink is reported
	// using the link's own metadata (never followed) whatever this is set to.
	FollowSymlinks bool
	// Logger receives periodic progress messages. May be nil.
	Logger *logging.Logger
}

// Result is the outcome of a scan: every non-ignored entry under Root, plus
// aggregate counts and any per-path errors encountered along the way. A scan
// never aborts on a single bad entry; it accumulates the error and
// continues, so Result.Errors may be non-empty even though Entries is
// complete for everything that was readable.
type Result struct {
	Entries    []core.FileEntry
	TotalFiles uint64
	TotalDirs  uint64
	TotalBytes uint64
	Errors     []string
}

const progressInterval = 2000

// Scan walks cfg.Root and returns every file and directory found, excluding
// anything matched by .diffrignore or the .diffr control directory.
func Scan(cfg Config) (Result, error) {
	ignores, err := loadIgnoreSet(cfg.Root)
	if err != nil {
		return Result{}, fmt.Errorf("loading .diffrignore: %w", err)
	}

	var result Result
	now := time.Now().UTC()

	walkErr := filepath.WalkDir(cfg.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(cfg.Root, path)
		if err != nil || rel == "." {
			return nil
		}
		rel = core.NormalizePath(filepath.ToSlash(rel))

		if ignores.matches(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() && d.Type()&fs.ModeSymlink != 0 && !cfg.FollowSymlinks {
			return filepath.SkipDir
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", rel, infoErr))
			return nil
		}

		isDir := d.IsDir()
		var size uint64
		if !isDir {
			size = uint64(info.Size())
		}

		if isDir {
			result.TotalDirs++
		} else {
			result.TotalFiles++
			result.TotalBytes += size
		}

		result.Entries = append(result.Entries, core.FileEntry{
			RelPath:   rel,
			DriveID:   cfg.DriveID,
			IsDir:     isDir,
			Size:      size,
			ModTime:   info.ModTime().UTC(),
			IndexedAt: now,
		})

		if cfg.Logger != nil && (result.TotalFiles+result.TotalDirs)%progressInterval == 0 {
			cfg.Logger.Infof("scanned %d files, %d dirs", result.TotalFiles, result.TotalDirs)
		}

		return nil
	})
	if walkErr != nil {
		return result, fmt.Errorf("walking %s: %w", cfg.Root, walkErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.Infof("scan complete: %d files, %d dirs, %d bytes", result.TotalFiles, result.TotalDirs, result.TotalBytes)
	}

	return result, nil
}
