// Package archive implements the Archiver and Retriever: compressing a
// file into a drive's archive tree before it is overwritten or deleted, and
// restoring a compressed version back out.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/xxh3"

	"github.com/crussella0129/diffr/internal/core"
	"github.com/crussella0129/diffr/internal/diffrerrors"
)

// zstdLevel is the compression level used for every archive write, matching
// the reference zstd level 3 (klauspost/compress's "default" speed tier).
var zstdLevel = zstd.EncoderLevelFromZstd(3)

// ArchiveFile compresses the file at drive.Path(relPath) into the drive's
// archive tree and returns the resulting ArchiveEntry. It fails if the
// source file does not exist.
func ArchiveFile(drive core.Drive, relPath string, reason core.ArchiveReason) (core.ArchiveEntry, error) {
	sourcePath := drive.Path(relPath)
	info, err := os.Stat(sourcePath)
	if os.IsNotExist(err) {
		return core.ArchiveEntry{}, diffrerrors.New(diffrerrors.KindNotFound, fmt.Sprintf("source file does not exist: %s", sourcePath))
	} else if err != nil {
		return core.ArchiveEntry{}, diffrerrors.Wrap(diffrerrors.KindIoFailure, "statting source file", err)
	}

	compression := core.CompressionZstd
	now := time.Now().UTC()
	archiveRel := core.ArchiveRelPath(relPath, now, compression)
	archivePath := drive.Path(archiveRel)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return core.ArchiveEntry{}, diffrerrors.Wrap(diffrerrors.KindIoFailure, "creating archive directory", err)
	}

	compressedSize, xxh3Hash, err := compressFile(sourcePath, archivePath)
	if err != nil {
		return core.ArchiveEntry{}, diffrerrors.Wrap(diffrerrors.KindIoFailure, "compressing archive", err)
	}

	return core.ArchiveEntry{
		ID:             uuid.New(),
		OriginalPath:   relPath,
		ArchivePath:    archiveRel,
		DriveID:        drive.ID,
		OriginalSize:   uint64(info.Size()),
		CompressedSize: compressedSize,
		Compression:    compression,
		XXH3Hash:       xxh3Hash,
		Reason:         reason,
		ArchivedAt:     now,
	}, nil
}

// compressFile streams src through a zstd encoder into dst, hashing the
// original (uncompressed) bytes as they are read so the resulting
// ArchiveEntry.XXH3Hash verifies restores against the original content, not
// the compressed stream.
func compressFile(src, dst string) (compressedSize uint64, xxh3Hash string, err error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, "", err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, "", err
	}
	defer out.Close()

	encoder, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstdLevel))
	if err != nil {
		return 0, "", err
	}

	hasher := xxh3.New()
	if _, err := io.Copy(encoder, io.TeeReader(in, hasher)); err != nil {
		encoder.Close()
		return 0, "", err
	}
	if err := encoder.Close(); err != nil {
		return 0, "", err
	}

	outInfo, err := out.Stat()
	if err != nil {
		return 0, "", err
	}
	return uint64(outInfo.Size()), fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// RestoreFile decompresses entry's archived content back to destPath (or,
// if empty, entry.OriginalPath under drive's effective root), verifying the
// restored content's XXH3 against entry.XXH3Hash.
func RestoreFile(drive core.Drive, entry core.ArchiveEntry, destPath string) error {
	archiveFull := drive.Path(entry.ArchivePath)
	if _, err := os.Stat(archiveFull); os.IsNotExist(err) {
		return diffrerrors.New(diffrerrors.KindNotFound, fmt.Sprintf("archive file does not exist: %s", archiveFull))
	} else if err != nil {
		return diffrerrors.Wrap(diffrerrors.KindIoFailure, "statting archive file", err)
	}

	target := destPath
	if target == "" {
		target = drive.Path(entry.OriginalPath)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return diffrerrors.Wrap(diffrerrors.KindIoFailure, "creating restore directory", err)
	}

	hash, err := decompressFile(archiveFull, target, entry.Compression)
	if err != nil {
		return diffrerrors.Wrap(diffrerrors.KindIoFailure, "decompressing archive", err)
	}

	if hash != entry.XXH3Hash {
		return diffrerrors.New(diffrerrors.KindIntegrityFailure, fmt.Sprintf("hash mismatch after restore: expected %s, got %s", entry.XXH3Hash, hash))
	}
	return nil
}

func decompressFile(src, dst string, compression core.CompressionFormat) (xxh3Hash string, err error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	hasher := xxh3.New()
	writer := io.MultiWriter(out, hasher)

	if compression == core.CompressionNone {
		if _, err := io.Copy(writer, in); err != nil {
			return "", err
		}
		return fmt.Sprintf("%016x", hasher.Sum64()), nil
	}

	decoder, err := zstd.NewReader(in)
	if err != nil {
		return "", err
	}
	defer decoder.Close()

	if _, err := io.Copy(writer, decoder); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}
