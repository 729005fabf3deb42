// Package hashing computes the content fingerprints diffr uses for change
// detection (XXH3-64) and verification (SHA-256). It performs no filesystem
// mutation and never aborts a batch on a per-file error.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"
)

// chunkSize bounds the buffer used to stream file contents through the
// hashers, so that verifying a large file does not require holding it
// entirely in memory.
const chunkSize = 64 * 1024

// Result holds the hashes computed for a single file.
type Result struct {
	XXH3   string
	SHA256 string // empty if not requested
}

// XXH3 computes the XXH3-64 fingerprint of the file at path, returned as
// lowercase, zero-padded hex.
func XXH3(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("unable to open file: %w", err)
	}
	defer f.Close()

	h := xxh3.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, chunkSize)); err != nil {
		return "", fmt.Errorf("unable to read file: %w", err)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// SHA256 computes the SHA-256 verification hash of the file at path,
// returned as lowercase hex, streaming the file in fixed-size chunks to
// bound memory use on large files.
func SHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("unable to open file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, chunkSize)); err != nil {
		return "", fmt.Errorf("unable to read file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashFile computes the XXH3 fingerprint of the file at path and, if
// includeSHA256 is true, its SHA-256 verification hash, in a single pass
// over the file contents.
func HashFile(path string, includeSHA256 bool) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("unable to open file: %w", err)
	}
	defer f.Close()

	xxh := xxh3.New()
	var writer io.Writer = xxh

	var sha hashCloser
	if includeSHA256 {
		sha = sha256.New()
		writer = io.MultiWriter(xxh, sha)
	}

	if _, err := io.CopyBuffer(writer, f, make([]byte, chunkSize)); err != nil {
		return Result{}, fmt.Errorf("unable to read file: %w", err)
	}

	result := Result{XXH3: fmt.Sprintf("%016x", xxh.Sum64())}
	if includeSHA256 {
		result.SHA256 = hex.EncodeToString(sha.Sum(nil))
	}
	return result, nil
}

// hashCloser is the subset of hash.Hash that HashFile needs; named solely to
// avoid importing the hash package for the type of one local variable.
type hashCloser interface {
	io.Writer
	Sum(b []byte) []byte
}

// IndexedResult pairs a HashFile outcome (or error) with its position in a
// caller-supplied batch, so that HashMany can report per-file failures
// inline without losing the caller's original ordering.
type IndexedResult struct {
	Index  int
	Result Result
	Err    error
}

// ProgressFunc is invoked after each file in a HashMany batch completes,
// successfully or not.
type ProgressFunc func(done, total int)

// HashMany hashes every path in relPaths (resolved against root) and
// reports results in the same order as the input. A failure hashing one
// file is recorded in that entry's Err and does not abort the remaining
// batch.
func HashMany(root string, relPaths []string, includeSHA256 bool, progress ProgressFunc) []IndexedResult {
	results := make([]IndexedResult, len(relPaths))
	for i, rel := range relPaths {
		full := filepath.Join(root, rel)
		result, err := HashFile(full, includeSHA256)
		results[i] = IndexedResult{Index: i, Result: result, Err: err}
		if progress != nil {
			progress(i+1, len(relPaths))
		}
	}
	return results
}
