package drive

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/crussella0129/diffr/internal/diffrerrors"
)

const repoFileName = "repo.toml"

// repoFile is the on-disk shape of .diffr/repo.toml.
type repoFile struct {
	InitializedAt time.Time `toml:"initialized_at"`
}

// Init writes root/.diffr/repo.toml, marking root as an initialized sync
// root. Calling it on an already-initialized root leaves the original
// initialized_at untouched and returns no error.
func Init(root string) error {
	path := repoPath(root)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return diffrerrors.Wrap(diffrerrors.KindIoFailure, "creating .diffr directory", err)
	}

	data, err := tomlMarshal(repoFile{InitializedAt: time.Now().UTC()})
	if err != nil {
		return diffrerrors.Wrap(diffrerrors.KindSerializationFailure, "encoding repo marker", err)
	}
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return diffrerrors.Wrap(diffrerrors.KindIoFailure, "writing repo marker", err)
	}
	return nil
}

// IsInitialized reports whether root carries a .diffr/repo.toml marker.
func IsInitialized(root string) bool {
	_, err := os.Stat(repoPath(root))
	return err == nil
}

// RequireInitialized returns a RepoNotInitialized error if root has not been
// initialized, the precondition spec.md attaches to registering a path as a
// drive's sync root.
func RequireInitialized(root string) error {
	if IsInitialized(root) {
		return nil
	}
	return diffrerrors.New(diffrerrors.KindRepoNotInitialized, "path is not an initialized diffr sync root: "+root)
}

// ReadInitializedAt reads the initialized_at timestamp from an existing
// repo.toml.
func ReadInitializedAt(root string) (time.Time, error) {
	var raw repoFile
	if _, err := toml.DecodeFile(repoPath(root), &raw); err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, diffrerrors.New(diffrerrors.KindRepoNotInitialized, "path is not an initialized diffr sync root: "+root)
		}
		return time.Time{}, diffrerrors.Wrap(diffrerrors.KindSerializationFailure, "parsing repo marker", err)
	}
	return raw.InitializedAt, nil
}

func repoPath(root string) string {
	return filepath.Join(root, ".diffr", repoFileName)
}
