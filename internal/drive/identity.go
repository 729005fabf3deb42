// Package drive handles the on-disk artifacts that let diffr recognize a
// storage volume across mounts (drive_identity.toml), mark a path as an
// initialized sync root (repo.toml), and, through the Discoverer interface,
// enumerate drives attached to the host.
package drive

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/crussella0129/diffr/internal/core"
	"github.com/crussella0129/diffr/internal/diffrerrors"
)

const identityFileName = "drive_identity.toml"

// identityFile is the on-disk shape of .diffr/drive_identity.toml.
type identityFile struct {
	Type string `toml:"type"`
	ID   string `toml:"id"`
}

// LoadOrCreateIdentity reads root/.diffr/drive_identity.toml, creating a
// fresh synthetic identity and writing the file if it does not yet exist.
// Hardware-backed identities are never synthesized here; they come from a
// Discoverer and are only ever read back through this file once recorded.
func LoadOrCreateIdentity(root string) (core.DriveIdentity, error) {
	path := identityPath(root)

	var raw identityFile
	_, err := toml.DecodeFile(path, &raw)
	if err == nil {
		return identityFromFile(raw), nil
	}
	if !os.IsNotExist(err) {
		return core.DriveIdentity{}, diffrerrors.Wrap(diffrerrors.KindSerializationFailure, "parsing drive identity file", err)
	}

	identity := core.NewSyntheticIdentity()
	if err := SaveIdentity(root, identity); err != nil {
		return core.DriveIdentity{}, err
	}
	return identity, nil
}

// SaveIdentity writes an identity to root/.diffr/drive_identity.toml,
// overwriting any existing file.
func SaveIdentity(root string, identity core.DriveIdentity) error {
	path := identityPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return diffrerrors.Wrap(diffrerrors.KindIoFailure, "creating .diffr directory", err)
	}

	raw := identityFile{Type: identity.TypeString(), ID: identity.Value}
	data, err := tomlMarshal(raw)
	if err != nil {
		return diffrerrors.Wrap(diffrerrors.KindSerializationFailure, "encoding drive identity", err)
	}
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return diffrerrors.Wrap(diffrerrors.KindIoFailure, "writing drive identity file", err)
	}
	return nil
}

func identityFromFile(raw identityFile) core.DriveIdentity {
	if raw.Type == "hardware" {
		return core.NewHardwareIdentity(raw.ID)
	}
	if raw.ID == "" {
		return core.DriveIdentity{Kind: core.DriveIdentitySynthetic, Value: uuid.NewString()}
	}
	return core.DriveIdentity{Kind: core.DriveIdentitySynthetic, Value: raw.ID}
}

func identityPath(root string) string {
	return filepath.Join(root, ".diffr", identityFileName)
}
