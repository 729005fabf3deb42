package drive

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// tomlMarshal encodes value as TOML using a buffer-backed encoder, mirroring
// how BurntSushi/toml's Encoder is driven elsewhere in the pack.
func tomlMarshal(value any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes data to a temporary file alongside path and renames
// it into place, so a reader never observes a partially written file.
func writeFileAtomic(path string, data []byte, permissions os.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	temp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tempName := temp.Name()

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		os.Remove(tempName)
		return err
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempName)
		return err
	}
	if err := os.Chmod(tempName, permissions); err != nil {
		os.Remove(tempName)
		return err
	}
	if err := os.Rename(tempName, path); err != nil {
		os.Remove(tempName)
		return err
	}
	return nil
}
