package config

import (
	"os"
	"path/filepath"
)

// writeFileAtomic writes data to a temporary file alongside path and renames
// it into place, so a reader never observes a partially written config file.
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
