package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/crussella0129/diffr/internal/drive"
)

func initMain(command *cobra.Command, arguments []string) error {
	raw := "."
	if len(arguments) > 0 {
		raw = arguments[0]
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("path does not exist: %s", raw)
	}

	if drive.IsInitialized(abs) {
		return fmt.Errorf("already initialized: %s", filepath.Join(abs, ".diffr", "repo.toml"))
	}
	if err := drive.Init(abs); err != nil {
		return err
	}

	ignorePath := filepath.Join(abs, ".diffrignore")
	if _, err := os.Stat(ignorePath); os.IsNotExist(err) {
		contents := "# Diffr ignore patterns (one per line: a path component name, a relative path, or a glob)\n.diffr\n"
		if err := os.WriteFile(ignorePath, []byte(contents), 0o644); err != nil {
			return fmt.Errorf("writing .diffrignore template: %w", err)
		}
	}

	fmt.Printf("Initialized diffr repo at %s\n", abs)
	return nil
}

var initCommand = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a diffr repo at a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  initMain,
}
