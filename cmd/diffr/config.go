package main

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/crussella0129/diffr/internal/config"
)

func configInitMain(command *cobra.Command, arguments []string) error {
	home, err := config.Init()
	if err != nil {
		return err
	}
	fmt.Printf("Diffr initialized at %s\n", home)
	return nil
}

func configShowMain(command *cobra.Command, arguments []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	fmt.Print(buf.String())
	return nil
}

var configInitCommand = &cobra.Command{
	Use:   "init",
	Short: "Create ~/.diffr and a default config.toml if absent",
	Args:  cobra.NoArgs,
	RunE:  configInitMain,
}

var configShowCommand = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	Args:  cobra.NoArgs,
	RunE:  configShowMain,
}

var configCommand = &cobra.Command{
	Use:   "config",
	Short: "Initialize or inspect Diffr configuration",
}

func init() {
	configCommand.AddCommand(configInitCommand, configShowCommand)
}
