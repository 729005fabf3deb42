package main

import (
	"github.com/spf13/cobra"

	"github.com/crussella0129/diffr/cmd"
)

func rootMain(command *cobra.Command, arguments []string) {
	command.Help()
}

var rootCommand = &cobra.Command{
	Use:           "diffr",
	Short:         "Diffr reconciles file trees across not-always-mounted storage drives.",
	Run:           rootMain,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCommand.PersistentFlags()
	flags.BoolVar(&jsonOutput, "json", false, "Output machine-readable JSON instead of human-readable text")
	flags.BoolVarP(&verboseOutput, "verbose", "v", false, "Enable debug logging on standard error")

	cobra.EnableCommandSorting = false

	rootCommand.AddCommand(
		initCommand,
		configCommand,
		clusterCommand,
		driveCommand,
		syncCommand,
		statusCommand,
		historyCommand,
		archiveCommand,
	)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		cmd.Fatal(err)
	}
}
