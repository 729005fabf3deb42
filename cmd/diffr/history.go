package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyConfiguration struct {
	limit int
}

func historyMain(command *cobra.Command, arguments []string) error {
	name := arguments[0]

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	cluster, err := s.GetClusterByName(name)
	if err != nil {
		return fmt.Errorf("cluster %q not found", name)
	}

	history, err := s.ListSyncHistory(cluster.ID, historyConfiguration.limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		fmt.Print("[")
		for i, r := range history {
			if i > 0 {
				fmt.Print(", ")
			}
			fmt.Printf("{\"id\": %q, \"started\": %q, \"finished\": %q, \"status\": %q, \"ops_applied\": %d, \"bytes_copied\": %d}",
				r.ID, r.StartedAt, r.FinishedAt, r.Status, r.OpsApplied, r.BytesCopied)
		}
		fmt.Println("]")
		return nil
	}

	if len(history) == 0 {
		fmt.Printf("No sync history for cluster '%s'\n", cluster.Name)
		return nil
	}
	fmt.Printf("%-24s %-16s %8s %12s %8s\n", "FINISHED", "STATUS", "FILES", "BYTES", "ERRORS")
	for _, r := range history {
		fmt.Printf("%-24s %-16s %8d %12d %8d\n",
			r.FinishedAt.Format("2006-01-02 15:04:05"), r.Status, r.OpsApplied, r.BytesCopied, len(r.Errors))
	}
	return nil
}

var historyCommand = &cobra.Command{
	Use:   "history <cluster>",
	Short: "Show sync history",
	Args:  cobra.ExactArgs(1),
	RunE:  historyMain,
}

func init() {
	historyCommand.Flags().IntVar(&historyConfiguration.limit, "limit", 20, "Maximum number of entries to show")
}
