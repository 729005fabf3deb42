package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crussella0129/diffr/internal/core"
)

var clusterCreateConfiguration struct {
	topology string
	conflict string
}

func clusterCreateMain(command *cobra.Command, arguments []string) error {
	name := arguments[0]

	topology, err := parseTopology(clusterCreateConfiguration.topology)
	if err != nil {
		return err
	}
	strategy, err := parseConflictStrategy(clusterCreateConfiguration.conflict)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.GetClusterByName(name); err == nil {
		return fmt.Errorf("cluster %q already exists", name)
	}

	cluster := core.NewCluster(name, topology, strategy)
	if err := s.InsertCluster(cluster); err != nil {
		return err
	}

	if jsonOutput {
		fmt.Printf("{\"id\": %q, \"name\": %q}\n", cluster.ID, cluster.Name)
	} else {
		fmt.Printf("Created cluster '%s' (%s)\n", cluster.Name, cluster.ID)
	}
	return nil
}

func clusterListMain(command *cobra.Command, arguments []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	clusters, err := s.ListClusters()
	if err != nil {
		return err
	}

	if jsonOutput {
		fmt.Print("[")
		for i, c := range clusters {
			if i > 0 {
				fmt.Print(", ")
			}
			fmt.Printf("{\"id\": %q, \"name\": %q, \"topology\": %q, \"conflict_strategy\": %q}", c.ID, c.Name, c.Topology, c.ConflictStrategy)
		}
		fmt.Println("]")
		return nil
	}

	if len(clusters) == 0 {
		fmt.Println("No clusters found. Create one with: diffr cluster create <name>")
		return nil
	}
	fmt.Printf("%-40s %-15s %-15s\n", "NAME", "TOPOLOGY", "CONFLICT")
	for _, c := range clusters {
		fmt.Printf("%-40s %-15s %-15s\n", c.Name, c.Topology, c.ConflictStrategy)
	}
	return nil
}

func clusterInfoMain(command *cobra.Command, arguments []string) error {
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
	drives, err := s.ListDrivesForCluster(cluster.ID)
	if err != nil {
		return err
	}

	if jsonOutput {
		fmt.Printf("{\"id\": %q, \"name\": %q, \"topology\": %q, \"conflict_strategy\": %q, \"drives\": %d}\n",
			cluster.ID, cluster.Name, cluster.Topology, cluster.ConflictStrategy, len(drives))
		return nil
	}

	fmt.Printf("Cluster: %s\n", cluster.Name)
	fmt.Printf("  ID:       %s\n", cluster.ID)
	fmt.Printf("  Topology: %s\n", cluster.Topology)
	fmt.Printf("  Conflict: %s\n", cluster.ConflictStrategy)
	fmt.Printf("  Created:  %s\n", cluster.CreatedAt)
	fmt.Printf("  Drives:   %d\n", len(drives))
	for _, d := range drives {
		primary := ""
		if d.IsPrimary {
			primary = " [PRIMARY]"
		}
		fmt.Printf("    - %s (%s) at %s%s\n", d.Identity, d.Role, d.MountPoint, primary)
	}
	return nil
}

func clusterRemoveMain(command *cobra.Command, arguments []string) error {
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
	if err := s.DeleteCluster(cluster.ID); err != nil {
		return err
	}
	fmt.Printf("Removed cluster '%s'\n", name)
	return nil
}

var clusterCreateCommand = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new cluster",
	Args:  cobra.ExactArgs(1),
	RunE:  clusterCreateMain,
}

var clusterListCommand = &cobra.Command{
	Use:   "list",
	Short: "List all clusters",
	Args:  cobra.NoArgs,
	RunE:  clusterListMain,
}

var clusterInfoCommand = &cobra.Command{
	Use:   "info <name>",
	Short: "Show detailed cluster info",
	Args:  cobra.ExactArgs(1),
	RunE:  clusterInfoMain,
}

var clusterRemoveCommand = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a cluster",
	Args:  cobra.ExactArgs(1),
	RunE:  clusterRemoveMain,
}

var clusterCommand = &cobra.Command{
	Use:   "cluster",
	Short: "Manage clusters",
}

func init() {
	flags := clusterCreateCommand.Flags()
	flags.StringVar(&clusterCreateConfiguration.topology, "topology", "mesh", "Sync topology: mesh or primary-replica")
	flags.StringVar(&clusterCreateConfiguration.conflict, "conflict", "newest-wins", "Conflict strategy: newest-wins, keep-both, or interactive")

	clusterCommand.AddCommand(
		clusterCreateCommand,
		clusterListCommand,
		clusterInfoCommand,
		clusterRemoveCommand,
	)
}
