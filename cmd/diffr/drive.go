package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crussella0129/diffr/internal/core"
	diffrdrive "github.com/crussella0129/diffr/internal/drive"
)

func driveScanMain(command *cobra.Command, arguments []string) error {
	discoverer := diffrdrive.NewGenericDiscoverer()
	mounts, err := discoverer.ListMounts()
	if err != nil {
		return err
	}

	if jsonOutput {
		fmt.Print("[")
		for i, m := range mounts {
			if i > 0 {
				fmt.Print(", ")
			}
			identity, _ := diffrdrive.LoadOrCreateIdentity(m.MountPoint)
			fmt.Printf("{\"identity\": %q, \"mount\": %q}", identity, m.MountPoint)
		}
		fmt.Println("]")
		return nil
	}

	if len(mounts) == 0 {
		fmt.Println("No drives detected.")
		return nil
	}
	fmt.Printf("%-30s %-20s %12s %12s\n", "IDENTITY", "MOUNT", "TOTAL", "FREE")
	for _, m := range mounts {
		identity, err := diffrdrive.LoadOrCreateIdentity(m.MountPoint)
		if err != nil {
			continue
		}
		fmt.Printf("%-30s %-20s %12s %12s\n", identity, m.MountPoint, formatBytesPtr(m.TotalBytes), formatBytesPtr(m.FreeBytes))
	}
	return nil
}

var driveAddConfiguration struct {
	cluster string
	role    string
	primary bool
	path    string
}

func driveAddMain(command *cobra.Command, arguments []string) error {
	identityArg := arguments[0]

	role, err := parseDriveRole(driveAddConfiguration.role)
	if err != nil {
		return err
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	clusterObj, err := s.GetClusterByName(driveAddConfiguration.cluster)
	if err != nil {
		return fmt.Errorf("cluster %q not found", driveAddConfiguration.cluster)
	}

	var identity core.DriveIdentity
	var mountPoint, syncRoot string

	if driveAddConfiguration.path != "" {
		abs, err := resolveExistingPath(driveAddConfiguration.path)
		if err != nil {
			return err
		}
		if err := diffrdrive.RequireInitialized(abs); err != nil {
			return fmt.Errorf("diffr repo not initialized at %s (run `diffr init %s`)", abs, abs)
		}
		identity, err = diffrdrive.LoadOrCreateIdentity(abs)
		if err != nil {
			return err
		}
		mountPoint = abs
		syncRoot = abs
	} else {
		identity = core.NewHardwareIdentity(identityArg)
		mountPoint = "."
	}

	existing, err := s.GetDriveByIdentity(identity)
	if err == nil {
		clusterID := clusterObj.ID
		if err := s.UpdateDriveCluster(existing.ID, &clusterID); err != nil {
			return err
		}
		if syncRoot != "" {
			if err := s.UpdateDriveSyncRoot(existing.ID, syncRoot); err != nil {
				return err
			}
		}
		fmt.Printf("Updated drive '%s' -> cluster '%s'\n", identityArg, driveAddConfiguration.cluster)
		return nil
	}

	d := core.NewDrive(identity, mountPoint)
	d.ClusterID = clusterObj.ID
	d.HasCluster = true
	d.Role = role
	d.IsPrimary = driveAddConfiguration.primary
	d.SyncRoot = syncRoot

	if err := s.InsertDrive(d); err != nil {
		return err
	}
	fmt.Printf("Added drive '%s' to cluster '%s'\n", identityArg, driveAddConfiguration.cluster)
	return nil
}

func driveRemoveMain(command *cobra.Command, arguments []string) error {
	identityArg := arguments[0]

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	identity := core.NewHardwareIdentity(identityArg)
	d, err := s.GetDriveByIdentity(identity)
	if err != nil {
		return fmt.Errorf("drive %q not found", identityArg)
	}
	if err := s.DeleteDrive(d.ID); err != nil {
		return err
	}
	fmt.Printf("Removed drive '%s'\n", identityArg)
	return nil
}

func driveListMain(command *cobra.Command, arguments []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	drives, err := s.ListAllDrives()
	if err != nil {
		return err
	}

	if jsonOutput {
		fmt.Print("[")
		for i, d := range drives {
			if i > 0 {
				fmt.Print(", ")
			}
			cluster := "null"
			if d.HasCluster {
				cluster = fmt.Sprintf("%q", d.ClusterID)
			}
			fmt.Printf("{\"identity\": %q, \"mount\": %q, \"cluster\": %s, \"role\": %q}", d.Identity, d.MountPoint, cluster, d.Role)
		}
		fmt.Println("]")
		return nil
	}

	if len(drives) == 0 {
		fmt.Println("No drives registered.")
		return nil
	}
	fmt.Printf("%-30s %-20s %-20s %-15s %-10s\n", "IDENTITY", "MOUNT", "SYNC ROOT", "ROLE", "PRIMARY")
	for _, d := range drives {
		syncRoot := "-"
		if d.SyncRoot != "" {
			syncRoot = d.SyncRoot
		}
		primary := "no"
		if d.IsPrimary {
			primary = "yes"
		}
		fmt.Printf("%-30s %-20s %-20s %-15s %-10s\n", d.Identity, d.MountPoint, syncRoot, d.Role, primary)
	}
	return nil
}

func driveInfoMain(command *cobra.Command, arguments []string) error {
	identityArg := arguments[0]

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	identity := core.NewHardwareIdentity(identityArg)
	d, err := s.GetDriveByIdentity(identity)
	if err != nil {
		return fmt.Errorf("drive %q not found", identityArg)
	}

	if jsonOutput {
		fmt.Printf("{\"id\": %q, \"identity\": %q, \"mount\": %q, \"role\": %q, \"primary\": %t}\n",
			d.ID, d.Identity, d.MountPoint, d.Role, d.IsPrimary)
		return nil
	}

	fmt.Printf("Drive: %s\n", d.Identity)
	fmt.Printf("  ID:        %s\n", d.ID)
	fmt.Printf("  Mount:     %s\n", d.MountPoint)
	if d.SyncRoot != "" {
		fmt.Printf("  Sync root: %s\n", d.SyncRoot)
	}
	label := d.Label
	if label == "" {
		label = "-"
	}
	fmt.Printf("  Label:     %s\n", label)
	fmt.Printf("  Role:      %s\n", d.Role)
	fmt.Printf("  Primary:   %t\n", d.IsPrimary)
	cluster := "none"
	if d.HasCluster {
		cluster = d.ClusterID.String()
	}
	fmt.Printf("  Cluster:   %s\n", cluster)
	fmt.Printf("  Last seen: %s\n", d.LastSeen)
	return nil
}

var driveScanCommand = &cobra.Command{
	Use:   "scan",
	Short: "Scan for connected drives",
	Args:  cobra.NoArgs,
	RunE:  driveScanMain,
}

var driveAddCommand = &cobra.Command{
	Use:   "add <identity>",
	Short: "Add a drive to a cluster",
	Args:  cobra.ExactArgs(1),
	RunE:  driveAddMain,
}

var driveRemoveCommand = &cobra.Command{
	Use:   "remove <identity>",
	Short: "Remove a drive from its cluster",
	Args:  cobra.ExactArgs(1),
	RunE:  driveRemoveMain,
}

var driveListCommand = &cobra.Command{
	Use:   "list",
	Short: "List all known drives",
	Args:  cobra.NoArgs,
	RunE:  driveListMain,
}

var driveInfoCommand = &cobra.Command{
	Use:   "info <identity>",
	Short: "Show detailed drive info",
	Args:  cobra.ExactArgs(1),
	RunE:  driveInfoMain,
}

var driveCommand = &cobra.Command{
	Use:   "drive",
	Short: "Manage drives",
}

func init() {
	flags := driveAddCommand.Flags()
	flags.StringVar(&driveAddConfiguration.cluster, "cluster", "", "Cluster to add the drive to")
	flags.StringVar(&driveAddConfiguration.role, "role", "normal", "Drive role: normal, archive-assist, or archive-only")
	flags.BoolVar(&driveAddConfiguration.primary, "primary", false, "Mark this drive as the primary (for primary-replica topology)")
	flags.StringVar(&driveAddConfiguration.path, "path", "", "Path to a diffr repo (must have been initialized with `diffr init`)")
	driveAddCommand.MarkFlagRequired("cluster")

	driveCommand.AddCommand(
		driveScanCommand,
		driveAddCommand,
		driveRemoveCommand,
		driveListCommand,
		driveInfoCommand,
	)
}
