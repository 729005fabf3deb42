package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	diffrarchive "github.com/crussella0129/diffr/internal/archive"
	"github.com/crussella0129/diffr/internal/config"
	"github.com/crussella0129/diffr/internal/core"
)

var archiveListConfiguration struct {
	path  string
	drive string
}

func archiveListMain(command *cobra.Command, arguments []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var entries []core.ArchiveEntry
	switch {
	case archiveListConfiguration.path != "":
		entries, err = s.ListArchivesForPath(archiveListConfiguration.path)
	case archiveListConfiguration.drive != "":
		identity := core.NewHardwareIdentity(archiveListConfiguration.drive)
		d, derr := s.GetDriveByIdentity(identity)
		if derr != nil {
			return fmt.Errorf("drive %q not found", archiveListConfiguration.drive)
		}
		entries, err = s.ListArchivesForDrive(d.ID)
	default:
		return fmt.Errorf("specify --path or --drive to filter archives")
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		fmt.Print("[")
		for i, a := range entries {
			if i > 0 {
				fmt.Print(", ")
			}
			fmt.Printf("{\"id\": %q, \"path\": %q, \"size\": %d, \"compressed\": %d, \"archived_at\": %q}",
				a.ID, a.OriginalPath, a.OriginalSize, a.CompressedSize, a.ArchivedAt)
		}
		fmt.Println("]")
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No archived versions found.")
		return nil
	}
	fmt.Printf("%-36s %-30s %10s %10s %-20s\n", "ID", "PATH", "ORIGINAL", "COMPRESSED", "ARCHIVED")
	for _, a := range entries {
		fmt.Printf("%-36s %-30s %10d %10d %-20s\n",
			a.ID, a.OriginalPath, a.OriginalSize, a.CompressedSize, a.ArchivedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

var archiveRestoreConfiguration struct {
	dest string
}

func archiveRestoreMain(command *cobra.Command, arguments []string) error {
	id, err := uuid.Parse(arguments[0])
	if err != nil {
		return fmt.Errorf("invalid archive id: %w", err)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	drives, err := s.ListAllDrives()
	if err != nil {
		return err
	}

	var found *core.ArchiveEntry
	var owningDrive core.Drive
	for _, d := range drives {
		entries, err := s.ListArchivesForDrive(d.ID)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.ID == id {
				entry := e
				found = &entry
				owningDrive = d
				break
			}
		}
		if found != nil {
			break
		}
	}
	if found == nil {
		return fmt.Errorf("archive entry %q not found", arguments[0])
	}

	destPath := archiveRestoreConfiguration.dest
	if destPath == "" {
		destPath = owningDrive.Path(found.OriginalPath)
	}

	if err := diffrarchive.RestoreFile(owningDrive, *found, destPath); err != nil {
		return err
	}
	fmt.Printf("Restored %s from archive to %s\n", found.OriginalPath, destPath)
	return nil
}

func archivePruneMain(command *cobra.Command, arguments []string) error {
	identity := core.NewHardwareIdentity(arguments[0])

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	d, err := s.GetDriveByIdentity(identity)
	if err != nil {
		return fmt.Errorf("drive %q not found", arguments[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	result, err := diffrarchive.EnforceRetention(s, d.ID, d.EffectiveRoot(), cfg.Retention)
	if err != nil {
		return err
	}

	if jsonOutput {
		fmt.Printf("{\"pruned\": %d, \"bytes_freed\": %d, \"errors\": %d}\n", result.EntriesPruned, result.BytesFreed, len(result.Errors))
		return nil
	}
	fmt.Printf("Pruned %d archive entries, freed %d bytes\n", result.EntriesPruned, result.BytesFreed)
	for _, e := range result.Errors {
		fmt.Printf("  Error: %s\n", e)
	}
	return nil
}

var archiveListCommand = &cobra.Command{
	Use:   "list",
	Short: "List archived versions",
	Args:  cobra.NoArgs,
	RunE:  archiveListMain,
}

var archiveRestoreCommand = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore a file from the archive",
	Args:  cobra.ExactArgs(1),
	RunE:  archiveRestoreMain,
}

var archivePruneCommand = &cobra.Command{
	Use:   "prune <drive>",
	Short: "Prune old archives according to retention policy",
	Args:  cobra.ExactArgs(1),
	RunE:  archivePruneMain,
}

var archiveCommand = &cobra.Command{
	Use:   "archive",
	Short: "Manage archives",
}

func init() {
	archiveListCommand.Flags().StringVar(&archiveListConfiguration.path, "path", "", "Filter by original file path")
	archiveListCommand.Flags().StringVar(&archiveListConfiguration.drive, "drive", "", "Filter by drive identity")
	archiveRestoreCommand.Flags().StringVar(&archiveRestoreConfiguration.dest, "dest", "", "Destination path (defaults to original location)")

	archiveCommand.AddCommand(archiveListCommand, archiveRestoreCommand, archivePruneCommand)
}
