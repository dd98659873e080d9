package cmd

import (
	"fmt"

	"github.com/prefixsnap/prefixsnap/internal/config"
	"github.com/prefixsnap/prefixsnap/internal/snapshot"
	"github.com/spf13/cobra"
)

var listSnapshots string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all prefix snapshots",
	Long: `List the snapshots in the snapshots directory, newest first.

Examples:
  prefixsnap list
  prefixsnap list --snapshots /backups/eve`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listSnapshots, "snapshots", "", "Snapshots directory (default from config)")
}

func runList(cmd *cobra.Command, args []string) error {
	snapshotsDir := listSnapshots
	if snapshotsDir == "" {
		snapshotsDir = config.GetSnapshotsDir()
	}

	snapshots, err := snapshot.List(snapshotsDir)
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if len(snapshots) == 0 {
		fmt.Println("No snapshots found")
		return nil
	}

	fmt.Printf("Found %d snapshot(s):\n\n", len(snapshots))
	for _, s := range snapshots {
		fmt.Printf("  %s\n", s.Name)
		fmt.Printf("    Size:    %s\n", formatSize(s.Size))
		fmt.Printf("    Created: %s\n", s.ModTime.Format("2006-01-02 15:04"))
		fmt.Println()
	}

	return nil
}

func formatSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	case bytes < 1024*1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	default:
		return fmt.Sprintf("%.1f GB", float64(bytes)/(1024*1024*1024))
	}
}
