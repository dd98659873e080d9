package cmd

import (
	"fmt"
	"os"

	"github.com/prefixsnap/prefixsnap/internal/config"
	"github.com/prefixsnap/prefixsnap/internal/snapshot"
	"github.com/spf13/cobra"
)

var (
	savePrefix    string
	saveSnapshots string
)

var saveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Create a new prefix snapshot",
	Long: `Capture the prefix directory into a compressed snapshot archive.

The archive is written to <snapshots-dir>/<name>.tar.zst. An existing
snapshot with the same name is overwritten.

Examples:
  prefixsnap save pre-patch
  prefixsnap save clean --prefix ~/.local/share/elm/prefixes/eve`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

func init() {
	rootCmd.AddCommand(saveCmd)

	saveCmd.Flags().StringVar(&savePrefix, "prefix", "", "Prefix directory to snapshot (default from config)")
	saveCmd.Flags().StringVar(&saveSnapshots, "snapshots", "", "Snapshots directory (default from config)")
}

func runSave(cmd *cobra.Command, args []string) error {
	name := args[0]

	prefixDir := savePrefix
	if prefixDir == "" {
		prefixDir = config.GetPrefixDir()
	}
	snapshotsDir := saveSnapshots
	if snapshotsDir == "" {
		snapshotsDir = config.GetSnapshotsDir()
	}

	fmt.Printf("Snapshotting %s...\n", prefixDir)

	res, err := snapshot.CreateWithLevel(prefixDir, snapshotsDir, name, config.GetCompressionLevel())
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}

	for _, s := range res.Skipped {
		fmt.Fprintf(os.Stderr, "Warning: skipped %s: %v\n", s.Path, s.Reason)
	}

	if info, err := os.Stat(res.ArchivePath); err == nil {
		fmt.Printf("\n✓ Snapshot created: %s (%s)\n", res.ArchivePath, formatSize(info.Size()))
	} else {
		fmt.Printf("\n✓ Snapshot created: %s\n", res.ArchivePath)
	}

	if len(res.Skipped) > 0 {
		fmt.Printf("  %d entr%s skipped, see warnings above\n",
			len(res.Skipped), plural(len(res.Skipped), "y", "ies"))
	}

	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
