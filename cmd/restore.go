package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prefixsnap/prefixsnap/internal/config"
	"github.com/prefixsnap/prefixsnap/internal/snapshot"
	"github.com/spf13/cobra"
)

var (
	restorePrefix    string
	restoreSnapshots string
	restoreYes       bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore <name|archive-path>",
	Short: "Restore a snapshot over the prefix directory",
	Long: `Replace the prefix directory with the contents of a snapshot.

The argument is either a snapshot name (resolved inside the snapshots
directory) or a path to a .tar.zst archive. The existing prefix tree is
fully replaced; the swap happens only after the whole archive has been
unpacked successfully.

Examples:
  prefixsnap restore pre-patch
  prefixsnap restore /backups/clean.tar.zst --prefix ~/prefixes/eve --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)

	restoreCmd.Flags().StringVar(&restorePrefix, "prefix", "", "Prefix directory to restore into (default from config)")
	restoreCmd.Flags().StringVar(&restoreSnapshots, "snapshots", "", "Snapshots directory (default from config)")
	restoreCmd.Flags().BoolVar(&restoreYes, "yes", false, "Skip the confirmation prompt")
}

func runRestore(cmd *cobra.Command, args []string) error {
	prefixDir := restorePrefix
	if prefixDir == "" {
		prefixDir = config.GetPrefixDir()
	}
	snapshotsDir := restoreSnapshots
	if snapshotsDir == "" {
		snapshotsDir = config.GetSnapshotsDir()
	}

	archivePath, err := resolveArchive(args[0], snapshotsDir)
	if err != nil {
		return err
	}

	if !restoreYes {
		fmt.Printf("This will permanently replace %s with the contents of %s.\n", prefixDir, archivePath)
		fmt.Print("Continue? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted")
			return nil
		}
	}

	fmt.Printf("Restoring %s...\n", archivePath)

	if err := snapshot.Restore(archivePath, prefixDir); err != nil {
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}

	fmt.Printf("\n✓ Prefix restored: %s\n", prefixDir)
	return nil
}

// resolveArchive accepts either a direct archive path or a snapshot name
// to be looked up in the snapshots directory.
func resolveArchive(arg, snapshotsDir string) (string, error) {
	if strings.HasSuffix(arg, snapshot.Extension) {
		if _, err := os.Stat(arg); err != nil {
			return "", fmt.Errorf("archive %s: %w", arg, err)
		}
		return arg, nil
	}

	path := filepath.Join(snapshotsDir, arg+snapshot.Extension)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("snapshot %q not found (looked for %s)", arg, path)
	}
	return path, nil
}
