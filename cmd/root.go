package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "prefixsnap",
	Short: "Point-in-time snapshots of a runtime prefix directory",
	Long: `prefixsnap captures a runtime prefix directory into a single
compressed archive and restores it later as a rollback primitive:
  - full tree capture: files, directories, symlinks, permissions, mtimes
  - cycle-safe walking of trees with hardlinked directories
  - streaming tar + zstd, no intermediate staging file
  - restore replaces the destination only after a fully successful unpack`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/prefixsnap/config.toml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "prefixsnap")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	// Set defaults
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".local", "share", "prefixsnap")
	viper.SetDefault("snapshots.dir", filepath.Join(dataDir, "snapshots"))
	viper.SetDefault("snapshots.compression_level", 3)
	viper.SetDefault("prefix.dir", filepath.Join(dataDir, "prefixes", "default"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
