package config

import (
	"github.com/spf13/viper"
)

// GetSnapshotsDir returns the directory snapshot archives are stored in
func GetSnapshotsDir() string {
	return viper.GetString("snapshots.dir")
}

// GetPrefixDir returns the default prefix directory to snapshot and restore
func GetPrefixDir() string {
	return viper.GetString("prefix.dir")
}

// GetCompressionLevel returns the zstd level used when creating snapshots
func GetCompressionLevel() int {
	return viper.GetInt("snapshots.compression_level")
}
