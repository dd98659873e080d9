// Package snapshot captures and restores full point-in-time archives of a
// runtime prefix directory. A snapshot is a single tar stream compressed
// with zstd; every entry is rooted at a fixed top-level name so that a
// restore can rebuild the tree anywhere and rename it into place.
package snapshot

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Snapshot represents a single archived snapshot on disk.
type Snapshot struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// FromFileInfo constructs a Snapshot from an archive path and os.FileInfo.
func FromFileInfo(path string, info os.FileInfo) Snapshot {
	return Snapshot{
		Name:    strings.TrimSuffix(filepath.Base(path), Extension),
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}

// List returns the snapshots in snapshotsDir, newest first. A missing
// directory is an empty list, not an error.
func List(snapshotsDir string) ([]Snapshot, error) {
	entries, err := os.ReadDir(snapshotsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var snapshots []Snapshot
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		snapshots = append(snapshots, FromFileInfo(filepath.Join(snapshotsDir, e.Name()), info))
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].ModTime.After(snapshots[j].ModTime)
	})

	return snapshots, nil
}
