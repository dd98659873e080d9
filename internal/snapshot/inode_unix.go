//go:build unix

package snapshot

import (
	"os"
	"syscall"
)

// extracts (device, inode) pairs from syscall.Stat_t on Unix systems.
// The pair identifies a directory across hardlinks and bind mounts, which
// is what the visited set keys on.

type inodeKey struct {
	dev uint64
	ino uint64
}

func inodeOf(info os.FileInfo) (inodeKey, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return inodeKey{}, false
	}
	return inodeKey{dev: uint64(st.Dev), ino: st.Ino}, true
}
