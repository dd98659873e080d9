//go:build unix

package snapshot

import (
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/prefixsnap/prefixsnap/internal/testutil"
)

func TestCreateSkipsUnsupportedTypes(t *testing.T) {
	src := testutil.NewTempTree(t)
	defer src.Cleanup()
	snaps := testutil.NewTempTree(t)
	defer snaps.Cleanup()

	src.CreateFile("file.txt", "data")
	if err := syscall.Mkfifo(filepath.Join(src.Path, "pipe"), 0644); err != nil {
		t.Skipf("cannot create fifo: %v", err)
	}

	res, err := Create(src.Path, snaps.Path, "s1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(res.Skipped) != 1 || !strings.HasSuffix(res.Skipped[0].Path, "pipe") {
		t.Errorf("skipped = %v, want the fifo", res.Skipped)
	}
}
