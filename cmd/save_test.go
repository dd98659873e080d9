package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prefixsnap/prefixsnap/internal/snapshot"
	"github.com/prefixsnap/prefixsnap/internal/testutil"
)

func TestSaveCreatesArchive(t *testing.T) {
	src := testutil.NewTempTree(t)
	defer src.Cleanup()
	snaps := testutil.NewTempTree(t)
	defer snaps.Cleanup()

	src.CreateFile("drive_c/file.txt", "abc")

	// Reset flags
	savePrefix = src.Path
	saveSnapshots = snaps.Path
	defer func() {
		savePrefix = ""
		saveSnapshots = ""
	}()

	if err := runSave(nil, []string{"test-snap"}); err != nil {
		t.Fatalf("save command failed: %v", err)
	}

	archive := filepath.Join(snaps.Path, "test-snap"+snapshot.Extension)
	if _, err := os.Stat(archive); os.IsNotExist(err) {
		t.Error("archive file was not created")
	}
}

func TestSaveMissingPrefix(t *testing.T) {
	snaps := testutil.NewTempTree(t)
	defer snaps.Cleanup()

	savePrefix = filepath.Join(snaps.Path, "does-not-exist")
	saveSnapshots = snaps.Path
	defer func() {
		savePrefix = ""
		saveSnapshots = ""
	}()

	if err := runSave(nil, []string{"test-snap"}); err == nil {
		t.Fatal("expected error for missing prefix directory")
	}
}
