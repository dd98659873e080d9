package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/prefixsnap/prefixsnap/internal/snapshot"
	"github.com/prefixsnap/prefixsnap/internal/testutil"
)

func TestRestoreByName(t *testing.T) {
	src := testutil.NewTempTree(t)
	defer src.Cleanup()
	snaps := testutil.NewTempTree(t)
	defer snaps.Cleanup()
	dest := testutil.NewTempTree(t)
	defer dest.Cleanup()

	src.CreateFile("drive_c/file.txt", "abc")
	if _, err := snapshot.Create(src.Path, snaps.Path, "test-snap"); err != nil {
		t.Fatalf("failed to create snapshot: %v", err)
	}

	dest.CreateFile("stale.txt", "stale")

	// Reset flags
	restorePrefix = dest.Path
	restoreSnapshots = snaps.Path
	restoreYes = true
	defer func() {
		restorePrefix = ""
		restoreSnapshots = ""
		restoreYes = false
	}()

	if err := runRestore(nil, []string{"test-snap"}); err != nil {
		t.Fatalf("restore command failed: %v", err)
	}

	if got := dest.ReadFile("drive_c/file.txt"); got != "abc" {
		t.Errorf("drive_c/file.txt = %q, want %q", got, "abc")
	}
	if dest.Exists("stale.txt") {
		t.Error("stale destination content survived the restore")
	}
}

func TestRestoreByArchivePath(t *testing.T) {
	src := testutil.NewTempTree(t)
	defer src.Cleanup()
	snaps := testutil.NewTempTree(t)
	defer snaps.Cleanup()
	dest := testutil.NewTempTree(t)
	defer dest.Cleanup()

	src.CreateFile("a.txt", "a")
	res, err := snapshot.Create(src.Path, snaps.Path, "direct")
	if err != nil {
		t.Fatalf("failed to create snapshot: %v", err)
	}

	restorePrefix = filepath.Join(dest.Path, "restored")
	restoreSnapshots = filepath.Join(snaps.Path, "elsewhere")
	restoreYes = true
	defer func() {
		restorePrefix = ""
		restoreSnapshots = ""
		restoreYes = false
	}()

	if err := runRestore(nil, []string{res.ArchivePath}); err != nil {
		t.Fatalf("restore command failed: %v", err)
	}

	if got := dest.ReadFile("restored/a.txt"); got != "a" {
		t.Errorf("restored/a.txt = %q, want %q", got, "a")
	}
}

func TestResolveArchiveMissingPath(t *testing.T) {
	snaps := testutil.NewTempTree(t)
	defer snaps.Cleanup()

	missing := filepath.Join(snaps.Path, "gone"+snapshot.Extension)
	_, err := resolveArchive(missing, snaps.Path)
	if err == nil {
		t.Fatal("expected error for missing archive path")
	}
	if strings.Contains(err.Error(), snapshot.Extension+snapshot.Extension) {
		t.Errorf("error re-suffixed an already-suffixed argument: %v", err)
	}
	if !strings.Contains(err.Error(), missing) {
		t.Errorf("error does not name the path that failed: %v", err)
	}
}

func TestRestoreUnknownName(t *testing.T) {
	snaps := testutil.NewTempTree(t)
	defer snaps.Cleanup()
	dest := testutil.NewTempTree(t)
	defer dest.Cleanup()

	restorePrefix = dest.Path
	restoreSnapshots = snaps.Path
	restoreYes = true
	defer func() {
		restorePrefix = ""
		restoreSnapshots = ""
		restoreYes = false
	}()

	if err := runRestore(nil, []string{"no-such-snapshot"}); err == nil {
		t.Fatal("expected error for unknown snapshot name")
	}
}
