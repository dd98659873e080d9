package snapshot

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Restore reconstructs the tree stored in archivePath at destinationDir,
// fully replacing any existing content there.
//
// Entries are unpacked into a staging directory next to the destination
// first. Only after the whole stream has decoded successfully is the
// existing destination renamed aside, the staged root renamed into its
// place, and the old tree deleted. Every failure path before the final
// rename leaves the previous destination intact.
func Restore(archivePath, destinationDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return fmt.Errorf("zstd decoder: %w", err)
	}
	defer dec.Close()

	destinationDir = filepath.Clean(destinationDir)
	parent := filepath.Dir(destinationDir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("create destination parent: %w", err)
	}

	// Staging lives in the destination's parent so the final rename stays
	// on one filesystem.
	staging, err := os.MkdirTemp(parent, ".restore-*")
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := unpack(tar.NewReader(dec), staging); err != nil {
		return err
	}

	extracted := filepath.Join(staging, RootName)
	if _, err := os.Lstat(extracted); err != nil {
		return fmt.Errorf("archive has no %q root: %w", RootName, err)
	}

	return swap(extracted, destinationDir)
}

// unpack materializes every entry of the tar stream under root. A decode
// error, an entry path escaping root, or an unsupported entry type aborts
// the restore; a half-restored tree is worse than none for a rollback
// primitive.
func unpack(tr *tar.Reader, root string) error {
	type dirMeta struct {
		path    string
		mode    os.FileMode
		modTime time.Time
	}
	var dirs []dirMeta

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("decode archive: %w", err)
		}

		name := path.Clean(hdr.Name)
		if name == "." {
			continue
		}
		if path.IsAbs(name) || name == ".." || strings.HasPrefix(name, "../") {
			return fmt.Errorf("archive entry escapes root: %s", hdr.Name)
		}
		target := filepath.Join(root, filepath.FromSlash(name))
		mode := hdr.FileInfo().Mode().Perm()

		switch hdr.Typeflag {
		case tar.TypeDir:
			// Recorded permissions are applied after the full unpack; a
			// read-only directory must not block writing its children.
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create directory %s: %w", name, err)
			}
			dirs = append(dirs, dirMeta{path: target, mode: mode, modTime: hdr.ModTime})

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("create parent of %s: %w", name, err)
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
			if err != nil {
				return fmt.Errorf("create file %s: %w", name, err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return fmt.Errorf("write file %s: %w", name, err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("close file %s: %w", name, err)
			}
			// OpenFile's mode is filtered through the umask.
			if err := os.Chmod(target, mode); err != nil {
				return fmt.Errorf("set permissions on %s: %w", name, err)
			}
			_ = os.Chtimes(target, hdr.ModTime, hdr.ModTime)

		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("create parent of %s: %w", name, err)
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return fmt.Errorf("create symlink %s -> %s: %w", name, hdr.Linkname, err)
			}

		default:
			return fmt.Errorf("unsupported entry type %d for %s", hdr.Typeflag, name)
		}
	}

	// Writing children bumps parent directory mtimes, so apply recorded
	// permissions and times last, deepest directories first.
	sort.Slice(dirs, func(i, j int) bool {
		return len(dirs[i].path) > len(dirs[j].path)
	})
	for _, d := range dirs {
		if err := os.Chmod(d.path, d.mode); err != nil {
			return fmt.Errorf("set permissions on %s: %w", d.path, err)
		}
		_ = os.Chtimes(d.path, d.modTime, d.modTime)
	}

	return nil
}

// swap replaces destinationDir with the fully staged tree at extracted.
// The old tree is renamed aside rather than deleted up front, so a rename
// failure can roll it back into place.
func swap(extracted, destinationDir string) error {
	var oldDir string
	if _, err := os.Lstat(destinationDir); err == nil {
		oldDir = fmt.Sprintf("%s.old-%d", destinationDir, time.Now().UnixNano())
		if err := os.Rename(destinationDir, oldDir); err != nil {
			return fmt.Errorf("move existing destination aside: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat destination: %w", err)
	}

	if err := os.Rename(extracted, destinationDir); err != nil {
		if oldDir != "" {
			if rbErr := os.Rename(oldDir, destinationDir); rbErr != nil {
				return fmt.Errorf("move restored tree into place: %w (and restoring the previous tree failed: %v; it remains at %s)", err, rbErr, oldDir)
			}
		}
		return fmt.Errorf("move restored tree into place: %w", err)
	}

	if oldDir != "" {
		if err := os.RemoveAll(oldDir); err != nil {
			return fmt.Errorf("remove previous destination %s: %w", oldDir, err)
		}
	}
	return nil
}
