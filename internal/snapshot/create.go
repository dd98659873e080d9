package snapshot

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const (
	// RootName is the fixed top-level directory name recorded in every
	// archive entry, independent of the real source directory's name.
	// Restoring always reconstructs this directory and then renames it
	// to the requested destination.
	RootName = "prefix"

	// Extension is the archive file suffix.
	Extension = ".tar.zst"

	// DefaultCompressionLevel matches zstd level 3.
	DefaultCompressionLevel = 3
)

// Skipped describes a single filesystem node left out of a snapshot.
type Skipped struct {
	Path   string
	Reason error
}

// Result reports the outcome of a snapshot operation. Skipped lists
// entries that could not be read; the caller decides whether a snapshot
// with skips is acceptable.
type Result struct {
	ArchivePath string
	Skipped     []Skipped
}

// Create archives sourceDir into snapshotsDir/<name>.tar.zst and returns
// the produced path. An existing archive with the same name is
// overwritten. Per-entry read failures do not abort the snapshot; they
// are reported in the result.
func Create(sourceDir, snapshotsDir, name string) (*Result, error) {
	return CreateWithLevel(sourceDir, snapshotsDir, name, DefaultCompressionLevel)
}

// CreateWithLevel is Create with an explicit zstd compression level.
func CreateWithLevel(sourceDir, snapshotsDir, name string, level int) (*Result, error) {
	if _, err := os.Lstat(sourceDir); err != nil {
		return nil, fmt.Errorf("source directory: %w", err)
	}

	if err := os.MkdirAll(snapshotsDir, 0755); err != nil {
		return nil, fmt.Errorf("create snapshots directory: %w", err)
	}

	outPath := filepath.Join(snapshotsDir, name+Extension)
	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("create archive file: %w", err)
	}
	defer out.Close()

	enc, err := zstd.NewWriter(out,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}

	tw := tar.NewWriter(enc)

	w := &walker{
		tw:      tw,
		visited: make(map[inodeKey]bool),
	}
	res := &Result{ArchivePath: outPath}

	if err := w.appendTree(sourceDir, RootName, res); err != nil {
		enc.Close()
		return nil, err
	}

	if err := tw.Close(); err != nil {
		enc.Close()
		return nil, fmt.Errorf("finish archive: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finish compression: %w", err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("close archive file: %w", err)
	}

	return res, nil
}

// walker serializes a directory tree into a tar stream. The visited set
// holds the (device, inode) pairs of directories already emitted, so a
// directory reachable twice (hardlink, bind mount) produces exactly one
// subtree and the walk terminates on cyclic trees.
type walker struct {
	tw      *tar.Writer
	visited map[inodeKey]bool
}

// appendTree emits srcPath and, for directories, its children. tarPath
// is the slash-separated archive path rooted at RootName. Unreadable
// nodes are recorded as skipped rather than failing the walk; only
// archive write errors abort.
func (w *walker) appendTree(srcPath, tarPath string, res *Result) error {
	info, err := os.Lstat(srcPath)
	if err != nil {
		res.skip(srcPath, err)
		return nil
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(srcPath)
		if err != nil {
			res.skip(srcPath, err)
			return nil
		}
		hdr, err := tar.FileInfoHeader(info, target)
		if err != nil {
			res.skip(srcPath, err)
			return nil
		}
		hdr.Name = tarPath
		if err := w.tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("write entry %s: %w", tarPath, err)
		}

	case info.IsDir():
		key, ok := inodeOf(info)
		if ok {
			if w.visited[key] {
				return nil
			}
			w.visited[key] = true
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			res.skip(srcPath, err)
			return nil
		}
		hdr.Name = tarPath + "/"
		if err := w.tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("write entry %s: %w", tarPath, err)
		}

		entries, err := os.ReadDir(srcPath)
		if err != nil {
			res.skip(srcPath, err)
			return nil
		}
		for _, e := range entries {
			childSrc := filepath.Join(srcPath, e.Name())
			childTar := path.Join(tarPath, e.Name())
			if err := w.appendTree(childSrc, childTar, res); err != nil {
				return err
			}
		}

	case info.Mode().IsRegular():
		f, err := os.Open(srcPath)
		if err != nil {
			res.skip(srcPath, err)
			return nil
		}
		defer f.Close()

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			res.skip(srcPath, err)
			return nil
		}
		hdr.Name = tarPath
		if err := w.tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("write entry %s: %w", tarPath, err)
		}

		n, err := io.Copy(w.tw, io.LimitReader(f, hdr.Size))
		if err != nil {
			return fmt.Errorf("write contents of %s: %w", tarPath, err)
		}
		if n < hdr.Size {
			// The file shrank mid-walk. The header size is already
			// committed, so pad with zeros to keep the stream decodable.
			if _, err := io.CopyN(w.tw, zeroReader{}, hdr.Size-n); err != nil {
				return fmt.Errorf("pad contents of %s: %w", tarPath, err)
			}
		}

	default:
		// Sockets, devices and fifos have no place in a prefix snapshot.
		res.skip(srcPath, fmt.Errorf("unsupported file type %s", info.Mode().Type()))
	}

	return nil
}

func (r *Result) skip(path string, reason error) {
	r.Skipped = append(r.Skipped, Skipped{Path: path, Reason: reason})
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
