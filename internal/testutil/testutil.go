package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempTree creates a temporary directory tree for testing
type TempTree struct {
	Path string
	T    *testing.T
}

// NewTempTree creates a new temporary directory tree
func NewTempTree(t *testing.T) *TempTree {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "prefixsnap-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	return &TempTree{
		Path: tmpDir,
		T:    t,
	}
}

// Cleanup removes the temporary tree
func (r *TempTree) Cleanup() {
	r.T.Helper()
	if err := os.RemoveAll(r.Path); err != nil {
		r.T.Errorf("failed to cleanup temp tree: %v", err)
	}
}

// CreateFile creates a file with the given content, making parent
// directories as needed
func (r *TempTree) CreateFile(name, content string) {
	r.T.Helper()
	path := filepath.Join(r.Path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.T.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.T.Fatalf("failed to create file: %v", err)
	}
}

// CreateDir creates a directory (and parents) inside the tree
func (r *TempTree) CreateDir(name string) {
	r.T.Helper()
	if err := os.MkdirAll(filepath.Join(r.Path, name), 0755); err != nil {
		r.T.Fatalf("failed to create directory: %v", err)
	}
}

// CreateSymlink creates a symlink at name pointing at target
func (r *TempTree) CreateSymlink(name, target string) {
	r.T.Helper()
	path := filepath.Join(r.Path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.T.Fatalf("failed to create directory: %v", err)
	}
	if err := os.Symlink(target, path); err != nil {
		r.T.Fatalf("failed to create symlink: %v", err)
	}
}

// Chmod changes the permissions of a path inside the tree
func (r *TempTree) Chmod(name string, mode os.FileMode) {
	r.T.Helper()
	if err := os.Chmod(filepath.Join(r.Path, name), mode); err != nil {
		r.T.Fatalf("failed to chmod: %v", err)
	}
}

// ReadFile returns the content of a file inside the tree
func (r *TempTree) ReadFile(name string) string {
	r.T.Helper()
	data, err := os.ReadFile(filepath.Join(r.Path, name))
	if err != nil {
		r.T.Fatalf("failed to read file: %v", err)
	}
	return string(data)
}

// Exists reports whether a path exists inside the tree (without
// following a final symlink)
func (r *TempTree) Exists(name string) bool {
	r.T.Helper()
	_, err := os.Lstat(filepath.Join(r.Path, name))
	return err == nil
}

// Readlink returns the target of a symlink inside the tree
func (r *TempTree) Readlink(name string) string {
	r.T.Helper()
	target, err := os.Readlink(filepath.Join(r.Path, name))
	if err != nil {
		r.T.Fatalf("failed to read symlink: %v", err)
	}
	return target
}
