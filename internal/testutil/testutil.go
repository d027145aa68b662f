// Package testutil builds throwaway directory trees for reclaim tests.
// Everything lives under t.TempDir() and is removed when the test ends.
package testutil

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestFixture is a temp tree laid out like a small home directory
type TestFixture struct {
	T *testing.T

	Root     string
	HomeDir  string
	CacheDir string
	LogsDir  string
	TempDir  string
	TrashDir string
	DataDir  string
}

// NewFixture creates the tree. Root is symlink-resolved so paths match
// what a walk reports on systems whose temp dir is behind a link.
func NewFixture(t *testing.T) *TestFixture {
	t.Helper()

	root := t.TempDir()
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	home := filepath.Join(root, "home")
	f := &TestFixture{
		T:        t,
		Root:     root,
		HomeDir:  home,
		CacheDir: filepath.Join(home, "cache"),
		LogsDir:  filepath.Join(home, "logs"),
		TempDir:  filepath.Join(root, "tmp"),
		TrashDir: filepath.Join(home, "trash"),
		DataDir:  filepath.Join(home, "data"),
	}
	for _, dir := range []string{f.CacheDir, f.LogsDir, f.TempDir, f.TrashDir, f.DataDir} {
		f.mkdir(dir)
	}
	return f
}

// Path resolves relPath against the fixture root; absolute paths pass through
func (f *TestFixture) Path(relPath string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Join(f.Root, relPath)
}

func (f *TestFixture) mkdir(path string) {
	f.T.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		f.T.Fatalf("mkdir %s: %v", path, err)
	}
}

// restoreMode puts a directory back to 0755 when the test ends so the
// temp tree can be removed
func (f *TestFixture) restoreMode(path string) {
	f.T.Cleanup(func() { os.Chmod(path, 0755) })
}

// ====================================================================
// Files
// ====================================================================

// CreateFile writes content to relPath, creating parents as needed
func (f *TestFixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	full := f.Path(relPath)
	f.mkdir(filepath.Dir(full))
	if err := os.WriteFile(full, content, 0644); err != nil {
		f.T.Fatalf("write %s: %v", full, err)
	}
	return full
}

// CreateSizedFile creates a sparse zero-filled file of exactly size bytes
func (f *TestFixture) CreateSizedFile(relPath string, size int64) string {
	f.T.Helper()

	full := f.CreateFile(relPath, nil)
	if err := os.Truncate(full, size); err != nil {
		f.T.Fatalf("truncate %s: %v", full, err)
	}
	return full
}

// CreateRandomFile fills a file with size random bytes
func (f *TestFixture) CreateRandomFile(relPath string, size int) string {
	f.T.Helper()
	return f.CreateFile(relPath, randomBytes(size))
}

// CreateIdenticalFiles writes one random payload to every path, returning
// the full paths in argument order
func (f *TestFixture) CreateIdenticalFiles(size int, relPaths ...string) []string {
	f.T.Helper()

	payload := randomBytes(size)
	paths := make([]string, len(relPaths))
	for i, rel := range relPaths {
		paths[i] = f.CreateFile(rel, payload)
	}
	return paths
}

// CreateFileWithAge writes a file whose atime and mtime are age in the past
func (f *TestFixture) CreateFileWithAge(relPath string, content []byte, age time.Duration) string {
	f.T.Helper()

	full := f.CreateFile(relPath, content)
	f.SetAge(full, age)
	return full
}

// SetAge backdates both atime and mtime
func (f *TestFixture) SetAge(path string, age time.Duration) {
	f.T.Helper()

	then := time.Now().Add(-age)
	if err := os.Chtimes(path, then, then); err != nil {
		f.T.Fatalf("chtimes %s: %v", path, err)
	}
}

// ====================================================================
// Directories and links
// ====================================================================

// CreateDir creates relPath and its parents
func (f *TestFixture) CreateDir(relPath string) string {
	f.T.Helper()

	full := f.Path(relPath)
	f.mkdir(full)
	return full
}

// CreateReadOnlyDir holds one file and is mode 0555, so nothing in it
// can be unlinked by a regular user
func (f *TestFixture) CreateReadOnlyDir(relPath string) string {
	f.T.Helper()
	return f.lockedDir(relPath, "trapped.txt", 0555)
}

// CreateUnreadableDir holds one file and is mode 0000, so it cannot be listed
func (f *TestFixture) CreateUnreadableDir(relPath string) string {
	f.T.Helper()
	return f.lockedDir(relPath, "hidden.bin", 0000)
}

func (f *TestFixture) lockedDir(relPath, inner string, mode os.FileMode) string {
	f.T.Helper()

	dir := f.CreateDir(relPath)
	f.CreateFile(filepath.Join(dir, inner), []byte(inner))
	if err := os.Chmod(dir, mode); err != nil {
		f.T.Fatalf("chmod %s: %v", dir, err)
	}
	f.restoreMode(dir)
	return dir
}

// CreateSymlink links linkPath to target
func (f *TestFixture) CreateSymlink(target, linkPath string) string {
	f.T.Helper()

	link := f.Path(linkPath)
	f.mkdir(filepath.Dir(link))
	if err := os.Symlink(target, link); err != nil {
		f.T.Fatalf("symlink %s -> %s: %v", link, target, err)
	}
	return link
}

// CreateBrokenSymlink links linkPath to a target that does not exist
func (f *TestFixture) CreateBrokenSymlink(linkPath string) string {
	f.T.Helper()
	return f.CreateSymlink(filepath.Join(f.Root, "missing", fmt.Sprintf("%x", randomBytes(4))), linkPath)
}

// ====================================================================
// Assertions
// ====================================================================

// FileExists reports whether path exists, without following links
func (f *TestFixture) FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func (f *TestFixture) AssertFileExists(path string) {
	f.T.Helper()
	if !f.FileExists(path) {
		f.T.Errorf("expected %s to exist", path)
	}
}

func (f *TestFixture) AssertFileNotExists(path string) {
	f.T.Helper()
	if f.FileExists(path) {
		f.T.Errorf("expected %s to be gone", path)
	}
}

func (f *TestFixture) AssertFileSize(path string, want int64) {
	f.T.Helper()
	info, err := os.Stat(path)
	if err != nil {
		f.T.Errorf("stat %s: %v", path, err)
		return
	}
	if info.Size() != want {
		f.T.Errorf("%s is %d bytes, want %d", path, info.Size(), want)
	}
}

func (f *TestFixture) AssertFileContent(path string, want []byte) {
	f.T.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		f.T.Errorf("read %s: %v", path, err)
		return
	}
	if !bytes.Equal(got, want) {
		f.T.Errorf("%s content differs (%d bytes, want %d)", path, len(got), len(want))
	}
}

// Snapshot maps every path under the root to its size, mtime and mode
func (f *TestFixture) Snapshot() map[string]string {
	f.T.Helper()

	snap := make(map[string]string)
	filepath.WalkDir(f.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		snap[path] = fmt.Sprintf("%d|%d|%s", info.Size(), info.ModTime().UnixNano(), info.Mode())
		return nil
	})
	return snap
}

// AssertUnchanged fails on any path added, removed or modified since before
func (f *TestFixture) AssertUnchanged(before map[string]string) {
	f.T.Helper()

	after := f.Snapshot()
	for path, sig := range before {
		switch got, ok := after[path]; {
		case !ok:
			f.T.Errorf("path disappeared: %s", path)
		case got != sig:
			f.T.Errorf("path changed: %s (%s -> %s)", path, sig, got)
		}
	}
	for path := range after {
		if _, ok := before[path]; !ok {
			f.T.Errorf("path appeared: %s", path)
		}
	}
}

// SkipIfRoot skips tests that depend on permission checks
func SkipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	rand.Read(b)
	return b
}
