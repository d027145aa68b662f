package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fenilsonani/reclaim/internal/cleaner"
	"github.com/fenilsonani/reclaim/internal/platform"
)

// Directories skipped by the empty-folder and broken-symlink walks
var hygieneSkipDirs = []string{".git", "node_modules", ".Trash", ".cargo", ".rustup", ".npm"}

// emptyFolders reports directories that are empty or hold only .DS_Store
type emptyFolders struct {
	base
	scanRoots []platform.ScanRoot
	protected map[string]bool
}

// NewEmptyFolders returns the empty-folders category
func NewEmptyFolders(env *Env) Category {
	protected := make(map[string]bool)
	for _, name := range env.Platform.HomeProtected {
		protected[filepath.Join(env.Platform.HomeDir, name)] = true
	}

	return &emptyFolders{
		base: base{
			id:    IDEmptyFolders,
			label: "Empty Folders",
			env:   env,
			roots: rootPaths(env.Platform.EmptyFolderRoots),
			erase: removeEmptyDir,
			guard: stillEmpty,
		},
		scanRoots: env.Platform.EmptyFolderRoots,
		protected: protected,
	}
}

func (c *emptyFolders) Scan(ctx context.Context, progress ProgressCallback) (*Result, error) {
	res := c.result()

	for _, root := range c.scanRoots {
		w := walker{
			maxDepth: root.MaxDepth,
			skipDir: func(name string) bool {
				return nameIn(name, hygieneSkipDirs) || strings.HasPrefix(name, ".")
			},
			onError: res.Warn,
		}
		err := w.walk(ctx, root.Path, func(path string, d fs.DirEntry, _ int) error {
			if !d.IsDir() || c.protected[path] || !effectivelyEmpty(path) {
				return nil
			}
			entry := Entry{Path: path, Category: c.id, Reason: "Empty folder"}
			if info, err := d.Info(); err == nil {
				entry.ModTime = info.ModTime()
			}
			res.Add(entry)
			c.report(progress, res, path)
			return fs.SkipDir
		})
		if err != nil {
			return res, cancelled(c.id, err)
		}
	}

	res.SortByPath()
	return res, nil
}

// effectivelyEmpty reports whether dir holds nothing but .DS_Store
func effectivelyEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Name() != ".DS_Store" {
			return false
		}
	}
	return true
}

// stillEmpty refuses a directory that gained content since the scan
func stillEmpty(path string, isDir bool) error {
	if isDir && !effectivelyEmpty(path) {
		return cleaner.NewError(cleaner.ErrorIO, path, syscall.ENOTEMPTY)
	}
	return nil
}

// removeEmptyDir deletes a leftover .DS_Store and then the directory
// itself. It fails if anything else appeared since the scan.
func removeEmptyDir(_ context.Context, path string, isDir bool) error {
	if !isDir {
		return os.Remove(path)
	}
	ds := filepath.Join(path, ".DS_Store")
	if err := os.Remove(ds); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Remove(path)
}

// brokenSymlinks reports symlinks whose target no longer exists
type brokenSymlinks struct {
	base
	scanRoots []platform.ScanRoot
}

// NewBrokenSymlinks returns the broken-symlinks category
func NewBrokenSymlinks(env *Env) Category {
	return &brokenSymlinks{
		base: base{
			id:    IDBrokenSymlinks,
			label: "Broken Symlinks",
			env:   env,
			roots: rootPaths(env.Platform.SymlinkRoots),
		},
		scanRoots: env.Platform.SymlinkRoots,
	}
}

func (c *brokenSymlinks) Scan(ctx context.Context, progress ProgressCallback) (*Result, error) {
	res := c.result()

	for _, root := range c.scanRoots {
		w := walker{
			maxDepth: root.MaxDepth,
			skipDir:  func(name string) bool { return nameIn(name, hygieneSkipDirs) },
			onError:  res.Warn,
		}
		err := w.walk(ctx, root.Path, func(path string, d fs.DirEntry, _ int) error {
			if d.Type()&fs.ModeSymlink == 0 {
				return nil
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				return nil
			}
			target, _ := os.Readlink(path)
			entry := Entry{Path: path, Category: c.id, Reason: "Target missing: " + target}
			if info, err := d.Info(); err == nil {
				entry.Size = info.Size()
				entry.ModTime = info.ModTime()
			}
			res.Add(entry)
			c.report(progress, res, path)
			return nil
		})
		if err != nil {
			return res, cancelled(c.id, err)
		}
	}

	res.SortByPath()
	return res, nil
}

func rootPaths(roots []platform.ScanRoot) []string {
	paths := make([]string, 0, len(roots))
	for _, r := range roots {
		paths = append(paths, r.Path)
	}
	return paths
}
