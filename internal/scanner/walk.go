package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// visitFunc is called for every entry below the walk root. depth is 1 for
// the root's direct children. Returning fs.SkipDir prunes a directory.
type visitFunc func(path string, d fs.DirEntry, depth int) error

// walker is a depth-first directory walker that never follows symlinks and
// keeps going when a directory cannot be read.
type walker struct {
	maxDepth int // 0 means unlimited
	skipDir  func(name string) bool
	onError  func(path string, err error)
}

func (w walker) walk(ctx context.Context, root string, visit visitFunc) error {
	info, err := os.Lstat(root)
	if err != nil {
		if !os.IsNotExist(err) && w.onError != nil {
			w.onError(root, err)
		}
		return nil
	}
	if !info.IsDir() {
		return nil
	}

	type item struct {
		path  string
		depth int
	}
	stack := []item{{path: root}}
	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(current.path)
		if err != nil {
			if w.onError != nil {
				w.onError(current.path, err)
			}
			continue
		}

		depth := current.depth + 1
		var subdirs []string
		for _, child := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(current.path, child.Name())

			if child.IsDir() && w.skipDir != nil && w.skipDir(child.Name()) {
				continue
			}

			if err := visit(path, child, depth); err != nil {
				if err == fs.SkipDir {
					continue
				}
				return err
			}

			if child.IsDir() && (w.maxDepth == 0 || depth < w.maxDepth) {
				subdirs = append(subdirs, path)
			}
		}
		// Push in reverse so subdirectories are popped in name order
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, item{path: subdirs[i], depth: depth})
		}
	}
	return nil
}

// measure sums the regular files below path. A problem reading path itself
// returns ok false; problems further down become warnings on res. A
// cancelled ctx is returned as err and the size is then meaningless.
func measure(ctx context.Context, path string, res *Result) (size int64, ok bool, err error) {
	info, err := os.Lstat(path)
	if err != nil {
		res.Warn(path, err)
		return 0, false, nil
	}
	if !info.IsDir() {
		return info.Size(), true, nil
	}

	ok = true
	w := walker{onError: func(p string, err error) {
		if p == path {
			ok = false
		}
		res.Warn(p, err)
	}}
	err = w.walk(ctx, path, func(p string, d fs.DirEntry, _ int) error {
		if !d.Type().IsRegular() {
			return nil
		}
		if fi, err := d.Info(); err == nil {
			size += fi.Size()
		}
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return size, ok, nil
}

// nameIn reports whether name equals one of names
func nameIn(name string, names []string) bool {
	for _, n := range names {
		if name == n {
			return true
		}
	}
	return false
}

// hasSuffixFold reports whether name ends with one of suffixes, ignoring case
func hasSuffixFold(name string, suffixes []string) bool {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// globBase returns the longest leading part of pattern free of wildcards
func globBase(pattern string) string {
	idx := strings.IndexAny(pattern, "*?[")
	if idx < 0 {
		return filepath.Clean(pattern)
	}
	return filepath.Dir(pattern[:idx+1])
}

// existing filters paths down to the ones that exist
func existing(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Lstat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func fileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
