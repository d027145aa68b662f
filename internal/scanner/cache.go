package scanner

import (
	"context"
	"path/filepath"
	"sort"
)

// systemCaches reports each per-application cache directory
type systemCaches struct {
	base
}

// NewSystemCaches returns the system-caches category
func NewSystemCaches(env *Env) Category {
	return &systemCaches{base{
		id:    IDSystemCaches,
		label: "System Caches",
		env:   env,
		roots: env.Platform.CacheDirs,
	}}
}

func (c *systemCaches) Scan(ctx context.Context, progress ProgressCallback) (*Result, error) {
	res := c.result()
	// Browser, package-manager and Homebrew caches are reported by their own categories
	err := c.listChildren(ctx, res, progress, "Application cache", c.env.Platform.CacheExclusions)
	return res, err
}

// browserCaches reports the cache directories of known browsers
type browserCaches struct {
	base
	globs []string
}

// NewBrowserCaches returns the browser-caches category
func NewBrowserCaches(env *Env) Category {
	globs := env.Platform.BrowserCacheGlobs
	return &browserCaches{
		base: base{
			id:    IDBrowserCaches,
			label: "Browser Caches",
			env:   env,
			roots: globRoots(globs),
		},
		globs: globs,
	}
}

func (c *browserCaches) Scan(ctx context.Context, progress ProgressCallback) (*Result, error) {
	res := c.result()
	err := scanGlobs(ctx, &c.base, res, progress, c.globs, "Browser cache")
	res.SortBySize()
	return res, err
}

// packageManagers reports language package-manager download caches
type packageManagers struct {
	base
}

// NewPackageManagers returns the package-managers category
func NewPackageManagers(env *Env) Category {
	return &packageManagers{base{
		id:    IDPackageManagers,
		label: "Package Manager Caches",
		env:   env,
		roots: env.Platform.PackageCaches,
	}}
}

func (c *packageManagers) Scan(ctx context.Context, progress ProgressCallback) (*Result, error) {
	res := c.result()
	for _, dir := range existing(c.roots) {
		if err := ctx.Err(); err != nil {
			return res, cancelled(c.id, err)
		}
		size, ok, err := measure(ctx, dir, res)
		if err != nil {
			return res, cancelled(c.id, err)
		}
		if !ok || size == 0 {
			continue
		}
		res.Add(Entry{
			Path:     dir,
			Size:     size,
			Category: c.id,
			Reason:   "Package download cache (re-downloaded on demand)",
		})
		c.report(progress, res, dir)
	}
	res.SortBySize()
	return res, nil
}

// homebrew reports downloaded bottles and source archives
type homebrew struct {
	base
}

// NewHomebrew returns the homebrew category
func NewHomebrew(env *Env) Category {
	return &homebrew{base{
		id:    IDHomebrew,
		label: "Homebrew Cache",
		env:   env,
		roots: env.Platform.HomebrewCaches,
	}}
}

func (c *homebrew) Scan(ctx context.Context, progress ProgressCallback) (*Result, error) {
	res := c.result()
	err := c.listChildren(ctx, res, progress, "Homebrew download", nil)
	return res, err
}

// scanGlobs adds one entry per glob match, sized recursively
func scanGlobs(ctx context.Context, b *base, res *Result, progress ProgressCallback, globs []string, reason string) error {
	seen := make(map[string]bool)
	for _, pattern := range globs {
		if err := ctx.Err(); err != nil {
			return cancelled(b.id, err)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		sort.Strings(matches)
		for _, path := range matches {
			if seen[path] || b.env.excluded(path) {
				continue
			}
			seen[path] = true
			size, ok, err := measure(ctx, path, res)
			if err != nil {
				return cancelled(b.id, err)
			}
			if !ok {
				continue
			}
			res.Add(Entry{
				Path:     path,
				Size:     size,
				Category: b.id,
				Reason:   reason,
			})
			b.report(progress, res, path)
		}
	}
	return nil
}

// globRoots returns the distinct wildcard-free prefixes of globs
func globRoots(globs []string) []string {
	seen := make(map[string]bool)
	var roots []string
	for _, g := range globs {
		r := globBase(g)
		if !seen[r] {
			seen[r] = true
			roots = append(roots, r)
		}
	}
	return roots
}
