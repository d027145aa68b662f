package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"

	"github.com/fenilsonani/reclaim/internal/logger"
)

// buildArtifacts reports IDE derived data plus build output directories in
// project trees. A project directory is only reported when a .gitignore
// between it and the project root ignores it, so tracked sources named
// "build" or "dist" are left alone.
type buildArtifacts struct {
	base
	devCaches   []string
	projectDirs []string
	patterns    []string
	maxDepth    int
}

// NewBuildArtifacts returns the build-artifacts category
func NewBuildArtifacts(env *Env) Category {
	cfg := env.Config.Dev
	projects := make([]string, 0, len(cfg.ProjectDirs))
	for _, dir := range cfg.ProjectDirs {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(env.Platform.HomeDir, dir)
		}
		projects = append(projects, dir)
	}

	roots := append([]string{}, env.Platform.DevCaches...)
	roots = append(roots, projects...)

	return &buildArtifacts{
		base: base{
			id:    IDBuildArtifacts,
			label: "Build Artifacts",
			env:   env,
			roots: roots,
		},
		devCaches:   env.Platform.DevCaches,
		projectDirs: projects,
		patterns:    cfg.BuildPatterns,
		maxDepth:    cfg.MaxDepth,
	}
}

func (c *buildArtifacts) Scan(ctx context.Context, progress ProgressCallback) (*Result, error) {
	res := c.result()

	// Derived data, simulator and archive stores: every child is disposable
	for _, dir := range c.devCaches {
		b := c.base
		b.roots = []string{dir}
		if err := b.listChildren(ctx, res, progress, "IDE build cache", nil); err != nil {
			return res, err
		}
	}

	for _, root := range c.projectDirs {
		if err := c.scanProjects(ctx, root, res, progress); err != nil {
			return res, cancelled(c.id, err)
		}
	}

	res.SortBySize()
	return res, nil
}

func (c *buildArtifacts) scanProjects(ctx context.Context, root string, res *Result, progress ProgressCallback) error {
	matchers := make(map[string]gitignore.IgnoreMatcher)
	w := walker{
		maxDepth: c.maxDepth,
		skipDir:  func(name string) bool { return name == ".git" },
		onError:  res.Warn,
	}

	return w.walk(ctx, root, func(path string, d fs.DirEntry, _ int) error {
		if !d.IsDir() || !nameIn(d.Name(), c.patterns) {
			return nil
		}
		if !c.ignored(path, root, matchers) {
			// Not ignored: could be tracked source, keep looking inside
			return nil
		}

		size, ok, err := measure(ctx, path, res)
		if err != nil {
			return err
		}
		if ok && size > 0 {
			entry := Entry{
				Path:     path,
				Size:     size,
				Category: c.id,
				Reason:   "Ignored build output (" + d.Name() + ")",
			}
			if info, err := d.Info(); err == nil {
				entry.ModTime = info.ModTime()
			}
			res.Add(entry)
			c.report(progress, res, path)
		}
		return fs.SkipDir
	})
}

// ignored reports whether a .gitignore in any directory from path's parent
// up to root ignores path
func (c *buildArtifacts) ignored(path, root string, matchers map[string]gitignore.IgnoreMatcher) bool {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		m, seen := matchers[dir]
		if !seen {
			m = loadIgnore(dir)
			matchers[dir] = m
		}
		if m != nil && m.Match(path, true) {
			return true
		}
		if dir == root || dir == filepath.Dir(dir) {
			return false
		}
	}
}

func loadIgnore(dir string) gitignore.IgnoreMatcher {
	file := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(file); err != nil {
		return nil
	}
	m, err := gitignore.NewGitIgnore(file, dir)
	if err != nil {
		logger.Debugf("could not parse %s: %v", file, err)
		return nil
	}
	return m
}
