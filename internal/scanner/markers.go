package scanner

import (
	"context"
	"io/fs"
)

// Directories never descended into when hunting for small metadata files
var markerSkipDirs = []string{".git", "node_modules", ".Trash", "Library", ".cargo", ".rustup", ".npm"}

// markerFiles reports Finder and Explorer metadata such as .DS_Store
type markerFiles struct {
	base
	names    []string
	maxDepth int
}

// NewMarkerFiles returns the marker-files category
func NewMarkerFiles(env *Env) Category {
	cfg := env.Config.Markers
	return &markerFiles{
		base: base{
			id:    IDMarkerFiles,
			label: "Marker Files (.DS_Store)",
			env:   env,
			roots: env.homeRoots(cfg.Roots),
		},
		names:    cfg.Names,
		maxDepth: cfg.MaxDepth,
	}
}

func (c *markerFiles) Scan(ctx context.Context, progress ProgressCallback) (*Result, error) {
	res := c.result()
	w := walker{
		maxDepth: c.maxDepth,
		skipDir:  func(name string) bool { return nameIn(name, markerSkipDirs) },
		onError:  res.Warn,
	}

	for _, root := range c.roots {
		err := w.walk(ctx, root, func(path string, d fs.DirEntry, _ int) error {
			if !d.Type().IsRegular() || !nameIn(d.Name(), c.names) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				res.Warn(path, err)
				return nil
			}
			res.Add(Entry{
				Path:     path,
				Size:     info.Size(),
				Category: c.id,
				ModTime:  info.ModTime(),
				Reason:   "Folder metadata, recreated automatically",
			})
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
