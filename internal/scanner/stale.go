package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/djherbis/times"
)

// staleFiles reports big files in user folders that have not been opened
// for a long time. Last use is the access time, falling back to the
// modification time when the filesystem does not track access.
type staleFiles struct {
	base
	minSize    int64
	maxAge     time.Duration
	maxDepth   int
	skipDirs   []string
	skipBundle []string
	now        func() time.Time
}

// NewStaleFiles returns the stale-files category
func NewStaleFiles(env *Env) Category {
	cfg := env.Config
	return &staleFiles{
		base: base{
			id:    IDStaleFiles,
			label: "Stale Files",
			env:   env,
			roots: env.homeRoots(cfg.StaleFiles.Roots, "Downloads", "Documents", "Desktop"),
		},
		minSize:    cfg.StaleFileMin(),
		maxAge:     days(cfg.AgeThresholds.StaleFiles),
		maxDepth:   cfg.StaleFiles.MaxDepth,
		skipDirs:   cfg.Duplicates.SkipDirs,
		skipBundle: cfg.Duplicates.SkipBundle,
		now:        time.Now,
	}
}

func (c *staleFiles) Scan(ctx context.Context, progress ProgressCallback) (*Result, error) {
	res := c.result()
	cutoff := c.now().Add(-c.maxAge)
	w := walker{
		maxDepth: c.maxDepth,
		skipDir: func(name string) bool {
			return nameIn(name, c.skipDirs) || hasSuffixFold(name, c.skipBundle)
		},
		onError: res.Warn,
	}

	for _, root := range c.roots {
		err := w.walk(ctx, root, func(path string, d fs.DirEntry, _ int) error {
			if !d.Type().IsRegular() || c.env.excluded(path) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				res.Warn(path, err)
				return nil
			}
			if info.Size() < c.minSize {
				return nil
			}

			lastUsed := lastUse(path, info)
			if lastUsed.After(cutoff) {
				return nil
			}

			res.Add(Entry{
				Path:     path,
				Size:     info.Size(),
				Category: c.id,
				ModTime:  info.ModTime(),
				Reason:   fmt.Sprintf("Not opened since %s", lastUsed.Format("2006-01-02")),
			})
			c.report(progress, res, path)
			return nil
		})
		if err != nil {
			return res, cancelled(c.id, err)
		}
	}

	res.SortBySize()
	return res, nil
}

// lastUse returns the later of access and modification time
func lastUse(path string, info fs.FileInfo) time.Time {
	ts, err := times.Stat(path)
	if err != nil {
		return info.ModTime()
	}
	atime := ts.AccessTime()
	if atime.IsZero() || atime.Before(info.ModTime()) {
		return info.ModTime()
	}
	return atime
}
