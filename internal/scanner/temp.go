package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"time"
)

// tempFiles reports regular files in temp directories older than the
// configured age
type tempFiles struct {
	base
	maxAge time.Duration
}

// NewTempFiles returns the temp-files category
func NewTempFiles(env *Env) Category {
	return &tempFiles{
		base: base{
			id:    IDTempFiles,
			label: "Temporary Files",
			env:   env,
			roots: env.Platform.TempDirs,
		},
		maxAge: days(env.Config.AgeThresholds.Temp),
	}
}

func (c *tempFiles) Scan(ctx context.Context, progress ProgressCallback) (*Result, error) {
	res := c.result()
	w := walker{maxDepth: 6, onError: res.Warn}

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
			age := time.Since(info.ModTime())
			if age < c.maxAge {
				return nil
			}
			res.Add(Entry{
				Path:     path,
				Size:     info.Size(),
				Category: c.id,
				ModTime:  info.ModTime(),
				Reason:   fmt.Sprintf("Temporary file older than %d days", int(c.maxAge.Hours()/24)),
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
