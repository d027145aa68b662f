package scanner

import (
	"context"
	"io/fs"

	"github.com/fenilsonani/reclaim/internal/cleaner"
	"github.com/fenilsonani/reclaim/internal/platform"
)

const trashAccessHint = "Trash access denied. Grant Full Disk Access: System Settings > Privacy & Security > Full Disk Access, then enable your terminal"

// trash reports every item in the user's trash
type trash struct {
	base
}

// NewTrash returns the trash category
func NewTrash(env *Env) Category {
	return &trash{base{
		id:    IDTrash,
		label: "Trash",
		env:   env,
		roots: env.Platform.TrashDirs,
	}}
}

func (c *trash) Scan(ctx context.Context, progress ProgressCallback) (*Result, error) {
	res := c.result()

	for _, root := range c.roots {
		w := walker{maxDepth: 1, onError: func(path string, err error) {
			if path == root && c.env.Platform.OS == platform.MacOS && cleaner.ReasonOf(err) == cleaner.ErrorPermissionDenied {
				res.Warnings = append(res.Warnings, Warning{
					Path:    path,
					Reason:  cleaner.ErrorPermissionDenied,
					Message: trashAccessHint,
				})
				return
			}
			res.Warn(path, err)
		}}

		err := w.walk(ctx, root, func(path string, d fs.DirEntry, _ int) error {
			size, ok, err := measure(ctx, path, res)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			entry := Entry{Path: path, Size: size, Category: c.id, Reason: "In trash"}
			if info, err := d.Info(); err == nil {
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

	res.SortBySize()
	return res, nil
}
