package scanner

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/h2non/filetype"

	"github.com/fenilsonani/reclaim/pkg/utils"
)

// largeFiles reports files at or above the size threshold. Entries are
// report-only: they are removed only when picked individually.
type largeFiles struct {
	base
	minSize  int64
	maxDepth int
	exclude  []string
}

// NewLargeFiles returns the large-files category
func NewLargeFiles(env *Env) Category {
	cfg := env.Config.LargeFiles
	return &largeFiles{
		base: base{
			id:    IDLargeFiles,
			label: "Large Files",
			env:   env,
			roots: env.homeRoots(cfg.Roots),
		},
		minSize:  env.Config.LargeFileMin(),
		maxDepth: cfg.MaxDepth,
		exclude:  cfg.ExcludeDirs,
	}
}

func (c *largeFiles) Scan(ctx context.Context, progress ProgressCallback) (*Result, error) {
	res := c.result()
	w := walker{
		maxDepth: c.maxDepth,
		skipDir:  func(name string) bool { return nameIn(name, c.exclude) },
		onError:  res.Warn,
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
			res.Add(Entry{
				Path:       path,
				Size:       info.Size(),
				Category:   c.id,
				ReportOnly: true,
				ModTime:    info.ModTime(),
				Reason:     fmt.Sprintf("Large %s (%s)", kindOf(path), utils.FormatBytes(info.Size())),
			})
			c.report(progress, res, path)
			return nil
		})
		if err != nil {
			return res, cancelled(c.id, err)
		}
	}

	// Biggest first
	res.SortBySize()
	return res, nil
}

// kindOf sniffs the file header and returns its MIME type, or "file"
func kindOf(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return "file"
	}
	defer f.Close()

	buf := make([]byte, 261)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return "file"
	}

	kind, err := filetype.Match(buf[:n])
	if err != nil || kind == filetype.Unknown || kind.MIME.Value == "" {
		return "file"
	}
	return kind.MIME.Value
}
