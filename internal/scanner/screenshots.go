package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"time"
)

var (
	screenshotPrefixes   = []string{"Screenshot ", "Screenshot_", "Screen Shot ", "Screen Recording "}
	screenshotExtensions = []string{".png", ".jpg", ".jpeg", ".tiff", ".gif", ".mov", ".mp4"}
)

// screenshots reports screen captures older than the configured age
type screenshots struct {
	base
	maxAge time.Duration
}

// NewScreenshots returns the screenshots category
func NewScreenshots(env *Env) Category {
	return &screenshots{
		base: base{
			id:    IDScreenshots,
			label: "Old Screenshots",
			env:   env,
			roots: env.Platform.ScreenshotDirs,
		},
		maxAge: days(env.Config.AgeThresholds.Screenshots),
	}
}

func (c *screenshots) Scan(ctx context.Context, progress ProgressCallback) (*Result, error) {
	res := c.result()
	w := walker{maxDepth: 1, onError: res.Warn}

	for _, root := range c.roots {
		err := w.walk(ctx, root, func(path string, d fs.DirEntry, _ int) error {
			if !d.Type().IsRegular() || !isScreenshot(d.Name()) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				res.Warn(path, err)
				return nil
			}
			age := time.Since(info.ModTime())
			if age <= c.maxAge {
				return nil
			}
			res.Add(Entry{
				Path:     path,
				Size:     info.Size(),
				Category: c.id,
				ModTime:  info.ModTime(),
				Reason:   fmt.Sprintf("Screenshot taken %d days ago", int(age.Hours()/24)),
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

func isScreenshot(name string) bool {
	for _, prefix := range screenshotPrefixes {
		if strings.HasPrefix(name, prefix) {
			return hasSuffixFold(name, screenshotExtensions)
		}
	}
	return false
}
