package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// Common log file extensions
var logExtensions = []string{".log", ".log.gz", ".log.bz2", ".log.xz", ".ips", ".crash", ".diag"}

// appLogs reports log files older than the configured age. Rotated logs
// are reported regardless of age.
type appLogs struct {
	base
	maxAge time.Duration
}

// NewAppLogs returns the app-logs category
func NewAppLogs(env *Env) Category {
	return &appLogs{
		base: base{
			id:    IDAppLogs,
			label: "Application Logs",
			env:   env,
			roots: env.Platform.LogDirs,
		},
		maxAge: days(env.Config.AgeThresholds.Logs),
	}
}

func (c *appLogs) Scan(ctx context.Context, progress ProgressCallback) (*Result, error) {
	res := c.result()
	w := walker{maxDepth: 4, onError: res.Warn}

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

			name := filepath.Base(path)
			rotated := isRotatedLog(name)
			if !rotated && !hasSuffixFold(name, logExtensions) {
				return nil
			}

			age := time.Since(info.ModTime())
			reason := "Rotated log file"
			if !rotated {
				if age < c.maxAge {
					return nil
				}
				reason = fmt.Sprintf("Log file untouched for %d days", int(age.Hours()/24))
			}

			res.Add(Entry{
				Path:     path,
				Size:     info.Size(),
				Category: c.id,
				ModTime:  info.ModTime(),
				Reason:   reason,
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

// isRotatedLog matches file.log.1, file.log.2.gz and similar
func isRotatedLog(name string) bool {
	idx := strings.Index(name, ".log.")
	if idx < 0 {
		return false
	}
	rest := name[idx+len(".log."):]
	return rest != "" && rest[0] >= '0' && rest[0] <= '9'
}
