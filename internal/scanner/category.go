package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fenilsonani/reclaim/internal/cleaner"
	"github.com/fenilsonani/reclaim/internal/config"
	"github.com/fenilsonani/reclaim/internal/logger"
	"github.com/fenilsonani/reclaim/internal/platform"
)

// Category turns a set of directories into sized, removable entries.
//
// Scan never modifies the filesystem. Clean removes a subset of the entries
// the category produced; with DryRun set it only reports what would happen.
type Category interface {
	ID() string
	Label() string
	Scan(ctx context.Context, progress ProgressCallback) (*Result, error)
	Clean(ctx context.Context, selected []Entry, opts CleanOptions) *Outcome
}

// CleanOptions control a single Clean call
type CleanOptions struct {
	DryRun bool
	// Erase replaces the category's own way of destroying an entry, as
	// secure deletion does. The category's checks still run first.
	Erase  cleaner.EraseFunc
	Method string
}

// Env carries what categories need to find and remove their entries
type Env struct {
	Config   *config.Config
	Platform *platform.Info
	Remover  *cleaner.Remover
}

// excluded reports whether the base name of path matches an exclude pattern
func (e *Env) excluded(path string) bool {
	name := filepath.Base(path)
	for _, pattern := range e.Config.ExcludePattern {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// homeRoots returns roots, or the given home subdirectories when roots is empty
func (e *Env) homeRoots(roots []string, subdirs ...string) []string {
	if len(roots) > 0 {
		return roots
	}
	if len(subdirs) == 0 {
		return []string{e.Platform.HomeDir}
	}
	out := make([]string, 0, len(subdirs))
	for _, s := range subdirs {
		out = append(out, filepath.Join(e.Platform.HomeDir, s))
	}
	return out
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

// base holds the parts shared by every category
type base struct {
	id    string
	label string
	env   *Env
	roots []string
	erase cleaner.EraseFunc // nil means cleaner.Unlink
	// guard runs right before any erase, default or overridden
	guard func(path string, isDir bool) error
}

func (b *base) ID() string    { return b.id }
func (b *base) Label() string { return b.label }

func (b *base) result() *Result {
	return NewResult(b.id, b.roots)
}

// report forwards to progress when set
func (b *base) report(progress ProgressCallback, res *Result, path string) {
	if progress != nil {
		progress(b.id, path, res.Count(), res.TotalSize)
	}
}

// listChildren adds every top-level child of each root as one entry, sized
// recursively. Children named in exclude belong to other categories.
func (b *base) listChildren(ctx context.Context, res *Result, progress ProgressCallback, reason string, exclude []string) error {
	for _, root := range b.roots {
		err := (walker{maxDepth: 1, onError: res.Warn}).walk(ctx, root, func(path string, d fs.DirEntry, _ int) error {
			if nameIn(d.Name(), exclude) || b.env.excluded(path) {
				return nil
			}
			size, ok, err := measure(ctx, path, res)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				res.Warn(path, err)
				return nil
			}
			res.Add(Entry{
				Path:     path,
				Size:     size,
				Category: b.id,
				ModTime:  info.ModTime(),
				Reason:   reason,
			})
			b.report(progress, res, path)
			return nil
		})
		if err != nil {
			return cancelled(b.id, err)
		}
	}
	res.SortBySize()
	return nil
}

// Clean removes the selected entries one at a time
func (b *base) Clean(ctx context.Context, selected []Entry, opts CleanOptions) *Outcome {
	erase, method := b.erase, "unlink"
	if opts.Erase != nil {
		erase, method = opts.Erase, opts.Method
	}
	if erase == nil {
		erase = cleaner.Unlink
	}
	if guard := b.guard; guard != nil {
		inner := erase
		erase = func(ctx context.Context, path string, isDir bool) error {
			if err := guard(path, isDir); err != nil {
				return err
			}
			return inner(ctx, path, isDir)
		}
	}

	return CleanEntries(ctx, b.env.Remover, CleanSpec{
		Category: b.id,
		Roots:    b.roots,
		Erase:    erase,
		Method:   method,
	}, selected, opts.DryRun)
}

// CleanSpec describes how CleanEntries removes entries
type CleanSpec struct {
	Category string
	Roots    []string
	Erase    cleaner.EraseFunc
	Method   string
}

// CleanEntries removes each selected entry independently. A failure on one
// entry never stops the rest. Once ctx is cancelled the remaining entries
// are skipped with ErrorCancelled. In a dry run every check is performed
// but nothing is removed.
func CleanEntries(ctx context.Context, r *cleaner.Remover, spec CleanSpec, selected []Entry, dryRun bool) *Outcome {
	out := NewOutcome(dryRun)
	erase := spec.Erase
	if erase == nil {
		erase = cleaner.Unlink
	}
	method := spec.Method
	if method == "" {
		method = "unlink"
	}

	for _, e := range selected {
		if err := ctx.Err(); err != nil {
			out.Record(EntryOutcome{
				Entry:  e,
				Status: StatusSkipped,
				Reason: cleaner.ErrorCancelled,
				Err:    cleaner.NewError(cleaner.ErrorCancelled, e.Path, err),
			})
			continue
		}

		if spec.Category != "" && e.Category != spec.Category {
			out.Record(EntryOutcome{
				Entry:  e,
				Status: StatusFailed,
				Reason: cleaner.ErrorInvalidParameter,
				Err:    cleaner.InvalidParameter("%s was not produced by %s", e.Path, spec.Category),
			})
			continue
		}

		target := cleaner.Target{Path: e.Path, Size: e.Size, Category: e.Category, Roots: spec.Roots}
		var err error
		if dryRun {
			err = r.Check(target)
		} else {
			err = r.Erase(ctx, target, erase, method)
		}

		eo := outcomeFor(e, err)
		if eo.Status != StatusDeleted {
			logger.Debugf("%s %s: %v", eo.Status, e.Path, err)
		}
		out.Record(eo)
	}

	return out
}

// outcomeFor maps a removal error onto the entry's status. Races and
// permission problems skip the entry; everything else fails it.
func outcomeFor(e Entry, err error) EntryOutcome {
	if err == nil {
		return EntryOutcome{Entry: e, Status: StatusDeleted}
	}

	reason := cleaner.ReasonOf(err)
	status := StatusFailed
	switch reason {
	case cleaner.ErrorNotFound, cleaner.ErrorPermissionDenied, cleaner.ErrorTooRecent, cleaner.ErrorCancelled:
		status = StatusSkipped
	}
	return EntryOutcome{Entry: e, Status: status, Reason: reason, Err: err}
}

// cancelled converts a walk error into the result of a cancelled scan
func cancelled(id string, err error) error {
	return cleaner.NewError(cleaner.ErrorCancelled, "", fmt.Errorf("scan of %s stopped: %w", id, err))
}
