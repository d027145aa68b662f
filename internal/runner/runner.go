// Package runner executes scans, cleans and shreds off the caller's
// goroutine, one at a time, streaming progress events back.
package runner

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fenilsonani/reclaim/internal/cleaner"
	"github.com/fenilsonani/reclaim/internal/controller"
	"github.com/fenilsonani/reclaim/internal/logger"
	"github.com/fenilsonani/reclaim/internal/progress"
	"github.com/fenilsonani/reclaim/internal/scanner"
	"github.com/fenilsonani/reclaim/internal/security"
	"github.com/fenilsonani/reclaim/internal/shredder"
)

// ErrBusy is returned by Submit while another operation is running
var ErrBusy = errors.New("another operation is already running")

// Kind selects what a Request does
type Kind int

const (
	KindScan Kind = iota
	KindClean
	KindShred
)

func (k Kind) String() string {
	switch k {
	case KindScan:
		return "scan"
	case KindClean:
		return "clean"
	case KindShred:
		return "shred"
	default:
		return "unknown"
	}
}

// Request describes one operation
type Request struct {
	Kind Kind
	// Categories holds ids or "all"; used by scan and clean
	Categories []string
	// Selection lists entry paths to clean; ignored with SelectAll
	Selection []string
	SelectAll bool
	DryRun    bool
	// Confirmed must be set for a clean to change anything
	Confirmed bool
	// Shred makes a clean overwrite entries before removal
	Shred bool
	// Passes overrides the configured shred pass count when positive
	Passes int
	// Paths are shredded by a KindShred request
	Paths []string
}

// Options configures a Runner
type Options struct {
	ScanEventsPerSecond int
	Shred               shredder.Options
	Validator           *security.PathValidator
}

// Runner owns the controller and runs at most one operation at a time
type Runner struct {
	registry *scanner.Registry
	ctrl     *controller.Controller
	opts     Options

	mu     sync.Mutex
	active *Operation

	// afterShred runs after each file of a shred batch
	afterShred func(op *Operation, r shredder.FileResult)
}

// New creates a Runner
func New(registry *scanner.Registry, ctrl *controller.Controller, opts Options) *Runner {
	if opts.Validator == nil {
		opts.Validator = security.NewPathValidator()
	}
	return &Runner{registry: registry, ctrl: ctrl, opts: opts}
}

// Controller returns the controller holding the latest scan results
func (r *Runner) Controller() *controller.Controller {
	return r.ctrl
}

// Busy reports whether an operation is running
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil
}

// Submit validates req and starts it in the background. Malformed
// requests and unknown categories are rejected here before any I/O, as
// is any request made while another operation runs.
func (r *Runner) Submit(ctx context.Context, req Request) (*Operation, error) {
	cats, err := r.validate(req)
	if err != nil {
		logger.Warnf("rejected %s request: %v", req.Kind, err)
		return nil, err
	}

	r.mu.Lock()
	if r.active != nil {
		kind := r.active.kind
		r.mu.Unlock()
		logger.Warnf("rejected %s request: %s in progress", req.Kind, kind)
		return nil, ErrBusy
	}

	opCtx, cancel := context.WithCancel(ctx)
	op := &Operation{
		kind:   req.Kind,
		stream: progress.NewStream(r.opts.ScanEventsPerSecond),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	r.active = op
	r.mu.Unlock()

	go r.run(opCtx, op, req, cats)
	return op, nil
}

func (r *Runner) validate(req Request) ([]scanner.Category, error) {
	switch req.Kind {
	case KindScan, KindClean:
		cats, err := r.registry.Resolve(req.Categories)
		if err != nil {
			return nil, err
		}
		if req.Kind == KindClean && !req.SelectAll && len(req.Selection) == 0 {
			return nil, cleaner.InvalidParameter("clean needs a selection or select-all")
		}
		if req.Passes < 0 {
			return nil, cleaner.InvalidParameter("passes must be positive")
		}
		return cats, nil
	case KindShred:
		if len(req.Paths) == 0 {
			return nil, cleaner.InvalidParameter("no paths to shred")
		}
		if req.Passes < 0 {
			return nil, cleaner.InvalidParameter("passes must be positive")
		}
		for _, p := range req.Paths {
			if !filepath.IsAbs(p) {
				return nil, cleaner.InvalidParameter("shred path must be absolute: %s", p)
			}
		}
		return nil, nil
	default:
		return nil, cleaner.InvalidParameter("unknown request kind %d", int(req.Kind))
	}
}

func (r *Runner) run(ctx context.Context, op *Operation, req Request, cats []scanner.Category) {
	start := time.Now()
	logger.Infof("%s started", req.Kind)

	var (
		summary progress.Summary
		err     error
	)
	switch req.Kind {
	case KindScan:
		summary, err = r.scan(ctx, op, cats)
	case KindClean:
		summary, err = r.clean(ctx, op, req, cats)
	case KindShred:
		summary, err = r.shred(ctx, op, req)
	}
	summary.Duration = time.Since(start)

	// Release before the terminal event so a reader reacting to it can
	// submit the next operation straight away
	r.mu.Lock()
	r.active = nil
	r.mu.Unlock()

	op.finish(summary, err)
	logger.Infof("%s finished: %s", req.Kind, progress.Format(op.terminal))
}

func (r *Runner) scan(ctx context.Context, op *Operation, cats []scanner.Category) (progress.Summary, error) {
	summary := progress.Summary{Operation: progress.OperationScan}

	results, err := r.ctrl.Scan(ctx, cats, op.emit)
	for _, res := range results {
		summary.Completed += res.Count()
		summary.Bytes += res.TotalSize
		summary.Warnings += len(res.Warnings)
	}
	op.setResults(results)

	if err != nil {
		if cleaner.ReasonOf(err) == cleaner.ErrorCancelled {
			// categories that never finished
			summary.Cancelled = len(cats) - len(results) + 1
			return summary, nil
		}
		return summary, err
	}
	return summary, nil
}

func (r *Runner) clean(ctx context.Context, op *Operation, req Request, cats []scanner.Category) (progress.Summary, error) {
	ids := make([]string, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID())
	}

	if !r.ctrl.Holds(ids...) {
		if _, err := r.ctrl.Scan(ctx, cats, op.emit); err != nil {
			if cleaner.ReasonOf(err) == cleaner.ErrorCancelled {
				return progress.Summary{Operation: progress.OperationClean, Cancelled: len(req.Selection)}, nil
			}
			return progress.Summary{Operation: progress.OperationClean}, err
		}
	}
	op.setResults(r.ctrl.Results())

	if err := r.ctrl.ClearSelection(); err != nil {
		return progress.Summary{Operation: progress.OperationClean}, err
	}
	if req.SelectAll {
		if _, err := r.ctrl.SelectAll(); err != nil {
			return progress.Summary{Operation: progress.OperationClean}, err
		}
	}
	if len(req.Selection) > 0 {
		if err := r.ctrl.Select(req.Selection...); err != nil {
			return progress.Summary{Operation: progress.OperationClean}, err
		}
	}

	if len(r.ctrl.Selected()) > 0 {
		if err := r.ctrl.RequestConfirmation(); err != nil {
			return progress.Summary{Operation: progress.OperationClean}, err
		}
		if req.Confirmed && !req.DryRun {
			if err := r.ctrl.Confirm(); err != nil {
				return progress.Summary{Operation: progress.OperationClean}, err
			}
		}
	}

	var opts controller.DeleteOptions
	if req.Shred {
		opts.Shred = r.newShredder(req, op, 0)
	}
	out, err := r.ctrl.Delete(ctx, opts, op.emit)
	if err != nil {
		return progress.Summary{Operation: progress.OperationClean}, err
	}
	op.setOutcome(out)
	return controller.Summarize(progress.OperationClean, out), nil
}

func (r *Runner) shred(ctx context.Context, op *Operation, req Request) (progress.Summary, error) {
	summary := progress.Summary{Operation: progress.OperationShred}

	var allowed []string
	for _, p := range req.Paths {
		if err := r.opts.Validator.ValidatePathForDeletion(p); err != nil {
			op.emit(progress.Warning{Path: p, Reason: cleaner.ErrorInvalidPath, Message: err.Error()})
			summary.Failed++
			summary.Warnings++
			continue
		}
		allowed = append(allowed, p)
	}

	done := 0
	s := r.newShredder(req, op, len(allowed))
	s.OnPass(func(path string, pass, passes int, size int64) {
		op.emit(progress.ShredProgress{
			Path:       path,
			Pass:       pass,
			Passes:     passes,
			Size:       size,
			FilesDone:  done,
			FilesTotal: len(allowed),
		})
	})

	s.ShredBatch(ctx, allowed, func(res shredder.FileResult) {
		done++
		switch {
		case res.Err == nil:
			summary.Completed++
			summary.Bytes += res.Bytes
		case res.Cancelled():
			summary.Cancelled++
		default:
			summary.Failed++
			summary.Warnings++
			summary.Bytes += res.Bytes
			op.emit(progress.Warning{Path: res.Path, Reason: cleaner.ReasonOf(res.Err), Message: res.Err.Error()})
		}
		if r.afterShred != nil {
			r.afterShred(op, res)
		}
	})

	return summary, nil
}

func (r *Runner) newShredder(req Request, op *Operation, total int) *shredder.Shredder {
	opts := r.opts.Shred
	if req.Passes > 0 {
		opts.Passes = req.Passes
	}
	s := shredder.New(opts)
	if req.Kind == KindClean {
		s.OnPass(func(path string, pass, passes int, size int64) {
			op.emit(progress.ShredProgress{Path: path, Pass: pass, Passes: passes, Size: size, FilesTotal: total})
		})
	}
	return s
}
