// Package controller holds scan results between a scan and the deletion
// the user confirms. Nothing on disk changes outside the Deleting phase.
package controller

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fenilsonani/reclaim/internal/cleaner"
	"github.com/fenilsonani/reclaim/internal/logger"
	"github.com/fenilsonani/reclaim/internal/progress"
	"github.com/fenilsonani/reclaim/internal/scanner"
	"github.com/fenilsonani/reclaim/internal/shredder"
)

// EmitFunc receives events as the controller produces them
type EmitFunc func(progress.Event)

// DeleteOptions tunes Delete
type DeleteOptions struct {
	// Shred overwrites entries before removal when set
	Shred *shredder.Shredder
}

// Controller is the safe-deletion state machine
type Controller struct {
	mu       sync.Mutex
	phase    Phase
	cats     map[string]scanner.Category
	order    []string
	results  map[string]*scanner.Result
	selected map[string]scanner.Entry
	// confirmed is set by Confirm and cleared by any selection change
	confirmed bool
}

// New creates an idle controller. Deletion, shredding included, goes
// through each category's own Clean.
func New() *Controller {
	return &Controller{
		results:  make(map[string]*scanner.Result),
		selected: make(map[string]scanner.Entry),
		cats:     make(map[string]scanner.Category),
	}
}

// Phase returns the current phase
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) step(t Trigger) error {
	next, err := Transition(c.phase, t)
	if err != nil {
		return cleaner.InvalidParameter("%v", err)
	}
	logger.Debugf("controller: %s -> %s (%s)", c.phase, next, t)
	c.phase = next
	return nil
}

// Scan runs every category in order and replaces the held results. A
// cancelled or failed scan returns the controller to Idle with nothing
// held. The results are also returned, partial ones included.
func (c *Controller) Scan(ctx context.Context, cats []scanner.Category, emit EmitFunc) ([]*scanner.Result, error) {
	c.mu.Lock()
	if err := c.step(StartScan); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.results = make(map[string]*scanner.Result)
	c.selected = make(map[string]scanner.Entry)
	c.cats = make(map[string]scanner.Category)
	c.order = nil
	c.confirmed = false
	c.mu.Unlock()

	if emit == nil {
		emit = func(progress.Event) {}
	}

	results := make([]*scanner.Result, 0, len(cats))
	for i, cat := range cats {
		done := i
		res, err := cat.Scan(ctx, func(category, path string, found int, size int64) {
			emit(progress.ScanProgress{
				Category:        category,
				CurrentPath:     path,
				FilesFound:      found,
				TotalSize:       size,
				CategoriesDone:  done,
				CategoriesTotal: len(cats),
			})
		})
		if res != nil {
			results = append(results, res)
			for _, w := range res.Warnings {
				emit(progress.Warning{Path: w.Path, Reason: w.Reason, Message: w.Message})
			}
		}
		if err != nil {
			c.abort(cleaner.ReasonOf(err))
			return results, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, res := range results {
		c.results[res.Category] = res
		c.cats[res.Category] = cats[i]
		c.order = append(c.order, res.Category)
	}
	return results, c.step(ScanDone)
}

func (c *Controller) abort(reason cleaner.ErrorReason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := Fail
	if reason == cleaner.ErrorCancelled {
		t = Cancel
	}
	c.step(t)
	c.results = make(map[string]*scanner.Result)
	c.selected = make(map[string]scanner.Entry)
	c.cats = make(map[string]scanner.Category)
	c.order = nil
}

// Results returns the held results in scan order
func (c *Controller) Results() []*scanner.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*scanner.Result, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.results[id])
	}
	return out
}

// Holds reports whether the held results are for exactly the given ids
func (c *Controller) Holds(ids ...string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(ids) == 0 || len(ids) != len(c.order) {
		return false
	}
	for _, id := range ids {
		if _, ok := c.results[id]; !ok {
			return false
		}
	}
	return true
}

func key(category, path string) string {
	return category + "\x00" + path
}

// SelectAll selects every held entry except report-only ones and returns
// how many are selected
func (c *Controller) SelectAll() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.step(Select); err != nil {
		return 0, err
	}
	c.confirmed = false
	for _, id := range c.order {
		for _, e := range c.results[id].Entries {
			if e.ReportOnly {
				continue
			}
			c.selected[key(e.Category, e.Path)] = e
		}
	}
	return len(c.selected), nil
}

// Select adds the held entries with the given paths. Report-only entries
// are selectable this way. Nothing is selected if any path is unknown.
func (c *Controller) Select(paths ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := Transition(c.phase, Select); err != nil {
		return cleaner.InvalidParameter("%v", err)
	}

	var found []scanner.Entry
	for _, p := range paths {
		matched := false
		for _, id := range c.order {
			for _, e := range c.results[id].Entries {
				if e.Path == p {
					found = append(found, e)
					matched = true
				}
			}
		}
		if !matched {
			return cleaner.InvalidParameter("%s is not in the scan results", p)
		}
	}

	c.step(Select)
	c.confirmed = false
	for _, e := range found {
		c.selected[key(e.Category, e.Path)] = e
	}
	return nil
}

// Deselect drops the given paths from the selection
func (c *Controller) Deselect(paths ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.step(Select); err != nil {
		return err
	}
	c.confirmed = false
	drop := make(map[string]bool, len(paths))
	for _, p := range paths {
		drop[p] = true
	}
	for k, e := range c.selected {
		if drop[e.Path] {
			delete(c.selected, k)
		}
	}
	return nil
}

// ClearSelection empties the selection
func (c *Controller) ClearSelection() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.step(Select); err != nil {
		return err
	}
	c.confirmed = false
	c.selected = make(map[string]scanner.Entry)
	return nil
}

// Selected returns the selection in scan order, then by path
func (c *Controller) Selected() []scanner.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection()
}

func (c *Controller) selection() []scanner.Entry {
	rank := make(map[string]int, len(c.order))
	for i, id := range c.order {
		rank[id] = i
	}
	out := make([]scanner.Entry, 0, len(c.selected))
	for _, e := range c.selected {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if rank[out[i].Category] != rank[out[j].Category] {
			return rank[out[i].Category] < rank[out[j].Category]
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// RequestConfirmation moves a non-empty selection to PendingConfirmation
func (c *Controller) RequestConfirmation() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.selected) == 0 {
		return cleaner.InvalidParameter("nothing selected")
	}
	return c.step(RequestConfirmation)
}

// Confirm records the user's go-ahead for the pending selection
func (c *Controller) Confirm() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PendingConfirmation {
		return cleaner.InvalidParameter("cannot confirm while %s", c.phase)
	}
	c.confirmed = true
	return nil
}

// Delete removes the selection through each category's Clean and
// aggregates the outcomes. Without a prior Confirm it is a dry run: every
// check runs, nothing is removed and the phase does not change. A real
// run always ends in Idle with the held results dropped. Cancellation
// skips the entries not yet reached.
func (c *Controller) Delete(ctx context.Context, opts DeleteOptions, emit EmitFunc) (*scanner.Outcome, error) {
	c.mu.Lock()
	dryRun := !c.confirmed
	switch {
	case dryRun && (c.phase == Idle || c.phase == Scanning || c.phase == Deleting):
		c.mu.Unlock()
		return nil, cleaner.InvalidParameter("cannot delete while %s", c.phase)
	case !dryRun:
		if err := c.step(Confirm); err != nil {
			c.mu.Unlock()
			return nil, err
		}
	}
	entries := c.selection()
	cats := c.cats
	c.mu.Unlock()

	if emit == nil {
		emit = func(progress.Event) {}
	}

	cleanOpts := scanner.CleanOptions{DryRun: dryRun}
	if opts.Shred != nil {
		cleanOpts.Erase, cleanOpts.Method = opts.Shred.Erase, "shred"
	}

	start := time.Now()
	out := scanner.NewOutcome(dryRun)
	for i, e := range entries {
		eo := cats[e.Category].Clean(ctx, []scanner.Entry{e}, cleanOpts)
		out.Merge(eo)

		for _, r := range eo.Entries {
			if r.Status != scanner.StatusDeleted && !r.Cancelled() {
				msg := ""
				if r.Err != nil {
					msg = r.Err.Error()
				}
				emit(progress.Warning{Path: r.Entry.Path, Reason: r.Reason, Message: msg})
			}
		}
		status := ""
		if len(eo.Entries) > 0 {
			status = eo.Entries[0].Status.String()
		}
		emit(progress.CleanProgress{
			Category:   e.Category,
			Path:       e.Path,
			Status:     status,
			Done:       i + 1,
			Total:      len(entries),
			BytesFreed: out.BytesFreed,
		})
	}

	deleted, skipped, failed := out.Counts()
	logger.WithFields(map[string]interface{}{
		"deleted": deleted,
		"skipped": skipped,
		"failed":  failed,
		"bytes":   out.BytesFreed,
		"dry_run": dryRun,
	}).Infof("delete finished in %s", progress.FormatDuration(time.Since(start)))

	if dryRun {
		return out, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	t := DeleteDone
	if ctx.Err() != nil {
		t = Cancel
	}
	c.step(t)
	c.results = make(map[string]*scanner.Result)
	c.selected = make(map[string]scanner.Entry)
	c.cats = make(map[string]scanner.Category)
	c.order = nil
	c.confirmed = false
	return out, nil
}

// Summarize turns an outcome into a progress summary
func Summarize(op progress.Operation, out *scanner.Outcome) progress.Summary {
	s := progress.Summary{Operation: op, DryRun: out.DryRun, Bytes: out.BytesFreed}
	for _, r := range out.Entries {
		switch {
		case r.Status == scanner.StatusDeleted:
			s.Completed++
		case r.Cancelled():
			s.Cancelled++
		case r.Status == scanner.StatusSkipped:
			s.Skipped++
			s.Warnings++
		default:
			s.Failed++
			s.Warnings++
		}
	}
	return s
}
