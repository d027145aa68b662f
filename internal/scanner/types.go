package scanner

import (
	"sort"
	"time"

	"github.com/fenilsonani/reclaim/internal/cleaner"
)

// Entry is one reclaimable path found during a scan
type Entry struct {
	Path     string `json:"path" yaml:"path"`
	Size     int64  `json:"size" yaml:"size"`
	Category string `json:"category" yaml:"category"`
	GroupKey string `json:"group,omitempty" yaml:"group,omitempty"` // full digest for duplicates, empty otherwise
	// ReportOnly entries are never removed by select-all
	ReportOnly bool      `json:"report_only,omitempty" yaml:"report_only,omitempty"`
	ModTime    time.Time `json:"modified" yaml:"modified"`
	Reason     string    `json:"reason" yaml:"reason"` // Why this path was flagged for cleanup
}

// Warning is a non-fatal problem met while scanning or cleaning
type Warning struct {
	Path    string              `json:"path" yaml:"path"`
	Reason  cleaner.ErrorReason `json:"reason" yaml:"reason"`
	Message string              `json:"message,omitempty" yaml:"message,omitempty"`
}

// Result represents the outcome of scanning one category
type Result struct {
	Category  string
	Entries   []Entry
	TotalSize int64
	Warnings  []Warning
	// Roots are the directories the scan was allowed to look in. Deletion
	// is confined to them.
	Roots []string
	// Groups is set by the duplicate detector only
	Groups []DuplicateGroup
}

// NewResult returns an empty result for category id
func NewResult(id string, roots []string) *Result {
	return &Result{
		Category: id,
		Entries:  []Entry{},
		Warnings: []Warning{},
		Roots:    roots,
	}
}

// Add appends an entry and updates the total
func (r *Result) Add(e Entry) {
	r.Entries = append(r.Entries, e)
	r.TotalSize += e.Size
}

// Warn records a categorized warning for path
func (r *Result) Warn(path string, err error) {
	opErr := cleaner.CategorizeError(path, err)
	r.Warnings = append(r.Warnings, Warning{
		Path:    path,
		Reason:  opErr.Reason,
		Message: err.Error(),
	})
}

// Count returns the number of entries
func (r *Result) Count() int {
	return len(r.Entries)
}

// SortBySize orders entries largest first, breaking ties by path
func (r *Result) SortBySize() {
	sort.SliceStable(r.Entries, func(i, j int) bool {
		if r.Entries[i].Size != r.Entries[j].Size {
			return r.Entries[i].Size > r.Entries[j].Size
		}
		return r.Entries[i].Path < r.Entries[j].Path
	})
}

// SortByPath orders entries lexicographically
func (r *Result) SortByPath() {
	sort.SliceStable(r.Entries, func(i, j int) bool {
		return r.Entries[i].Path < r.Entries[j].Path
	})
}

// DuplicateGroup is a set of byte-identical files with one keeper
type DuplicateGroup struct {
	Key       string // full-content digest
	Size      int64  // size of each member
	Keeper    Entry
	Removable []Entry
}

// Members returns the keeper followed by the removable entries
func (g DuplicateGroup) Members() []Entry {
	members := make([]Entry, 0, len(g.Removable)+1)
	members = append(members, g.Keeper)
	return append(members, g.Removable...)
}

// TotalSize is the combined size of every member
func (g DuplicateGroup) TotalSize() int64 {
	return g.Size * int64(len(g.Removable)+1)
}

// Reclaimable is the space freed by removing every non-keeper
func (g DuplicateGroup) Reclaimable() int64 {
	return g.Size * int64(len(g.Removable))
}

// Status is the fate of a single entry in a clean
type Status int

const (
	StatusDeleted Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDeleted:
		return "deleted"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name in reports
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// EntryOutcome records what happened to one selected entry. In a dry run
// StatusDeleted means the entry would have been deleted.
type EntryOutcome struct {
	Entry  Entry               `json:"entry" yaml:"entry"`
	Status Status              `json:"status" yaml:"status"`
	Reason cleaner.ErrorReason `json:"reason" yaml:"reason"` // meaningful when Status is not StatusDeleted
	Err    error               `json:"-" yaml:"-"`
}

// Cancelled reports whether the entry was skipped because the run was cancelled
func (o EntryOutcome) Cancelled() bool {
	return o.Status == StatusSkipped && o.Reason == cleaner.ErrorCancelled
}

// Outcome aggregates a clean over a set of selected entries
type Outcome struct {
	Entries    []EntryOutcome
	BytesFreed int64
	DryRun     bool
}

// NewOutcome returns an empty outcome
func NewOutcome(dryRun bool) *Outcome {
	return &Outcome{Entries: []EntryOutcome{}, DryRun: dryRun}
}

// Record appends an entry outcome, counting freed bytes for deletions
func (o *Outcome) Record(eo EntryOutcome) {
	o.Entries = append(o.Entries, eo)
	if eo.Status == StatusDeleted {
		o.BytesFreed += eo.Entry.Size
	}
}

// Merge folds other into o
func (o *Outcome) Merge(other *Outcome) {
	if other == nil {
		return
	}
	for _, eo := range other.Entries {
		o.Record(eo)
	}
}

// Counts returns how many entries were deleted, skipped and failed.
// Cancelled entries are counted as skipped.
func (o *Outcome) Counts() (deleted, skipped, failed int) {
	for _, eo := range o.Entries {
		switch eo.Status {
		case StatusDeleted:
			deleted++
		case StatusSkipped:
			skipped++
		case StatusFailed:
			failed++
		}
	}
	return deleted, skipped, failed
}

// Cancelled returns the number of entries skipped due to cancellation
func (o *Outcome) Cancelled() int {
	n := 0
	for _, eo := range o.Entries {
		if eo.Cancelled() {
			n++
		}
	}
	return n
}

// Failures returns the errors of every failed entry
func (o *Outcome) Failures() []*cleaner.OpError {
	var errs []*cleaner.OpError
	for _, eo := range o.Entries {
		if eo.Status != StatusFailed || eo.Err == nil {
			continue
		}
		errs = append(errs, cleaner.CategorizeError(eo.Entry.Path, eo.Err))
	}
	return errs
}

// ProgressCallback is called during scanning to report progress
type ProgressCallback func(category, currentPath string, filesFound int, totalSize int64)
