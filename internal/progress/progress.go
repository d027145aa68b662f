package progress

import (
	"fmt"
	"time"

	"github.com/fenilsonani/reclaim/internal/cleaner"
	"github.com/fenilsonani/reclaim/pkg/utils"
)

// Operation names the kind of work an event stream belongs to
type Operation string

const (
	OperationScan  Operation = "scan"
	OperationClean Operation = "clean"
	OperationShred Operation = "shred"
)

// Event is one update from a running operation. The set of events is
// closed; switch on the concrete type.
type Event interface {
	isEvent()
}

// ScanProgress reports entries found so far in one category
type ScanProgress struct {
	Category        string
	CurrentPath     string
	FilesFound      int
	TotalSize       int64
	CategoriesDone  int
	CategoriesTotal int
}

// CleanProgress reports one entry handled during a clean
type CleanProgress struct {
	Category   string
	Path       string
	Status     string
	Done       int
	Total      int
	BytesFreed int64
}

// ShredProgress reports one completed overwrite pass
type ShredProgress struct {
	Path       string
	Pass       int
	Passes     int
	Size       int64
	FilesDone  int
	FilesTotal int
}

// Warning is a non-fatal problem with one path
type Warning struct {
	Path    string
	Reason  cleaner.ErrorReason
	Message string
}

// Completed ends a stream that ran to the end or was cancelled
type Completed struct {
	Summary Summary
}

// Failed ends a stream that could not finish
type Failed struct {
	Reason  cleaner.ErrorReason
	Err     error
	Summary Summary
}

func (ScanProgress) isEvent()  {}
func (CleanProgress) isEvent() {}
func (ShredProgress) isEvent() {}
func (Warning) isEvent()       {}
func (Completed) isEvent()     {}
func (Failed) isEvent()        {}

// Terminal reports whether e ends its stream
func Terminal(e Event) bool {
	switch e.(type) {
	case Completed, Failed:
		return true
	}
	return false
}

// Summary totals an operation. Completed counts entries deleted or shredded
// (or that would be, in a dry run).
type Summary struct {
	Operation Operation
	Completed int
	Skipped   int
	Cancelled int
	Failed    int
	Bytes     int64
	DryRun    bool
	Warnings  int
	Duration  time.Duration
}

// Total is the number of entries the operation was asked to handle
func (s Summary) Total() int {
	return s.Completed + s.Skipped + s.Cancelled + s.Failed
}

func (s Summary) String() string {
	switch s.Operation {
	case OperationScan:
		return fmt.Sprintf("Scan complete: %d entries (%s), %d warnings in %s",
			s.Completed, utils.FormatBytes(s.Bytes), s.Warnings, FormatDuration(s.Duration))
	default:
		verb := "freed"
		if s.DryRun {
			verb = "would be freed"
		}
		return fmt.Sprintf("%s complete: %d done, %d skipped, %d cancelled, %d failed - %s %s in %s",
			title(s.Operation), s.Completed, s.Skipped, s.Cancelled, s.Failed,
			utils.FormatBytes(s.Bytes), verb, FormatDuration(s.Duration))
	}
}

func title(op Operation) string {
	switch op {
	case OperationClean:
		return "Cleanup"
	case OperationShred:
		return "Shred"
	default:
		return string(op)
	}
}

// Format returns a one-line human-readable rendering of e
func Format(e Event) string {
	switch ev := e.(type) {
	case ScanProgress:
		return fmt.Sprintf("Scanning %s (%d/%d)... Found %d files (%s)",
			ev.Category, ev.CategoriesDone+1, ev.CategoriesTotal, ev.FilesFound, utils.FormatBytes(ev.TotalSize))
	case CleanProgress:
		percentage := 0
		if ev.Total > 0 {
			percentage = ev.Done * 100 / ev.Total
		}
		return fmt.Sprintf("Cleaning... %d/%d (%d%%) - %s freed",
			ev.Done, ev.Total, percentage, utils.FormatBytes(ev.BytesFreed))
	case ShredProgress:
		return fmt.Sprintf("Shredding %s: pass %d/%d (file %d/%d)",
			ev.Path, ev.Pass, ev.Passes, ev.FilesDone+1, ev.FilesTotal)
	case Warning:
		if ev.Message != "" {
			return "Warning: " + ev.Message
		}
		return fmt.Sprintf("Warning: %s: %s", ev.Reason, ev.Path)
	case Completed:
		return ev.Summary.String()
	case Failed:
		return fmt.Sprintf("%s failed: %v", title(ev.Summary.Operation), ev.Err)
	default:
		return ""
	}
}

// FormatDuration formats duration in human-readable format
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
