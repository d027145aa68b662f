package cleaner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"
)

// ErrorReason categorizes why an operation on a path failed
type ErrorReason int

const (
	ErrorPermissionDenied ErrorReason = iota
	ErrorNotFound
	ErrorFileInUse
	ErrorIO
	ErrorHashComputation
	ErrorInvalidPath
	ErrorUnknownCategory
	ErrorInvalidParameter
	ErrorCancelled
	ErrorTooRecent
	// ErrorPartial means a cancelled shred had already destroyed some files
	ErrorPartial
)

// String returns a human-readable error reason
func (e ErrorReason) String() string {
	switch e {
	case ErrorPermissionDenied:
		return "permission denied"
	case ErrorNotFound:
		return "not found"
	case ErrorFileInUse:
		return "file in use"
	case ErrorIO:
		return "i/o error"
	case ErrorHashComputation:
		return "hash computation failed"
	case ErrorInvalidPath:
		return "unsafe path"
	case ErrorUnknownCategory:
		return "unknown category"
	case ErrorInvalidParameter:
		return "invalid parameter"
	case ErrorCancelled:
		return "cancelled"
	case ErrorTooRecent:
		return "too recent"
	case ErrorPartial:
		return "partially shredded"
	default:
		return "unspecified error"
	}
}

// MarshalText renders the reason by name in JSON and YAML reports
func (e ErrorReason) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// OpError is a path-scoped failure carrying its categorized reason
type OpError struct {
	Path      string
	Reason    ErrorReason
	Err       error
	Retryable bool
}

// Error implements the error interface
func (e *OpError) Error() string {
	switch {
	case e.Path == "" && e.Err == nil:
		return e.Reason.String()
	case e.Path == "":
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	default:
		return fmt.Sprintf("%s: %s (%v)", e.Path, e.Reason, e.Err)
	}
}

// Unwrap returns the underlying cause
func (e *OpError) Unwrap() error {
	return e.Err
}

// Is matches the reason-only sentinels below, so errors.Is(err,
// ErrUnknownCategory) works for any OpError with that reason.
func (e *OpError) Is(target error) bool {
	t, ok := target.(*OpError)
	if !ok || t.Path != "" || t.Err != nil {
		return false
	}
	return e.Reason == t.Reason
}

// UserMessage returns a user-friendly error message
func (e *OpError) UserMessage() string {
	switch e.Reason {
	case ErrorPermissionDenied:
		return fmt.Sprintf("Permission denied: %s", e.Path)
	case ErrorFileInUse:
		return fmt.Sprintf("File is being used: %s (close the application and try again)", e.Path)
	case ErrorNotFound:
		return fmt.Sprintf("Already gone: %s", e.Path)
	case ErrorInvalidPath:
		return fmt.Sprintf("Refused unsafe path: %s", e.Path)
	case ErrorHashComputation:
		return fmt.Sprintf("Could not read for hashing: %s", e.Path)
	case ErrorCancelled:
		return fmt.Sprintf("Cancelled before %s", e.Path)
	case ErrorTooRecent:
		return fmt.Sprintf("Skipped recently modified %s", e.Path)
	case ErrorPartial:
		return fmt.Sprintf("Stopped part way through %s, some files are already destroyed", e.Path)
	default:
		return fmt.Sprintf("Error on %s: %v", e.Path, e.Err)
	}
}

// Reason-only sentinels for errors.Is
var (
	ErrPermissionDenied = &OpError{Reason: ErrorPermissionDenied}
	ErrNotFound         = &OpError{Reason: ErrorNotFound}
	ErrIO               = &OpError{Reason: ErrorIO}
	ErrHashComputation  = &OpError{Reason: ErrorHashComputation}
	ErrInvalidPath      = &OpError{Reason: ErrorInvalidPath}
	ErrUnknownCategory  = &OpError{Reason: ErrorUnknownCategory}
	ErrInvalidParameter = &OpError{Reason: ErrorInvalidParameter}
	ErrCancelled        = &OpError{Reason: ErrorCancelled}

	// ErrTooNew marks an entry skipped because it was modified too recently
	ErrTooNew = &OpError{Reason: ErrorTooRecent}
	// ErrPartial marks a directory shred interrupted after some files went
	ErrPartial = &OpError{Reason: ErrorPartial}
)

// NewError builds an OpError with the given reason.
func NewError(reason ErrorReason, path string, err error) *OpError {
	return &OpError{Path: path, Reason: reason, Err: err, Retryable: reason == ErrorFileInUse}
}

// UnknownCategory reports a category id the registry does not know.
func UnknownCategory(id string) *OpError {
	return &OpError{Reason: ErrorUnknownCategory, Err: fmt.Errorf("no category with id %q", id)}
}

// InvalidParameter reports a malformed request argument.
func InvalidParameter(format string, args ...interface{}) *OpError {
	return &OpError{Reason: ErrorInvalidParameter, Err: fmt.Errorf(format, args...)}
}

// CategorizeError analyzes an error and returns a categorized OpError
func CategorizeError(path string, err error) *OpError {
	if err == nil {
		return nil
	}

	var existing *OpError
	if errors.As(err, &existing) {
		return existing
	}

	opErr := &OpError{
		Path:   path,
		Err:    err,
		Reason: ErrorIO,
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		opErr.Reason = ErrorCancelled
		return opErr
	}

	// Check syscall errors
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM:
			opErr.Reason = ErrorPermissionDenied
		case syscall.EBUSY, syscall.ETXTBSY:
			opErr.Reason = ErrorFileInUse
			opErr.Retryable = true
		case syscall.ENOENT:
			opErr.Reason = ErrorNotFound
		default:
			opErr.Reason = ErrorIO
		}
		return opErr
	}

	if os.IsNotExist(err) {
		opErr.Reason = ErrorNotFound
		return opErr
	}

	if os.IsPermission(err) {
		opErr.Reason = ErrorPermissionDenied
		return opErr
	}

	return opErr
}

// ReasonOf extracts the categorized reason from err, defaulting to ErrorIO
func ReasonOf(err error) ErrorReason {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Reason
	}
	return CategorizeError("", err).Reason
}

// GroupErrors groups errors by reason
func GroupErrors(errs []*OpError) map[ErrorReason][]*OpError {
	grouped := make(map[ErrorReason][]*OpError)
	for _, err := range errs {
		grouped[err.Reason] = append(grouped[err.Reason], err)
	}
	return grouped
}

// FormatErrorSummary creates a user-friendly summary of errors
func FormatErrorSummary(errs []*OpError) string {
	if len(errs) == 0 {
		return ""
	}

	grouped := GroupErrors(errs)
	reasons := make([]ErrorReason, 0, len(grouped))
	for reason := range grouped {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })

	var b strings.Builder
	b.WriteString("\nIssues encountered:\n")
	for i, reason := range reasons {
		branch := "├─"
		if i == len(reasons)-1 {
			branch = "└─"
		}
		fmt.Fprintf(&b, "   %s %s: %d\n", branch, reason, len(grouped[reason]))
		switch reason {
		case ErrorPermissionDenied:
			b.WriteString("   │  └─ Tip: grant access (Full Disk Access on macOS) or run as the owning user\n")
		case ErrorFileInUse:
			b.WriteString("   │  └─ Tip: close applications and retry\n")
		}
	}

	return b.String()
}
