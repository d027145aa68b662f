package cleaner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"testing"
)

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		reason    ErrorReason
		retryable bool
	}{
		{"EACCES - permission denied", syscall.EACCES, ErrorPermissionDenied, false},
		{"EPERM - operation not permitted", syscall.EPERM, ErrorPermissionDenied, false},
		{"ENOENT - file not found", syscall.ENOENT, ErrorNotFound, false},
		{"EBUSY - resource busy", syscall.EBUSY, ErrorFileInUse, true},
		{"ETXTBSY - text file busy", syscall.ETXTBSY, ErrorFileInUse, true},
		{"EIO - i/o error", syscall.EIO, ErrorIO, false},
		{"wrapped EACCES", fmt.Errorf("failed to remove: %w", syscall.EACCES), ErrorPermissionDenied, false},
		{"os.PathError with EACCES", &os.PathError{Op: "remove", Path: "/test/file.txt", Err: syscall.EACCES}, ErrorPermissionDenied, false},
		{"os.ErrNotExist", os.ErrNotExist, ErrorNotFound, false},
		{"os.ErrPermission", os.ErrPermission, ErrorPermissionDenied, false},
		{"context canceled", fmt.Errorf("walk: %w", context.Canceled), ErrorCancelled, false},
		{"generic error", errors.New("disk on fire"), ErrorIO, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opErr := CategorizeError("/some/path", tt.err)

			if opErr.Reason != tt.reason {
				t.Errorf("CategorizeError(%v) reason = %v, want %v", tt.err, opErr.Reason, tt.reason)
			}
			if opErr.Retryable != tt.retryable {
				t.Errorf("CategorizeError(%v) retryable = %v, want %v", tt.err, opErr.Retryable, tt.retryable)
			}
			if opErr.Path != "/some/path" {
				t.Errorf("CategorizeError(%v) path = %s, want /some/path", tt.err, opErr.Path)
			}
			if !errors.Is(opErr, tt.err) {
				t.Errorf("CategorizeError(%v) should wrap the original error", tt.err)
			}
		})
	}

	if CategorizeError("/x", nil) != nil {
		t.Error("CategorizeError(nil) should return nil")
	}
}

func TestCategorizeErrorKeepsExisting(t *testing.T) {
	orig := NewError(ErrorHashComputation, "/a", errors.New("short read"))
	wrapped := fmt.Errorf("phase 3: %w", orig)

	if got := CategorizeError("/b", wrapped); got != orig {
		t.Errorf("expected existing OpError to be returned, got %v", got)
	}
}

func TestSentinels(t *testing.T) {
	err := fmt.Errorf("submit: %w", UnknownCategory("bogus"))

	if !errors.Is(err, ErrUnknownCategory) {
		t.Error("expected errors.Is(err, ErrUnknownCategory)")
	}
	if errors.Is(err, ErrInvalidParameter) {
		t.Error("unknown category must not match ErrInvalidParameter")
	}
	if ReasonOf(err) != ErrorUnknownCategory {
		t.Errorf("ReasonOf = %v, want unknown category", ReasonOf(err))
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error should name the category: %s", err)
	}

	if !errors.Is(InvalidParameter("passes must be >= 1"), ErrInvalidParameter) {
		t.Error("expected InvalidParameter to match ErrInvalidParameter")
	}
}

func TestErrorReasonString(t *testing.T) {
	tests := []struct {
		reason ErrorReason
		want   string
	}{
		{ErrorPermissionDenied, "permission denied"},
		{ErrorNotFound, "not found"},
		{ErrorFileInUse, "file in use"},
		{ErrorIO, "i/o error"},
		{ErrorHashComputation, "hash computation failed"},
		{ErrorUnknownCategory, "unknown category"},
		{ErrorInvalidParameter, "invalid parameter"},
		{ErrorCancelled, "cancelled"},
		{ErrorTooRecent, "too recent"},
		{ErrorPartial, "partially shredded"},
		{ErrorReason(99), "unspecified error"},
	}

	for _, tt := range tests {
		if got := tt.reason.String(); got != tt.want {
			t.Errorf("ErrorReason(%d).String() = %q, want %q", tt.reason, got, tt.want)
		}
		text, _ := tt.reason.MarshalText()
		if string(text) != tt.want {
			t.Errorf("MarshalText = %q, want %q", text, tt.want)
		}
	}
}

func TestOpErrorMessages(t *testing.T) {
	withPath := NewError(ErrorPermissionDenied, "/test/file.txt", os.ErrPermission)
	if !strings.Contains(withPath.Error(), "/test/file.txt") {
		t.Errorf("Error() should contain path: %s", withPath.Error())
	}
	if !strings.Contains(withPath.UserMessage(), "Permission denied") {
		t.Errorf("UserMessage() = %s", withPath.UserMessage())
	}

	busy := NewError(ErrorFileInUse, "/test/open.txt", syscall.EBUSY)
	if !busy.Retryable {
		t.Error("file-in-use errors should be retryable")
	}
	if !strings.Contains(busy.UserMessage(), "close the application") {
		t.Errorf("UserMessage() = %s", busy.UserMessage())
	}
}

func TestFormatErrorSummary(t *testing.T) {
	errs := []*OpError{
		NewError(ErrorPermissionDenied, "/a", os.ErrPermission),
		NewError(ErrorPermissionDenied, "/b", os.ErrPermission),
		NewError(ErrorFileInUse, "/c", syscall.EBUSY),
		NewError(ErrorNotFound, "/d", os.ErrNotExist),
	}

	summary := FormatErrorSummary(errs)
	for _, want := range []string{"permission denied: 2", "file in use: 1", "not found: 1", "Full Disk Access"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}

	if FormatErrorSummary(nil) != "" {
		t.Error("empty error list should produce empty summary")
	}

	grouped := GroupErrors(errs)
	if len(grouped[ErrorPermissionDenied]) != 2 {
		t.Errorf("expected 2 permission errors, got %d", len(grouped[ErrorPermissionDenied]))
	}
}
