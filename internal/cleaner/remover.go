package cleaner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fenilsonani/reclaim/internal/security"
)

// Target describes one entry handed to the Remover
type Target struct {
	Path     string
	Size     int64
	Category string
	// Roots bounds where deletion may happen; the path must lie inside one
	Roots []string
}

// EraseFunc destroys a single path. isDir reports the Lstat result.
type EraseFunc func(ctx context.Context, path string, isDir bool) error

// Unlink removes files with os.Remove and directories with os.RemoveAll.
func Unlink(_ context.Context, path string, isDir bool) error {
	if isDir {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

// Remover deletes entries behind the path, permission and containment checks
type Remover struct {
	validator   *security.PathValidator
	access      unlinkAccess
	minAge      time.Duration
	retryDelays []time.Duration
	manifest    *DeletionManifest
}

// NewRemover creates a Remover. minAge of zero disables the age check.
func NewRemover(validator *security.PathValidator, minAge time.Duration) *Remover {
	if validator == nil {
		validator = security.NewPathValidator()
	}
	return &Remover{
		validator: validator,
		access:    newUnlinkAccess(),
		minAge:    minAge,
		retryDelays: []time.Duration{
			100 * time.Millisecond,
			500 * time.Millisecond,
			2 * time.Second,
		},
	}
}

// SetManifest records successful removals into m
func (r *Remover) SetManifest(m *DeletionManifest) {
	r.manifest = m
}

// Manifest returns the attached manifest, if any
func (r *Remover) Manifest() *DeletionManifest {
	return r.manifest
}

// SetRetryDelays overrides the back-off schedule for in-use files
func (r *Remover) SetRetryDelays(delays []time.Duration) {
	r.retryDelays = delays
}

// Check runs every pre-deletion check without touching the filesystem.
// It returns nil or an *OpError describing why the entry cannot be
// removed; entries newer than the minimum age match ErrTooNew.
func (r *Remover) Check(t Target) error {
	if !security.IsWithin(t.Path, t.Roots) {
		return NewError(ErrorInvalidPath, t.Path, fmt.Errorf("outside the scanned roots"))
	}

	if err := r.validator.ValidatePathForDeletion(t.Path); err != nil {
		return NewError(ErrorInvalidPath, t.Path, err)
	}

	// Use Lstat to not follow symlinks
	info, err := os.Lstat(t.Path)
	if err != nil {
		return CategorizeError(t.Path, err)
	}

	if err := r.access.check(t.Path, info); err != nil {
		return err
	}

	if age := time.Since(info.ModTime()); r.minAge > 0 && age < r.minAge {
		return NewError(ErrorTooRecent, t.Path, fmt.Errorf("modified %s ago (safety check)", age.Round(time.Second)))
	}

	return nil
}

// Remove unlinks the target after Check passes
func (r *Remover) Remove(ctx context.Context, t Target) error {
	return r.Erase(ctx, t, Unlink, "unlink")
}

// Erase destroys the target with fn after Check passes, retrying transient
// in-use failures. Successful erasures are added to the manifest.
func (r *Remover) Erase(ctx context.Context, t Target, fn EraseFunc, method string) error {
	if err := r.Check(t); err != nil {
		return err
	}

	info, err := os.Lstat(t.Path)
	if err != nil {
		return CategorizeError(t.Path, err)
	}

	var lastErr *OpError
	for attempt := 0; attempt <= len(r.retryDelays); attempt++ {
		err := fn(ctx, t.Path, info.IsDir())
		if err == nil {
			if r.manifest != nil {
				r.manifest.Add(t.Path, t.Size, t.Category, method)
			}
			return nil
		}

		lastErr = CategorizeError(t.Path, err)
		if !lastErr.Retryable {
			return lastErr
		}

		if attempt < len(r.retryDelays) {
			select {
			case <-ctx.Done():
				return NewError(ErrorCancelled, t.Path, ctx.Err())
			case <-time.After(r.retryDelays[attempt]):
			}
		}
	}

	// Retries exhausted on a busy file
	lastErr.Reason = ErrorIO
	lastErr.Retryable = false
	return lastErr
}
