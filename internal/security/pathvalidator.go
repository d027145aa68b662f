package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNotAbsolute  = errors.New("path must be absolute")
	ErrNotCanonical = errors.New("path is not in canonical form")
	ErrUnsafeChars  = errors.New("path contains control or shell characters")
	ErrProtected    = errors.New("path is protected")
)

// unsafeChars never appear in a path we are willing to delete
const unsafeChars = ";|$`<>\n\r\x00"

// systemRoots are refused, together with their immediate children
var systemRoots = []string{
	"/",
	"/bin", "/boot", "/dev", "/etc", "/lib", "/lib64",
	"/proc", "/root", "/sbin", "/sys", "/usr", "/var",
	"/System", "/Applications", "/Library/System",
}

// PathValidator is the last gate before anything is unlinked. A path
// passes only if it is absolute and canonical, carries no unsafe
// characters, and neither it nor its parent is a protected directory.
type PathValidator struct {
	protected map[string]struct{}
}

// NewPathValidator protects the system roots plus any extra paths
func NewPathValidator(extra ...string) *PathValidator {
	pv := &PathValidator{protected: make(map[string]struct{}, len(systemRoots)+len(extra))}
	for _, p := range systemRoots {
		pv.AddProtectedPath(p)
	}
	for _, p := range extra {
		pv.AddProtectedPath(p)
	}
	return pv
}

// AddProtectedPath refuses path and its direct children from now on
func (pv *PathValidator) AddProtectedPath(path string) {
	if path == "" {
		return
	}
	pv.protected[filepath.Clean(path)] = struct{}{}
}

// ValidatePathForDeletion returns nil when path may be deleted. Only the
// parent is resolved through symlinks: an entry that is itself a link is
// removed, never followed.
func (pv *PathValidator) ValidatePathForDeletion(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %q", ErrNotAbsolute, path)
	}
	if filepath.Clean(path) != path {
		return fmt.Errorf("%w: %s", ErrNotCanonical, path)
	}
	if strings.ContainsAny(path, unsafeChars) {
		return fmt.Errorf("%w: %q", ErrUnsafeChars, path)
	}

	if err := pv.refuseProtected(path); err != nil {
		return err
	}

	parent, err := filepath.EvalSymlinks(filepath.Dir(path))
	switch {
	case err == nil:
		return pv.refuseProtected(filepath.Join(parent, filepath.Base(path)))
	case os.IsNotExist(err):
		return nil
	default:
		return fmt.Errorf("resolve parent of %s: %w", path, err)
	}
}

func (pv *PathValidator) refuseProtected(path string) error {
	if _, ok := pv.protected[path]; ok {
		return fmt.Errorf("%w: %s", ErrProtected, path)
	}
	if parent := filepath.Dir(path); parent != path {
		if _, ok := pv.protected[parent]; ok {
			return fmt.Errorf("%w: %s is directly under %s", ErrProtected, path, parent)
		}
	}
	return nil
}

// IsWithin reports whether path is one of roots or lies beneath one of them.
// An empty roots list contains nothing.
func IsWithin(path string, roots []string) bool {
	clean := filepath.Clean(path)
	for _, root := range roots {
		rel, err := filepath.Rel(filepath.Clean(root), clean)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, "../")) {
			return true
		}
	}
	return false
}

// ValidateGlobPattern rejects malformed patterns and ones that climb out
// of their base directory.
func ValidateGlobPattern(pattern string) error {
	if strings.Contains(pattern, "..") {
		return fmt.Errorf("glob pattern contains directory traversal: %s", pattern)
	}
	if _, err := filepath.Match(pattern, "sample"); err != nil {
		return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	return nil
}
