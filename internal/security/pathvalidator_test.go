package security

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidatePathForDeletion(t *testing.T) {
	pv := NewPathValidator()
	dir := t.TempDir()

	link := filepath.Join(dir, "passwd-link")
	if err := os.Symlink("/etc/passwd", link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{"file under temp dir", filepath.Join(dir, "file.txt"), nil},
		{"symlink into /etc is judged by its own location", link, nil},
		{"parentheses are fine", filepath.Join(dir, "Screenshot (1).png"), nil},
		{"missing parent", filepath.Join(dir, "gone", "deeper", "x"), nil},
		{"relative", "relative/path.txt", ErrNotAbsolute},
		{"empty", "", ErrNotAbsolute},
		{"dot segments", "/tmp/../var/test.txt", ErrNotCanonical},
		{"double slash", "/tmp//test//file.txt", ErrNotCanonical},
		{"trailing slash", "/tmp/test/", ErrNotCanonical},
		{"nul byte", filepath.Join(dir, "a\x00b"), ErrUnsafeChars},
		{"newline", filepath.Join(dir, "a\nb"), ErrUnsafeChars},
		{"command substitution", filepath.Join(dir, "$(rm)"), ErrUnsafeChars},
		{"root", "/", ErrProtected},
		{"system root", "/bin", ErrProtected},
		{"child of system root", "/etc/newfile", ErrProtected},
		{"top-level directory", "/tmp", ErrProtected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pv.ValidatePathForDeletion(tt.path)
			if tt.want == nil {
				if err != nil {
					t.Errorf("ValidatePathForDeletion(%q) = %v, want nil", tt.path, err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidatePathForDeletion(%q) = %v, want %v", tt.path, err, tt.want)
			}
		})
	}
}

func TestExtraProtectedPaths(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "keep")
	pv := NewPathValidator(keep, "")

	tests := []struct {
		path    string
		refused bool
	}{
		{keep, true},
		{filepath.Join(keep, "child"), true},
		{filepath.Join(keep, "a", "b"), false},
		{filepath.Join(dir, "sibling"), false},
	}
	for _, tt := range tests {
		err := pv.ValidatePathForDeletion(tt.path)
		if got := errors.Is(err, ErrProtected); got != tt.refused {
			t.Errorf("ValidatePathForDeletion(%s) = %v, refused want %v", tt.path, err, tt.refused)
		}
	}
}

func TestProtectedThroughSymlinkedParent(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "target")
	if err := os.Mkdir(target, 0755); err != nil {
		t.Fatal(err)
	}
	alias := filepath.Join(dir, "alias")
	if err := os.Symlink(target, alias); err != nil {
		t.Fatal(err)
	}

	pv := NewPathValidator(target)
	if err := pv.ValidatePathForDeletion(filepath.Join(alias, "file")); !errors.Is(err, ErrProtected) {
		t.Errorf("child reached through a linked parent = %v, want protected", err)
	}
}

func TestIsWithin(t *testing.T) {
	roots := []string{"/home/u/.cache", "/tmp/scan/"}

	tests := []struct {
		path string
		want bool
	}{
		{"/home/u/.cache", true},
		{"/home/u/.cache/app/file", true},
		{"/tmp/scan/x", true},
		{"/home/u/.cachex/file", false},
		{"/home/u/.cache/../secret", false},
		{"/home/u", false},
		{"/etc/passwd", false},
	}

	for _, tt := range tests {
		if got := IsWithin(tt.path, roots); got != tt.want {
			t.Errorf("IsWithin(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if IsWithin("/anything", nil) {
		t.Error("empty roots should contain nothing")
	}
}

func TestValidateGlobPattern(t *testing.T) {
	tests := []struct {
		pattern string
		wantErr bool
	}{
		{"*.txt", false},
		{"[abc]*.log", false},
		{"file?.txt", false},
		{"", false},
		{"/etc/*", false},
		{"[abc", true},
		{"../*.txt", true},
	}

	for _, tt := range tests {
		err := ValidateGlobPattern(tt.pattern)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateGlobPattern(%q) = %v, wantErr %v", tt.pattern, err, tt.wantErr)
		}
	}
}
