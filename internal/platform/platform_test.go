package platform

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestForHome(t *testing.T) {
	home := "/home/alice"

	for _, p := range []Platform{Linux, MacOS} {
		t.Run(string(p), func(t *testing.T) {
			info, err := ForHome(p, home, "alice")
			if err != nil {
				t.Fatalf("ForHome(%s) failed: %v", p, err)
			}
			if info.OS != p {
				t.Errorf("OS = %s, want %s", info.OS, p)
			}
			if len(info.CacheDirs) == 0 || len(info.CacheExclusions) == 0 {
				t.Error("expected cache dirs and exclusions")
			}
			if !info.IsProtectedPath(home) {
				t.Error("home directory itself should be protected")
			}
			if info.IsProtectedPath(filepath.Join(home, "scratch")) {
				t.Error("arbitrary home subdirectory should not be protected")
			}
			for _, dir := range info.PackageCaches {
				if !strings.HasPrefix(dir, home) {
					t.Errorf("package cache %s should live under home", dir)
				}
			}
		})
	}
}

func TestCacheExclusionsCoverOwnedDirs(t *testing.T) {
	info, _ := ForHome(MacOS, "/Users/bob", "bob")

	excluded := make(map[string]bool)
	for _, name := range info.CacheExclusions {
		excluded[name] = true
	}
	// Every package cache and homebrew dir directly under ~/Library/Caches must be excluded
	for _, dir := range append(append([]string{}, info.PackageCaches...), info.HomebrewCaches...) {
		if filepath.Dir(dir) == info.CacheDirs[0] && !excluded[filepath.Base(dir)] {
			t.Errorf("%s is owned by another category but not excluded from system caches", dir)
		}
	}
}

func TestForHomeUnsupported(t *testing.T) {
	if _, err := ForHome(Unknown, "/home/x", "x"); err != ErrUnsupportedPlatform {
		t.Errorf("expected ErrUnsupportedPlatform, got %v", err)
	}
}
