package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// ====================================================================
// Defaults
// ====================================================================

func TestDefaultCategories(t *testing.T) {
	cfg := GetDefault()

	for _, id := range []string{"system-caches", "app-logs", "browser-caches", "trash", "large-files", "duplicates", "stale-files"} {
		if !cfg.Categories.Enabled(id) {
			t.Errorf("%s should be on by default", id)
		}
	}
	for _, id := range []string{"privacy-data", "language-files", "no-such-category"} {
		if cfg.Categories.Enabled(id) {
			t.Errorf("%s should be off by default", id)
		}
	}
}

func TestDefaultLimits(t *testing.T) {
	cfg := GetDefault()

	tests := []struct {
		name string
		got  int64
		want int64
	}{
		{"large file min", cfg.LargeFileMin(), 100 << 20},
		{"duplicate min", cfg.DuplicateMin(), 1 << 20},
		{"duplicate max", cfg.DuplicateMax(), 500 << 20},
		{"stale file min", cfg.StaleFileMin(), 10 << 20},
		{"shred passes", int64(cfg.SecureDeletion.Passes), 3},
		{"shred buffer kb", int64(cfg.SecureDeletion.BufferSizeKB), 64},
		{"stale age days", int64(cfg.AgeThresholds.StaleFiles), 180},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

// ====================================================================
// Load and Save
// ====================================================================

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Categories.SystemCaches {
		t.Error("defaults not applied")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
categories:
  privacy_data: true
  trash: false
size_limits:
  large_file_min: 2GB
min_file_age: 72
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AgeThresholds.Logs != 30 || cfg.SizeLimits.DuplicateMin != "1MB" {
		t.Errorf("untouched keys lost their defaults: logs=%d duplicate_min=%s",
			cfg.AgeThresholds.Logs, cfg.SizeLimits.DuplicateMin)
	}
	if !cfg.Categories.PrivacyData || cfg.Categories.Trash {
		t.Error("category toggles not applied")
	}
	if cfg.LargeFileMin() != 2<<30 {
		t.Errorf("LargeFileMin = %d, want 2GB", cfg.LargeFileMin())
	}
	if cfg.MinFileAge != 72 {
		t.Errorf("MinFileAge = %d, want 72", cfg.MinFileAge)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "categories:\n  trash: [invalid\n"},
		{"negative age threshold", "age_thresholds:\n  logs: -5\n"},
		{"negative min file age", "min_file_age: -10\n"},
		{"invalid exclude pattern", "exclude_patterns:\n  - \"[invalid\"\n"},
		{"relative protected path", "protected_paths:\n  - \"relative/protected\"\n"},
		{"bad size", "size_limits:\n  large_file_min: lots\n"},
		{"duplicate bounds inverted", "size_limits:\n  duplicate_min: 1GB\n  duplicate_max: 1MB\n"},
		{"zero passes", "secure_deletion:\n  passes: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load accepted an invalid file")
			}
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "config.yaml")

	cfg := GetDefault()
	cfg.Categories.PrivacyData = true
	cfg.SecureDeletion.Passes = 7
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Categories.PrivacyData || got.SecureDeletion.Passes != 7 {
		t.Errorf("saved values not read back: privacy=%v passes=%d", got.Categories.PrivacyData, got.SecureDeletion.Passes)
	}
}

// ====================================================================
// Validate
// ====================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"negative temp", func(c *Config) { c.AgeThresholds.Temp = -1 }, true},
		{"negative stale", func(c *Config) { c.AgeThresholds.StaleFiles = -1 }, true},
		{"negative screenshots", func(c *Config) { c.AgeThresholds.Screenshots = -1 }, true},
		{"traversal pattern", func(c *Config) { c.ExcludePattern = []string{"../*"} }, true},
		{"zero buffer", func(c *Config) { c.SecureDeletion.BufferSizeKB = 0 }, true},
		{"absolute protected", func(c *Config) { c.ProtectedPaths = []string{"/data/keep"} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	path, err := GetConfigPath()
	if err != nil {
		t.Skipf("home directory unavailable: %v", err)
	}
	if filepath.Base(path) != "config.yaml" || filepath.Base(filepath.Dir(path)) != "reclaim" {
		t.Errorf("unexpected config path %s", path)
	}
}
