package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fenilsonani/reclaim/internal/security"
	"github.com/fenilsonani/reclaim/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Config is everything reclaim reads from config.yaml
type Config struct {
	Categories     Categories           `yaml:"categories"`
	AgeThresholds  AgeThresholds        `yaml:"age_thresholds"`
	SizeLimits     SizeLimits           `yaml:"size_limits"`
	Duplicates     DuplicatesConfig     `yaml:"duplicates"`
	LargeFiles     LargeFilesConfig     `yaml:"large_files"`
	StaleFiles     StaleFilesConfig     `yaml:"stale_files"`
	Dev            DevConfig            `yaml:"dev"`
	Markers        MarkersConfig        `yaml:"markers"`
	Languages      LanguagesConfig      `yaml:"languages"`
	ExcludePattern []string             `yaml:"exclude_patterns"`
	ProtectedPaths []string             `yaml:"protected_paths"`
	DryRun         bool                 `yaml:"dry_run"`
	MinFileAge     int                  `yaml:"min_file_age"` // in hours
	SecureDeletion SecureDeletionConfig `yaml:"secure_deletion"`
	Logging        LoggingConfig        `yaml:"logging"`
	Progress       ProgressConfig       `yaml:"progress"`
}

// Categories toggles each cleanup category. Keys match category ids.
type Categories struct {
	SystemCaches    bool `yaml:"system_caches"`
	AppLogs         bool `yaml:"app_logs"`
	BrowserCaches   bool `yaml:"browser_caches"`
	TempFiles       bool `yaml:"temp_files"`
	BuildArtifacts  bool `yaml:"build_artifacts"`
	PackageManagers bool `yaml:"package_managers"`
	Homebrew        bool `yaml:"homebrew"`
	Trash           bool `yaml:"trash"`
	MarkerFiles     bool `yaml:"marker_files"`
	LargeFiles      bool `yaml:"large_files"`
	LanguageFiles   bool `yaml:"language_files"`
	StaleFiles      bool `yaml:"stale_files"`
	Duplicates      bool `yaml:"duplicates"`
	PrivacyData     bool `yaml:"privacy_data"`
	Screenshots     bool `yaml:"screenshots"`
	EmptyFolders    bool `yaml:"empty_folders"`
	BrokenSymlinks  bool `yaml:"broken_symlinks"`
}

// AgeThresholds are in days
type AgeThresholds struct {
	Logs        int `yaml:"logs"`
	Temp        int `yaml:"temp"`
	StaleFiles  int `yaml:"stale_files"`
	Screenshots int `yaml:"screenshots"`
}

// SizeLimits holds human-readable size thresholds, e.g. "100MB"
type SizeLimits struct {
	LargeFileMin string `yaml:"large_file_min"`
	StaleFileMin string `yaml:"stale_file_min"`
	DuplicateMin string `yaml:"duplicate_min"`
	DuplicateMax string `yaml:"duplicate_max"`
}

// DuplicatesConfig controls the duplicate detector walk
type DuplicatesConfig struct {
	Roots      []string `yaml:"roots"` // empty means the home directory
	MaxDepth   int      `yaml:"max_depth"`
	SkipDirs   []string `yaml:"skip_dirs"`
	SkipBundle []string `yaml:"skip_bundle_extensions"`
}

// LargeFilesConfig controls the oversized file walk
type LargeFilesConfig struct {
	Roots       []string `yaml:"roots"`
	MaxDepth    int      `yaml:"max_depth"`
	ExcludeDirs []string `yaml:"exclude_dirs"`
}

// StaleFilesConfig controls the stale file walk
type StaleFilesConfig struct {
	Roots    []string `yaml:"roots"`
	MaxDepth int      `yaml:"max_depth"`
}

// DevConfig locates project build output
type DevConfig struct {
	ProjectDirs   []string `yaml:"project_dirs"`
	BuildPatterns []string `yaml:"build_patterns"`
	MaxDepth      int      `yaml:"max_depth"`
}

// MarkersConfig lists metadata files that are safe to remove
type MarkersConfig struct {
	Names    []string `yaml:"names"`
	Roots    []string `yaml:"roots"`
	MaxDepth int      `yaml:"max_depth"`
}

// LanguagesConfig lists localizations that are always kept
type LanguagesConfig struct {
	Keep []string `yaml:"keep"`
}

// SecureDeletionConfig tunes the shredder
type SecureDeletionConfig struct {
	Passes       int  `yaml:"passes"`
	BufferSizeKB int  `yaml:"buffer_size_kb"`
	ForceSync    bool `yaml:"force_sync"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// ProgressConfig throttles progress events
type ProgressConfig struct {
	ScanEventsPerSecond int `yaml:"scan_events_per_second"`
}

// Load reads the YAML file at path over the defaults, so a partial file
// only overrides the keys it names. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := GetDefault()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects negative ages, unparseable sizes, bad globs and
// relative protected paths.
func (c *Config) Validate() error {
	ages := []struct {
		name  string
		value int
	}{
		{"age_thresholds.logs", c.AgeThresholds.Logs},
		{"age_thresholds.temp", c.AgeThresholds.Temp},
		{"age_thresholds.stale_files", c.AgeThresholds.StaleFiles},
		{"age_thresholds.screenshots", c.AgeThresholds.Screenshots},
		{"min_file_age", c.MinFileAge},
	}
	for _, a := range ages {
		if a.value < 0 {
			return fmt.Errorf("%s must not be negative, got %d", a.name, a.value)
		}
	}

	sizes := map[string]string{
		"large_file_min": c.SizeLimits.LargeFileMin,
		"stale_file_min": c.SizeLimits.StaleFileMin,
		"duplicate_min":  c.SizeLimits.DuplicateMin,
		"duplicate_max":  c.SizeLimits.DuplicateMax,
	}
	for name, value := range sizes {
		if _, err := utils.ParseSize(value); err != nil {
			return fmt.Errorf("size_limits.%s: %w", name, err)
		}
	}
	if c.DuplicateMin() > c.DuplicateMax() {
		return fmt.Errorf("size_limits.duplicate_min exceeds duplicate_max")
	}

	if c.SecureDeletion.Passes < 1 {
		return fmt.Errorf("secure_deletion.passes must be at least 1")
	}
	if c.SecureDeletion.BufferSizeKB < 1 {
		return fmt.Errorf("secure_deletion.buffer_size_kb must be at least 1")
	}

	for _, pattern := range c.ExcludePattern {
		if err := security.ValidateGlobPattern(pattern); err != nil {
			return fmt.Errorf("exclude_patterns: %w", err)
		}
	}
	for _, p := range c.ProtectedPaths {
		if !filepath.IsAbs(p) {
			return fmt.Errorf("protected_paths: %q is not absolute", p)
		}
	}
	return nil
}

// LargeFileMin returns the parsed large-file threshold in bytes.
func (c *Config) LargeFileMin() int64 { return mustSize(c.SizeLimits.LargeFileMin) }

// StaleFileMin returns the parsed stale-file minimum in bytes.
func (c *Config) StaleFileMin() int64 { return mustSize(c.SizeLimits.StaleFileMin) }

// DuplicateMin returns the parsed duplicate minimum in bytes.
func (c *Config) DuplicateMin() int64 { return mustSize(c.SizeLimits.DuplicateMin) }

// DuplicateMax returns the parsed duplicate maximum in bytes.
func (c *Config) DuplicateMax() int64 { return mustSize(c.SizeLimits.DuplicateMax) }

// mustSize parses a size already checked by Validate; bad input yields 0.
func mustSize(s string) int64 {
	n, err := utils.ParseSize(s)
	if err != nil {
		return 0
	}
	return n
}

// Enabled reports whether the category with the given id is switched on.
func (c *Categories) Enabled(id string) bool {
	switch id {
	case "system-caches":
		return c.SystemCaches
	case "app-logs":
		return c.AppLogs
	case "browser-caches":
		return c.BrowserCaches
	case "temp-files":
		return c.TempFiles
	case "build-artifacts":
		return c.BuildArtifacts
	case "package-managers":
		return c.PackageManagers
	case "homebrew":
		return c.Homebrew
	case "trash":
		return c.Trash
	case "marker-files":
		return c.MarkerFiles
	case "large-files":
		return c.LargeFiles
	case "language-files":
		return c.LanguageFiles
	case "stale-files":
		return c.StaleFiles
	case "duplicates":
		return c.Duplicates
	case "privacy-data":
		return c.PrivacyData
	case "screenshots":
		return c.Screenshots
	case "empty-folders":
		return c.EmptyFolders
	case "broken-symlinks":
		return c.BrokenSymlinks
	default:
		return false
	}
}

// GetConfigPath is ~/.config/reclaim/config.yaml
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", "reclaim", "config.yaml"), nil
}

// EnsureConfigExists writes the defaults to GetConfigPath unless a file is
// already there, and returns the path either way.
func EnsureConfigExists() (string, error) {
	path, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := Save(GetDefault(), path); err != nil {
			return "", err
		}
	}
	return path, nil
}
