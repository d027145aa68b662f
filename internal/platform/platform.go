package platform

import (
	"os/user"
	"path/filepath"
	"runtime"
)

// Platform represents the operating system platform
type Platform string

const (
	MacOS   Platform = "darwin"
	Linux   Platform = "linux"
	Unknown Platform = "unknown"
)

// ScanRoot is a directory walked to a bounded depth
type ScanRoot struct {
	Path     string
	MaxDepth int
}

// Info contains platform-specific information and paths. Entries in the
// *Globs fields are filepath.Glob patterns.
type Info struct {
	OS       Platform
	HomeDir  string
	Username string

	// CacheDirs hold per-application caches. Their top-level children are
	// reported individually, minus CacheExclusions, which other categories own.
	CacheDirs       []string
	CacheExclusions []string

	BrowserCacheGlobs []string
	PackageCaches     []string
	HomebrewCaches    []string
	LogDirs           []string
	TempDirs          []string
	TrashDirs         []string
	DevCaches         []string // IDE derived data, simulators, archives
	LocaleRoots       []string // application bundles searched for .lproj
	PrivacyGlobs      []string
	ScreenshotDirs    []string
	SymlinkRoots      []ScanRoot
	EmptyFolderRoots  []ScanRoot

	// HomeProtected are home subdirectories that are never removed even when empty
	HomeProtected []string

	DownloadsDir   string
	ProtectedPaths []string
}

// Detect returns the current platform
func Detect() Platform {
	switch runtime.GOOS {
	case "darwin":
		return MacOS
	case "linux":
		return Linux
	default:
		return Unknown
	}
}

// GetInfo returns platform-specific information
func GetInfo() (*Info, error) {
	currentUser, err := user.Current()
	if err != nil {
		return nil, err
	}

	return ForHome(Detect(), currentUser.HomeDir, currentUser.Username)
}

// ForHome builds the path tables for platform p rooted at homeDir.
func ForHome(p Platform, homeDir, username string) (*Info, error) {
	switch p {
	case MacOS:
		return getMacOSInfo(homeDir, username), nil
	case Linux:
		return getLinuxInfo(homeDir, username), nil
	default:
		return nil, ErrUnsupportedPlatform
	}
}

// IsProtectedPath checks if a path is one of the platform's protected paths
func (i *Info) IsProtectedPath(path string) bool {
	clean := filepath.Clean(path)
	for _, protected := range i.ProtectedPaths {
		if clean == protected {
			return true
		}
	}
	return false
}

// Errors
var (
	ErrUnsupportedPlatform = &PlatformError{"unsupported platform"}
)

// PlatformError represents a platform-related error
type PlatformError struct {
	Message string
}

func (e *PlatformError) Error() string {
	return e.Message
}
