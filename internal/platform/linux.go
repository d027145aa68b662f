package platform

import "path/filepath"

// getLinuxInfo returns platform-specific information for Linux
func getLinuxInfo(homeDir, username string) *Info {
	cache := filepath.Join(homeDir, ".cache")

	return &Info{
		OS:        Linux,
		HomeDir:   homeDir,
		Username:  username,
		CacheDirs: []string{cache},
		CacheExclusions: []string{
			// browser-caches
			"google-chrome", "chromium", "mozilla", "microsoft-edge", "BraveSoftware",
			// package-managers
			"pip", "yarn", "npm", "go-build", "pnpm",
			// homebrew
			"Homebrew",
			// keep fontconfig rebuilds cheap
			"fontconfig",
		},
		BrowserCacheGlobs: []string{
			filepath.Join(cache, "google-chrome", "*", "Cache"),
			filepath.Join(cache, "google-chrome", "*", "Code Cache"),
			filepath.Join(cache, "chromium", "*", "Cache"),
			filepath.Join(cache, "chromium", "*", "Code Cache"),
			filepath.Join(cache, "mozilla", "firefox", "*", "cache2"),
			filepath.Join(cache, "microsoft-edge", "*", "Cache"),
			filepath.Join(cache, "BraveSoftware", "Brave-Browser", "*", "Cache"),
		},
		PackageCaches: []string{
			filepath.Join(homeDir, ".npm", "_cacache"),
			filepath.Join(cache, "yarn"),
			filepath.Join(cache, "pip"),
			filepath.Join(cache, "go-build"),
			filepath.Join(cache, "pnpm"),
			filepath.Join(homeDir, ".cargo", "registry", "cache"),
			filepath.Join(homeDir, ".gradle", "caches"),
		},
		HomebrewCaches: []string{
			filepath.Join(cache, "Homebrew"),
		},
		LogDirs: []string{
			filepath.Join(homeDir, ".local", "state", "log"),
			filepath.Join(homeDir, ".local", "share", "logs"),
		},
		TempDirs: []string{
			"/tmp",
			"/var/tmp",
		},
		TrashDirs: []string{
			filepath.Join(homeDir, ".local", "share", "Trash", "files"),
		},
		DevCaches: []string{
			filepath.Join(homeDir, ".android", "avd", "cache"),
		},
		LocaleRoots: []string{
			filepath.Join(homeDir, "Applications"),
		},
		PrivacyGlobs: []string{
			filepath.Join(homeDir, ".config", "google-chrome", "*", "History"),
			filepath.Join(homeDir, ".config", "google-chrome", "*", "Cookies"),
			filepath.Join(homeDir, ".config", "google-chrome", "*", "Visited Links"),
			filepath.Join(homeDir, ".config", "chromium", "*", "History"),
			filepath.Join(homeDir, ".config", "chromium", "*", "Cookies"),
			filepath.Join(homeDir, ".mozilla", "firefox", "*", "cookies.sqlite"),
			filepath.Join(homeDir, ".mozilla", "firefox", "*", "places.sqlite"),
			filepath.Join(homeDir, ".mozilla", "firefox", "*", "formhistory.sqlite"),
			filepath.Join(homeDir, ".local", "share", "recently-used.xbel"),
		},
		ScreenshotDirs: []string{
			filepath.Join(homeDir, "Pictures", "Screenshots"),
			filepath.Join(homeDir, "Desktop"),
		},
		SymlinkRoots: []ScanRoot{
			{Path: filepath.Join(homeDir, ".local", "bin"), MaxDepth: 1},
			{Path: filepath.Join(homeDir, "bin"), MaxDepth: 1},
			{Path: "/usr/local/bin", MaxDepth: 1},
			{Path: "/usr/local/lib", MaxDepth: 3},
		},
		EmptyFolderRoots: []ScanRoot{
			{Path: cache, MaxDepth: 5},
			{Path: filepath.Join(homeDir, ".config"), MaxDepth: 5},
			{Path: filepath.Join(homeDir, ".local", "share"), MaxDepth: 5},
		},
		HomeProtected: []string{
			"Desktop", "Documents", "Downloads", "Music", "Pictures", "Public",
			"Templates", "Videos", "snap",
		},
		DownloadsDir: filepath.Join(homeDir, "Downloads"),
		ProtectedPaths: []string{
			"/",
			"/bin",
			"/boot",
			"/dev",
			"/etc",
			"/home",
			"/lib",
			"/lib64",
			"/opt",
			"/proc",
			"/root",
			"/run",
			"/sbin",
			"/srv",
			"/sys",
			"/usr",
			"/var/lib",
			"/var/db",
			homeDir,
			filepath.Join(homeDir, ".config"),
			filepath.Join(homeDir, ".local/share"),
			filepath.Join(homeDir, "Documents"),
			filepath.Join(homeDir, "Desktop"),
			filepath.Join(homeDir, "Pictures"),
			filepath.Join(homeDir, "Music"),
			filepath.Join(homeDir, "Videos"),
		},
	}
}
