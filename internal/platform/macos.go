package platform

import "path/filepath"

// getMacOSInfo returns platform-specific information for macOS
func getMacOSInfo(homeDir, username string) *Info {
	lib := filepath.Join(homeDir, "Library")
	caches := filepath.Join(lib, "Caches")
	support := filepath.Join(lib, "Application Support")

	return &Info{
		OS:        MacOS,
		HomeDir:   homeDir,
		Username:  username,
		CacheDirs: []string{caches},
		CacheExclusions: []string{
			// homebrew, browser-caches and package-managers own these
			"Homebrew", "Google", "Firefox", "com.apple.Safari", "Yarn", "pip",
			"Microsoft Edge", "BraveSoftware", "CocoaPods", "go-build",
		},
		BrowserCacheGlobs: []string{
			filepath.Join(caches, "Google", "Chrome", "*", "Cache"),
			filepath.Join(caches, "Google", "Chrome", "*", "Code Cache"),
			filepath.Join(caches, "com.apple.Safari"),
			filepath.Join(caches, "Firefox", "Profiles", "*", "cache2"),
			filepath.Join(caches, "Microsoft Edge", "*", "Cache"),
			filepath.Join(caches, "BraveSoftware", "Brave-Browser", "*", "Cache"),
		},
		PackageCaches: []string{
			filepath.Join(homeDir, ".npm", "_cacache"),
			filepath.Join(caches, "Yarn"),
			filepath.Join(caches, "pip"),
			filepath.Join(caches, "go-build"),
			filepath.Join(caches, "CocoaPods"),
			filepath.Join(homeDir, ".cargo", "registry", "cache"),
			filepath.Join(homeDir, ".gradle", "caches"),
		},
		HomebrewCaches: []string{
			filepath.Join(caches, "Homebrew"),
		},
		LogDirs: []string{
			filepath.Join(lib, "Logs"),
			"/Library/Logs",
		},
		TempDirs: []string{
			"/private/tmp",
			"/private/var/tmp",
		},
		TrashDirs: []string{
			filepath.Join(homeDir, ".Trash"),
		},
		DevCaches: []string{
			filepath.Join(lib, "Developer", "Xcode", "DerivedData"),
			filepath.Join(lib, "Developer", "Xcode", "iOS DeviceSupport"),
			filepath.Join(lib, "Developer", "Xcode", "Archives"),
			filepath.Join(lib, "Developer", "CoreSimulator", "Devices"),
		},
		LocaleRoots: []string{
			"/Applications",
			filepath.Join(homeDir, "Applications"),
		},
		PrivacyGlobs: []string{
			filepath.Join(lib, "Safari", "History.db*"),
			filepath.Join(lib, "Safari", "Downloads.plist"),
			filepath.Join(lib, "Safari", "LastSession.plist"),
			filepath.Join(lib, "Safari", "TopSites.plist"),
			filepath.Join(lib, "Safari", "CloudTabs.db"),
			filepath.Join(lib, "Safari", "LocalStorage"),
			filepath.Join(lib, "Safari", "Databases"),
			filepath.Join(lib, "Cookies", "Cookies.binarycookies"),
			filepath.Join(support, "Google", "Chrome", "*", "Cookies"),
			filepath.Join(support, "Google", "Chrome", "*", "History"),
			filepath.Join(support, "Google", "Chrome", "*", "History-journal"),
			filepath.Join(support, "Google", "Chrome", "*", "Login Data"),
			filepath.Join(support, "Google", "Chrome", "*", "Web Data"),
			filepath.Join(support, "Google", "Chrome", "*", "Top Sites"),
			filepath.Join(support, "Google", "Chrome", "*", "Visited Links"),
			filepath.Join(support, "Firefox", "Profiles", "*", "cookies.sqlite*"),
			filepath.Join(support, "Firefox", "Profiles", "*", "places.sqlite*"),
			filepath.Join(support, "Firefox", "Profiles", "*", "formhistory.sqlite"),
			filepath.Join(support, "Firefox", "Profiles", "*", "webappsstore.sqlite"),
			filepath.Join(support, "com.apple.sharedfilelist"),
			filepath.Join(lib, "Preferences", "com.apple.recentitems.plist"),
		},
		ScreenshotDirs: []string{
			filepath.Join(homeDir, "Desktop"),
		},
		SymlinkRoots: []ScanRoot{
			{Path: lib, MaxDepth: 4},
			{Path: "/usr/local/bin", MaxDepth: 1},
			{Path: "/usr/local/lib", MaxDepth: 3},
			{Path: filepath.Join(homeDir, "bin"), MaxDepth: 1},
		},
		EmptyFolderRoots: []ScanRoot{
			{Path: support, MaxDepth: 5},
			{Path: caches, MaxDepth: 5},
			{Path: filepath.Join(lib, "Containers"), MaxDepth: 5},
			{Path: filepath.Join(lib, "Preferences"), MaxDepth: 5},
		},
		HomeProtected: []string{
			"Desktop", "Documents", "Downloads", "Library", "Movies", "Music",
			"Pictures", "Public", "Applications", "Sites",
		},
		DownloadsDir: filepath.Join(homeDir, "Downloads"),
		ProtectedPaths: []string{
			"/",
			"/System",
			"/Applications",
			"/Library/System",
			"/bin",
			"/sbin",
			"/usr",
			"/etc",
			"/var",
			"/dev",
			"/private/etc",
			"/private/var/db",
			homeDir,
			lib,
			support,
			filepath.Join(lib, "Preferences"),
			filepath.Join(homeDir, "Documents"),
			filepath.Join(homeDir, "Desktop"),
			filepath.Join(homeDir, "Pictures"),
			filepath.Join(homeDir, "Music"),
			filepath.Join(homeDir, "Movies"),
		},
	}
}
