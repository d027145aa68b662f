package config

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		Categories: Categories{
			SystemCaches:    true,
			AppLogs:         true,
			BrowserCaches:   true,
			TempFiles:       true,
			BuildArtifacts:  true,
			PackageManagers: true,
			Homebrew:        true,
			Trash:           true,
			MarkerFiles:     true,
			LargeFiles:      true, // report-only
			LanguageFiles:   false, // removes app localizations, opt-in
			StaleFiles:      true,
			Duplicates:      true,
			PrivacyData:     false, // logs the user out of sites, opt-in
			Screenshots:     true,
			EmptyFolders:    true,
			BrokenSymlinks:  true,
		},
		AgeThresholds: AgeThresholds{
			Logs:        30,  // 30 days
			Temp:        7,   // 7 days
			StaleFiles:  180, // 6 months since last access
			Screenshots: 30,
		},
		SizeLimits: SizeLimits{
			LargeFileMin: "100MB",
			StaleFileMin: "10MB",
			DuplicateMin: "1MB",
			DuplicateMax: "500MB",
		},
		Duplicates: DuplicatesConfig{
			MaxDepth: 8,
			SkipDirs: []string{
				".Trash", "node_modules", ".git", ".venv", "venv", "__pycache__",
				".tox", "target", ".cargo", ".rustup", ".npm", ".m2", ".gradle", "Pods",
			},
			SkipBundle: []string{
				".photoslibrary", ".musiclibrary", ".tvlibrary", ".fcpbundle",
				".vmwarevm", ".parallels", ".app",
			},
		},
		LargeFiles: LargeFilesConfig{
			MaxDepth:    8,
			ExcludeDirs: []string{"Library", ".Trash", "node_modules", ".git"},
		},
		StaleFiles: StaleFilesConfig{
			MaxDepth: 6,
		},
		Dev: DevConfig{
			ProjectDirs: []string{"Projects", "Developer", "src", "code", "workspace"},
			BuildPatterns: []string{
				"node_modules", "target", "build", "dist", ".next", ".nuxt",
				"__pycache__", ".pytest_cache", ".gradle", "DerivedData",
			},
			MaxDepth: 4,
		},
		Markers: MarkersConfig{
			Names:    []string{".DS_Store", "Thumbs.db", "desktop.ini", "._.DS_Store"},
			MaxDepth: 8,
		},
		Languages: LanguagesConfig{
			Keep: []string{"en", "en_US", "en_GB", "Base"},
		},
		ExcludePattern: []string{
			"*.keep",
		},
		ProtectedPaths: []string{},
		DryRun:         false,
		MinFileAge:     0, // hours; 0 disables the age check
		SecureDeletion: SecureDeletionConfig{
			Passes:       3,
			BufferSizeKB: 64,
			ForceSync:    true,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Progress: ProgressConfig{
			ScanEventsPerSecond: 20,
		},
	}
}
