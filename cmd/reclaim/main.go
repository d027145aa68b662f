package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fenilsonani/reclaim/internal/cleaner"
	"github.com/fenilsonani/reclaim/internal/config"
	"github.com/fenilsonani/reclaim/internal/controller"
	"github.com/fenilsonani/reclaim/internal/logger"
	"github.com/fenilsonani/reclaim/internal/platform"
	"github.com/fenilsonani/reclaim/internal/progress"
	"github.com/fenilsonani/reclaim/internal/reporter"
	"github.com/fenilsonani/reclaim/internal/runner"
	"github.com/fenilsonani/reclaim/internal/scanner"
	"github.com/fenilsonani/reclaim/internal/security"
	"github.com/fenilsonani/reclaim/internal/shredder"
	"github.com/fenilsonani/reclaim/internal/ui"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var quiet bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reclaim",
	Short: "Find and safely remove reclaimable files",
	Long: `reclaim scans caches, logs, build output, trash, duplicates and other
reclaimable files, then deletes only what you confirm.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	viper.SetEnvPrefix("RECLAIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file path (default ~/.config/reclaim/config.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")
	flags.StringP("output", "o", "summary", "output format: summary, table, json, yaml")
	flags.BoolVarP(&quiet, "quiet", "q", false, "no live progress")

	viper.BindPFlag("config", flags.Lookup("config"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("log_format", flags.Lookup("log-format"))
	viper.BindPFlag("output", flags.Lookup("output"))

	rootCmd.AddCommand(scanCmd, cleanCmd, shredCmd, dupesCmd, categoriesCmd, configCmd)
}

// app wires the configured engine for one command
type app struct {
	cfg       *config.Config
	validator *security.PathValidator
	remover   *cleaner.Remover
	registry  *scanner.Registry
	runner    *runner.Runner
}

// configPath honours --config and RECLAIM_CONFIG before the default
func configPath() (string, error) {
	if p := viper.GetString("config"); p != "" {
		return p, nil
	}
	return config.GetConfigPath()
}

func loadConfig() (*config.Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// setup loads the config, applies overrides and builds the engine
func setup(overrides ...func(*config.Config) error) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	for _, o := range overrides {
		if err := o(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level := cfg.Logging.Level
	if viper.GetString("log_level") != "" {
		level = viper.GetString("log_level")
	}
	format := cfg.Logging.Format
	if viper.GetString("log_format") != "" {
		format = viper.GetString("log_format")
	}
	logger.Init(level, format)

	info, err := platform.GetInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get platform info: %w", err)
	}

	validator := security.NewPathValidator(append(cfg.ProtectedPaths, info.ProtectedPaths...)...)
	remover := cleaner.NewRemover(validator, time.Duration(cfg.MinFileAge)*time.Hour)
	registry := scanner.Default(&scanner.Env{Config: cfg, Platform: info, Remover: remover})

	r := runner.New(registry, controller.New(), runner.Options{
		ScanEventsPerSecond: cfg.Progress.ScanEventsPerSecond,
		Shred: shredder.Options{
			Passes:    cfg.SecureDeletion.Passes,
			ChunkSize: cfg.SecureDeletion.BufferSizeKB * 1024,
			ForceSync: cfg.SecureDeletion.ForceSync,
		},
		Validator: validator,
	})

	logger.Debugf("reclaim %s on %s, home %s", Version, info.OS, info.HomeDir)
	return &app{cfg: cfg, validator: validator, remover: remover, registry: registry, runner: r}, nil
}

// execute submits req, renders its events and waits for the result.
// Ctrl-C cancels the operation at the next entry.
func (a *app) execute(req runner.Request) (*runner.Operation, progress.Summary, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	op, err := a.runner.Submit(ctx, req)
	if err != nil {
		return nil, progress.Summary{}, err
	}
	ui.NewRenderer(os.Stderr, quiet).Run(op.Events())
	summary, err := op.Wait()
	return op, summary, err
}

func outputFormat() (reporter.OutputFormat, error) {
	return reporter.ParseFormat(viper.GetString("output"))
}

// absPaths resolves every path against the working directory
func absPaths(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		out = append(out, abs)
	}
	return out, nil
}

// withRoots points the walking categories at paths
func withRoots(paths []string, dupesOnly bool) func(*config.Config) error {
	return func(cfg *config.Config) error {
		if len(paths) == 0 {
			return nil
		}
		roots, err := absPaths(paths)
		if err != nil {
			return err
		}
		cfg.Duplicates.Roots = roots
		if !dupesOnly {
			cfg.LargeFiles.Roots = roots
			cfg.StaleFiles.Roots = roots
		}
		return nil
	}
}
