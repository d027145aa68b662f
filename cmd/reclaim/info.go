package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/reclaim/internal/config"
	"github.com/fenilsonani/reclaim/internal/reporter"
	"github.com/fenilsonani/reclaim/internal/runner"
	"github.com/fenilsonani/reclaim/internal/scanner"
	"github.com/fenilsonani/reclaim/internal/ui/styles"
)

var (
	dupesPaths   []string
	dupesMinSize string
)

var dupesCmd = &cobra.Command{
	Use:   "dupes",
	Short: "Report groups of identical files",
	Long: `Finds byte-identical files by size, then a digest of the first and last
blocks, then a full-content digest. The copy with the lexicographically
smallest path in each group is kept; the rest are listed as removable. Use "clean -c duplicates" to delete them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}
		a, err := setup(withRoots(append(dupesPaths, args...), true), withMinSize(dupesMinSize, func(c *config.Config) *string {
			return &c.SizeLimits.DuplicateMin
		}))
		if err != nil {
			return err
		}

		op, _, err := a.execute(runner.Request{Kind: runner.KindScan, Categories: []string{scanner.IDDuplicates}})
		if err != nil {
			return fmt.Errorf("duplicate scan failed: %w", err)
		}

		var groups []scanner.DuplicateGroup
		for _, res := range op.Results() {
			groups = append(groups, res.Groups...)
		}
		return reporter.New(os.Stdout, format).ReportDuplicates(groups)
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List cleanup categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}

		safe := make(map[string]bool, len(scanner.SafeCategories))
		for _, id := range scanner.SafeCategories {
			safe[id] = true
		}

		fmt.Printf("%-18s %-8s %-6s %s\n", "ID", "ENABLED", "SMART", "DESCRIPTION")
		for _, c := range a.registry.Categories() {
			enabled := styles.DimStyle.Render(fmt.Sprintf("%-8s", "no"))
			if a.registry.Enabled(c.ID()) {
				enabled = styles.SuccessStyle.Render(fmt.Sprintf("%-8s", "yes"))
			}
			smart := ""
			if safe[c.ID()] {
				smart = "yes"
			}
			fmt.Printf("%-18s %s %-6s %s\n", c.ID(), enabled, smart, c.Label())
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show where the configuration lives",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		fmt.Printf("Config file: %s\n", path)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Println("Config file does not exist. Using default configuration.")
			fmt.Println("Run \"reclaim config init\" to create one.")
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration if none exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		custom := viper.GetString("config")
		if custom == "" {
			path, err := config.EnsureConfigExists()
			if err != nil {
				return err
			}
			fmt.Printf("Config file: %s\n", path)
			return nil
		}
		if _, err := os.Stat(custom); err == nil {
			fmt.Printf("Config already exists: %s\n", custom)
			return nil
		}
		if err := config.Save(config.GetDefault(), custom); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", custom)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

func init() {
	dupesCmd.Flags().StringSliceVar(&dupesPaths, "path", nil, "directories to search (default: home)")
	dupesCmd.Flags().StringVar(&dupesMinSize, "min-size", "", "smallest file considered, e.g. 10MB")

	configCmd.AddCommand(configInitCmd, configShowCmd)
}
