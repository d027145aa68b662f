package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fenilsonani/reclaim/internal/config"
	"github.com/fenilsonani/reclaim/internal/reporter"
	"github.com/fenilsonani/reclaim/internal/runner"
	"github.com/fenilsonani/reclaim/internal/scanner"
	"github.com/fenilsonani/reclaim/internal/ui"
)

var (
	scanCategories []string
	scanPaths      []string
	scanMinSize    string
	scanTree       bool
	scanFile       string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Report reclaimable files without changing anything",
	Long: `Scans the selected categories (every enabled one by default) and reports
what could be cleaned. Nothing is modified.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}

		a, err := setup(withRoots(scanPaths, false), withMinSize(scanMinSize, func(c *config.Config) *string {
			return &c.SizeLimits.LargeFileMin
		}))
		if err != nil {
			return err
		}

		op, _, err := a.execute(runner.Request{Kind: runner.KindScan, Categories: scanCategories})
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		results := op.Results()

		if scanFile != "" {
			if err := reporter.SaveToFile(results, scanFile, ""); err != nil {
				return fmt.Errorf("failed to save report: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Report saved to: %s\n", scanFile)
		}
		if scanTree {
			ui.PrintTree(os.Stdout, results)
			return nil
		}
		return reporter.New(os.Stdout, format).Report(results)
	},
}

// withMinSize overrides the size limit picked by field when size is set
func withMinSize(size string, field func(*config.Config) *string) func(*config.Config) error {
	return func(cfg *config.Config) error {
		if size != "" {
			*field(cfg) = size
		}
		return nil
	}
}

func init() {
	scanCmd.Flags().StringSliceVarP(&scanCategories, "category", "c", []string{scanner.All}, "categories to scan (ids or \"all\")")
	scanCmd.Flags().StringSliceVar(&scanPaths, "path", nil, "roots for the large, stale and duplicate file walks")
	scanCmd.Flags().StringVar(&scanMinSize, "min-size", "", "large file threshold, e.g. 500MB")
	scanCmd.Flags().BoolVar(&scanTree, "tree", false, "print results as a directory tree")
	scanCmd.Flags().StringVar(&scanFile, "file", "", "also save the report to a file (.json, .yaml or table)")
}
