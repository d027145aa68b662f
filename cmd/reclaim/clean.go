package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fenilsonani/reclaim/internal/cleaner"
	"github.com/fenilsonani/reclaim/internal/logger"
	"github.com/fenilsonani/reclaim/internal/reporter"
	"github.com/fenilsonani/reclaim/internal/runner"
	"github.com/fenilsonani/reclaim/internal/scanner"
	"github.com/fenilsonani/reclaim/internal/ui"
	"github.com/fenilsonani/reclaim/pkg/utils"
)

var (
	cleanCategories []string
	cleanAll        bool
	cleanSmart      bool
	cleanYes        bool
	cleanShred      bool
	cleanPasses     int
	cleanManifest   string
)

var errNotConfirmed = errors.New("deletion needs confirmation: run in a terminal or pass --yes")

var cleanCmd = &cobra.Command{
	Use:   "clean [paths...]",
	Short: "Delete reclaimable files after confirmation",
	Long: `Scans the chosen categories, then deletes either the given paths or every
entry except review-only ones (large files). Nothing is deleted until you
confirm, either at the prompt or with --yes. With --dry-run every check
runs but nothing is removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}

		cats, err := cleanTargets()
		if err != nil {
			return err
		}
		selection, err := absPaths(args)
		if err != nil {
			return err
		}

		a, err := setup()
		if err != nil {
			return err
		}
		dryRun := a.cfg.DryRun
		if viper.IsSet("dry_run") {
			dryRun = viper.GetBool("dry_run")
		}

		// Scan first so the prompt can show what will go
		scan, _, err := a.execute(runner.Request{Kind: runner.KindScan, Categories: cats})
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		pending := pendingEntries(scan.Results(), selection)
		if len(pending) == 0 {
			fmt.Println("Nothing to clean")
			return nil
		}

		confirmed := cleanYes
		if !dryRun && !confirmed {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return errNotConfirmed
			}
			action := "Delete"
			if cleanShred {
				action = "Shred"
			}
			if confirmed, err = ui.Confirm(pending, action, os.Stdin, os.Stdout); err != nil {
				return err
			}
			if !confirmed {
				fmt.Println("Cleanup cancelled")
				return nil
			}
		}

		var manifest *cleaner.DeletionManifest
		if cleanManifest != "" && !dryRun {
			manifest = cleaner.NewDeletionManifest()
			a.remover.SetManifest(manifest)
		}

		op, _, err := a.execute(runner.Request{
			Kind:       runner.KindClean,
			Categories: cats,
			Selection:  selection,
			SelectAll:  len(selection) == 0,
			DryRun:     dryRun,
			Confirmed:  confirmed,
			Shred:      cleanShred,
			Passes:     cleanPasses,
		})
		if err != nil {
			return fmt.Errorf("clean failed: %w", err)
		}

		if manifest != nil && manifest.Len() > 0 {
			if err := manifest.Save(cleanManifest); err != nil {
				return err
			}
			logger.Infof("manifest of %d deletions (%s) written to %s",
				manifest.Len(), utils.FormatBytes(manifest.TotalSize), cleanManifest)
		}

		if out := op.Outcome(); out != nil {
			return reporter.New(os.Stdout, format).ReportOutcome(out)
		}
		return nil
	},
}

// cleanTargets picks the categories from --smart, --all or --category
func cleanTargets() ([]string, error) {
	switch {
	case cleanSmart:
		return scanner.SafeCategories, nil
	case cleanAll:
		return []string{scanner.All}, nil
	case len(cleanCategories) > 0:
		return cleanCategories, nil
	default:
		return nil, errors.New("choose what to clean with --category, --all or --smart")
	}
}

// pendingEntries returns what a clean would select from results: the
// entries at the given paths, or every entry that is not review-only
func pendingEntries(results []*scanner.Result, paths []string) []scanner.Entry {
	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		want[p] = true
	}

	var out []scanner.Entry
	for _, res := range results {
		for _, e := range res.Entries {
			switch {
			case len(paths) > 0 && want[e.Path]:
				out = append(out, e)
			case len(paths) == 0 && !e.ReportOnly:
				out = append(out, e)
			}
		}
	}
	return out
}

func init() {
	f := cleanCmd.Flags()
	f.StringSliceVarP(&cleanCategories, "category", "c", nil, "categories to clean")
	f.BoolVar(&cleanAll, "all", false, "clean every enabled category")
	f.BoolVar(&cleanSmart, "smart", false, "clean only the safe categories")
	f.BoolVarP(&cleanYes, "yes", "y", false, "skip the confirmation prompt")
	f.Bool("dry-run", false, "show what would be deleted without deleting")
	f.BoolVar(&cleanShred, "shred", false, "overwrite files before removing them")
	f.IntVar(&cleanPasses, "passes", 0, "shred passes (default from config)")
	f.StringVar(&cleanManifest, "manifest", "", "write a list of deleted files to this path")

	viper.BindPFlag("dry_run", f.Lookup("dry-run"))
}
