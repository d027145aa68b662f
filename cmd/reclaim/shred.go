package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fenilsonani/reclaim/internal/runner"
	"github.com/fenilsonani/reclaim/internal/scanner"
	"github.com/fenilsonani/reclaim/internal/ui"
	"github.com/fenilsonani/reclaim/pkg/utils"
)

var (
	shredPasses int
	shredYes    bool
)

var shredCmd = &cobra.Command{
	Use:   "shred <paths...>",
	Short: "Overwrite files several times, then delete them",
	Long: `Overwrites each file with alternating random and zero passes before
unlinking it. Directories are shredded file by file, deepest first.
Symlinks are removed without touching their target.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := absPaths(args)
		if err != nil {
			return err
		}
		a, err := setup()
		if err != nil {
			return err
		}

		if !shredYes {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return errNotConfirmed
			}
			entries := make([]scanner.Entry, 0, len(paths))
			for _, p := range paths {
				size, _ := utils.EntrySize(p)
				entries = append(entries, scanner.Entry{Path: p, Size: size, Category: "shred"})
			}
			ok, err := ui.Confirm(entries, "Shred", os.Stdin, os.Stdout)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Shred cancelled")
				return nil
			}
		}

		_, summary, err := a.execute(runner.Request{Kind: runner.KindShred, Paths: paths, Passes: shredPasses})
		if err != nil {
			return fmt.Errorf("shred failed: %w", err)
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d of %d paths could not be shredded", summary.Failed, len(paths))
		}
		return nil
	},
}

func init() {
	shredCmd.Flags().IntVarP(&shredPasses, "passes", "n", 0, "overwrite passes (default from config)")
	shredCmd.Flags().BoolVarP(&shredYes, "yes", "y", false, "skip the confirmation prompt")
}
