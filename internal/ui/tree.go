package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fenilsonani/reclaim/internal/scanner"
	"github.com/fenilsonani/reclaim/internal/ui/styles"
	"github.com/fenilsonani/reclaim/pkg/utils"
)

// maxTreeFiles is how many entries are listed per directory
const maxTreeFiles = 5

// PrintTree prints scan results grouped by category and parent directory
func PrintTree(w io.Writer, results []*scanner.Result) {
	var total int64
	var count int

	for _, res := range results {
		if res.Count() == 0 {
			continue
		}
		fmt.Fprintf(w, "\n╭─ %s (%s)\n", styles.CategoryStyle.Render(res.Category), styles.Size(res.TotalSize))
		total += res.TotalSize
		count += res.Count()

		// Group by parent directory
		dirs := make(map[string][]scanner.Entry)
		for _, e := range res.Entries {
			dir := filepath.Dir(e.Path)
			dirs[dir] = append(dirs[dir], e)
		}
		names := make([]string, 0, len(dirs))
		for dir := range dirs {
			names = append(names, dir)
		}
		sort.Strings(names)

		for i, dir := range names {
			last := i == len(names)-1
			entries := dirs[dir]

			var dirSize int64
			for _, e := range entries {
				dirSize += e.Size
			}

			connector, indent := "├", "│   "
			if last {
				connector, indent = "╰", "    "
			}
			fmt.Fprintf(w, "%s── %s (%s)\n", connector, styles.FilePathStyle.Render(dir), utils.FormatBytes(dirSize))

			shown := len(entries)
			if shown > maxTreeFiles {
				shown = maxTreeFiles
			}
			for j := 0; j < shown; j++ {
				e := entries[j]
				branch := "├"
				if j == shown-1 && len(entries) <= maxTreeFiles {
					branch = "╰"
				}
				name := filepath.Base(e.Path)
				if e.ReportOnly {
					name += " " + styles.ReportOnlyBadge()
				}
				fmt.Fprintf(w, "%s%s── %s (%s)\n", indent, branch, name, utils.FormatBytes(e.Size))
			}
			if len(entries) > maxTreeFiles {
				fmt.Fprintf(w, "%s╰── ... and %d more\n", indent, len(entries)-maxTreeFiles)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("═", 56))
	fmt.Fprintf(w, "Total: %d items | %s\n", count, utils.FormatBytes(total))
}
