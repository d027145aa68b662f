package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/reclaim/internal/cleaner"
	"github.com/fenilsonani/reclaim/internal/scanner"
	"github.com/fenilsonani/reclaim/internal/ui/styles"
	"github.com/fenilsonani/reclaim/pkg/utils"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

// ParseFormat checks a user-supplied format name
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML, FormatSummary:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use summary, table, json or yaml)", s)
	}
}

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
	now    func() time.Time
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
		now:    time.Now,
	}
}

// categoryReport is the machine-readable form of one scan result
type categoryReport struct {
	Category           string            `json:"category" yaml:"category"`
	Count              int               `json:"count" yaml:"count"`
	TotalSize          int64             `json:"total_size" yaml:"total_size"`
	TotalSizeFormatted string            `json:"total_size_formatted" yaml:"total_size_formatted"`
	Entries            []scanner.Entry   `json:"entries" yaml:"entries"`
	Warnings           []scanner.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Groups             []groupReport     `json:"duplicate_groups,omitempty" yaml:"duplicate_groups,omitempty"`
}

type groupReport struct {
	Size        int64    `json:"size" yaml:"size"`
	Keeper      string   `json:"keeper" yaml:"keeper"`
	Removable   []string `json:"removable" yaml:"removable"`
	Reclaimable int64    `json:"reclaimable" yaml:"reclaimable"`
}

type scanReport struct {
	Timestamp          string           `json:"timestamp" yaml:"timestamp"`
	TotalEntries       int              `json:"total_entries" yaml:"total_entries"`
	TotalSize          int64            `json:"total_size" yaml:"total_size"`
	TotalSizeFormatted string           `json:"total_size_formatted" yaml:"total_size_formatted"`
	Categories         []categoryReport `json:"categories" yaml:"categories"`
}

func (r *Reporter) buildScanReport(results []*scanner.Result) scanReport {
	report := scanReport{Timestamp: r.now().Format(time.RFC3339)}
	for _, res := range results {
		cr := categoryReport{
			Category:           res.Category,
			Count:              res.Count(),
			TotalSize:          res.TotalSize,
			TotalSizeFormatted: utils.FormatBytes(res.TotalSize),
			Entries:            res.Entries,
			Warnings:           res.Warnings,
		}
		for _, g := range res.Groups {
			cr.Groups = append(cr.Groups, toGroupReport(g))
		}
		report.Categories = append(report.Categories, cr)
		report.TotalEntries += res.Count()
		report.TotalSize += res.TotalSize
	}
	report.TotalSizeFormatted = utils.FormatBytes(report.TotalSize)
	return report
}

func toGroupReport(g scanner.DuplicateGroup) groupReport {
	gr := groupReport{Size: g.Size, Keeper: g.Keeper.Path, Reclaimable: g.Reclaimable()}
	for _, e := range g.Removable {
		gr.Removable = append(gr.Removable, e.Path)
	}
	return gr
}

// Report renders scan results
func (r *Reporter) Report(results []*scanner.Result) error {
	switch r.format {
	case FormatTable:
		return r.reportTable(results)
	case FormatJSON:
		return r.encodeJSON(r.buildScanReport(results))
	case FormatYAML:
		return r.encodeYAML(r.buildScanReport(results))
	case FormatSummary:
		return r.reportSummary(results)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// reportSummary generates a summary report
func (r *Reporter) reportSummary(results []*scanner.Result) error {
	var total int64
	var count, warnings, review int

	fmt.Fprintln(r.writer, styles.TitleStyle.Render("=== Scan Summary ==="))
	for _, res := range results {
		reviewSize := int64(0)
		for _, e := range res.Entries {
			if e.ReportOnly {
				review++
				reviewSize += e.Size
			}
		}
		line := fmt.Sprintf("  %-18s %6d items  %s", res.Category, res.Count(), styles.Size(res.TotalSize))
		if reviewSize > 0 {
			line += " " + styles.ReportOnlyBadge()
		}
		if len(res.Warnings) > 0 {
			line += styles.WarningStyle.Render(fmt.Sprintf("  (%d warnings)", len(res.Warnings)))
		}
		fmt.Fprintln(r.writer, line)

		total += res.TotalSize
		count += res.Count()
		warnings += len(res.Warnings)
	}

	fmt.Fprintf(r.writer, "\nTotal: %d items, %s\n", count, utils.FormatBytes(total))
	if review > 0 {
		fmt.Fprintf(r.writer, "%d items are listed for review only and are never removed by --all\n", review)
	}
	if warnings > 0 {
		fmt.Fprintf(r.writer, "Warnings: %d\n", warnings)
		for _, res := range results {
			for _, w := range res.Warnings {
				msg := w.Message
				if msg == "" {
					msg = w.Reason.String()
				}
				fmt.Fprintf(r.writer, "  %s %s: %s\n", styles.WarningStyle.Render("!"), w.Path, msg)
			}
		}
	}
	return nil
}

// reportTable generates a table report
func (r *Reporter) reportTable(results []*scanner.Result) error {
	rule := strings.Repeat("-", 120)
	fmt.Fprintf(r.writer, "%-60s | %-12s | %-16s | %s\n", "Path", "Size", "Category", "Reason")
	fmt.Fprintln(r.writer, rule)

	var total int64
	var count int
	for _, res := range results {
		for _, e := range res.Entries {
			reason := e.Reason
			if e.ReportOnly {
				reason = "[review] " + reason
			}
			fmt.Fprintf(r.writer, "%-60s | %-12s | %-16s | %s\n",
				shorten(e.Path, 60), utils.FormatBytes(e.Size), e.Category, reason)
		}
		total += res.TotalSize
		count += res.Count()
	}

	fmt.Fprintln(r.writer, rule)
	fmt.Fprintf(r.writer, "Total: %d items, %s\n", count, utils.FormatBytes(total))
	return nil
}

// ReportDuplicates renders duplicate groups with their keeper first
func (r *Reporter) ReportDuplicates(groups []scanner.DuplicateGroup) error {
	switch r.format {
	case FormatJSON, FormatYAML:
		out := make([]groupReport, 0, len(groups))
		for _, g := range groups {
			out = append(out, toGroupReport(g))
		}
		if r.format == FormatJSON {
			return r.encodeJSON(out)
		}
		return r.encodeYAML(out)
	}

	if len(groups) == 0 {
		fmt.Fprintln(r.writer, "No duplicate files found")
		return nil
	}

	var reclaimable int64
	for i, g := range groups {
		fmt.Fprintf(r.writer, "%s %d copies of %s, %s reclaimable\n",
			styles.BoldStyle.Render(fmt.Sprintf("Group %d:", i+1)),
			len(g.Members()), utils.FormatBytes(g.Size), styles.Size(g.Reclaimable()))
		fmt.Fprintf(r.writer, "  keep    %s\n", styles.FilePathStyle.Render(g.Keeper.Path))
		for _, e := range g.Removable {
			fmt.Fprintf(r.writer, "  remove  %s\n", e.Path)
		}
		reclaimable += g.Reclaimable()
	}
	fmt.Fprintf(r.writer, "\n%d groups, %s reclaimable\n", len(groups), utils.FormatBytes(reclaimable))
	return nil
}

type outcomeReport struct {
	DryRun     bool                   `json:"dry_run" yaml:"dry_run"`
	Deleted    int                    `json:"deleted" yaml:"deleted"`
	Skipped    int                    `json:"skipped" yaml:"skipped"`
	Cancelled  int                    `json:"cancelled" yaml:"cancelled"`
	Failed     int                    `json:"failed" yaml:"failed"`
	BytesFreed int64                  `json:"bytes_freed" yaml:"bytes_freed"`
	Entries    []scanner.EntryOutcome `json:"entries" yaml:"entries"`
}

// ReportOutcome renders what a clean did, or would do in a dry run
func (r *Reporter) ReportOutcome(out *scanner.Outcome) error {
	deleted, skipped, failed := out.Counts()
	cancelled := out.Cancelled()

	switch r.format {
	case FormatJSON, FormatYAML:
		report := outcomeReport{
			DryRun:     out.DryRun,
			Deleted:    deleted,
			Skipped:    skipped - cancelled,
			Cancelled:  cancelled,
			Failed:     failed,
			BytesFreed: out.BytesFreed,
			Entries:    out.Entries,
		}
		if r.format == FormatJSON {
			return r.encodeJSON(report)
		}
		return r.encodeYAML(report)
	}

	verb, freed := "Deleted", "freed"
	if out.DryRun {
		verb, freed = "Would delete", "would be freed"
		fmt.Fprintln(r.writer, styles.WarningStyle.Render("Dry run: nothing was removed"))
	}

	if r.format == FormatTable {
		for _, eo := range out.Entries {
			status := eo.Status.String()
			if eo.Status != scanner.StatusDeleted {
				status += " (" + eo.Reason.String() + ")"
			}
			fmt.Fprintf(r.writer, "%-60s | %-12s | %s\n", shorten(eo.Entry.Path, 60), utils.FormatBytes(eo.Entry.Size), status)
		}
	}

	fmt.Fprintf(r.writer, "%s %d items, %s %s\n", verb, deleted, styles.Size(out.BytesFreed), freed)
	if skipped > 0 {
		fmt.Fprintf(r.writer, "Skipped: %d", skipped-cancelled)
		if cancelled > 0 {
			fmt.Fprintf(r.writer, ", cancelled: %d", cancelled)
		}
		fmt.Fprintln(r.writer)
	}
	if failed > 0 {
		fmt.Fprintln(r.writer, styles.ErrorStyle.Render(fmt.Sprintf("Failed: %d", failed)))
		failures := out.Failures()
		for _, err := range failures {
			fmt.Fprintf(r.writer, "  %s\n", err.UserMessage())
		}
		fmt.Fprint(r.writer, cleaner.FormatErrorSummary(failures))
	}
	return nil
}

func (r *Reporter) encodeJSON(v interface{}) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (r *Reporter) encodeYAML(v interface{}) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(v)
}

// shorten keeps the tail of long paths
func shorten(path string, width int) string {
	if len(path) <= width {
		return path
	}
	return "..." + path[len(path)-(width-3):]
}

// SaveToFile saves the report to a file, picking the format from the
// extension when format is empty
func SaveToFile(results []*scanner.Result, path string, format OutputFormat) error {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			format = FormatJSON
		case ".yaml", ".yml":
			format = FormatYAML
		default:
			format = FormatTable
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	return New(file, format).Report(results)
}
