package reporter

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/reclaim/internal/cleaner"
	"github.com/fenilsonani/reclaim/internal/scanner"
)

func sampleResults() []*scanner.Result {
	caches := scanner.NewResult(scanner.IDSystemCaches, []string{"/home/u/.cache"})
	caches.Add(scanner.Entry{Path: "/home/u/.cache/a", Size: 2048, Category: scanner.IDSystemCaches, Reason: "cache"})
	caches.Add(scanner.Entry{Path: "/home/u/.cache/b", Size: 1024, Category: scanner.IDSystemCaches, Reason: "cache"})
	caches.Warnings = append(caches.Warnings, scanner.Warning{Path: "/home/u/.cache/locked", Reason: cleaner.ErrorPermissionDenied})

	large := scanner.NewResult(scanner.IDLargeFiles, []string{"/home/u"})
	large.Add(scanner.Entry{Path: "/home/u/big.iso", Size: 200 << 20, Category: scanner.IDLargeFiles, ReportOnly: true, Reason: "large file"})

	return []*scanner.Result{caches, large}
}

func sampleGroup() scanner.DuplicateGroup {
	return scanner.DuplicateGroup{
		Key:       "abc",
		Size:      1 << 20,
		Keeper:    scanner.Entry{Path: "/data/a/x.bin", Size: 1 << 20},
		Removable: []scanner.Entry{{Path: "/data/b/x.bin", Size: 1 << 20}, {Path: "/data/c/x.bin", Size: 1 << 20}},
	}
}

// =============================================================================
// Formats
// =============================================================================

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"summary", FormatSummary, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestReportSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatSummary).Report(sampleResults()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{"Scan Summary", scanner.IDSystemCaches, "Total: 3 items", "1 items are listed for review only", "Warnings: 1", "/home/u/.cache/locked"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestReportTable(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatTable).Report(sampleResults()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, "/home/u/.cache/a") || !strings.Contains(out, "[review] large file") {
		t.Errorf("unexpected table:\n%s", out)
	}
	if !strings.Contains(out, "Total: 3 items") {
		t.Errorf("table missing total:\n%s", out)
	}
}

func TestReportJSON(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, FormatJSON)
	r.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	if err := r.Report(sampleResults()); err != nil {
		t.Fatal(err)
	}

	var got struct {
		Timestamp    string `json:"timestamp"`
		TotalEntries int    `json:"total_entries"`
		Categories   []struct {
			Entries []scanner.Entry `json:"entries"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got.Timestamp != "2024-01-02T03:04:05Z" {
		t.Errorf("timestamp = %q", got.Timestamp)
	}
	if got.TotalEntries != 3 || len(got.Categories) != 2 {
		t.Errorf("report = %+v", got)
	}
	if !got.Categories[1].Entries[0].ReportOnly {
		t.Error("report-only flag lost")
	}
	if !strings.Contains(buf.String(), `"reason": "permission denied"`) {
		t.Errorf("warning reason should render by name:\n%s", buf.String())
	}
}

func TestReportYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatYAML).Report(sampleResults()); err != nil {
		t.Fatal(err)
	}

	var got map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}
	if got["total_entries"] != 3 {
		t.Errorf("total_entries = %v", got["total_entries"])
	}
}

func TestReportUnknownFormat(t *testing.T) {
	if err := New(&bytes.Buffer{}, "xml").Report(nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

// =============================================================================
// Duplicates and outcomes
// =============================================================================

func TestReportDuplicates(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatSummary).ReportDuplicates([]scanner.DuplicateGroup{sampleGroup()}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	keep := strings.Index(out, "keep    ")
	remove := strings.Index(out, "remove  /data/b/x.bin")
	if keep < 0 || remove < 0 || keep > remove {
		t.Errorf("keeper should be listed before removable copies:\n%s", out)
	}
	if !strings.Contains(out, "1 groups, 2.00 MB reclaimable") {
		t.Errorf("missing totals:\n%s", out)
	}

	buf.Reset()
	New(&buf, FormatSummary).ReportDuplicates(nil)
	if !strings.Contains(buf.String(), "No duplicate files found") {
		t.Errorf("empty report = %q", buf.String())
	}
}

func TestReportDuplicatesJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatJSON).ReportDuplicates([]scanner.DuplicateGroup{sampleGroup()}); err != nil {
		t.Fatal(err)
	}
	var got []groupReport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Keeper != "/data/a/x.bin" || len(got[0].Removable) != 2 || got[0].Reclaimable != 2<<20 {
		t.Errorf("groups = %+v", got)
	}
}

func sampleOutcome(dryRun bool) *scanner.Outcome {
	out := scanner.NewOutcome(dryRun)
	out.Record(scanner.EntryOutcome{Entry: scanner.Entry{Path: "/c/a", Size: 300}, Status: scanner.StatusDeleted})
	out.Record(scanner.EntryOutcome{Entry: scanner.Entry{Path: "/c/b", Size: 10}, Status: scanner.StatusSkipped, Reason: cleaner.ErrorNotFound})
	out.Record(scanner.EntryOutcome{Entry: scanner.Entry{Path: "/c/c", Size: 10}, Status: scanner.StatusSkipped, Reason: cleaner.ErrorCancelled})
	out.Record(scanner.EntryOutcome{
		Entry:  scanner.Entry{Path: "/c/d", Size: 10},
		Status: scanner.StatusFailed,
		Reason: cleaner.ErrorPermissionDenied,
		Err:    os.ErrPermission,
	})
	return out
}

func TestReportOutcome(t *testing.T) {
	tests := []struct {
		name   string
		dryRun bool
		want   []string
	}{
		{"real run", false, []string{"Deleted 1 items", "Skipped: 1, cancelled: 1", "Failed: 1", "Permission denied: /c/d", "Issues encountered:"}},
		{"dry run", true, []string{"Dry run", "Would delete 1 items", "would be freed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := New(&buf, FormatSummary).ReportOutcome(sampleOutcome(tt.dryRun)); err != nil {
				t.Fatal(err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("outcome missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestReportOutcomeJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatJSON).ReportOutcome(sampleOutcome(false)); err != nil {
		t.Fatal(err)
	}
	var got struct {
		Deleted    int   `json:"deleted"`
		Skipped    int   `json:"skipped"`
		Cancelled  int   `json:"cancelled"`
		Failed     int   `json:"failed"`
		BytesFreed int64 `json:"bytes_freed"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Deleted != 1 || got.Skipped != 1 || got.Cancelled != 1 || got.Failed != 1 || got.BytesFreed != 300 {
		t.Errorf("report = %+v", got)
	}
	if !strings.Contains(buf.String(), `"status": "failed"`) {
		t.Errorf("status should render by name:\n%s", buf.String())
	}
}

// =============================================================================
// SaveToFile
// =============================================================================

func TestSaveToFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		check func([]byte) error
	}{
		{"report.json", func(b []byte) error { var v map[string]interface{}; return json.Unmarshal(b, &v) }},
		{"report.yml", func(b []byte) error { var v map[string]interface{}; return yaml.Unmarshal(b, &v) }},
		{"report.txt", func(b []byte) error {
			if !strings.Contains(string(b), "Path") {
				return errors.New("expected table header")
			}
			return nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := SaveToFile(sampleResults(), path, ""); err != nil {
				t.Fatal(err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if err := tt.check(data); err != nil {
				t.Errorf("%s: %v", tt.name, err)
			}
		})
	}

	if err := SaveToFile(nil, filepath.Join(dir, "missing", "r.json"), ""); err == nil {
		t.Error("expected error for unwritable path")
	}
}
