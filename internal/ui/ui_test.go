package ui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/reclaim/internal/cleaner"
	"github.com/fenilsonani/reclaim/internal/progress"
	"github.com/fenilsonani/reclaim/internal/scanner"
)

func entries(cat string, n int) []scanner.Entry {
	out := make([]scanner.Entry, n)
	for i := range out {
		out[i] = scanner.Entry{Path: "/x/" + cat, Size: 10, Category: cat}
	}
	return out
}

// =============================================================================
// Confirmation prompt
// =============================================================================

func TestRiskOf(t *testing.T) {
	tests := []struct {
		name    string
		entries []scanner.Entry
		want    RiskLevel
	}{
		{"few caches", entries(scanner.IDSystemCaches, 3), RiskLow},
		{"logs", entries(scanner.IDAppLogs, 1), RiskMedium},
		{"many files", entries(scanner.IDTempFiles, 60), RiskMedium},
		{"huge selection", entries(scanner.IDTempFiles, 501), RiskHigh},
		{"duplicates", entries(scanner.IDDuplicates, 1), RiskHigh},
		{"report only", []scanner.Entry{{Path: "/big", Category: scanner.IDLargeFiles, ReportOnly: true}}, RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RiskOf(tt.entries); got != tt.want {
				t.Errorf("RiskOf() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfirmModelKeys(t *testing.T) {
	runes := func(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

	tests := []struct {
		name    string
		entries []scanner.Entry
		keys    []tea.KeyMsg
		want    bool
	}{
		{"y confirms", entries(scanner.IDTrash, 1), []tea.KeyMsg{runes("y")}, true},
		{"n cancels", entries(scanner.IDTrash, 1), []tea.KeyMsg{runes("n")}, false},
		{"esc cancels", entries(scanner.IDTrash, 1), []tea.KeyMsg{{Type: tea.KeyEsc}}, false},
		{"enter accepts default on low risk", entries(scanner.IDTrash, 1), []tea.KeyMsg{{Type: tea.KeyEnter}}, true},
		{"enter cancels by default on high risk", entries(scanner.IDDuplicates, 1), []tea.KeyMsg{{Type: tea.KeyEnter}}, false},
		{"toggle then enter", entries(scanner.IDDuplicates, 1), []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyEnter}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewConfirmModel(tt.entries, "Delete")
			var cmd tea.Cmd
			for _, k := range tt.keys {
				_, cmd = m.Update(k)
			}
			if cmd == nil {
				t.Fatal("final key should quit the prompt")
			}
			if m.Confirmed() != tt.want {
				t.Errorf("Confirmed() = %v, want %v", m.Confirmed(), tt.want)
			}
		})
	}
}

func TestConfirmModelView(t *testing.T) {
	sel := append(entries(scanner.IDSystemCaches, 2), entries(scanner.IDTrash, 1)...)
	view := NewConfirmModel(sel, "Delete").View()

	for _, want := range []string{"Confirm Delete", "3 items", scanner.IDSystemCaches, scanner.IDTrash, "cannot be undone"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

// =============================================================================
// Renderer and tree
// =============================================================================

func TestRendererNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, false)

	events := make(chan progress.Event, 4)
	events <- progress.ScanProgress{Category: scanner.IDTrash, CurrentPath: "/x", FilesFound: 1}
	events <- progress.Warning{Path: "/x/locked", Reason: cleaner.ErrorPermissionDenied}
	events <- progress.Completed{Summary: progress.Summary{Operation: progress.OperationClean, Completed: 2, Bytes: 2048}}
	close(events)

	terminal := r.Run(events)
	if _, ok := terminal.(progress.Completed); !ok {
		t.Fatalf("terminal = %T, want Completed", terminal)
	}
	out := buf.String()
	if !strings.Contains(out, "/x/locked") {
		t.Errorf("warning not printed:\n%s", out)
	}
	if strings.Contains(out, "\r") {
		t.Errorf("non-terminal output should have no live redraws: %q", out)
	}
	if len(r.Warnings()) != 1 {
		t.Errorf("Warnings() = %d, want 1", len(r.Warnings()))
	}
}

func TestPrintTree(t *testing.T) {
	res := scanner.NewResult(scanner.IDTempFiles, nil)
	for i := 0; i < 7; i++ {
		res.Add(scanner.Entry{Path: "/tmp/a/f" + string(rune('0'+i)), Size: 100, Category: scanner.IDTempFiles})
	}
	res.Add(scanner.Entry{Path: "/tmp/b/g", Size: 50, Category: scanner.IDTempFiles})

	var buf bytes.Buffer
	PrintTree(&buf, []*scanner.Result{res, scanner.NewResult(scanner.IDTrash, nil)})
	out := buf.String()

	for _, want := range []string{"/tmp/a", "/tmp/b", "and 2 more", "Total: 8 items"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, scanner.IDTrash) {
		t.Error("empty categories should be left out")
	}
}
