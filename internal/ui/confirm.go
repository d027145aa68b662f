package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fenilsonani/reclaim/internal/scanner"
	"github.com/fenilsonani/reclaim/internal/ui/styles"
	"github.com/fenilsonani/reclaim/pkg/utils"
)

// RiskLevel represents the risk level of a deletion
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

// RiskOf rates a selection by size and by the categories it touches
func RiskOf(entries []scanner.Entry) RiskLevel {
	cats := make(map[string]bool)
	reportOnly := false
	for _, e := range entries {
		cats[e.Category] = true
		reportOnly = reportOnly || e.ReportOnly
	}

	switch {
	case len(entries) > 500, reportOnly, cats[scanner.IDPackageManagers], cats[scanner.IDDuplicates], cats[scanner.IDPrivacyData]:
		return RiskHigh
	case len(entries) >= 50, cats[scanner.IDAppLogs], len(cats) > 2:
		return RiskMedium
	default:
		return RiskLow
	}
}

type confirmKeys struct {
	Yes    key.Binding
	No     key.Binding
	Toggle key.Binding
	Enter  key.Binding
}

var defaultConfirmKeys = confirmKeys{
	Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "delete")),
	No:     key.NewBinding(key.WithKeys("n", "N", "q", "esc", "ctrl+c"), key.WithHelp("n/esc", "cancel")),
	Toggle: key.NewBinding(key.WithKeys("left", "right", "h", "l", "tab"), key.WithHelp("←/→", "choose")),
	Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept")),
}

// ConfirmModel asks the user to approve a deletion
type ConfirmModel struct {
	entries   []scanner.Entry
	action    string
	risk      RiskLevel
	yes       bool // cursor on the delete button
	confirmed bool
	done      bool
	keys      confirmKeys
}

// NewConfirmModel creates the prompt. High-risk selections start with the
// cursor on Cancel.
func NewConfirmModel(entries []scanner.Entry, action string) *ConfirmModel {
	risk := RiskOf(entries)
	return &ConfirmModel{
		entries: entries,
		action:  action,
		risk:    risk,
		yes:     risk != RiskHigh,
		keys:    defaultConfirmKeys,
	}
}

// Confirmed reports whether the user approved
func (m *ConfirmModel) Confirmed() bool {
	return m.confirmed
}

func (m *ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Yes):
		m.confirmed, m.done = true, true
		return m, tea.Quit
	case key.Matches(k, m.keys.No):
		m.done = true
		return m, tea.Quit
	case key.Matches(k, m.keys.Toggle):
		m.yes = !m.yes
	case key.Matches(k, m.keys.Enter):
		m.confirmed, m.done = m.yes, true
		return m, tea.Quit
	}
	return m, nil
}

func (m *ConfirmModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Confirm " + m.action))
	b.WriteString("\n\n")

	var total int64
	type bucket struct {
		count int
		size  int64
	}
	byCat := make(map[string]*bucket)
	for _, e := range m.entries {
		total += e.Size
		if byCat[e.Category] == nil {
			byCat[e.Category] = &bucket{}
		}
		byCat[e.Category].count++
		byCat[e.Category].size += e.Size
	}
	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	b.WriteString(styles.BoldStyle.Render(fmt.Sprintf("You are about to %s %d items (%s)",
		strings.ToLower(m.action), len(m.entries), utils.FormatBytes(total))))
	b.WriteString("\n\n")
	for _, c := range cats {
		fmt.Fprintf(&b, "  %-20s %5d items  %s\n", styles.CategoryStyle.Render(c), byCat[c].count, styles.Size(byCat[c].size))
	}
	b.WriteString("\n")

	switch m.risk {
	case RiskHigh:
		b.WriteString("Risk: " + styles.ErrorStyle.Render("HIGH (many items, package managers, duplicates or review-only entries)"))
	case RiskMedium:
		b.WriteString("Risk: " + styles.WarningStyle.Render("MEDIUM (logs or several categories)"))
	default:
		b.WriteString("Risk: " + styles.SuccessStyle.Render("LOW (caches and temporary files)"))
	}
	b.WriteString("\n")
	b.WriteString(styles.WarningStyle.Render("This action cannot be undone!"))
	b.WriteString("\n\n")

	yesBtn, noBtn := "[ Yes, "+strings.ToLower(m.action)+" ]", "[ Cancel ]"
	if m.yes {
		yesBtn = styles.HighlightStyle.Render(yesBtn)
	} else {
		noBtn = styles.HighlightStyle.Render(noBtn)
	}
	b.WriteString(yesBtn + "  " + noBtn + "\n\n")

	var help []string
	for _, kb := range []key.Binding{m.keys.Yes, m.keys.No, m.keys.Toggle, m.keys.Enter} {
		h := kb.Help()
		help = append(help, h.Key+":"+h.Desc)
	}
	b.WriteString(styles.HelpStyle.Render(strings.Join(help, "  ")))
	b.WriteString("\n")

	return styles.DangerPanelStyle.Render(b.String())
}

// Confirm shows the prompt on out, reading keys from in, and returns the
// user's answer
func Confirm(entries []scanner.Entry, action string, in io.Reader, out io.Writer) (bool, error) {
	m := NewConfirmModel(entries, action)
	final, err := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	return final.(*ConfirmModel).Confirmed(), nil
}
