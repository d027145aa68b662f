package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/fenilsonani/reclaim/internal/progress"
	"github.com/fenilsonani/reclaim/internal/ui/styles"
	"github.com/fenilsonani/reclaim/pkg/utils"
)

// Renderer draws an operation's event stream on a terminal. On a
// non-terminal writer it prints warnings and the final summary only.
type Renderer struct {
	out      io.Writer
	width    int
	live     bool
	lastLine time.Time
	bar      *progressbar.ProgressBar
	barMax   int
	scanning bool
	warnings []progress.Warning
}

// NewRenderer creates a renderer for out. quiet turns live output off.
func NewRenderer(out io.Writer, quiet bool) *Renderer {
	width := 80
	live := false
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		live = !quiet
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	return &Renderer{
		out:   out,
		width: width,
		live:  live,
	}
}

// Run consumes events until the channel closes and returns the terminal
// event, or nil if the stream ended without one
func (r *Renderer) Run(events <-chan progress.Event) progress.Event {
	var terminal progress.Event
	for e := range events {
		r.Handle(e)
		if progress.Terminal(e) {
			terminal = e
		}
	}
	return terminal
}

// Handle renders a single event
func (r *Renderer) Handle(e progress.Event) {
	switch ev := e.(type) {
	case progress.ScanProgress:
		r.scanLine(ev)
	case progress.CleanProgress:
		r.advance(ev.Total, ev.Done, fmt.Sprintf("Cleaning %s", ev.Category))
	case progress.ShredProgress:
		r.advance(ev.FilesTotal, ev.FilesDone, fmt.Sprintf("Shredding pass %d/%d", ev.Pass, ev.Passes))
	case progress.Warning:
		r.warnings = append(r.warnings, ev)
		if r.scanning || r.bar != nil {
			r.clearLine()
		}
		fmt.Fprintf(r.out, "%s %s\n", styles.WarningStyle.Render("!"), progress.Format(ev))
	case progress.Completed:
		r.finish()
		fmt.Fprintln(r.out, styles.SuccessStyle.Render(ev.Summary.String()))
	case progress.Failed:
		r.finish()
		fmt.Fprintln(r.out, styles.ErrorStyle.Render(progress.Format(ev)))
	}
}

// Warnings returns every warning seen so far
func (r *Renderer) Warnings() []progress.Warning {
	return r.warnings
}

func (r *Renderer) scanLine(ev progress.ScanProgress) {
	if !r.live {
		return
	}
	// Throttle redraws to avoid flicker
	now := time.Now()
	if now.Sub(r.lastLine) < 100*time.Millisecond {
		return
	}
	r.lastLine = now
	r.scanning = true

	spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spin := spinner[int(now.UnixMilli()/100)%len(spinner)]

	head := fmt.Sprintf("%s [%d/%d] %s  %d found  %s  ",
		spin, ev.CategoriesDone+1, ev.CategoriesTotal,
		styles.CategoryStyle.Render(ev.Category), ev.FilesFound, utils.FormatBytes(ev.TotalSize))
	room := r.width - lipgloss.Width(head) - 1
	fmt.Fprintf(r.out, "\r\033[K%s%s", head, styles.DimStyle.Render(shortenPath(ev.CurrentPath, room)))
}

func (r *Renderer) advance(total, done int, desc string) {
	if !r.live || total <= 0 {
		return
	}
	if r.scanning {
		r.clearLine()
		r.scanning = false
	}
	if r.bar == nil || r.barMax != total {
		r.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(r.out),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
			progressbar.OptionClearOnFinish(),
		)
		r.barMax = total
	}
	r.bar.Describe(desc)
	_ = r.bar.Set(done)
}

func (r *Renderer) finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
	if r.scanning {
		r.clearLine()
		r.scanning = false
	}
}

func (r *Renderer) clearLine() {
	fmt.Fprint(r.out, "\r\033[K")
}

// shortenPath keeps the tail of a path within width
func shortenPath(path string, width int) string {
	if width < 8 {
		return ""
	}
	if len(path) <= width {
		return path
	}
	return "..." + path[len(path)-(width-3):]
}
