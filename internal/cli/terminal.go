package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/vijay-prabhu/searchlens/internal/categorizer"
)

// Terminal provides terminal-aware status output
type Terminal struct {
	w          io.Writer
	IsTerminal bool

	ok   *color.Color
	warn *color.Color
	dim  *color.Color
}

// NewTerminal creates a Terminal writing to w. Color and status lines are
// only emitted when w is a terminal.
func NewTerminal(w io.Writer) *Terminal {
	isTerminal := false
	if f, ok := w.(*os.File); ok {
		isTerminal = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	t := &Terminal{
		w:          w,
		IsTerminal: isTerminal,
		ok:         color.New(color.FgGreen),
		warn:       color.New(color.FgYellow),
		dim:        color.New(color.FgHiBlack),
	}
	if !isTerminal {
		for _, c := range []*color.Color{t.ok, t.warn, t.dim} {
			c.DisableColor()
		}
	}
	return t
}

// Summary prints a one-line recap of a categorization run
func (t *Terminal) Summary(r categorizer.Report, categories int) {
	if !t.IsTerminal {
		return
	}
	fmt.Fprint(t.w, t.SummaryLine(r, categories))
}

// SummaryLine formats the recap printed by Summary
func (t *Terminal) SummaryLine(r categorizer.Report, categories int) string {
	line := t.ok.Sprintf("✓ %d items in %d categories", r.Assigned(), categories)
	if r.Fallback > 0 {
		line += t.warn.Sprintf(", %d in fallback", r.Fallback)
	}
	if r.Skipped > 0 {
		line += t.warn.Sprintf(", %d skipped", r.Skipped)
	}
	if r.DroppedItems > 0 {
		line += t.warn.Sprintf(", %d dropped by the category cap", r.DroppedItems)
	}
	return line + t.dim.Sprintf(" (%s)", r.Duration.Round(time.Microsecond)) + "\n"
}
