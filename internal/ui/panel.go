package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/idilsaglam/tada/internal/store"
)

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Panel frames lines in the theme's border.
func (t Theme) Panel(lines []string) string {
	return t.Frame(strings.Join(lines, "\n"))
}

// Frame draws a bordered box around inner.
func (t Theme) Frame(inner string) string {
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(inner)
}

// Header is the counts line shown above a list.
func (t Theme) Header(todos store.Todos) string {
	d, p := todos.Stats()
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(todos),
	)
}

// maxItemWidth is the widest an item's text may render, in terminal cells.
const maxItemWidth = 80

// ItemLine renders one entry with its 1-based index.
func (t Theme) ItemLine(index int, text string, done bool) string {
	box, style := t.Muted.Render(t.BoxUnchecked), lipgloss.NewStyle()
	if done {
		box, style = t.Success.Render(t.BoxChecked), t.Done
	}
	text = ansi.Truncate(text, maxItemWidth, "...")
	return fmt.Sprintf("%s %s %s", t.Muted.Render(fmt.Sprintf("%2d.", index)), box, style.Render(text))
}

// ListLines renders the whole list, or a placeholder when it is empty.
func (t Theme) ListLines(todos store.Todos) []string {
	if len(todos) == 0 {
		return []string{t.Muted.Render("no items")}
	}
	out := make([]string, 0, len(todos))
	for i, it := range todos {
		out = append(out, t.ItemLine(i+1, it.Text, it.Completed))
	}
	return out
}

// GroupLines renders pending items, then done items. Each keeps its
// position in the full list as its index.
func (t Theme) GroupLines(todos store.Todos) []string {
	var pend, done []string
	for i, it := range todos {
		line := t.ItemLine(i+1, it.Text, it.Completed)
		if it.Completed {
			done = append(done, line)
		} else {
			pend = append(pend, line)
		}
	}
	none := []string{t.Muted.Render("(none)")}
	if len(pend) == 0 {
		pend = none
	}
	if len(done) == 0 {
		done = none
	}

	lines := []string{t.Accent.Render("Pending")}
	lines = append(lines, pend...)
	lines = append(lines, "", t.Accent.Render("Done"))
	return append(lines, done...)
}

// OK prints a success line.
func (t Theme) OK(w io.Writer, msg string) {
	fmt.Fprintln(w, t.Success.Render(t.SymDone+" "+msg))
}

// Fail prints an error line.
func (t Theme) Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, t.Error.Render("✖ "+msg))
}
