// Package cli provides the CLI presentation helpers for ptt: aligned tables,
// duration wording and terminal detection.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/ptt-dev/ptt/internal/service"
	"golang.org/x/term"
)

// maxWarningWidth bounds the quoted line in corruption warnings.
const maxWarningWidth = 50

// minColumnWidth is how far Fit shrinks a column.
const minColumnWidth = 6

// Align is the horizontal alignment of a table column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table renders rows in columns padded to their display width, so wide
// runes in project names keep the columns straight.
type Table struct {
	headers  []string
	aligns   []Align
	rows     [][]string
	maxWidth int
	shrink   []int
}

// NewTable creates a table with the given headers, all left-aligned.
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		aligns:  make([]Align, len(headers)),
	}
}

// AlignRight right-aligns the given columns.
func (t *Table) AlignRight(columns ...int) *Table {
	for _, c := range columns {
		if c >= 0 && c < len(t.aligns) {
			t.aligns[c] = AlignRight
		}
	}
	return t
}

// Fit limits rendered lines to width columns by truncating the given
// columns, widest first. A width of 0 or less renders at full width.
func (t *Table) Fit(width int, columns ...int) *Table {
	t.maxWidth = width
	t.shrink = columns
	return t
}

// AddRow appends a row. Missing cells are rendered empty; extra cells are
// dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table to w.
func (t *Table) Render(w io.Writer) error {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	t.fitWidths(widths)

	if err := t.renderLine(w, t.headers, widths); err != nil {
		return err
	}
	for _, row := range t.rows {
		if err := t.renderLine(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) fitWidths(widths []int) {
	if t.maxWidth <= 0 {
		return
	}
	total := 2 * (len(widths) - 1)
	for _, cw := range widths {
		total += cw
	}
	for total > t.maxWidth {
		widest := -1
		for _, c := range t.shrink {
			if c < 0 || c >= len(widths) || widths[c] <= minColumnWidth {
				continue
			}
			if widest < 0 || widths[c] > widths[widest] {
				widest = c
			}
		}
		if widest < 0 {
			return
		}
		widths[widest]--
		total--
	}
}

func (t *Table) renderLine(w io.Writer, cells []string, widths []int) error {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if runewidth.StringWidth(cell) > widths[i] {
			cell = runewidth.Truncate(cell, widths[i], "…")
		}
		if t.aligns[i] == AlignRight {
			parts[i] = runewidth.FillLeft(cell, widths[i])
		} else {
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	return err
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the column count of w, or fallback when w is not a
// terminal.
func TerminalWidth(w io.Writer, fallback int) int {
	f, ok := w.(*os.File)
	if !ok {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

// Bell returns the terminal bell when w is a terminal, so piped output stays
// clean.
func Bell(w io.Writer) string {
	if IsTerminal(w) {
		return "\a"
	}
	return ""
}

// FormatMinutes formats minutes as a human-readable string
// Examples: "30m", "2h", "1h 30m"
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// FormatCorruptionWarning formats a LoadWarning into a human-readable string
func FormatCorruptionWarning(warning service.LoadWarning) string {
	content := runewidth.Truncate(warning.Content, maxWarningWidth, "...")
	action := "skipped"
	if !warning.Skipped {
		action = "repaired"
	}
	return fmt.Sprintf("  Line %d: %s (%s: %s)", warning.LineNumber, content, action, warning.Reason)
}

// Pluralize returns the singular or plural form of a word based on count
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
