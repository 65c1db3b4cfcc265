package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/ptt-dev/ptt/internal/tui/ui"
)

// column describes one table column.
type column struct {
	title string
	right bool
	style func(ui.Styles) lipgloss.Style
}

// tableOptions configures renderTable.
type tableOptions struct {
	Width  int // available width, 0 for unlimited
	Cursor int // highlighted row, -1 for none
	Offset int // first row shown
	Limit  int // rows shown, 0 for all
}

// renderTable renders rows under aligned column headers. The first column
// that does not fit into the width is truncated.
func renderTable(columns []column, rows [][]string, styles ui.Styles, opts tableOptions) string {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = runewidth.StringWidth(c.title)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	shrink(widths, opts.Width)

	var b strings.Builder
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = pad(c.title, widths[i], c.right)
	}
	b.WriteString(styles.Header.Render(strings.Join(headers, "  ")))
	b.WriteString("\n")

	end := len(rows)
	if opts.Limit > 0 && opts.Offset+opts.Limit < end {
		end = opts.Offset + opts.Limit
	}
	for r := opts.Offset; r < end; r++ {
		cells := make([]string, len(columns))
		for i, c := range columns {
			cell := pad(rows[r][i], widths[i], c.right)
			if r != opts.Cursor && c.style != nil {
				cell = c.style(styles).Render(cell)
			}
			cells[i] = cell
		}
		line := strings.Join(cells, "  ")
		if r == opts.Cursor {
			line = styles.RowSelected.Render(line)
		} else {
			line = styles.RowNormal.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// shrink narrows the widest columns until the table fits into width.
func shrink(widths []int, width int) {
	if width <= 0 {
		return
	}
	total := 2 * (len(widths) - 1)
	for _, w := range widths {
		total += w
	}
	for total > width {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= 8 {
			return
		}
		widths[widest]--
		total--
	}
}

func pad(s string, width int, right bool) string {
	s = runewidth.Truncate(s, width, "…")
	if right {
		return runewidth.FillLeft(s, width)
	}
	return runewidth.FillRight(s, width)
}

// scrollOffset keeps cursor inside a window of visible rows.
func scrollOffset(offset, cursor, visible int) int {
	if visible <= 0 {
		return 0
	}
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+visible {
		return cursor - visible + 1
	}
	return offset
}

// visibleRows is the number of table rows that fit into height after
// reserved lines.
func visibleRows(height, reserved int) int {
	if height <= 0 {
		return 0
	}
	return max(1, height-reserved)
}

func labelValue(styles ui.Styles, label, value string) string {
	return styles.Label.Render(label) + " " + styles.Value.Render(value) + "\n"
}

// cycle returns the element after current in choices, wrapping around. A
// current value missing from choices moves to the first element.
func cycle[T comparable](choices []T, current T) T {
	for i, c := range choices {
		if c == current {
			return choices[(i+1)%len(choices)]
		}
	}
	return choices[0]
}
