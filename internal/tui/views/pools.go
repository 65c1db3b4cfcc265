package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ptt-dev/ptt/internal/budget"
	"github.com/ptt-dev/ptt/internal/cli"
	"github.com/ptt-dev/ptt/internal/entry"
	"github.com/ptt-dev/ptt/internal/pool"
	"github.com/ptt-dev/ptt/internal/service"
	"github.com/ptt-dev/ptt/internal/tui/ui"
)

var poolColumns = []column{
	{title: "Category", style: func(s ui.Styles) lipgloss.Style { return s.Category }},
	{title: "Daily", right: true},
	{title: "Pool left", right: true},
	{title: "Total", right: true, style: func(s ui.Styles) lipgloss.Style { return s.Duration }},
}

// PoolsModel is the model for the pools view
type PoolsModel struct {
	ctx      context.Context
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	width  int
	height int
	cursor int
	offset int
	rows   []service.PoolRow
	err    error
	notice string
}

// NewPoolsModel creates a new pools view model
func NewPoolsModel(ctx context.Context, services *service.Services, styles ui.Styles, keys ui.KeyMap) PoolsModel {
	return PoolsModel{
		ctx:      ctx,
		services: services,
		styles:   styles,
		keys:     keys,
	}
}

// poolsLoadMsg asks the view to reload the pools.
type poolsLoadMsg struct{}

// Init implements tea.Model
func (m PoolsModel) Init() tea.Cmd {
	return func() tea.Msg { return poolsLoadMsg{} }
}

// Update implements tea.Model
func (m PoolsModel) Update(msg tea.Msg) (PoolsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			m.offset = scrollOffset(m.offset, m.cursor, m.pageSize())
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
			m.offset = scrollOffset(m.offset, m.cursor, m.pageSize())
		case key.Matches(msg, m.keys.Right):
			return m, m.step(1)
		case key.Matches(msg, m.keys.Left):
			return m, m.step(-1)
		case key.Matches(msg, m.keys.Refresh):
			m.notice = ""
			m.reload()
		}
		return m, nil

	case poolsLoadMsg, ui.DataChangedMsg:
		m.reload()
		return m, nil

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}
	return m, nil
}

// reload rebuilds the table, counting the live session against its pool.
func (m *PoolsModel) reload() {
	m.rows = m.services.Tracker.PoolRows(m.services.Timer.Live())
	if m.cursor >= len(m.rows) {
		m.cursor = max(0, len(m.rows)-1)
	}
	m.offset = scrollOffset(m.offset, m.cursor, m.pageSize())
}

// step moves the pool of the selected category through pool.Choices.
func (m *PoolsModel) step(direction int) tea.Cmd {
	if m.cursor >= len(m.rows) {
		return nil
	}
	row := m.rows[m.cursor]
	next := stepChoice(pool.Choices, row.DailyMinutes, direction)

	stored, err := m.services.Tracker.SetDailyMinutes(m.ctx, row.Category, next)
	if err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	if stored == 0 {
		m.notice = fmt.Sprintf("Pool of %s disabled", row.Category)
	} else {
		m.notice = fmt.Sprintf("Pool of %s set to %s per day", row.Category, cli.FormatMinutes(stored))
	}
	m.reload()
	return dataChanged
}

// View implements tea.Model
func (m PoolsModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.ViewTitle.Render("Daily Pools"))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if len(m.rows) == 0 {
		b.WriteString(m.styles.Label.Render("No categories yet"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.StatusHelp.Render("Categories appear once an entry is recorded"))
		return b.String()
	}

	rows := make([][]string, len(m.rows))
	for i, r := range m.rows {
		daily := "-"
		if r.DailyMinutes > 0 {
			daily = cli.FormatMinutes(r.DailyMinutes)
		}
		rows[i] = []string{
			r.Category,
			daily,
			budget.Format(r.Remaining, r.HasPool),
			entry.FormatClock(r.Total),
		}
	}
	b.WriteString(renderTable(poolColumns, rows, m.styles, tableOptions{
		Width:  m.width,
		Cursor: m.cursor,
		Offset: m.offset,
		Limit:  m.pageSize(),
	}))

	b.WriteString("\n")
	b.WriteString(m.styles.StatusHelp.Render("The pool grows by the daily minutes every day since the first entry of the category."))
	if m.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Success.Render(m.notice))
	}
	return b.String()
}

// SetSize sets the view dimensions
func (m *PoolsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.offset = scrollOffset(m.offset, m.cursor, m.pageSize())
}

func (m PoolsModel) pageSize() int {
	return visibleRows(m.height, 7)
}

// Rows returns the rows currently shown.
func (m PoolsModel) Rows() []service.PoolRow {
	return m.rows
}
