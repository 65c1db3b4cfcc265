package views

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ptt-dev/ptt/internal/budget"
	"github.com/ptt-dev/ptt/internal/cli"
	"github.com/ptt-dev/ptt/internal/entry"
	"github.com/ptt-dev/ptt/internal/service"
	"github.com/ptt-dev/ptt/internal/tui/ui"
)

// entryMode represents the current mode of the entries view
type entryMode int

const (
	entryModeNormal entryMode = iota
	entryModeAdd
	entryModeDelete
	entryModeImport
)

// Field indexes of the add form.
const (
	fieldProject = iota
	fieldCategory
	fieldDuration
	fieldCount
)

var entryColumns = []column{
	{title: "#", right: true},
	{title: "Start", style: func(s ui.Styles) lipgloss.Style { return s.Time }},
	{title: "Project", style: func(s ui.Styles) lipgloss.Style { return s.Project }},
	{title: "Category", style: func(s ui.Styles) lipgloss.Style { return s.Category }},
	{title: "Duration", right: true, style: func(s ui.Styles) lipgloss.Style { return s.Duration }},
	{title: "Project total", right: true},
	{title: "Category total", right: true},
	{title: "Pool left", right: true},
}

// EntriesModel is the model for the entries view
type EntriesModel struct {
	ctx      context.Context
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	// UI state
	width  int
	height int
	cursor int
	offset int
	rows   []service.EntryRow
	total  float64
	err    error
	notice string

	// Input mode state
	mode        entryMode
	inputs      []textinput.Model
	focused     int
	importInput textinput.Model
}

// NewEntriesModel creates a new entries view model
func NewEntriesModel(ctx context.Context, services *service.Services, styles ui.Styles, keys ui.KeyMap) EntriesModel {
	placeholders := []string{"Project...", "Category...", "Duration (e.g., 1h30m, 45m, 1:30:00)..."}
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = placeholders[i]
		inputs[i].CharLimit = 100
		inputs[i].Width = 40
	}

	importInput := textinput.New()
	importInput.Placeholder = "File or directory to import..."
	importInput.CharLimit = 500
	importInput.Width = 50

	return EntriesModel{
		ctx:         ctx,
		services:    services,
		styles:      styles,
		keys:        keys,
		inputs:      inputs,
		importInput: importInput,
	}
}

// entriesLoadMsg asks the view to reload the entries.
type entriesLoadMsg struct{}

// Init implements tea.Model
func (m EntriesModel) Init() tea.Cmd {
	return func() tea.Msg { return entriesLoadMsg{} }
}

// Update implements tea.Model
func (m EntriesModel) Update(msg tea.Msg) (EntriesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case entryModeAdd:
			return m.handleAddMode(msg)
		case entryModeDelete:
			return m.handleDeleteMode(msg)
		case entryModeImport:
			return m.handleImportMode(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			m.offset = scrollOffset(m.offset, m.cursor, m.pageSize())
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
			m.offset = scrollOffset(m.offset, m.cursor, m.pageSize())
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.notice = ""
			m.reload()
			return m, nil
		case key.Matches(msg, m.keys.New):
			m.mode = entryModeAdd
			m.err = nil
			state, _ := m.services.Timer.State()
			status, _ := m.services.Timer.StatusOf(&state, false)
			m.inputs[fieldProject].SetValue(status.Project)
			m.inputs[fieldCategory].SetValue(status.Category)
			m.inputs[fieldDuration].SetValue("")
			return m, m.focus(fieldDuration)
		case key.Matches(msg, m.keys.Delete):
			if len(m.rows) > 0 {
				m.mode = entryModeDelete
			}
			return m, nil
		case key.Matches(msg, m.keys.Import):
			m.mode = entryModeImport
			m.importInput.SetValue("")
			m.importInput.Focus()
			return m, textinput.Blink
		}

	case entriesLoadMsg, ui.DataChangedMsg:
		m.reload()
		return m, nil

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	switch m.mode {
	case entryModeAdd:
		var cmd tea.Cmd
		m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
		return m, cmd
	case entryModeImport:
		var cmd tea.Cmd
		m.importInput, cmd = m.importInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// reload rebuilds the table, counting the live session against its pool.
func (m *EntriesModel) reload() {
	m.rows = m.services.Tracker.Rows(m.services.Timer.Live())
	m.total = 0
	for _, r := range m.rows {
		m.total += r.Entry.Duration
	}
	if m.cursor >= len(m.rows) {
		m.cursor = max(0, len(m.rows)-1)
	}
	m.offset = scrollOffset(m.offset, m.cursor, m.pageSize())
}

func (m *EntriesModel) focus(field int) tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focused = field
	m.inputs[field].Focus()
	return textinput.Blink
}

// handleAddMode handles key events in the new entry form
func (m EntriesModel) handleAddMode(msg tea.KeyMsg) (EntriesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		e, err := m.addEntry()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.mode = entryModeNormal
		m.err = nil
		for i := range m.inputs {
			m.inputs[i].Blur()
		}
		m.notice = fmt.Sprintf("Added: %s / %s (%s)", e.Project, e.Category, entry.FormatClock(e.Duration))
		m.reload()
		return m, dataChanged
	case key.Matches(msg, m.keys.Back):
		m.mode = entryModeNormal
		m.err = nil
		for i := range m.inputs {
			m.inputs[i].Blur()
		}
		return m, nil
	case msg.String() == "tab":
		return m, m.focus((m.focused + 1) % fieldCount)
	case msg.String() == "shift+tab":
		return m, m.focus((m.focused + fieldCount - 1) % fieldCount)
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

// addEntry records the form as an entry that ends now.
func (m EntriesModel) addEntry() (entry.TimeEntry, error) {
	raw := strings.TrimSpace(m.inputs[fieldDuration].Value())
	seconds, err := entry.ParseDuration(raw)
	if err != nil {
		return entry.TimeEntry{}, fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	start := m.services.Tracker.Now().Add(-time.Duration(seconds * float64(time.Second)))
	return m.services.Tracker.AddEntry(m.ctx,
		m.inputs[fieldProject].Value(),
		m.inputs[fieldCategory].Value(),
		seconds, start)
}

// handleDeleteMode handles key events when in delete confirmation mode
func (m EntriesModel) handleDeleteMode(msg tea.KeyMsg) (EntriesModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = entryModeNormal
		if m.cursor >= len(m.rows) {
			return m, nil
		}
		removed, err := m.services.Tracker.RemoveEntry(m.ctx, m.rows[m.cursor].Index)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.notice = fmt.Sprintf("Removed: %s / %s (%s)", removed.Project, removed.Category, entry.FormatClock(removed.Duration))
		m.reload()
		return m, dataChanged
	case "n", "N", "esc":
		m.mode = entryModeNormal
	}
	return m, nil
}

// handleImportMode handles key events in the import prompt. An empty path
// imports nothing.
func (m EntriesModel) handleImportMode(msg tea.KeyMsg) (EntriesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		path := strings.TrimSpace(m.importInput.Value())
		m.mode = entryModeNormal
		m.importInput.Blur()
		if path == "" {
			return m, nil
		}
		return m, m.importFrom(path)
	case key.Matches(msg, m.keys.Back):
		m.mode = entryModeNormal
		m.importInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.importInput, cmd = m.importInput.Update(msg)
	return m, cmd
}

func (m *EntriesModel) importFrom(path string) tea.Cmd {
	result, err := m.services.Tracker.Import(m.ctx, []string{path})
	switch {
	case errors.Is(err, service.ErrNoRecognizedFiles):
		m.notice = "Nothing imported: " + err.Error()
		return nil
	case err != nil:
		m.err = err
		return nil
	case !result.Changed():
		m.notice = "Nothing imported: the files are empty"
		return nil
	}

	var parts []string
	if result.EntriesFile != "" {
		parts = append(parts, fmt.Sprintf("%d entries", result.Entries))
	}
	if result.PoolsFile != "" {
		parts = append(parts, fmt.Sprintf("%d pools", result.Pools))
	}
	m.notice = "Imported " + strings.Join(parts, " and ")
	if n := len(result.Warnings); n > 0 {
		m.notice += fmt.Sprintf(" (%d corrupted %s skipped or repaired)", n, cli.Pluralize("line", n))
	}
	m.err = nil
	m.reload()
	return dataChanged
}

// View implements tea.Model
func (m EntriesModel) View() string {
	switch m.mode {
	case entryModeAdd:
		return m.renderAddForm()
	case entryModeDelete:
		return m.renderDeleteConfirm()
	case entryModeImport:
		return m.renderImportPrompt()
	}

	var b strings.Builder
	b.WriteString(m.styles.ViewTitle.Render("Entries"))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if len(m.rows) == 0 {
		b.WriteString(m.styles.Label.Render("No entries recorded"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.StatusHelp.Render("Press 'n' to add an entry or 'i' to import"))
		b.WriteString("\n")
	} else {
		b.WriteString(renderTable(entryColumns, m.tableRows(), m.styles, tableOptions{
			Width:  m.width,
			Cursor: m.cursor,
			Offset: m.offset,
			Limit:  m.pageSize(),
		}))
		b.WriteString(strings.Repeat("─", min(60, max(m.width, 20))))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Total: %s (%d %s)", entry.FormatClock(m.total), len(m.rows), cli.Pluralize("session", len(m.rows))))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Success.Render(m.notice))
	}
	return b.String()
}

func (m EntriesModel) tableRows() [][]string {
	rows := make([][]string, len(m.rows))
	for i, r := range m.rows {
		rows[i] = []string{
			strconv.Itoa(r.Position),
			r.Display,
			r.Entry.Project,
			r.Entry.Category,
			entry.FormatClock(r.Entry.Duration),
			entry.FormatClock(r.ProjectTotal),
			entry.FormatClock(r.CategoryTotal),
			budget.Format(r.PoolRemaining, r.HasPool),
		}
	}
	return rows
}

// renderAddForm renders the new entry form
func (m EntriesModel) renderAddForm() string {
	var b strings.Builder
	b.WriteString(m.styles.ViewTitle.Render("New Entry"))
	b.WriteString("\n\n")

	labels := []string{"Project:", "Category:", "Duration:"}
	for i, label := range labels {
		if i == m.focused {
			label = "▸ " + label
		}
		b.WriteString(m.styles.Label.Render(label))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n\n")
	}

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}
	b.WriteString(m.styles.StatusHelp.Render("The entry ends now. Tab to switch fields, Enter to save, Esc to cancel"))
	return b.String()
}

// renderDeleteConfirm renders the delete confirmation dialog
func (m EntriesModel) renderDeleteConfirm() string {
	var b strings.Builder
	b.WriteString(m.styles.ViewTitle.Render("Remove Entry"))
	b.WriteString("\n\n")

	if m.cursor < len(m.rows) {
		r := m.rows[m.cursor]
		b.WriteString(m.styles.Warning.Render("Remove this entry? A backup is kept."))
		b.WriteString("\n\n")
		b.WriteString(labelValue(m.styles, "Start:", r.Display))
		b.WriteString(labelValue(m.styles, "Project:", r.Entry.Project))
		b.WriteString(labelValue(m.styles, "Category:", r.Entry.Category))
		b.WriteString(labelValue(m.styles, "Duration:", entry.FormatClock(r.Entry.Duration)))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.StatusHelp.Render("Press Y to confirm, N or Esc to cancel"))
	return b.String()
}

func (m EntriesModel) renderImportPrompt() string {
	var b strings.Builder
	b.WriteString(m.styles.ViewTitle.Render("Import"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Label.Render("Path:"))
	b.WriteString("\n")
	b.WriteString(m.importInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.StatusHelp.Render(fmt.Sprintf("Recognized files: %s, %s. The stores they replace are backed up.",
		service.EntriesExportName, service.PoolsExportName)))
	b.WriteString("\n")
	b.WriteString(m.styles.StatusHelp.Render("Enter to import, Esc to cancel"))
	return b.String()
}

// SetSize sets the view dimensions
func (m *EntriesModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.offset = scrollOffset(m.offset, m.cursor, m.pageSize())
}

// pageSize is the number of rows that fit under the title, header and
// totals.
func (m EntriesModel) pageSize() int {
	return visibleRows(m.height, 7)
}

// Rows returns the rows currently shown.
func (m EntriesModel) Rows() []service.EntryRow {
	return m.rows
}

// Notice returns the last action message.
func (m EntriesModel) Notice() string {
	return m.notice
}

// IsInputMode returns true when the view is capturing keyboard input
func (m EntriesModel) IsInputMode() bool {
	return m.mode == entryModeAdd || m.mode == entryModeImport
}
