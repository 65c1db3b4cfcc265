package views

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ptt-dev/ptt/internal/budget"
	"github.com/ptt-dev/ptt/internal/cli"
	"github.com/ptt-dev/ptt/internal/entry"
	"github.com/ptt-dev/ptt/internal/service"
	"github.com/ptt-dev/ptt/internal/session"
	"github.com/ptt-dev/ptt/internal/tui/ui"
)

// FlashDuration is how long a reminder stays highlighted.
const FlashDuration = 3 * time.Second

// TimerModel is the model for the timer view
type TimerModel struct {
	ctx      context.Context
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	// UI state
	width      int
	height     int
	status     service.TimerStatus
	err        error
	notice     string
	flashUntil time.Time

	// Label editing
	editing       bool
	projectInput  textinput.Model
	categoryInput textinput.Model
	focusedInput  int // 0 = project, 1 = category
}

// NewTimerModel creates a new timer view model
func NewTimerModel(ctx context.Context, services *service.Services, styles ui.Styles, keys ui.KeyMap) TimerModel {
	project := textinput.New()
	project.Placeholder = "Project..."
	project.CharLimit = 100
	project.Width = 40

	category := textinput.New()
	category.Placeholder = "Category..."
	category.CharLimit = 100
	category.Width = 40

	return TimerModel{
		ctx:           ctx,
		services:      services,
		styles:        styles,
		keys:          keys,
		projectInput:  project,
		categoryInput: category,
	}
}

// timerLoadMsg asks the view to reload the session.
type timerLoadMsg struct{}

// timerTickMsg is sent every second to update elapsed time
type timerTickMsg time.Time

// Init implements tea.Model
func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return timerLoadMsg{} },
		m.tickTimer(),
	)
}

// Update implements tea.Model
func (m TimerModel) Update(msg tea.Msg) (TimerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.handleEditMode(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Toggle):
			return m.run((*TimerModel).toggle)
		case key.Matches(msg, m.keys.Stop):
			return m.run((*TimerModel).stop)
		case key.Matches(msg, m.keys.Cancel):
			return m.run((*TimerModel).cancel)
		case key.Matches(msg, m.keys.Reminder):
			return m.run((*TimerModel).cycleReminder)
		case key.Matches(msg, m.keys.Project):
			return m.run((*TimerModel).cycleProject)
		case key.Matches(msg, m.keys.Category):
			return m.run((*TimerModel).cycleCategory)
		case key.Matches(msg, m.keys.Edit):
			m.editing = true
			m.projectInput.SetValue(m.status.State.Project)
			m.categoryInput.SetValue(m.status.State.Category)
			m.focusedInput = 0
			m.categoryInput.Blur()
			m.projectInput.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Refresh):
			m.notice = ""
			return m.apply(nil)
		}

	case timerLoadMsg, ui.DataChangedMsg:
		return m.apply(nil)

	case timerTickMsg:
		var cmd tea.Cmd
		m, cmd = m.apply(nil)
		return m, tea.Batch(cmd, m.tickTimer())

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	if m.editing {
		return m.updateFocused(msg)
	}
	return m, nil
}

// handleEditMode handles key events while editing the labels
func (m TimerModel) handleEditMode(msg tea.KeyMsg) (TimerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		project := strings.TrimSpace(m.projectInput.Value())
		category := strings.TrimSpace(m.categoryInput.Value())
		if _, err := m.services.Timer.SetLabels(project, category); err != nil {
			m.err = err
			return m, nil
		}
		m.editing = false
		m.projectInput.Blur()
		m.categoryInput.Blur()
		m.notice = ""
		return m.apply(nil)
	case key.Matches(msg, m.keys.Back):
		m.editing = false
		m.err = nil
		m.projectInput.Blur()
		m.categoryInput.Blur()
		return m, nil
	case msg.String() == "tab":
		if m.focusedInput == 0 {
			m.focusedInput = 1
			m.projectInput.Blur()
			m.categoryInput.Focus()
		} else {
			m.focusedInput = 0
			m.categoryInput.Blur()
			m.projectInput.Focus()
		}
		return m, textinput.Blink
	}
	return m.updateFocused(msg)
}

func (m TimerModel) updateFocused(msg tea.Msg) (TimerModel, tea.Cmd) {
	var cmd tea.Cmd
	if m.focusedInput == 0 {
		m.projectInput, cmd = m.projectInput.Update(msg)
	} else {
		m.categoryInput, cmd = m.categoryInput.Update(msg)
	}
	return m, cmd
}

// run performs action and reloads the session.
func (m TimerModel) run(action func(*TimerModel) tea.Cmd) (TimerModel, tea.Cmd) {
	cmd := action(&m)
	return m.apply(cmd)
}

// apply reloads the session after action and fires the reminder when its
// threshold was crossed.
func (m TimerModel) apply(action tea.Cmd) (TimerModel, tea.Cmd) {
	state, err := m.services.Timer.State()
	if err != nil {
		m.err = err
		return m, action
	}
	status, err := m.services.Timer.StatusOf(&state, true)
	m.status = status
	m.err = err

	cmds := []tea.Cmd{action}
	if status.ReminderDue {
		m.flashUntil = m.services.Tracker.Now().Add(FlashDuration)
		cmds = append(cmds, ring)
	}
	return m, tea.Batch(cmds...)
}

func (m *TimerModel) toggle() tea.Cmd {
	if _, err := m.services.Timer.Toggle(); err != nil {
		m.notice = "Error: " + err.Error()
		return nil
	}
	m.notice = ""
	return nil
}

func (m *TimerModel) stop() tea.Cmd {
	e, err := m.services.Timer.Stop(m.ctx)
	if errors.Is(err, service.ErrNoSession) {
		m.notice = "No session to stop"
		return nil
	}
	if err != nil {
		m.notice = "Error: " + err.Error()
		return nil
	}
	m.notice = fmt.Sprintf("Recorded %s / %s (%s)", e.Project, e.Category, entry.FormatClock(e.Duration))
	return dataChanged
}

func (m *TimerModel) cancel() tea.Cmd {
	discarded, err := m.services.Timer.Cancel()
	if errors.Is(err, service.ErrNoSession) {
		m.notice = "No session to cancel"
		return nil
	}
	if err != nil {
		m.notice = "Error: " + err.Error()
		return nil
	}
	m.notice = fmt.Sprintf("Cancelled session (%s discarded)", entry.FormatClock(discarded.Elapsed(m.services.Tracker.Now())))
	return dataChanged
}

func (m *TimerModel) cycleReminder() tea.Cmd {
	next := stepChoice(session.ReminderChoices, reminderMinutes(m.status.State), 1)
	if _, err := m.services.Timer.SetReminder(next); err != nil {
		m.notice = "Error: " + err.Error()
		return nil
	}
	if next == 0 {
		m.notice = "Reminder off"
	} else {
		m.notice = "Reminder every " + cli.FormatMinutes(next)
	}
	return nil
}

func (m *TimerModel) cycleProject() tea.Cmd {
	projects := m.services.Tracker.ProjectsForCategory(m.status.Category)
	if len(projects) == 0 {
		projects = m.services.Tracker.Projects()
	}
	if len(projects) == 0 {
		m.notice = "No projects recorded yet"
		return nil
	}
	next := cycle(projects, m.status.Project)
	if _, err := m.services.Timer.SetLabels(next, m.status.State.Category); err != nil {
		m.notice = "Error: " + err.Error()
		return nil
	}
	m.notice = ""
	return dataChanged
}

// cycleCategory moves to the next known category. The project follows to
// the first project of that category unless it already belongs to it.
func (m *TimerModel) cycleCategory() tea.Cmd {
	categories := knownCategories(m.services.Tracker)
	if len(categories) == 0 {
		m.notice = "No categories yet"
		return nil
	}
	next := cycle(categories, m.status.Category)

	project := m.status.State.Project
	projects := m.services.Tracker.ProjectsForCategory(next)
	if len(projects) > 0 && !contains(projects, m.status.Project) {
		project = projects[0]
	}
	if _, err := m.services.Timer.SetLabels(project, next); err != nil {
		m.notice = "Error: " + err.Error()
		return nil
	}
	m.notice = ""
	return dataChanged
}

// View implements tea.Model
func (m TimerModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Timer"))
	b.WriteString("\n\n")

	if m.editing {
		b.WriteString(m.renderEditForm())
		return b.String()
	}

	if m.Flashing() {
		msg := fmt.Sprintf("Reminder: you have been working for %s", entry.FormatClock(m.status.Elapsed))
		b.WriteString(m.styles.Flash.Render(msg))
		b.WriteString("\n\n")
	}

	state := m.status.State
	switch {
	case state.Running():
		b.WriteString(m.styles.TimerRunning.Render("● Running"))
	case state.Paused():
		b.WriteString(m.styles.TimerPaused.Render("❚❚ Paused"))
	default:
		b.WriteString(m.styles.TimerStopped.Render("○ No session active"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.styles.Label.Render("Elapsed:"))
	b.WriteString(" ")
	b.WriteString(m.styles.TimerElapsed.Render(entry.FormatClock(m.status.Elapsed)))
	b.WriteString("\n")
	b.WriteString(labelValue(m.styles, "Project:", fmt.Sprintf("%s (total %s)", m.status.Project, entry.FormatClock(m.status.ProjectTotal))))
	b.WriteString(labelValue(m.styles, "Category:", fmt.Sprintf("%s (total %s)", m.status.Category, entry.FormatClock(m.status.CategoryTotal))))

	b.WriteString(m.styles.Label.Render("Pool left:"))
	b.WriteString(" ")
	left := budget.Format(m.status.PoolRemaining, m.status.HasPool)
	if m.status.HasPool && m.status.PoolRemaining < 0 {
		b.WriteString(m.styles.Overdrawn.Render(left))
	} else {
		b.WriteString(m.styles.Value.Render(left))
	}
	b.WriteString("\n")

	reminder := "off"
	if minutes := reminderMinutes(state); minutes > 0 {
		reminder = "every " + cli.FormatMinutes(minutes)
	}
	b.WriteString(labelValue(m.styles, "Reminder:", reminder))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(m.styles.Success.Render(m.notice))
		b.WriteString("\n")
	}
	return b.String()
}

func (m TimerModel) renderEditForm() string {
	var b strings.Builder

	projectLabel, categoryLabel := "Project:", "Category:"
	if m.focusedInput == 0 {
		projectLabel = "▸ Project:"
	} else {
		categoryLabel = "▸ Category:"
	}
	b.WriteString(m.styles.Label.Render(projectLabel))
	b.WriteString("\n")
	b.WriteString(m.projectInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Label.Render(categoryLabel))
	b.WriteString("\n")
	b.WriteString(m.categoryInput.View())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}
	b.WriteString(m.styles.StatusHelp.Render("Tab to switch fields, Enter to save, Esc to cancel. Empty fields use the defaults."))
	return b.String()
}

// SetSize sets the view dimensions
func (m *TimerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Flashing reports whether a reminder is being highlighted.
func (m TimerModel) Flashing() bool {
	return !m.flashUntil.IsZero() && m.services.Tracker.Now().Before(m.flashUntil)
}

// Status returns the last computed session status.
func (m TimerModel) Status() service.TimerStatus {
	return m.status
}

// IsInputMode returns true when the view is capturing keyboard input
func (m TimerModel) IsInputMode() bool {
	return m.editing
}

// tickTimer returns a command that sends a tick every second
func (m TimerModel) tickTimer() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

func ring() tea.Msg {
	return ui.BellMsg{}
}

func dataChanged() tea.Msg {
	return ui.DataChangedMsg{}
}

func reminderMinutes(state session.State) int {
	return int(state.ReminderInterval / 60)
}

// knownCategories is the sorted union of recorded categories and categories
// with a pool.
func knownCategories(t *service.Tracker) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range t.Categories() {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for c := range t.Pools() {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// stepChoice moves step positions through choices from current. A current
// value that is not a choice moves to the nearest choice in the direction
// of step.
func stepChoice(choices []int, current, step int) int {
	for i, c := range choices {
		if c == current {
			return choices[((i+step)%len(choices)+len(choices))%len(choices)]
		}
	}
	if step > 0 {
		for _, c := range choices {
			if c > current {
				return c
			}
		}
		return choices[0]
	}
	for i := len(choices) - 1; i >= 0; i-- {
		if choices[i] < current {
			return choices[i]
		}
	}
	return choices[len(choices)-1]
}
