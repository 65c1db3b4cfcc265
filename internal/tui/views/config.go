package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ptt-dev/ptt/internal/cli"
	"github.com/ptt-dev/ptt/internal/config"
	"github.com/ptt-dev/ptt/internal/service"
	"github.com/ptt-dev/ptt/internal/tui/ui"
)

// maxVisibleThemes is the maximum number of themes shown at once
const maxVisibleThemes = 10

// ConfigModel is the model for the config view
type ConfigModel struct {
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	// UI state
	width     int
	height    int
	config    config.Config
	path      string
	exists    bool
	storage   string
	themeName string

	// Theme selector state
	selectingTheme bool
	themes         []string
	themeCursor    int
	themeOffset    int
}

// NewConfigModel creates a new config view model
func NewConfigModel(services *service.Services, themeProvider *ui.ThemeProvider, styles ui.Styles, keys ui.KeyMap) ConfigModel {
	m := ConfigModel{
		services:  services,
		styles:    styles,
		keys:      keys,
		themes:    themeProvider.AvailableThemes(),
		themeName: themeProvider.CurrentName(),
	}
	m.resetThemeCursor()
	return m
}

// configLoadMsg asks the view to reload the configuration.
type configLoadMsg struct{}

// Init implements tea.Model
func (m ConfigModel) Init() tea.Cmd {
	return func() tea.Msg { return configLoadMsg{} }
}

// Update implements tea.Model
func (m ConfigModel) Update(msg tea.Msg) (ConfigModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.selectingTheme {
			return m.handleThemeSelection(msg)
		}
		if key.Matches(msg, m.keys.Select) || msg.String() == "t" {
			m.selectingTheme = true
			m.themeOffset = scrollOffset(m.themeOffset, m.themeCursor, maxVisibleThemes)
		}
		return m, nil

	case configLoadMsg:
		m.config = m.services.Config.Get()
		m.path = m.services.Config.GetPath()
		m.exists = m.services.Config.Exists()
		m.storage = m.services.Tracker.Backend().Location()
		return m, nil

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		m.themeName = msg.ThemeName
		m.resetThemeCursor()
		return m, nil
	}
	return m, nil
}

// handleThemeSelection handles keys when the theme selector is open
func (m ConfigModel) handleThemeSelection(msg tea.KeyMsg) (ConfigModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.themeCursor > 0 {
			m.themeCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.themeCursor < len(m.themes)-1 {
			m.themeCursor++
		}
	case key.Matches(msg, m.keys.Select):
		m.selectingTheme = false
		selected := m.themes[m.themeCursor]
		return m, func() tea.Msg {
			return ui.ThemeChangeRequestMsg{ThemeName: selected}
		}
	case key.Matches(msg, m.keys.Back):
		m.selectingTheme = false
		m.resetThemeCursor()
	}
	m.themeOffset = scrollOffset(m.themeOffset, m.themeCursor, maxVisibleThemes)
	return m, nil
}

func (m *ConfigModel) resetThemeCursor() {
	for i, t := range m.themes {
		if t == m.themeName {
			m.themeCursor = i
			return
		}
	}
}

// View implements tea.Model
func (m ConfigModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Configuration"))
	b.WriteString("\n\n")

	b.WriteString(labelValue(m.styles, "Config file:", m.path))
	b.WriteString(m.styles.Label.Render("Status:"))
	b.WriteString(" ")
	if m.exists {
		b.WriteString(m.styles.Success.Render("File exists"))
	} else {
		b.WriteString(m.styles.Warning.Render("Using defaults (run 'ptt config init')"))
	}
	b.WriteString("\n")
	b.WriteString(labelValue(m.styles, "Storage:", m.storage))
	b.WriteString("\n")

	reminder := "off"
	if m.config.ReminderMinutes > 0 {
		reminder = "every " + cli.FormatMinutes(m.config.ReminderMinutes)
	}
	b.WriteString(labelValue(m.styles, "Project:", m.config.DefaultProject))
	b.WriteString(labelValue(m.styles, "Category:", m.config.DefaultCategory))
	b.WriteString(labelValue(m.styles, "Reminder:", reminder))
	b.WriteString(labelValue(m.styles, "Backend:", m.config.StorageBackend))
	b.WriteString(labelValue(m.styles, "Timezone:", m.config.Timezone))
	b.WriteString(labelValue(m.styles, "Log level:", m.config.LogLevel))

	if m.selectingTheme {
		b.WriteString(m.renderThemeSelector())
	} else {
		b.WriteString(labelValue(m.styles, "Theme:", m.themeName))
		b.WriteString("\n")
		b.WriteString(m.styles.StatusHelp.Render("Press Enter or 't' to change theme"))
	}
	return b.String()
}

// renderThemeSelector renders the theme selection list
func (m ConfigModel) renderThemeSelector() string {
	var b strings.Builder

	b.WriteString(labelValue(m.styles, "Theme:", "select a theme"))
	b.WriteString("\n")

	end := min(m.themeOffset+maxVisibleThemes, len(m.themes))
	if m.themeOffset > 0 {
		b.WriteString(m.styles.StatusHelp.Render("  ↑ more themes above"))
		b.WriteString("\n")
	}
	for i := m.themeOffset; i < end; i++ {
		name := m.themes[i]
		if name == m.themeName {
			name += " (current)"
		}
		if i == m.themeCursor {
			b.WriteString(m.styles.RowSelected.Render("▸ " + name))
		} else {
			b.WriteString("  " + m.styles.Value.Render(name))
		}
		b.WriteString("\n")
	}
	if end < len(m.themes) {
		b.WriteString(m.styles.StatusHelp.Render("  ↓ more themes below"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.StatusHelp.Render("↑/↓ navigate  Enter select  Esc cancel"))
	return b.String()
}

// SetSize sets the view dimensions
func (m *ConfigModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsSelectingTheme reports whether the theme selector is open.
func (m ConfigModel) IsSelectingTheme() bool {
	return m.selectingTheme
}

// ThemeName returns the theme shown as current.
func (m ConfigModel) ThemeName() string {
	return m.themeName
}
