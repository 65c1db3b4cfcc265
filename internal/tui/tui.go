// Package tui provides the Terminal User Interface for ptt.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ptt-dev/ptt/internal/cli"
	"github.com/ptt-dev/ptt/internal/service"
	"github.com/ptt-dev/ptt/internal/tui/ui"
	"github.com/ptt-dev/ptt/internal/tui/views"
)

// Tab represents a view tab
type Tab int

const (
	TabTimer Tab = iota
	TabEntries
	TabPools
	TabConfig
)

var tabNames = []string{"Timer", "Entries", "Pools", "Config"}

// Model is the root TUI model. Service calls happen inside Update, which
// bubbletea runs on a single goroutine.
type Model struct {
	services *service.Services
	bell     io.Writer

	// UI state
	activeTab Tab
	width     int
	height    int
	showHelp  bool

	// View models
	timerView   views.TimerModel
	entriesView views.EntriesModel
	poolsView   views.PoolsModel
	configView  views.ConfigModel

	// Theme and styles
	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap
}

// New creates a new TUI model. The terminal bell is written to bell.
func New(ctx context.Context, services *service.Services, bell io.Writer) Model {
	themeProvider := ui.NewThemeProvider(services.Config.Get().Theme)
	styles := themeProvider.Styles()
	keys := ui.DefaultKeyMap()

	return Model{
		services:      services,
		bell:          bell,
		activeTab:     TabTimer,
		themeProvider: themeProvider,
		styles:        styles,
		keys:          keys,
		timerView:     views.NewTimerModel(ctx, services, styles, keys),
		entriesView:   views.NewEntriesModel(ctx, services, styles, keys),
		poolsView:     views.NewPoolsModel(ctx, services, styles, keys),
		configView:    views.NewConfigModel(services, themeProvider, styles, keys),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.timerView.Init(),
		m.entriesView.Init(),
		m.poolsView.Init(),
		m.configView.Init(),
	)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		capturing := m.isCapturingKeys()

		switch {
		case key.Matches(msg, m.keys.Quit) && (!capturing || msg.String() == "ctrl+c"):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help) && !capturing:
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.NextTab) && !capturing:
			m.activeTab = Tab((int(m.activeTab) + 1) % len(tabNames))
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.PrevTab) && !capturing:
			m.activeTab = Tab((int(m.activeTab) - 1 + len(tabNames)) % len(tabNames))
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.Tab1) && !capturing:
			m.activeTab = TabTimer
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.Tab2) && !capturing:
			m.activeTab = TabEntries
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.Tab3) && !capturing:
			m.activeTab = TabPools
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.Tab4) && !capturing:
			m.activeTab = TabConfig
			return m, m.initCurrentView()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentHeight := m.height - 4 // tabs and status bar
		m.timerView.SetSize(m.width, contentHeight)
		m.entriesView.SetSize(m.width, contentHeight)
		m.poolsView.SetSize(m.width, contentHeight)
		m.configView.SetSize(m.width, contentHeight)
		return m, nil

	case ui.BellMsg:
		if m.bell != nil {
			_, _ = io.WriteString(m.bell, cli.Bell(m.bell))
		}
		return m, nil

	case ui.ThemeChangeRequestMsg:
		m.themeProvider.SetTheme(msg.ThemeName)
		m.styles = m.themeProvider.Styles()

		themeMsg := ui.ThemeChangedMsg{
			ThemeName: m.themeProvider.CurrentName(),
			Styles:    m.styles,
		}
		m.timerView, _ = m.timerView.Update(themeMsg)
		m.entriesView, _ = m.entriesView.Update(themeMsg)
		m.poolsView, _ = m.poolsView.Update(themeMsg)
		m.configView, _ = m.configView.Update(themeMsg)

		return m, m.saveThemeConfig(themeMsg.ThemeName)
	}

	if _, ok := msg.(tea.KeyMsg); ok {
		switch m.activeTab {
		case TabTimer:
			m.timerView, cmd = m.timerView.Update(msg)
		case TabEntries:
			m.entriesView, cmd = m.entriesView.Update(msg)
		case TabPools:
			m.poolsView, cmd = m.poolsView.Update(msg)
		case TabConfig:
			m.configView, cmd = m.configView.Update(msg)
		}
		return m, cmd
	}

	// Loads, ticks and data changes reach every view so the timer keeps
	// running behind the other tabs.
	var cmds []tea.Cmd
	m.timerView, cmd = m.timerView.Update(msg)
	cmds = append(cmds, cmd)
	m.entriesView, cmd = m.entriesView.Update(msg)
	cmds = append(cmds, cmd)
	m.poolsView, cmd = m.poolsView.Update(msg)
	cmds = append(cmds, cmd)
	m.configView, cmd = m.configView.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch m.activeTab {
	case TabTimer:
		b.WriteString(m.timerView.View())
	case TabEntries:
		b.WriteString(m.entriesView.View())
	case TabPools:
		b.WriteString(m.poolsView.View())
	case TabConfig:
		b.WriteString(m.configView.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.styles.App.Render(b.String())
}

// renderTabs renders the tab bar. The timer tab shows the reminder flash
// from any view.
func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == TabTimer && m.timerView.Flashing() {
			tabs = append(tabs, m.styles.Flash.Render(name))
			continue
		}
		if Tab(i) == m.activeTab {
			tabs = append(tabs, m.styles.TabActive.Render(name))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(name))
		}
	}
	return m.styles.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// renderStatusBar renders the status bar at the bottom
func (m Model) renderStatusBar() string {
	var parts []string

	if m.isCapturingKeys() {
		parts = append(parts, m.renderKeyHelp("Tab", "switch field"))
		parts = append(parts, m.renderKeyHelp("Enter", "save"))
		parts = append(parts, m.renderKeyHelp("Esc", "cancel"))
	} else {
		switch m.activeTab {
		case TabTimer:
			parts = append(parts, m.renderKeyHelp("space", "start/pause"))
			parts = append(parts, m.renderKeyHelp("x", "stop"))
			parts = append(parts, m.renderKeyHelp("c", "cancel"))
			parts = append(parts, m.renderKeyHelp("p/g", "project/category"))
			parts = append(parts, m.renderKeyHelp("m", "reminder"))
		case TabEntries:
			parts = append(parts, m.renderKeyHelp("n", "new"))
			parts = append(parts, m.renderKeyHelp("d", "remove"))
			parts = append(parts, m.renderKeyHelp("i", "import"))
		case TabPools:
			parts = append(parts, m.renderKeyHelp("←/→", "change pool"))
		case TabConfig:
			parts = append(parts, m.renderKeyHelp("t", "themes"))
		}

		parts = append(parts, m.renderKeyHelp("1-4", "views"))
		parts = append(parts, m.renderKeyHelp("?", "help"))
		parts = append(parts, m.renderKeyHelp("q", "quit"))
	}

	content := strings.Join(parts, "  ")
	if padding := m.width - lipgloss.Width(content); padding > 0 {
		content += strings.Repeat(" ", padding)
	}
	return m.styles.StatusBar.Render(content)
}

// renderKeyHelp renders a single key help item
func (m Model) renderKeyHelp(key, desc string) string {
	return fmt.Sprintf("%s %s",
		m.styles.StatusKey.Render(key),
		m.styles.StatusHelp.Render(desc))
}

// isCapturingKeys reports whether the active view is reading text input.
func (m Model) isCapturingKeys() bool {
	switch m.activeTab {
	case TabTimer:
		return m.timerView.IsInputMode()
	case TabEntries:
		return m.entriesView.IsInputMode()
	}
	return false
}

// initCurrentView reloads the view when switching tabs
func (m Model) initCurrentView() tea.Cmd {
	switch m.activeTab {
	case TabEntries:
		return m.entriesView.Init()
	case TabPools:
		return m.poolsView.Init()
	case TabConfig:
		return m.configView.Init()
	}
	return nil
}

// saveThemeConfig saves the theme to the config file
func (m Model) saveThemeConfig(themeName string) tea.Cmd {
	return func() tea.Msg {
		cfg := m.services.Config.Get()
		cfg.Theme = themeName
		if err := m.services.Config.Update(cfg); err != nil {
			m.services.Logger.Warn("failed to save theme", "theme", themeName, "error", err)
		}
		return nil
	}
}

// renderHelpOverlay renders the keyboard shortcuts of the active view
func (m Model) renderHelpOverlay() string {
	var help strings.Builder

	help.WriteString(m.styles.ViewTitle.Render("Keyboard Shortcuts"))
	help.WriteString("\n\n")

	help.WriteString(m.styles.Label.Render("Global:"))
	help.WriteString("\n")
	help.WriteString("  Tab/1-4    Switch views\n")
	help.WriteString("  ?          Toggle help\n")
	help.WriteString("  q          Quit\n")
	help.WriteString("\n")

	switch m.activeTab {
	case TabTimer:
		help.WriteString(m.styles.Label.Render("Timer:"))
		help.WriteString("\n")
		help.WriteString("  space/s    Start, pause or resume\n")
		help.WriteString("  x          Stop and record the entry\n")
		help.WriteString("  c          Cancel without recording\n")
		help.WriteString("  e          Edit project and category\n")
		help.WriteString("  p          Next project\n")
		help.WriteString("  g          Next category\n")
		help.WriteString("  m          Cycle reminder interval\n")
	case TabEntries:
		help.WriteString(m.styles.Label.Render("Entries:"))
		help.WriteString("\n")
		help.WriteString("  j/k        Navigate up/down\n")
		help.WriteString("  n          New entry ending now\n")
		help.WriteString("  d          Remove entry\n")
		help.WriteString("  i          Import files\n")
		help.WriteString("  r          Refresh\n")
	case TabPools:
		help.WriteString(m.styles.Label.Render("Pools:"))
		help.WriteString("\n")
		help.WriteString("  j/k        Navigate up/down\n")
		help.WriteString("  ←/→ or -/+ Change the daily pool\n")
		help.WriteString("  r          Refresh\n")
	case TabConfig:
		help.WriteString(m.styles.Label.Render("Config:"))
		help.WriteString("\n")
		help.WriteString("  t/Enter    Open theme selector\n")
		help.WriteString("  j/k        Navigate themes\n")
		help.WriteString("  Esc        Cancel\n")
	}

	help.WriteString("\n")
	help.WriteString(m.styles.Label.Render("Press ? to close"))

	return m.styles.App.Render(m.styles.Dialog.Render(help.String()))
}

// Run starts the TUI application
func Run(ctx context.Context, services *service.Services) error {
	p := tea.NewProgram(New(ctx, services, os.Stdout), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
