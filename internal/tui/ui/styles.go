package ui

import (
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
)

// Styles contains all the styles used in the TUI
type Styles struct {
	App lipgloss.Style

	// Tab bar
	TabBar      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	ViewTitle lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	StatusHelp lipgloss.Style

	// Tables
	Header      lipgloss.Style
	RowSelected lipgloss.Style
	RowNormal   lipgloss.Style
	Time        lipgloss.Style
	Project     lipgloss.Style
	Category    lipgloss.Style
	Duration    lipgloss.Style
	Overdrawn   lipgloss.Style

	// Timer
	TimerRunning lipgloss.Style
	TimerPaused  lipgloss.Style
	TimerStopped lipgloss.Style
	TimerElapsed lipgloss.Style
	Flash        lipgloss.Style

	// Label/value pairs
	Label lipgloss.Style
	Value lipgloss.Style

	// Input
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	Dialog lipgloss.Style

	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
}

// palette maps semantic roles to colors.
type palette struct {
	primary    lipgloss.TerminalColor
	secondary  lipgloss.TerminalColor
	accent     lipgloss.TerminalColor
	muted      lipgloss.TerminalColor
	success    lipgloss.TerminalColor
	warning    lipgloss.TerminalColor
	errorColor lipgloss.TerminalColor
	fg         lipgloss.TerminalColor
	bg         lipgloss.TerminalColor
}

// DefaultStyles returns the styles of the 256-color palette, used when no
// theme registry is available.
func DefaultStyles() Styles {
	return newStyles(palette{
		primary:    lipgloss.Color("99"),
		secondary:  lipgloss.Color("39"),
		accent:     lipgloss.Color("212"),
		muted:      lipgloss.Color("240"),
		success:    lipgloss.Color("82"),
		warning:    lipgloss.Color("214"),
		errorColor: lipgloss.Color("196"),
		fg:         lipgloss.Color("252"),
		bg:         lipgloss.Color("236"),
	})
}

// NewStylesFromRegistry creates styles from the current tint of r:
// purple for titles and projects, cyan for times and categories, bright
// purple for durations and bright black for everything muted.
func NewStylesFromRegistry(r *tint.Registry) Styles {
	return newStyles(palette{
		primary:    r.Purple(),
		secondary:  r.Cyan(),
		accent:     r.BrightPurple(),
		muted:      r.BrightBlack(),
		success:    r.Green(),
		warning:    r.Yellow(),
		errorColor: r.Red(),
		fg:         r.Fg(),
		bg:         r.Bg(),
	})
}

func newStyles(p palette) Styles {
	return Styles{
		App: lipgloss.NewStyle().Padding(1, 2),

		TabBar: lipgloss.NewStyle().
			MarginBottom(1).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.muted),
		TabActive: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			Padding(0, 2),
		TabInactive: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 2),

		ViewTitle: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true).
			MarginBottom(1),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.fg).
			Background(p.bg).
			Padding(0, 1),
		StatusKey: lipgloss.NewStyle().
			Foreground(p.secondary).
			Bold(true),
		StatusHelp: lipgloss.NewStyle().
			Foreground(p.muted),

		Header: lipgloss.NewStyle().
			Foreground(p.muted).
			Bold(true),
		RowSelected: lipgloss.NewStyle().
			Background(p.muted).
			Bold(true),
		RowNormal: lipgloss.NewStyle(),
		Time: lipgloss.NewStyle().
			Foreground(p.secondary),
		Project: lipgloss.NewStyle().
			Foreground(p.primary),
		Category: lipgloss.NewStyle().
			Foreground(p.secondary),
		Duration: lipgloss.NewStyle().
			Foreground(p.accent),
		Overdrawn: lipgloss.NewStyle().
			Foreground(p.errorColor).
			Bold(true),

		TimerRunning: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		TimerPaused: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		TimerStopped: lipgloss.NewStyle().
			Foreground(p.muted),
		TimerElapsed: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),
		Flash: lipgloss.NewStyle().
			Foreground(p.bg).
			Background(p.warning).
			Bold(true).
			Padding(0, 1),

		Label: lipgloss.NewStyle().
			Foreground(p.muted).
			Width(16),
		Value: lipgloss.NewStyle().
			Foreground(p.fg).
			Bold(true),

		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.muted).
			Padding(0, 1),
		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.primary).
			Padding(0, 1),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(1, 2).
			Width(56),

		Error: lipgloss.NewStyle().
			Foreground(p.errorColor),
		Warning: lipgloss.NewStyle().
			Foreground(p.warning),
		Success: lipgloss.NewStyle().
			Foreground(p.success),
	}
}
