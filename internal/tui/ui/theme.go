package ui

import (
	"sort"

	tint "github.com/lrstanley/bubbletint"
)

// DefaultTheme is used when no theme is configured
const DefaultTheme = "dracula"

// ThemeProvider tracks the active bubbletint theme.
type ThemeProvider struct {
	registry *tint.Registry
}

// NewThemeProvider creates a provider starting at initialTheme. An empty or
// unknown name selects DefaultTheme.
func NewThemeProvider(initialTheme string) *ThemeProvider {
	all := tint.DefaultTints()

	var fallback tint.Tint
	for _, t := range all {
		if t.ID() == DefaultTheme {
			fallback = t
			break
		}
	}
	if fallback == nil && len(all) > 0 {
		fallback = all[0]
	}

	registry := tint.NewRegistry(fallback, all...)
	if initialTheme != "" {
		registry.SetTintID(initialTheme)
	}
	return &ThemeProvider{registry: registry}
}

// SetTheme switches to the named theme and reports whether it exists.
func (tp *ThemeProvider) SetTheme(name string) bool {
	return tp.registry.SetTintID(name)
}

// CurrentName returns the ID of the active theme.
func (tp *ThemeProvider) CurrentName() string {
	return tp.registry.ID()
}

// AvailableThemes returns every theme ID, sorted.
func (tp *ThemeProvider) AvailableThemes() []string {
	ids := tp.registry.TintIDs()
	sort.Strings(ids)
	return ids
}

// Styles returns the styles of the active theme.
func (tp *ThemeProvider) Styles() Styles {
	return NewStylesFromRegistry(tp.registry)
}
