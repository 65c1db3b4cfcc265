package ui

// ThemeChangeRequestMsg is sent when a theme change is requested.
type ThemeChangeRequestMsg struct {
	ThemeName string
}

// ThemeChangedMsg is broadcast to all views when the theme changes.
type ThemeChangedMsg struct {
	ThemeName string
	Styles    Styles
}

// DataChangedMsg is broadcast to all views after a view changed the entry or
// pool store, so the others reload.
type DataChangedMsg struct{}

// BellMsg asks the root model to ring the terminal bell.
type BellMsg struct{}
