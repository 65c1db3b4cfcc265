package ui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"Quit", keys.Quit, []string{"q", "ctrl+c"}},
		{"Up", keys.Up, []string{"up", "k"}},
		{"Down", keys.Down, []string{"down", "j"}},
		{"Left", keys.Left, []string{"left", "h", "-"}},
		{"Right", keys.Right, []string{"right", "l", "+"}},
		{"Select", keys.Select, []string{"enter"}},
		{"Back", keys.Back, []string{"esc"}},
		{"NextTab", keys.NextTab, []string{"tab"}},
		{"Tab1", keys.Tab1, []string{"1"}},
		{"Tab4", keys.Tab4, []string{"4"}},
		{"New", keys.New, []string{"n"}},
		{"Delete", keys.Delete, []string{"d"}},
		{"Import", keys.Import, []string{"i"}},
		{"Toggle", keys.Toggle, []string{" ", "s"}},
		{"Stop", keys.Stop, []string{"x"}},
		{"Cancel", keys.Cancel, []string{"c"}},
		{"Edit", keys.Edit, []string{"e"}},
		{"Project", keys.Project, []string{"p"}},
		{"Category", keys.Category, []string{"g"}},
		{"Reminder", keys.Reminder, []string{"m"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keys, tt.binding.Keys())
			assert.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestKeyBindingsMatchMessages(t *testing.T) {
	keys := DefaultKeyMap()

	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, keys.Toggle))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}, keys.Toggle))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyEnter}, keys.Select))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyEsc}, keys.Back))
	assert.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, keys.Cancel))
}
