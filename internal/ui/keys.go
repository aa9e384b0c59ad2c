package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/ultimate-control/internal/nav"
)

type keyMap struct {
	Up            key.Binding
	Down          key.Binding
	Descend       key.Binding
	Ascend        key.Binding
	Confirm       key.Binding
	Settings      key.Binding
	LeaveSettings key.Binding
	Cancel        key.Binding
	Help          key.Binding
	Quit          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Descend:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "open")),
		Ascend:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "back")),
		Confirm:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Settings:      key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "settings")),
		LeaveSettings: key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "leave settings")),
		Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Confirm, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Descend, k.Ascend},
		{k.Confirm, k.Settings, k.LeaveSettings, k.Cancel},
		{k.Help, k.Quit},
	}
}

// deviceKey returns the device key sequence bound to msg.
func (k keyMap) deviceKey(msg tea.KeyMsg) (nav.Key, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return nav.KeyUp, true
	case key.Matches(msg, k.Down):
		return nav.KeyDown, true
	case key.Matches(msg, k.Descend):
		return nav.KeyDescend, true
	case key.Matches(msg, k.Ascend):
		return nav.KeyAscend, true
	case key.Matches(msg, k.Confirm):
		return nav.KeyConfirm, true
	case key.Matches(msg, k.Settings):
		return nav.KeySettings, true
	case key.Matches(msg, k.LeaveSettings):
		return nav.KeyLeaveSettings, true
	case key.Matches(msg, k.Cancel):
		return nav.KeyCancel, true
	}
	return "", false
}
