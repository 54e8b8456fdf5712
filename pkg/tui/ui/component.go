// Package ui holds the contracts shared by dashboard widgets. Widgets own
// presentation state only (focus, scroll offset, text being typed); the
// coordinator owns everything else and hands it to them for rendering.
package ui

import tea "github.com/charmbracelet/bubbletea/v2"

// Component defines the contract for reusable Bubble Tea widgets.
type Component interface {
	Init() tea.Cmd
	Update(tea.Msg) (Component, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Focusable is implemented by widgets that accept typed input.
type Focusable interface {
	Focus() tea.Cmd
	Blur()
	Focused() bool
}
