// Package help renders the key reference shown with '?'.
package help

import (
	_ "embed"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"

	"tableflip.dev/kiosk/pkg/tui/ui"
)

//go:embed help.md
var helpMarkdown string

// Model is the scrollable help body. The caller draws the frame.
type Model struct {
	viewport viewport.Model
	width    int
	height   int
}

var _ ui.Component = (*Model)(nil)

func New() *Model {
	vp := viewport.New(viewport.WithWidth(1), viewport.WithHeight(1))
	vp.MouseWheelEnabled = true
	return &Model{viewport: vp}
}

func (m *Model) Init() tea.Cmd { return nil }

// Update forwards scrolling to the viewport.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg.(type) {
	case tea.KeyPressMsg, tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) View() string {
	return m.viewport.View()
}

// SetSize re-renders the markdown when the width changes.
func (m *Model) SetSize(width, height int) {
	width, height = max(width, 20), max(height, 4)
	m.viewport.SetHeight(height)
	if width == m.width {
		m.height = height
		return
	}
	m.width, m.height = width, height
	m.viewport.SetWidth(width)
	m.viewport.SetContent(Render(width))
	m.viewport.SetYOffset(0)
}

// Render returns the help text wrapped to width with styling removed, so it
// takes the surrounding theme's colors.
func Render(width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(width, 10)),
	)
	if err != nil {
		return strings.TrimSpace(helpMarkdown)
	}
	out, err := renderer.Render(strings.TrimSpace(helpMarkdown))
	if err != nil {
		return strings.TrimSpace(helpMarkdown)
	}
	return ansi.Strip(out)
}
