// Package assistant renders the assistant panel: the prompt input and the
// current turn's transcript and reply.
package assistant

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"tableflip.dev/kiosk/pkg/assistant"
	"tableflip.dev/kiosk/pkg/tui/theme"
	"tableflip.dev/kiosk/pkg/tui/ui"
)

const placeholder = "何か聞いてください…"

// Model is the assistant panel.
type Model struct {
	th    theme.Theme
	input textinput.Model
	width int
}

var (
	_ ui.Component = (*Model)(nil)
	_ ui.Focusable = (*Model)(nil)
)

func New(th theme.Theme) *Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 500
	ti.Prompt = "> "
	ti.VirtualCursor = true
	ti.Styles.Cursor.Shape = tea.CursorBlock
	ti.Styles.Cursor.Blink = true
	return &Model{th: th, input: ti}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	if !m.input.Focused() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) SetSize(width, _ int) {
	m.width = width
	m.input.SetWidth(max(1, width-4))
}

func (m *Model) SetTheme(th theme.Theme) { m.th = th }

func (m *Model) Focus() tea.Cmd { return m.input.Focus() }
func (m *Model) Blur()          { m.input.Blur() }
func (m *Model) Focused() bool  { return m.input.Focused() }

// Take returns the typed prompt and clears the input.
func (m *Model) Take() string {
	v := m.input.Value()
	m.input.Reset()
	return v
}

func (m *Model) View() string { return m.input.View() }

// Render draws the panel for the controller's current turn.
func (m *Model) Render(c *assistant.Controller) string {
	th := m.th
	width := max(10, m.width)
	lines := []string{th.Panel.Title.Render("アシスタント") + "  " + th.Panel.Muted.Render(statusLabel(c.Status()))}

	if t := c.Transcript(); t != "" {
		lines = append(lines, th.Panel.Accent.Render(Wrap("あなた: "+t, width)))
	}
	switch c.Status() {
	case assistant.Listening:
		lines = append(lines, th.Panel.Muted.Render("聞いています…"))
	case assistant.Processing:
		lines = append(lines, th.Panel.Muted.Render("考えています…"))
	case assistant.Displaying:
		lines = append(lines, th.Panel.Body.Render(Wrap(c.Reply(), width)))
	}
	lines = append(lines, "", m.input.View())
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Wrap breaks text at word boundaries and hard-wraps anything longer than
// width, which covers Japanese text without spaces.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wrap.String(wordwrap.String(strings.TrimSpace(text), width), width)
}

func statusLabel(s assistant.Status) string {
	switch s {
	case assistant.Listening:
		return "● 録音中"
	case assistant.Processing:
		return "… 応答待ち"
	case assistant.Displaying:
		return "[x] 閉じる"
	default:
		return "[i] 入力  [m] 音声"
	}
}
