// Package eventviewer renders the debug log of messages passing through the
// dashboard's update loop.
package eventviewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"tableflip.dev/kiosk/pkg/tui/theme"
	"tableflip.dev/kiosk/pkg/tui/ui"
)

type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Entry is one logged message.
type Entry struct {
	Timestamp time.Time
	Source    string
	Summary   string
	Detail    string
	Level     Level
}

// Model is a capped log, newest first.
type Model struct {
	viewport viewport.Model
	entries  []Entry
	limit    int
	problems int

	th     theme.Theme
	width  int
	height int
}

var _ ui.Component = (*Model)(nil)

var (
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB347"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
)

// NewModel keeps at most limit entries (200 when <= 0).
func NewModel(th theme.Theme, limit int) *Model {
	if limit <= 0 {
		limit = 200
	}
	return &Model{
		viewport: viewport.New(viewport.WithWidth(1), viewport.WithHeight(1)),
		limit:    limit,
		th:       th,
	}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg.(type) {
	case tea.KeyPressMsg, tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) SetSize(width, height int) {
	width, height = max(width, 4), max(height, 3)
	if m.width == width && m.height == height {
		return
	}
	m.width, m.height = width, height
	m.viewport.SetWidth(width - 2)
	m.viewport.SetHeight(height - 3)
	m.render()
}

func (m *Model) SetTheme(th theme.Theme) {
	m.th = th
	m.render()
}

func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}
	title := fmt.Sprintf("Events (%d)", len(m.entries))
	if m.problems > 0 {
		title += warnStyle.Render(fmt.Sprintf(" %d warn", m.problems))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, m.th.Panel.Title.Render(title), m.viewport.View())
	return m.th.Panel.Frame.Width(m.width).Height(m.height).Render(body)
}

// Append adds entry at the top. The view stays pinned to the newest entry
// unless the user has scrolled away.
func (m *Model) Append(entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Source == "" {
		entry.Source = "tea"
	}
	if entry.Summary == "" {
		entry.Summary = "event"
	}
	m.entries = append([]Entry{entry}, m.entries...)
	if len(m.entries) > m.limit {
		m.entries = m.entries[:m.limit]
	}
	m.problems = 0
	for _, e := range m.entries {
		if e.Level != LevelInfo {
			m.problems++
		}
	}
	pinned := m.viewport.AtTop()
	m.render()
	if pinned {
		m.viewport.GotoTop()
	}
}

// Entries returns the log, newest first.
func (m *Model) Entries() []Entry {
	return m.entries
}

// Problems counts retained warn and error entries.
func (m *Model) Problems() int {
	return m.problems
}

func (m *Model) render() {
	if len(m.entries) == 0 {
		m.viewport.SetContent(m.th.Panel.Muted.Render("No events yet"))
		return
	}
	lines := make([]string, len(m.entries))
	for i, e := range m.entries {
		lines[i] = m.line(e)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func (m *Model) line(e Entry) string {
	text := e.Summary
	if e.Detail != "" {
		text += " " + e.Detail
	}
	switch e.Level {
	case LevelWarn:
		text = warnStyle.Render(text)
	case LevelError:
		text = errorStyle.Render(text)
	default:
		text = m.th.Panel.Body.Render(text)
	}
	muted := m.th.Panel.Muted
	out := muted.Render(e.Timestamp.Format("15:04:05.000")) + " " + muted.Render("["+e.Source+"]") + " " + text
	if w := m.width - 2; w > 1 {
		out = ansi.Truncate(out, w, "…")
	}
	return out
}
