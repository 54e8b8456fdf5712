// Package alarms renders the alarm editor screen and the ringing overlay.
package alarms

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/kiosk/pkg/alarm"
	"tableflip.dev/kiosk/pkg/timeutil"
	"tableflip.dev/kiosk/pkg/tui/theme"
	"tableflip.dev/kiosk/pkg/tui/ui"
)

// Model keeps the editor's cursor and the new-alarm time input.
type Model struct {
	th      theme.Theme
	alarms  []alarm.Alarm
	cursor  int
	input   textinput.Model
	editing bool
	now     time.Time

	width  int
	height int
}

var (
	_ ui.Component = (*Model)(nil)
	_ ui.Focusable = (*Model)(nil)
)

func New(th theme.Theme) *Model {
	ti := textinput.New()
	ti.Placeholder = "HH:MM"
	ti.CharLimit = 5
	ti.Prompt = ""
	ti.VirtualCursor = true
	return &Model{th: th, input: ti}
}

func (m *Model) Init() tea.Cmd { return nil }

// Update feeds the time input while adding.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	if !m.editing {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
}

func (m *Model) SetTheme(th theme.Theme) { m.th = th }

func (m *Model) SetNow(t time.Time) { m.now = t }

// SetAlarms replaces the list and keeps the cursor in range.
func (m *Model) SetAlarms(list []alarm.Alarm) {
	m.alarms = list
	m.cursor = max(0, min(m.cursor, len(list)-1))
}

// Move shifts the cursor by delta, clamped to the list.
func (m *Model) Move(delta int) {
	if len(m.alarms) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = max(0, min(m.cursor+delta, len(m.alarms)-1))
}

// Selected returns the alarm under the cursor.
func (m *Model) Selected() (alarm.Alarm, bool) {
	if m.cursor < 0 || m.cursor >= len(m.alarms) {
		return alarm.Alarm{}, false
	}
	return m.alarms[m.cursor], true
}

// BeginAdd opens the time input prefilled with defaultTime.
func (m *Model) BeginAdd(defaultTime string) tea.Cmd {
	m.editing = true
	m.input.SetValue(defaultTime)
	m.input.CursorEnd()
	return m.Focus()
}

// EndAdd closes the input and returns what was typed.
func (m *Model) EndAdd() string {
	v := strings.TrimSpace(m.input.Value())
	m.editing = false
	m.input.Reset()
	m.Blur()
	return v
}

func (m *Model) Editing() bool { return m.editing }

func (m *Model) Focus() tea.Cmd { return m.input.Focus() }
func (m *Model) Blur()          { m.input.Blur() }
func (m *Model) Focused() bool  { return m.input.Focused() }

func (m *Model) View() string {
	th := m.th
	lines := []string{th.Panel.Title.Render("アラーム"), ""}
	if len(m.alarms) == 0 {
		lines = append(lines, th.Panel.Muted.Render("アラームはありません。a で追加します。"))
	}
	for i, a := range m.alarms {
		state := th.Alarm.Off.Render("OFF")
		if a.Enabled {
			state = th.Alarm.On.Render("ON ")
		}
		row := fmt.Sprintf("%s  %-12s %s", a.Time, a.Label, state)
		if a.Enabled && !m.now.IsZero() {
			row += th.Panel.Muted.Render("  あと" + timeutil.FormatCountdown(a.NextAfter(m.now).Sub(m.now)))
		}
		if i == m.cursor && !m.editing {
			row = th.Alarm.Selected.Render("▶ " + row)
		} else {
			row = "  " + row
		}
		lines = append(lines, row)
	}
	if m.editing {
		lines = append(lines, "", th.Panel.Accent.Render("新しいアラーム: ")+m.input.View())
	}
	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if m.width > 0 {
		body = lipgloss.NewStyle().Width(m.width).Render(body)
	}
	return body
}

// Ringing renders the alarm overlay.
func Ringing(th theme.Theme, a alarm.Alarm, now time.Time) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		"⏰ "+a.Time.String(),
		a.Label,
		"",
		now.Format("15:04:05"),
		"",
		"[s] 停止",
	)
	return th.Alarm.Ringing.Render(body)
}
