package teaui

import (
	"log/slog"
	"strconv"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/kiosk/pkg/alarm"
	"tableflip.dev/kiosk/pkg/assistant"
	"tableflip.dev/kiosk/pkg/news"
	"tableflip.dev/kiosk/pkg/tui/events"
	"tableflip.dev/kiosk/pkg/tui/nav"
)

func (m *Model) handleKeyPress(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit
	}
	if _, ringing := m.monitor.Ringing(); ringing {
		return m.handleRingingKey(key)
	}
	switch m.modal {
	case modalWeather:
		return m.handleWeatherModalKey(key)
	case modalNews:
		return m.handleNewsModalKey(msg)
	case modalHelp:
		return m.handleHelpModalKey(msg)
	}
	if m.nav.Screen() == nav.Alarms {
		return m.handleAlarmKey(msg)
	}
	if m.prompt.Focused() {
		return m.handlePromptKey(msg)
	}
	return m.handleDashboardKey(msg)
}

// handleRingingKey swallows everything except the stop keys.
func (m *Model) handleRingingKey(key string) tea.Cmd {
	switch key {
	case "s", "enter", "space", " ":
		if a, ok := m.monitor.Stop(); ok {
			slog.Info("alarm: stopped", "id", a.ID)
		}
		m.deps.Audio.Silence()
	}
	return nil
}

func (m *Model) handleWeatherModalKey(key string) tea.Cmd {
	switch key {
	case "esc", "w", "q":
		m.modal = modalNone
	}
	return nil
}

func (m *Model) handleHelpModalKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "?", "q":
		m.modal = modalNone
		return nil
	}
	_, cmd := m.help.Update(msg)
	return cmd
}

func (m *Model) handleNewsModalKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "esc", "n", "q":
		m.modal = modalNone
		return nil
	case "left":
		return m.selectCategory((m.browser.Category() + len(news.Categories) - 1) % len(news.Categories))
	case "right":
		return m.selectCategory((m.browser.Category() + 1) % len(news.Categories))
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(news.Categories) {
		return m.selectCategory(n - 1)
	}
	_, cmd := m.browser.Update(msg)
	return cmd
}

// selectCategory always issues a request; an older one still in flight is
// dropped when it arrives.
func (m *Model) selectCategory(idx int) tea.Cmd {
	m.browser.SetCategory(idx)
	return m.fetchDetail()
}

func (m *Model) handleAlarmKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if m.alarmView.Editing() {
		switch key {
		case "enter":
			return m.addAlarm(m.alarmView.EndAdd())
		case "esc":
			m.alarmView.EndAdd()
			return nil
		}
		_, cmd := m.alarmView.Update(msg)
		return cmd
	}

	switch key {
	case "up", "k":
		m.alarmView.Move(-1)
	case "down", "j":
		m.alarmView.Move(1)
	case "space", " ", "t":
		return m.toggleAlarm()
	case "x", "delete":
		return m.removeAlarm()
	case "a":
		return m.alarmView.BeginAdd(m.deps.DefaultAlarmTime)
	case "right", "esc":
		m.nav.Show(nav.Dashboard)
	case "q":
		return tea.Quit
	}
	return nil
}

func (m *Model) addAlarm(value string) tea.Cmd {
	at, err := alarm.ParseClock(value)
	if err != nil {
		m.setStatus("時刻は HH:MM で入力してください")
		return nil
	}
	if m.deps.Alarms == nil {
		return nil
	}
	a, err := m.deps.Alarms.Add(at, "")
	m.syncAlarms()
	m.alarmView.Move(len(m.alarmList))
	return events.AlarmsChangedCmd("add", a, err)
}

func (m *Model) toggleAlarm() tea.Cmd {
	sel, ok := m.alarmView.Selected()
	if !ok || m.deps.Alarms == nil {
		return nil
	}
	a, _, err := m.deps.Alarms.Toggle(sel.ID)
	m.syncAlarms()
	return events.AlarmsChangedCmd("toggle", a, err)
}

func (m *Model) removeAlarm() tea.Cmd {
	sel, ok := m.alarmView.Selected()
	if !ok || m.deps.Alarms == nil {
		return nil
	}
	_, err := m.deps.Alarms.Remove(sel.ID)
	m.syncAlarms()
	return events.AlarmsChangedCmd("remove", sel, err)
}

func (m *Model) handlePromptKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		if m.turn.Status() == assistant.Processing {
			// Keep the draft until the pending reply lands.
			m.setStatus("応答を待っています")
			return nil
		}
		return m.submit(m.prompt.Take())
	case "esc":
		m.prompt.Blur()
		return nil
	}
	_, cmd := m.prompt.Update(msg)
	return cmd
}

// submit starts a typed turn. A capture in progress is abandoned.
func (m *Model) submit(text string) tea.Cmd {
	turn, ok := m.turn.Submit(text)
	if !ok {
		return nil
	}
	m.stopListening()
	m.deps.Audio.Hush()
	return askCmd(m.ctx, m.deps.Assistant, turn, text)
}

// startVoice begins a capture, or reports in-band that there is no
// recognizer.
func (m *Model) startVoice() tea.Cmd {
	switch m.turn.Status() {
	case assistant.Listening, assistant.Processing:
		return nil
	}
	m.deps.Audio.Hush()
	if m.deps.Recognizer == nil {
		m.turn.CaptureUnavailable()
		return nil
	}
	turn, ok := m.turn.StartListening()
	if !ok {
		return nil
	}
	return m.listen(turn)
}

func (m *Model) dismiss() {
	m.turn.Dismiss()
	m.stopListening()
	m.deps.Audio.Hush()
}

func (m *Model) handleDashboardKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "i", "/":
		return m.prompt.Focus()
	case "m":
		return m.startVoice()
	case "x":
		m.dismiss()
	case "esc":
		if m.turn.Status() != assistant.Idle {
			m.dismiss()
		}
	case "w":
		m.modal = modalWeather
	case "n":
		m.modal = modalNews
		m.applySizes()
		return m.selectCategory(m.browser.Category())
	case "a":
		if m.nav.Show(nav.Alarms) {
			m.screenChanged()
		}
	case "left", "right":
		if m.nav.Key(msg.String()) {
			m.screenChanged()
		}
	case "f":
		m.fullscreen = !m.fullscreen
		if m.fullscreen {
			return tea.EnterAltScreen
		}
		return tea.ExitAltScreen
	case "?":
		m.modal = modalHelp
	case "d":
		m.toggleDebug()
	case "r":
		return refreshNowCmd(m.now)
	}
	return nil
}
