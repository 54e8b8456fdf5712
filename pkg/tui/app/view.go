package teaui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"tableflip.dev/kiosk/pkg/alarm"
	"tableflip.dev/kiosk/pkg/timeutil"
	"tableflip.dev/kiosk/pkg/tui/components/alarms"
	clockview "tableflip.dev/kiosk/pkg/tui/components/clock"
	newsview "tableflip.dev/kiosk/pkg/tui/components/news"
	weatherview "tableflip.dev/kiosk/pkg/tui/components/weather"
	"tableflip.dev/kiosk/pkg/tui/nav"
	"tableflip.dev/kiosk/pkg/tui/ui/overlay"
)

func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "起動中…"
	}

	footer := m.footer()
	debugRows := m.debugRows()
	mainRows := max(1, m.height-lipgloss.Height(footer)-debugRows)

	var body string
	if m.nav.Screen() == nav.Alarms {
		body = m.alarmView.View()
	} else {
		body = m.dashboard()
	}
	body = lipgloss.NewStyle().Width(m.width).Height(mainRows).MaxHeight(mainRows).Render(body)

	sections := []string{body}
	if debugRows > 0 && m.eventView != nil {
		sections = append(sections, m.eventView.View())
	}
	sections = append(sections, footer)
	screen := m.th.Screen.Width(m.width).Height(m.height).MaxHeight(m.height).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))

	if fg := m.overlayView(); fg != "" {
		screen = overlay.Compose(screen, m.width, m.height, fg, overlay.Centered)
	}
	return screen
}

func (m *Model) dashboard() string {
	half := max(20, m.width/2-1)
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		weatherview.Widget(m.th, m.forecast, m.forecastShown, half),
		" ",
		newsview.Widget(m.th, m.headlines, m.now, half),
	)
	assist := m.th.Panel.Frame.Width(max(20, m.width-1)).Render(m.prompt.Render(&m.turn))
	return lipgloss.JoinVertical(lipgloss.Left,
		clockview.Render(m.th, m.now, m.width),
		"",
		row,
		assist,
	)
}

// overlayView is the ringing alarm or the open modal, ringing first.
func (m *Model) overlayView() string {
	if a, ok := m.monitor.Ringing(); ok {
		return alarms.Ringing(m.th, a, m.now)
	}
	w, _ := m.modalSize()
	switch m.modal {
	case modalWeather:
		return m.th.Modal.Frame.Width(w).Render(weatherview.Detail(m.th, m.forecast, m.now, w-6))
	case modalNews:
		return m.th.Modal.Frame.Width(w).Render(m.browser.View())
	case modalHelp:
		return m.th.Modal.Frame.Width(w).Render(m.help.View())
	}
	return ""
}

func (m *Model) modalSize() (int, int) {
	return max(30, m.width*4/5), max(10, m.height*4/5)
}

func (m *Model) footer() string {
	th := m.th
	var hints []string
	hint := func(key, label string) {
		hints = append(hints, th.Footer.Key.Render(key)+" "+th.Footer.Help.Render(label))
	}
	switch {
	case m.modal != modalNone:
		hint("esc", "閉じる")
		if m.modal == modalNews {
			hint("←/→ 1-8", "カテゴリ")
		}
	case m.nav.Screen() == nav.Alarms && m.alarmView.Editing():
		hint("enter", "追加")
		hint("esc", "取消")
	case m.nav.Screen() == nav.Alarms:
		hint("a", "追加")
		hint("t", "切替")
		hint("x", "削除")
		hint("→", "戻る")
	case m.prompt.Focused():
		hint("enter", "送信")
		hint("esc", "戻る")
	default:
		hint("i", "入力")
		hint("m", "音声")
		hint("w", "天気")
		hint("n", "ニュース")
		hint("a", "アラーム")
		hint("f", "全画面")
		hint("?", "ヘルプ")
		hint("q", "終了")
	}

	line := strings.Join(hints, "  ")
	if m.deps.Audio.Speaking() {
		line += "  " + th.Footer.Status.Render("🔊 読み上げ中")
	}
	if !m.assistantReady() {
		line += "  " + th.Footer.Status.Render("AIキー未設定")
	}
	if next := m.nextAlarm(); next != "" {
		line += "  " + th.Footer.Status.Render(next)
	}
	if m.status != "" {
		line += "  " + th.Footer.Status.Render(m.status)
	}
	return ansi.Truncate(line, m.width, "…")
}

// assistantReady is false only for a responder that knows it has no
// generator configured.
func (m *Model) assistantReady() bool {
	a, ok := m.deps.Assistant.(interface{ Available() bool })
	return !ok || a.Available()
}

func (m *Model) nextAlarm() string {
	a, d, ok := alarm.Next(m.now, m.alarmList)
	if !ok {
		return ""
	}
	return fmt.Sprintf("⏰ %s (あと%s)", a.Time, timeutil.FormatCountdown(d))
}

func (m *Model) debugRows() int {
	if !m.debug {
		return 0
	}
	return computeDebugHeight(m.height - 1)
}

// applySizes pushes the terminal size down to the widgets.
func (m *Model) applySizes() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.prompt.SetSize(max(20, m.width-4), 0)
	m.alarmView.SetSize(m.width, m.height-1)
	w, h := m.modalSize()
	m.browser.SetSize(w-6, h-6)
	m.help.SetSize(w-6, h-4)
	if rows := m.debugRows(); rows > 0 && m.eventView != nil {
		m.eventView.SetSize(m.width, rows)
	}
}

func computeDebugHeight(totalRows int) int {
	if totalRows <= 4 {
		return 0
	}
	return clamp(totalRows/3, 5, min(12, totalRows-1))
}

func clamp(value, lower, upper int) int {
	if upper < lower {
		return upper
	}
	return max(lower, min(value, upper))
}
