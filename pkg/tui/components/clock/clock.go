// Package clock renders the time, date and quote of the day.
package clock

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/kiosk/pkg/tui/theme"
)

var weekdays = [...]string{"日", "月", "火", "水", "木", "金", "土"}

var quotes = []string{
	"今日できることは、明日にも延ばさないでください。",
	"千里の道も一歩から。",
	"継続は力なり。",
	"失敗は成功のもと。",
	"笑う門には福来る。",
	"一期一会。",
}

// Date formats t as 2024年5月1日(水).
func Date(t time.Time) string {
	return fmt.Sprintf("%d年%d月%d日(%s)", t.Year(), int(t.Month()), t.Day(), weekdays[t.Weekday()])
}

// Quote picks the quote for t's calendar day.
func Quote(t time.Time) string {
	return quotes[t.YearDay()%len(quotes)]
}

// Greeting matches the band.
func Greeting(b theme.Band) string {
	switch b {
	case theme.Morning:
		return "おはようございます"
	case theme.Day:
		return "こんにちは"
	default:
		return "こんばんは"
	}
}

// Render draws the clock block.
func Render(th theme.Theme, now time.Time, width int) string {
	timeStyle := th.Panel.Title.Bold(true)
	lines := []string{
		th.Panel.Muted.Render(Greeting(th.Band)),
		timeStyle.Render(now.Format("15:04:05")),
		th.Panel.Body.Render(Date(now)),
		"",
		th.Panel.Accent.Italic(true).Render("「" + Quote(now) + "」"),
	}
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}
