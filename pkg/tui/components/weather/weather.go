// Package weather renders the weather widget and the forecast modal.
package weather

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/kiosk/pkg/tui/theme"
	wx "tableflip.dev/kiosk/pkg/weather"
)

var icons = map[wx.Category]string{
	wx.Clear:        "☀",
	wx.PartlyCloudy: "⛅",
	wx.Cloudy:       "☁",
	wx.Rain:         "☂",
	wx.Snow:         "❄",
	wx.Storm:        "⚡",
}

// Icon returns the glyph for a condition code.
func Icon(code int) string {
	return icons[wx.Classify(code)]
}

func deg(v float64) string {
	return fmt.Sprintf("%d°", int(math.Round(v)))
}

// Widget renders the dashboard summary. loaded is false until the first poll
// completes.
func Widget(th theme.Theme, s wx.Snapshot, loaded bool, width int) string {
	frame := th.Panel.Frame.Width(width)
	if !loaded {
		return frame.Render(th.Panel.Muted.Render("天気を読み込み中…"))
	}
	c := s.Current
	head := lipgloss.JoinHorizontal(lipgloss.Center,
		th.Panel.Accent.Render(Icon(c.Code)+" "),
		th.Panel.Title.Render(deg(c.Temperature)),
		th.Panel.Body.Render(" "+wx.Label(c.Code)),
	)
	lines := []string{head}
	if today, ok := s.Today(); ok {
		lines = append(lines, th.Panel.Muted.Render(fmt.Sprintf("最高 %s / 最低 %s", deg(today.Max), deg(today.Min))))
	}
	lines = append(lines, th.Panel.Muted.Render(fmt.Sprintf("湿度 %d%%  風 %s %.1fkm/h",
		int(math.Round(c.Humidity)), wx.WindDirection(c.WindDirection), c.WindSpeed)))
	return frame.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Detail renders the forecast modal body: current conditions, the next 24
// hours and the daily forecast.
func Detail(th theme.Theme, s wx.Snapshot, now time.Time, width int) string {
	var b strings.Builder
	b.WriteString(th.Modal.Title.Render("詳細天気予報"))
	b.WriteString("\n\n")
	c := s.Current
	b.WriteString(fmt.Sprintf("%s %s %s\n", Icon(c.Code), deg(c.Temperature), wx.Label(c.Code)))
	b.WriteString(th.Panel.Muted.Render(fmt.Sprintf("湿度 %d%%  風速 %.1fkm/h  風向 %s",
		int(math.Round(c.Humidity)), c.WindSpeed, wx.WindDirection(c.WindDirection))))
	b.WriteString("\n\n")

	hours := s.Upcoming(now, 24)
	if len(hours) > 0 {
		b.WriteString(th.Modal.Title.Render("24時間予報"))
		b.WriteString("\n")
		cells := make([]string, 0, len(hours))
		for _, h := range hours {
			cells = append(cells, fmt.Sprintf("%2d時 %s %s", h.Time.Hour(), Icon(h.Code), deg(h.Temp)))
		}
		b.WriteString(columns(cells, width))
		b.WriteString("\n\n")
	}

	days := s.Days()
	if len(days) > 0 {
		b.WriteString(th.Modal.Title.Render("週間予報"))
		b.WriteString("\n")
		for i, d := range days {
			name := fmt.Sprintf("%d/%d(%s)", int(d.Date.Month()), d.Date.Day(), weekday(d.Date))
			if i == 0 {
				name = "今日"
			}
			b.WriteString(fmt.Sprintf("%-8s %s %-6s %s / %s\n", name, Icon(d.Code), wx.Label(d.Code), deg(d.Max), deg(d.Min)))
		}
	}
	if s.Empty() {
		b.WriteString(th.Panel.Muted.Render("予報データがありません"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func weekday(t time.Time) string {
	return [...]string{"日", "月", "火", "水", "木", "金", "土"}[t.Weekday()]
}

// columns lays cells out in as many fixed-width columns as fit.
func columns(cells []string, width int) string {
	const cellWidth = 14
	perRow := max(1, width/cellWidth)
	var rows []string
	for i := 0; i < len(cells); i += perRow {
		end := min(i+perRow, len(cells))
		var row strings.Builder
		for _, c := range cells[i:end] {
			row.WriteString(lipgloss.NewStyle().Width(cellWidth).Render(c))
		}
		rows = append(rows, row.String())
	}
	return strings.Join(rows, "\n")
}
