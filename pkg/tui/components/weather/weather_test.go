package weather

import (
	"strings"
	"testing"
	"time"

	"tableflip.dev/kiosk/pkg/tui/theme"
	wx "tableflip.dev/kiosk/pkg/weather"
)

func TestIconForEveryCategory(t *testing.T) {
	for _, code := range append(wx.Codes(), 12345) {
		if Icon(code) == "" {
			t.Fatalf("code %d has no icon", code)
		}
	}
}

func TestWidgetStates(t *testing.T) {
	th := theme.Default()
	if out := Widget(th, wx.Fallback(), false, 30); !strings.Contains(out, "読み込み中") {
		t.Fatalf("expected loading text, got %q", out)
	}
	s := wx.Fallback()
	s.Current = wx.Current{Temperature: 21.6, Code: 63, Humidity: 80}
	out := Widget(th, s, true, 40)
	if !strings.Contains(out, "22°") || !strings.Contains(out, "雨") {
		t.Fatalf("unexpected widget %q", out)
	}
}

func TestDetailListsHoursAndDays(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := wx.Fallback()
	for i := 0; i < 30; i++ {
		s.Hourly.Times = append(s.Hourly.Times, base.Add(time.Duration(i)*time.Hour))
		s.Hourly.Temps = append(s.Hourly.Temps, 10)
		s.Hourly.Codes = append(s.Hourly.Codes, 0)
	}
	s.Daily = wx.Daily{Dates: []time.Time{base}, Max: []float64{20}, Min: []float64{10}, Codes: []int{3}}
	out := Detail(theme.Default(), s, base.Add(3*time.Hour), 80)
	for _, want := range []string{"24時間予報", " 3時", "今日", "曇り"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in detail:\n%s", want, out)
		}
	}
}
