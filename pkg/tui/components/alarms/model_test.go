package alarms

import (
	"strings"
	"testing"
	"time"

	"tableflip.dev/kiosk/pkg/alarm"
	"tableflip.dev/kiosk/pkg/tui/theme"
)

func sample() []alarm.Alarm {
	return []alarm.Alarm{
		{ID: "a", Time: alarm.MustParseClock("06:30"), Enabled: true, Label: "起床"},
		{ID: "b", Time: alarm.MustParseClock("22:00"), Enabled: false, Label: "就寝"},
	}
}

func TestCursorClamps(t *testing.T) {
	m := New(theme.Default())
	if _, ok := m.Selected(); ok {
		t.Fatalf("empty list has no selection")
	}
	m.SetAlarms(sample())
	m.Move(5)
	if a, _ := m.Selected(); a.ID != "b" {
		t.Fatalf("expected last alarm, got %s", a.ID)
	}
	m.SetAlarms(sample()[:1])
	if a, _ := m.Selected(); a.ID != "a" {
		t.Fatalf("cursor should clamp after shrink, got %s", a.ID)
	}
	m.Move(-3)
	if a, _ := m.Selected(); a.ID != "a" {
		t.Fatalf("cursor should clamp at top")
	}
}

func TestViewShowsCountdown(t *testing.T) {
	m := New(theme.Default())
	m.SetAlarms(sample())
	m.SetNow(time.Date(2024, 5, 1, 6, 0, 0, 0, time.Local))
	out := m.View()
	for _, want := range []string{"06:30", "起床", "あと30m", "OFF"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestAddInputRoundTrip(t *testing.T) {
	m := New(theme.Default())
	m.BeginAdd("07:00")
	if !m.Editing() || !m.Focused() {
		t.Fatalf("expected editing with focus")
	}
	if got := m.EndAdd(); got != "07:00" {
		t.Fatalf("unexpected value %q", got)
	}
	if m.Editing() || m.Focused() {
		t.Fatalf("input should close")
	}
}
