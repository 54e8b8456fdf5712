package alarm

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	cases := map[string]ClockTime{
		"07:00":   {Hour: 7},
		"7:05":    {Hour: 7, Minute: 5},
		"23:59":   {Hour: 23, Minute: 59},
		" 00:00 ": {},
	}
	for in, want := range cases {
		got, err := ParseClock(in)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseClock(%q) = %v, want %v", in, got, want)
		}
	}
	for _, bad := range []string{"", "24:00", "12:60", "7", "07:0", "aa:bb", "123:00"} {
		if _, err := ParseClock(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestAlarmJSONShape(t *testing.T) {
	a := Alarm{ID: "x", Time: MustParseClock("06:30"), Enabled: true, Label: "起床"}
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"x","time":"06:30","enabled":true,"label":"起床"}`
	if string(data) != want {
		t.Fatalf("unexpected encoding\n got: %s\nwant: %s", data, want)
	}
}

func TestNextAfterRollsToTomorrow(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	a := Alarm{Time: MustParseClock("07:00"), Enabled: true}
	got := a.NextAfter(now)
	want := time.Date(2024, 5, 2, 7, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}

	// Exactly at the alarm minute counts as already passed.
	at := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	if got := a.NextAfter(at); !got.Equal(want) {
		t.Fatalf("expected next day, got %s", got)
	}
}

func TestNewIDsAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := newID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}
}
