package alarm

import (
	"testing"
	"time"
)

func at(h, m, s int) time.Time {
	return time.Date(2024, 5, 1, h, m, s, 0, time.Local)
}

func TestMonitorRingsAtTopOfMinute(t *testing.T) {
	alarms := []Alarm{{ID: "a", Time: MustParseClock("07:00"), Enabled: true}}
	var m Monitor

	if _, ok := m.Check(at(6, 59, 59), alarms); ok {
		t.Fatalf("rang before the alarm minute")
	}
	got, ok := m.Check(at(7, 0, 0), alarms)
	if !ok || got.ID != "a" {
		t.Fatalf("expected alarm a to ring, got %+v ok=%v", got, ok)
	}
	if r, ok := m.Ringing(); !ok || r.ID != "a" {
		t.Fatalf("expected ringing state")
	}
}

func TestMonitorIgnoresMidMinute(t *testing.T) {
	alarms := []Alarm{{ID: "a", Time: MustParseClock("07:00"), Enabled: true}}
	var m Monitor
	if _, ok := m.Check(at(7, 0, 30), alarms); ok {
		t.Fatalf("should not trigger at 07:00:30")
	}
	if _, ok := m.Ringing(); ok {
		t.Fatalf("monitor should stay idle")
	}
}

func TestMonitorSkipsDisabled(t *testing.T) {
	alarms := []Alarm{{ID: "a", Time: MustParseClock("07:00"), Enabled: false}}
	var m Monitor
	if _, ok := m.Check(at(7, 0, 0), alarms); ok {
		t.Fatalf("disabled alarm rang")
	}
}

func TestMonitorStopAfterAcknowledgeDoesNotRetrigger(t *testing.T) {
	alarms := []Alarm{{ID: "a", Time: MustParseClock("07:00"), Enabled: true}}
	var m Monitor
	m.Check(at(7, 0, 0), alarms)
	if a, ok := m.Stop(); !ok || a.ID != "a" {
		t.Fatalf("stop should report the silenced alarm")
	}
	for s := 1; s < 60; s++ {
		if _, ok := m.Check(at(7, 0, s), alarms); ok {
			t.Fatalf("retriggered at second %d", s)
		}
	}
	if _, ok := m.Stop(); ok {
		t.Fatalf("second stop should be a no-op")
	}
}

func TestDuplicateTimesFirstInListWins(t *testing.T) {
	alarms := []Alarm{
		{ID: "disabled", Time: MustParseClock("07:00"), Enabled: false},
		{ID: "first", Time: MustParseClock("07:00"), Enabled: true},
		{ID: "second", Time: MustParseClock("07:00"), Enabled: true},
	}
	for i := 0; i < 10; i++ {
		got, ok := Match(at(7, 0, 0), alarms)
		if !ok || got.ID != "first" {
			t.Fatalf("expected first enabled match, got %+v", got)
		}
	}
}

func TestLaterMatchReplacesRinging(t *testing.T) {
	alarms := []Alarm{
		{ID: "a", Time: MustParseClock("07:00"), Enabled: true},
		{ID: "b", Time: MustParseClock("07:01"), Enabled: true},
	}
	var m Monitor
	m.Check(at(7, 0, 0), alarms)
	m.Check(at(7, 1, 0), alarms)
	if r, _ := m.Ringing(); r.ID != "b" {
		t.Fatalf("expected b ringing, got %s", r.ID)
	}
}
