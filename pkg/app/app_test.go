package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tableflip.dev/kiosk/pkg/alarm"
	"tableflip.dev/kiosk/pkg/assistant"
	"tableflip.dev/kiosk/pkg/config"
	"tableflip.dev/kiosk/pkg/location"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Path:     filepath.Join(t.TempDir(), "db"),
		Location: config.LocationConfig{Timeout: time.Second},
		Alarm:    config.AlarmConfig{Label: "目覚まし"},
	}
}

func TestNewSharesAlarmStore(t *testing.T) {
	cfg := testConfig(t)
	svc, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a, err := svc.Alarms.Add(alarm.MustParseClock("07:00"), "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if a.Label != "目覚まし" {
		t.Fatalf("expected configured default label, got %q", a.Label)
	}

	again, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := again.Alarms.List(); len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("expected persisted alarm, got %+v", got)
	}
}

func TestLocatorPrefersFixedCoordinates(t *testing.T) {
	cfg := testConfig(t)
	cfg.Location.Fixed = true
	cfg.Location.Latitude, cfg.Location.Longitude = 43.06, 141.35
	svc, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := svc.Locate(context.Background())
	if res.Fallback || res.Coordinates.Latitude != 43.06 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestLocatorWithoutSourcesFallsBack(t *testing.T) {
	svc, err := New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := svc.Locate(context.Background())
	if !res.Fallback || res.Coordinates != location.Default {
		t.Fatalf("expected default location, got %+v", res)
	}
}

func TestResponderWithoutKey(t *testing.T) {
	r := Responder(context.Background(), config.AssistantConfig{})
	if r.Available() {
		t.Fatalf("responder should be unavailable without a key")
	}
	if got := r.Reply(context.Background(), "hi"); got != assistant.MsgNoAPIKey {
		t.Fatalf("unexpected reply %q", got)
	}
}
