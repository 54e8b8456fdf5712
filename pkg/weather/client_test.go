package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tableflip.dev/kiosk/pkg/location"
)

// mockRoundTripper serves requests from an in-process handler.
type mockRoundTripper struct {
	handler http.Handler
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := httptest.NewRecorder()
	m.handler.ServeHTTP(rec, req)
	return rec.Result(), nil
}

const sampleForecast = `{
  "timezone": "Asia/Tokyo",
  "utc_offset_seconds": 32400,
  "current": {"temperature_2m": 18.4, "weather_code": 2, "relative_humidity_2m": 61, "wind_speed_10m": 3.2, "wind_direction_10m": 90},
  "hourly": {
    "time": ["2024-05-01T00:00", "2024-05-01T01:00", "2024-05-01T02:00"],
    "temperature_2m": [15.1, 14.8, 14.2],
    "weather_code": [0, 1]
  },
  "daily": {
    "time": ["2024-05-01", "2024-05-02"],
    "weather_code": [2, 61],
    "temperature_2m_max": [22.0, 19.5],
    "temperature_2m_min": [12.0, 13.1]
  }
}`

func clientFor(handler http.HandlerFunc) *Client {
	return &Client{
		Endpoint:   DefaultEndpoint,
		HTTPClient: &http.Client{Transport: &mockRoundTripper{handler: handler}},
	}
}

func TestSnapshotParsesForecast(t *testing.T) {
	client := clientFor(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("latitude") != "35.6895" || q.Get("longitude") != "139.6917" {
			t.Errorf("unexpected coordinates %s,%s", q.Get("latitude"), q.Get("longitude"))
		}
		if q.Get("timezone") != "auto" {
			t.Errorf("expected timezone=auto, got %s", q.Get("timezone"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleForecast))
	})

	s, err := client.Snapshot(context.Background(), location.Default)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Current.Temperature != 18.4 || s.Current.Code != 2 || s.Current.Humidity != 61 {
		t.Errorf("unexpected current %+v", s.Current)
	}
	// Hourly arrays are cut to their shortest member.
	if len(s.Hourly.Times) != 2 || len(s.Hourly.Temps) != 2 || len(s.Hourly.Codes) != 2 {
		t.Fatalf("hourly arrays not aligned: %d/%d/%d", len(s.Hourly.Times), len(s.Hourly.Temps), len(s.Hourly.Codes))
	}
	if _, offset := s.Hourly.Times[1].Zone(); offset != 9*3600 {
		t.Errorf("expected +09:00 timestamps, got offset %d", offset)
	}
	today, ok := s.Today()
	if !ok || today.Max != 22.0 || today.Code != 2 {
		t.Errorf("unexpected today %+v", today)
	}
}

func TestSnapshotFallbackOnFailure(t *testing.T) {
	client := clientFor(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	s, err := client.Snapshot(context.Background(), location.Default)
	if err == nil {
		t.Fatalf("expected error")
	}
	if s.Current.Temperature != 0 || s.Current.Code != 0 {
		t.Errorf("expected zeroed current, got %+v", s.Current)
	}
	if len(s.Daily.Dates) != 0 || len(s.Hourly.Times) != 0 || !s.Empty() {
		t.Errorf("expected empty forecast arrays")
	}
}

func TestSnapshotFallbackOnBadJSON(t *testing.T) {
	client := clientFor(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current":`))
	})
	if s, err := client.Snapshot(context.Background(), location.Default); err == nil || !s.Empty() {
		t.Fatalf("expected fallback with error, got %+v %v", s, err)
	}
}

func TestUpcomingStartsAtCurrentHour(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var s Snapshot
	for i := 0; i < 48; i++ {
		s.Hourly.Times = append(s.Hourly.Times, base.Add(time.Duration(i)*time.Hour))
		s.Hourly.Temps = append(s.Hourly.Temps, float64(i))
		s.Hourly.Codes = append(s.Hourly.Codes, 0)
	}
	now := base.Add(10*time.Hour + 25*time.Minute)
	got := s.Upcoming(now, 24)
	if len(got) != 24 {
		t.Fatalf("expected 24 rows, got %d", len(got))
	}
	if got[0].Temp != 10 || got[23].Temp != 33 {
		t.Fatalf("unexpected window %v..%v", got[0].Temp, got[23].Temp)
	}
}
