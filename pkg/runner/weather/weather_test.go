package weather

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tableflip.dev/kiosk/pkg/location"
	wx "tableflip.dev/kiosk/pkg/weather"
)

type fakeSource struct {
	at   location.Coordinates
	snap wx.Snapshot
	err  error
}

func (f *fakeSource) Snapshot(_ context.Context, at location.Coordinates) (wx.Snapshot, error) {
	f.at = at
	return f.snap, f.err
}

func TestForecastUsesResolvedLocation(t *testing.T) {
	src := &fakeSource{snap: wx.Snapshot{
		Current: wx.Current{Temperature: 21, Code: 3},
		Daily:   wx.Daily{Dates: []time.Time{time.Now()}, Max: []float64{25}, Min: []float64{15}, Codes: []int{3}},
	}}
	var buf bytes.Buffer
	f := Forecast{
		Weather: src,
		Locate: func(context.Context) location.Result {
			return location.Result{Coordinates: location.Coordinates{Latitude: 1, Longitude: 2}}
		},
		Out: &buf,
	}
	if err := f.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if src.at.Latitude != 1 || src.at.Longitude != 2 {
		t.Fatalf("unexpected coordinates %+v", src.at)
	}
	if !strings.Contains(buf.String(), "21°C") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestForecastReturnsProviderError(t *testing.T) {
	f := Forecast{Weather: &fakeSource{snap: wx.Fallback(), err: errors.New("down")}, Out: &bytes.Buffer{}}
	if err := f.Do(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
