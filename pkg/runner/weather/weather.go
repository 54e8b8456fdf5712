// Package weather implements `kiosk weather`.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/kiosk/pkg/location"
	"tableflip.dev/kiosk/pkg/printers"
	wx "tableflip.dev/kiosk/pkg/weather"
)

// Source is satisfied by *weather.Client.
type Source interface {
	Snapshot(ctx context.Context, at location.Coordinates) (wx.Snapshot, error)
}

// Forecast prints the forecast for At, or for the resolved location when At
// is nil.
type Forecast struct {
	Weather Source
	Locate  func(ctx context.Context) location.Result
	At      *location.Coordinates
	JSON    bool
	Out     io.Writer
}

func (f *Forecast) out() io.Writer {
	if f.Out != nil {
		return f.Out
	}
	return color.Output
}

func (f *Forecast) Do(ctx context.Context) error {
	var at location.Coordinates
	switch {
	case f.At != nil:
		at = *f.At
	case f.Locate != nil:
		at = f.Locate(ctx).Coordinates
	default:
		at = location.Default
	}
	snap, err := f.Weather.Snapshot(ctx, at)
	if err != nil {
		return err
	}
	if f.JSON {
		b, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(f.out(), string(b))
		return err
	}
	pp := printers.PrettyPrint{Out: f.out()}
	pp.NewLine()
	pp.Title("Weather at " + at.String())
	pp.Forecast(snap)
	return nil
}
