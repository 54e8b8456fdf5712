// Package ui implements `kiosk ui`, the full-screen dashboard.
package ui

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/kiosk/pkg/app"
	"tableflip.dev/kiosk/pkg/audio"
	"tableflip.dev/kiosk/pkg/speech"
	teaui "tableflip.dev/kiosk/pkg/tui/app"
)

type UI struct {
	Service *app.Service
	// Debug opens the event viewer at start.
	Debug bool
}

func (u *UI) Do(ctx context.Context) error {
	svc := u.Service
	if svc == nil || svc.Config == nil {
		return errors.New("ui: no service")
	}
	cfg := svc.Config

	rec, syn := speech.Capabilities(cfg.Speech)
	arb := audio.NewArbiter(audio.NewLoop(cfg.Alarm.Sound, nil), syn)
	defer arb.Close()

	deps := teaui.Deps{
		Alarms:           svc.Alarms,
		Locator:          svc.Locator,
		LocateTimeout:    cfg.Location.Timeout,
		Assistant:        svc.Assistant,
		Recognizer:       rec,
		Audio:            arb,
		Watch:            svc.Watch,
		Now:              time.Now,
		SwipeThreshold:   cfg.UI.SwipeThreshold,
		DefaultAlarmTime: cfg.Alarm.DefaultTime,
		Debug:            u.Debug || cfg.UI.Debug,
	}
	// Typed nils would defeat the nil checks in the model.
	if svc.Weather != nil {
		deps.Weather = svc.Weather
	}
	if svc.News != nil {
		deps.News = svc.News
	}
	return teaui.Run(ctx, deps, cfg.Refresh)
}
