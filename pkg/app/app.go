// Package app wires the configured collaborators shared by the dashboard and
// the CLI commands.
package app

import (
	"context"
	"errors"
	"log/slog"

	"tableflip.dev/kiosk/pkg/alarm"
	"tableflip.dev/kiosk/pkg/assistant"
	"tableflip.dev/kiosk/pkg/config"
	"tableflip.dev/kiosk/pkg/location"
	"tableflip.dev/kiosk/pkg/news"
	"tableflip.dev/kiosk/pkg/store"
	"tableflip.dev/kiosk/pkg/weather"
)

// Service holds one process's store and provider clients.
type Service struct {
	Config      *config.Config
	Persistence store.Persistence
	Alarms      *alarm.Store
	Weather     *weather.Client
	News        *news.Client
	Locator     location.Provider
	Assistant   *assistant.Responder
}

// New opens the store and builds the provider clients. Only the store can
// fail; a missing API key yields a responder that explains itself.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("app: no configuration")
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}
	return &Service{
		Config:      cfg,
		Persistence: p,
		Alarms:      alarm.Open(p, alarm.WithDefaultLabel(cfg.Alarm.Label)),
		Weather:     weather.NewClient(cfg.Weather.Endpoint),
		News:        news.NewClient(cfg.News.Endpoint),
		Locator:     Locator(cfg.Location),
		Assistant:   Responder(ctx, cfg.Assistant),
	}, nil
}

// Locator prefers configured coordinates and otherwise asks the IP lookup
// service. Resolve supplies the default when both fail.
func Locator(cfg config.LocationConfig) location.Provider {
	var chain location.Chain
	if cfg.Fixed {
		chain = append(chain, location.Static{Latitude: cfg.Latitude, Longitude: cfg.Longitude})
	}
	if cfg.LookupURL != "" {
		chain = append(chain, &location.IPLookup{URL: cfg.LookupURL})
	}
	return chain
}

// Responder builds the assistant over Gemini when a key is configured.
func Responder(ctx context.Context, cfg config.AssistantConfig) *assistant.Responder {
	if cfg.APIKey == "" {
		return assistant.NewResponder(nil, cfg.Timeout)
	}
	gen, err := assistant.NewGemini(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		slog.Warn("assistant: client unavailable", "error", err)
		return assistant.NewResponder(nil, cfg.Timeout)
	}
	return assistant.NewResponder(gen, cfg.Timeout)
}

// Locate resolves the operating location once.
func (s *Service) Locate(ctx context.Context) location.Result {
	return location.Resolve(ctx, s.Locator, s.Config.Location.Timeout)
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.Watch(ctx)
}
