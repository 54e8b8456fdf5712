// Package location resolves the dashboard's operating coordinates once at
// startup.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrLookupFailed wraps every provider failure.
var ErrLookupFailed = errors.New("location: lookup failed")

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// Default is Tokyo. It is used whenever the position cannot be determined.
var Default = Coordinates{Latitude: 35.6895, Longitude: 139.6917}

// DefaultTimeout bounds Resolve when the caller passes no timeout.
const DefaultTimeout = 5 * time.Second

// Provider yields the device position.
type Provider interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// Static always reports the configured coordinates.
type Static Coordinates

func (s Static) Locate(context.Context) (Coordinates, error) {
	return Coordinates(s), nil
}

// IPLookup asks an IP geolocation service (ip-api.com response shape) where
// this host is.
type IPLookup struct {
	URL        string
	HTTPClient *http.Client
}

type ipResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (l *IPLookup) Locate(ctx context.Context) (Coordinates, error) {
	if l.URL == "" {
		return Coordinates{}, fmt.Errorf("%w: no lookup url configured", ErrLookupFailed)
	}
	client := l.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("%w: status %s", ErrLookupFailed, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: read body: %v", ErrLookupFailed, err)
	}
	var out ipResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return Coordinates{}, fmt.Errorf("%w: decode: %v", ErrLookupFailed, err)
	}
	if out.Status != "" && out.Status != "success" {
		return Coordinates{}, fmt.Errorf("%w: %s %s", ErrLookupFailed, out.Status, out.Message)
	}
	c := Coordinates{Latitude: out.Lat, Longitude: out.Lon}
	if !c.Valid() {
		return Coordinates{}, fmt.Errorf("%w: coordinates out of range %s", ErrLookupFailed, c)
	}
	return c, nil
}

// Valid reports whether the pair is a plausible position.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180 &&
		!(c.Latitude == 0 && c.Longitude == 0)
}

// Chain tries providers in order and returns the first success.
type Chain []Provider

func (ch Chain) Locate(ctx context.Context) (Coordinates, error) {
	var errs []error
	for _, p := range ch {
		if p == nil {
			continue
		}
		c, err := p.Locate(ctx)
		if err == nil {
			return c, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return Coordinates{}, fmt.Errorf("%w: no providers", ErrLookupFailed)
	}
	return Coordinates{}, errors.Join(errs...)
}

// Result is the outcome of a one-shot resolution.
type Result struct {
	Coordinates Coordinates
	// Fallback is true when Default was substituted.
	Fallback bool
	Err      error
}

// Resolve runs provider once under timeout. It never fails: any error or
// timeout yields Default with Fallback set.
func Resolve(ctx context.Context, provider Provider, timeout time.Duration) Result {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if provider == nil {
		return Result{Coordinates: Default, Fallback: true, Err: fmt.Errorf("%w: no provider", ErrLookupFailed)}
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type located struct {
		c   Coordinates
		err error
	}
	done := make(chan located, 1)
	go func() {
		c, err := provider.Locate(ctx)
		done <- located{c, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			slog.Warn("location: falling back to default", "error", r.err)
			return Result{Coordinates: Default, Fallback: true, Err: r.err}
		}
		return Result{Coordinates: r.c}
	case <-ctx.Done():
		err := fmt.Errorf("%w: %v", ErrLookupFailed, ctx.Err())
		slog.Warn("location: falling back to default", "error", err)
		return Result{Coordinates: Default, Fallback: true, Err: err}
	}
}
