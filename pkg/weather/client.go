package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tableflip.dev/kiosk/pkg/location"
)

// DefaultEndpoint is the Open-Meteo forecast API.
const DefaultEndpoint = "https://api.open-meteo.com/v1/forecast"

// Client fetches forecasts from an Open-Meteo compatible endpoint.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
}

// NewClient returns a client for endpoint (DefaultEndpoint when empty).
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type forecastResponse struct {
	Timezone         string `json:"timezone"`
	UTCOffsetSeconds int    `json:"utc_offset_seconds"`
	Current          struct {
		Temperature   float64 `json:"temperature_2m"`
		WeatherCode   int     `json:"weather_code"`
		Humidity      float64 `json:"relative_humidity_2m"`
		WindSpeed     float64 `json:"wind_speed_10m"`
		WindDirection float64 `json:"wind_direction_10m"`
	} `json:"current"`
	Hourly struct {
		Time        []string  `json:"time"`
		Temperature []float64 `json:"temperature_2m"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"hourly"`
	Daily struct {
		Time        []string  `json:"time"`
		WeatherCode []int     `json:"weather_code"`
		Max         []float64 `json:"temperature_2m_max"`
		Min         []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

func (c *Client) forecastURL(at location.Coordinates) (string, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return "", fmt.Errorf("weather: parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(at.Latitude, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(at.Longitude, 'f', 4, 64))
	q.Set("current", "temperature_2m,weather_code,relative_humidity_2m,wind_speed_10m,wind_direction_10m")
	q.Set("hourly", "temperature_2m,weather_code")
	q.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min")
	q.Set("timezone", "auto")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Snapshot fetches the forecast at the given coordinates. On any failure it
// returns Fallback() together with the error.
func (c *Client) Snapshot(ctx context.Context, at location.Coordinates) (Snapshot, error) {
	s, err := c.fetch(ctx, at)
	if err != nil {
		return Fallback(), err
	}
	return s, nil
}

func (c *Client) fetch(ctx context.Context, at location.Coordinates) (Snapshot, error) {
	target, err := c.forecastURL(at)
	if err != nil {
		return Snapshot{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("weather: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("weather: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Snapshot{}, fmt.Errorf("weather: provider error: %d %s", resp.StatusCode, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Snapshot{}, fmt.Errorf("weather: read body: %w", err)
	}
	var fr forecastResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		return Snapshot{}, fmt.Errorf("weather: decode: %w", err)
	}
	return fr.snapshot()
}

// zone prefers the named IANA zone and falls back to the fixed offset.
func (fr forecastResponse) zone() *time.Location {
	if fr.Timezone != "" {
		if loc, err := time.LoadLocation(fr.Timezone); err == nil {
			return loc
		}
	}
	return time.FixedZone(fr.Timezone, fr.UTCOffsetSeconds)
}

func (fr forecastResponse) snapshot() (Snapshot, error) {
	loc := fr.zone()
	s := Fallback()
	s.Current = Current{
		Temperature:   fr.Current.Temperature,
		Code:          fr.Current.WeatherCode,
		Humidity:      fr.Current.Humidity,
		WindSpeed:     fr.Current.WindSpeed,
		WindDirection: fr.Current.WindDirection,
	}

	n := minLen(len(fr.Hourly.Time), len(fr.Hourly.Temperature), len(fr.Hourly.WeatherCode))
	for i := 0; i < n; i++ {
		t, err := time.ParseInLocation("2006-01-02T15:04", fr.Hourly.Time[i], loc)
		if err != nil {
			return Snapshot{}, fmt.Errorf("weather: hourly time %q: %w", fr.Hourly.Time[i], err)
		}
		s.Hourly.Times = append(s.Hourly.Times, t)
		s.Hourly.Temps = append(s.Hourly.Temps, fr.Hourly.Temperature[i])
		s.Hourly.Codes = append(s.Hourly.Codes, fr.Hourly.WeatherCode[i])
	}

	n = minLen(len(fr.Daily.Time), len(fr.Daily.Max), len(fr.Daily.Min), len(fr.Daily.WeatherCode))
	for i := 0; i < n; i++ {
		d, err := time.ParseInLocation("2006-01-02", fr.Daily.Time[i], loc)
		if err != nil {
			return Snapshot{}, fmt.Errorf("weather: daily date %q: %w", fr.Daily.Time[i], err)
		}
		s.Daily.Dates = append(s.Daily.Dates, d)
		s.Daily.Max = append(s.Daily.Max, fr.Daily.Max[i])
		s.Daily.Min = append(s.Daily.Min, fr.Daily.Min[i])
		s.Daily.Codes = append(s.Daily.Codes, fr.Daily.WeatherCode[i])
	}
	return s, nil
}

func minLen(lengths ...int) int {
	m := lengths[0]
	for _, l := range lengths[1:] {
		if l < m {
			m = l
		}
	}
	return m
}
