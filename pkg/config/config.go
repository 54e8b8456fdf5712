// Package config loads kiosk settings from .kiosk.yaml, KIOSK_* environment
// variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Default location used when the device position cannot be resolved (Tokyo).
const (
	DefaultLatitude  = 35.6895
	DefaultLongitude = 139.6917
)

// Config is the resolved configuration for one process.
type Config struct {
	Path string

	Location LocationConfig
	Weather  WeatherConfig
	News     NewsConfig
	Refresh  time.Duration

	Assistant AssistantConfig
	Speech    SpeechConfig
	Alarm     AlarmConfig
	UI        UIConfig
	Log       LogConfig
}

// LocationConfig controls how the operating location is resolved.
type LocationConfig struct {
	// Latitude and Longitude are only honored when Fixed is true.
	Fixed     bool
	Latitude  float64
	Longitude float64
	LookupURL string
	Timeout   time.Duration
}

type WeatherConfig struct {
	Endpoint string
}

type NewsConfig struct {
	Endpoint string
}

type AssistantConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// SpeechConfig holds the command lines backing speech capture and synthesis.
// An empty command means the capability is absent.
type SpeechConfig struct {
	Recognizer  string
	Synthesizer string
}

type AlarmConfig struct {
	Sound       string
	Label       string
	DefaultTime string
}

type UIConfig struct {
	SwipeThreshold int
	Debug          bool
}

type LogConfig struct {
	File  string
	Level string
}

// BasePath implements store.Config.
func (c *Config) BasePath() string {
	return c.Path
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("path", "~/.kiosk.db")
	v.SetDefault("location.lookup_url", "http://ip-api.com/json/?fields=status,message,lat,lon")
	v.SetDefault("location.timeout", "5s")
	v.SetDefault("weather.endpoint", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("news.endpoint", "https://api.rss2json.com/v1/api.json")
	v.SetDefault("refresh.interval", "30m")
	v.SetDefault("assistant.model", "gemini-2.5-flash")
	v.SetDefault("assistant.timeout", "30s")
	v.SetDefault("alarm.label", "アラーム")
	v.SetDefault("alarm.default_time", "07:00")
	v.SetDefault("ui.swipe_threshold", 8)
	v.SetDefault("ui.debug", false)
	v.SetDefault("log.file", "~/.kiosk.log")
	v.SetDefault("log.level", "info")
}

// Load reads configuration. A missing config file is not an error.
func Load() (*Config, error) {
	// .env is optional; it only seeds the process environment.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(".kiosk") // .yaml is implicit
	v.SetEnvPrefix("KIOSK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("KIOSK_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("config: expand path: %w", err)
	}
	logFile, err := homedir.Expand(v.GetString("log.file"))
	if err != nil {
		return nil, fmt.Errorf("config: expand log.file: %w", err)
	}
	sound, err := homedir.Expand(v.GetString("alarm.sound"))
	if err != nil {
		return nil, fmt.Errorf("config: expand alarm.sound: %w", err)
	}

	refresh := v.GetDuration("refresh.interval")
	if refresh <= 0 {
		return nil, fmt.Errorf("config: refresh.interval must be positive, got %q", v.GetString("refresh.interval"))
	}

	cfg := &Config{
		Path: path,
		Location: LocationConfig{
			Fixed:     v.IsSet("location.latitude") && v.IsSet("location.longitude"),
			Latitude:  v.GetFloat64("location.latitude"),
			Longitude: v.GetFloat64("location.longitude"),
			LookupURL: v.GetString("location.lookup_url"),
			Timeout:   v.GetDuration("location.timeout"),
		},
		Weather: WeatherConfig{Endpoint: v.GetString("weather.endpoint")},
		News:    NewsConfig{Endpoint: v.GetString("news.endpoint")},
		Refresh: refresh,
		Assistant: AssistantConfig{
			APIKey:  firstNonEmpty(v.GetString("assistant.api_key"), os.Getenv("GEMINI_API_KEY"), os.Getenv("API_KEY")),
			Model:   v.GetString("assistant.model"),
			Timeout: v.GetDuration("assistant.timeout"),
		},
		Speech: SpeechConfig{
			Recognizer:  strings.TrimSpace(v.GetString("speech.recognizer")),
			Synthesizer: strings.TrimSpace(v.GetString("speech.synthesizer")),
		},
		Alarm: AlarmConfig{
			Sound:       sound,
			Label:       v.GetString("alarm.label"),
			DefaultTime: v.GetString("alarm.default_time"),
		},
		UI: UIConfig{
			SwipeThreshold: v.GetInt("ui.swipe_threshold"),
			Debug:          v.GetBool("ui.debug"),
		},
		Log: LogConfig{
			File:  logFile,
			Level: v.GetString("log.level"),
		},
	}
	if cfg.UI.SwipeThreshold <= 0 {
		cfg.UI.SwipeThreshold = 8
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
