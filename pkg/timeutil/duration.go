// Package timeutil formats and parses the short relative durations shown next
// to alarms ("rings in 6h12m") and accepted by `kiosk alarm add --in`.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	offsetPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	unitMap       = map[string]time.Duration{
		"m":       time.Minute,
		"min":     time.Minute,
		"mins":    time.Minute,
		"minute":  time.Minute,
		"minutes": time.Minute,
		"h":       time.Hour,
		"hr":      time.Hour,
		"hrs":     time.Hour,
		"hour":    time.Hour,
		"hours":   time.Hour,
	}
)

// ParseOffset parses a relative offset such as "45m", "8h" or "1h30m". Offsets
// are minute-granular and must be positive and shorter than a day, since an
// alarm only carries a clock time.
func ParseOffset(input string) (time.Duration, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		return 0, fmt.Errorf("empty offset")
	}
	total := time.Duration(0)
	for len(remaining) > 0 {
		matches := offsetPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 {
			return 0, fmt.Errorf("invalid offset segment %q", strings.TrimSpace(remaining))
		}
		value, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid offset value %q: %w", matches[1], err)
		}
		base, ok := unitMap[matches[2]]
		if !ok {
			return 0, fmt.Errorf("unsupported offset unit %q", matches[2])
		}
		total += time.Duration(value) * base
		remaining = remaining[len(matches[0]):]
	}
	if total <= 0 {
		return 0, fmt.Errorf("offset must be greater than zero")
	}
	if total >= 24*time.Hour {
		return 0, fmt.Errorf("offset must be less than 24h")
	}
	return total, nil
}

// FormatCountdown renders d as hours and minutes, rounding partial minutes up
// so an alarm one second away reads "1m" rather than "0m".
func FormatCountdown(d time.Duration) string {
	if d <= 0 {
		return "0m"
	}
	minutes := int((d + time.Minute - 1) / time.Minute)
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}
