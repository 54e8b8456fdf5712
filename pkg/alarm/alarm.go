// Package alarm holds the alarm model, its persisted store and the monitor
// that decides when an alarm rings.
package alarm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by CLI-facing lookups for an unknown alarm id.
var ErrNotFound = errors.New("alarm: not found")

// ClockTime is a wall-clock hour and minute with no date and no seconds.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (a single-digit hour is accepted).
func ParseClock(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(mm) != 2 || len(hh) < 1 || len(hh) > 2 {
		return ClockTime{}, fmt.Errorf("alarm: invalid time %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return ClockTime{}, fmt.Errorf("alarm: invalid hour in %q: %w", s, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return ClockTime{}, fmt.Errorf("alarm: invalid minute in %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return ClockTime{}, fmt.Errorf("alarm: time %q out of range", s)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

// MustParseClock is ParseClock for constants and tests.
func MustParseClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Matches reports whether t falls inside this clock minute.
func (c ClockTime) Matches(t time.Time) bool {
	return t.Hour() == c.Hour && t.Minute() == c.Minute
}

// On returns the instant of this clock time on the calendar day of t.
func (c ClockTime) On(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, c.Hour, c.Minute, 0, 0, t.Location())
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Alarm is one configured wake-up time.
type Alarm struct {
	ID      string    `json:"id"`
	Time    ClockTime `json:"time"`
	Enabled bool      `json:"enabled"`
	Label   string    `json:"label"`
}

func (a Alarm) String() string {
	state := "off"
	if a.Enabled {
		state = "on"
	}
	return fmt.Sprintf("%s %s [%s]", a.Time, a.Label, state)
}

// NextAfter returns the first occurrence of the alarm strictly after now.
func (a Alarm) NextAfter(now time.Time) time.Time {
	at := a.Time.On(now)
	if !at.After(now) {
		at = a.Time.On(now.AddDate(0, 0, 1))
	}
	return at
}

// newID returns a time-ordered unique id.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
