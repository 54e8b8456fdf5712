// Package weather fetches forecast snapshots from Open-Meteo and maps WMO
// condition codes onto display categories.
package weather

import "time"

// Current holds the conditions at fetch time.
type Current struct {
	Temperature   float64 `json:"temperature"`
	Code          int     `json:"code"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"windSpeed"`
	WindDirection float64 `json:"windDirection"`
}

// Daily is a day-indexed forecast. Index 0 is today; all slices share one
// length.
type Daily struct {
	Dates []time.Time `json:"dates"`
	Max   []float64   `json:"max"`
	Min   []float64   `json:"min"`
	Codes []int       `json:"codes"`
}

// Hourly is an hour-indexed forecast; all slices share one length.
type Hourly struct {
	Times []time.Time `json:"times"`
	Temps []float64   `json:"temps"`
	Codes []int       `json:"codes"`
}

// Snapshot is one complete poll result. It is replaced wholesale, never
// merged.
type Snapshot struct {
	Current Current `json:"current"`
	Daily   Daily   `json:"daily"`
	Hourly  Hourly  `json:"hourly"`
}

// Fallback is the zeroed snapshot used when a fetch fails.
func Fallback() Snapshot {
	return Snapshot{
		Daily:  Daily{Dates: []time.Time{}, Max: []float64{}, Min: []float64{}, Codes: []int{}},
		Hourly: Hourly{Times: []time.Time{}, Temps: []float64{}, Codes: []int{}},
	}
}

// Empty reports whether the snapshot carries no forecast data.
func (s Snapshot) Empty() bool {
	return len(s.Daily.Dates) == 0 && len(s.Hourly.Times) == 0
}

// HourPoint is one row of the hourly forecast.
type HourPoint struct {
	Time time.Time
	Temp float64
	Code int
}

// DayPoint is one row of the daily forecast.
type DayPoint struct {
	Date time.Time
	Max  float64
	Min  float64
	Code int
}

// Upcoming returns up to n hourly rows starting at the hour containing now.
func (s Snapshot) Upcoming(now time.Time, n int) []HourPoint {
	start := now.Truncate(time.Hour)
	var out []HourPoint
	for i, t := range s.Hourly.Times {
		if t.Before(start) {
			continue
		}
		if len(out) == n {
			break
		}
		out = append(out, HourPoint{Time: t, Temp: s.Hourly.Temps[i], Code: s.Hourly.Codes[i]})
	}
	return out
}

// Days returns the daily forecast as rows.
func (s Snapshot) Days() []DayPoint {
	out := make([]DayPoint, len(s.Daily.Dates))
	for i, d := range s.Daily.Dates {
		out[i] = DayPoint{Date: d, Max: s.Daily.Max[i], Min: s.Daily.Min[i], Code: s.Daily.Codes[i]}
	}
	return out
}

// Today returns the day-0 row if present.
func (s Snapshot) Today() (DayPoint, bool) {
	days := s.Days()
	if len(days) == 0 {
		return DayPoint{}, false
	}
	return days[0], true
}
