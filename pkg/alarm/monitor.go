package alarm

import "time"

// Match returns the first enabled alarm whose time equals now's hour and
// minute, but only on the zero second of that minute. A tick that skips :00
// misses the trigger for that day.
func Match(now time.Time, alarms []Alarm) (Alarm, bool) {
	if now.Second() != 0 {
		return Alarm{}, false
	}
	for _, a := range alarms {
		if a.Enabled && a.Time.Matches(now) {
			return a, true
		}
	}
	return Alarm{}, false
}

// Monitor is the idle/ringing state machine. The zero value is idle.
type Monitor struct {
	ringing *Alarm
}

// Check evaluates one tick. It returns the alarm that started ringing on this
// tick, if any. A match while already ringing replaces the ringing alarm.
func (m *Monitor) Check(now time.Time, alarms []Alarm) (Alarm, bool) {
	a, ok := Match(now, alarms)
	if !ok {
		return Alarm{}, false
	}
	m.ringing = &a
	return a, true
}

// Ringing reports the ringing alarm.
func (m *Monitor) Ringing() (Alarm, bool) {
	if m.ringing == nil {
		return Alarm{}, false
	}
	return *m.ringing, true
}

// Stop returns the monitor to idle and reports which alarm was silenced.
func (m *Monitor) Stop() (Alarm, bool) {
	a, ok := m.Ringing()
	m.ringing = nil
	return a, ok
}
