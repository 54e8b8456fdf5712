package alarm

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"tableflip.dev/kiosk/pkg/store"
)

// Slot is the persistence slot that holds the alarm list.
const Slot = "alarms"

// DefaultLabel is used when an alarm is added without a label.
const DefaultLabel = "アラーム"

// Backend is the slice of store.Persistence the alarm store relies on.
type Backend interface {
	Read(slot string) ([]byte, error)
	Write(slot string, data []byte) error
}

// Store owns the alarm list and writes it through to the backend on every
// mutation. It is safe for concurrent use.
type Store struct {
	mu           sync.Mutex
	backend      Backend
	defaultLabel string
	alarms       []Alarm
}

// Option configures a Store.
type Option func(*Store)

// WithDefaultLabel overrides the label given to unlabeled alarms.
func WithDefaultLabel(label string) Option {
	return func(s *Store) {
		if label = strings.TrimSpace(label); label != "" {
			s.defaultLabel = label
		}
	}
}

// Open loads the persisted list. Missing or unreadable data yields an empty
// store rather than an error.
func Open(backend Backend, opts ...Option) *Store {
	s := &Store{backend: backend, defaultLabel: DefaultLabel}
	for _, opt := range opts {
		opt(s)
	}
	s.alarms, _ = s.load()
	return s
}

// load reads the persisted list. ok is false when nothing usable was read.
func (s *Store) load() ([]Alarm, bool) {
	if s.backend == nil {
		return nil, false
	}
	data, err := s.backend.Read(Slot)
	if err != nil {
		// Not-found is the normal first-run state; anything else is logged.
		if !errors.Is(err, store.ErrNotFound) {
			slog.Warn("alarm: read persisted list", "error", err)
		}
		return nil, false
	}
	var alarms []Alarm
	if err := json.Unmarshal(data, &alarms); err != nil {
		slog.Warn("alarm: decode persisted list", "error", err)
		return nil, false
	}
	return alarms, true
}

// refresh picks up writes made by other processes so a mutation applies to
// the persisted list rather than a stale copy. An unreadable slot keeps the
// in-memory list. Callers hold s.mu.
func (s *Store) refresh() {
	if loaded, ok := s.load(); ok {
		s.alarms = loaded
	}
}

// persist writes the full list. Callers hold s.mu.
func (s *Store) persist() error {
	if s.backend == nil {
		return nil
	}
	list := s.alarms
	if list == nil {
		list = []Alarm{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("alarm: encode list: %w", err)
	}
	if err := s.backend.Write(Slot, data); err != nil {
		return fmt.Errorf("alarm: persist list: %w", err)
	}
	return nil
}

// Add appends a new enabled alarm. The in-memory list keeps the alarm even if
// persisting fails; the error is returned for the caller to report.
func (s *Store) Add(at ClockTime, label string) (Alarm, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = s.defaultLabel
	}
	a := Alarm{ID: newID(), Time: at, Enabled: true, Label: label}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh()
	s.alarms = append(s.alarms, a)
	return a, s.persist()
}

// Toggle flips the enabled flag. An unknown id is a no-op reporting false.
func (s *Store) Toggle(id string) (Alarm, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh()
	for i := range s.alarms {
		if s.alarms[i].ID != id {
			continue
		}
		s.alarms[i].Enabled = !s.alarms[i].Enabled
		return s.alarms[i], true, s.persist()
	}
	return Alarm{}, false, nil
}

// Remove deletes the alarm. An unknown id is a no-op reporting false.
func (s *Store) Remove(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh()
	for i := range s.alarms {
		if s.alarms[i].ID != id {
			continue
		}
		s.alarms = append(s.alarms[:i:i], s.alarms[i+1:]...)
		return true, s.persist()
	}
	return false, nil
}

// List returns a copy in insertion order.
func (s *Store) List() []Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Alarm, len(s.alarms))
	copy(out, s.alarms)
	return out
}

// Get finds an alarm by id or unique id prefix.
func (s *Store) Get(id string) (Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found []Alarm
	for _, a := range s.alarms {
		if a.ID == id {
			return a, nil
		}
		if id != "" && strings.HasPrefix(a.ID, id) {
			found = append(found, a)
		}
	}
	switch len(found) {
	case 0:
		return Alarm{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return found[0], nil
	default:
		return Alarm{}, fmt.Errorf("alarm: id prefix %q is ambiguous (%d matches)", id, len(found))
	}
}

// Reload replaces the in-memory list with the persisted one. Used when the
// slot is changed by another process.
func (s *Store) Reload() []Alarm {
	loaded, _ := s.load()
	s.mu.Lock()
	s.alarms = loaded
	s.mu.Unlock()
	return s.List()
}

// Next returns the enabled alarm that rings soonest after now and how long
// until it does.
func (s *Store) Next(now time.Time) (Alarm, time.Duration, bool) {
	return Next(now, s.List())
}

// Next is the list form of Store.Next. Ties go to the earlier list entry.
func Next(now time.Time, alarms []Alarm) (Alarm, time.Duration, bool) {
	var (
		best  Alarm
		until time.Duration
		found bool
	)
	for _, a := range alarms {
		if !a.Enabled {
			continue
		}
		d := a.NextAfter(now).Sub(now)
		if !found || d < until {
			best, until, found = a, d, true
		}
	}
	return best, until, found
}
