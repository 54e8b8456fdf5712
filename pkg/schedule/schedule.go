// Package schedule runs independent repeating tasks on a seconds-resolution
// cron. Tasks are expected to do nothing but post a message to the owning
// event loop.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler owns the cron runner.
type Scheduler struct {
	cron    *cron.Cron
	mu      sync.Mutex
	started bool
}

// New creates a scheduler evaluating specs in loc (time.Local when nil).
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	logger := cronLogger{slog.Default()}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}
}

// Handle cancels one scheduled task.
type Handle struct {
	Name string
	id   cron.EntryID
	c    *cron.Cron
}

// Cancel removes the task. Cancelling twice is harmless.
func (h Handle) Cancel() {
	if h.c != nil {
		h.c.Remove(h.id)
	}
}

// Every registers fn under a six-field cron spec ("* * * * * *") or a
// descriptor such as "@every 30m".
func (s *Scheduler) Every(name, spec string, fn func()) (Handle, error) {
	id, err := s.cron.AddFunc(spec, fn)
	if err != nil {
		return Handle{}, fmt.Errorf("schedule: add %s (%q): %w", name, spec, err)
	}
	slog.Debug("schedule: task registered", "task", name, "spec", spec)
	return Handle{Name: name, id: id, c: s.cron}, nil
}

// Interval is the descriptor spec for a fixed period.
func Interval(d time.Duration) string {
	return "@every " + d.String()
}

// Start begins running tasks in the background.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		slog.Debug("schedule: starting", "tasks", s.Len())
		s.cron.Start()
		s.started = true
	}
}

// Stop halts scheduling. The returned context is done once running tasks
// have returned.
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	s.started = false
	return s.cron.Stop()
}

// Len reports the number of registered tasks.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// cronLogger routes cron's logr-style calls into slog.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
