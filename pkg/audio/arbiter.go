// Package audio owns the single audio output: the alarm ring loop and the
// assistant's spoken replies.
package audio

import (
	"log/slog"
	"sync"
)

// Ringer plays the alarm sound until stopped.
type Ringer interface {
	Start() error
	Stop()
}

// Speaker speaks reply text. speech.Synthesizer satisfies it.
type Speaker interface {
	Speak(text string) error
	Stop()
}

// Arbiter decides which sound may play. The alarm always wins: ringing cuts
// off speech and suppresses new speech until silenced.
type Arbiter struct {
	mu      sync.Mutex
	ringer  Ringer
	speaker Speaker
	ringing bool
}

// NewArbiter takes ownership of both outputs. Either may be nil.
func NewArbiter(ringer Ringer, speaker Speaker) *Arbiter {
	return &Arbiter{ringer: ringer, speaker: speaker}
}

// Ring stops any speech and starts the alarm loop.
func (a *Arbiter) Ring() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.speaker != nil {
		a.speaker.Stop()
	}
	if a.ringing {
		return
	}
	a.ringing = true
	if a.ringer == nil {
		return
	}
	if err := a.ringer.Start(); err != nil {
		slog.Warn("audio: ring failed", "error", err)
	}
}

// Silence stops the alarm loop.
func (a *Arbiter) Silence() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.ringing {
		return
	}
	a.ringing = false
	if a.ringer != nil {
		a.ringer.Stop()
	}
}

// Speak starts spoken playback of text. It reports false when speech is
// suppressed by a ringing alarm or no speaker exists.
func (a *Arbiter) Speak(text string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ringing || a.speaker == nil || text == "" {
		return false
	}
	if err := a.speaker.Speak(text); err != nil {
		slog.Warn("audio: speak failed", "error", err)
		return false
	}
	return true
}

// Hush stops speech in progress.
func (a *Arbiter) Hush() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.speaker != nil {
		a.speaker.Stop()
	}
}

// Speaking reports whether a reply is still being spoken. A speaker that
// cannot tell counts as silent.
func (a *Arbiter) Speaking() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.speaker.(interface{ Speaking() bool })
	return ok && s.Speaking()
}

// Ringing reports whether the alarm loop is active.
func (a *Arbiter) Ringing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ringing
}

// Close silences everything.
func (a *Arbiter) Close() {
	a.Silence()
	a.Hush()
}
