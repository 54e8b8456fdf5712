// Package speech provides command-backed speech capture and synthesis. Either
// capability may be absent; callers receive a nil handle and show a fallback.
package speech

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"tableflip.dev/kiosk/pkg/config"
)

// ErrUnavailable is returned when a capability has no backing engine.
var ErrUnavailable = errors.New("speech: capability unavailable")

// ErrNoSpeech is returned when capture completes without a transcript.
var ErrNoSpeech = errors.New("speech: no speech recognized")

// Recognizer captures one utterance and returns its final transcript.
type Recognizer interface {
	Listen(ctx context.Context) (string, error)
}

// Synthesizer speaks text without blocking. Stop cuts off the current
// utterance.
type Synthesizer interface {
	Speak(text string) error
	Stop()
}

// Command is a resolved executable plus its arguments.
type Command struct {
	Path string
	Args []string
}

// ParseCommand splits a configured command line and resolves the program on
// PATH.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrUnavailable
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return Command{Path: path, Args: fields[1:]}, nil
}

// Capabilities resolves the configured engines. A nil return means that
// capability is not available on this host.
func Capabilities(cfg config.SpeechConfig) (Recognizer, Synthesizer) {
	var (
		rec Recognizer
		syn Synthesizer
	)
	if cmd, err := ParseCommand(cfg.Recognizer); err == nil {
		rec = &CommandRecognizer{Command: cmd}
	} else if cfg.Recognizer != "" {
		slog.Warn("speech: recognizer unavailable", "command", cfg.Recognizer, "error", err)
	}
	if cmd, err := ParseCommand(cfg.Synthesizer); err == nil {
		syn = &CommandSynthesizer{Command: cmd}
	} else if cfg.Synthesizer != "" {
		slog.Warn("speech: synthesizer unavailable", "command", cfg.Synthesizer, "error", err)
	}
	return rec, syn
}

// CommandRecognizer runs a program that records one utterance and prints the
// transcript on stdout. Only the last non-empty line is used, so engines that
// print interim results are tolerated.
type CommandRecognizer struct {
	Command Command
}

func (r *CommandRecognizer) Listen(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, r.Command.Path, r.Command.Args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("speech: recognizer: %w: %s", err, msg)
		}
		return "", fmt.Errorf("speech: recognizer: %w", err)
	}
	var last string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			last = line
		}
	}
	if last == "" {
		return "", ErrNoSpeech
	}
	return last, nil
}

// CommandSynthesizer pipes text to a program's stdin, one process per
// utterance.
type CommandSynthesizer struct {
	Command Command

	mu      sync.Mutex
	current *exec.Cmd
}

func (s *CommandSynthesizer) Speak(text string) error {
	s.Stop()
	cmd := exec.Command(s.Command.Path, s.Command.Args...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("speech: synthesizer: %w", err)
	}
	s.mu.Lock()
	s.current = cmd
	s.mu.Unlock()

	go func() {
		_ = cmd.Wait()
		s.mu.Lock()
		if s.current == cmd {
			s.current = nil
		}
		s.mu.Unlock()
	}()
	return nil
}

func (s *CommandSynthesizer) Stop() {
	s.mu.Lock()
	cmd := s.current
	s.current = nil
	s.mu.Unlock()
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}

// Speaking reports whether an utterance is in progress.
func (s *CommandSynthesizer) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}
