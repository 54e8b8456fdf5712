package schedule

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestEverySecondFires(t *testing.T) {
	s := New(nil)
	var fired atomic.Int32
	done := make(chan struct{}, 1)
	if _, err := s.Every("tick", "* * * * * *", func() {
		if fired.Add(1) == 1 {
			done <- struct{}{}
		}
	}); err != nil {
		t.Fatalf("every: %v", err)
	}
	s.Start()
	defer s.Stop()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("task did not fire within 3s")
	}
}

func TestCancelRemovesTask(t *testing.T) {
	s := New(time.UTC)
	h, err := s.Every("refresh", Interval(30*time.Minute), func() {})
	if err != nil {
		t.Fatalf("every: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 task, got %d", s.Len())
	}
	h.Cancel()
	h.Cancel()
	if s.Len() != 0 {
		t.Fatalf("expected task removed, got %d", s.Len())
	}
}

func TestInvalidSpec(t *testing.T) {
	s := New(nil)
	if _, err := s.Every("bad", "every now and then", func() {}); err == nil {
		t.Fatalf("expected error for invalid spec")
	}
	// Five-field specs are rejected because seconds are required.
	if _, err := s.Every("five", "0 7 * * *", func() {}); err == nil {
		t.Fatalf("expected error for five-field spec")
	}
}

func TestStopBeforeStart(t *testing.T) {
	s := New(nil)
	select {
	case <-s.Stop().Done():
	default:
		t.Fatal("stop before start should return a done context")
	}
}

func TestInterval(t *testing.T) {
	if got := Interval(30 * time.Minute); got != "@every 30m0s" {
		t.Fatalf("unexpected interval spec %q", got)
	}
}
