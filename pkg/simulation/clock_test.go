package simulation

import (
	"testing"
	"time"
)

func TestFixedStepper_Advance(t *testing.T) {
	f := NewFixedStepper(20*time.Millisecond, 5)

	steps := []struct {
		frame   time.Duration
		want    int
		pending time.Duration
	}{
		{50 * time.Millisecond, 2, 10 * time.Millisecond},
		{10 * time.Millisecond, 1, 0},
		{5 * time.Millisecond, 0, 5 * time.Millisecond},
		{0, 0, 5 * time.Millisecond},
		{-time.Second, 0, 5 * time.Millisecond},
		// a long stall is capped, the backlog is dropped
		{time.Second, 5, 5 * time.Millisecond},
	}
	for i, s := range steps {
		if got := f.Advance(s.frame); got != s.want {
			t.Errorf("step %d: Advance(%s) = %d; want %d", i, s.frame, got, s.want)
		}
		if f.Pending() != s.pending {
			t.Errorf("step %d: Pending = %s; want %s", i, f.Pending(), s.pending)
		}
	}
}

func TestFixedStepper_ZeroStep(t *testing.T) {
	f := NewFixedStepper(0, 5)
	if got := f.Advance(time.Second); got != 0 {
		t.Errorf("zero step must never fire, got %d", got)
	}
}
