package simulation

import "time"

// FixedStepper turns variable frame durations into a count of fixed-rate
// passes, the way a physics loop catches up after each rendered frame.
type FixedStepper struct {
	step     time.Duration
	maxSteps int
	acc      time.Duration
}

// NewFixedStepper creates a stepper emitting passes of length step, at most maxSteps per frame.
func NewFixedStepper(step time.Duration, maxSteps int) *FixedStepper {
	return &FixedStepper{step: step, maxSteps: max(maxSteps, 1)}
}

func (f *FixedStepper) Step() time.Duration {
	return f.step
}

// Advance accumulates frame and returns how many fixed passes are now due.
// When more than maxSteps are due the backlog is discarded instead of
// being replayed on later frames.
func (f *FixedStepper) Advance(frame time.Duration) int {
	if f.step <= 0 || frame <= 0 {
		return 0
	}
	f.acc += frame
	n := int(f.acc / f.step)
	if n > f.maxSteps {
		f.acc %= f.step
		return f.maxSteps
	}
	f.acc -= time.Duration(n) * f.step
	return n
}

// Pending is the accumulated time not yet consumed by a fixed pass.
func (f *FixedStepper) Pending() time.Duration {
	return f.acc
}
