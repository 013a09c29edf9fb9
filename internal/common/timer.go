// Package common holds the timing and memory measurements shared by batch
// rendering and the bench command.
package common

import "time"

// Timer measures elapsed wall time. Stop freezes the reading; later calls to
// Stop or Elapsed return the frozen value.
type Timer struct {
	now     func() time.Time
	start   time.Time
	elapsed time.Duration
	stopped bool
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return newTimer(time.Now)
}

func newTimer(now func() time.Time) *Timer {
	return &Timer{now: now, start: now()}
}

// Elapsed returns the time since start, or the frozen value once stopped.
func (t *Timer) Elapsed() time.Duration {
	if t.stopped {
		return t.elapsed
	}
	return t.now().Sub(t.start)
}

// Stop freezes the timer and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	if !t.stopped {
		t.elapsed = t.now().Sub(t.start)
		t.stopped = true
	}
	return t.elapsed
}
