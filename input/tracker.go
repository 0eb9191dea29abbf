package input

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

type sample struct {
	pos r3.Vec
	at  time.Duration
}

// VelocityTracker keeps the last few hand positions and derives a release
// velocity from the oldest and newest of them.
type VelocityTracker struct {
	samples []sample
	size    int
	minDt   time.Duration
}

// NewVelocityTracker keeps up to size samples (at least 2).
func NewVelocityTracker(size int, minDt time.Duration) *VelocityTracker {
	if size < 2 {
		size = 2
	}
	return &VelocityTracker{samples: make([]sample, 0, size), size: size, minDt: minDt}
}

// Add records a position at time at.
func (t *VelocityTracker) Add(pos r3.Vec, at time.Duration) {
	if len(t.samples) == t.size {
		copy(t.samples, t.samples[1:])
		t.samples = t.samples[:t.size-1]
	}
	t.samples = append(t.samples, sample{pos: pos, at: at})
}

// Reset drops all samples.
func (t *VelocityTracker) Reset() {
	t.samples = t.samples[:0]
}

// Len returns the number of samples held.
func (t *VelocityTracker) Len() int {
	return len(t.samples)
}

// Velocity returns (newest-oldest)/dt, or zero with fewer than two samples or
// when they span no more than the minimum interval.
func (t *VelocityTracker) Velocity() r3.Vec {
	if len(t.samples) < 2 {
		return r3.Vec{}
	}
	first, last := t.samples[0], t.samples[len(t.samples)-1]
	dt := last.at - first.at
	if dt <= t.minDt {
		return r3.Vec{}
	}
	return r3.Scale(1/dt.Seconds(), r3.Sub(last.pos, first.pos))
}
