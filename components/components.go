// Package components defines ECS components and the shared creature data
// carried through a throw.
package components

import (
	"time"

	"github.com/google/uuid"
)

// Flight holds the per-projectile flight bookkeeping.
//
// Resolved is set on the first ground contact (or on a creature hit) and
// guards the one-shot side effects: a projectile materializes its payload at
// most once no matter how many times it bounces.
type Flight struct {
	ID          uuid.UUID
	Elapsed     time.Duration
	MaxLifetime time.Duration
	Radius      float64
	Resolved    bool
	Bounces     int
	Payload     *CreatureSnapshot // nil means capture device
}

// Expired reports whether the flight outlived its lifetime.
func (f *Flight) Expired() bool {
	return f.Elapsed > f.MaxLifetime
}

// IsCapture reports whether this projectile is an empty capture device.
func (f *Flight) IsCapture() bool {
	return f.Payload == nil
}
