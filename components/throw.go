package components

import "gonum.org/v1/gonum/spatial/r3"

// ThrowRequest is the input-agnostic description of a throw.
type ThrowRequest struct {
	Origin    r3.Vec
	Direction r3.Vec // unit length
	Force     float64
	Payload   *CreatureSnapshot
}

// Velocity returns the initial velocity, direction scaled by force.
func (r ThrowRequest) Velocity() r3.Vec {
	return r3.Scale(r.Force, r.Direction)
}
