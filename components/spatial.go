package components

import "gonum.org/v1/gonum/spatial/r3"

// Position represents a projectile's world position (center of the sphere).
type Position struct {
	r3.Vec
}

// Velocity represents a projectile's linear velocity in units per second.
type Velocity struct {
	r3.Vec
}

// Spin is cosmetic angular state. It never feeds back into the trajectory.
type Spin struct {
	Angular  r3.Vec // radians per second per axis
	Rotation r3.Vec // accumulated euler angles
}
