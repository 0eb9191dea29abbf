// Package camera provides a first-person camera for aiming throws.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const maxPitch = math.Pi/2 - 0.01

// Camera is a first-person view. Position is the player's feet; the eye sits
// EyeHeight above it.
type Camera struct {
	Position  r3.Vec
	Yaw       float64 // radians, 0 looks along +Z
	Pitch     float64 // radians, positive looks up
	EyeHeight float64
}

// New creates a camera at pos looking along +Z.
func New(pos r3.Vec, eyeHeight float64) *Camera {
	return &Camera{Position: pos, EyeHeight: eyeHeight}
}

// Eye returns the eye position.
func (c *Camera) Eye() r3.Vec {
	return r3.Add(c.Position, r3.Vec{Y: c.EyeHeight})
}

// Forward returns the unit view direction.
func (c *Camera) Forward() r3.Vec {
	cp := math.Cos(c.Pitch)
	return r3.Vec{
		X: math.Sin(c.Yaw) * cp,
		Y: math.Sin(c.Pitch),
		Z: math.Cos(c.Yaw) * cp,
	}
}

// FlatForward returns the view direction projected on the ground plane.
func (c *Camera) FlatForward() r3.Vec {
	return r3.Vec{X: math.Sin(c.Yaw), Z: math.Cos(c.Yaw)}
}

// Right returns the unit vector to the right of the flat view direction
// (right-handed, Y up).
func (c *Camera) Right() r3.Vec {
	return r3.Vec{X: -math.Cos(c.Yaw), Z: math.Sin(c.Yaw)}
}

// Rotate turns the view by the given deltas. Pitch is clamped short of
// straight up and down.
func (c *Camera) Rotate(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = math.Max(-maxPitch, math.Min(maxPitch, c.Pitch+dPitch))
}

// LookAt points the camera from the eye toward target.
func (c *Camera) LookAt(target r3.Vec) {
	d := r3.Sub(target, c.Eye())
	if r3.Norm(d) == 0 {
		return
	}
	c.Yaw = math.Atan2(d.X, d.Z)
	c.Pitch = math.Max(-maxPitch, math.Min(maxPitch, math.Atan2(d.Y, math.Hypot(d.X, d.Z))))
}

// Move walks the feet position along the flat forward and right axes.
func (c *Camera) Move(forward, right float64) {
	c.Position = r3.Add(c.Position, r3.Add(r3.Scale(forward, c.FlatForward()), r3.Scale(right, c.Right())))
}
