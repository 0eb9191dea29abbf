package components

import "gonum.org/v1/gonum/spatial/r3"

// CreatureSnapshot is an immutable copy of a team member taken at throw time.
// Later changes to the team do not reach a projectile already in flight.
type CreatureSnapshot struct {
	TeamSlot   int
	InstanceID string
	SpeciesID  int
	Name       string
	Level      int
	HP         int
	MaxHP      int
}

// Snapshot returns a detached copy.
func (c CreatureSnapshot) Snapshot() *CreatureSnapshot {
	return &c
}

// WildCreature is a creature living in the scene that can be fought or captured.
type WildCreature struct {
	ID        string
	SpeciesID int
	Species   string
	Level     int
	HP        int
	MaxHP     int
	InCombat  bool
	Position  r3.Vec  // feet position
	Extent    r3.Vec  // bounding box size
	HopOffset float64 // presentation only, never read by collision
}

// Bounds returns the creature's axis-aligned bounding box.
func (w *WildCreature) Bounds() r3.Box {
	half := r3.Vec{X: w.Extent.X / 2, Z: w.Extent.Z / 2}
	return r3.Box{
		Min: r3.Sub(w.Position, half),
		Max: r3.Add(w.Position, r3.Vec{X: half.X, Y: w.Extent.Y, Z: half.Z}),
	}
}

// Center returns the middle of the bounding box.
func (w *WildCreature) Center() r3.Vec {
	return r3.Add(w.Position, r3.Vec{Y: w.Extent.Y / 2})
}

// HPRatio returns hp/maxHP clamped to [0,1]. A creature without max hp counts as full.
func (w *WildCreature) HPRatio() float64 {
	if w.MaxHP <= 0 {
		return 1
	}
	r := float64(w.HP) / float64(w.MaxHP)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
