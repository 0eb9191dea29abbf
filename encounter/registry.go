package encounter

import "github.com/pthm-cable/throwcore/components"

// Registry is the ordered list of wild creatures in the scene.
type Registry struct {
	creatures []*components.WildCreature
}

// NewRegistry creates a registry holding creatures in order.
func NewRegistry(creatures ...*components.WildCreature) *Registry {
	return &Registry{creatures: append([]*components.WildCreature(nil), creatures...)}
}

// Add appends a creature.
func (r *Registry) Add(w *components.WildCreature) {
	r.creatures = append(r.creatures, w)
}

// Wild returns the creatures in registry order. The returned slice is a copy,
// so removals during iteration never shift it.
func (r *Registry) Wild() []*components.WildCreature {
	return append([]*components.WildCreature(nil), r.creatures...)
}

// Remove deletes w by reference, keeping the order of the rest.
func (r *Registry) Remove(w *components.WildCreature) bool {
	for i, c := range r.creatures {
		if c == w {
			r.creatures = append(r.creatures[:i], r.creatures[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the creature with id, or nil.
func (r *Registry) Find(id string) *components.WildCreature {
	for _, c := range r.creatures {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Len returns the number of creatures.
func (r *Registry) Len() int {
	return len(r.creatures)
}
