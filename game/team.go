package game

import (
	"github.com/pthm-cable/throwcore/components"
	"github.com/pthm-cable/throwcore/species"
	"github.com/pthm-cable/throwcore/store"
)

// TeamMember is one roster entry. Out is set while the creature is thrown or
// out as a companion.
type TeamMember struct {
	components.CreatureSnapshot
	Out bool
}

// Team is the player's roster and current selection.
type Team struct {
	members  []TeamMember
	selected int
}

// NewTeam creates a roster.
func NewTeam(members ...components.CreatureSnapshot) *Team {
	t := &Team{}
	t.Sync(members)
	return t
}

// SnapshotsFromStore converts saved team members into throwable snapshots.
func SnapshotsFromStore(team []store.Creature, catalog *species.Catalog) []components.CreatureSnapshot {
	out := make([]components.CreatureSnapshot, 0, len(team))
	for _, c := range team {
		out = append(out, components.CreatureSnapshot{
			TeamSlot:   c.Slot,
			InstanceID: c.ID,
			SpeciesID:  c.SpeciesID,
			Name:       catalog.Name(c.SpeciesID),
			Level:      c.Level,
			HP:         c.HP,
			MaxHP:      c.MaxHP,
		})
	}
	return out
}

// Sync replaces the roster, keeping Out flags of members still present.
func (t *Team) Sync(snaps []components.CreatureSnapshot) {
	out := make(map[string]bool)
	for _, m := range t.members {
		if m.Out {
			out[m.InstanceID] = true
		}
	}
	t.members = t.members[:0]
	for _, s := range snaps {
		t.members = append(t.members, TeamMember{CreatureSnapshot: s, Out: out[s.InstanceID]})
	}
	if t.selected >= len(t.members) {
		t.selected = 0
	}
}

// Len returns the roster size.
func (t *Team) Len() int {
	return len(t.members)
}

// Members returns a copy of the roster.
func (t *Team) Members() []TeamMember {
	return append([]TeamMember(nil), t.members...)
}

// SelectedIndex returns the selected roster index.
func (t *Team) SelectedIndex() int {
	return t.selected
}

// Select picks roster index i.
func (t *Team) Select(i int) bool {
	if i < 0 || i >= len(t.members) {
		return false
	}
	t.selected = i
	return true
}

// Next cycles the selection.
func (t *Team) Next() {
	if len(t.members) > 0 {
		t.selected = (t.selected + 1) % len(t.members)
	}
}

// Selected implements input.TeamSelector. A member already out is not
// available.
func (t *Team) Selected() (components.CreatureSnapshot, bool) {
	if t.selected >= len(t.members) {
		return components.CreatureSnapshot{}, false
	}
	m := t.members[t.selected]
	if m.Out {
		return components.CreatureSnapshot{}, false
	}
	return m.CreatureSnapshot, true
}

func (t *Team) mark(slot int, out bool) {
	for i := range t.members {
		if t.members[i].TeamSlot == slot {
			t.members[i].Out = out
			return
		}
	}
}

// MarkOut implements input.TeamSelector.
func (t *Team) MarkOut(slot int) { t.mark(slot, true) }

// MarkIn implements input.TeamSelector.
func (t *Team) MarkIn(slot int) { t.mark(slot, false) }

// SetOut replaces every Out flag: members whose slot is in out are out.
func (t *Team) SetOut(out map[int]bool) {
	for i := range t.members {
		t.members[i].Out = out[t.members[i].TeamSlot]
	}
}
