// Package input turns player input into throw requests. Two front ends share
// the same projectile core: press-and-hold aiming and tracked-hand throwing.
package input

import (
	"log/slog"
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/throwcore/components"
	"github.com/pthm-cable/throwcore/config"
	"github.com/pthm-cable/throwcore/encounter"
	"github.com/pthm-cable/throwcore/systems"
)

// Launcher spawns projectiles.
type Launcher interface {
	Spawn(req components.ThrowRequest) ecs.Entity
}

// Aim is the player's view for press-and-hold throws.
type Aim interface {
	Eye() r3.Vec
	Forward() r3.Vec
}

// TeamSelector exposes the player's currently selected team member.
type TeamSelector interface {
	// Selected returns the selected member; ok is false when nothing is selected.
	Selected() (components.CreatureSnapshot, bool)
	MarkOut(slot int)
	MarkIn(slot int)
}

// CompanionSlot is the active companion holder.
type CompanionSlot interface {
	Companion() *encounter.Companion
	Recall() (components.CreatureSnapshot, bool)
}

// PressAdapter throws on release of a charged press.
type PressAdapter struct {
	cfg        config.ThrowConfig
	charge     *systems.ChargeController
	aim        Aim
	team       TeamSelector
	companions CompanionSlot
	launcher   Launcher
	logger     *slog.Logger
}

// NewPressAdapter creates a press-and-hold adapter.
func NewPressAdapter(cfg *config.Config, charge *systems.ChargeController, aim Aim, team TeamSelector,
	companions CompanionSlot, launcher Launcher, logger *slog.Logger) *PressAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PressAdapter{
		cfg:        cfg.Throw,
		charge:     charge,
		aim:        aim,
		team:       team,
		companions: companions,
		launcher:   launcher,
		logger:     logger,
	}
}

// Press starts charging.
func (a *PressAdapter) Press(now time.Duration) bool {
	return a.charge.StartCharge(now)
}

// Recall sends the active companion back to its team slot.
func (a *PressAdapter) Recall() bool {
	snap, ok := a.companions.Recall()
	if ok && a.team != nil {
		a.team.MarkIn(snap.TeamSlot)
	}
	return ok
}

// payload picks what the next throw carries. An idle companion is recalled
// first. A companion still out (in combat) means a capture throw, as does a
// throw that just recalled unless swap_on_recall is set. Otherwise the
// selected member goes out if it can fight.
func (a *PressAdapter) payload() *components.CreatureSnapshot {
	recalled := false
	if c := a.companions.Companion(); c != nil && !c.InCombat {
		recalled = a.Recall()
	}
	if a.companions.Companion() != nil {
		return nil
	}
	if recalled && !a.cfg.SwapOnRecall {
		return nil
	}
	if a.team == nil {
		return nil
	}
	snap, ok := a.team.Selected()
	if !ok || snap.HP <= 0 {
		return nil
	}
	a.team.MarkOut(snap.TeamSlot)
	return snap.Snapshot()
}

// Release throws with the charged force. It returns false when no charge was
// in progress.
func (a *PressAdapter) Release(now time.Duration) (components.ThrowRequest, bool) {
	force, ok := a.charge.Release(now)
	if !ok {
		return components.ThrowRequest{}, false
	}
	dir := r3.Unit(a.aim.Forward())
	req := components.ThrowRequest{
		Origin:    r3.Add(a.aim.Eye(), r3.Scale(a.cfg.ForwardOffset, dir)),
		Direction: dir,
		Force:     force,
		Payload:   a.payload(),
	}
	a.launcher.Spawn(req)

	kind := "capture"
	name := ""
	if req.Payload != nil {
		kind = "combat"
		name = req.Payload.Name
	}
	a.logger.Info("throw", "input", "press", "kind", kind, "creature", name, "force", force)
	return req, true
}
