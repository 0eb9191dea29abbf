package game

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/throwcore/components"
	"github.com/pthm-cable/throwcore/species"
)

const (
	// wild creatures keep this far from the player start
	minSpawnRadius = 8.0
	maxSpawnRadius = 25.0
	minWildLevel   = 2
	maxWildLevel   = 12
)

// spawnWildCreatures places n wild creatures on the terrain around the start.
func (g *Game) spawnWildCreatures(n int) {
	all := g.catalog.All()
	if len(all) == 0 {
		return
	}
	limit := math.Min(maxSpawnRadius, g.terrain.Half()-2)
	for i := 0; i < n; i++ {
		sp := all[g.rng.IntN(len(all))]
		angle := g.rng.Float64() * 2 * math.Pi
		dist := minSpawnRadius + g.rng.Float64()*math.Max(limit-minSpawnRadius, 0)
		pos := r3.Vec{X: math.Sin(angle) * dist, Z: math.Cos(angle) * dist}
		g.spawnWild(sp, pos)
	}
}

// spawnWild adds one creature of sp with its feet on the ground at pos.
func (g *Game) spawnWild(sp species.Species, pos r3.Vec) *components.WildCreature {
	pos.Y = g.ground.GroundHeight(pos)
	level := minWildLevel + g.rng.IntN(maxWildLevel-minWildLevel+1)
	hp := sp.BaseHP + 2*level
	g.nextWildID++
	w := &components.WildCreature{
		ID:        fmt.Sprintf("wild-%d", g.nextWildID),
		SpeciesID: sp.ID,
		Species:   sp.Name,
		Level:     level,
		HP:        hp,
		MaxHP:     hp,
		Position:  pos,
		Extent:    sp.Extent(),
	}
	g.registry.Add(w)
	g.logger.Debug("wild_spawned", "id", w.ID, "species", w.Species, "level", w.Level,
		"x", pos.X, "y", pos.Y, "z", pos.Z)
	return w
}

// respawnIfEmpty refills the world once every creature has been caught.
func (g *Game) respawnIfEmpty() {
	if g.registry.Len() > 0 || g.cfg.World.Creatures <= 0 {
		return
	}
	g.spawnWildCreatures(g.cfg.World.Creatures)
	g.logger.Info("wild_respawned", "count", g.registry.Len(), "tick", g.tick)
}

// seedTeam gives a new save its starter creature.
func (g *Game) seedTeam(ctx context.Context) error {
	if len(g.save.Team()) > 0 || len(g.save.Storage()) > 0 {
		return nil
	}
	starter, ok := g.catalog.Get(starterSpecies)
	if !ok {
		all := g.catalog.All()
		if len(all) == 0 {
			return nil
		}
		starter = all[0]
	}
	id, err := g.save.CreateCreatureInstance(ctx, starter.ID, starterLevel)
	if err != nil {
		return fmt.Errorf("creating starter: %w", err)
	}
	if _, err := g.save.AddToTeam(ctx, id); err != nil {
		return fmt.Errorf("adding starter to team: %w", err)
	}
	if err := g.save.Persist(ctx); err != nil {
		g.logger.Warn("save_persist_failed", "instance", id, "error", err)
	}
	g.logger.Info("starter_created", "species", starter.Name, "level", starterLevel)
	return nil
}

const (
	starterSpecies = 1
	starterLevel   = 5
)
