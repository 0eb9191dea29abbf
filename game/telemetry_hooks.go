package game

import (
	"github.com/pthm-cable/throwcore/encounter"
	"github.com/pthm-cable/throwcore/systems"
	"github.com/pthm-cable/throwcore/telemetry"
)

func (g *Game) record(ev telemetry.Event) {
	g.collector.Record(ev)
}

// onFlightEvent records projectile outcomes.
func (g *Game) onFlightEvent(ev systems.FlightEvent) {
	id := ev.ID.String()
	switch ev.Kind {
	case systems.FlightHit:
		g.record(telemetry.NewHitEvent(g.tick, id, ev.Capture, ev.Elapsed.Seconds()))
	case systems.FlightBounce:
		g.record(telemetry.NewBounceEvent(g.tick, id, ev.Capture, ev.First))
	case systems.FlightExpire:
		g.record(telemetry.NewExpireEvent(g.tick, id, ev.Capture, ev.Elapsed.Seconds()))
	}
	if ev.Kind != systems.FlightBounce || ev.First {
		g.reconcileTeam()
	}
}

// reconcileTeam marks out exactly the members that are in flight or out as
// the companion.
func (g *Game) reconcileTeam() {
	out := make(map[int]bool)
	if c := g.resolver.Companion(); c != nil {
		out[c.Creature.TeamSlot] = true
	}
	for _, v := range g.projectiles.Views() {
		if v.Payload != nil {
			out[v.Payload.TeamSlot] = true
		}
	}
	g.team.SetOut(out)
}

// onResolverEvent records encounter outcomes and keeps the roster current.
func (g *Game) onResolverEvent(ev encounter.Event) {
	switch ev.Kind {
	case encounter.EventMaterialize:
		g.record(telemetry.NewMaterializeEvent(g.tick, ev.Companion.Creature.Name))
	case encounter.EventCombatStart:
		g.record(telemetry.NewCombatStartEvent(g.tick, ev.Wild.Species))
	case encounter.EventRecall:
		g.record(telemetry.NewRecallEvent(g.tick, ev.Companion.Creature.Name))
	case encounter.EventCaptureSuccess, encounter.EventCaptureFail:
		attempt, outcome := telemetry.NewCaptureEvent(g.tick, ev.Wild.Species, ev.Capture.CatchRate, ev.Capture.Success)
		g.record(attempt)
		g.record(outcome)
		if !ev.Capture.Success {
			return
		}
		g.team.Sync(SnapshotsFromStore(g.save.Team(), g.catalog))
		if ev.Wild == g.combatWild {
			g.onCombatEnd("capture")
		}
	}
}

// flushTelemetry writes a stats window when one has elapsed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, telemetry.WorldState{
		Wild:         g.registry.Len(),
		Projectiles:  g.projectiles.Count(),
		CompanionOut: g.resolver.HasCompanion(),
		TeamSize:     len(g.save.Team()),
		Stored:       len(g.save.Storage()),
	})
	perfStats := g.perf.Stats()

	if g.opts.StatsCallback != nil {
		g.opts.StatsCallback(stats)
	}

	if g.opts.LogStats {
		stats.LogStats(g.logger)
		perfStats.LogStats(g.logger)
	}

	if err := g.output.WriteTelemetry(stats); err != nil {
		g.logger.Error("failed to write telemetry", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		g.logger.Error("failed to write perf", "error", err)
	}
}
