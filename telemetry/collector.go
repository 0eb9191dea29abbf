package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32

	counts      [len(eventNames)]int
	captureThr  int
	combatThr   int
	firstBounce int
	catchRates  []float64
	flightTimes []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record counts one event.
func (c *Collector) Record(ev Event) {
	if int(ev.Type) >= len(c.counts) {
		return
	}
	c.counts[ev.Type]++
	switch ev.Type {
	case EventThrow:
		if ev.Capture {
			c.captureThr++
		} else {
			c.combatThr++
		}
	case EventBounce:
		if ev.First {
			c.firstBounce++
		}
	case EventHit, EventExpire:
		c.flightTimes = append(c.flightTimes, ev.Amount)
	case EventCaptureAttempt:
		c.catchRates = append(c.catchRates, ev.Amount)
	}
}

// Count returns how many events of type t the current window has seen.
func (c *Collector) Count(t EventType) int {
	if int(t) >= len(c.counts) {
		return 0
	}
	return c.counts[t]
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// WorldState is the state sampled at window end.
type WorldState struct {
	Wild         int
	Projectiles  int
	CompanionOut bool
	TeamSize     int
	Stored       int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, state WorldState) WindowStats {
	attempts := c.counts[EventCaptureAttempt]
	successes := c.counts[EventCaptureSuccess]
	var successRate float64
	if attempts > 0 {
		successRate = float64(successes) / float64(attempts)
	}

	rateMean, rateStd := MeanStd(c.catchRates)
	flightMean, flightStd := MeanStd(c.flightTimes)

	companion := 0
	if state.CompanionOut {
		companion = 1
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Wild:         state.Wild,
		Projectiles:  state.Projectiles,
		CompanionOut: companion,
		TeamSize:     state.TeamSize,
		Stored:       state.Stored,

		Throws:        c.counts[EventThrow],
		CaptureThrows: c.captureThr,
		CombatThrows:  c.combatThr,
		Drops:         c.counts[EventDrop],
		Hits:          c.counts[EventHit],
		Bounces:       c.counts[EventBounce],
		FirstBounces:  c.firstBounce,
		Expired:       c.counts[EventExpire],

		Materialized: c.counts[EventMaterialize],
		CombatStarts: c.counts[EventCombatStart],
		Recalls:      c.counts[EventRecall],

		CaptureAttempts:    attempts,
		Captures:           successes,
		CaptureFails:       c.counts[EventCaptureFail],
		CaptureSuccessRate: successRate,
		CatchRateMean:      rateMean,
		CatchRateStd:       rateStd,

		FlightTimeMean: flightMean,
		FlightTimeStd:  flightStd,
		FlightTimeP50:  Percentile(c.flightTimes, 0.5),
	}

	c.windowStartTick = currentTick
	c.counts = [len(eventNames)]int{}
	c.captureThr = 0
	c.combatThr = 0
	c.firstBounce = 0
	c.catchRates = c.catchRates[:0]
	c.flightTimes = c.flightTimes[:0]

	return stats
}

// WindowDurationSec returns the window duration in seconds.
func (c *Collector) WindowDurationSec() float64 {
	return c.windowDurationSec
}
