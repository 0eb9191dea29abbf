package systems

import (
	"time"

	"github.com/pthm-cable/throwcore/config"
	"github.com/pthm-cable/throwcore/fx"
)

// ChargeController turns a press-and-hold into a throw force.
// Times are simulation-clock durations.
type ChargeController struct {
	cfg       config.ChargeConfig
	maxCharge time.Duration
	cooldown  time.Duration
	presenter fx.Presenter

	charging    bool
	chargeStart time.Duration
	lastThrow   time.Duration
	hasThrown   bool
}

// NewChargeController creates a charge controller.
func NewChargeController(cfg *config.Config, presenter fx.Presenter) *ChargeController {
	if presenter == nil {
		presenter = fx.Nop{}
	}
	return &ChargeController{
		cfg:       cfg.Charge,
		maxCharge: cfg.Derived.MaxCharge,
		cooldown:  cfg.Derived.Cooldown,
		presenter: presenter,
	}
}

// Charging reports whether a charge is in progress.
func (c *ChargeController) Charging() bool {
	return c.charging
}

// CoolingDown reports whether a new charge would be rejected at now.
func (c *ChargeController) CoolingDown(now time.Duration) bool {
	return c.hasThrown && now-c.lastThrow < c.cooldown
}

// StartCharge begins charging. Ignored while charging or cooling down.
func (c *ChargeController) StartCharge(now time.Duration) bool {
	if c.charging || c.CoolingDown(now) {
		return false
	}
	c.charging = true
	c.chargeStart = now
	c.presenter.ShowChargeIndicator(0)
	return true
}

// Normalized returns charge progress in [0,1].
func (c *ChargeController) Normalized(now time.Duration) float64 {
	if !c.charging {
		return 0
	}
	return c.normalizedHold(now - c.chargeStart)
}

func (c *ChargeController) normalizedHold(hold time.Duration) float64 {
	if c.maxCharge <= 0 {
		return 1
	}
	n := float64(hold) / float64(c.maxCharge)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// ForceForHold maps a hold duration to throw force.
func (c *ChargeController) ForceForHold(hold time.Duration) float64 {
	return c.cfg.MinForce + (c.cfg.MaxForce-c.cfg.MinForce)*c.normalizedHold(hold)
}

// HoldForForce is the inverse of ForceForHold. Forces outside the charge
// range clamp to the nearest endpoint.
func (c *ChargeController) HoldForForce(force float64) time.Duration {
	span := c.cfg.MaxForce - c.cfg.MinForce
	if span <= 0 {
		return 0
	}
	n := (force - c.cfg.MinForce) / span
	if n < 0 {
		n = 0
	}
	if n > 1 {
		n = 1
	}
	return time.Duration(n * float64(c.maxCharge))
}

// Force returns the force a release at now would produce.
func (c *ChargeController) Force(now time.Duration) float64 {
	if !c.charging {
		return 0
	}
	return c.ForceForHold(now - c.chargeStart)
}

// IndicatorHue returns the indicator hue for the current charge.
func (c *ChargeController) IndicatorHue(now time.Duration) float64 {
	return c.Normalized(now) * c.cfg.HueScale
}

// Update refreshes the indicator while charging.
func (c *ChargeController) Update(now time.Duration) {
	if c.charging {
		c.presenter.ShowChargeIndicator(c.IndicatorHue(now))
	}
}

// Release ends the charge and returns the throw force.
func (c *ChargeController) Release(now time.Duration) (float64, bool) {
	if !c.charging {
		return 0, false
	}
	force := c.Force(now)
	c.charging = false
	c.lastThrow = now
	c.hasThrown = true
	c.presenter.HideChargeIndicator()
	return force, true
}

// Cancel aborts a charge without throwing or starting the cooldown.
func (c *ChargeController) Cancel() {
	if c.charging {
		c.charging = false
		c.presenter.HideChargeIndicator()
	}
}
