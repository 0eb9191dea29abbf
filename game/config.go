package game

import (
	"log/slog"

	"github.com/pthm-cable/throwcore/config"
	"github.com/pthm-cable/throwcore/encounter"
	"github.com/pthm-cable/throwcore/telemetry"
)

// Options configures a Game.
type Options struct {
	Config         *config.Config // nil uses config.Cfg()
	Seed           int64          // 0 keeps world.seed
	LogStats       bool
	StatsWindowSec float64 // 0 uses telemetry.stats_window
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	Autopilot      bool

	// Delegate, when set, receives captures instead of the local save.
	Delegate encounter.DelegatePath

	Logger        *slog.Logger
	StatsCallback func(telemetry.WindowStats)
}
