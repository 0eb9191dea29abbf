package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// State at window end
	Wild         int `csv:"wild"`
	Projectiles  int `csv:"projectiles"`
	CompanionOut int `csv:"companion_out"`
	TeamSize     int `csv:"team"`
	Stored       int `csv:"stored"`

	// Flights
	Throws        int `csv:"throws"`
	CaptureThrows int `csv:"capture_throws"`
	CombatThrows  int `csv:"combat_throws"`
	Drops         int `csv:"drops"`
	Hits          int `csv:"hits"`
	Bounces       int `csv:"bounces"`
	FirstBounces  int `csv:"first_bounces"`
	Expired       int `csv:"expired"`

	// Encounters
	Materialized int `csv:"materialized"`
	CombatStarts int `csv:"combat_starts"`
	Recalls      int `csv:"recalls"`

	CaptureAttempts    int     `csv:"capture_attempts"`
	Captures           int     `csv:"captures"`
	CaptureFails       int     `csv:"capture_fails"`
	CaptureSuccessRate float64 `csv:"capture_success_rate"`
	CatchRateMean      float64 `csv:"catch_rate_mean"`
	CatchRateStd       float64 `csv:"catch_rate_std"`

	// Seconds from spawn to hit or expiry
	FlightTimeMean float64 `csv:"flight_time_mean"`
	FlightTimeStd  float64 `csv:"flight_time_std"`
	FlightTimeP50  float64 `csv:"flight_time_p50"`
}

// MeanStd returns the mean and sample standard deviation of values.
// Fewer than two values give a zero deviation.
func MeanStd(values []float64) (mean, std float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// Percentile returns the empirical p-quantile of values. Returns 0 if empty.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("wild", s.Wild),
		slog.Int("throws", s.Throws),
		slog.Int("hits", s.Hits),
		slog.Int("expired", s.Expired),
		slog.Int("capture_attempts", s.CaptureAttempts),
		slog.Int("captures", s.Captures),
		slog.Float64("catch_rate_mean", s.CatchRateMean),
		slog.Float64("flight_time_mean", s.FlightTimeMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"wild", s.Wild,
		"projectiles", s.Projectiles,
		"companion_out", s.CompanionOut,
		"team", s.TeamSize,
		"stored", s.Stored,
		"throws", s.Throws,
		"capture_throws", s.CaptureThrows,
		"combat_throws", s.CombatThrows,
		"drops", s.Drops,
		"hits", s.Hits,
		"bounces", s.Bounces,
		"expired", s.Expired,
		"materialized", s.Materialized,
		"combat_starts", s.CombatStarts,
		"recalls", s.Recalls,
		"capture_attempts", s.CaptureAttempts,
		"captures", s.Captures,
		"capture_fails", s.CaptureFails,
		"capture_success_rate", s.CaptureSuccessRate,
		"catch_rate_mean", s.CatchRateMean,
		"catch_rate_std", s.CatchRateStd,
		"flight_time_mean", s.FlightTimeMean,
		"flight_time_p50", s.FlightTimeP50,
	)
}
