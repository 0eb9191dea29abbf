package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/throwcore/fx"
)

// hud is the game's presenter. It keeps presentation state for Draw and logs
// player-facing messages.
type hud struct {
	*fx.Recorder
	logger *slog.Logger
	now    func() time.Duration

	noteAt time.Duration
}

func newHUD(logger *slog.Logger, now func() time.Duration) *hud {
	return &hud{Recorder: fx.NewRecorder(), logger: logger, now: now}
}

func (h *hud) Notify(msg string) {
	h.Recorder.Notify(msg)
	h.noteAt = h.now()
	h.logger.Info("notify", "message", msg)
}

// note returns the latest message while it is younger than ttl.
func (h *hud) note(ttl time.Duration) string {
	if h.now()-h.noteAt > ttl {
		return ""
	}
	return h.LastNotification()
}
