package encounter

import (
	"context"
	"fmt"
	"log/slog"
)

//go:generate go tool mockgen -destination=./mocks/capture_mock.go -package=mocks . TeamStore,CombatStarter

// CaptureRecord identifies a captured creature.
type CaptureRecord struct {
	SpeciesID   int
	SpeciesName string
	Level       int
}

// CapturePath receives successful captures. Exactly one path is configured
// per resolver, so a capture is never counted twice.
type CapturePath interface {
	CompleteCapture(ctx context.Context, rec CaptureRecord) error
}

// DelegatePath hands captures to an external inventory owner.
type DelegatePath func(speciesID int, speciesName string, level int)

// CompleteCapture implements CapturePath.
func (f DelegatePath) CompleteCapture(_ context.Context, rec CaptureRecord) error {
	f(rec.SpeciesID, rec.SpeciesName, rec.Level)
	return nil
}

// TeamStore is the local save collaborator.
type TeamStore interface {
	CreateCreatureInstance(ctx context.Context, speciesID, level int) (string, error)
	// AddToTeam returns false when the team is full and the creature went to storage.
	AddToTeam(ctx context.Context, instanceID string) (bool, error)
	Persist(ctx context.Context) error
}

// Notifier shows a message to the player.
type Notifier interface {
	Notify(msg string)
}

// LocalSavePath writes captures straight into the local save.
type LocalSavePath struct {
	Store       TeamStore
	Notifier    Notifier
	OnCombatEnd func(reason string)
	Logger      *slog.Logger
}

// CompleteCapture implements CapturePath. A failed persist is logged, not
// returned: the creature is already in the roster and is saved next time.
func (p *LocalSavePath) CompleteCapture(ctx context.Context, rec CaptureRecord) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	id, err := p.Store.CreateCreatureInstance(ctx, rec.SpeciesID, rec.Level)
	if err != nil {
		return fmt.Errorf("creating creature instance: %w", err)
	}
	inTeam, err := p.Store.AddToTeam(ctx, id)
	if err != nil {
		return fmt.Errorf("adding creature to team: %w", err)
	}
	if err := p.Store.Persist(ctx); err != nil {
		logger.Warn("save_persist_failed", "instance", id, "error", err)
	}

	if p.Notifier != nil {
		if inTeam {
			p.Notifier.Notify(fmt.Sprintf("%s joined your team!", rec.SpeciesName))
		} else {
			p.Notifier.Notify(fmt.Sprintf("%s was sent to storage.", rec.SpeciesName))
		}
	}
	if p.OnCombatEnd != nil {
		p.OnCombatEnd("capture")
	}
	return nil
}
