// Package store is the local save: the player's team and storage box in sqlite.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	goccy "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/pthm-cable/throwcore/species"
)

// Locations a creature can be in.
const (
	LocationNew     = "new"
	LocationTeam    = "team"
	LocationStorage = "storage"
)

// ErrUnknownInstance is returned for instance ids the store has never seen.
var ErrUnknownInstance = errors.New("unknown creature instance")

const schema = `
CREATE TABLE IF NOT EXISTS creatures (
	id         TEXT PRIMARY KEY,
	species_id INTEGER NOT NULL,
	level      INTEGER NOT NULL,
	hp         INTEGER NOT NULL,
	max_hp     INTEGER NOT NULL,
	location   TEXT NOT NULL,
	slot       INTEGER NOT NULL,
	caught_at  INTEGER NOT NULL
)`

const upsert = `
INSERT INTO creatures (id, species_id, level, hp, max_hp, location, slot, caught_at)
VALUES (:id, :species_id, :level, :hp, :max_hp, :location, :slot, :caught_at)
ON CONFLICT(id) DO UPDATE SET
	level = excluded.level,
	hp = excluded.hp,
	max_hp = excluded.max_hp,
	location = excluded.location,
	slot = excluded.slot`

// Creature is one owned creature.
type Creature struct {
	ID        string `db:"id" json:"id"`
	SpeciesID int    `db:"species_id" json:"species_id"`
	Level     int    `db:"level" json:"level"`
	HP        int    `db:"hp" json:"hp"`
	MaxHP     int    `db:"max_hp" json:"max_hp"`
	Location  string `db:"location" json:"location"`
	Slot      int    `db:"slot" json:"slot"`
	CaughtAt  int64  `db:"caught_at" json:"caught_at"` // unix millis
}

// Options configures Open.
type Options struct {
	DSN      string
	TeamSize int
	Catalog  *species.Catalog
	Logger   *slog.Logger
	Now      func() time.Time
}

// Store keeps the roster in memory and writes changes on Persist.
type Store struct {
	db       *sqlx.DB
	teamSize int
	catalog  *species.Catalog
	logger   *slog.Logger
	now      func() time.Time

	roster map[string]*Creature
	order  []string
	dirty  map[string]bool
}

// Open connects to dsn, creates the schema and loads the roster.
func Open(ctx context.Context, opts Options) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening save database: %w", err)
	}
	// one connection so in-memory databases are shared
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s := &Store{
		db:       db,
		teamSize: opts.TeamSize,
		catalog:  opts.Catalog,
		logger:   opts.Logger,
		now:      opts.Now,
		roster:   make(map[string]*Creature),
		dirty:    make(map[string]bool),
	}
	if s.teamSize <= 0 {
		s.teamSize = 6
	}
	if s.catalog == nil {
		s.catalog = species.Default()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}

	var rows []Creature
	if err := db.SelectContext(ctx, &rows, `SELECT * FROM creatures ORDER BY caught_at, id`); err != nil {
		db.Close()
		return nil, fmt.Errorf("loading roster: %w", err)
	}
	for i := range rows {
		c := rows[i]
		s.roster[c.ID] = &c
		s.order = append(s.order, c.ID)
	}
	s.logger.Info("save_loaded", "creatures", len(rows), "team", len(s.Team()))
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) maxHP(speciesID, level int) int {
	base := 40
	if sp, ok := s.catalog.Get(speciesID); ok && sp.BaseHP > 0 {
		base = sp.BaseHP
	}
	return base + 2*level
}

// CreateCreatureInstance adds a new creature that is not yet placed.
func (s *Store) CreateCreatureInstance(_ context.Context, speciesID, level int) (string, error) {
	if level < 1 {
		level = 1
	}
	hp := s.maxHP(speciesID, level)
	c := &Creature{
		ID:        uuid.NewString(),
		SpeciesID: speciesID,
		Level:     level,
		HP:        hp,
		MaxHP:     hp,
		Location:  LocationNew,
		Slot:      -1,
		CaughtAt:  s.now().UnixMilli(),
	}
	s.roster[c.ID] = c
	s.order = append(s.order, c.ID)
	s.dirty[c.ID] = true
	return c.ID, nil
}

// AddToTeam places a creature in the first free team slot. When the team is
// full it goes to storage and AddToTeam returns false.
func (s *Store) AddToTeam(_ context.Context, instanceID string) (bool, error) {
	c, ok := s.roster[instanceID]
	if !ok {
		return false, fmt.Errorf("adding %s: %w", instanceID, ErrUnknownInstance)
	}
	if c.Location == LocationTeam {
		return true, nil
	}
	slot, ok := s.freeSlot()
	if ok {
		c.Location = LocationTeam
		c.Slot = slot
	} else {
		c.Location = LocationStorage
		c.Slot = -1
	}
	s.dirty[c.ID] = true
	return ok, nil
}

func (s *Store) freeSlot() (int, bool) {
	used := make(map[int]bool, s.teamSize)
	for _, c := range s.roster {
		if c.Location == LocationTeam {
			used[c.Slot] = true
		}
	}
	for i := 0; i < s.teamSize; i++ {
		if !used[i] {
			return i, true
		}
	}
	return 0, false
}

// SetHP updates a creature's current hp, clamped to [0, max].
func (s *Store) SetHP(instanceID string, hp int) error {
	c, ok := s.roster[instanceID]
	if !ok {
		return fmt.Errorf("setting hp on %s: %w", instanceID, ErrUnknownInstance)
	}
	c.HP = max(0, min(hp, c.MaxHP))
	s.dirty[c.ID] = true
	return nil
}

// Persist writes every changed creature in one transaction.
func (s *Store) Persist(ctx context.Context) error {
	if len(s.dirty) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	for id := range s.dirty {
		if _, err := tx.NamedExecContext(ctx, upsert, s.roster[id]); err != nil {
			tx.Rollback()
			return fmt.Errorf("saving creature %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	s.logger.Debug("save_persisted", "creatures", len(s.dirty))
	s.dirty = make(map[string]bool)
	return nil
}

// Get returns a copy of a creature.
func (s *Store) Get(instanceID string) (Creature, bool) {
	c, ok := s.roster[instanceID]
	if !ok {
		return Creature{}, false
	}
	return *c, true
}

// Team returns team members ordered by slot.
func (s *Store) Team() []Creature {
	var team []Creature
	for _, id := range s.order {
		if c := s.roster[id]; c.Location == LocationTeam {
			team = append(team, *c)
		}
	}
	sort.Slice(team, func(i, j int) bool { return team[i].Slot < team[j].Slot })
	return team
}

// Storage returns stored creatures in capture order.
func (s *Store) Storage() []Creature {
	var box []Creature
	for _, id := range s.order {
		if c := s.roster[id]; c.Location == LocationStorage {
			box = append(box, *c)
		}
	}
	return box
}

// Snapshot is the exported save.
type Snapshot struct {
	Team    []Creature `json:"team"`
	Storage []Creature `json:"storage"`
}

// ExportJSON renders the save as indented JSON.
func (s *Store) ExportJSON() ([]byte, error) {
	b, err := goccy.MarshalIndent(Snapshot{Team: s.Team(), Storage: s.Storage()}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding save: %w", err)
	}
	return b, nil
}
