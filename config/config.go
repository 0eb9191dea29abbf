// Package config provides configuration loading and access for the throw simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Charge     ChargeConfig     `yaml:"charge"`
	Throw      ThrowConfig      `yaml:"throw"`
	Projectile ProjectileConfig `yaml:"projectile"`
	Bounce     BounceConfig     `yaml:"bounce"`
	Ground     GroundConfig     `yaml:"ground"`
	Collision  CollisionConfig  `yaml:"collision"`
	Capture    CaptureConfig    `yaml:"capture"`
	Companion  CompanionConfig  `yaml:"companion"`
	Hand       HandConfig       `yaml:"hand"`
	World      WorldConfig      `yaml:"world"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Log        LogConfig        `yaml:"log"`
	Save       SaveConfig       `yaml:"save"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds integrator parameters.
type PhysicsConfig struct {
	DT      float64 `yaml:"dt"`
	Gravity float64 `yaml:"gravity"` // vertical acceleration, negative is down
}

// ChargeConfig holds charge-to-force mapping parameters.
type ChargeConfig struct {
	MinForce    float64 `yaml:"min_force"`
	MaxForce    float64 `yaml:"max_force"`
	MaxChargeMs float64 `yaml:"max_charge_ms"`
	CooldownMs  float64 `yaml:"cooldown_ms"`
	HueScale    float64 `yaml:"hue_scale"` // indicator hue = normalized charge * this
}

// ThrowConfig holds throw origin and payload selection parameters.
type ThrowConfig struct {
	EyeHeight     float64 `yaml:"eye_height"`
	ForwardOffset float64 `yaml:"forward_offset"`
	SwapOnRecall  bool    `yaml:"swap_on_recall"` // throw the selected member right after an auto-recall
}

// ProjectileConfig holds projectile body parameters.
type ProjectileConfig struct {
	Radius        float64 `yaml:"radius"`
	MaxLifetimeMs float64 `yaml:"max_lifetime_ms"`
	SpinRange     float64 `yaml:"spin_range"`
}

// BounceConfig holds ground response parameters.
type BounceConfig struct {
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
	RestSpeed   float64 `yaml:"rest_speed"` // rebounds slower than this settle
}

// GroundConfig holds ground query parameters.
type GroundConfig struct {
	ProbeHeight    float64  `yaml:"probe_height"`
	RayLift        float64  `yaml:"ray_lift"`
	ContactEpsilon float64  `yaml:"contact_epsilon"`
	RayFar         float64  `yaml:"ray_far"`
	Tags           []string `yaml:"tags"`
	CacheCell      float64  `yaml:"cache_cell"`
	CacheMaxKeys   int      `yaml:"cache_max_keys"`
	CacheTTLSec    float64  `yaml:"cache_ttl_sec"`
}

// CollisionConfig holds creature hit test parameters.
type CollisionConfig struct {
	MinCreatureRadius float64 `yaml:"min_creature_radius"`
	HeightTolerance   float64 `yaml:"height_tolerance"`
}

// CaptureConfig holds the catch-rate model and capture feedback parameters.
type CaptureConfig struct {
	BaseRate      float64 `yaml:"base_rate"`
	HPWeight      float64 `yaml:"hp_weight"`
	HopHeight     float64 `yaml:"hop_height"`
	HopMs         float64 `yaml:"hop_ms"`
	NotifyDelayMs float64 `yaml:"notify_delay_ms"`
	TeamSize      int     `yaml:"team_size"`
}

// CompanionConfig holds companion spawn and follow parameters.
type CompanionConfig struct {
	FollowDistance      float64 `yaml:"follow_distance"`
	FollowSpeed         float64 `yaml:"follow_speed"`
	LightMs             float64 `yaml:"light_ms"`
	RecallMs            float64 `yaml:"recall_ms"`
	CombatSpawnDistance float64 `yaml:"combat_spawn_distance"`
}

// HandConfig holds hand-tracked throw parameters.
type HandConfig struct {
	Threshold     float64 `yaml:"threshold"` // minimum release speed for a throw
	Boost         float64 `yaml:"boost"`
	Samples       int     `yaml:"samples"`
	MinSampleDtMs float64 `yaml:"min_sample_dt_ms"`
}

// WorldConfig holds demo scene parameters.
type WorldConfig struct {
	Size       float64 `yaml:"size"`       // terrain edge length in world units
	Resolution int     `yaml:"resolution"` // grid cells per edge
	Amplitude  float64 `yaml:"amplitude"`
	NoiseScale float64 `yaml:"noise_scale"`
	Creatures  int     `yaml:"creatures"`
	Seed       int64   `yaml:"seed"`
}

// TelemetryConfig holds telemetry settings.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds of sim time per window
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"` // empty logs to stdout
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// SaveConfig holds local save settings.
type SaveConfig struct {
	DSN string `yaml:"dsn"`
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	DT           time.Duration
	DT32         float32
	Gravity      r3.Vec
	MaxCharge    time.Duration
	Cooldown     time.Duration
	MaxLifetime  time.Duration
	HopDuration  time.Duration
	NotifyDelay  time.Duration
	LightTime    time.Duration
	RecallTime   time.Duration
	MinSampleDt  time.Duration
	CacheTTL     time.Duration
	StatsWindowT time.Duration
}

var global *Config

// Init loads config from path (or defaults if empty) and sets it as the global config.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

func ms(v float64) time.Duration {
	return time.Duration(v * float64(time.Millisecond))
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT = time.Duration(c.Physics.DT * float64(time.Second))
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.Gravity = r3.Vec{Y: c.Physics.Gravity}
	c.Derived.MaxCharge = ms(c.Charge.MaxChargeMs)
	c.Derived.Cooldown = ms(c.Charge.CooldownMs)
	c.Derived.MaxLifetime = ms(c.Projectile.MaxLifetimeMs)
	c.Derived.HopDuration = ms(c.Capture.HopMs)
	c.Derived.NotifyDelay = ms(c.Capture.NotifyDelayMs)
	c.Derived.LightTime = ms(c.Companion.LightMs)
	c.Derived.RecallTime = ms(c.Companion.RecallMs)
	c.Derived.MinSampleDt = ms(c.Hand.MinSampleDtMs)
	c.Derived.CacheTTL = time.Duration(c.Ground.CacheTTLSec * float64(time.Second))
	c.Derived.StatsWindowT = time.Duration(c.Telemetry.StatsWindow * float64(time.Second))

	if c.Hand.Samples < 2 {
		c.Hand.Samples = 2
	}
	if c.Capture.TeamSize <= 0 {
		c.Capture.TeamSize = 6
	}
	if len(c.Ground.Tags) == 0 {
		c.Ground.Tags = []string{"ground", "floor", "terrain", "_sol"}
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
