// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Fog        FogConfig        `yaml:"fog"`
	Drops      DropsConfig      `yaml:"drops"`
	Droplet    DropletConfig    `yaml:"droplet"`
	Input      InputConfig      `yaml:"input"`
	Simulation SimulationConfig `yaml:"simulation"`
	Visual     VisualConfig     `yaml:"visual"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// HSV is a colour in hue (degrees), saturation and value.
type HSV struct {
	Hue        float64 `yaml:"hue"`
	Saturation float64 `yaml:"saturation"`
	Value      float64 `yaml:"value"`
}

// FogConfig holds fog field parameters.
type FogConfig struct {
	Opacity   float64 `yaml:"opacity"`    // Alpha of a fully fogged cell
	RegenRate float64 `yaml:"regen_rate"` // Clearance added to every cell per tick
	CellSize  float64 `yaml:"cell_size"`  // Surface units per fog cell (changing it needs a restart)
	Tint      HSV     `yaml:"tint"`
}

// DropsConfig holds droplet population and per-droplet physics parameters.
type DropsConfig struct {
	Opacity                 float64 `yaml:"opacity"`
	SpawnRate               int     `yaml:"spawn_rate"`   // Droplets per spawn batch
	SpawnChance             float64 `yaml:"spawn_chance"` // Per-tick probability of a batch
	MaxCount                int     `yaml:"max_count"`
	SizeMin                 float64 `yaml:"size_min"`
	SizeMax                 float64 `yaml:"size_max"`
	BaseSpeed               float64 `yaml:"base_speed"`
	WeightLossRate          float64 `yaml:"weight_loss_rate"` // Fraction of size lost per moving tick
	MassGainRate            float64 `yaml:"mass_gain_rate"`   // Size gained per tick per unit fog density
	MinActiveSize           float64 `yaml:"min_active_size"`
	TrailFadeSpeed          float64 `yaml:"trail_fade_speed"`
	CollisionDistanceFactor float64 `yaml:"collision_distance_factor"`
	Tint                    HSV     `yaml:"tint"`
}

// DropletConfig holds the constants of the droplet state machine.
type DropletConfig struct {
	MomentumThreshold  float64 `yaml:"momentum_threshold"`   // Moving droplets below this speed stop
	MoveThreshold      float64 `yaml:"move_threshold"`       // Stopped droplets above this size may restart
	MoveChancePerSize  float64 `yaml:"move_chance_per_size"` // Restart probability per unit of excess size
	MoveChanceMax      float64 `yaml:"move_chance_max"`
	MoveBurstPerSize   float64 `yaml:"move_burst_per_size"` // Restart speed per unit of excess size
	MomentumDecay      float64 `yaml:"momentum_decay"`
	StickFraction      float64 `yaml:"stick_fraction"` // Fraction of droplets that can get stuck
	StickChance        float64 `yaml:"stick_chance"`
	StuckMin           int     `yaml:"stuck_min"` // Ticks
	StuckMax           int     `yaml:"stuck_max"` // Ticks
	UnstickGrowChance  float64 `yaml:"unstick_grow_chance"`
	FadeOpacityDecay   float64 `yaml:"fade_opacity_decay"` // Opacity multiplier per fading tick
	OpacityEpsilon     float64 `yaml:"opacity_epsilon"`
	FadeTimeout        int     `yaml:"fade_timeout"` // Fading ticks before the trail drains every tick
	TrailBase          float64 `yaml:"trail_base"`
	TrailPerSize       float64 `yaml:"trail_per_size"`
	MaxSpeedBase       float64 `yaml:"max_speed_base"`
	MaxSpeedPerSize    float64 `yaml:"max_speed_per_size"`
	MomentumInterval   int     `yaml:"momentum_interval"`    // Minimum ticks between sideways nudges
	MomentumJitter     int     `yaml:"momentum_jitter"`      // Extra random ticks between nudges
	MomentumKick       float64 `yaml:"momentum_kick"`        // Max sideways nudge
	MomentumLimit      float64 `yaml:"momentum_limit"`       // Momentum above this is damped
	MomentumInitial    float64 `yaml:"momentum_initial"`     // Max sideways momentum at creation
	ClearRadiusPerSize float64 `yaml:"clear_radius_per_size"`
	ClearRadiusBase    float64 `yaml:"clear_radius_base"`
	ClearAmount        float64 `yaml:"clear_amount"`
	RestartMomentum    float64 `yaml:"restart_momentum"` // Max sideways kick when a stopped droplet restarts
	Gravity            float64 `yaml:"gravity"`          // Relative acceleration per unit mass per tick
	LossDrag           float64 `yaml:"loss_drag"`        // Speed lost per unit of relative size loss
	OpacityJitter      float64 `yaml:"opacity_jitter"`
	BaseSpeedJitter    float64 `yaml:"base_speed_jitter"`
	LossRateJitter     float64 `yaml:"loss_rate_jitter"`
	SpawnSpeedJitter   float64 `yaml:"spawn_speed_jitter"`
}

// InputConfig holds pointer interaction parameters.
type InputConfig struct {
	ClickCount       int     `yaml:"click_count"`
	ClickSpread      float64 `yaml:"click_spread"`
	ClickSizeMin     float64 `yaml:"click_size_min"`
	ClickSizeMax     float64 `yaml:"click_size_max"`
	ClickClearRadius float64 `yaml:"click_clear_radius"`
	ClickClearAmount float64 `yaml:"click_clear_amount"`
}

// SimulationConfig holds orchestrator parameters.
type SimulationConfig struct {
	TickIntervalMS float64 `yaml:"tick_interval_ms"` // Minimum wall time between ticks (0 = unthrottled)
	BucketSize     float64 `yaml:"bucket_size"`      // Spatial index bucket size in surface units
}

// VisualConfig holds optional rendering embellishments.
type VisualConfig struct {
	Refraction         bool `yaml:"refraction"`
	DynamicShape       bool `yaml:"dynamic_shape"`
	BackgroundFlourish bool `yaml:"background_flourish"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TickInterval time.Duration
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate rejects configurations the simulation cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalid, c.Screen.Width, c.Screen.Height)
	case !(c.Fog.CellSize > 0) || math.IsInf(c.Fog.CellSize, 0):
		return fmt.Errorf("%w: fog.cell_size must be positive, got %v", ErrInvalid, c.Fog.CellSize)
	case c.Fog.RegenRate < 0:
		return fmt.Errorf("%w: fog.regen_rate must not be negative", ErrInvalid)
	case c.Drops.SizeMin <= 0 || c.Drops.SizeMax < c.Drops.SizeMin:
		return fmt.Errorf("%w: drops size range [%v, %v]", ErrInvalid, c.Drops.SizeMin, c.Drops.SizeMax)
	case c.Drops.MaxCount < 0 || c.Drops.SpawnRate < 0:
		return fmt.Errorf("%w: drops.max_count and drops.spawn_rate must not be negative", ErrInvalid)
	case c.Drops.SpawnChance < 0 || c.Drops.SpawnChance > 1:
		return fmt.Errorf("%w: drops.spawn_chance must be in [0, 1]", ErrInvalid)
	case c.Drops.CollisionDistanceFactor <= 0:
		return fmt.Errorf("%w: drops.collision_distance_factor must be positive", ErrInvalid)
	case c.Droplet.StuckMax < c.Droplet.StuckMin || c.Droplet.StuckMin < 0:
		return fmt.Errorf("%w: droplet stuck range [%d, %d]", ErrInvalid, c.Droplet.StuckMin, c.Droplet.StuckMax)
	case !(c.Droplet.FadeOpacityDecay > 0 && c.Droplet.FadeOpacityDecay < 1):
		return fmt.Errorf("%w: droplet.fade_opacity_decay must be in (0, 1)", ErrInvalid)
	case !(c.Droplet.OpacityEpsilon > 0) || math.IsInf(c.Droplet.OpacityEpsilon, 0):
		// Opacity only decays geometrically, so fading never ends at zero.
		return fmt.Errorf("%w: droplet.opacity_epsilon must be positive, got %v", ErrInvalid, c.Droplet.OpacityEpsilon)
	case c.Droplet.FadeTimeout < 0:
		return fmt.Errorf("%w: droplet.fade_timeout must not be negative", ErrInvalid)
	case !nonNegative(c.Droplet.TrailBase) || !nonNegative(c.Droplet.TrailPerSize):
		return fmt.Errorf("%w: droplet trail bound must be finite and non-negative", ErrInvalid)
	case !nonNegative(c.Drops.TrailFadeSpeed):
		return fmt.Errorf("%w: drops.trail_fade_speed must be finite and non-negative", ErrInvalid)
	case c.Simulation.TickIntervalMS < 0:
		return fmt.Errorf("%w: simulation.tick_interval_ms must not be negative", ErrInvalid)
	case c.Simulation.BucketSize <= 0:
		return fmt.Errorf("%w: simulation.bucket_size must be positive", ErrInvalid)
	}
	return nil
}

// nonNegative reports whether v is finite and >= 0.
func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TickInterval = time.Duration(c.Simulation.TickIntervalMS * float64(time.Millisecond))
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
