package config

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownParam is returned by Get and Set for keys not in the table.
var ErrUnknownParam = errors.New("unknown parameter")

// Param describes a live-tunable configuration value.
type Param struct {
	Key     string  // Dotted YAML path, e.g. "fog.regen_rate"
	Label   string  // Display label
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Step    float64 // Slider resolution (integers use 1)
	Restart bool    // Changing the value requires a new simulation

	get func(*Config) float64
	set func(*Config, float64)
}

// Value reads the parameter from cfg.
func (p Param) Value(cfg *Config) float64 {
	return p.get(cfg)
}

func floatParam(key, label string, min, max, step float64, field func(*Config) *float64) Param {
	return Param{
		Key: key, Label: label, Min: min, Max: max, Step: step,
		get: func(c *Config) float64 { return *field(c) },
		set: func(c *Config, v float64) { *field(c) = v },
	}
}

func intParam(key, label string, min, max float64, field func(*Config) *int) Param {
	return Param{
		Key: key, Label: label, Min: min, Max: max, Step: 1,
		get: func(c *Config) float64 { return float64(*field(c)) },
		set: func(c *Config, v float64) { *field(c) = int(math.Round(v)) },
	}
}

var params = []Param{
	floatParam("fog.opacity", "Fog opacity", 0, 1, 0.01, func(c *Config) *float64 { return &c.Fog.Opacity }),
	floatParam("fog.regen_rate", "Fog regen", 0, 0.01, 0.0001, func(c *Config) *float64 { return &c.Fog.RegenRate }),
	restart(floatParam("fog.cell_size", "Cell size", 1, 12, 1, func(c *Config) *float64 { return &c.Fog.CellSize })),
	floatParam("drops.opacity", "Drop opacity", 0, 1, 0.01, func(c *Config) *float64 { return &c.Drops.Opacity }),
	intParam("drops.spawn_rate", "Spawn batch", 0, 10, func(c *Config) *int { return &c.Drops.SpawnRate }),
	floatParam("drops.spawn_chance", "Spawn chance", 0, 1, 0.01, func(c *Config) *float64 { return &c.Drops.SpawnChance }),
	intParam("drops.max_count", "Max drops", 0, 500, func(c *Config) *int { return &c.Drops.MaxCount }),
	floatParam("drops.size_min", "Min size", 0.5, 10, 0.1, func(c *Config) *float64 { return &c.Drops.SizeMin }),
	floatParam("drops.size_max", "Max size", 0.5, 20, 0.1, func(c *Config) *float64 { return &c.Drops.SizeMax }),
	floatParam("drops.base_speed", "Base speed", 0, 1, 0.01, func(c *Config) *float64 { return &c.Drops.BaseSpeed }),
	floatParam("drops.weight_loss_rate", "Weight loss", 0, 0.01, 0.0001, func(c *Config) *float64 { return &c.Drops.WeightLossRate }),
	floatParam("drops.mass_gain_rate", "Mass gain", 0, 0.01, 0.00005, func(c *Config) *float64 { return &c.Drops.MassGainRate }),
	floatParam("drops.min_active_size", "Min active size", 0.1, 3, 0.05, func(c *Config) *float64 { return &c.Drops.MinActiveSize }),
	floatParam("drops.trail_fade_speed", "Trail fade", 0, 1, 0.01, func(c *Config) *float64 { return &c.Drops.TrailFadeSpeed }),
	floatParam("drops.collision_distance_factor", "Merge reach", 0.1, 3, 0.05, func(c *Config) *float64 { return &c.Drops.CollisionDistanceFactor }),
}

func restart(p Param) Param {
	p.Restart = true
	return p
}

// Params returns the live parameter table in display order.
func Params() []Param {
	out := make([]Param, len(params))
	copy(out, params)
	return out
}

// Lookup finds a parameter by key.
func Lookup(key string) (Param, bool) {
	for _, p := range params {
		if p.Key == key {
			return p, true
		}
	}
	return Param{}, false
}

// Get returns the current value of a parameter.
func (c *Config) Get(key string) (float64, error) {
	p, ok := Lookup(key)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParam, key)
	}
	return p.get(c), nil
}

// Set clamps v into the parameter's range and stores it. The size range is
// kept ordered: raising the minimum above the maximum drags the maximum along.
func (c *Config) Set(key string, v float64) error {
	p, ok := Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, key)
	}
	if math.IsNaN(v) {
		return fmt.Errorf("%w: %s is NaN", ErrInvalid, key)
	}
	p.set(c, math.Max(p.Min, math.Min(p.Max, v)))

	switch key {
	case "drops.size_min":
		if c.Drops.SizeMax < c.Drops.SizeMin {
			c.Drops.SizeMax = c.Drops.SizeMin
		}
	case "drops.size_max":
		if c.Drops.SizeMin > c.Drops.SizeMax {
			c.Drops.SizeMin = c.Drops.SizeMax
		}
	}
	c.computeDerived()
	return nil
}
