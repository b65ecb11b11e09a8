// Package main provides CMA-ES tuning of the rain and fog parameters.
package main

import (
	"fmt"

	"github.com/pthm-cable/rainglass/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Config key, e.g. "fog.regen_rate"
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Starting value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// DefaultKeys are the parameters that shape fog coverage and population.
var DefaultKeys = []string{
	"fog.regen_rate",
	"drops.spawn_chance",
	"drops.spawn_rate",
	"drops.max_count",
	"drops.mass_gain_rate",
	"drops.weight_loss_rate",
}

// NewParamVector builds a vector over keys, taking bounds from the live
// parameter table and starting values from base.
func NewParamVector(keys []string, base *config.Config) (*ParamVector, error) {
	pv := &ParamVector{}
	for _, key := range keys {
		p, ok := config.Lookup(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownParam, key)
		}
		pv.Specs = append(pv.Specs, ParamSpec{
			Name:    key,
			Min:     p.Min,
			Max:     p.Max,
			Default: p.Value(base),
		})
	}
	return pv, nil
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig writes parameter values into cfg through the parameter
// table, which also rounds integer parameters.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	for i, v := range pv.Clamp(values) {
		if err := cfg.Set(pv.Specs[i].Name, v); err != nil {
			return err
		}
	}
	return nil
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i], _ = cfg.Get(spec.Name)
	}
	return v
}
