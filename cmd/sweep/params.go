package main

import (
	"github.com/vireolab/vireo/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters: the
// field rates that govern resource supply and consumption, and the agent
// gains that govern how hard the population chases it.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "d_r", Min: 0.05, Max: 1.0, Default: 0.5},
			{Name: "sigma_r", Min: 0.0005, Max: 0.05, Default: 0.005},
			{Name: "alpha_h", Min: 0.01, Max: 0.5, Default: 0.1},
			{Name: "chi_r", Min: 1.0, Max: 20.0, Default: 8.0},
			{Name: "gamma", Min: 0.01, Max: 0.3, Default: 0.05},
		},
	}
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

// Clamp limits raw values to their configured bounds.
func (pv *ParamVector) Clamp(raw []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v := raw[i]
		if v < spec.Min {
			v = spec.Min
		}
		if v > spec.Max {
			v = spec.Max
		}
		clamped[i] = v
	}
	return clamped
}

// ApplyToConfig writes raw parameter values into a config.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, raw []float64) {
	for i, spec := range pv.Specs {
		switch spec.Name {
		case "d_r":
			cfg.Field.DR = raw[i]
		case "sigma_r":
			cfg.Field.SigmaR = raw[i]
		case "alpha_h":
			cfg.Field.AlphaH = raw[i]
		case "chi_r":
			cfg.Chemotaxis.ChiR = raw[i]
		case "gamma":
			cfg.Chemotaxis.Gamma = raw[i]
		}
	}
}
