// Package sim holds the simulation core: the agent batch, the per-frame
// kernel parameter records, the agent and reaction-diffusion kernels, and
// the frame orchestrator that sequences them.
package sim

import (
	"github.com/vireolab/vireo/compute"
	"github.com/vireolab/vireo/config"
)

// RDParams is the constant record consumed by the reaction-diffusion kernel.
// HScale must be the same value the agent pass used when producing the
// occupancy counts; both records are derived from one config so the
// producer and consumer cannot drift apart within a process.
type RDParams struct {
	DR      float32
	DW      float32
	SigmaR  float32
	AlphaH  float32
	BetaH   float32
	LambdaR float32
	LambdaW float32
	DT      float32
	Width   int
	Height  int
	HScale  float32
}

// BindingKind implements compute.Resource.
func (*RDParams) BindingKind() compute.SlotKind { return compute.UniformBuffer }

// RDParamsFromConfig derives the RD kernel record.
func RDParamsFromConfig(cfg *config.Config) RDParams {
	return RDParams{
		DR:      float32(cfg.Field.DR),
		DW:      float32(cfg.Field.DW),
		SigmaR:  float32(cfg.Field.SigmaR),
		AlphaH:  float32(cfg.Field.AlphaH),
		BetaH:   float32(cfg.Field.BetaH),
		LambdaR: float32(cfg.Field.LambdaR),
		LambdaW: float32(cfg.Field.LambdaW),
		DT:      cfg.Derived.DT32,
		Width:   cfg.World.Width,
		Height:  cfg.World.Height,
		HScale:  float32(cfg.Field.HScale),
	}
}

// AgentParams is the constant record consumed by the agent kernel.
type AgentParams struct {
	ChiR          float32
	ChiW          float32
	Kappa         float32
	Gamma         float32
	VMax          float32
	Eps0          float32
	EtaR          float32
	EMax          float32
	DT            float32
	WorldW        float32
	WorldH        float32
	BounceDamping float32
}

// BindingKind implements compute.Resource.
func (*AgentParams) BindingKind() compute.SlotKind { return compute.UniformBuffer }

// AgentParamsFromConfig derives the agent kernel record.
func AgentParamsFromConfig(cfg *config.Config) AgentParams {
	return AgentParams{
		ChiR:          float32(cfg.Chemotaxis.ChiR),
		ChiW:          float32(cfg.Chemotaxis.ChiW),
		Kappa:         float32(cfg.Chemotaxis.Kappa),
		Gamma:         float32(cfg.Chemotaxis.Gamma),
		VMax:          float32(cfg.Chemotaxis.VMax),
		Eps0:          float32(cfg.Chemotaxis.Eps0),
		EtaR:          float32(cfg.Chemotaxis.EtaR),
		EMax:          float32(cfg.Agents.MaxEnergy),
		DT:            cfg.Derived.DT32,
		WorldW:        cfg.Derived.WorldW32,
		WorldH:        cfg.Derived.WorldH32,
		BounceDamping: float32(cfg.Chemotaxis.BounceDamping),
	}
}
