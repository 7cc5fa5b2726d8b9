package sim

import (
	"github.com/vireolab/vireo/compute"
	"github.com/vireolab/vireo/config"
	"github.com/vireolab/vireo/field"
)

// World bundles the orchestrator with the resources it runs on, built
// from one config and one seed.
type World struct {
	Queue        *compute.Queue
	Layouts      *compute.Layouts
	Orchestrator *Orchestrator

	cfg  *config.Config
	seed int64
}

// SeedParamsFromConfig converts the seeding section to field.SeedParams.
func SeedParamsFromConfig(cfg *config.Config) field.SeedParams {
	return field.SeedParams{
		CenterAmplitude: float32(cfg.Seeding.CenterAmplitude),
		CenterSigmaPct:  float32(cfg.Seeding.CenterSigmaPct),
		ClusterSigmaPct: float32(cfg.Seeding.ClusterSigmaPct),
		SourceSigmaPct:  float32(cfg.Seeding.SourceSigmaPct),
		RampAmplitude:   float32(cfg.Seeding.RampAmplitude),
		SimplexAmp:      float32(cfg.Seeding.SimplexAmp),
		SimplexScale:    float32(cfg.Seeding.SimplexScale),
	}
}

// SpawnParamsFromConfig converts the agents section to SpawnParams.
func SpawnParamsFromConfig(cfg *config.Config) SpawnParams {
	return SpawnParams{
		Count:         cfg.Agents.Count,
		WorldW:        cfg.Derived.WorldW32,
		WorldH:        cfg.Derived.WorldH32,
		Margin:        float32(cfg.Agents.SpawnMargin),
		InitialEnergy: float32(cfg.Agents.InitialEnergy),
	}
}

// NewWorld allocates every simulation resource from the config, seeds the
// field and agents deterministically, and wires the orchestrator. The
// scenario name may be empty.
func NewWorld(cfg *config.Config, seed int64, scenario string) (*World, error) {
	rdParams := RDParamsFromConfig(cfg)
	agentParams := AgentParamsFromConfig(cfg)
	if scenario != "" {
		if err := ApplyScenario(scenario, &rdParams, &agentParams); err != nil {
			return nil, err
		}
	}

	layouts := compute.NewLayouts()
	queue := compute.NewQueue()

	store := field.NewPingPong(cfg.World.Width, cfg.World.Height)
	occ := field.NewOccupancy(cfg.World.Width, cfg.World.Height)
	agents := NewAgentBuffer(SpawnParamsFromConfig(cfg), seed)

	field.SeedResources(store.Front(), seed, SeedParamsFromConfig(cfg))

	orch, err := NewOrchestrator(queue, layouts, store, occ, agents, &rdParams, &agentParams)
	if err != nil {
		queue.Close()
		return nil, err
	}

	return &World{
		Queue:        queue,
		Layouts:      layouts,
		Orchestrator: orch,
		cfg:          cfg,
		seed:         seed,
	}, nil
}

// Reseed reinitializes the field and the agent batch with a new seed,
// keeping allocations and bindings.
func (w *World) Reseed(seed int64) {
	w.seed = seed
	w.Orchestrator.FieldFront().Zero()
	w.Orchestrator.Store().Back().Zero()
	field.SeedResources(w.Orchestrator.FieldFront(), seed, SeedParamsFromConfig(w.cfg))
	w.Orchestrator.Agents().Reseed(SpawnParamsFromConfig(w.cfg), seed)
	w.Orchestrator.Occupancy().Clear()
}

// Resize reallocates the grid-shaped resources at new dimensions, then
// reseeds from the current seed. Agent positions are respawned because the
// world extent changed.
func (w *World) Resize(width, height int) error {
	if err := w.Orchestrator.Resize(width, height); err != nil {
		return err
	}
	w.cfg.World.Width = width
	w.cfg.World.Height = height
	w.cfg.Derived.WorldW32 = float32(width)
	w.cfg.Derived.WorldH32 = float32(height)
	w.Reseed(w.seed)
	return nil
}

// Seed returns the seed the world was last seeded with.
func (w *World) Seed() int64 { return w.seed }

// Close releases the dispatch queue workers.
func (w *World) Close() {
	w.Queue.Close()
}
