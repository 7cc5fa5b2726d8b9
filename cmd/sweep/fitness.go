package main

import (
	"math"
	"sync"

	"github.com/vireolab/vireo/config"
	"github.com/vireolab/vireo/field"
	"github.com/vireolab/vireo/sim"
)

// FitnessEvaluator runs short headless simulations and scores parameter
// vectors. Lower is better: the optimizer maximizes survival frames with
// a quality bonus for a healthy, bounded field.
type FitnessEvaluator struct {
	params     *ParamVector
	maxSteps   int
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxSteps int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxSteps:   maxSteps,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Evaluate runs the simulation once per seed and returns the mean fitness.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	clamped := fe.params.Clamp(raw)

	var total, totalQuality float64
	for _, seed := range fe.seeds {
		fitness, quality := fe.runOne(clamped, seed)
		total += fitness
		totalQuality += quality
	}

	fe.mu.Lock()
	fe.lastQuality = totalQuality / float64(len(fe.seeds))
	fe.mu.Unlock()

	return total / float64(len(fe.seeds))
}

// runOne runs one headless simulation and scores it. Fitness is
// -(survivalFrames * (1 + 0.2*quality)); quality in [0,1] rewards a
// large surviving population over a field that stayed in a sane range.
func (fe *FitnessEvaluator) runOne(raw []float64, seed int64) (fitness, quality float64) {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, raw)

	world, err := sim.NewWorld(&cfg, seed, "")
	if err != nil {
		return 0, 0
	}
	defer world.Close()
	orch := world.Orchestrator

	survival := 0
	for step := 1; step <= fe.maxSteps; step++ {
		orch.Step()
		survival = step

		if step%50 == 0 {
			if orch.Agents().AliveCount() == 0 {
				break
			}
			if i, _ := field.CheckFinite(orch.FieldFront()); i >= 0 {
				// Blown-up field: abort and score only frames survived.
				return -float64(survival), 0
			}
		}
	}

	alive := orch.Agents().AliveCount()
	aliveFrac := float64(alive) / float64(cfg.Agents.Count)

	fs := field.ComputeStats(orch.FieldFront())
	boundedness := 1.0
	if fs.MaxR > 10 {
		boundedness = math.Max(0, 1-float64(fs.MaxR-10)/100)
	}

	quality = 0.7*aliveFrac + 0.3*boundedness
	fitness = -float64(survival) * (1 + 0.2*quality)
	return fitness, quality
}
