package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/vireolab/vireo/config"
	"github.com/vireolab/vireo/field"
	"github.com/vireolab/vireo/sim"
	"github.com/vireolab/vireo/telemetry"
	"github.com/vireolab/vireo/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	outputDir := flag.String("out", "", "Output directory for CSV metrics, snapshots and config")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config, config 0 = time-based)")
	steps := flag.Int("steps", 0, "Headless run length in frames (0 = use config)")
	scenario := flag.String("scenario", "", "Debug scenario: reaction-only, diffusion-only, uptake-only, damping-only")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.World.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	if *steps > 0 {
		cfg.World.Steps = *steps
	}

	if *headless {
		if err := runHeadless(cfg, rngSeed, *scenario, *outputDir); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := viewer.Run(cfg, viewer.Options{Seed: rngSeed, Scenario: *scenario}); err != nil {
		slog.Error("viewer failed", "error", err)
		os.Exit(1)
	}
}

func runHeadless(cfg *config.Config, seed int64, scenario, outputDir string) error {
	world, err := sim.NewWorld(cfg, seed, scenario)
	if err != nil {
		return err
	}
	defer world.Close()
	orch := world.Orchestrator

	metrics, err := telemetry.NewMetricsWriter(outputDir)
	if err != nil {
		return err
	}
	defer metrics.Close()
	if err := metrics.WriteConfig(cfg); err != nil {
		return err
	}

	snapshots, err := telemetry.NewSnapshotWriter(outputDir,
		cfg.Telemetry.SnapshotSteps, cfg.Telemetry.SnapshotFinal)
	if err != nil {
		return err
	}

	collector := telemetry.NewCollector(cfg.Telemetry.CycleHistoryMinimum)
	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	orch.SetPhaseHook(perf.StartPhase)
	noiseSigma := float32(cfg.Noise.Sigma)

	slog.Info("starting headless simulation",
		"seed", seed,
		"steps", cfg.World.Steps,
		"grid", cfg.World.Width,
		"agents", cfg.Agents.Count,
		"scenario", scenario,
	)

	// The initial seeded state counts as step 0 for snapshot purposes.
	if snapshots.ShouldSnapshot(0, cfg.World.Steps) {
		if err := snapshots.WriteAll(0, orch.FieldFront(), orch.Occupancy(), orch.Agents()); err != nil {
			return err
		}
	}

	start := time.Now()
	for step := 1; step <= cfg.World.Steps; step++ {
		stepStart := time.Now()
		perf.StartStep()

		if noiseSigma > 0 {
			field.AddNoise(orch.FieldFront(), noiseSigma, seed+int64(step))
		}

		orch.Step()

		perf.StartPhase(telemetry.PhaseTelemetry)
		if cfg.Telemetry.MetricsInterval > 0 && step%cfg.Telemetry.MetricsInterval == 0 {
			row := collector.Collect(step,
				field.ComputeStats(orch.FieldFront()),
				orch.Agents().ComputeStats(),
				float64(time.Since(stepStart).Microseconds())/1000.0,
			)
			if err := metrics.WriteStep(row); err != nil {
				return err
			}

			if row.AliveCount == 0 {
				slog.Info("population extinct", "step", step)
				if snapshots != nil {
					if err := snapshots.WriteAll(step, orch.FieldFront(), orch.Occupancy(), orch.Agents()); err != nil {
						return err
					}
				}
				break
			}
		}

		if snapshots.ShouldSnapshot(step, cfg.World.Steps) {
			if err := snapshots.WriteAll(step, orch.FieldFront(), orch.Occupancy(), orch.Agents()); err != nil {
				return err
			}
		}

		if iv := cfg.Telemetry.InvariantInterval; iv > 0 && step%iv == 0 {
			if err := orch.CheckInvariants(); err != nil {
				return err
			}
		}
		perf.EndStep()
	}

	perf.Stats().LogStats()
	slog.Info("simulation complete",
		"frames", orch.Frame(),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
		"alive", orch.Agents().AliveCount(),
		"metrics_rows", metrics.Rows(),
	)
	return nil
}
