// Package viewer runs the interactive window: the simulation stepped in
// real time with the field, occupancy and agents drawn each frame and a
// small control panel for pausing, reseeding and switching overlays.
package viewer

import (
	"fmt"
	"log/slog"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/vireolab/vireo/config"
	"github.com/vireolab/vireo/field"
	"github.com/vireolab/vireo/renderer"
	"github.com/vireolab/vireo/sim"
	"github.com/vireolab/vireo/telemetry"
)

const panelWidth = 230

// Options configures a viewer session.
type Options struct {
	Seed     int64
	Scenario string
}

// Run opens the window and drives the simulation until the user closes it.
func Run(cfg *config.Config, opts Options) error {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Vireo")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	world, err := sim.NewWorld(cfg, opts.Seed, opts.Scenario)
	if err != nil {
		return err
	}
	defer world.Close()
	orch := world.Orchestrator

	fieldR := renderer.NewFieldRenderer(int32(cfg.Screen.Width), int32(cfg.Screen.Height))
	fieldR.Init(cfg.World.Width, cfg.World.Height)
	defer fieldR.Unload()

	agentR := renderer.NewAgentRenderer(
		int32(cfg.Screen.Width), int32(cfg.Screen.Height),
		cfg.Derived.WorldW32, cfg.Derived.WorldH32)

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	orch.SetPhaseHook(perf.StartPhase)
	collector := telemetry.NewCollector(cfg.Telemetry.CycleHistoryMinimum)

	overlay := renderer.OverlayResource
	paused := false
	showAgents := true
	showPanel := true
	maxEnergy := float32(cfg.Agents.MaxEnergy)
	noiseSigma := float32(cfg.Noise.Sigma)
	var lastStats telemetry.StepStats

	for !rl.WindowShouldClose() {
		// Input
		if rl.IsKeyPressed(rl.KeySpace) {
			paused = !paused
		}
		if rl.IsKeyPressed(rl.KeyOne) {
			overlay = renderer.OverlayResource
		}
		if rl.IsKeyPressed(rl.KeyTwo) {
			overlay = renderer.OverlayWaste
		}
		if rl.IsKeyPressed(rl.KeyThree) {
			overlay = renderer.OverlayOccupancy
		}
		if rl.IsKeyPressed(rl.KeyA) {
			showAgents = !showAgents
		}
		if rl.IsKeyPressed(rl.KeyTab) {
			showPanel = !showPanel
		}
		if rl.IsKeyPressed(rl.KeyN) {
			world.Reseed(time.Now().UnixNano())
			collector = telemetry.NewCollector(cfg.Telemetry.CycleHistoryMinimum)
		}
		if rl.IsKeyPressed(rl.KeyRightBracket) || rl.IsKeyPressed(rl.KeyLeftBracket) {
			w, h := cfg.World.Width, cfg.World.Height
			if rl.IsKeyPressed(rl.KeyRightBracket) && w < 1024 {
				w, h = w*2, h*2
			} else if rl.IsKeyPressed(rl.KeyLeftBracket) && w > 32 {
				w, h = w/2, h/2
			}
			if w != cfg.World.Width {
				if err := world.Resize(w, h); err != nil {
					slog.Error("resize failed", "error", err)
				} else {
					fieldR.Init(w, h)
					agentR.SetWorldSize(float32(w), float32(h))
					collector = telemetry.NewCollector(cfg.Telemetry.CycleHistoryMinimum)
				}
			}
		}

		if rl.IsWindowResized() {
			w := float32(rl.GetScreenWidth())
			h := float32(rl.GetScreenHeight())
			fieldR.Resize(w, h)
			agentR.Resize(w, h)
		}

		// Simulate
		if !paused {
			stepStart := time.Now()
			perf.StartStep()

			if noiseSigma > 0 {
				// Applied between frames so the next pass sees the
				// perturbed front buffer.
				field.AddNoise(orch.FieldFront(), noiseSigma,
					world.Seed()+int64(orch.Frame()))
			}

			orch.Step()

			perf.StartPhase(telemetry.PhaseTelemetry)
			lastStats = collector.Collect(
				int(orch.Frame()),
				field.ComputeStats(orch.FieldFront()),
				orch.Agents().ComputeStats(),
				float64(time.Since(stepStart).Microseconds())/1000.0,
			)
			perf.EndStep()

			if iv := cfg.Telemetry.InvariantInterval; iv > 0 && orch.Frame()%uint64(iv) == 0 {
				if err := orch.CheckInvariants(); err != nil {
					slog.Error("invariant violation", "error", err)
					paused = true
				}
			}
		}
		perf.RecordFrame()

		// Draw
		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		fieldR.Update(orch.RenderBindings(), orch.Occupancy(), overlay)
		fieldR.Draw()
		if showAgents {
			agentR.Draw(orch.Agents(), maxEnergy)
		}

		if showPanel {
			drawPanel(world, lastStats, perf.Stats(), overlay, paused, &noiseSigma)
		}

		rl.EndDrawing()
	}

	return nil
}

func drawPanel(world *sim.World, stats telemetry.StepStats, perf telemetry.PerfStats, overlay renderer.Overlay, paused bool, noiseSigma *float32) {
	orch := world.Orchestrator
	x := float32(10)
	y := float32(10)

	rl.DrawRectangle(int32(x)-5, int32(y)-5, panelWidth, 240, rl.Color{R: 0, G: 0, B: 0, A: 160})

	line := func(s string) {
		rl.DrawText(s, int32(x), int32(y), 16, rl.RayWhite)
		y += 20
	}

	state := "running"
	if paused {
		state = "paused"
	}
	line(fmt.Sprintf("frame %d (%s)", orch.Frame(), state))
	line(fmt.Sprintf("overlay: %s", overlay))
	line(fmt.Sprintf("alive: %d", stats.AliveCount))
	line(fmt.Sprintf("mean R: %.4f  mean W: %.4f", stats.MeanR, stats.MeanW))
	line(fmt.Sprintf("mean E: %.3f  forage: %.3f", stats.MeanEnergy, stats.ForagingEfficiency))
	line(fmt.Sprintf("cycle: %.3f", stats.CycleScore))
	line(fmt.Sprintf("step: %.2fms  fps: %.0f", float64(perf.AvgStepDuration.Microseconds())/1000.0, perf.FPS))

	y += 5
	rl.DrawText("noise sigma", int32(x), int32(y), 14, rl.LightGray)
	y += 18
	*noiseSigma = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: panelWidth - 70, Height: 18},
		"0", "0.05",
		*noiseSigma, 0, 0.05,
	)
	rl.DrawText(fmt.Sprintf("%.3f", *noiseSigma), int32(x+panelWidth-60), int32(y), 14, rl.RayWhite)
	y += 28

	rl.DrawText("[space] pause  [1/2/3] overlay", int32(x), int32(y), 12, rl.LightGray)
	y += 16
	rl.DrawText("[a] agents  [n] reseed  [tab] panel", int32(x), int32(y), 12, rl.LightGray)
	y += 16
	rl.DrawText("[ / ] halve / double grid", int32(x), int32(y), 12, rl.LightGray)
}
