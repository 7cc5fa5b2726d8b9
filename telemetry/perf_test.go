package telemetry

import (
	"testing"
	"time"

	"github.com/vireolab/vireo/config"
	"github.com/vireolab/vireo/sim"
)

func TestPerfCollectorBasic(t *testing.T) {
	p := NewPerfCollector(10)

	for i := 0; i < 3; i++ {
		p.StartStep()
		p.StartPhase(PhaseAgents)
		time.Sleep(time.Millisecond)
		p.StartPhase(PhaseField)
		time.Sleep(time.Millisecond)
		p.EndStep()
	}

	s := p.Stats()
	if s.AvgStepDuration <= 0 {
		t.Errorf("AvgStepDuration = %v, want > 0", s.AvgStepDuration)
	}
	if s.MinStepDuration > s.MaxStepDuration {
		t.Errorf("min %v > max %v", s.MinStepDuration, s.MaxStepDuration)
	}
	if s.PhaseAvg[PhaseAgents] <= 0 || s.PhaseAvg[PhaseField] <= 0 {
		t.Errorf("phase averages missing: %v", s.PhaseAvg)
	}
	if s.StepsPerSecond <= 0 {
		t.Errorf("StepsPerSecond = %v, want > 0", s.StepsPerSecond)
	}
}

func TestPerfCollectorEmptyWindow(t *testing.T) {
	p := NewPerfCollector(10)
	s := p.Stats()
	if s.AvgStepDuration != 0 || s.StepsPerSecond != 0 {
		t.Errorf("empty window stats = %+v, want zeros", s)
	}
	if s.PhaseAvg == nil || s.PhasePct == nil {
		t.Error("empty window maps should be allocated")
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	p := NewPerfCollector(4)
	for i := 0; i < 10; i++ {
		p.StartStep()
		p.EndStep()
	}
	if p.sampleCount != 4 {
		t.Errorf("sampleCount = %d, want window size 4", p.sampleCount)
	}
}

func TestPerfCollectorWindowFloor(t *testing.T) {
	p := NewPerfCollector(0)
	if p.windowSize != 60 {
		t.Errorf("windowSize = %d, want default 60", p.windowSize)
	}
}

func TestPerfCollectorFramePhaseBreakdown(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	cfg.World.Width = 32
	cfg.World.Height = 32
	cfg.Agents.Count = 50
	cfg.Derived.WorldW32 = 32
	cfg.Derived.WorldH32 = 32

	world, err := sim.NewWorld(cfg, 7, "")
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	defer world.Close()

	p := NewPerfCollector(10)
	world.Orchestrator.SetPhaseHook(p.StartPhase)

	p.StartStep()
	world.Orchestrator.Step()
	p.StartPhase(PhaseTelemetry)
	p.EndStep()

	s := p.Stats()
	for _, phase := range []string{
		PhaseClearOccupancy, PhaseAgents, PhaseField, PhaseSwap, PhaseTelemetry,
	} {
		if _, ok := s.PhaseAvg[phase]; !ok {
			t.Errorf("PhaseAvg missing %q: %v", phase, s.PhaseAvg)
		}
		if _, ok := s.PhasePct[phase]; !ok {
			t.Errorf("PhasePct missing %q: %v", phase, s.PhasePct)
		}
	}
}
