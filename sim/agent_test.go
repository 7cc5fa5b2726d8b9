package sim

import "testing"

func testSpawnParams() SpawnParams {
	return SpawnParams{
		Count:         100,
		WorldW:        128,
		WorldH:        128,
		Margin:        10,
		InitialEnergy: 1.0,
	}
}

func TestNewAgentBufferSpawnsInsideMargins(t *testing.T) {
	b := NewAgentBuffer(testSpawnParams(), 7)

	if b.Len() != 100 {
		t.Fatalf("Len = %d, want 100", b.Len())
	}
	for i := 0; i < b.Len(); i++ {
		a := b.At(i)
		if !a.IsAlive() {
			t.Fatalf("agent %d spawned dead", i)
		}
		if a.Energy != 1.0 {
			t.Fatalf("agent %d energy %v, want 1", i, a.Energy)
		}
		if a.Pos[0] < 10 || a.Pos[0] > 118 || a.Pos[1] < 10 || a.Pos[1] > 118 {
			t.Fatalf("agent %d outside margins: %v", i, a.Pos)
		}
		s := a.Speed()
		if s < 0.1-1e-5 || s > 0.5+1e-5 {
			t.Fatalf("agent %d initial speed %v outside [0.1, 0.5]", i, s)
		}
	}
}

func TestAgentBufferReseedDeterministic(t *testing.T) {
	p := testSpawnParams()
	a := NewAgentBuffer(p, 99)
	b := NewAgentBuffer(p, 99)

	for i := 0; i < a.Len(); i++ {
		if a.At(i).Pos != b.At(i).Pos || a.At(i).Vel != b.At(i).Vel {
			t.Fatalf("same seed diverged at agent %d", i)
		}
	}

	a.At(0).Alive = 0
	a.At(0).Energy = 0
	a.Reseed(p, 99)
	if a.At(0).Pos != b.At(0).Pos || !a.At(0).IsAlive() {
		t.Error("reseed did not restore agent 0")
	}
}

func TestAgentBufferAliveCount(t *testing.T) {
	b := NewAgentBuffer(testSpawnParams(), 3)
	if got := b.AliveCount(); got != 100 {
		t.Fatalf("AliveCount = %d, want 100", got)
	}

	b.At(5).Alive = 0
	b.At(17).Alive = 0
	if got := b.AliveCount(); got != 98 {
		t.Errorf("AliveCount = %d, want 98", got)
	}
}

func TestAgentBufferComputeStats(t *testing.T) {
	b := &AgentBuffer{agents: []Agent{
		{Vel: [2]float32{1, 0}, Energy: 2, Alive: 1},
		{Vel: [2]float32{0, 1}, Energy: 4, Alive: 1},
		{Vel: [2]float32{5, 5}, Energy: 9, Alive: 0},
	}}

	s := b.ComputeStats()
	if s.AliveCount != 2 {
		t.Errorf("AliveCount = %d, want 2", s.AliveCount)
	}
	if s.MeanEnergy != 3 {
		t.Errorf("MeanEnergy = %v, want 3 (dead agents excluded)", s.MeanEnergy)
	}
	if s.TotalEnergy != 6 {
		t.Errorf("TotalEnergy = %v, want 6", s.TotalEnergy)
	}
	if s.MeanVelocity != 1 {
		t.Errorf("MeanVelocity = %v, want 1", s.MeanVelocity)
	}
	if s.ForagingEfficiency != 3 {
		t.Errorf("ForagingEfficiency = %v, want 3", s.ForagingEfficiency)
	}
}

func TestAgentBufferComputeStatsExtinct(t *testing.T) {
	b := &AgentBuffer{agents: []Agent{{Alive: 0}, {Alive: 0}}}
	s := b.ComputeStats()
	if s.AliveCount != 0 || s.MeanEnergy != 0 || s.ForagingEfficiency != 0 {
		t.Errorf("extinct stats = %+v, want zeros", s)
	}
}
