package sim

import (
	"encoding/binary"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"

	"github.com/vireolab/vireo/compute"
)

// Agent is one record of the agent batch. Records are allocated once at
// seed time and never compacted: a dead agent keeps its slot (Alive == 0)
// and is skipped by every pass. Alive transitions 1 -> 0 exactly once per
// run; only a reseed brings a slot back.
type Agent struct {
	Pos    [2]float32
	Vel    [2]float32
	Energy float32
	Alive  uint32
}

// IsAlive reports whether the agent still participates in passes.
func (a *Agent) IsAlive() bool { return a.Alive == 1 }

// Speed returns the velocity magnitude.
func (a *Agent) Speed() float32 {
	return float32(math.Sqrt(float64(a.Vel[0]*a.Vel[0] + a.Vel[1]*a.Vel[1])))
}

// AgentBuffer is the fixed-capacity batch bound into the agent pass. The
// slot index doubles as the dispatch item index.
type AgentBuffer struct {
	agents []Agent
}

// BindingKind implements compute.Resource.
func (*AgentBuffer) BindingKind() compute.SlotKind { return compute.AgentBuffer }

// SpawnParams controls batch seeding.
type SpawnParams struct {
	Count         int
	WorldW        float32
	WorldH        float32
	Margin        float32 // spawn distance from walls
	InitialEnergy float32
}

// NewAgentBuffer seeds a batch of the given capacity: positions inside the
// margins, a small random initial velocity, positive energy, alive.
// Deterministic for a given seed.
func NewAgentBuffer(p SpawnParams, seed int64) *AgentBuffer {
	b := &AgentBuffer{agents: make([]Agent, p.Count)}
	b.Reseed(p, seed)
	return b
}

// Reseed reinitializes every slot in place. Capacity never changes.
func (b *AgentBuffer) Reseed(p SpawnParams, seed int64) {
	rng := agentRNG(seed)

	for i := range b.agents {
		x := p.Margin + (p.WorldW-2*p.Margin)*rng.Float32()
		y := p.Margin + (p.WorldH-2*p.Margin)*rng.Float32()

		angle := 2 * math.Pi * rng.Float64()
		speed := 0.1 + 0.4*rng.Float32()

		b.agents[i] = Agent{
			Pos:    [2]float32{x, y},
			Vel:    [2]float32{speed * float32(math.Cos(angle)), speed * float32(math.Sin(angle))},
			Energy: p.InitialEnergy,
			Alive:  1,
		}
	}
}

// Len returns the batch capacity (alive and dead slots).
func (b *AgentBuffer) Len() int { return len(b.agents) }

// At returns the agent record at slot i.
func (b *AgentBuffer) At(i int) *Agent { return &b.agents[i] }

// Agents exposes the whole batch for the renderer and snapshots.
// Read-only by convention outside the agent pass.
func (b *AgentBuffer) Agents() []Agent { return b.agents }

// AliveCount counts slots still participating.
func (b *AgentBuffer) AliveCount() int {
	n := 0
	for i := range b.agents {
		if b.agents[i].Alive == 1 {
			n++
		}
	}
	return n
}

// AgentStats summarizes the batch for telemetry.
type AgentStats struct {
	AliveCount   int
	TotalEnergy  float64
	MeanEnergy   float64
	MeanVelocity float64
	// ForagingEfficiency is mean energy per unit mean speed, a rough proxy
	// for how much of the movement budget turns into intake.
	ForagingEfficiency float64
}

// ComputeStats collects batch statistics over alive agents.
func (b *AgentBuffer) ComputeStats() AgentStats {
	energies := make([]float64, 0, len(b.agents))
	speeds := make([]float64, 0, len(b.agents))

	for i := range b.agents {
		a := &b.agents[i]
		if a.Alive != 1 {
			continue
		}
		energies = append(energies, float64(a.Energy))
		speeds = append(speeds, float64(a.Speed()))
	}

	if len(energies) == 0 {
		return AgentStats{}
	}

	s := AgentStats{
		AliveCount:   len(energies),
		MeanEnergy:   stat.Mean(energies, nil),
		MeanVelocity: stat.Mean(speeds, nil),
	}
	for _, e := range energies {
		s.TotalEnergy += e
	}
	if s.MeanVelocity > 0 {
		s.ForagingEfficiency = s.MeanEnergy / s.MeanVelocity
	}
	return s
}

// agentRNG builds a deterministic ChaCha8 stream from a 64-bit seed.
func agentRNG(seed int64) *rand.Rand {
	var key [32]byte
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(key[i*8:], uint64(seed)+uint64(i))
	}
	return rand.New(rand.NewChaCha8(key))
}
