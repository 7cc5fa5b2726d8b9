package sim

import (
	"math"

	"github.com/vireolab/vireo/compute"
	"github.com/vireolab/vireo/field"
)

// Slot order of the agent pass layout.
const (
	agentSlotAgents = iota
	agentSlotField
	agentSlotParams
	agentSlotOccupancy
)

// gradOffset is the half-step, in grid units, of the centered finite
// difference used for the chemotaxis gradient estimate.
const gradOffset = 1.0

// AgentStepKernel advances one agent: sense the front field, apply the
// saturating chemotactic force, integrate velocity and position with an
// inelastic wall bounce, settle the energy budget, and register the new
// cell in the occupancy counts. Dead agents cost one branch and nothing
// else. Items are independent; the only shared write is the occupancy
// counter, which is atomic.
func AgentStepKernel(i int, b *compute.BindingSet) {
	agents := b.Resource(agentSlotAgents).(*AgentBuffer)
	fld := b.Resource(agentSlotField).(*field.SampleView)
	p := b.Resource(agentSlotParams).(*AgentParams)
	occ := b.Resource(agentSlotOccupancy).(*field.Occupancy)

	a := &agents.agents[i]
	if a.Alive == 0 {
		return
	}

	x, y := a.Pos[0], a.Pos[1]

	// Two-point centered gradient per channel, sampled bilinearly.
	rE, wE := fld.Sample(x+gradOffset, y)
	rW, wW := fld.Sample(x-gradOffset, y)
	rS, wS := fld.Sample(x, y+gradOffset)
	rN, wN := fld.Sample(x, y-gradOffset)

	gradRx := (rE - rW) / (2 * gradOffset)
	gradRy := (rS - rN) / (2 * gradOffset)
	gradWx := (wE - wW) / (2 * gradOffset)
	gradWy := (wS - wN) / (2 * gradOffset)

	// Saturating chemotaxis: attraction up the resource gradient, repulsion
	// down the waste gradient. Saturation caps the force at sharp fronts.
	fx, fy := saturate(gradRx, gradRy, p.Kappa)
	fx *= p.ChiR
	fy *= p.ChiR
	rx, ry := saturate(gradWx, gradWy, p.Kappa)
	fx -= p.ChiW * rx
	fy -= p.ChiW * ry

	// Velocity: force, damping, speed clamp.
	vx := (a.Vel[0] + fx*p.DT) * (1 - p.Gamma)
	vy := (a.Vel[1] + fy*p.DT) * (1 - p.Gamma)
	speed := float32(math.Sqrt(float64(vx*vx + vy*vy)))
	if speed > p.VMax {
		scale := p.VMax / speed
		vx *= scale
		vy *= scale
	}

	// Position with clamp-and-reflect walls (inelastic bounce, no wrap).
	x += vx * p.DT
	y += vy * p.DT
	if x < 0 {
		x = 0
		vx = -vx * p.BounceDamping
	} else if x > p.WorldW {
		x = p.WorldW
		vx = -vx * p.BounceDamping
	}
	if y < 0 {
		y = 0
		vy = -vy * p.BounceDamping
	} else if y > p.WorldH {
		y = p.WorldH
		vy = -vy * p.BounceDamping
	}

	// Energy: intake at the new position against the basal drain.
	rHere, _ := fld.Sample(x, y)
	energy := a.Energy + (p.EtaR*rHere-p.Eps0)*p.DT
	if energy > p.EMax {
		energy = p.EMax
	}

	a.Pos[0], a.Pos[1] = x, y
	a.Vel[0], a.Vel[1] = vx, vy

	if energy <= 0 {
		a.Energy = 0
		a.Alive = 0
		return
	}
	a.Energy = energy

	occ.Add(int(x), int(y))
}

// saturate scales a gradient vector by 1/(1 + kappa*|g|).
func saturate(gx, gy, kappa float32) (float32, float32) {
	mag := float32(math.Sqrt(float64(gx*gx + gy*gy)))
	s := 1 / (1 + kappa*mag)
	return gx * s, gy * s
}
