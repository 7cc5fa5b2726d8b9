package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/vireolab/vireo/sim"
)

// AgentRenderer draws agents as dots colored by energy, interpolating
// from dim blue (starving) to bright yellow (well fed).
type AgentRenderer struct {
	screenW, screenH float32
	worldW, worldH   float32
}

// NewAgentRenderer creates an agent renderer mapping world coordinates
// onto the given screen size.
func NewAgentRenderer(screenW, screenH int32, worldW, worldH float32) *AgentRenderer {
	return &AgentRenderer{
		screenW: float32(screenW),
		screenH: float32(screenH),
		worldW:  worldW,
		worldH:  worldH,
	}
}

// Resize updates the screen dimensions.
func (r *AgentRenderer) Resize(w, h float32) {
	r.screenW = w
	r.screenH = h
}

// SetWorldSize updates the world dimensions after a grid resize.
func (r *AgentRenderer) SetWorldSize(worldW, worldH float32) {
	r.worldW = worldW
	r.worldH = worldH
}

// Draw renders all living agents.
func (r *AgentRenderer) Draw(agents *sim.AgentBuffer, maxEnergy float32) {
	if r.worldW <= 0 || r.worldH <= 0 {
		return
	}

	sx := r.screenW / r.worldW
	sy := r.screenH / r.worldH

	for i := 0; i < agents.Len(); i++ {
		a := agents.At(i)
		if !a.IsAlive() {
			continue
		}

		x := a.Pos[0] * sx
		y := a.Pos[1] * sy
		rl.DrawCircleV(rl.Vector2{X: x, Y: y}, 2, energyColor(a.Energy, maxEnergy))
	}
}

func energyColor(energy, maxEnergy float32) rl.Color {
	t := energy / maxEnergy
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	// Lerp dim blue to bright yellow.
	return rl.Color{
		R: uint8(40 + t*215),
		G: uint8(60 + t*180),
		B: uint8(180 - t*150),
		A: 255,
	}
}
