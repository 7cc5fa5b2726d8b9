package sim

import (
	"math"
	"testing"

	"github.com/vireolab/vireo/compute"
	"github.com/vireolab/vireo/field"
)

// runRDPass executes the RD kernel over every cell and swaps, mirroring
// the orchestrator's field pass.
func runRDPass(t *testing.T, store *field.PingPong, occ *field.Occupancy, p *RDParams) {
	t.Helper()
	layouts := compute.NewLayouts()
	if err := store.RebuildBindings(layouts, p, occ); err != nil {
		t.Fatalf("RebuildBindings: %v", err)
	}
	bind := store.RDBindings()
	for i := 0; i < p.Width*p.Height; i++ {
		RDStepKernel(i, bind)
	}
	store.Swap()
}

func rdTestParams(w, h int) *RDParams {
	return &RDParams{Width: w, Height: h, HScale: 0.125, DT: 1.0}
}

func TestRDKernelDiffusionSpreads(t *testing.T) {
	store := field.NewPingPong(4, 4)
	occ := field.NewOccupancy(4, 4)
	store.Front().Set(1, 1, 1.0, 0)

	p := rdTestParams(4, 4)
	p.DR = 0.5

	runRDPass(t, store, occ, p)
	g := store.Front()

	// Center: lap = -4, dR = -2, 1 + dt*dR = -1, clamped to 0.
	if r, _ := g.At(1, 1); r != 0 {
		t.Errorf("center R = %v, want 0 (clamped)", r)
	}
	// Each axis neighbor: lap = 1, gains 0.5.
	for _, c := range [][2]int{{0, 1}, {2, 1}, {1, 0}, {1, 2}} {
		if r, _ := g.At(c[0], c[1]); math.Abs(float64(r)-0.5) > 1e-6 {
			t.Errorf("neighbor (%d,%d) R = %v, want 0.5", c[0], c[1], r)
		}
	}
	// Diagonals are not in the five-point stencil.
	if r, _ := g.At(0, 0); r != 0 {
		t.Errorf("diagonal R = %v, want 0", r)
	}
}

func TestRDKernelNoFluxBoundary(t *testing.T) {
	// A uniform field must stay uniform: clamped boundary reads mean no
	// mass leaks off the edges.
	store := field.NewPingPong(4, 4)
	occ := field.NewOccupancy(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			store.Front().Set(x, y, 0.7, 0.3)
		}
	}

	p := rdTestParams(4, 4)
	p.DR = 0.5
	p.DW = 0.2

	runRDPass(t, store, occ, p)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			r, w := store.Front().At(x, y)
			if math.Abs(float64(r)-0.7) > 1e-6 || math.Abs(float64(w)-0.3) > 1e-6 {
				t.Fatalf("uniform field drifted at (%d,%d): (%v, %v)", x, y, r, w)
			}
		}
	}
}

func TestRDKernelReplenishAndDecay(t *testing.T) {
	store := field.NewPingPong(4, 4)
	occ := field.NewOccupancy(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			store.Front().Set(x, y, 1.0, 1.0)
		}
	}

	p := rdTestParams(4, 4)
	p.SigmaR = 0.01
	p.LambdaR = 0.1
	p.LambdaW = 0.2

	runRDPass(t, store, occ, p)
	r, w := store.Front().At(2, 2)
	// R: 1 + (0.01 - 0.1*1), W: 1 - 0.2*1.
	if math.Abs(float64(r)-0.91) > 1e-6 {
		t.Errorf("R = %v, want 0.91", r)
	}
	if math.Abs(float64(w)-0.8) > 1e-6 {
		t.Errorf("W = %v, want 0.8", w)
	}
}

func TestRDKernelUptakeAndEmission(t *testing.T) {
	store := field.NewPingPong(4, 4)
	occ := field.NewOccupancy(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			store.Front().Set(x, y, 1.0, 0)
		}
	}

	// Four agents at (1,1): h = 4 * 0.125 = 0.5.
	for i := 0; i < 4; i++ {
		occ.Add(1, 1)
	}

	p := rdTestParams(4, 4)
	p.AlphaH = 0.2
	p.BetaH = 0.1

	runRDPass(t, store, occ, p)

	r, w := store.Front().At(1, 1)
	if math.Abs(float64(r)-0.9) > 1e-6 {
		t.Errorf("occupied cell R = %v, want 0.9", r)
	}
	if math.Abs(float64(w)-0.05) > 1e-6 {
		t.Errorf("occupied cell W = %v, want 0.05", w)
	}

	// Unoccupied cells see no uptake or emission.
	r, w = store.Front().At(3, 3)
	if r != 1.0 || w != 0 {
		t.Errorf("empty cell = (%v, %v), want (1, 0)", r, w)
	}
}

func TestRDKernelDensitySaturates(t *testing.T) {
	store := field.NewPingPong(4, 4)
	occ := field.NewOccupancy(4, 4)
	store.Front().Set(1, 1, 1.0, 0)

	// 100 agents: h clamps to 1, same as exactly 8 agents at HScale 0.125.
	for i := 0; i < 100; i++ {
		occ.Add(1, 1)
	}

	p := rdTestParams(4, 4)
	p.AlphaH = 0.5

	runRDPass(t, store, occ, p)
	r, _ := store.Front().At(1, 1)
	if math.Abs(float64(r)-0.5) > 1e-6 {
		t.Errorf("saturated uptake R = %v, want 0.5", r)
	}
}
