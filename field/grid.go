// Package field owns the reaction-diffusion grid: the double-buffered field
// store, the per-cell occupancy counters, seeding, and field statistics.
package field

import (
	"math"

	"github.com/vireolab/vireo/compute"
)

// Grid is one allocation of the R/W field. Res is resource concentration,
// Waste is waste concentration, both indexed row-major.
type Grid struct {
	W, H  int
	Res   []float32
	Waste []float32
}

// NewGrid allocates a zeroed grid.
func NewGrid(w, h int) *Grid {
	return &Grid{
		W:     w,
		H:     h,
		Res:   make([]float32, w*h),
		Waste: make([]float32, w*h),
	}
}

// Idx maps cell coordinates to the flat index. No bounds check; callers
// clamp first.
func (g *Grid) Idx(x, y int) int {
	return y*g.W + x
}

// ClampX clamps a cell x coordinate to the grid (Neumann boundary: an
// out-of-range neighbor read reuses the nearest in-range cell).
func (g *Grid) ClampX(x int) int {
	if x < 0 {
		return 0
	}
	if x >= g.W {
		return g.W - 1
	}
	return x
}

// ClampY clamps a cell y coordinate to the grid.
func (g *Grid) ClampY(y int) int {
	if y < 0 {
		return 0
	}
	if y >= g.H {
		return g.H - 1
	}
	return y
}

// At returns (R, W) at a cell, clamping coordinates to the grid.
func (g *Grid) At(x, y int) (float32, float32) {
	i := g.Idx(g.ClampX(x), g.ClampY(y))
	return g.Res[i], g.Waste[i]
}

// Set writes both channels at a cell. Coordinates must be in range.
func (g *Grid) Set(x, y int, res, waste float32) {
	i := g.Idx(x, y)
	g.Res[i] = res
	g.Waste[i] = waste
}

// Sample returns (R, W) at world coordinates using bilinear interpolation.
// Cell centers sit at (i+0.5, j+0.5); lattice reads clamp at the boundary.
func (g *Grid) Sample(x, y float32) (float32, float32) {
	fx := x - 0.5
	fy := y - 0.5

	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	x0c := g.ClampX(x0)
	x1c := g.ClampX(x0 + 1)
	y0c := g.ClampY(y0)
	y1c := g.ClampY(y0 + 1)

	i00 := g.Idx(x0c, y0c)
	i10 := g.Idx(x1c, y0c)
	i01 := g.Idx(x0c, y1c)
	i11 := g.Idx(x1c, y1c)

	r0 := g.Res[i00] + (g.Res[i10]-g.Res[i00])*tx
	r1 := g.Res[i01] + (g.Res[i11]-g.Res[i01])*tx
	w0 := g.Waste[i00] + (g.Waste[i10]-g.Waste[i00])*tx
	w1 := g.Waste[i01] + (g.Waste[i11]-g.Waste[i01])*tx

	return r0 + (r1-r0)*ty, w0 + (w1-w0)*ty
}

// Zero clears both channels.
func (g *Grid) Zero() {
	clear(g.Res)
	clear(g.Waste)
}

// SampleView is the read-only, sampled view of a grid. It is the resource
// bound into the "sampled field" slot of the RD, agent, and render layouts.
type SampleView struct {
	g *Grid
}

// BindingKind implements compute.Resource.
func (*SampleView) BindingKind() compute.SlotKind { return compute.SampledField }

// Grid returns the underlying grid for read access.
func (v *SampleView) Grid() *Grid { return v.g }

// Sample forwards to the grid's bilinear sampler.
func (v *SampleView) Sample(x, y float32) (float32, float32) { return v.g.Sample(x, y) }

// At forwards to the grid's clamped cell read.
func (v *SampleView) At(x, y int) (float32, float32) { return v.g.At(x, y) }

// StoreView is the write-only, per-cell view of a grid: the resource bound
// into the "storage field" slot of the RD layout.
type StoreView struct {
	g *Grid
}

// BindingKind implements compute.Resource.
func (*StoreView) BindingKind() compute.SlotKind { return compute.StorageField }

// Set writes both channels at a cell.
func (v *StoreView) Set(x, y int, res, waste float32) { v.g.Set(x, y, res, waste) }

// Dims returns the grid dimensions.
func (v *StoreView) Dims() (int, int) { return v.g.W, v.g.H }
