package sim

import (
	"github.com/vireolab/vireo/compute"
	"github.com/vireolab/vireo/field"
)

// Slot order of the RD pass layout.
const (
	rdSlotSrc = iota
	rdSlotDst
	rdSlotParams
	rdSlotOccupancy
)

// RDStepKernel advances one cell of the field: five-point Laplacian with
// clamped (no-flux) boundary reads, local herbivore density from the
// occupancy counts, reaction terms, and an explicit Euler step clamped
// non-negative. Total over all valid cells; writes only its own cell of
// the back buffer.
func RDStepKernel(i int, b *compute.BindingSet) {
	src := b.Resource(rdSlotSrc).(*field.SampleView).Grid()
	dst := b.Resource(rdSlotDst).(*field.StoreView)
	p := b.Resource(rdSlotParams).(*RDParams)
	occ := b.Resource(rdSlotOccupancy).(*field.Occupancy)

	x := i % p.Width
	y := i / p.Width

	cR, cW := src.At(x, y)
	nR, nW := src.At(x, y-1)
	sR, sW := src.At(x, y+1)
	eR, eW := src.At(x+1, y)
	wR, wW := src.At(x-1, y)

	lapR := nR + sR + eR + wR - 4*cR
	lapW := nW + sW + eW + wW - 4*cW

	// Local herbivore density, normalized and clamped to [0,1]. The counts
	// were produced this frame under the same HScale.
	h := float32(occ.At(x, y)) * p.HScale
	if h > 1 {
		h = 1
	}

	dR := p.DR*lapR + p.SigmaR - p.AlphaH*h*cR - p.LambdaR*cR
	dW := p.DW*lapW + p.BetaH*h - p.LambdaW*cW

	newR := cR + p.DT*dR
	newW := cW + p.DT*dW
	if newR < 0 {
		newR = 0
	}
	if newW < 0 {
		newW = 0
	}

	dst.Set(x, y, newR, newW)
}
