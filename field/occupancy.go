package field

import (
	"sync/atomic"

	"github.com/vireolab/vireo/compute"
)

// Occupancy is the dense per-cell count of resident agents, the coupling
// signal from the agent pass to the RD pass. Agents in the same pass may
// land on the same cell, so increments go through atomic adds; plain
// increments would silently lose counts under contention.
type Occupancy struct {
	W, H   int
	counts []uint32
}

// NewOccupancy allocates a zeroed counter array matching the grid.
func NewOccupancy(w, h int) *Occupancy {
	return &Occupancy{W: w, H: h, counts: make([]uint32, w*h)}
}

// BindingKind implements compute.Resource.
func (*Occupancy) BindingKind() compute.SlotKind { return compute.StorageBuffer }

// Clear zeroes every counter. Must run before the agent pass each frame.
func (o *Occupancy) Clear() {
	clear(o.counts)
}

// ClearCell zeroes a single counter; this is the per-item body of the
// occupancy-clear pass.
func (o *Occupancy) ClearCell(i int) {
	atomic.StoreUint32(&o.counts[i], 0)
}

// Add increments the counter for the cell containing (cx, cy), clamped to
// the grid. One call per alive agent per frame.
func (o *Occupancy) Add(cx, cy int) {
	if cx < 0 {
		cx = 0
	} else if cx >= o.W {
		cx = o.W - 1
	}
	if cy < 0 {
		cy = 0
	} else if cy >= o.H {
		cy = o.H - 1
	}
	atomic.AddUint32(&o.counts[cy*o.W+cx], 1)
}

// At returns the count at a cell. Only meaningful between the agent pass
// and the next clear.
func (o *Occupancy) At(cx, cy int) uint32 {
	return atomic.LoadUint32(&o.counts[cy*o.W+cx])
}

// Len returns the number of cells.
func (o *Occupancy) Len() int {
	return len(o.counts)
}

// Sum returns the total count across all cells. After the agent pass this
// equals the number of alive agents that wrote this frame.
func (o *Occupancy) Sum() uint64 {
	var total uint64
	for i := range o.counts {
		total += uint64(o.counts[i])
	}
	return total
}

// Counts exposes the raw counter array for the renderer and snapshots.
// Read-only by convention.
func (o *Occupancy) Counts() []uint32 {
	return o.counts
}

// Recreate reallocates the counters at new dimensions, in lockstep with a
// field store resize.
func (o *Occupancy) Recreate(w, h int) {
	o.W = w
	o.H = h
	o.counts = make([]uint32, w*h)
}
