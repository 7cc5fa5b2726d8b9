package field

import (
	"fmt"

	"github.com/vireolab/vireo/compute"
)

// PingPong is the double-buffered field store: two grid allocations and an
// index selecting which is currently front (readable, most recently
// completed). The back buffer is the write target of the next RD pass.
//
// PingPong also owns the prebuilt RD binding sets for both directions so a
// frame never constructs bindings; the orchestrator guarantees Swap is only
// called after the pass writing the back buffer has completed.
type PingPong struct {
	bufs  [2]*Grid
	views [2]*SampleView
	front int

	// Prebuilt binding sets, one per direction: rdBind[0] reads bufs[0]
	// and writes bufs[1], rdBind[1] the reverse. agentBind and renderBind
	// are indexed the same way by which buffer is front. Nil after
	// Recreate until the rebuild calls run.
	rdBind     [2]*compute.BindingSet
	agentBind  [2]*compute.BindingSet
	renderBind [2]*compute.BindingSet
}

// NewPingPong allocates both buffers at the given dimensions.
func NewPingPong(w, h int) *PingPong {
	p := &PingPong{}
	p.alloc(w, h)
	return p
}

func (p *PingPong) alloc(w, h int) {
	p.bufs[0] = NewGrid(w, h)
	p.bufs[1] = NewGrid(w, h)
	p.views[0] = &SampleView{g: p.bufs[0]}
	p.views[1] = &SampleView{g: p.bufs[1]}
	p.front = 0
	p.rdBind[0] = nil
	p.rdBind[1] = nil
	p.agentBind[0] = nil
	p.agentBind[1] = nil
	p.renderBind[0] = nil
	p.renderBind[1] = nil
}

// Dims returns the grid dimensions, identical for both buffers.
func (p *PingPong) Dims() (int, int) {
	return p.bufs[0].W, p.bufs[0].H
}

// Front returns the currently valid grid. Side-effect free.
func (p *PingPong) Front() *Grid {
	return p.bufs[p.front]
}

// FrontView returns the sampled view of the front grid, for the agent pass
// and the external renderer.
func (p *PingPong) FrontView() *SampleView {
	return p.views[p.front]
}

// Back returns the stale grid about to be overwritten.
func (p *PingPong) Back() *Grid {
	return p.bufs[1-p.front]
}

// BackStore returns the storage view of the back grid.
func (p *PingPong) BackStore() *StoreView {
	return &StoreView{g: p.bufs[1-p.front]}
}

// Swap flips the front selector. The caller must ensure the write to the
// back buffer has fully completed; ordering is enforced by the frame
// orchestrator's pass sequence, not checked here.
func (p *PingPong) Swap() {
	p.front = 1 - p.front
}

// Recreate reallocates both buffers at new dimensions and invalidates the
// prebuilt binding sets. Callers must RebuildBindings before the next frame.
func (p *PingPong) Recreate(w, h int) {
	p.alloc(w, h)
}

// RebuildBindings rebuilds the RD binding sets for both directions and the
// render binding sets against the registry's unchanged layouts and the
// current allocations. params is the RD parameter record; occ must match
// the grid dimensions.
func (p *PingPong) RebuildBindings(layouts *compute.Layouts, params compute.Resource, occ *Occupancy) error {
	w, h := p.Dims()
	if occ.W != w || occ.H != h {
		return fmt.Errorf("field: occupancy %dx%d does not match grid %dx%d", occ.W, occ.H, w, h)
	}

	a2b, err := compute.NewBindingSet("rd_a2b", layouts.RD,
		p.views[0], &StoreView{g: p.bufs[1]}, params, occ)
	if err != nil {
		return err
	}
	b2a, err := compute.NewBindingSet("rd_b2a", layouts.RD,
		p.views[1], &StoreView{g: p.bufs[0]}, params, occ)
	if err != nil {
		return err
	}

	p.rdBind[0] = a2b
	p.rdBind[1] = b2a

	renderA, err := compute.NewBindingSet("render_a", layouts.FieldRender, p.views[0])
	if err != nil {
		return err
	}
	renderB, err := compute.NewBindingSet("render_b", layouts.FieldRender, p.views[1])
	if err != nil {
		return err
	}
	p.renderBind[0] = renderA
	p.renderBind[1] = renderB
	return nil
}

// RebuildAgentBindings rebuilds the agent-pass binding sets for both front
// positions. agents and params are opaque resources owned by the caller.
func (p *PingPong) RebuildAgentBindings(layouts *compute.Layouts, agents, params compute.Resource, occ *Occupancy) error {
	w, h := p.Dims()
	if occ.W != w || occ.H != h {
		return fmt.Errorf("field: occupancy %dx%d does not match grid %dx%d", occ.W, occ.H, w, h)
	}

	frontA, err := compute.NewBindingSet("agent_front_a", layouts.Agent,
		agents, p.views[0], params, occ)
	if err != nil {
		return err
	}
	frontB, err := compute.NewBindingSet("agent_front_b", layouts.Agent,
		agents, p.views[1], params, occ)
	if err != nil {
		return err
	}

	p.agentBind[0] = frontA
	p.agentBind[1] = frontB
	return nil
}

// AgentBindings returns the binding set for the current frame's agent pass,
// reading the front field. Panics if bindings are stale after a Recreate.
func (p *PingPong) AgentBindings() *compute.BindingSet {
	b := p.agentBind[p.front]
	if b == nil {
		panic("field: agent bindings not rebuilt after Recreate")
	}
	return b
}

// RenderBindings returns the binding set exposing the front field to the
// external render stage. Panics if bindings are stale after a Recreate.
func (p *PingPong) RenderBindings() *compute.BindingSet {
	b := p.renderBind[p.front]
	if b == nil {
		panic("field: render bindings not rebuilt after Recreate")
	}
	return b
}

// RDBindings returns the binding set for the current frame's RD pass:
// read front, write back. Panics if bindings are stale after a Recreate;
// that is a missed RebuildBindings, a setup bug.
func (p *PingPong) RDBindings() *compute.BindingSet {
	b := p.rdBind[p.front]
	if b == nil {
		panic("field: RD bindings not rebuilt after Recreate")
	}
	return b
}
