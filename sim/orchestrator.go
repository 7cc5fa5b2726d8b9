package sim

import (
	"fmt"

	"github.com/vireolab/vireo/compute"
	"github.com/vireolab/vireo/field"
)

// Phase is the orchestrator's position in the per-frame pass sequence.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseOccupancyCleared
	PhaseAgentsStepped
	PhaseFieldStepped
	PhaseSwapped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseOccupancyCleared:
		return "occupancy-cleared"
	case PhaseAgentsStepped:
		return "agents-stepped"
	case PhaseFieldStepped:
		return "field-stepped"
	case PhaseSwapped:
		return "swapped"
	}
	return "unknown"
}

// clearSlotOccupancy is the single slot of the occupancy-clear layout.
const clearSlotOccupancy = 0

// Pass names reported through the phase hook, in dispatch order.
const (
	PassClearOccupancy = "clear_occupancy"
	PassAgents         = "agents"
	PassField          = "field"
	PassSwap           = "swap"
)

// ClearOccupancyKernel zeroes one occupancy counter.
func ClearOccupancyKernel(i int, b *compute.BindingSet) {
	b.Resource(clearSlotOccupancy).(*field.Occupancy).ClearCell(i)
}

// Orchestrator sequences the per-frame passes on the queue:
//
//	clear occupancy -> agent pass -> RD pass -> swap
//
// Each Dispatch returns only when its pass has fully completed, so the RD
// pass always sees the occupancy the agent pass just produced and the swap
// never exposes a half-written buffer. Resize is the only operation that
// invalidates live resources and must happen between frames.
type Orchestrator struct {
	queue   *compute.Queue
	layouts *compute.Layouts

	store  *field.PingPong
	occ    *field.Occupancy
	agents *AgentBuffer

	rdParams    *RDParams
	agentParams *AgentParams

	clearPipe *compute.Pipeline
	agentPipe *compute.Pipeline
	rdPipe    *compute.Pipeline
	clearBind *compute.BindingSet

	phase   Phase
	frame   uint64
	onPhase func(pass string)
}

// NewOrchestrator validates the coupled configuration (grid and occupancy
// dimensions, parameter record consistency) and prebuilds every pipeline
// and binding set. Any mismatch is fatal here, before the first frame.
func NewOrchestrator(
	queue *compute.Queue,
	layouts *compute.Layouts,
	store *field.PingPong,
	occ *field.Occupancy,
	agents *AgentBuffer,
	rdParams *RDParams,
	agentParams *AgentParams,
) (*Orchestrator, error) {
	w, h := store.Dims()
	if occ.W != w || occ.H != h {
		return nil, fmt.Errorf("sim: occupancy %dx%d does not match field %dx%d", occ.W, occ.H, w, h)
	}
	if rdParams.Width != w || rdParams.Height != h {
		return nil, fmt.Errorf("sim: RD params sized %dx%d for a %dx%d field",
			rdParams.Width, rdParams.Height, w, h)
	}
	if agentParams.WorldW != float32(w) || agentParams.WorldH != float32(h) {
		return nil, fmt.Errorf("sim: agent params world %gx%g does not match field %dx%d",
			agentParams.WorldW, agentParams.WorldH, w, h)
	}
	if rdParams.HScale <= 0 {
		return nil, fmt.Errorf("sim: HScale must be positive, got %g", rdParams.HScale)
	}
	if rdParams.DT != agentParams.DT {
		return nil, fmt.Errorf("sim: RD dt %g and agent dt %g diverge", rdParams.DT, agentParams.DT)
	}

	o := &Orchestrator{
		queue:       queue,
		layouts:     layouts,
		store:       store,
		occ:         occ,
		agents:      agents,
		rdParams:    rdParams,
		agentParams: agentParams,
		phase:       PhaseIdle,
	}

	var err error
	if o.clearPipe, err = compute.NewPipeline("clear_occupancy", layouts.ClearOccupancy, ClearOccupancyKernel); err != nil {
		return nil, err
	}
	if o.agentPipe, err = compute.NewPipeline("agent_step", layouts.Agent, AgentStepKernel); err != nil {
		return nil, err
	}
	if o.rdPipe, err = compute.NewPipeline("rd_step", layouts.RD, RDStepKernel); err != nil {
		return nil, err
	}
	if o.clearBind, err = compute.NewBindingSet("clear_occupancy", layouts.ClearOccupancy, occ); err != nil {
		return nil, err
	}
	if err := o.rebuildFieldBindings(); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Orchestrator) rebuildFieldBindings() error {
	if err := o.store.RebuildBindings(o.layouts, o.rdParams, o.occ); err != nil {
		return err
	}
	return o.store.RebuildAgentBindings(o.layouts, o.agents, o.agentParams, o.occ)
}

// SetPhaseHook installs a callback invoked at the start of each pass
// inside Step, with the pass name. Nil disables. Perf collection hangs
// its phase timer here.
func (o *Orchestrator) SetPhaseHook(fn func(pass string)) {
	o.onPhase = fn
}

func (o *Orchestrator) enterPass(pass string) {
	if o.onPhase != nil {
		o.onPhase(pass)
	}
}

// Step runs one frame's pass sequence. On return the front buffer holds
// the newly completed field and the agent batch holds this frame's state;
// the external renderer may read both until the next Step.
func (o *Orchestrator) Step() {
	w, h := o.store.Dims()
	cells := w * h

	o.enterPass(PassClearOccupancy)
	o.queue.Dispatch(o.clearPipe, o.clearBind, cells)
	o.phase = PhaseOccupancyCleared

	o.enterPass(PassAgents)
	o.queue.Dispatch(o.agentPipe, o.store.AgentBindings(), o.agents.Len())
	o.phase = PhaseAgentsStepped

	o.enterPass(PassField)
	o.queue.Dispatch(o.rdPipe, o.store.RDBindings(), cells)
	o.phase = PhaseFieldStepped

	o.enterPass(PassSwap)
	o.store.Swap()
	o.phase = PhaseSwapped

	o.frame++
	o.phase = PhaseIdle
}

// Resize reallocates the field store and occupancy buffer in lockstep at
// new dimensions and rebuilds every binding set that referenced the old
// allocations. Must not be called while a frame is in flight. Both field
// buffers come back zeroed; callers reseed explicitly.
func (o *Orchestrator) Resize(w, h int) error {
	if w < 1 || h < 1 {
		return fmt.Errorf("sim: resize to %dx%d", w, h)
	}
	if o.phase != PhaseIdle {
		return fmt.Errorf("sim: resize during phase %s", o.phase)
	}

	o.store.Recreate(w, h)
	o.occ.Recreate(w, h)
	o.rdParams.Width = w
	o.rdParams.Height = h
	o.agentParams.WorldW = float32(w)
	o.agentParams.WorldH = float32(h)

	return o.rebuildFieldBindings()
}

// CheckInvariants sweeps the monitored invariants: every field value
// finite and non-negative, and the occupancy total equal to the number of
// agents alive at the end of the last agent pass. Intended to run
// periodically, not every frame.
func (o *Orchestrator) CheckInvariants() error {
	if i, ch := field.CheckFinite(o.store.Front()); i >= 0 {
		w, _ := o.store.Dims()
		return fmt.Errorf("sim: field %s invalid at cell (%d,%d) on frame %d",
			ch, i%w, i/w, o.frame)
	}
	if o.frame > 0 {
		alive := uint64(o.agents.AliveCount())
		if got := o.occ.Sum(); got != alive {
			return fmt.Errorf("sim: occupancy total %d, %d agents alive on frame %d",
				got, alive, o.frame)
		}
	}
	return nil
}

// Frame returns the number of completed frames.
func (o *Orchestrator) Frame() uint64 { return o.frame }

// CurrentPhase returns the orchestrator's phase; PhaseIdle between frames.
func (o *Orchestrator) CurrentPhase() Phase { return o.phase }

// FieldFront returns the front grid for telemetry and seeding between
// frames.
func (o *Orchestrator) FieldFront() *field.Grid { return o.store.Front() }

// RenderBindings returns the render stage's binding set on the front field.
func (o *Orchestrator) RenderBindings() *compute.BindingSet { return o.store.RenderBindings() }

// Store returns the double-buffered field store.
func (o *Orchestrator) Store() *field.PingPong { return o.store }

// Occupancy returns the shared occupancy buffer.
func (o *Orchestrator) Occupancy() *field.Occupancy { return o.occ }

// Agents returns the agent batch.
func (o *Orchestrator) Agents() *AgentBuffer { return o.agents }
