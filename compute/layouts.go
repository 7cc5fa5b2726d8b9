// Package compute models the simulation's pass execution: fixed binding
// layouts declared once at startup, pipelines and binding sets validated
// against them, and a single queue that runs each pass as an unordered
// data-parallel dispatch with a full barrier between passes.
package compute

// SlotKind identifies what class of resource a binding slot accepts.
type SlotKind int

const (
	// SampledField is a read-only, bilinearly sampled view of a field grid.
	SampledField SlotKind = iota
	// StorageField is a write-only per-cell view of a field grid.
	StorageField
	// UniformBuffer is a small read-only parameter record.
	UniformBuffer
	// StorageBuffer is a flat read/write counter or data array.
	StorageBuffer
	// AgentBuffer is the mutable agent batch.
	AgentBuffer
)

func (k SlotKind) String() string {
	switch k {
	case SampledField:
		return "sampled-field"
	case StorageField:
		return "storage-field"
	case UniformBuffer:
		return "uniform"
	case StorageBuffer:
		return "storage-buffer"
	case AgentBuffer:
		return "agent-buffer"
	}
	return "unknown"
}

// Slot is one binding position in a layout.
type Slot struct {
	Name string
	Kind SlotKind
}

// Layout is the immutable shape of a binding set consumed by one pass.
// Layouts are declared once by NewLayouts and only ever passed by pointer;
// pipelines and binding sets are matched against them by identity.
type Layout struct {
	Name  string
	Slots []Slot
}

// Layouts is the registry of every binding layout in the application.
// The top-level context owns the single instance; everything else borrows it.
type Layouts struct {
	// RD is the reaction-diffusion pass: front field in, back field out,
	// parameter record, occupancy counts.
	RD *Layout

	// Agent is the agent step pass: agent batch, front field, parameter
	// record, occupancy counts.
	Agent *Layout

	// ClearOccupancy zeroes the occupancy counters.
	ClearOccupancy *Layout

	// FieldRender is the external render stage's view of the front field.
	FieldRender *Layout
}

// NewLayouts declares every binding layout. Called exactly once.
func NewLayouts() *Layouts {
	return &Layouts{
		RD: &Layout{
			Name: "rd",
			Slots: []Slot{
				{Name: "src_field", Kind: SampledField},
				{Name: "dst_field", Kind: StorageField},
				{Name: "rd_params", Kind: UniformBuffer},
				{Name: "occupancy", Kind: StorageBuffer},
			},
		},
		Agent: &Layout{
			Name: "agent",
			Slots: []Slot{
				{Name: "agents", Kind: AgentBuffer},
				{Name: "field", Kind: SampledField},
				{Name: "agent_params", Kind: UniformBuffer},
				{Name: "occupancy", Kind: StorageBuffer},
			},
		},
		ClearOccupancy: &Layout{
			Name: "clear_occupancy",
			Slots: []Slot{
				{Name: "occupancy", Kind: StorageBuffer},
			},
		},
		FieldRender: &Layout{
			Name: "field_render",
			Slots: []Slot{
				{Name: "field", Kind: SampledField},
			},
		},
	}
}
