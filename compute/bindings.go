package compute

import "fmt"

// Resource is anything that can occupy a binding slot. Implementations
// report the slot kind they satisfy; kind and slot order are checked when
// the binding set is built, never at dispatch time.
type Resource interface {
	BindingKind() SlotKind
}

// BindingSet binds concrete resources to a layout's slots. Built once per
// resource generation (rebuilt only after a resize) and reused every frame.
type BindingSet struct {
	label     string
	layout    *Layout
	resources []Resource
}

// NewBindingSet validates resources against the layout slot-by-slot.
// A mismatch is a configuration error: it is returned from here, at setup
// time, and cannot occur during steady-state frames.
func NewBindingSet(label string, layout *Layout, resources ...Resource) (*BindingSet, error) {
	if layout == nil {
		return nil, fmt.Errorf("binding set %q: nil layout", label)
	}
	if len(resources) != len(layout.Slots) {
		return nil, fmt.Errorf("binding set %q: layout %q has %d slots, got %d resources",
			label, layout.Name, len(layout.Slots), len(resources))
	}
	for i, res := range resources {
		if res == nil {
			return nil, fmt.Errorf("binding set %q: slot %d (%s) is nil",
				label, i, layout.Slots[i].Name)
		}
		if got, want := res.BindingKind(), layout.Slots[i].Kind; got != want {
			return nil, fmt.Errorf("binding set %q: slot %d (%s) wants %s, got %s",
				label, i, layout.Slots[i].Name, want, got)
		}
	}
	return &BindingSet{label: label, layout: layout, resources: resources}, nil
}

// MustBindingSet is NewBindingSet for call sites where a failure means the
// program is miswired and cannot continue.
func MustBindingSet(label string, layout *Layout, resources ...Resource) *BindingSet {
	b, err := NewBindingSet(label, layout, resources...)
	if err != nil {
		panic(err)
	}
	return b
}

// Label returns the binding set's debug label.
func (b *BindingSet) Label() string { return b.label }

// Layout returns the layout this set was built against.
func (b *BindingSet) Layout() *Layout { return b.layout }

// Resource returns the resource bound at the given slot. Kernels assert the
// concrete type; the kind was already checked at construction.
func (b *BindingSet) Resource(slot int) Resource {
	return b.resources[slot]
}
