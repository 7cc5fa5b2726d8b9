package compute

import "fmt"

// Kernel is the per-item body of a compute pass. Item indices within one
// dispatch run unordered and concurrently; a kernel must not communicate
// with other items of the same pass except through atomic operations.
type Kernel func(item int, b *BindingSet)

// Pipeline couples a kernel with the layout its binding sets must match.
type Pipeline struct {
	name   string
	layout *Layout
	kernel Kernel
}

// NewPipeline builds a pipeline against a layout from the registry.
// Constructing against a nil layout or kernel is a configuration error.
func NewPipeline(name string, layout *Layout, kernel Kernel) (*Pipeline, error) {
	if layout == nil {
		return nil, fmt.Errorf("pipeline %q: nil layout", name)
	}
	if kernel == nil {
		return nil, fmt.Errorf("pipeline %q: nil kernel", name)
	}
	return &Pipeline{name: name, layout: layout, kernel: kernel}, nil
}

// MustPipeline is NewPipeline for wiring that cannot sensibly fail at runtime.
func MustPipeline(name string, layout *Layout, kernel Kernel) *Pipeline {
	p, err := NewPipeline(name, layout, kernel)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the pipeline's debug name.
func (p *Pipeline) Name() string { return p.name }

// Layout returns the layout this pipeline was built against.
func (p *Pipeline) Layout() *Layout { return p.layout }
