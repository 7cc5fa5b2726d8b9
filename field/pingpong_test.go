package field

import (
	"testing"

	"github.com/vireolab/vireo/compute"
)

type dummyParams struct{}

func (*dummyParams) BindingKind() compute.SlotKind { return compute.UniformBuffer }

type dummyAgents struct{}

func (*dummyAgents) BindingKind() compute.SlotKind { return compute.AgentBuffer }

func TestPingPongSwap(t *testing.T) {
	p := NewPingPong(8, 8)

	front := p.Front()
	back := p.Back()
	if front == back {
		t.Fatal("front and back are the same allocation")
	}

	p.Swap()
	if p.Front() != back || p.Back() != front {
		t.Error("swap did not exchange buffers")
	}

	p.Swap()
	if p.Front() != front {
		t.Error("double swap did not restore the original front")
	}
}

func TestPingPongBindingsSelectDirection(t *testing.T) {
	p := NewPingPong(8, 8)
	occ := NewOccupancy(8, 8)
	layouts := compute.NewLayouts()

	if err := p.RebuildBindings(layouts, &dummyParams{}, occ); err != nil {
		t.Fatalf("RebuildBindings: %v", err)
	}
	if err := p.RebuildAgentBindings(layouts, &dummyAgents{}, &dummyParams{}, occ); err != nil {
		t.Fatalf("RebuildAgentBindings: %v", err)
	}

	// Front is buffer A: the RD pass must read A and write B.
	rd := p.RDBindings()
	if rd.Resource(0).(*SampleView).Grid() != p.Front() {
		t.Error("RD src is not the front buffer")
	}
	if rd.Label() != "rd_a2b" {
		t.Errorf("front-A RD bindings labeled %q", rd.Label())
	}

	p.Swap()
	rd = p.RDBindings()
	if rd.Resource(0).(*SampleView).Grid() != p.Front() {
		t.Error("RD src did not follow the swap")
	}
	if rd.Label() != "rd_b2a" {
		t.Errorf("front-B RD bindings labeled %q", rd.Label())
	}

	ag := p.AgentBindings()
	if ag.Resource(1).(*SampleView).Grid() != p.Front() {
		t.Error("agent pass field is not the front buffer")
	}
}

func TestPingPongRecreateInvalidatesBindings(t *testing.T) {
	p := NewPingPong(8, 8)
	occ := NewOccupancy(8, 8)
	layouts := compute.NewLayouts()

	if err := p.RebuildBindings(layouts, &dummyParams{}, occ); err != nil {
		t.Fatalf("RebuildBindings: %v", err)
	}

	p.Recreate(16, 16)

	if w, h := p.Dims(); w != 16 || h != 16 {
		t.Fatalf("Dims after recreate = %dx%d, want 16x16", w, h)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic from stale bindings after Recreate")
		}
	}()
	p.RDBindings()
}

func TestPingPongRebuildDimensionCheck(t *testing.T) {
	p := NewPingPong(16, 16)
	occ := NewOccupancy(8, 8)
	layouts := compute.NewLayouts()

	if err := p.RebuildBindings(layouts, &dummyParams{}, occ); err == nil {
		t.Error("expected error for occupancy/grid dimension mismatch")
	}
	if err := p.RebuildAgentBindings(layouts, &dummyAgents{}, &dummyParams{}, occ); err == nil {
		t.Error("expected error for occupancy/grid dimension mismatch")
	}
}

func TestPingPongRecreateZeroes(t *testing.T) {
	p := NewPingPong(4, 4)
	p.Front().Set(2, 2, 9, 9)

	p.Recreate(4, 4)
	if r, w := p.Front().At(2, 2); r != 0 || w != 0 {
		t.Errorf("recreated buffer not zeroed: (%v, %v)", r, w)
	}
}

func TestPingPongRenderBindingsFollowFront(t *testing.T) {
	p := NewPingPong(8, 8)
	occ := NewOccupancy(8, 8)
	layouts := compute.NewLayouts()

	if err := p.RebuildBindings(layouts, &dummyParams{}, occ); err != nil {
		t.Fatalf("RebuildBindings: %v", err)
	}

	rb := p.RenderBindings()
	if rb.Layout() != layouts.FieldRender {
		t.Errorf("render bindings built against layout %q", rb.Layout().Name)
	}
	if rb.Resource(0).(*SampleView).Grid() != p.Front() {
		t.Error("render bindings do not expose the front buffer")
	}
	if rb.Label() != "render_a" {
		t.Errorf("front-A render bindings labeled %q", rb.Label())
	}

	p.Swap()
	rb = p.RenderBindings()
	if rb.Resource(0).(*SampleView).Grid() != p.Front() {
		t.Error("render bindings did not follow the swap")
	}
	if rb.Label() != "render_b" {
		t.Errorf("front-B render bindings labeled %q", rb.Label())
	}

	p.Recreate(8, 8)
	defer func() {
		if recover() == nil {
			t.Error("stale render bindings did not panic after Recreate")
		}
	}()
	p.RenderBindings()
}
