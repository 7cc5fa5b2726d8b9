package compute

import (
	"strings"
	"testing"
)

type fakeResource struct {
	kind SlotKind
}

func (f *fakeResource) BindingKind() SlotKind { return f.kind }

func testLayout() *Layout {
	return &Layout{
		Name: "test",
		Slots: []Slot{
			{Name: "field", Kind: SampledField},
			{Name: "params", Kind: UniformBuffer},
		},
	}
}

func TestNewBindingSet(t *testing.T) {
	layout := testLayout()
	b, err := NewBindingSet("ok", layout,
		&fakeResource{SampledField}, &fakeResource{UniformBuffer})
	if err != nil {
		t.Fatalf("NewBindingSet failed: %v", err)
	}
	if b.Label() != "ok" {
		t.Errorf("label: got %q, want %q", b.Label(), "ok")
	}
	if b.Layout() != layout {
		t.Error("layout pointer not preserved")
	}
	if b.Resource(0).BindingKind() != SampledField {
		t.Error("slot 0 resource mismatch")
	}
}

func TestNewBindingSetArityMismatch(t *testing.T) {
	_, err := NewBindingSet("short", testLayout(), &fakeResource{SampledField})
	if err == nil {
		t.Fatal("expected error for missing resource")
	}
}

func TestNewBindingSetKindMismatch(t *testing.T) {
	_, err := NewBindingSet("wrong", testLayout(),
		&fakeResource{UniformBuffer}, &fakeResource{SampledField})
	if err == nil {
		t.Fatal("expected error for kind mismatch")
	}
	if !strings.Contains(err.Error(), "field") {
		t.Errorf("error should name the offending slot, got: %v", err)
	}
}

func TestNewBindingSetNilResource(t *testing.T) {
	_, err := NewBindingSet("nil", testLayout(),
		&fakeResource{SampledField}, nil)
	if err == nil {
		t.Fatal("expected error for nil resource")
	}
}

func TestMustBindingSetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic from invalid MustBindingSet")
		}
	}()
	MustBindingSet("bad", testLayout(), &fakeResource{UniformBuffer}, &fakeResource{UniformBuffer})
}

func TestSlotKindString(t *testing.T) {
	cases := []struct {
		kind SlotKind
		want string
	}{
		{SampledField, "sampled-field"},
		{StorageField, "storage-field"},
		{UniformBuffer, "uniform"},
		{StorageBuffer, "storage-buffer"},
		{AgentBuffer, "agent-buffer"},
	}
	for _, tc := range cases {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("SlotKind(%d).String() = %q, want %q", tc.kind, got, tc.want)
		}
	}
}
