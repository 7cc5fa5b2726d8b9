package compute

import (
	"sync/atomic"
	"testing"
)

// counterBuffer records which items a dispatch touched.
type counterBuffer struct {
	hits []uint32
}

func (*counterBuffer) BindingKind() SlotKind { return StorageBuffer }

func counterLayout() *Layout {
	return &Layout{
		Name:  "counter",
		Slots: []Slot{{Name: "counts", Kind: StorageBuffer}},
	}
}

func countKernel(i int, b *BindingSet) {
	buf := b.Resource(0).(*counterBuffer)
	atomic.AddUint32(&buf.hits[i], 1)
}

func TestDispatchRunsEveryItemOnce(t *testing.T) {
	// Both below and above the single-threaded threshold.
	for _, n := range []int{1, 10, 63, 64, 100, 1000, 4096} {
		layout := counterLayout()
		pipe := MustPipeline("count", layout, countKernel)
		buf := &counterBuffer{hits: make([]uint32, n)}
		bind := MustBindingSet("count", layout, buf)

		q := NewQueue()
		q.Dispatch(pipe, bind, n)
		q.Close()

		for i, h := range buf.hits {
			if h != 1 {
				t.Fatalf("n=%d: item %d ran %d times, want 1", n, i, h)
			}
		}
	}
}

func TestDispatchBarrier(t *testing.T) {
	// Writes from one dispatch must be visible to the next.
	layout := counterLayout()
	pipe := MustPipeline("count", layout, countKernel)
	buf := &counterBuffer{hits: make([]uint32, 2048)}
	bind := MustBindingSet("count", layout, buf)

	q := NewQueue()
	defer q.Close()

	for pass := 1; pass <= 3; pass++ {
		q.Dispatch(pipe, bind, len(buf.hits))
		for i, h := range buf.hits {
			if int(h) != pass {
				t.Fatalf("after pass %d: item %d at %d", pass, i, h)
			}
		}
	}
}

func TestDispatchZeroItems(t *testing.T) {
	layout := counterLayout()
	pipe := MustPipeline("count", layout, countKernel)
	bind := MustBindingSet("count", layout, &counterBuffer{})

	q := NewQueue()
	defer q.Close()
	q.Dispatch(pipe, bind, 0)
}

func TestDispatchLayoutMismatchPanics(t *testing.T) {
	pipe := MustPipeline("count", counterLayout(), countKernel)
	// Structurally identical layout, different identity.
	otherBind := MustBindingSet("other", counterLayout(), &counterBuffer{hits: make([]uint32, 1)})

	q := NewQueue()
	defer q.Close()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for binding set built against a different layout")
		}
	}()
	q.Dispatch(pipe, otherBind, 1)
}

func TestQueueCloseIdempotent(t *testing.T) {
	q := NewQueue()
	layout := counterLayout()
	pipe := MustPipeline("count", layout, countKernel)
	buf := &counterBuffer{hits: make([]uint32, 256)}
	bind := MustBindingSet("count", layout, buf)
	q.Dispatch(pipe, bind, len(buf.hits))

	q.Close()
	q.Close()
}
