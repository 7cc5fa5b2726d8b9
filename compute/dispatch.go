package compute

import (
	"fmt"
	"runtime"
	"sync"
)

// dispatchThreshold is the minimum item count to use the worker pool.
// Below this, single-threaded is faster due to handoff overhead.
const dispatchThreshold = 64

// workChunk is a contiguous item range handed to one worker.
type workChunk struct {
	pipeline *Pipeline
	bindings *BindingSet
	start    int
	end      int
}

// Queue is the single logical command stream. Dispatches submitted to it
// execute in submission order; Dispatch returns only after every item of
// the pass has completed, so all writes of pass N are visible to pass N+1.
type Queue struct {
	numWorkers int

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

// NewQueue creates a queue backed by one worker per logical CPU.
func NewQueue() *Queue {
	return &Queue{numWorkers: runtime.GOMAXPROCS(0)}
}

// startWorkers launches the persistent worker goroutines.
func (q *Queue) startWorkers() {
	if q.running {
		return
	}

	q.workChan = make(chan workChunk, q.numWorkers)
	q.doneChan = make(chan struct{}, q.numWorkers)
	q.stopChan = make(chan struct{})
	q.running = true

	for i := 0; i < q.numWorkers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
}

// worker processes chunks until the queue is closed.
func (q *Queue) worker() {
	defer q.wg.Done()

	for {
		select {
		case <-q.stopChan:
			return
		case chunk, ok := <-q.workChan:
			if !ok {
				return
			}
			runChunk(chunk)
			q.doneChan <- struct{}{}
		}
	}
}

func runChunk(c workChunk) {
	for i := c.start; i < c.end; i++ {
		c.pipeline.kernel(i, c.bindings)
	}
}

// Dispatch runs n items of the pipeline against the binding set and blocks
// until all items complete. Items execute unordered; completion of Dispatch
// is the pass-to-pass barrier. The binding set must have been built against
// the pipeline's layout; a mismatch here means setup validation was
// bypassed, which is a programming error, not a runtime condition.
func (q *Queue) Dispatch(p *Pipeline, b *BindingSet, n int) {
	if b.layout != p.layout {
		panic(fmt.Sprintf("compute: dispatch %q with binding set %q built against layout %q, want %q",
			p.name, b.label, b.layout.Name, p.layout.Name))
	}
	if n <= 0 {
		return
	}

	if n < dispatchThreshold {
		runChunk(workChunk{pipeline: p, bindings: b, start: 0, end: n})
		return
	}

	if !q.running {
		q.startWorkers()
	}

	chunkSize := (n + q.numWorkers - 1) / q.numWorkers
	dispatched := 0
	for w := 0; w < q.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		q.workChan <- workChunk{pipeline: p, bindings: b, start: start, end: end}
		dispatched++
	}

	// Barrier: wait for every chunk before returning.
	for i := 0; i < dispatched; i++ {
		<-q.doneChan
	}
}

// Close stops the workers and waits for them to exit. The queue must not
// be used after Close.
func (q *Queue) Close() {
	if !q.running {
		return
	}
	close(q.stopChan)
	q.wg.Wait()
	close(q.workChan)
	close(q.doneChan)
	q.running = false
}
