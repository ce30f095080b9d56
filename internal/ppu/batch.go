package ppu

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// parallelThreshold is the smallest run worth spreading over workers.
const parallelThreshold = 8

// Batch is a contiguous run [start, start+count) of scanlines waiting to render.
// It has a single producer and is not safe for concurrent Enqueue/Flush calls.
type Batch struct {
	lines   []Line
	start   int
	count   int
	workers int
}

func newBatch(lines []Line, workers int) *Batch {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Batch{lines: lines, workers: workers}
}

// Len returns the number of queued lines.
func (b *Batch) Len() int { return b.count }

// Start returns the first queued line; meaningless when Len is 0.
func (b *Batch) Start() int { return b.start }

// Enqueue appends line y to the run. A line that does not extend the run
// contiguously flushes the run first.
func (b *Batch) Enqueue(y int) {
	if b.count > 0 && y != b.start+b.count {
		b.Flush()
	}
	if b.count == 0 {
		b.start = y
	}
	b.count++
}

// Flush renders every queued line and empties the run. Lines write disjoint
// output rows, so no ordering is needed between them.
func (b *Batch) Flush() {
	if b.count == 0 {
		return
	}
	run := b.lines[b.start : b.start+b.count]
	if b.count < parallelThreshold || b.workers == 1 {
		for i := range run {
			run[i].render()
		}
	} else {
		var g errgroup.Group
		g.SetLimit(b.workers)
		for i := range run {
			l := &run[i]
			g.Go(func() error {
				l.render()
				return nil
			})
		}
		g.Wait()
	}
	b.start, b.count = 0, 0
}
