package engine

import (
	"math"
	"sync/atomic"

	"homeolife/internal/core"
)

// bufferSet owns the two grids and two population counters the engine
// ping-pongs between. The cur index selects which pair is the read source
// this generation; swap flips it without moving any data, so within one
// generation no worker ever reads a location another worker writes.
type bufferSet struct {
	grids  [2]*core.ByteGrid
	counts [2]atomic.Uint32
	cur    int
}

// newBufferSet allocates both pairs. The counter paired with the seeded grid
// starts at the MaxUint32 sentinel: the first generation's homeostasis check
// (settled < floor) can never fire before a real count has settled.
func newBufferSet(w, h int) *bufferSet {
	b := &bufferSet{
		grids: [2]*core.ByteGrid{core.NewByteGrid(w, h), core.NewByteGrid(w, h)},
	}
	b.counts[0].Store(math.MaxUint32)
	return b
}

// currentGrid is the read source for this generation.
func (b *bufferSet) currentGrid() *core.ByteGrid { return b.grids[b.cur] }

// nextGrid is the write target for this generation.
func (b *bufferSet) nextGrid() *core.ByteGrid { return b.grids[1-b.cur] }

// currentCount is the settled population of the previous generation. This is
// the value homeostasis reads; the in-progress accumulator is never exposed.
func (b *bufferSet) currentCount() uint32 { return b.counts[b.cur].Load() }

// nextCount is the accumulator for the generation being computed. It is only
// ever reset to zero and incremented via atomic add.
func (b *bufferSet) nextCount() *atomic.Uint32 { return &b.counts[1-b.cur] }

// swap retires this generation's write targets as the next generation's read
// sources. O(1), no copy.
func (b *bufferSet) swap() { b.cur = 1 - b.cur }
