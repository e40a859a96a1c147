package engine

import (
	"fmt"
	"math"
	"sync/atomic"

	"homeolife/internal/core"
)

// cellRule applies B3/S23 to one cell given its live-neighbor sum.
func cellRule(current uint8, sum int) uint8 {
	if current == 1 {
		if sum == 2 || sum == 3 {
			return 1
		}
		return 0
	}
	if sum == 3 {
		return 1
	}
	return 0
}

// neighborSum reads the eight toroidal neighbors of (x, y) from cells.
// Branch-form wrapping: each axis clamps to the opposite edge instead of
// taking a modulo, so the hot loop never divides.
func neighborSum(cells []uint8, w, h, x, y int) int {
	left := x - 1
	if x == 0 {
		left = w - 1
	}
	right := x + 1
	if x == w-1 {
		right = 0
	}
	above := y - 1
	if y == 0 {
		above = h - 1
	}
	below := y + 1
	if y == h-1 {
		below = 0
	}
	return int(cells[above*w+left]) + int(cells[above*w+x]) + int(cells[above*w+right]) +
		int(cells[y*w+left]) + int(cells[y*w+right]) +
		int(cells[below*w+left]) + int(cells[below*w+x]) + int(cells[below*w+right])
}

type kernelStatus int32

const (
	kernelPending kernelStatus = iota
	kernelReady
	kernelFailed
)

// kernel tracks the asynchronous specialization of one dispatchable routine.
// The compile goroutine publishes its result through finish; readers observe
// it through state, whose atomic load orders the compiled closure behind the
// status flip.
type kernel struct {
	name   string
	err    error // written before status flips to kernelFailed
	status atomic.Int32
}

func (k *kernel) finish(err error) {
	if err != nil {
		k.err = err
		k.status.Store(int32(kernelFailed))
		return
	}
	k.status.Store(int32(kernelReady))
}

func (k *kernel) state() kernelStatus { return kernelStatus(k.status.Load()) }

// compileErr returns the failure wrapped in the fatal taxonomy, or nil.
func (k *kernel) compileErr() error {
	if k.state() != kernelFailed {
		return nil
	}
	return &CompileError{Kernel: k.name, Err: k.err}
}

// program holds the three kernels of the generation pipeline and the
// specialized per-cell closures they compile to. A closure may only be called
// after its kernel reports ready.
type program struct {
	init   kernel
	count  kernel
	update kernel

	// seedCell returns the initial state of (x, y).
	seedCell func(x, y int) uint8
	// resetCount zeroes a generation counter.
	resetCount func(c *atomic.Uint32)
	// updateCell advances one cell: reads src, writes dst[y*w+x] and returns
	// the cell's population contribution (0 or 1). settled is the previous
	// generation's finished total.
	updateCell func(src, dst []uint8, x, y int, settled uint32) uint32
}

// newProgram begins specializing all three kernels against cfg in the
// background. Readiness is observed by the pipeline loader.
func newProgram(cfg Config) *program {
	p := &program{}
	p.init.name = "init"
	p.count.name = "count_reset"
	p.update.name = "update"

	go p.compileInit(cfg)
	go p.compileCount(cfg)
	go p.compileUpdate(cfg)
	return p
}

func (p *program) compileInit(cfg Config) {
	threshold := 1 - cfg.SeedDensity
	salt := cfg.Salt
	p.seedCell = func(x, y int) uint8 {
		if core.Float01(core.Hash32(core.CoordSeed(x, y)^salt)) > threshold {
			return 1
		}
		return 0
	}
	p.init.finish(nil)
}

func (p *program) compileCount(cfg Config) {
	p.resetCount = func(c *atomic.Uint32) { c.Store(0) }
	p.count.finish(nil)
}

func (p *program) compileUpdate(cfg Config) {
	w, h := cfg.Width, cfg.Height
	total := uint64(w) * uint64(h)
	if total > math.MaxUint32 {
		p.update.finish(fmt.Errorf("population counter is 32-bit, grid has %d cells", total))
		return
	}
	floor := uint32(float64(total) * cfg.FloorFraction)
	reseed := cfg.ReseedChance
	salt := cfg.Salt
	p.updateCell = func(src, dst []uint8, x, y int, settled uint32) uint32 {
		idx := y*w + x
		next := cellRule(src[idx], neighborSum(src, w, h, x, y))
		if next == 0 && settled < floor {
			if core.Float01(core.Hash32(core.CoordSeed(x, y)^salt)) < reseed {
				next = 1
			}
		}
		dst[idx] = next
		return uint32(next)
	}
	p.update.finish(nil)
}
