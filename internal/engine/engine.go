package engine

import (
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"homeolife/internal/core"
)

// Engine advances a homeostatic Game-of-Life board one generation per Tick.
//
// Every generation reads the current grid/counter pair and writes the next
// pair, so no worker ever reads a location any worker writes in the same
// generation. The only state shared across tiles is the next population
// counter, mutated exclusively through one atomic add per tile; everything
// else is cell-private or tile-private.
type Engine struct {
	cfg    Config
	bufs   *bufferSet
	prog   *program
	loader pipelineLoader
	log    *logrus.Logger

	seeded bool
	gen    int
}

// New validates cfg, allocates both buffer pairs and starts kernel
// specialization in the background. Readiness is observed by Tick through
// the pipeline loader; until then ticks are cheap no-ops.
func New(cfg Config) (*Engine, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:  cfg,
		bufs: newBufferSet(cfg.Width, cfg.Height),
		log:  cfg.logger(),
	}
	e.prog = newProgram(cfg)
	return e, nil
}

// Tick polls the pipeline loader and performs whatever dispatch the resulting
// state calls for. Any returned error is fatal: the engine has no degraded
// mode and must not be ticked again after a non-nil return.
func (e *Engine) Tick() error {
	phase, parity, err := e.loader.poll(e.prog)
	if err != nil {
		e.log.WithError(err).Error("pipeline load failed")
		return err
	}
	switch phase {
	case PhaseLoading:
	case PhaseInit:
		if e.seeded {
			break
		}
		if err := e.dispatchInit(); err != nil {
			e.log.WithError(err).Error("seeding dispatch failed")
			return err
		}
		e.seeded = true
		e.log.WithFields(logrus.Fields{
			"w": e.cfg.Width, "h": e.cfg.Height, "salt": e.cfg.Salt,
		}).Debug("seeded initial grid")
	case PhaseUpdate:
		if err := e.tickUpdate(); err != nil {
			e.log.WithError(err).Error("generation dispatch failed")
			return err
		}
		if e.gen == 1 {
			e.log.WithFields(logrus.Fields{"parity": parity}).Debug("entered update phase")
		}
	}
	return nil
}

// tickUpdate runs one generation: counter reset, update dispatch, swap. Both
// kernel dispatches run in this goroutine's program order, the engine's
// single command stream, which is what guarantees reset-before-accumulate
// without a cross-kernel barrier.
func (e *Engine) tickUpdate() error {
	e.prog.resetCount(e.bufs.nextCount())
	if err := e.dispatchUpdate(); err != nil {
		return &DispatchError{Kernel: e.prog.update.name, Err: err}
	}
	e.bufs.swap()
	e.gen++
	return nil
}

// dispatchInit seeds the current grid and leaves its counter at the
// bootstrap sentinel.
func (e *Engine) dispatchInit() error {
	dst := e.bufs.currentGrid().Cells()
	seed := e.prog.seedCell
	w := e.cfg.Width

	var g errgroup.Group
	g.SetLimit(e.cfg.Workers)
	e.forEachTile(func(x0, y0, x1, y1 int) {
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					dst[y*w+x] = seed(x, y)
				}
			}
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		return &DispatchError{Kernel: e.prog.init.name, Err: err}
	}
	return nil
}

// dispatchUpdate runs the per-cell kernel over every tile concurrently and
// merges the tile subtotals into the next counter, one atomic add per tile.
func (e *Engine) dispatchUpdate() error {
	src := e.bufs.currentGrid().Cells()
	dst := e.bufs.nextGrid().Cells()
	// Load the settled count once, before any worker starts: homeostasis
	// must see the previous generation's finished total, never the one being
	// accumulated now.
	settled := e.bufs.currentCount()
	counter := e.bufs.nextCount()
	cell := e.prog.updateCell

	var g errgroup.Group
	g.SetLimit(e.cfg.Workers)
	e.forEachTile(func(x0, y0, x1, y1 int) {
		g.Go(func() error {
			// Tile-local accumulator, flushed with a single atomic add so
			// global counter traffic is one operation per tile.
			var local uint32
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					local += cell(src, dst, x, y, settled)
				}
			}
			if local > 0 {
				counter.Add(local)
			}
			return nil
		})
	})
	return g.Wait()
}

// forEachTile visits every tile's clamped bounds. Edge tiles shrink when the
// grid dimensions are not divisible by the tile dimensions, so no cell is
// visited twice and no index leaves [0,W)x[0,H).
func (e *Engine) forEachTile(fn func(x0, y0, x1, y1 int)) {
	w, h := e.cfg.Width, e.cfg.Height
	tw, th := e.cfg.TileWidth, e.cfg.TileHeight
	for y0 := 0; y0 < h; y0 += th {
		for x0 := 0; x0 < w; x0 += tw {
			fn(x0, y0, min(x0+tw, w), min(y0+th, h))
		}
	}
}

// Reset reseeds the board with the provided salt and restarts the pipeline
// from Loading, respecializing the kernels so the salt is baked into the
// compiled closures.
func (e *Engine) Reset(salt uint32) {
	e.cfg.Salt = salt
	e.bufs = newBufferSet(e.cfg.Width, e.cfg.Height)
	e.prog = newProgram(e.cfg)
	e.loader = pipelineLoader{}
	e.seeded = false
	e.gen = 0
}

// Phase reports the pipeline loader state.
func (e *Engine) Phase() Phase { return e.loader.phase }

// Generation reports how many full update dispatches have completed.
func (e *Engine) Generation() int { return e.gen }

// Population reports the settled alive-cell count for the generation visible
// through Cells, or -1 while the count is still the bootstrap sentinel.
func (e *Engine) Population() int {
	c := e.bufs.currentCount()
	if c == math.MaxUint32 {
		return -1
	}
	return int(c)
}

// Cells exposes the current grid as a flat row-major 0/1 sequence. The slice
// is owned by the engine and only stable until the next Tick.
func (e *Engine) Cells() []uint8 { return e.bufs.currentGrid().Cells() }

// Snapshot copies the current grid.
func (e *Engine) Snapshot() []uint8 { return e.bufs.currentGrid().Clone() }

// Size reports the grid dimensions.
func (e *Engine) Size() core.Size { return core.Size{W: e.cfg.Width, H: e.cfg.Height} }
