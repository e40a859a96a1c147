package engine

import (
	"errors"
	"testing"
	"time"

	"homeolife/internal/core"
)

func TestCellRuleTable(t *testing.T) {
	for sum := 0; sum <= 8; sum++ {
		wantDead := uint8(0)
		if sum == 3 {
			wantDead = 1
		}
		if got := cellRule(0, sum); got != wantDead {
			t.Fatalf("dead cell with %d neighbors -> %d, want %d", sum, got, wantDead)
		}
		wantAlive := uint8(0)
		if sum == 2 || sum == 3 {
			wantAlive = 1
		}
		if got := cellRule(1, sum); got != wantAlive {
			t.Fatalf("live cell with %d neighbors -> %d, want %d", sum, got, wantAlive)
		}
	}
}

func TestNeighborSumWrapsAroundEdges(t *testing.T) {
	const w, h = 4, 3
	cells := make([]uint8, w*h)
	cells[0] = 1 // (0,0)

	cases := []struct {
		x, y int
		want int
	}{
		{0, 0, 0}, // a cell is not its own neighbor
		{1, 1, 1},
		{1, 0, 1},
		{2, 0, 0},
		{3, 2, 1}, // opposite corner sees (0,0) through both wraps
		{0, 2, 1}, // row wrap
		{3, 0, 1}, // column wrap
		{2, 2, 0},
	}
	for _, c := range cases {
		if got := neighborSum(cells, w, h, c.x, c.y); got != c.want {
			t.Fatalf("neighborSum(%d,%d) = %d, want %d", c.x, c.y, got, c.want)
		}
	}
}

func TestNeighborSumFourCorners(t *testing.T) {
	const w, h = 5, 4
	cells := make([]uint8, w*h)
	corners := [][2]int{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}}
	for _, c := range corners {
		cells[c[1]*w+c[0]] = 1
	}
	// On a torus every corner is adjacent to the other three.
	for _, c := range corners {
		if got := neighborSum(cells, w, h, c[0], c[1]); got != 3 {
			t.Fatalf("corner (%d,%d) sum = %d, want 3", c[0], c[1], got)
		}
	}
}

func waitCompiled(t *testing.T, p *program) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for p.init.state() == kernelPending || p.count.state() == kernelPending || p.update.state() == kernelPending {
		if time.Now().After(deadline) {
			t.Fatal("kernels did not finish compiling")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestProgramSeedKernelMatchesHash(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 16
	cfg.Height = 16
	p := newProgram(cfg)
	waitCompiled(t, p)

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			want := uint8(0)
			if core.Float01(core.Hash32(core.CoordSeed(x, y))) > 1-cfg.SeedDensity {
				want = 1
			}
			if got := p.seedCell(x, y); got != want {
				t.Fatalf("seedCell(%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestProgramUpdateKernelAdvancesBlinker(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 5
	cfg.Height = 5
	cfg.FloorFraction = 0
	cfg.ReseedChance = 0
	p := newProgram(cfg)
	waitCompiled(t, p)

	src := make([]uint8, 25)
	src[1*5+2] = 1
	src[2*5+2] = 1
	src[3*5+2] = 1
	dst := make([]uint8, 25)

	var contrib uint32
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			contrib += p.updateCell(src, dst, x, y, 0)
		}
	}
	if contrib != 3 {
		t.Fatalf("blinker contribution = %d, want 3", contrib)
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			want := uint8(0)
			if y == 2 && x >= 1 && x <= 3 {
				want = 1
			}
			if dst[y*5+x] != want {
				t.Fatalf("cell (%d,%d) = %d, want %d", x, y, dst[y*5+x], want)
			}
		}
	}
}

func TestProgramCompileFailsWhenCounterOverflows(t *testing.T) {
	// 65536x65536 is the one dimension pair that passes config validation
	// but overflows the 32-bit population counter.
	cfg := DefaultConfig()
	cfg.Width = 1 << 16
	cfg.Height = 1 << 16
	p := newProgram(cfg)
	waitCompiled(t, p)

	if p.update.state() != kernelFailed {
		t.Fatalf("update kernel state = %v, want failed", p.update.state())
	}
	err := p.update.compileErr()
	var cerr *CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("compileErr = %v, want *CompileError", err)
	}
	if cerr.Kernel != "update" {
		t.Fatalf("failed kernel = %q, want update", cerr.Kernel)
	}
}
