package engine

import (
	"errors"
	"testing"
)

func blankProgram() *program {
	p := &program{}
	p.init.name = "init"
	p.count.name = "count_reset"
	p.update.name = "update"
	return p
}

func TestLoaderStaysInLoadingUntilInitReady(t *testing.T) {
	p := blankProgram()
	var l pipelineLoader
	for i := 0; i < 3; i++ {
		phase, _, err := l.poll(p)
		if err != nil {
			t.Fatalf("poll %d: %v", i, err)
		}
		if phase != PhaseLoading {
			t.Fatalf("poll %d: phase %v, want loading", i, phase)
		}
	}
}

func TestLoaderSequenceToUpdate(t *testing.T) {
	p := blankProgram()
	p.init.finish(nil)
	p.count.finish(nil)
	p.update.finish(nil)

	var l pipelineLoader
	phase, _, err := l.poll(p)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if phase != PhaseInit {
		t.Fatalf("first poll: phase %v, want init", phase)
	}

	phase, parity, err := l.poll(p)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if phase != PhaseUpdate || parity != 1 {
		t.Fatalf("second poll: phase %v parity %d, want update parity 1", phase, parity)
	}

	// From here the parity alternates unconditionally.
	want := 0
	for i := 0; i < 6; i++ {
		phase, parity, err = l.poll(p)
		if err != nil {
			t.Fatalf("poll: %v", err)
		}
		if phase != PhaseUpdate || parity != want {
			t.Fatalf("toggle %d: phase %v parity %d, want update parity %d", i, phase, parity, want)
		}
		want = 1 - want
	}
}

func TestLoaderHoldsInitUntilAllKernelsReady(t *testing.T) {
	p := blankProgram()
	p.init.finish(nil)
	p.update.finish(nil) // count kernel still compiling

	var l pipelineLoader
	if phase, _, _ := l.poll(p); phase != PhaseInit {
		t.Fatalf("phase = %v, want init", phase)
	}
	for i := 0; i < 3; i++ {
		if phase, _, _ := l.poll(p); phase != PhaseInit {
			t.Fatalf("poll %d: left init before count kernel was ready", i)
		}
	}
	p.count.finish(nil)
	if phase, parity, _ := l.poll(p); phase != PhaseUpdate || parity != 1 {
		t.Fatalf("phase = %v parity %d, want update parity 1", phase, parity)
	}
}

func TestLoaderSurfacesCompileFailure(t *testing.T) {
	p := blankProgram()
	p.init.finish(errors.New("bad entry point"))

	var l pipelineLoader
	_, _, err := l.poll(p)
	var cerr *CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("poll error = %v, want *CompileError", err)
	}
	if cerr.Kernel != "init" {
		t.Fatalf("failed kernel = %q, want init", cerr.Kernel)
	}
	// The failure is fatal: the loader never leaves Loading.
	if phase, _, _ := l.poll(p); phase != PhaseLoading {
		t.Fatalf("phase = %v after compile failure, want loading", phase)
	}
}

func TestLoaderSurfacesUpdateCompileFailureDuringInit(t *testing.T) {
	p := blankProgram()
	p.init.finish(nil)
	p.count.finish(nil)
	p.update.finish(errors.New("register spill"))

	var l pipelineLoader
	if phase, _, _ := l.poll(p); phase != PhaseInit {
		t.Fatalf("phase = %v, want init", phase)
	}
	_, _, err := l.poll(p)
	var cerr *CompileError
	if !errors.As(err, &cerr) || cerr.Kernel != "update" {
		t.Fatalf("poll error = %v, want update *CompileError", err)
	}
}
