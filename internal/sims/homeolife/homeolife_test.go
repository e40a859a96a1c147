package homeolife

import (
	"testing"
	"time"

	"homeolife/internal/core"
)

func stepUntilGeneration(t *testing.T, sim *Sim, gen int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for sim.Generation() < gen {
		if time.Now().After(deadline) {
			t.Fatalf("generation stuck at %d", sim.Generation())
		}
		sim.Step()
		time.Sleep(time.Millisecond)
	}
}

func TestRegistryFactory(t *testing.T) {
	factory, ok := core.Sims()["homeolife"]
	if !ok {
		t.Fatal("homeolife is not registered")
	}
	sim := factory(map[string]string{"w": "20", "h": "15"})
	if size := sim.Size(); size.W != 20 || size.H != 15 {
		t.Fatalf("size = %dx%d, want 20x15", size.W, size.H)
	}
	if got := len(sim.Cells()); got != 300 {
		t.Fatalf("cells length = %d, want 300", got)
	}
}

func TestStepAdvancesThroughLoading(t *testing.T) {
	sim, err := New(16, 16)
	if err != nil {
		t.Fatalf("new sim: %v", err)
	}
	if sim.Population() != -1 {
		t.Fatalf("bootstrap population = %d, want -1", sim.Population())
	}
	stepUntilGeneration(t, sim, 3)
	if sim.Population() < 0 {
		t.Fatalf("population still unsettled after %d generations", sim.Generation())
	}
}

func TestResetRestartsGenerations(t *testing.T) {
	sim, err := New(16, 16)
	if err != nil {
		t.Fatalf("new sim: %v", err)
	}
	stepUntilGeneration(t, sim, 2)
	sim.Reset(3)
	if sim.Generation() != 0 {
		t.Fatalf("generation after reset = %d, want 0", sim.Generation())
	}
	stepUntilGeneration(t, sim, 1)
}

func TestParametersSnapshot(t *testing.T) {
	sim, err := New(32, 24)
	if err != nil {
		t.Fatalf("new sim: %v", err)
	}
	snap := sim.Parameters()
	if len(snap.Groups) == 0 {
		t.Fatal("parameter snapshot has no groups")
	}
	found := map[string]string{}
	for _, g := range snap.Groups {
		for _, p := range g.Params {
			found[p.Key] = p.Value
		}
	}
	if found["w"] != "32" || found["h"] != "24" {
		t.Fatalf("snapshot dimensions = %q x %q, want 32 x 24", found["w"], found["h"])
	}
}
