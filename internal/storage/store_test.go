package storage

import (
	"context"
	"math/rand"
	"testing"

	"github.com/san-kum/cylsim/internal/geometry"
	"github.com/san-kum/cylsim/internal/metrics"
	"github.com/san-kum/cylsim/internal/physics"
	"github.com/san-kum/cylsim/internal/sim"
)

func runSimulation(t *testing.T) (*physics.System, *sim.Result) {
	t.Helper()
	sys, err := physics.NewSystem(geometry.Default(), physics.DefaultSampler(), 6, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatal(err)
	}
	s := sim.New(sys)
	s.AddMetric(metrics.NewKineticEnergy())

	cfg := sim.DefaultConfig()
	cfg.Ticks = 50
	cfg.RecordEvery = 10
	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	return sys, result
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	sys, result := runSimulation(t)
	meta := RunMetadata{
		Preset:      "default",
		Seed:        42,
		Ticks:       50,
		Particles:   sys.Len(),
		Containment: sys.Containment(),
	}

	runID, err := st.Save(meta, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Seed != 42 || loaded.Particles != 6 {
		t.Errorf("unexpected metadata %+v", loaded)
	}
	if loaded.Containment != geometry.Default() {
		t.Errorf("containment not preserved: %+v", loaded.Containment)
	}
	if loaded.Hits != result.Hits {
		t.Errorf("hits not preserved: %+v vs %+v", loaded.Hits, result.Hits)
	}
	if _, ok := loaded.Metrics["kinetic_energy"]; !ok {
		t.Error("expected kinetic_energy metric")
	}

	trace, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if len(trace) != 50 {
		t.Fatalf("expected 50 trace rows, got %d", len(trace))
	}
	if trace[49] != result.Trace[49] {
		t.Errorf("trace mismatch: %+v vs %+v", trace[49], result.Trace[49])
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 6 {
		t.Fatalf("expected 6 frames, got %d", len(frames))
	}
	last := frames[5]
	if last.Tick != 50 || len(last.Particles) != 6 {
		t.Fatalf("unexpected last frame tick=%d n=%d", last.Tick, len(last.Particles))
	}
	for i, want := range sys.View() {
		if got := last.Particles[i]; got != want {
			t.Errorf("particle %d not restored exactly: %+v vs %+v", i, got, want)
		}
	}

	// A restored frame must step exactly like the live system.
	restored, err := physics.NewSystemFrom(sys.Containment(), last.Particles)
	if err != nil {
		t.Fatal(err)
	}
	sys.Step()
	restored.Step()
	for i, want := range sys.View() {
		if got := restored.View()[i]; got != want {
			t.Errorf("particle %d diverged after restore: %+v vs %+v", i, got, want)
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list on empty store failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	_, result := runSimulation(t)
	for _, preset := range []string{"default", "dense"} {
		if _, err := st.Save(RunMetadata{Preset: preset}, result); err != nil {
			t.Fatal(err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Preset != "default" {
		t.Errorf("expected runs in save order, got %s first", runs[0].Preset)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
}
