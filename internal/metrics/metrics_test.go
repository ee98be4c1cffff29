package metrics

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/webcloth/internal/lattice"
	"github.com/san-kum/webcloth/internal/sim"
)

func restLattice() *lattice.Lattice {
	return lattice.Build(500, 500, lattice.DefaultOptions(), rand.New(rand.NewSource(1)))
}

func TestKineticEnergy(t *testing.T) {
	l := restLattice()
	if e := KineticEnergyOf(l); e != 0 {
		t.Errorf("expected zero energy at rest, got %v", e)
	}

	p := l.At(5, 5)
	p.PrevX -= 2
	want := 0.5 * p.Mass * 4

	m := NewKineticEnergy()
	m.Observe(l, 0)
	if math.Abs(m.Last()-want) > 1e-12 {
		t.Errorf("expected energy %v, got %v", want, m.Last())
	}

	p.PrevX += 2
	m.Observe(l, 0)
	if math.Abs(m.Value()-want/2) > 1e-12 {
		t.Errorf("expected mean %v, got %v", want/2, m.Value())
	}

	m.Reset()
	if m.Value() != 0 || m.Last() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestKineticEnergyIgnoresPinned(t *testing.T) {
	l := restLattice()
	l.At(0, 0).PrevX -= 5
	if e := KineticEnergyOf(l); e != 0 {
		t.Errorf("pinned particles carry no energy, got %v", e)
	}
}

func TestMaxDisplacement(t *testing.T) {
	l := restLattice()
	m := NewMaxDisplacement()

	l.At(3, 3).X += 30
	m.Observe(l, 0)
	l.At(3, 3).X -= 20
	m.Observe(l, 0)

	if math.Abs(m.Value()-30) > 1e-9 {
		t.Errorf("expected peak 30, got %v", m.Value())
	}
	if math.Abs(m.Last()-10) > 1e-9 {
		t.Errorf("expected last 10, got %v", m.Last())
	}
}

func TestStability(t *testing.T) {
	l := restLattice()
	s := NewStability(50)
	if s.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %v", s.Value())
	}

	s.Observe(l, 0)
	l.At(2, 2).Y += 80
	s.Observe(l, 0)

	if s.Value() != 0.5 {
		t.Errorf("expected 0.5, got %v", s.Value())
	}
}

func TestConstraintResidual(t *testing.T) {
	l := restLattice()
	m := NewConstraintResidual()
	m.Observe(l, 0)
	base := m.Last()

	l.At(4, 4).X += 25
	m.Observe(l, 0)
	if m.Last() <= base {
		t.Errorf("expected residual to grow when stretched, %v -> %v", base, m.Last())
	}
	if m.Value() <= base || m.Value() >= m.Last() {
		t.Errorf("expected mean between samples, got %v", m.Value())
	}
}

func TestRegistry(t *testing.T) {
	names := Names()
	if len(names) != 4 {
		t.Fatalf("expected 4 metrics, got %v", names)
	}
	for _, n := range names {
		m, err := Get(n)
		if err != nil {
			t.Fatalf("Get(%q): %v", n, err)
		}
		if m.Name() != n {
			t.Errorf("metric registered as %q reports %q", n, m.Name())
		}
	}
	if _, err := Get("nope"); err == nil {
		t.Error("expected error for unknown metric")
	}

	var _ sim.Metric = NewKineticEnergy()
	if len(All()) != 4 {
		t.Error("All must return every metric")
	}
}

func TestMetricsDuringRun(t *testing.T) {
	s := sim.New(500, 500, sim.DefaultOptions())
	md := NewMaxDisplacement()
	s.AddMetric(md)
	s.Ripple(250, 250, 0)

	res, err := sim.NewScheduler(s).RunFrames(context.Background(), 60, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Metrics["max_displacement"] <= 0 {
		t.Errorf("expected the web to move, got %v", res.Metrics["max_displacement"])
	}
}
