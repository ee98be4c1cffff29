package solver

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/webcloth/internal/lattice"
)

func pair(x1, x2 float64, m1, m2 float64, pin1, pin2 bool) *lattice.Lattice {
	mk := func(x, m float64, pinned bool) lattice.Particle {
		return lattice.Particle{X: x, Y: 0, PrevX: x, OrigX: x, Mass: m, Pinned: pinned}
	}
	return &lattice.Lattice{
		Particles:   []lattice.Particle{mk(x1, m1, pin1), mk(x2, m2, pin2)},
		Constraints: []lattice.Constraint{{P1: 0, P2: 1, Length: 10, Strength: 1, Visible: true}},
	}
}

func separation(l *lattice.Lattice) float64 {
	p1, p2 := l.Particles[0], l.Particles[1]
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

func TestRelaxOneApproachesWithoutOvershoot(t *testing.T) {
	tests := []struct {
		name  string
		start float64
	}{
		{"stretched", 20},
		{"compressed", 4},
		{"slightly long", 10.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := pair(0, tt.start, 1, 1.3, false, false)
			r := Default()

			prevErr := math.Abs(separation(l) - 10)
			for i := 0; i < 200; i++ {
				before := separation(l) - 10
				r.RelaxOne(l, &l.Constraints[0])
				after := separation(l) - 10

				if math.Abs(after) > prevErr+1e-12 {
					t.Fatalf("step %d: error grew from %v to %v", i, prevErr, math.Abs(after))
				}
				if before != 0 && after != 0 && math.Signbit(before) != math.Signbit(after) {
					t.Fatalf("step %d: overshot rest length (%v -> %v)", i, before, after)
				}
				prevErr = math.Abs(after)
			}
			if prevErr > 1e-6 {
				t.Errorf("expected convergence to rest length, error %v", prevErr)
			}
		})
	}
}

func TestRelaxOneMassRatio(t *testing.T) {
	l := pair(0, 20, 1, 3, false, false)
	Default().RelaxOne(l, &l.Constraints[0])

	// inverse masses 1 and 1/3 split the correction 3:1
	moved1 := l.Particles[0].X
	moved2 := 20 - l.Particles[1].X
	if math.Abs(moved1-3*moved2) > 1e-12 {
		t.Errorf("expected 3:1 split, got %v and %v", moved1, moved2)
	}

	total := moved1 + moved2
	want := 10 * DefaultStiffness
	if math.Abs(total-want) > 1e-12 {
		t.Errorf("expected total correction %v, got %v", want, total)
	}
}

func TestRelaxOnePinned(t *testing.T) {
	l := pair(0, 20, 1, 1, true, false)
	Default().RelaxOne(l, &l.Constraints[0])

	if l.Particles[0].X != 0 {
		t.Errorf("pinned endpoint moved to %v", l.Particles[0].X)
	}
	want := 20 - 10*DefaultStiffness
	if math.Abs(l.Particles[1].X-want) > 1e-12 {
		t.Errorf("expected free endpoint at %v, got %v", want, l.Particles[1].X)
	}
}

func TestRelaxOneSkips(t *testing.T) {
	tests := []struct {
		name string
		l    *lattice.Lattice
	}{
		{"coincident", pair(5, 5, 1, 1, false, false)},
		{"both pinned", pair(0, 20, 1, 1, true, true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x1, x2 := tt.l.Particles[0].X, tt.l.Particles[1].X
			Default().RelaxOne(tt.l, &tt.l.Constraints[0])
			if tt.l.Particles[0].X != x1 || tt.l.Particles[1].X != x2 {
				t.Error("expected constraint to be skipped")
			}
			if math.IsNaN(tt.l.Particles[0].X) || math.IsNaN(tt.l.Particles[1].X) {
				t.Error("skip must not produce NaN")
			}
		})
	}
}

func TestRelaxReducesResidual(t *testing.T) {
	l := lattice.Build(500, 500, lattice.DefaultOptions(), rand.New(rand.NewSource(1)))
	rng := rand.New(rand.NewSource(2))
	for i := range l.Particles {
		if !l.Particles[i].Pinned {
			l.Particles[i].X += rng.Float64()*20 - 10
			l.Particles[i].Y += rng.Float64()*20 - 10
		}
	}

	r := Default()
	before := Residual(l)
	for i := 0; i < 100; i++ {
		r.Relax(l)
	}
	after := Residual(l)

	if after >= before {
		t.Errorf("expected residual to shrink, before %v after %v", before, after)
	}
	if !l.IsValid() {
		t.Error("relaxation produced invalid positions")
	}
}

func TestResidualAtRest(t *testing.T) {
	l := pair(0, 10, 1, 1, false, false)
	if r := Residual(l); r != 0 {
		t.Errorf("expected zero residual, got %v", r)
	}
	if r := Residual(&lattice.Lattice{}); r != 0 {
		t.Errorf("expected zero residual for empty lattice, got %v", r)
	}
}
