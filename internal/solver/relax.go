// Package solver enforces the lattice's distance constraints.
//
// Relax runs Gauss-Seidel passes over the constraint list: each constraint
// corrects both endpoints immediately, so later constraints in the same pass
// see the corrected positions. Corrections are split by inverse mass and
// pinned particles have an inverse mass of zero.
package solver

import (
	"math"

	"github.com/san-kum/webcloth/internal/lattice"
)

const (
	DefaultStiffness  = 0.12
	DefaultIterations = 2
)

type Relaxer struct {
	Stiffness  float64
	Iterations int
}

func NewRelaxer(stiffness float64, iterations int) *Relaxer {
	return &Relaxer{Stiffness: stiffness, Iterations: iterations}
}

func Default() *Relaxer {
	return NewRelaxer(DefaultStiffness, DefaultIterations)
}

func (r *Relaxer) Relax(l *lattice.Lattice) {
	for it := 0; it < r.Iterations; it++ {
		for i := range l.Constraints {
			r.RelaxOne(l, &l.Constraints[i])
		}
	}
}

// RelaxOne moves the endpoints of c toward its rest length.
func (r *Relaxer) RelaxOne(l *lattice.Lattice, c *lattice.Constraint) {
	p1, p2 := &l.Particles[c.P1], &l.Particles[c.P2]

	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	d := math.Hypot(dx, dy)
	if d == 0 {
		return
	}

	inv1, inv2 := p1.InvMass(), p2.InvMass()
	sum := inv1 + inv2
	if sum == 0 {
		return
	}

	diff := (c.Length - d) / d
	ox := dx * diff * r.Stiffness * c.Strength
	oy := dy * diff * r.Stiffness * c.Strength

	if !p1.Pinned {
		w := inv1 / sum
		p1.X -= ox * w
		p1.Y -= oy * w
	}
	if !p2.Pinned {
		w := inv2 / sum
		p2.X += ox * w
		p2.Y += oy * w
	}
}

// Residual is the mean relative length error over all constraints.
func Residual(l *lattice.Lattice) float64 {
	if len(l.Constraints) == 0 {
		return 0
	}
	var total float64
	for _, c := range l.Constraints {
		p1, p2 := &l.Particles[c.P1], &l.Particles[c.P2]
		d := math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
		total += math.Abs(d-c.Length) / c.Length
	}
	return total / float64(len(l.Constraints))
}
