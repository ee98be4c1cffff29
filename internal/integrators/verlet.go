package integrators

import (
	"math"

	"github.com/san-kum/webcloth/internal/environment"
	"github.com/san-kum/webcloth/internal/lattice"
	"github.com/san-kum/webcloth/internal/pointer"
)

const (
	DefaultDamping         = 0.97
	DefaultGravity         = 0.25
	DefaultSway            = 0.2
	DefaultInfluenceRadius = pointer.DefaultInfluenceRadius

	restEpsilon   = 0.1
	restScale     = 100.0
	restExponent  = 1.5
	pullFactor    = 0.01
	dragFactor    = 0.2
	strengthBoost = 2.0
)

type Params struct {
	Damping         float64
	Gravity         float64
	Sway            float64
	InfluenceRadius float64
	// Repel pushes particles away from the pointer instead of pulling them in.
	Repel bool
}

func DefaultParams() Params {
	return Params{
		Damping:         DefaultDamping,
		Gravity:         DefaultGravity,
		Sway:            DefaultSway,
		InfluenceRadius: DefaultInfluenceRadius,
	}
}

// Verlet advances particles with position Verlet: the velocity is the delta
// between the current and previous position, damped every step. External
// terms are added straight to the position, so they become velocity on the
// next step.
type Verlet struct {
	Params Params
}

func NewVerlet(p Params) *Verlet {
	return &Verlet{Params: p}
}

// Step integrates every unpinned particle once. ptr may be nil.
func (v *Verlet) Step(l *lattice.Lattice, w *environment.Wind, ptr *pointer.State) {
	influence := ptr != nil && ptr.Influences()
	t := w.Clock

	for i := range l.Particles {
		p := &l.Particles[i]
		if p.Pinned {
			continue
		}

		vx := (p.X - p.PrevX) * v.Params.Damping
		vy := (p.Y - p.PrevY) * v.Params.Damping
		p.PrevX, p.PrevY = p.X, p.Y
		p.X += vx
		p.Y += vy

		p.Y += v.Params.Gravity * p.Mass

		p.X += math.Cos(w.Direction+(p.Y/l.Height)*2) * w.Force
		p.Y += math.Sin(w.Direction+(p.X/l.Width)*2) * w.Force * 0.5

		p.X += math.Sin(t*0.5+p.OrigY/50) * v.Params.Sway
		p.Y += math.Cos(t*0.4+p.OrigX/50) * v.Params.Sway

		v.restore(p)

		if influence {
			v.applyPointer(p, ptr)
		}
	}
}

// restore pulls p toward its rest position; the pull grows superlinearly
// with the distance.
func (v *Verlet) restore(p *lattice.Particle) {
	dx, dy := p.OrigX-p.X, p.OrigY-p.Y
	d := math.Hypot(dx, dy)
	if d <= restEpsilon {
		return
	}
	k := p.ReturnSpeed * (1 + math.Pow(d/restScale, restExponent))
	p.X += dx * k
	p.Y += dy * k
}

func (v *Verlet) applyPointer(p *lattice.Particle, ptr *pointer.State) {
	dx, dy := ptr.X-p.X, ptr.Y-p.Y
	if v.Params.Repel {
		dx, dy = -dx, -dy
	}
	d := math.Hypot(dx, dy)
	r := v.Params.InfluenceRadius
	if d >= r {
		return
	}
	s := (1 - d/r) * strengthBoost * ptr.Strength
	p.X += dx * s * pullFactor
	p.Y += dy * s * pullFactor
	p.X += ptr.VelX * s * dragFactor
	p.Y += ptr.VelY * s * dragFactor
}
