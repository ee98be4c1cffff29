package metrics

import (
	"math"
	"time"

	"github.com/san-kum/webcloth/internal/lattice"
)

// MaxDisplacementOf is the largest distance of any particle from its rest
// position.
func MaxDisplacementOf(l *lattice.Lattice) float64 {
	var d float64
	for i := range l.Particles {
		d = math.Max(d, l.Particles[i].Displacement())
	}
	return d
}

// MaxDisplacement is the peak displacement seen during a run.
type MaxDisplacement struct {
	name string
	peak float64
	last float64
}

func NewMaxDisplacement() *MaxDisplacement {
	return &MaxDisplacement{name: "max_displacement"}
}

func (m *MaxDisplacement) Name() string { return m.name }

func (m *MaxDisplacement) Observe(l *lattice.Lattice, now time.Duration) {
	m.last = MaxDisplacementOf(l)
	m.peak = math.Max(m.peak, m.last)
}

func (m *MaxDisplacement) Value() float64 { return m.peak }

func (m *MaxDisplacement) Last() float64 { return m.last }

func (m *MaxDisplacement) Reset() {
	m.peak = 0
	m.last = 0
}

// Stability is the fraction of frames in which no particle strayed farther
// than threshold from rest.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(l *lattice.Lattice, now time.Duration) {
	s.samples++
	for i := range l.Particles {
		if l.Particles[i].Displacement() > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
