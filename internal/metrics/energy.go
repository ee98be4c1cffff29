package metrics

import (
	"time"

	"github.com/san-kum/webcloth/internal/lattice"
)

// KineticEnergyOf sums ½·m·v² over the unpinned particles, with v the
// per-frame displacement.
func KineticEnergyOf(l *lattice.Lattice) float64 {
	var e float64
	for i := range l.Particles {
		p := &l.Particles[i]
		if p.Pinned {
			continue
		}
		vx, vy := p.Velocity()
		e += 0.5 * p.Mass * (vx*vx + vy*vy)
	}
	return e
}

// KineticEnergy is the mean kinetic energy over the observed frames.
type KineticEnergy struct {
	name    string
	total   float64
	last    float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(l *lattice.Lattice, now time.Duration) {
	k.last = KineticEnergyOf(l)
	k.total += k.last
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Last() float64 { return k.last }

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.last = 0
	k.samples = 0
}
