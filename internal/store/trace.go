package store

import (
	"time"

	"github.com/san-kum/webcloth/internal/lattice"
	"github.com/san-kum/webcloth/internal/metrics"
	"github.com/san-kum/webcloth/internal/solver"
)

// Sample is the state of the web after one frame.
type Sample struct {
	Frame           int     `json:"frame"`
	Time            float64 `json:"time"`
	MaxDisplacement float64 `json:"max_displacement"`
	KineticEnergy   float64 `json:"kinetic_energy"`
	Residual        float64 `json:"residual"`
}

// Trace records a Sample every Every frames. It is a sim.Observer.
type Trace struct {
	Every   int
	Samples []Sample
}

func NewTrace(every int) *Trace {
	if every < 1 {
		every = 1
	}
	return &Trace{Every: every}
}

func (t *Trace) OnStep(frame int, now time.Duration, l *lattice.Lattice) {
	if frame%t.Every != 0 {
		return
	}
	t.Samples = append(t.Samples, Sample{
		Frame:           frame,
		Time:            now.Seconds(),
		MaxDisplacement: metrics.MaxDisplacementOf(l),
		KineticEnergy:   metrics.KineticEnergyOf(l),
		Residual:        solver.Residual(l),
	})
}

// Column returns one field of every sample, for plotting.
func (t *Trace) Column(name string) []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		switch name {
		case "max_displacement":
			out[i] = s.MaxDisplacement
		case "kinetic_energy":
			out[i] = s.KineticEnergy
		case "residual":
			out[i] = s.Residual
		default:
			out[i] = s.Time
		}
	}
	return out
}
