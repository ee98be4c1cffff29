// Package environment models the ambient wind acting on the web.
//
// The wind is a deterministic function of a monotonically increasing clock,
// except for rare permanent sign flips drawn from the supplied RNG.
package environment

import (
	"math"
	"math/rand"
)

const (
	DefaultClockStep  = 0.01
	DefaultFlipChance = 0.001
)

type Wind struct {
	Clock      float64
	Force      float64
	Direction  float64
	ClockStep  float64
	FlipChance float64
	Enabled    bool

	sign float64
}

func NewWind() *Wind {
	return &Wind{
		ClockStep:  DefaultClockStep,
		FlipChance: DefaultFlipChance,
		Enabled:    true,
		sign:       1,
	}
}

// Advance moves the clock one tick and recomputes force and direction.
func (w *Wind) Advance(rng *rand.Rand) {
	w.Clock += w.ClockStep
	w.Direction = w.Clock * 0.1
	if !w.Enabled {
		w.Force = 0
		return
	}
	if rng != nil && rng.Float64() < w.FlipChance {
		w.sign = -w.sign
	}
	w.Force = w.sign * Force(w.Clock)
}

// Sign is +1 or -1 depending on how many regime flips have happened.
func (w *Wind) Sign() float64 { return w.sign }

func (w *Wind) Reset() {
	w.Clock, w.Force, w.Direction, w.sign = 0, 0, 0, 1
}

// Force is the unflipped wind strength at clock t.
func Force(t float64) float64 {
	return math.Sin(t*0.2)*0.2 + math.Sin(t*0.5)*0.1
}
