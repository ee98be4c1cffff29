package sim

import (
	"time"

	"github.com/san-kum/webcloth/internal/environment"
	"github.com/san-kum/webcloth/internal/integrators"
	"github.com/san-kum/webcloth/internal/lattice"
	"github.com/san-kum/webcloth/internal/pointer"
	"github.com/san-kum/webcloth/internal/render"
	"github.com/san-kum/webcloth/internal/ripple"
	"github.com/san-kum/webcloth/internal/solver"
)

const (
	DefaultSelectFraction  = 0.7
	DefaultAmbientChance   = 0.02
	DefaultAmbientInterval = time.Second
	DefaultFPS             = 60
)

// Options is everything a Simulator is built from.
type Options struct {
	Grid       lattice.Options
	Physics    integrators.Params
	Stiffness  float64
	Iterations int

	IdleThreshold time.Duration
	DecayRate     float64
	// SelectFraction of the influence radius within which a press lands on a
	// particle instead of spawning a ripple.
	SelectFraction float64

	Ripple          ripple.Params
	AmbientChance   float64
	AmbientInterval time.Duration

	WindEnabled bool
	ClockStep   float64
	FlipChance  float64

	Palette       render.Palette
	FPS           int
	Seed          int64
	ValidateState bool
}

func DefaultOptions() Options {
	return Options{
		Grid:            lattice.DefaultOptions(),
		Physics:         integrators.DefaultParams(),
		Stiffness:       solver.DefaultStiffness,
		Iterations:      solver.DefaultIterations,
		IdleThreshold:   pointer.DefaultIdleThreshold,
		DecayRate:       pointer.DefaultDecayRate,
		SelectFraction:  DefaultSelectFraction,
		Ripple:          ripple.DefaultParams(),
		AmbientChance:   DefaultAmbientChance,
		AmbientInterval: DefaultAmbientInterval,
		WindEnabled:     true,
		ClockStep:       environment.DefaultClockStep,
		FlipChance:      environment.DefaultFlipChance,
		Palette:         render.PaletteBlush,
		FPS:             DefaultFPS,
		Seed:            1,
		ValidateState:   true,
	}
}

// FrameInterval is the wall-clock time between frames at the configured FPS.
func (o Options) FrameInterval() time.Duration {
	if o.FPS <= 0 {
		return time.Second / DefaultFPS
	}
	return time.Second / time.Duration(o.FPS)
}

// Metric accumulates a value over the frames of a run.
type Metric interface {
	Name() string
	Observe(l *lattice.Lattice, now time.Duration)
	Value() float64
	Reset()
}

// Observer is told about every completed step.
type Observer interface {
	OnStep(frame int, now time.Duration, l *lattice.Lattice)
}

type Result struct {
	Frames  int
	Elapsed time.Duration
	Wall    time.Duration
	Ripples int
	Metrics map[string]float64
}
