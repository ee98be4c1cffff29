package sim

import (
	"math/rand"
	"time"

	"github.com/san-kum/webcloth/internal/environment"
	"github.com/san-kum/webcloth/internal/integrators"
	"github.com/san-kum/webcloth/internal/lattice"
	"github.com/san-kum/webcloth/internal/pointer"
	"github.com/san-kum/webcloth/internal/render"
	"github.com/san-kum/webcloth/internal/ripple"
	"github.com/san-kum/webcloth/internal/solver"
)

// Simulator owns one web: its lattice, pointer, wind, pending ripples and
// random source. It is not safe for concurrent use; hosts drive it from a
// single goroutine.
type Simulator struct {
	opts Options

	lattice  *lattice.Lattice
	ptr      *pointer.State
	wind     *environment.Wind
	ripples  *ripple.Queue
	verlet   *integrators.Verlet
	relaxer  *solver.Relaxer
	renderer *render.Renderer
	rng      *rand.Rand

	frame     int
	now       time.Duration
	spawned   int
	metrics   []Metric
	observers []Observer
}

func New(width, height float64, opts Options) *Simulator {
	s := &Simulator{
		opts:     opts,
		ptr:      pointer.New(),
		wind:     environment.NewWind(),
		ripples:  ripple.NewQueue(opts.Ripple),
		verlet:   integrators.NewVerlet(opts.Physics),
		relaxer:  solver.NewRelaxer(opts.Stiffness, opts.Iterations),
		renderer: render.New(opts.Palette),
		rng:      rand.New(rand.NewSource(opts.Seed)),
	}
	s.ptr.IdleThreshold = opts.IdleThreshold
	s.ptr.DecayRate = opts.DecayRate
	s.wind.Enabled = opts.WindEnabled
	s.wind.ClockStep = opts.ClockStep
	s.wind.FlipChance = opts.FlipChance
	s.Resize(width, height, 0)
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Options() Options            { return s.opts }
func (s *Simulator) Lattice() *lattice.Lattice   { return s.lattice }
func (s *Simulator) Pointer() *pointer.State     { return s.ptr }
func (s *Simulator) Wind() *environment.Wind     { return s.wind }
func (s *Simulator) Ripples() *ripple.Queue      { return s.ripples }
func (s *Simulator) Renderer() *render.Renderer  { return s.renderer }
func (s *Simulator) FrameCount() int             { return s.frame }
func (s *Simulator) Now() time.Duration          { return s.now }
func (s *Simulator) Spawned() int                { return s.spawned }
func (s *Simulator) SetPalette(p render.Palette) { s.renderer.Palette = p }
func (s *Simulator) InfluenceRadius() float64    { return s.opts.Physics.InfluenceRadius }

// Step advances the web one frame: pointer decay, wind, due ripples,
// integration and constraint relaxation, in that order.
func (s *Simulator) Step(now time.Duration) error {
	s.now = now
	s.ptr.Decay(now)
	s.wind.Advance(s.rng)
	s.ripples.Drain(s.lattice, now)
	s.verlet.Step(s.lattice, s.wind, s.ptr)
	s.relaxer.Relax(s.lattice)
	s.frame++

	for _, m := range s.metrics {
		m.Observe(s.lattice, now)
	}
	for _, o := range s.observers {
		o.OnStep(s.frame, now, s.lattice)
	}

	if s.opts.ValidateState && !s.lattice.IsValid() {
		return &StepError{Frame: s.frame, Time: now, Wrapped: ErrUnstable}
	}
	return nil
}

// Draw renders the current state. A nil surface draws nothing.
func (s *Simulator) Draw(surface render.Surface) {
	if surface == nil {
		return
	}
	s.renderer.Draw(surface, render.View{
		Lattice: s.lattice,
		Pointer: s.ptr,
		Radius:  s.opts.Physics.InfluenceRadius,
	})
}

func (s *Simulator) Frame(now time.Duration, surface render.Surface) error {
	if err := s.Step(now); err != nil {
		return err
	}
	s.Draw(surface)
	return nil
}

// Resize throws away the web and builds a new one for the viewport. The
// pointer is parked at the centre, the wind restarts and pending ripples are
// dropped.
func (s *Simulator) Resize(width, height float64, now time.Duration) {
	s.lattice = lattice.Build(width, height, s.opts.Grid, s.rng)
	s.ptr.Reset(width/2, height/2, now)
	s.wind.Reset()
	s.ripples.Clear()
	s.now = now
}

func (s *Simulator) PointerEnter(now time.Duration) { s.ptr.Enter(now) }

func (s *Simulator) PointerLeave() { s.ptr.Leave() }

func (s *Simulator) PointerMove(x, y float64, now time.Duration) { s.ptr.Move(x, y, now) }

// PointerDown presses at (x, y). A press close to a particle is reserved for
// grabbing and does nothing yet; anywhere else it starts a ripple. It reports
// whether a ripple was started.
func (s *Simulator) PointerDown(x, y float64, now time.Duration) bool {
	s.ptr.Press(x, y, now)
	limit := s.opts.Physics.InfluenceRadius * s.opts.SelectFraction
	if _, ok := s.lattice.Nearest(x, y, limit); ok {
		return false
	}
	s.Ripple(x, y, now)
	return true
}

func (s *Simulator) PointerUp() { s.ptr.Release() }

// PointerEnd is a touch lifting off: released, with the effect gone.
func (s *Simulator) PointerEnd() {
	s.ptr.Release()
	s.ptr.Strength = 0
}

// PointerCancel is an interrupted touch and behaves like leaving the surface.
func (s *Simulator) PointerCancel() { s.ptr.Leave() }

// Ripple schedules a wave from (x, y) and returns how many particles it will
// reach.
func (s *Simulator) Ripple(x, y float64, now time.Duration) int {
	s.spawned++
	return s.ripples.Schedule(s.lattice, x, y, now)
}

// AmbientTick rolls for a random ripple. Nothing happens while the pointer is
// pressed.
func (s *Simulator) AmbientTick(now time.Duration) bool {
	roll := s.rng.Float64()
	if roll >= s.opts.AmbientChance || s.ptr.Pressed {
		return false
	}
	x := s.rng.Float64() * s.lattice.Width
	y := s.rng.Float64() * s.lattice.Height
	s.Ripple(x, y, now)
	return true
}

// MaxDisplacement is the largest distance of any particle from its rest
// position.
func (s *Simulator) MaxDisplacement() float64 {
	maxD := 0.0
	for i := range s.lattice.Particles {
		if d := s.lattice.Particles[i].Displacement(); d > maxD {
			maxD = d
		}
	}
	return maxD
}
