package sim

import (
	"context"
	"time"

	"github.com/san-kum/webcloth/internal/render"
)

// Scheduler paces a Simulator: one Frame per call to Advance, plus an
// ambient-ripple roll on its own fixed cadence that does not depend on the
// frame rate.
type Scheduler struct {
	sim *Simulator

	FrameInterval   time.Duration
	AmbientInterval time.Duration
	AmbientTicks    int

	nextAmbient time.Duration
	started     bool
}

func NewScheduler(s *Simulator) *Scheduler {
	return &Scheduler{
		sim:             s,
		FrameInterval:   s.opts.FrameInterval(),
		AmbientInterval: s.opts.AmbientInterval,
	}
}

func (sc *Scheduler) Simulator() *Simulator { return sc.sim }

// Advance runs the frame for now. The first ambient roll happens one
// AmbientInterval after the first call and each roll schedules the next one
// a full interval later, so a host that stalls gets a single roll.
func (sc *Scheduler) Advance(now time.Duration, surface render.Surface) error {
	if !sc.started {
		sc.nextAmbient = now + sc.AmbientInterval
		sc.started = true
	}
	if sc.AmbientInterval > 0 && now >= sc.nextAmbient {
		sc.sim.AmbientTick(now)
		sc.AmbientTicks++
		sc.nextAmbient = now + sc.AmbientInterval
	}
	return sc.sim.Frame(now, surface)
}

// Restart forgets the ambient deadline, for use after a resize or reset.
func (sc *Scheduler) Restart() { sc.started = false }

// Run drives frames from a wall-clock ticker until ctx is done or onFrame
// returns false. onFrame may be nil.
func (sc *Scheduler) Run(ctx context.Context, surface render.Surface, onFrame func(now time.Duration) bool) error {
	ticker := time.NewTicker(sc.FrameInterval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-ticker.C:
			now := t.Sub(start)
			if err := sc.Advance(now, surface); err != nil {
				return err
			}
			if onFrame != nil && !onFrame(now) {
				return nil
			}
		}
	}
}

// RunFrames advances n frames on a virtual clock spaced FrameInterval apart,
// as fast as possible. Metrics are reset first and reported in the result.
func (sc *Scheduler) RunFrames(ctx context.Context, n int, surface render.Surface) (*Result, error) {
	for _, m := range sc.sim.metrics {
		m.Reset()
	}

	result := &Result{Metrics: make(map[string]float64)}
	base := sc.sim.now
	spawned := sc.sim.spawned
	start := time.Now()

	for i := 1; i <= n; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		now := base + time.Duration(i)*sc.FrameInterval
		if err := sc.Advance(now, surface); err != nil {
			return result, err
		}
		result.Frames++
		result.Elapsed = now - base
	}

	result.Wall = time.Since(start)
	result.Ripples = sc.sim.spawned - spawned
	for _, m := range sc.sim.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}
