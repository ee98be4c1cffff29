package sim

import (
	"context"
	"sync"
)

// Ensemble runs independent simulators with consecutive seeds in parallel.
// Nothing is shared between runs; Metrics builds a fresh metric set for each.
type Ensemble struct {
	Width, Height float64
	Options       Options
	Runs          int
	SeedStart     int64
	Frames        int
	Metrics       func() []Metric
}

func NewEnsemble(width, height float64, opts Options, runs int, seedStart int64, frames int) *Ensemble {
	return &Ensemble{
		Width:     width,
		Height:    height,
		Options:   opts,
		Runs:      runs,
		SeedStart: seedStart,
		Frames:    frames,
	}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.Runs)
	errs := make([]error, e.Runs)

	var wg sync.WaitGroup
	for i := 0; i < e.Runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			opts := e.Options
			opts.Seed = e.SeedStart + int64(idx)

			s := New(e.Width, e.Height, opts)
			if e.Metrics != nil {
				for _, m := range e.Metrics() {
					s.AddMetric(m)
				}
			}

			results[idx], errs[idx] = NewScheduler(s).RunFrames(ctx, e.Frames, nil)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
