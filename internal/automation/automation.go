package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/webcloth/internal/metrics"
	"github.com/san-kum/webcloth/internal/render"
	"github.com/san-kum/webcloth/internal/sim"
)

var ErrUnknownEvent = errors.New("webcloth: unknown scenario event")

// Event kinds understood by a scenario.
const (
	EventEnter  = "enter"
	EventLeave  = "leave"
	EventMove   = "move"
	EventDown   = "down"
	EventUp     = "up"
	EventEnd    = "end"
	EventCancel = "cancel"
	EventRipple = "ripple"
	EventResize = "resize"
)

// Scenario is a scripted sequence of host events replayed against a
// simulator on a virtual clock.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Preset      string        `yaml:"preset"`
	Width       float64       `yaml:"width"`
	Height      float64       `yaml:"height"`
	Duration    time.Duration `yaml:"duration"`
	Events      []Event       `yaml:"events"`
}

// Event fires at At. X and Y are pointer or ripple coordinates; Width and
// Height are used by resize.
type Event struct {
	At     time.Duration `yaml:"at"`
	Type   string        `yaml:"type"`
	X      float64       `yaml:"x"`
	Y      float64       `yaml:"y"`
	Width  float64       `yaml:"width"`
	Height float64       `yaml:"height"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("scenario %q: viewport must be positive, got %vx%v", s.Name, s.Width, s.Height)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("scenario %q: duration must be positive", s.Name)
	}
	for i, e := range s.Events {
		switch e.Type {
		case EventEnter, EventLeave, EventMove, EventDown, EventUp, EventEnd, EventCancel, EventRipple:
		case EventResize:
			if e.Width <= 0 || e.Height <= 0 {
				return fmt.Errorf("event %d: resize needs a positive viewport", i+1)
			}
		default:
			return fmt.Errorf("event %d: %w %q", i+1, ErrUnknownEvent, e.Type)
		}
		if e.At < 0 {
			return fmt.Errorf("event %d: negative time %v", i+1, e.At)
		}
	}
	return nil
}

// Apply delivers one event to the simulator.
func Apply(s *sim.Simulator, e Event) error {
	switch e.Type {
	case EventEnter:
		s.PointerEnter(e.At)
	case EventLeave:
		s.PointerLeave()
	case EventMove:
		s.PointerMove(e.X, e.Y, e.At)
	case EventDown:
		s.PointerDown(e.X, e.Y, e.At)
	case EventUp:
		s.PointerUp()
	case EventEnd:
		s.PointerEnd()
	case EventCancel:
		s.PointerCancel()
	case EventRipple:
		s.Ripple(e.X, e.Y, e.At)
	case EventResize:
		s.Resize(e.Width, e.Height, e.At)
	default:
		return fmt.Errorf("%w %q", ErrUnknownEvent, e.Type)
	}
	return nil
}

// RunScenario replays the scenario against s frame by frame. Events due at or
// before a frame's time are applied before that frame runs. surface may be nil.
func RunScenario(ctx context.Context, scenario *Scenario, s *sim.Simulator, surface render.Surface, onFrame func(frame int)) (*sim.Result, error) {
	events := make([]Event, len(scenario.Events))
	copy(events, scenario.Events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })

	sc := sim.NewScheduler(s)
	frames := int(scenario.Duration / sc.FrameInterval)
	result := &sim.Result{Metrics: make(map[string]float64)}
	start := time.Now()
	spawned := s.Spawned()

	next := 0
	for i := 1; i <= frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		now := time.Duration(i) * sc.FrameInterval
		for next < len(events) && events[next].At <= now {
			if err := Apply(s, events[next]); err != nil {
				return result, fmt.Errorf("event %d: %w", next+1, err)
			}
			if events[next].Type == EventResize {
				sc.Restart()
			}
			next++
		}

		if err := sc.Advance(now, surface); err != nil {
			return result, fmt.Errorf("frame %d: %w", i, err)
		}
		result.Frames++
		result.Elapsed = now
		if onFrame != nil {
			onFrame(i)
		}
	}

	result.Wall = time.Since(start)
	result.Ripples = s.Spawned() - spawned
	result.Metrics["max_displacement"] = metrics.MaxDisplacementOf(s.Lattice())
	result.Metrics["kinetic_energy"] = metrics.KineticEnergyOf(s.Lattice())
	return result, nil
}

// ParameterSweep runs one ripple per value of a physics parameter and
// records how the web responds.
type ParameterSweep struct {
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Frames    int
	Width     float64
	Height    float64
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue       float64
	PeakDisplacement float64
	MeanEnergy       float64
	Residual         float64
}

// SweepParams lists the parameters RunSweep can vary.
var SweepParams = map[string]func(o *sim.Options, v float64){
	"damping":      func(o *sim.Options, v float64) { o.Physics.Damping = v },
	"gravity":      func(o *sim.Options, v float64) { o.Physics.Gravity = v },
	"sway":         func(o *sim.Options, v float64) { o.Physics.Sway = v },
	"stiffness":    func(o *sim.Options, v float64) { o.Stiffness = v },
	"return_speed": func(o *sim.Options, v float64) { o.Grid.ReturnSpeed = v },
	"amplitude":    func(o *sim.Options, v float64) { o.Ripple.Amplitude = v },
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, base sim.Options) ([]SweepResult, error) {
	set, ok := SweepParams[sweep.ParamName]
	if !ok {
		return nil, fmt.Errorf("unknown sweep parameter %q", sweep.ParamName)
	}
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		opts := base
		opts.AmbientChance = 0
		set(&opts, paramVal)

		s := sim.New(sweep.Width, sweep.Height, opts)
		peak := metrics.NewMaxDisplacement()
		energy := metrics.NewKineticEnergy()
		residual := metrics.NewConstraintResidual()
		s.AddMetric(peak)
		s.AddMetric(energy)
		s.AddMetric(residual)
		s.Ripple(sweep.Width/2, sweep.Height/2, 0)

		if _, err := sim.NewScheduler(s).RunFrames(ctx, sweep.Frames, nil); err != nil {
			return results, fmt.Errorf("%s=%.4f: %w", sweep.ParamName, paramVal, err)
		}

		results = append(results, SweepResult{
			ParamValue:       paramVal,
			PeakDisplacement: peak.Value(),
			MeanEnergy:       energy.Value(),
			Residual:         residual.Value(),
		})
	}

	return results, nil
}
