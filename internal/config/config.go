package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/webcloth/internal/environment"
	"github.com/san-kum/webcloth/internal/integrators"
	"github.com/san-kum/webcloth/internal/lattice"
	"github.com/san-kum/webcloth/internal/pointer"
	"github.com/san-kum/webcloth/internal/render"
	"github.com/san-kum/webcloth/internal/ripple"
	"github.com/san-kum/webcloth/internal/sim"
	"github.com/san-kum/webcloth/internal/solver"
)

var (
	// ErrParameterBounds indicates a parameter value is outside its valid range.
	ErrParameterBounds = errors.New("webcloth: parameter out of valid bounds")

	ErrUnknownPreset = errors.New("webcloth: unknown preset")
)

const (
	DefaultTheme = "blush"
	MaxFPS       = 240
)

type Config struct {
	Grid    GridConfig    `yaml:"grid"`
	Physics PhysicsConfig `yaml:"physics"`
	Pointer PointerConfig `yaml:"pointer"`
	Ripple  RippleConfig  `yaml:"ripple"`
	Wind    WindConfig    `yaml:"wind"`
	Render  RenderConfig  `yaml:"render"`
	Seed    int64         `yaml:"seed"`
}

type GridConfig struct {
	Density    float64 `yaml:"density"`
	MinCols    int     `yaml:"min_cols"`
	MinRows    int     `yaml:"min_rows"`
	Shape      string  `yaml:"shape"`
	NoiseScale float64 `yaml:"noise_scale"`
}

type PhysicsConfig struct {
	Damping     float64 `yaml:"damping"`
	Stiffness   float64 `yaml:"stiffness"`
	Iterations  int     `yaml:"iterations"`
	Gravity     float64 `yaml:"gravity"`
	ReturnSpeed float64 `yaml:"return_speed"`
	Sway        float64 `yaml:"sway"`
}

type PointerConfig struct {
	InfluenceRadius float64       `yaml:"influence_radius"`
	IdleThreshold   time.Duration `yaml:"idle_threshold"`
	DecayRate       float64       `yaml:"decay_rate"`
	SelectFraction  float64       `yaml:"select_fraction"`
	Repel           bool          `yaml:"repel"`
}

type RippleConfig struct {
	MaxDistance     float64       `yaml:"max_distance"`
	Amplitude       float64       `yaml:"amplitude"`
	DelayPerUnit    time.Duration `yaml:"delay_per_unit"`
	AmbientChance   float64       `yaml:"ambient_chance"`
	AmbientInterval time.Duration `yaml:"ambient_interval"`
}

type WindConfig struct {
	Enabled    bool    `yaml:"enabled"`
	ClockStep  float64 `yaml:"clock_step"`
	FlipChance float64 `yaml:"flip_chance"`
}

type RenderConfig struct {
	Theme string `yaml:"theme"`
	FPS   int    `yaml:"fps"`
}

func DefaultConfig() *Config {
	rp := ripple.DefaultParams()
	return &Config{
		Grid: GridConfig{
			Density:    lattice.DefaultDensity,
			MinCols:    lattice.DefaultMinCols,
			MinRows:    lattice.DefaultMinRows,
			Shape:      string(lattice.ShapeWave),
			NoiseScale: lattice.DefaultNoiseScale,
		},
		Physics: PhysicsConfig{
			Damping:     integrators.DefaultDamping,
			Stiffness:   solver.DefaultStiffness,
			Iterations:  solver.DefaultIterations,
			Gravity:     integrators.DefaultGravity,
			ReturnSpeed: lattice.DefaultReturnSpeed,
			Sway:        integrators.DefaultSway,
		},
		Pointer: PointerConfig{
			InfluenceRadius: pointer.DefaultInfluenceRadius,
			IdleThreshold:   pointer.DefaultIdleThreshold,
			DecayRate:       pointer.DefaultDecayRate,
			SelectFraction:  sim.DefaultSelectFraction,
		},
		Ripple: RippleConfig{
			MaxDistance:     rp.MaxDistance,
			Amplitude:       rp.Amplitude,
			DelayPerUnit:    rp.DelayPerUnit,
			AmbientChance:   sim.DefaultAmbientChance,
			AmbientInterval: sim.DefaultAmbientInterval,
		},
		Wind: WindConfig{
			Enabled:    true,
			ClockStep:  environment.DefaultClockStep,
			FlipChance: environment.DefaultFlipChance,
		},
		Render: RenderConfig{
			Theme: DefaultTheme,
			FPS:   sim.DefaultFPS,
		},
		Seed: 1,
	}
}

func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto overlays the yaml file at path on base. Fields the file leaves
// out keep their base values.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func bounds(field string, v any, want string) error {
	return fmt.Errorf("%w: %s must be %s, got %v", ErrParameterBounds, field, want, v)
}

// Validate checks every parameter; the first violation is returned.
func (c *Config) Validate() error {
	unit := func(v float64) bool { return v >= 0 && v <= 1 }

	switch {
	case c.Grid.Density <= 0:
		return bounds("grid.density", c.Grid.Density, "positive")
	case c.Grid.MinCols < 2:
		return bounds("grid.min_cols", c.Grid.MinCols, "at least 2")
	case c.Grid.MinRows < 2:
		return bounds("grid.min_rows", c.Grid.MinRows, "at least 2")
	case c.Grid.Shape != string(lattice.ShapeWave) && c.Grid.Shape != string(lattice.ShapeNoise):
		return bounds("grid.shape", c.Grid.Shape, "wave or noise")
	case c.Grid.NoiseScale < 0:
		return bounds("grid.noise_scale", c.Grid.NoiseScale, "non-negative")

	case c.Physics.Damping <= 0 || c.Physics.Damping > 1:
		return bounds("physics.damping", c.Physics.Damping, "in (0, 1]")
	case c.Physics.Stiffness <= 0 || c.Physics.Stiffness > 1:
		return bounds("physics.stiffness", c.Physics.Stiffness, "in (0, 1]")
	case c.Physics.Iterations < 1:
		return bounds("physics.iterations", c.Physics.Iterations, "at least 1")
	case c.Physics.ReturnSpeed < 0 || c.Physics.ReturnSpeed > 0.5:
		return bounds("physics.return_speed", c.Physics.ReturnSpeed, "in [0, 0.5]")

	case c.Pointer.InfluenceRadius <= 0:
		return bounds("pointer.influence_radius", c.Pointer.InfluenceRadius, "positive")
	case c.Pointer.IdleThreshold < 0:
		return bounds("pointer.idle_threshold", c.Pointer.IdleThreshold, "non-negative")
	case !unit(c.Pointer.DecayRate):
		return bounds("pointer.decay_rate", c.Pointer.DecayRate, "in [0, 1]")
	case !unit(c.Pointer.SelectFraction):
		return bounds("pointer.select_fraction", c.Pointer.SelectFraction, "in [0, 1]")

	case c.Ripple.MaxDistance <= 0:
		return bounds("ripple.max_distance", c.Ripple.MaxDistance, "positive")
	case c.Ripple.Amplitude < 0:
		return bounds("ripple.amplitude", c.Ripple.Amplitude, "non-negative")
	case c.Ripple.DelayPerUnit < 0:
		return bounds("ripple.delay_per_unit", c.Ripple.DelayPerUnit, "non-negative")
	case !unit(c.Ripple.AmbientChance):
		return bounds("ripple.ambient_chance", c.Ripple.AmbientChance, "in [0, 1]")
	case c.Ripple.AmbientInterval <= 0:
		return bounds("ripple.ambient_interval", c.Ripple.AmbientInterval, "positive")

	case c.Wind.ClockStep < 0:
		return bounds("wind.clock_step", c.Wind.ClockStep, "non-negative")
	case !unit(c.Wind.FlipChance):
		return bounds("wind.flip_chance", c.Wind.FlipChance, "in [0, 1]")

	case c.Render.FPS < 1 || c.Render.FPS > MaxFPS:
		return bounds("render.fps", c.Render.FPS, fmt.Sprintf("in [1, %d]", MaxFPS))
	}

	if _, err := render.GetPalette(c.Render.Theme); err != nil {
		return fmt.Errorf("%w: render.theme: %v", ErrParameterBounds, err)
	}
	return nil
}

// Options validates the config and converts it to simulator options.
func (c *Config) Options() (sim.Options, error) {
	if err := c.Validate(); err != nil {
		return sim.Options{}, err
	}
	palette, _ := render.GetPalette(c.Render.Theme)

	opts := sim.DefaultOptions()
	opts.Grid = lattice.Options{
		Density:     c.Grid.Density,
		MinCols:     c.Grid.MinCols,
		MinRows:     c.Grid.MinRows,
		ReturnSpeed: c.Physics.ReturnSpeed,
		Shape:       lattice.Shape(c.Grid.Shape),
		NoiseScale:  c.Grid.NoiseScale,
	}
	opts.Physics = integrators.Params{
		Damping:         c.Physics.Damping,
		Gravity:         c.Physics.Gravity,
		Sway:            c.Physics.Sway,
		InfluenceRadius: c.Pointer.InfluenceRadius,
		Repel:           c.Pointer.Repel,
	}
	opts.Stiffness = c.Physics.Stiffness
	opts.Iterations = c.Physics.Iterations
	opts.IdleThreshold = c.Pointer.IdleThreshold
	opts.DecayRate = c.Pointer.DecayRate
	opts.SelectFraction = c.Pointer.SelectFraction
	opts.Ripple = ripple.Params{
		MaxDistance:  c.Ripple.MaxDistance,
		Amplitude:    c.Ripple.Amplitude,
		DelayPerUnit: c.Ripple.DelayPerUnit,
	}
	opts.AmbientChance = c.Ripple.AmbientChance
	opts.AmbientInterval = c.Ripple.AmbientInterval
	opts.WindEnabled = c.Wind.Enabled
	opts.ClockStep = c.Wind.ClockStep
	opts.FlipChance = c.Wind.FlipChance
	opts.Palette = palette
	opts.FPS = c.Render.FPS
	opts.Seed = c.Seed
	return opts, nil
}
