package config

import (
	"fmt"
	"sort"
)

// Presets tweak the default config. Each call builds a fresh copy.
var Presets = map[string]func(c *Config){
	"default": func(c *Config) {},
	"calm": func(c *Config) {
		c.Wind.Enabled = false
		c.Physics.Gravity = 0.1
		c.Physics.Sway = 0.1
		c.Ripple.AmbientChance = 0
	},
	"stormy": func(c *Config) {
		c.Wind.ClockStep = 0.05
		c.Wind.FlipChance = 0.01
		c.Ripple.Amplitude = 25
		c.Ripple.AmbientChance = 0.2
	},
	"dense": func(c *Config) {
		c.Grid.Density = 0.04
		c.Pointer.InfluenceRadius = 120
	},
	"taut": func(c *Config) {
		c.Physics.Stiffness = 0.3
		c.Physics.Iterations = 4
		c.Physics.ReturnSpeed = 0.006
	},
	"noise": func(c *Config) {
		c.Grid.Shape = "noise"
		c.Render.Theme = "ink"
	},
}

// Resolve starts from the named preset and overlays the config file, if any.
func Resolve(preset, path string) (*Config, error) {
	cfg, err := GetPreset(preset)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}
	return LoadOnto(path, cfg)
}

func GetPreset(name string) (*Config, error) {
	apply, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
