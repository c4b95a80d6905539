package config

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/dynamo"
)

// Presets are applied on top of DefaultConfig.
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	"strong": func(c *Config) {
		c.Field.TriggerStrength = 3000
		c.Sim.Duration = 8
	},
	"wide": func(c *Config) {
		c.Spheres.First = mgl64.Vec3{-30, c.Spheres.Radius, 0}
		c.Spheres.Second = mgl64.Vec3{30, c.Spheres.Radius, 0}
		c.Camera.Position = mgl64.Vec3{-35, 25, 35}
		c.Sim.Duration = 40
	},
	"slowmo": func(c *Config) {
		c.Physics.Dt = 1.0 / 240
		c.Physics.Integrator = "rk4"
		c.Button.PressDuration = 2
	},
	"inverse": func(c *Config) {
		c.Field.Falloff = 1
		c.Field.TriggerStrength = 50
	},
}

func GetPreset(name string) (*Config, error) {
	apply, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownPreset, name, ListPresets())
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
