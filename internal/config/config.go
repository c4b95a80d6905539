package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt              = 1.0 / 60
	DefaultDuration        = 15.0
	DefaultIntegrator      = "verlet"
	DefaultSphereRadius    = 1.5
	DefaultPressDepth      = 0.8
	DefaultPressDuration   = 0.5
	DefaultTriggerStrength = 750.0
	DefaultEffect          = "Explosion"
	// FullMask makes a body contact-test against every category.
	FullMask uint32 = 0xFFFFFFFF
)

type Config struct {
	Viewport ViewportConfig `yaml:"viewport"`
	Camera   CameraConfig   `yaml:"camera"`
	Light    LightConfig    `yaml:"light"`
	Ground   GroundConfig   `yaml:"ground"`
	Spheres  SphereConfig   `yaml:"spheres"`
	Button   ButtonConfig   `yaml:"button"`
	Field    FieldConfig    `yaml:"field"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Effect   EffectConfig   `yaml:"effect"`
	Sim      SimConfig      `yaml:"sim"`
}

type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type CameraConfig struct {
	Position mgl64.Vec3   `yaml:"position"`
	FOV      float64      `yaml:"fov"`
	Near     float64      `yaml:"near"`
	Far      float64      `yaml:"far"`
	Ambient  dynamo.Color `yaml:"ambient"`
}

type LightConfig struct {
	Position    mgl64.Vec3 `yaml:"position"`
	InnerAngle  float64    `yaml:"inner_angle"`
	OuterAngle  float64    `yaml:"outer_angle"`
	Far         float64    `yaml:"far"`
	CastsShadow bool       `yaml:"casts_shadow"`
}

type GroundConfig struct {
	Color        dynamo.Color `yaml:"color"`
	Reflectivity float64      `yaml:"reflectivity"`
}

type SphereConfig struct {
	Radius float64      `yaml:"radius"`
	Color  dynamo.Color `yaml:"color"`
	First  mgl64.Vec3   `yaml:"first"`
	Second mgl64.Vec3   `yaml:"second"`
	Mass   float64      `yaml:"mass"`
}

type ButtonConfig struct {
	Size      mgl64.Vec3   `yaml:"size"`
	Position  mgl64.Vec3   `yaml:"position"`
	Color     dynamo.Color `yaml:"color"`
	Highlight dynamo.Color `yaml:"highlight"`
	// PressDepth is how far the button travels down when triggered.
	PressDepth    float64 `yaml:"press_depth"`
	PressDuration float64 `yaml:"press_duration"`
}

type FieldConfig struct {
	InitialStrength float64 `yaml:"initial_strength"`
	TriggerStrength float64 `yaml:"trigger_strength"`
	Falloff         float64 `yaml:"falloff"`
	MinDistance     float64 `yaml:"min_distance"`
}

type PhysicsConfig struct {
	Gravity     mgl64.Vec3 `yaml:"gravity"`
	Dt          float64    `yaml:"dt"`
	Integrator  string     `yaml:"integrator"`
	ContactSlop float64    `yaml:"contact_slop"`
	SphereMask  uint32     `yaml:"sphere_mask"`
}

type EffectConfig struct {
	Name string `yaml:"name"`
	// Dir holds extra effect definitions (*.yaml) layered over the built-ins.
	Dir  string `yaml:"dir"`
	Reap bool   `yaml:"reap"`
	Seed int64  `yaml:"seed"`
}

// SimConfig drives headless runs. A negative AutoTapAt leaves the button untapped.
type SimConfig struct {
	Duration        float64 `yaml:"duration"`
	AutoTapAt       float64 `yaml:"auto_tap_at"`
	StopOnCollision bool    `yaml:"stop_on_collision"`
	RecordEvery     int     `yaml:"record_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Viewport: ViewportConfig{Width: 1280, Height: 720},
		Camera: CameraConfig{
			Position: mgl64.Vec3{-20, 15, 20},
			FOV:      60,
			Near:     1,
			Far:      10000,
			Ambient:  dynamo.DarkGray,
		},
		Light: LightConfig{
			Position:    mgl64.Vec3{0, 25, 25},
			InnerAngle:  70,
			OuterAngle:  90,
			Far:         500,
			CastsShadow: true,
		},
		Ground: GroundConfig{Color: dynamo.Blue},
		Spheres: SphereConfig{
			Radius: DefaultSphereRadius,
			Color:  dynamo.Green,
			First:  mgl64.Vec3{-15, DefaultSphereRadius, 0},
			Second: mgl64.Vec3{15, DefaultSphereRadius, 0},
			Mass:   1,
		},
		Button: ButtonConfig{
			Size:          mgl64.Vec3{4, 1, 4},
			Position:      mgl64.Vec3{0, 0.5, 15},
			Color:         dynamo.Red,
			Highlight:     dynamo.White,
			PressDepth:    DefaultPressDepth,
			PressDuration: DefaultPressDuration,
		},
		Field: FieldConfig{
			InitialStrength: 0,
			TriggerStrength: DefaultTriggerStrength,
			Falloff:         2,
			MinDistance:     1,
		},
		Physics: PhysicsConfig{
			Gravity:     mgl64.Vec3{0, -9.8, 0},
			Dt:          DefaultDt,
			Integrator:  DefaultIntegrator,
			ContactSlop: 0.01,
			SphereMask:  FullMask,
		},
		Effect: EffectConfig{Name: DefaultEffect, Reap: true, Seed: 1},
		Sim: SimConfig{
			Duration:    DefaultDuration,
			AutoTapAt:   0.5,
			RecordEvery: 1,
		},
	}
}

// Load reads a YAML file layered over DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy; Config holds only values.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate reports every out-of-range value, joined.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{dynamo.ErrInvalidConfig}, args...)...))
	}

	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		bad("viewport must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		bad("camera fov must be in (0, 180), got %g", c.Camera.FOV)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		bad("camera clip range invalid: near=%g far=%g", c.Camera.Near, c.Camera.Far)
	}
	if c.Spheres.Radius <= 0 {
		bad("sphere radius must be positive, got %g", c.Spheres.Radius)
	}
	if c.Spheres.Mass <= 0 {
		bad("sphere mass must be positive, got %g", c.Spheres.Mass)
	}
	if c.Button.Size.X() <= 0 || c.Button.Size.Y() <= 0 || c.Button.Size.Z() <= 0 {
		bad("button size must be positive, got %+v", c.Button.Size)
	}
	if c.Button.PressDuration < 0 {
		bad("press duration must not be negative, got %g", c.Button.PressDuration)
	}
	if c.Field.Falloff < 0 {
		bad("field falloff must not be negative, got %g", c.Field.Falloff)
	}
	if c.Field.MinDistance <= 0 {
		bad("field min distance must be positive, got %g", c.Field.MinDistance)
	}
	if c.Physics.Dt <= 0 {
		bad("dt must be positive, got %g", c.Physics.Dt)
	}
	if c.Physics.ContactSlop < 0 {
		bad("contact slop must not be negative, got %g", c.Physics.ContactSlop)
	}
	if c.Sim.Duration <= 0 {
		bad("duration must be positive, got %g", c.Sim.Duration)
	}
	if c.Sim.RecordEvery < 0 {
		bad("record_every must not be negative, got %d", c.Sim.RecordEvery)
	}
	return errors.Join(errs...)
}
