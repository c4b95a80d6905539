package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Field.TriggerStrength != 750 {
		t.Errorf("expected trigger strength 750, got %f", cfg.Field.TriggerStrength)
	}
	if cfg.Field.InitialStrength != 0 {
		t.Errorf("field should start inert, got %f", cfg.Field.InitialStrength)
	}
	if cfg.Button.PressDepth != 0.8 || cfg.Button.PressDuration != 0.5 {
		t.Errorf("unexpected press %f over %f", cfg.Button.PressDepth, cfg.Button.PressDuration)
	}
	if cfg.Physics.SphereMask != FullMask {
		t.Errorf("expected full sphere mask, got %#x", cfg.Physics.SphereMask)
	}
	if cfg.Button.Highlight != dynamo.White {
		t.Errorf("expected white highlight, got %v", cfg.Button.Highlight)
	}
}

func TestGetPreset(t *testing.T) {
	cfg, err := GetPreset("strong")
	if err != nil {
		t.Fatalf("expected preset, got %v", err)
	}
	if cfg.Field.TriggerStrength != 3000 {
		t.Errorf("expected strength 3000, got %f", cfg.Field.TriggerStrength)
	}
	if DefaultConfig().Field.TriggerStrength != 750 {
		t.Error("preset leaked into defaults")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	_, err := GetPreset("nonexistent")
	if !errors.Is(err, dynamo.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for _, name := range presets {
		cfg, err := GetPreset(name)
		if err != nil {
			t.Fatalf("preset %s: %v", name, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	cfg := DefaultConfig()
	cfg.Field.TriggerStrength = 1200
	cfg.Button.Highlight = dynamo.Yellow

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Field.TriggerStrength != 1200 {
		t.Errorf("expected 1200, got %f", loaded.Field.TriggerStrength)
	}
	if loaded.Button.Highlight != dynamo.Yellow {
		t.Errorf("expected yellow, got %v", loaded.Button.Highlight)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "field:\n  trigger_strength: 42\nbutton:\n  color: orange\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Field.TriggerStrength != 42 {
		t.Errorf("expected 42, got %f", cfg.Field.TriggerStrength)
	}
	if cfg.Button.Color != dynamo.Orange {
		t.Errorf("expected orange, got %v", cfg.Button.Color)
	}
	if cfg.Spheres.Radius != DefaultSphereRadius {
		t.Errorf("unset fields should keep defaults, radius=%f", cfg.Spheres.Radius)
	}
}

func TestLoadVectorsAsSequences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.yaml")
	data := "spheres:\n  second: [24, 1, -2]\ncamera:\n  position: [0, 30, 40]\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Spheres.Second != (mgl64.Vec3{24, 1, -2}) {
		t.Errorf("second sphere at %v", cfg.Spheres.Second)
	}
	if cfg.Camera.Position != (mgl64.Vec3{0, 30, 40}) {
		t.Errorf("camera at %v", cfg.Camera.Position)
	}
	if cfg.Spheres.First != DefaultConfig().Spheres.First {
		t.Errorf("unset vectors should keep defaults, got %v", cfg.Spheres.First)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("spheres:\n  second: [1, 2]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("a two-element vector should not load")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Physics.Dt = 0 }},
		{"negative radius", func(c *Config) { c.Spheres.Radius = -1 }},
		{"zero duration", func(c *Config) { c.Sim.Duration = 0 }},
		{"bad fov", func(c *Config) { c.Camera.FOV = 180 }},
		{"far before near", func(c *Config) { c.Camera.Far = 0.5 }},
		{"zero viewport", func(c *Config) { c.Viewport.Width = 0 }},
		{"zero min distance", func(c *Config) { c.Field.MinDistance = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("physics:\n  dt: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
