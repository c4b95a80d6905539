// Package effects holds named particle effect definitions and the one-shot
// emitters spawned from them.
package effects

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/dynamo"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var builtin embed.FS

// Range is a closed interval sampled uniformly.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Definition describes one particle effect.
type Definition struct {
	Name             string  `yaml:"name"`
	BirthCount       int     `yaml:"birth_count"`
	EmissionDuration float64 `yaml:"emission_duration"`
	Lifetime         Range   `yaml:"lifetime"`
	Speed            Range   `yaml:"speed"`
	// Spread is the half-angle in degrees of the launch cone around Direction.
	// 180 launches in every direction.
	Spread     float64      `yaml:"spread"`
	Direction  mgl64.Vec3   `yaml:"direction"`
	Gravity    mgl64.Vec3   `yaml:"gravity"`
	Size       float64      `yaml:"size"`
	StartColor dynamo.Color `yaml:"start_color"`
	EndColor   dynamo.Color `yaml:"end_color"`
}

func (d Definition) validate() error {
	switch {
	case d.Name == "":
		return fmt.Errorf("effect without a name")
	case d.BirthCount < 0:
		return fmt.Errorf("effect %q: negative birth count", d.Name)
	case d.Lifetime.Min < 0 || d.Lifetime.Max < d.Lifetime.Min:
		return fmt.Errorf("effect %q: bad lifetime range %+v", d.Name, d.Lifetime)
	case d.Speed.Max < d.Speed.Min:
		return fmt.Errorf("effect %q: bad speed range %+v", d.Name, d.Speed)
	}
	return nil
}

// Library maps effect names to definitions. Later loads replace earlier
// definitions of the same name.
type Library struct {
	defs map[string]Definition
}

// NewLibrary returns a library holding the built-in effects.
func NewLibrary() *Library {
	l := &Library{defs: make(map[string]Definition)}
	if err := l.loadFS(builtin, "data"); err != nil {
		panic(fmt.Sprintf("effects: built-in definitions: %v", err))
	}
	return l
}

// LoadDir layers every *.yaml file in dir over the library.
func (l *Library) LoadDir(dir string) error {
	return l.loadFS(os.DirFS(dir), ".")
}

func (l *Library) loadFS(fsys fs.FS, dir string) error {
	matches, err := fs.Glob(fsys, filepath.ToSlash(filepath.Join(dir, "*.yaml")))
	if err != nil {
		return err
	}
	sort.Strings(matches)
	for _, m := range matches {
		data, err := fs.ReadFile(fsys, m)
		if err != nil {
			return err
		}
		if err := l.Parse(data); err != nil {
			return fmt.Errorf("%s: %w", m, err)
		}
	}
	return nil
}

// Parse adds the definitions of one YAML document, a list of effects.
func (l *Library) Parse(data []byte) error {
	var defs []Definition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return err
	}
	for _, d := range defs {
		if err := d.validate(); err != nil {
			return err
		}
	}
	for _, d := range defs {
		l.defs[d.Name] = d
	}
	return nil
}

// Lookup finds a definition by name; names are case sensitive.
func (l *Library) Lookup(name string) (Definition, bool) {
	d, ok := l.defs[name]
	return d, ok
}

func (l *Library) Names() []string {
	names := make([]string, 0, len(l.defs))
	for n := range l.defs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Spawn starts a new emitter for the named effect.
func (l *Library) Spawn(name string, seed int64) (*Emitter, error) {
	d, ok := l.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", dynamo.ErrEffectNotFound, name, strings.Join(l.Names(), ", "))
	}
	return NewEmitter(d, seed), nil
}
