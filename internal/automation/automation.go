package automation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/scenesim/internal/config"
	"github.com/san-kum/scenesim/internal/demo"
	"github.com/san-kum/scenesim/internal/dynamo"
	"github.com/san-kum/scenesim/internal/metrics"
	"github.com/san-kum/scenesim/internal/scene"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Scenario defines a batch of scripted demo runs
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Parallel    int           `yaml:"parallel"`
	Runs        []ScenarioRun `yaml:"runs"`
}

// ScenarioRun is a single run in a scenario. Zero values keep the preset's setting.
type ScenarioRun struct {
	Name            string       `yaml:"name"`
	Preset          string       `yaml:"preset"`
	Integrator      string       `yaml:"integrator"`
	Duration        float64      `yaml:"duration"`
	Dt              float64      `yaml:"dt"`
	Strength        float64      `yaml:"strength"`
	Effect          string       `yaml:"effect"`
	StopOnCollision bool         `yaml:"stop_on_collision"`
	Taps            []demo.TapAt `yaml:"taps"`
	Save            bool         `yaml:"save"`
}

// Outcome pairs a run with the configuration it used.
type Outcome struct {
	Run    ScenarioRun
	Config *config.Config
	Result *dynamo.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Runs) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no runs", dynamo.ErrInvalidConfig, scenario.Name)
	}
	for i := range scenario.Runs {
		if scenario.Runs[i].Name == "" {
			scenario.Runs[i].Name = fmt.Sprintf("run%d", i+1)
		}
	}
	return &scenario, nil
}

// Config resolves the run's preset and overrides.
func (r ScenarioRun) Config() (*config.Config, error) {
	preset := r.Preset
	if preset == "" {
		preset = "default"
	}
	cfg, err := config.GetPreset(preset)
	if err != nil {
		return nil, err
	}
	if r.Integrator != "" {
		cfg.Physics.Integrator = r.Integrator
	}
	if r.Duration > 0 {
		cfg.Sim.Duration = r.Duration
	}
	if r.Dt > 0 {
		cfg.Physics.Dt = r.Dt
	}
	if r.Strength != 0 {
		cfg.Field.TriggerStrength = r.Strength
	}
	if r.Effect != "" {
		cfg.Effect.Name = r.Effect
	}
	if r.StopOnCollision {
		cfg.Sim.StopOnCollision = true
	}
	return cfg, cfg.Validate()
}

// RunOne runs the demo once with the default metrics. Scheduled taps replace
// the configuration's automatic button tap when any are given.
func RunOne(ctx context.Context, cfg *config.Config, taps []demo.TapAt) (*dynamo.Result, error) {
	d, err := demo.New(cfg)
	if err != nil {
		return nil, err
	}
	opts := demo.RunOptionsFromConfig(d)
	if len(taps) > 0 {
		opts.Taps = taps
	}
	opts.Metrics = metrics.Default(scene.NameSphere1, scene.NameSphere2)
	return d.Run(ctx, opts)
}

// RunScenario executes every run, at most Parallel at a time (GOMAXPROCS when
// unset). Outcomes keep the scenario's order. The first failure cancels the rest.
func RunScenario(ctx context.Context, scenario *Scenario) ([]Outcome, error) {
	outcomes := make([]Outcome, len(scenario.Runs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit(scenario.Parallel))
	for i, run := range scenario.Runs {
		g.Go(func() error {
			cfg, err := run.Config()
			if err != nil {
				return fmt.Errorf("run %s: %w", run.Name, err)
			}
			res, err := RunOne(ctx, cfg, run.Taps)
			if err != nil {
				return fmt.Errorf("run %s: %w", run.Name, err)
			}
			outcomes[i] = Outcome{Run: run, Config: cfg, Result: res}
			dynamo.Logger().Info("scenario run finished",
				"run", run.Name, "collided", res.Collided, "steps", res.StepsTaken)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func limit(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// StrengthSweep runs the demo across a range of trigger strengths
type StrengthSweep struct {
	Base     *config.Config
	Min, Max float64
	NumSteps int
	Parallel int
}

// SweepResult holds one strength's outcome
type SweepResult struct {
	Strength   float64
	Collided   bool
	CollidedAt float64
	PeakSpeed  float64
}

// RunSweep executes a strength sweep
func RunSweep(ctx context.Context, sweep *StrengthSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", dynamo.ErrInvalidConfig)
	}
	results := make([]SweepResult, sweep.NumSteps)

	step := 0.0
	if sweep.NumSteps > 1 {
		step = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit(sweep.Parallel))
	for i := range sweep.NumSteps {
		strength := sweep.Min + float64(i)*step
		g.Go(func() error {
			cfg := sweep.Base.Clone()
			cfg.Field.TriggerStrength = strength
			cfg.Sim.StopOnCollision = true
			res, err := RunOne(ctx, cfg, nil)
			if err != nil {
				return fmt.Errorf("strength %g: %w", strength, err)
			}
			results[i] = SweepResult{
				Strength:   strength,
				Collided:   res.Collided,
				CollidedAt: res.CollidedAt,
				PeakSpeed:  res.Metrics["peak_speed"],
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MonteCarloConfig perturbs the second sphere's start position
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
	Parallel     int
}

// MonteCarloResult holds one trial
type MonteCarloResult struct {
	TrialID    int
	Start      mgl64.Vec3
	Collided   bool
	CollidedAt float64
}

// RunMonteCarlo executes trials with the second sphere moved by up to
// Perturbation along x and z.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	seed := uint64(cfg.Seed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	// trial i always gets the i-th draw
	starts := make([]mgl64.Vec3, cfg.NumTrials)
	for i := range starts {
		off := mgl64.Vec3{(rng.Float64()-0.5)*2*cfg.Perturbation, 0, (rng.Float64()-0.5)*2*cfg.Perturbation}
		starts[i] = cfg.Base.Spheres.Second.Add(off)
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit(cfg.Parallel))
	for trial, start := range starts {
		g.Go(func() error {
			c := cfg.Base.Clone()
			c.Spheres.Second = start
			c.Sim.StopOnCollision = true
			res, err := RunOne(ctx, c, nil)
			if err != nil {
				return fmt.Errorf("trial %d: %w", trial, err)
			}
			results[trial] = MonteCarloResult{TrialID: trial, Start: start, Collided: res.Collided, CollidedAt: res.CollidedAt}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MonteCarloStats counts trials that did and did not end in a collision.
func MonteCarloStats(results []MonteCarloResult) (collided int, missed int) {
	for _, r := range results {
		if r.Collided {
			collided++
		} else {
			missed++
		}
	}
	return
}
