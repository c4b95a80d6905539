package demo

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/scenesim/internal/dynamo"
	"github.com/san-kum/scenesim/internal/scene"
	"github.com/san-kum/scenesim/internal/trigger"
)

// TapAt schedules a tap. Node, when set, names the node to tap instead of X/Y.
type TapAt struct {
	Time float64 `yaml:"time"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Node string  `yaml:"node,omitempty"`
}

type RunOptions struct {
	Duration        float64
	Dt              float64
	Taps            []TapAt
	StopOnCollision bool
	// RecordEvery keeps one frame in n; 0 keeps only the first and last.
	RecordEvery int
	Metrics     []dynamo.Metric
	Observers   []dynamo.Observer
}

// RunOptionsFromConfig builds the options described by the sim section of the
// configuration, scheduling a button tap at AutoTapAt unless it is negative.
func RunOptionsFromConfig(d *Demo) RunOptions {
	sc := d.cfg.Sim
	opts := RunOptions{
		Duration:        sc.Duration,
		Dt:              d.cfg.Physics.Dt,
		StopOnCollision: sc.StopOnCollision,
		RecordEvery:     sc.RecordEvery,
	}
	if sc.AutoTapAt >= 0 {
		opts.Taps = []TapAt{{Time: sc.AutoTapAt, Node: scene.NameButton}}
	}
	return opts
}

// Run steps the demo headless at a fixed dt, applying each scheduled tap
// before the first step that starts at or after its time.
func (d *Demo) Run(ctx context.Context, opts RunOptions) (*dynamo.Result, error) {
	if opts.Dt <= 0 {
		opts.Dt = d.cfg.Physics.Dt
	}
	if opts.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %g", dynamo.ErrInvalidConfig, opts.Duration)
	}

	taps := append([]TapAt(nil), opts.Taps...)
	sort.SliceStable(taps, func(i, j int) bool { return taps[i].Time < taps[j].Time })

	steps := int(math.Round(opts.Duration / opts.Dt))
	result := &dynamo.Result{
		Frames:  make([]dynamo.Frame, 0, recordCap(steps, opts.RecordEvery)),
		Metrics: make(map[string]float64),
	}
	for _, m := range opts.Metrics {
		m.Reset()
	}

	emit := func(f dynamo.Frame, keep bool) {
		for _, m := range opts.Metrics {
			m.Observe(f)
		}
		for _, o := range opts.Observers {
			o.OnFrame(f)
		}
		if keep {
			result.Frames = append(result.Frames, f)
		}
	}
	emit(d.frame(), true)

	var err error
	last := 0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			err = fmt.Errorf("%w: %w", dynamo.ErrCanceled, ctx.Err())
		default:
		}
		if err != nil {
			break
		}

		for len(taps) > 0 && taps[0].Time <= d.world.Time()+opts.Dt/2 {
			d.applyTap(taps[0])
			taps = taps[1:]
		}

		if err = d.Step(opts.Dt); err != nil {
			break
		}
		result.StepsTaken++

		keep := opts.RecordEvery > 0 && result.StepsTaken%opts.RecordEvery == 0
		if keep {
			last = result.StepsTaken
		}
		emit(d.frame(), keep)

		if opts.StopOnCollision && d.collided {
			break
		}
	}
	if last != result.StepsTaken && result.StepsTaken > 0 {
		result.Frames = append(result.Frames, d.frame())
	}

	d.finish(result, opts.Metrics)
	return result, err
}

func (d *Demo) applyTap(t TapAt) TapResult {
	if t.Node == "" {
		return d.Tap(t.X, t.Y)
	}
	id, ok := d.graph.Find(t.Node)
	if !ok {
		d.record(dynamo.EventTap, nil, fmt.Sprintf("no attached node %q", t.Node))
		return TapResult{}
	}
	return d.TapNode(id)
}

func (d *Demo) finish(r *dynamo.Result, metrics []dynamo.Metric) {
	for _, m := range metrics {
		r.Metrics[m.Name()] = m.Value()
	}
	r.Events = append([]dynamo.Event(nil), d.events...)
	r.Triggered = d.trigger.State() == trigger.Triggered
	r.TriggeredAt = d.triggeredAt
	r.Collided = d.collided
	r.CollidedAt = d.collidedAt
	r.FinalNodes = d.graph.Count()
}

func recordCap(steps, every int) int {
	if every <= 0 {
		return 2
	}
	return steps/every + 2
}
