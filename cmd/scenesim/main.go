package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/scenesim/internal/automation"
	"github.com/san-kum/scenesim/internal/config"
	"github.com/san-kum/scenesim/internal/demo"
	"github.com/san-kum/scenesim/internal/dynamo"
	"github.com/san-kum/scenesim/internal/effects"
	"github.com/san-kum/scenesim/internal/export"
	"github.com/san-kum/scenesim/internal/gui"
	"github.com/san-kum/scenesim/internal/input"
	"github.com/san-kum/scenesim/internal/integrators"
	"github.com/san-kum/scenesim/internal/metrics"
	"github.com/san-kum/scenesim/internal/scene"
	"github.com/san-kum/scenesim/internal/storage"
	"github.com/san-kum/scenesim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	dt              float64
	duration        float64
	integrator      string
	strength        float64
	effectName      string
	effectsDir      string
	effectSeed      int64
	stopOnCollision bool
	tapAt           float64
	noSave          bool

	menu      bool
	format    string
	outFile   string
	parallel  int
	sweepMin  float64
	sweepMax  float64
	numSteps  int
	numTrials int
	perturb   float64
	mcSeed    int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "scenesim",
		Short:        "tap the button, the spheres meet, the scene explodes",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				dynamo.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
		},
		// Default to the live terminal view when no command is given
		RunE: runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".scenesim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "default", "preset configuration")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	pf.Float64Var(&dt, "dt", 0, "timestep (overrides config)")
	pf.StringVar(&integrator, "integrator", "", "integrator (overrides config)")
	pf.Float64Var(&strength, "strength", 0, "trigger field strength (overrides config)")
	pf.StringVar(&effectName, "effect", "", "collision effect (overrides config)")
	pf.StringVar(&effectsDir, "effects-dir", "", "directory of extra effect definitions")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the demo headless and save the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration (overrides config)")
	runCmd.Flags().Int64Var(&effectSeed, "seed", 0, "effect seed (overrides config)")
	runCmd.Flags().BoolVar(&stopOnCollision, "stop-on-collision", false, "stop at the first sphere contact")
	runCmd.Flags().Float64Var(&tapAt, "tap-at", -1, "time of the automatic button tap, negative disables it")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the demo in the terminal, click to tap",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().BoolVar(&menu, "menu", false, "start at the preset menu")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the demo in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if menu {
				return gui.RunInteractive()
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return gui.Run(cfg, preset)
		},
	}
	guiCmd.Flags().BoolVar(&menu, "menu", false, "start at the preset menu")

	hitCmd := &cobra.Command{
		Use:   "hit [x] [y]",
		Short: "hit-test a viewport point",
		Args:  cobra.ExactArgs(2),
		RunE:  hitTest,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot sphere separation and speed of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as svg or json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "svg", "svg or json")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (stdout when empty)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	effectsCmd := &cobra.Command{
		Use:   "effects",
		Short: "list available particle effects",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib := effects.NewLibrary()
			if effectsDir != "" {
				if err := lib.LoadDir(effectsDir); err != nil {
					return err
				}
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPARTICLES\tLIFETIME")
			for _, name := range lib.Names() {
				d, _ := lib.Lookup(name)
				fmt.Fprintf(w, "%s\t%d\t%.2f-%.2fs\n", name, d.BirthCount, d.Lifetime.Min, d.Lifetime.Max)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the selected preset as a config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml automation scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the trigger strength",
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 250, "lowest strength")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 3000, "highest strength")
	sweepCmd.Flags().IntVar(&numSteps, "steps", 8, "number of strengths")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb the second sphere's start and count collisions",
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().IntVar(&numTrials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 3, "max offset along x and z")
	monteCarloCmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed (0 uses the clock)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the integrators on the demo",
		RunE:  benchIntegrators,
	}

	for _, c := range []*cobra.Command{scenarioCmd, sweepCmd, monteCarloCmd} {
		c.Flags().IntVar(&parallel, "parallel", 0, "concurrent runs (0 uses GOMAXPROCS)")
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, hitCmd, listCmd, plotCmd, exportCmd, presetsCmd,
		effectsCmd, configCmd, scenarioCmd, sweepCmd, monteCarloCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the config file or preset, then applies the flags the
// user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.GetPreset(preset)
	}
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("dt") {
		cfg.Physics.Dt = dt
	}
	if changed("integrator") {
		cfg.Physics.Integrator = integrator
	}
	if changed("strength") {
		cfg.Field.TriggerStrength = strength
	}
	if changed("effect") {
		cfg.Effect.Name = effectName
	}
	if changed("effects-dir") {
		cfg.Effect.Dir = effectsDir
	}
	if changed("time") {
		cfg.Sim.Duration = duration
	}
	if changed("stop-on-collision") {
		cfg.Sim.StopOnCollision = stopOnCollision
	}
	if changed("tap-at") {
		cfg.Sim.AutoTapAt = tapAt
	}
	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Effect.Seed = effectSeed
	}
	d, err := demo.New(cfg)
	if err != nil {
		return err
	}
	opts := demo.RunOptionsFromConfig(d)
	opts.Metrics = metrics.Default(scene.NameSphere1, scene.NameSphere2)

	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("running %s for %.1fs...\n", preset, opts.Duration)
	start := time.Now()
	result, err := d.Run(ctx, opts)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	printResult(os.Stdout, result)

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunInfo{
		Preset:     preset,
		Integrator: cfg.Physics.Integrator,
		Effect:     cfg.Effect.Name,
		Seed:       cfg.Effect.Seed,
		Dt:         cfg.Physics.Dt,
		Duration:   opts.Duration,
	}, result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func printResult(w io.Writer, r *dynamo.Result) {
	fmt.Fprintf(w, "steps: %d\n", r.StepsTaken)
	if r.Triggered {
		fmt.Fprintf(w, "triggered at: %.3fs\n", r.TriggeredAt)
	} else {
		fmt.Fprintln(w, "triggered: no")
	}
	if r.Collided {
		fmt.Fprintf(w, "collided at: %.3fs\n", r.CollidedAt)
	} else {
		fmt.Fprintln(w, "collided: no")
	}
	fmt.Fprintf(w, "final nodes: %d\n", r.FinalNodes)

	fmt.Fprintln(w, "\nevents:")
	for _, ev := range r.Events {
		if ev.Kind == dynamo.EventTap && len(ev.Nodes) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %7.3fs  %-14s %s %s\n", ev.Time, ev.Kind, strings.Join(ev.Nodes, ","), ev.Detail)
	}
	fmt.Fprintln(w, "\nmetrics:")
	names := make([]string, 0, len(r.Metrics))
	for name := range r.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6f\n", name, r.Metrics[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	if menu {
		return viz.RunInteractive()
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return viz.RunLive(cfg)
}

func hitTest(cmd *cobra.Command, args []string) error {
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("x: %w", err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("y: %w", err)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	d, err := demo.New(cfg)
	if err != nil {
		return err
	}

	hits := d.Input().HitTest(input.Point{X: x, Y: y})
	if len(hits) == 0 {
		fmt.Println("no hits")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NODE\tNAME\tDISTANCE\tPOINT")
	for _, h := range hits {
		fmt.Fprintf(w, "%d\t%s\t%.3f\t%.2f,%.2f,%.2f\n", h.Node, h.Name, h.Distance, h.Point.X(), h.Point.Y(), h.Point.Z())
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tINTEG\tCOLLIDED\tNODES")
	for _, run := range runs {
		collided := "-"
		if run.Collided {
			collided = fmt.Sprintf("%.2fs", run.CollidedAt)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			collided,
			run.FinalNodes,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	var separation, speed []float64
	for _, f := range frames {
		if d, ok := metrics.Distance(f, scene.NameSphere1, scene.NameSphere2); ok {
			separation = append(separation, d)
		}
		if b, ok := f.Body(scene.NameSphere2); ok {
			speed = append(speed, b.Velocity.Len())
		}
	}
	if len(separation) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(frames))

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{separation, "sphere separation"},
		{speed, "sphere2 speed"},
	} {
		if len(series.data) < 2 {
			continue
		}
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	var w io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		return st.ExportJSON(w, runID)
	case "svg":
		frames, err := st.LoadTrajectory(runID)
		if err != nil {
			return err
		}
		events, err := st.LoadEvents(runID)
		if err != nil {
			return err
		}
		return export.TrajectoriesToSVG(w, frames, events, 800, 600)
	}
	return fmt.Errorf("unknown format %q (svg, json)", format)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("parallel") {
		sc.Parallel = parallel
	}

	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("scenario %s: %d runs\n", sc.Name, len(sc.Runs))
	outcomes, err := automation.RunScenario(ctx, sc)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tPRESET\tTRIGGERED\tCOLLIDED\tNODES\tSAVED")
	for _, o := range outcomes {
		saved := "-"
		if o.Run.Save {
			if err := st.Init(); err != nil {
				return err
			}
			id, err := st.Save(storage.RunInfo{
				Preset:     o.Run.Preset,
				Integrator: o.Config.Physics.Integrator,
				Effect:     o.Config.Effect.Name,
				Seed:       o.Config.Effect.Seed,
				Dt:         o.Config.Physics.Dt,
				Duration:   o.Config.Sim.Duration,
			}, o.Result)
			if err != nil {
				return err
			}
			saved = id
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", o.Run.Name, o.Run.Preset,
			at(o.Result.Triggered, o.Result.TriggeredAt), at(o.Result.Collided, o.Result.CollidedAt),
			o.Result.FinalNodes, saved)
	}
	return w.Flush()
}

func at(ok bool, t float64) string {
	if !ok {
		return "no"
	}
	return fmt.Sprintf("%.2fs", t)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.StrengthSweep{
		Base: cfg, Min: sweepMin, Max: sweepMax, NumSteps: numSteps, Parallel: parallel,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STRENGTH\tCOLLIDED\tPEAK SPEED")
	for _, r := range results {
		fmt.Fprintf(w, "%.1f\t%s\t%.3f\n", r.Strength, at(r.Collided, r.CollidedAt), r.PeakSpeed)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base: cfg, Perturbation: perturb, NumTrials: numTrials, Seed: mcSeed, Parallel: parallel,
	})
	if err != nil {
		return err
	}

	var times []float64
	for _, r := range results {
		if r.Collided {
			times = append(times, r.CollidedAt)
		}
	}
	collided, missed := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d  collided: %d  missed: %d\n", len(results), collided, missed)
	if len(times) > 1 {
		fmt.Println(asciigraph.Plot(times, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("collision time per colliding trial")))
	}
	return nil
}

func benchIntegrators(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dts := []float64{1.0 / 30, 1.0 / 60, 1.0 / 240}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tDT\tSTEPS\tTIME\tSTEPS/SEC\tCOLLIDED")
	for _, name := range integrators.Names() {
		for _, step := range dts {
			cfg := base.Clone()
			cfg.Physics.Integrator = name
			cfg.Physics.Dt = step

			start := time.Now()
			result, err := automation.RunOne(context.Background(), cfg, nil)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%s\t%.4fs\t%d\t%v\t%.0f\t%s\n",
				name, step, result.StepsTaken, elapsed.Round(time.Microsecond),
				float64(result.StepsTaken)/elapsed.Seconds(), at(result.Collided, result.CollidedAt))
		}
	}
	return w.Flush()
}
