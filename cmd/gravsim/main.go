package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/automation"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/logging"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/optim"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	particles  int
	steps      int
	dt         float64
	gravity    float64
	softening  float64
	density    float64
	seed       uint64
	extent     float64
	maxSpeed   float64
	mass       float64
	maxDepth   int
	verify     bool
	outFile    string

	svgFile   string
	atStep    int
	boxDepth  int
	themeName string
	benchRuns int

	seriesName  string
	sweepParams []string
	sweepMetric string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "gravsim",
		Short:         "octree-tracked gravitational particle simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(logLevel)
		},
		RunE: pickAndRun,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store its frames",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&themeName, "theme", "nebula", "color theme")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "advance a simulation and write the scene as SVG",
		Args:  cobra.NoArgs,
		RunE:  snapshot,
	}
	addSimFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&svgFile, "out", "o", "gravsim.svg", "output file")
	snapshotCmd.Flags().IntVar(&atStep, "at", 0, "step to capture (default: last)")
	snapshotCmd.Flags().IntVar(&boxDepth, "boxes", 3, "deepest tree level drawn, negative for none")
	snapshotCmd.Flags().StringVar(&themeName, "theme", "nebula", "color theme")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run several seeds concurrently and report throughput",
		Args:  cobra.NoArgs,
		RunE:  bench,
	}
	addSimFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchRuns, "runs", 4, "number of seeds")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "search a parameter grid for the smallest metric value",
		Args:  cobra.NoArgs,
		RunE:  sweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "grid axis as name=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to minimize")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run and store every run of a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summary statistics and dominant period of a run series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&seriesName, "series", "energy", "series to analyze")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				fmt.Fprintf(w, "%s\t%s\n", name, describePreset(name))
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file with default or preset values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if preset != "" {
				if cfg = config.GetPreset(preset); cfg == nil {
					return unknownPreset(preset)
				}
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	rootCmd.AddCommand(runCmd, liveCmd, snapshotCmd, benchCmd, sweepCmd, scenarioCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportJSONCmd, exportCSVCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVarP(&particles, "particles", "n", d.Particles, "number of particles")
	f.IntVar(&steps, "steps", d.Steps, "number of steps")
	f.Float64Var(&dt, "dt", d.Dt, "timestep")
	f.Float64Var(&gravity, "g", d.G, "gravitational constant")
	f.Float64Var(&softening, "softening", d.Softening, "softening length")
	f.Float64Var(&density, "density", d.Density, "particle density, sets collision radii")
	f.Uint64Var(&seed, "seed", d.Seed, "random seed")
	f.Float64Var(&extent, "extent", d.Spawn.Extent, "half-width of the spawn cube")
	f.Float64Var(&maxSpeed, "max-speed", d.Spawn.MaxSpeed, "largest initial velocity component")
	f.Float64Var(&mass, "mass", d.Spawn.Mass, "initial particle mass")
	f.IntVar(&maxDepth, "max-depth", d.Tree.MaxDepth, "octree depth limit")
	f.BoolVar(&verify, "verify", d.Tree.Verify, "check tree invariants after every step")
}

// resolveConfig layers a preset, then a config file, then explicitly set
// flags over the defaults.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, unknownPreset(preset)
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("g") {
		cfg.G = gravity
	}
	if flags.Changed("softening") {
		cfg.Softening = softening
	}
	if flags.Changed("density") {
		cfg.Density = density
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("extent") {
		cfg.Spawn.Extent = extent
	}
	if flags.Changed("max-speed") {
		cfg.Spawn.MaxSpeed = maxSpeed
	}
	if flags.Changed("mass") {
		cfg.Spawn.Mass = mass
	}
	if flags.Changed("max-depth") {
		cfg.Tree.MaxDepth = maxDepth
	}
	if flags.Changed("verify") {
		cfg.Tree.Verify = verify
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func unknownPreset(name string) error {
	return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
}

func describePreset(name string) string {
	cfg := config.GetPreset(name)
	if cfg == nil {
		return ""
	}
	return fmt.Sprintf("%d particles, extent %g, G %g, %d steps", cfg.Particles, cfg.Spawn.Extent, cfg.G, cfg.Steps)
}

func newSimulator(cfg *config.Config) (*sim.Simulator, error) {
	set, err := physics.Generate(cfg.SpawnParams())
	if err != nil {
		return nil, err
	}
	return sim.New(set, cfg.SimConfig())
}

func metadata(cfg *config.Config) storage.RunMetadata {
	return storage.RunMetadata{
		Preset:    preset,
		Seed:      cfg.Seed,
		Particles: cfg.Particles,
		Steps:     cfg.Steps,
		Dt:        cfg.Dt,
		G:         cfg.G,
		Softening: cfg.Softening,
		Density:   cfg.Density,
		DomainMin: cfg.Domain.Min,
		DomainMax: cfg.Domain.Max,
		MaxDepth:  cfg.Tree.MaxDepth,
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := newSimulator(cfg)
	if err != nil {
		return err
	}
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %d particles for %d steps...\n", cfg.Particles, cfg.Steps)
	start := time.Now()

	result, err := s.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		fmt.Printf("interrupted after %d steps\n", result.StepsTaken)
	}
	elapsed := time.Since(start)

	runID, err := st.Save(metadata(cfg), result)
	if err != nil {
		return err
	}

	final := result.Final()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("particles: %d live, %d in tree\n", final.Particles, final.Tracked)
	fmt.Println("\nmetrics:")
	for _, m := range metrics.Default() {
		fmt.Printf("  %s: %.6f\n", m.Name(), result.Metrics[m.Name()])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return startLive(cfg, preset)
}

func startLive(cfg *config.Config, title string) error {
	if themeName != "" && !viz.SetTheme(themeName) {
		return fmt.Errorf("unknown theme: %s (available: %v)", themeName, viz.ThemeNames())
	}
	s, err := newSimulator(cfg)
	if err != nil {
		return err
	}
	if title == "" {
		title = "gravsim"
	}
	// the live view owns the terminal
	logging.SetOutput(io.Discard)
	return viz.RunLive(s, title)
}

// pickAndRun lets the user choose a preset and tweak it, then goes live.
func pickAndRun(cmd *cobra.Command, args []string) error {
	defaults := func(name string) map[string]float64 {
		all := config.GetPreset(name).Params()
		picked := make(map[string]float64, len(viz.ParamNames))
		for _, p := range viz.ParamNames {
			picked[p] = all[p]
		}
		return picked
	}
	choice, err := viz.RunPicker(config.ListPresets(), describePreset, defaults)
	if err != nil || choice == nil {
		return err
	}

	cfg := config.GetPreset(choice.Preset)
	for name, v := range choice.Params {
		if err := cfg.SetParam(name, v); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return startLive(cfg, choice.Preset)
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !viz.SetTheme(themeName) {
		return fmt.Errorf("unknown theme: %s (available: %v)", themeName, viz.ThemeNames())
	}

	s, err := newSimulator(cfg)
	if err != nil {
		return err
	}

	target := cfg.Steps
	if atStep > 0 && atStep < target {
		target = atStep
	}
	var last sim.Frame
	err = s.RunWithCallback(context.Background(), func(f sim.Frame) bool {
		last = f
		return f.Step < target
	})
	if err != nil {
		return err
	}

	cam := viz.NewCamera()
	cam.Fit(s.Config().Domain)
	svg := viz.SceneToSVG(viz.NewScene(s.Set(), s.Tree(), boxDepth), cam, 800, 800, viz.CurrentTheme)
	if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("step %d: %d particles, %d nodes -> %s\n", last.Step, last.Particles, last.Nodes, svgFile)
	return nil
}

func bench(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if benchRuns <= 0 {
		return fmt.Errorf("runs must be positive, got %d", benchRuns)
	}

	build := func(sd uint64) (*sim.Simulator, error) {
		c := cfg.Clone()
		c.Seed = sd
		s, err := newSimulator(c)
		if err != nil {
			return nil, err
		}
		s.AddMetric(metrics.NewMerges())
		s.AddMetric(metrics.NewEscapes())
		return s, nil
	}

	fmt.Printf("benchmarking %d runs of %d particles, %d steps\n\n", benchRuns, cfg.Particles, cfg.Steps)
	start := time.Now()
	results, err := sim.NewEnsemble(build, benchRuns, cfg.Seed).Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tLIVE\tTRACKED\tNODES\tDEPTH\tMERGES\tESCAPES")
	total := 0
	for i, r := range results {
		f := r.Final()
		total += r.StepsTaken
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%d\t%.0f\t%.0f\n",
			cfg.Seed+uint64(i), r.StepsTaken, f.Particles, f.Tracked, f.Nodes, f.Depth,
			r.Metrics["merges"], r.Metrics["escapes"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d steps in %v (%.0f steps/sec)\n", total, elapsed, float64(total)/elapsed.Seconds())
	return nil
}

func sweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	names := make([]string, len(sweepParams))
	ranges := make([][]float64, len(sweepParams))
	for i, spec := range sweepParams {
		name, values, err := parseAxis(spec)
		if err != nil {
			return err
		}
		names[i], ranges[i] = name, values
	}
	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	build := func(params map[string]float64) (*sim.Simulator, error) {
		c := cfg.Clone()
		for name, v := range params {
			if err := c.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		s, err := newSimulator(c)
		if err != nil {
			return nil, err
		}
		for _, m := range metrics.Default() {
			s.AddMetric(m)
		}
		return s, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("sweeping %d grid points, minimizing %s\n\n", len(search.Grid()), sweepMetric)
	res, err := search.Search(ctx, build, sweepMetric)
	if res == nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(sweepMetric))
	for _, p := range res.Points {
		row := make([]string, len(names))
		for i, name := range names {
			row[i] = strconv.FormatFloat(p.Params[name], 'g', -1, 64)
		}
		val := fmt.Sprintf("%.6g", p.Value)
		if p.Err != nil {
			val = "error: " + p.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\n", strings.Join(row, "\t"), val)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err != nil {
		return err
	}

	best := make([]string, 0, len(res.Best))
	for name, v := range res.Best {
		best = append(best, fmt.Sprintf("%s=%g", name, v))
	}
	sort.Strings(best)
	fmt.Printf("\nbest: %s (%s %.6g)\n", strings.Join(best, " "), sweepMetric, res.BestValue)
	return nil
}

// parseAxis reads "name=v1,v2,...".
func parseAxis(spec string) (string, []float64, error) {
	name, list, ok := strings.Cut(spec, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("bad --param %q, want name=v1,v2", spec)
	}
	var values []float64
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad value in --param %q: %w", spec, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %d run specs\n", sc.Name, len(sc.Runs))
	outcomes, err := automation.RunScenario(ctx, sc, storage.New(dataDir))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tID\tSEED\tSTEPS\tLIVE\tTRACKED\tENERGY_DRIFT")
	for _, o := range outcomes {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%.4g\n",
			o.Spec, o.RunID, o.Seed, o.Steps, o.Final.Particles, o.Final.Tracked, o.Metrics["energy_drift"])
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	stable, unstable := automation.StableCount(outcomes)
	fmt.Printf("\n%d runs kept every particle in the tree, %d lost some\n", stable, unstable)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(meta.ID)
	if err != nil {
		return err
	}

	xs, err := analysis.Series(frames, seriesName)
	if err != nil {
		return err
	}
	if len(xs) < 2 {
		return fmt.Errorf("run %s has too few frames", meta.ID)
	}

	stats := analysis.Describe(xs)
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("series: %s over %d frames\n\n", seriesName, stats.N)

	graph := asciigraph.Plot(analysis.PowerSpectrum(xs),
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+seriesName+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	fmt.Printf("min %.6g  max %.6g  mean %.6g  std %.6g\n", stats.Min, stats.Max, stats.Mean, stats.Std)
	fmt.Printf("change: %+.4g\n", stats.RelativeChange())
	if freq, period := analysis.Dominant(xs, meta.Dt); freq > 0 {
		fmt.Printf("dominant frequency: %.4g per time unit\n", freq)
		fmt.Printf("period: %.4g\n", period)
	}
	return nil
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tPARTICLES\tSTEPS\tDT\tG\tSEED")
	for _, run := range runs {
		name := run.Preset
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%g\t%g\t%d\n",
			run.ID,
			name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Steps,
			run.Dt,
			run.G,
			run.Seed,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(meta.ID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("frames: %d\n\n", len(frames))

	series := []struct {
		caption string
		value   func(sim.Frame) float64
	}{
		{"particles in tree", func(f sim.Frame) float64 { return float64(f.Tracked) }},
		{"total energy", func(f sim.Frame) float64 { return f.Energy }},
		{"nodes", func(f sim.Frame) float64 { return float64(f.Nodes) }},
		{"particles moved per step", func(f sim.Frame) float64 { return float64(f.Moved) }},
	}
	for _, s := range series {
		data := make([]float64, len(frames))
		for i, f := range frames {
			data[i] = s.value(f)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	return storage.ExportMetadata(os.Stdout, *meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(meta.ID)
	if err != nil {
		return err
	}
	return writeOut(func(f *os.File) error { return storage.ExportJSON(f, *meta, frames) })
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return writeOut(func(f *os.File) error { return storage.WriteFrames(f, frames) })
}

func writeOut(write func(*os.File) error) error {
	if outFile == "" || outFile == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", outFile)
	return nil
}
