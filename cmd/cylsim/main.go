package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/cylsim/internal/analysis"
	"github.com/san-kum/cylsim/internal/config"
	"github.com/san-kum/cylsim/internal/export"
	"github.com/san-kum/cylsim/internal/gui"
	"github.com/san-kum/cylsim/internal/metrics"
	"github.com/san-kum/cylsim/internal/physics"
	"github.com/san-kum/cylsim/internal/sim"
	"github.com/san-kum/cylsim/internal/storage"
	"github.com/san-kum/cylsim/internal/stream"
	"github.com/san-kum/cylsim/internal/viz"
)

var (
	dataDir    string
	debug      bool
	configFile string
	preset     string
	seed       int64
	ticks      int
	particles  int
	workers    int
	frameRate  int
	// run
	recordEvery int
	// serve
	addr string
	// density
	samples int
	bands   int
	linear  bool
	// export
	outPath  string
	frameIdx int
	svgSize  int
	braille  bool
	traceSVG bool
	// ensemble
	numRuns   int
	seedStart int64
)

func main() {
	var logFile *os.File

	rootCmd := &cobra.Command{
		Use:   "cylsim",
		Short: "particles bouncing inside a cylinder",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logFile = setupLogging(debug)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				logFile.Close()
			}
		},
		// Default to the live terminal view when no command is given.
		RunE: runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cylsim", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug log to logs/cylsim.log")
	addSimFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&recordEvery, "record", 10, "keep a frame every n ticks (0 = none)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live terminal visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run simulation in a raylib window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addSimFlags(guiCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream frames over a websocket at /ws",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	addSimFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot per-tick bounces and energy of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	densityCmd := &cobra.Command{
		Use:   "density",
		Short: "check radial uniformity of the initial sampling",
		Args:  cobra.NoArgs,
		RunE:  densityCheck,
	}
	addSimFlags(densityCmd)
	densityCmd.Flags().IntVar(&samples, "samples", 100000, "number of sampled positions")
	densityCmd.Flags().IntVar(&bands, "bands", 10, "number of equal-width radial bands")
	densityCmd.Flags().BoolVar(&linear, "linear", false, "sample radius linearly (uncorrected) for comparison")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a recorded frame to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&frameIdx, "frame", -1, "recorded frame index (negative counts from the end)")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "image width and height")
	exportSVGCmd.Flags().BoolVar(&braille, "braille", false, "render the terminal braille view instead of vectors")
	exportSVGCmd.Flags().BoolVar(&traceSVG, "trace", false, "plot bounces per tick instead of a frame")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run seeded simulations concurrently and check containment",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")
	ensembleCmd.Flags().Int64Var(&seedStart, "seed-start", 1, "seed of the first run")

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write a config file from defaults or --preset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}
	configCmd.Flags().StringVar(&preset, "preset", "", "preset to start from")

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, serveCmd, listCmd, plotCmd, densityCmd,
		exportJSONCmd, exportSVGCmd, presetsCmd, ensembleCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	f.IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	f.IntVar(&particles, "particles", config.DefaultParticles, "number of particles")
	f.IntVar(&workers, "workers", 1, "goroutines per tick")
	f.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate for live views")
}

// loadConfig resolves defaults, then a preset, then a config file, then
// explicitly set flags. It returns the config and a name for the run.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "default"

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	log.Printf("config %s: %d particles, seed %d, %d ticks, geometry %+v",
		name, cfg.Particles, cfg.Seed, cfg.Ticks, cfg.Containment())
	return cfg, name, nil
}

func newSystem(cfg *config.Config, seed int64) (*physics.System, error) {
	return physics.NewSystem(cfg.Containment(), cfg.Sampler(), cfg.Particles, rand.New(rand.NewSource(seed)))
}

func newSimulator(cfg *config.Config, seed int64) (*sim.Simulator, error) {
	sys, err := newSystem(cfg, seed)
	if err != nil {
		return nil, err
	}
	s := sim.New(sys)
	s.AddMetric(metrics.NewKineticEnergy())
	s.AddMetric(metrics.NewEnergyDrift())
	s.AddMetric(metrics.NewWallHits())
	s.AddMetric(metrics.NewContainment(sys.Containment(), sim.DefaultConfig().Tolerance))
	s.AddMetric(metrics.NewSpeed())
	return s, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := newSimulator(cfg, cfg.Seed)
	if err != nil {
		return err
	}
	rc := cfg.RunConfig()
	rc.RecordEvery = recordEvery

	fmt.Printf("running %s: %d particles for %d ticks...\n", name, cfg.Particles, cfg.Ticks)
	start := time.Now()
	result, err := s.Run(cmd.Context(), rc)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Preset:      name,
		Seed:        cfg.Seed,
		Ticks:       result.StepsTaken,
		Particles:   cfg.Particles,
		Containment: cfg.Containment(),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("bounces: side %d, top %d, bottom %d\n", result.Hits.Reflected, result.Hits.Top, result.Hits.Bottom)
	sp := analysis.Speeds(s.System().Particles())
	fmt.Printf("speed: mean %.4f, stddev %.4f, range [%.4f, %.4f]\n", sp.Mean, sp.StdDev, sp.Min, sp.Max)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	for _, e := range result.Errors {
		fmt.Printf("violation: %v\n", e)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d containment violations", len(result.Errors))
	}
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sys, err := newSystem(cfg, cfg.Seed)
	if err != nil {
		return err
	}
	return viz.Run(sys, cfg, name)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sys, err := newSystem(cfg, cfg.Seed)
	if err != nil {
		return err
	}
	gui.Run(sys, cfg, name)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := newSimulator(cfg, cfg.Seed)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	srv := stream.NewServer(stream.NewHub(16))
	rc := cfg.RunConfig()
	// Stream until interrupted unless --ticks was given.
	if !cmd.Flags().Changed("ticks") {
		rc.Ticks = 0
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return stream.ListenAndServe(ctx, addr, srv.Handler()) })
	g.Go(func() error {
		// Finishing the run shuts the listener down too.
		defer stop()
		defer srv.Hub().Close()
		return srv.Run(ctx, s, rc, cfg.FPS)
	})

	fmt.Printf("streaming %s on ws://%s/ws at %d fps (ctrl+c to stop)\n", name, addr, cfg.FPS)
	return g.Wait()
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSEED\tPARTICLES\tTICKS\tBOUNCES\tERRORS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Particles,
			run.Ticks,
			run.Hits.Bounces(),
			len(run.Errors),
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
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(trace) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("ticks: %d\n\n", len(trace))

	series := []struct {
		caption string
		value   func(sim.TickStats) float64
	}{
		{"bounces per tick", func(s sim.TickStats) float64 { return float64(s.Bounces) }},
		{"kinetic energy", func(s sim.TickStats) float64 { return s.KineticEnergy }},
		{"mean horizontal radius", func(s sim.TickStats) float64 { return s.MeanRadius }},
	}
	for _, sr := range series {
		data := make([]float64, len(trace))
		for i, s := range trace {
			data[i] = sr.value(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func densityCheck(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if samples <= 0 || bands <= 0 {
		return fmt.Errorf("samples and bands must be positive")
	}

	c := cfg.Containment()
	rng := rand.New(rand.NewSource(cfg.Seed))
	sampler := analysis.SamplePositions
	mode := "sqrt-corrected"
	if linear {
		sampler = analysis.SampleLinearRadius
		mode = "linear"
	}
	result := analysis.RadialDensity(sampler(rng, samples, c), c.InnerRadius(), bands)
	mean, cv := analysis.Uniformity(result)

	fmt.Printf("%d samples, %s radius, %d bands over r <= %.1f\n\n", samples, mode, bands, c.InnerRadius())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BAND\tINNER\tOUTER\tCOUNT\tRELATIVE")
	relative := make([]float64, len(result))
	for i, b := range result {
		relative[i] = b.Relative
		fmt.Fprintf(w, "%d\t%.1f\t%.1f\t%d\t%.3f\n", i, b.Inner, b.Outer, b.Count, b.Relative)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(relative,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Caption("relative density by band (1.0 = uniform)"),
	))
	fmt.Printf("\nmean density %.4g, coefficient of variation %.4f\n", mean, cv)
	return nil
}

// loadResult rebuilds a result from a stored run.
func loadResult(st *storage.Store, runID string) (*storage.RunMetadata, *sim.Result, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil && !os.IsNotExist(err) {
		return nil, nil, err
	}
	return meta, &sim.Result{
		Frames:     frames,
		Trace:      trace,
		Metrics:    meta.Metrics,
		Hits:       meta.Hits,
		StepsTaken: meta.Ticks,
	}, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadResult(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}
	if outPath == "" {
		return export.WriteJSON(os.Stdout, *meta, result)
	}
	if err := export.ExportJSON(outPath, *meta, result); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", meta.ID, outPath)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	meta, result, err := loadResult(storage.New(dataDir), runID)
	if err != nil {
		return err
	}
	if outPath == "" {
		outPath = runID + ".svg"
	}

	var svg string
	switch {
	case traceSVG:
		svg = export.TraceToSVG(result.Trace, svgSize, svgSize/3, "#00d7af")
		if svg == "" {
			return fmt.Errorf("run %s has too few ticks to plot", runID)
		}
	default:
		if len(result.Frames) == 0 {
			return fmt.Errorf("run %s has no recorded frames (run with --record)", runID)
		}
		idx := frameIdx
		if idx < 0 {
			idx += len(result.Frames)
		}
		if idx < 0 || idx >= len(result.Frames) {
			return fmt.Errorf("frame %d out of range [0, %d)", frameIdx, len(result.Frames))
		}
		frame := result.Frames[idx]
		cam := config.DefaultConfig().Camera

		if braille {
			scene := viz.NewScene(100, 50, meta.Containment, cam, 255)
			scene.Draw(frame, viz.ThemeNight)
			svg = export.CanvasToSVG(scene.Canvas, float64(svgSize)/200)
		} else {
			view := viz.NewCamera(meta.Containment.OuterSphereRadius() * 1.05)
			viz.Motion{
				RotationSpeed: cam.RotationSpeed,
				ZoomAmplitude: cam.ZoomAmplitude,
				ZoomSpeed:     cam.ZoomSpeed,
				BaseZoom:      cam.BaseZoom,
			}.Apply(view, frame.Tick)
			svg = export.FrameToSVG(frame, meta.Containment, view, svgSize, svgSize)
		}
	}

	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tPARTICLES\tRADIUS\tHEIGHT\tP_RADIUS\tSPEED\tSPHERE_R")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		c := cfg.Containment()
		fmt.Fprintf(w, "%s\t%d\t%.0f\t%.0f\t%.0f\t[%.0f, %.0f)\t%.1f\n",
			name, cfg.Particles, c.CylinderRadius, c.CylinderHeight, c.ParticleRadius,
			cfg.Sampling.SpeedMin, cfg.Sampling.SpeedMax, c.OuterSphereRadius())
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if numRuns <= 0 {
		return fmt.Errorf("runs must be positive, got %d", numRuns)
	}

	factory := func(seed int64) (*sim.Simulator, error) { return newSimulator(cfg, seed) }
	fmt.Printf("running %d x %s (%d particles, %d ticks)...\n", numRuns, name, cfg.Particles, cfg.Ticks)
	start := time.Now()
	results, err := sim.NewEnsemble(factory, numRuns, seedStart).Run(cmd.Context(), cfg.RunConfig())
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tSIDE\tTOP\tBOTTOM\tSPEED\tDRIFT\tMAX_EXCESS\tVIOLATIONS\tCONTAINED")
	failed := 0
	for i, r := range results {
		contained := "yes"
		if len(r.Errors) > 0 {
			contained = "NO"
			failed++
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%.3f±%.3f\t%.2e\t%.2e\t%.0f\t%s\n",
			seedStart+int64(i), r.StepsTaken,
			r.Hits.Reflected, r.Hits.Top, r.Hits.Bottom,
			r.Metrics["speed_mean"], r.Metrics["speed_stddev"],
			r.Metrics["energy_drift"], r.Metrics["containment_excess"],
			r.Metrics["containment_violations"], contained)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d runs escaped the cylinder", failed, numRuns)
	}
	return nil
}

func writeConfig(cmd *cobra.Command, args []string) error {
	path := "cylsim.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
