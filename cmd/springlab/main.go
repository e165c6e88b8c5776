package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/springlab/internal/analysis"
	"github.com/san-kum/springlab/internal/automation"
	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/experiment"
	"github.com/san-kum/springlab/internal/export"
	"github.com/san-kum/springlab/internal/lab"
	"github.com/san-kum/springlab/internal/storage"
	"github.com/san-kum/springlab/internal/viz"
	"github.com/san-kum/springlab/internal/water"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string

	dt         float64
	frames     int
	seed       int64
	stiffness  float64
	stringMode bool

	// Terminal canvas size in character cells
	cols int
	rows int

	// Phase plot axes
	xAxis int
	yAxis int

	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	sweepMetric string

	outFile   string
	svgWidth  int
	svgHeight int

	// Frames between status lines
	progressEvery int
	watchEvery    int

	logger *log.Logger
)

// labWorld is the world rectangle shown by the lab front end.
var labWorld = r2.Vec{X: 800, Y: 480}

func main() {
	rootCmd := &cobra.Command{
		Use:   "springlab",
		Short: "interactive spring networks and water surfaces",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = log.NewWithOptions(os.Stderr, log.Options{
				Level:           level,
				Prefix:          "springlab",
				ReportTimestamp: true,
				TimeFormat:      time.Kitchen,
			})
			return nil
		},
		// Default to the interactive lab when no command is given
		RunE: runLab,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".springlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	addCanvasFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario headless and store the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addRunFlags(runCmd)
	runCmd.Flags().IntVar(&progressEvery, "every", 60, "frames between progress logs (0 disables)")

	watchCmd := &cobra.Command{
		Use:   "watch [scenario]",
		Short: "step a scenario live and print its state",
		Args:  cobra.ExactArgs(1),
		RunE:  watchScenario,
	}
	addRunFlags(watchCmd)
	watchCmd.Flags().IntVar(&watchEvery, "every", 30, "frames between status lines")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored state components",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and phase analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&xAxis, "x", 0, "state index for the phase x axis")
	analyzeCmd.Flags().IntVar(&yAxis, "y", 1, "state index for the phase y axis")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	labCmd := &cobra.Command{
		Use:   "lab [scenario]",
		Short: "open the interactive spring lab",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLab,
	}
	labCmd.Flags().Float64Var(&stiffness, "stiffness", lab.DefaultStiffness, "initial stiffness knob")
	labCmd.Flags().BoolVar(&stringMode, "string", false, "start in string mode")

	waterCmd := &cobra.Command{
		Use:   "water",
		Short: "open the interactive water surface",
		Args:  cobra.NoArgs,
		RunE:  runWater,
	}

	replayCmd := &cobra.Command{
		Use:   "replay [script]",
		Short: "replay a recorded input script into the lab",
		Args:  cobra.ExactArgs(1),
		RunE:  replayScript,
	}
	replayCmd.Flags().StringVar(&outFile, "svg", "", "write the final network to this SVG file")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "sweep one parameter across parallel runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "stiffness", "parameter to sweep ("+strings.Join(automation.SweepParams(), ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.5, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 3, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of values")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_decay", "metric to minimise")

	svgCmd := &cobra.Command{
		Use:   "svg [scenario]",
		Short: "run a scenario and render its final frame as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderSVG,
	}
	addRunFlags(svgCmd)
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "picture width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 480, "picture height")

	rootCmd.AddCommand(runCmd, watchCmd, listCmd, plotCmd, analyzeCmd, exportCmd, presetsCmd,
		labCmd, waterCmd, replayCmd, sweepCmd, svgCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "frame time")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to run")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().Float64Var(&stiffness, "stiffness", lab.DefaultStiffness, "stiffness knob")
	cmd.Flags().BoolVar(&stringMode, "string", false, "string mode")
}

func addCanvasFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().IntVar(&cols, "cols", 100, "canvas width in cells")
	cmd.PersistentFlags().IntVar(&rows, "rows", 30, "canvas height in cells")
}

// loadConfig resolves defaults, then the preset, then the config file, then
// any flag set explicitly on cmd.
func loadConfig(cmd *cobra.Command, scenario string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if scenario != "" {
		cfg.Scenario = scenario
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scenario))
		}
		cfg = p
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
		if scenario != "" {
			cfg.Scenario = scenario
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("stiffness") {
		cfg.Lab.Stiffness = stiffness
	}
	if flags.Changed("string") {
		cfg.Lab.StringMode = stringMode
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.NewRegistry(), logger)
	if err := exp.Setup(); err != nil {
		return err
	}
	if progressEvery > 0 {
		exp.Simulator().AddObserver(experiment.NewProgress(progressEvery, logger, exp.Stepper()))
	}

	ctx, cancel := interruptible()
	defer cancel()

	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	st := storage.New(dataDir)
	runID, err := st.Save(cfg, preset, result)
	if err != nil {
		return err
	}
	logger.Info("saved", "run", runID, "elapsed", elapsed)

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
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
	fmt.Fprintln(w, "ID\tSCENARIO\tPRESET\tTIME\tFRAMES\tDT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.4f\n",
			run.ID,
			run.Scenario,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.StepsTaken,
			run.Dt,
		)
	}
	return w.Flush()
}

// caption names state component idx for a scenario's flattened state.
func caption(scenario string, idx int) string {
	if scenario == "water" {
		return fmt.Sprintf("column %d height", idx)
	}
	axis := "x"
	if idx%2 == 1 {
		axis = "y"
	}
	return fmt.Sprintf("node %d %s", idx/2, axis)
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(states))

	var indices []int
	if meta.Scenario == "water" {
		n := len(states[0])
		indices = []int{n / 4, n / 2, 3 * n / 4}
	} else {
		// y components of the first few nodes
		for i := 1; i < len(states[0]) && len(indices) < 4; i += 2 {
			indices = append(indices, i)
		}
	}

	for _, idx := range indices {
		graph := asciigraph.Plot(analysis.Component(states, idx),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption(meta.Scenario, idx)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if meta.Scenario == "pendulums" {
		sep := analysis.Separation(states, 0, 1)
		if len(sep) > 1 {
			fmt.Println(asciigraph.Plot(sep,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption("anchor-bob distance"),
			))
		}
	}
	return nil
}

func watchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if watchEvery <= 0 {
		return fmt.Errorf("--every must be positive")
	}

	exp := experiment.New(cfg, experiment.NewRegistry(), logger)
	if err := exp.Setup(); err != nil {
		return err
	}
	energy, _ := exp.Stepper().(dynamo.EnergyReporter)

	ctx, cancel := interruptible()
	defer cancel()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FRAME\tTIME\tMAX\tENERGY")
	n := 0
	err = exp.Watch(ctx, func(x dynamo.State, t float64) bool {
		n++
		if n%watchEvery == 0 {
			e := "-"
			if energy != nil {
				e = fmt.Sprintf("%.4f", energy.Energy())
			}
			fmt.Fprintf(w, "%d\t%.3f\t%.4f\t%s\n", n, t, x.MaxAbs(), e)
			w.Flush()
		}
		return true
	})
	w.Flush()
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) < 2 {
		return fmt.Errorf("run %s has too few samples", runID)
	}

	var series []float64
	var label string
	switch meta.Scenario {
	case "water":
		mid := len(states[0]) / 2
		series, label = analysis.Component(states, mid), caption(meta.Scenario, mid)
	case "pendulums":
		series, label = analysis.Separation(states, 0, 1), "anchor-bob distance"
	default:
		series, label = analysis.Component(states, 1), caption(meta.Scenario, 1)
	}

	fmt.Printf("run: %s (%s)\n", meta.ID, meta.Scenario)
	fmt.Printf("series: %s\n\n", label)

	freq := analysis.DominantFrequency(series, meta.Dt)
	fmt.Printf("dominant frequency: %.4f Hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.2f frames\n", 1/(freq*meta.Dt))
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))
	crossings := analysis.Crossings(series, mean)
	fmt.Printf("mean crossings: %d (mean period %.2f frames)\n", len(crossings), analysis.MeanPeriod(crossings))

	if meta.Scenario == "pendulums" {
		sp := analysis.SeparationSpread(states, 0, 1, 60)
		fmt.Printf("separation: mean %.4f, stddev %.4f, last %d frames %.4f\n", sp.Mean, sp.StdDev, sp.TailFrames, sp.Tail)
	}

	fmt.Println("\nmetrics:")
	for name, val := range meta.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	fmt.Printf("\nphase portrait (x%d vs x%d):\n", xAxis, yAxis)
	portrait := analysis.PhasePortrait(states, xAxis, yAxis)
	fmt.Print(analysis.PhasePortraitToASCII(portrait, 60, 20))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	result := &dynamo.Result{
		States:     states,
		Times:      times,
		Metrics:    meta.Metrics,
		StepsTaken: meta.StepsTaken,
	}
	return storage.ExportJSON(os.Stdout, meta.Scenario, meta.Dt, result)
}

func listPresets(cmd *cobra.Command, args []string) error {
	scenarios := experiment.NewRegistry().ListScenarios()
	if len(args) == 1 {
		scenarios = args[:1]
	}
	for _, s := range scenarios {
		names := config.ListPresets(s)
		if names == nil {
			return fmt.Errorf("unknown scenario: %s", s)
		}
		fmt.Printf("%s: %s\n", s, strings.Join(names, ", "))
	}
	return nil
}

func runLab(cmd *cobra.Command, args []string) error {
	scenario := config.DefaultScenario
	if len(args) == 1 {
		scenario = args[0]
	}
	cfg, err := loadConfig(cmd, scenario)
	if err != nil {
		return err
	}
	l, err := experiment.NewLab(cfg, cfg.Scenario)
	if err != nil {
		return err
	}
	logger.Debug("opening lab", "scenario", cfg.Scenario, "nodes", l.Network().NodeCount())
	return viz.RunLab(viz.NewLabModel(l, labWorld, cols, rows, cfg.Dt))
}

func runWater(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, "water")
	if err != nil {
		return err
	}
	s, err := water.NewScene(cfg.SceneOptions())
	if err != nil {
		return err
	}
	return viz.RunWater(viz.NewWaterModel(s, cols, rows, cfg.Dt))
}

func replayScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, script.Scenario)
	if err != nil {
		return err
	}
	l, err := experiment.NewLab(cfg, cfg.Scenario)
	if err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	logger.Info("replaying", "script", script.Name, "frames", script.Length(), "events", len(script.Events))
	err = automation.Replay(ctx, l, script, cfg.Dt, func(frame int, l *lab.Lab) {
		if frame%60 == 0 {
			logger.Debug("frame", "n", frame, "nodes", l.Network().NodeCount(), "energy", l.Energy())
		}
	})
	if err != nil {
		return err
	}

	net := l.Network()
	fmt.Printf("nodes: %d\n", net.NodeCount())
	fmt.Printf("springs: %d\n", net.SpringCount())
	fmt.Printf("stiffness: %.2f\n", l.Stiffness())
	fmt.Printf("energy: %.6f\n", l.Energy())

	if outFile != "" {
		svg := export.NetworkToSVG(net.Snapshot(), 800, 480)
		if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
			return err
		}
		logger.Info("wrote svg", "path", outFile)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	sw := &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}
	results, err := automation.RunSweep(ctx, sw, experiment.NewRegistry(), logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTABLE\t%s\n", strings.ToUpper(sweepParam), strings.ToUpper(sweepMetric))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%v\t%.6f\n", r.ParamValue, r.Stable, r.Metrics[sweepMetric])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := automation.SweepStats(results)
	fmt.Printf("\nstable: %d, unstable: %d\n", stable, unstable)
	if best, ok := automation.Best(results, sweepMetric); ok {
		fmt.Printf("best %s: %.4f (%s %.6f)\n", sweepParam, best.ParamValue, sweepMetric, best.Metrics[sweepMetric])
	}
	return nil
}

func renderSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.NewRegistry(), logger)
	if err := exp.Setup(); err != nil {
		return err
	}
	ctx, cancel := interruptible()
	defer cancel()
	if _, err := exp.Run(ctx); err != nil {
		return err
	}

	var svg string
	switch st := exp.Stepper().(type) {
	case *lab.Lab:
		svg = export.NetworkToSVG(st.Network().Snapshot(), svgWidth, svgHeight)
	case *water.Scene:
		opts := st.Options()
		svg = export.SurfaceToSVG(st.Field().Heights(), opts.Level, opts.Width, opts.Height)
	default:
		return fmt.Errorf("scenario %s has no SVG renderer", cfg.Scenario)
	}

	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(outFile, []byte(svg), 0644)
}
