package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/collidesim/internal/automation"
	"github.com/san-kum/collidesim/internal/body"
	"github.com/san-kum/collidesim/internal/config"
	"github.com/san-kum/collidesim/internal/experiment"
	"github.com/san-kum/collidesim/internal/export"
	"github.com/san-kum/collidesim/internal/logging"
	"github.com/san-kum/collidesim/internal/optim"
	"github.com/san-kum/collidesim/internal/sim"
	"github.com/san-kum/collidesim/internal/storage"
	"github.com/san-kum/collidesim/internal/viz"
)

var (
	dataDir        string
	configFile     string
	logLevel       string
	duration       float64
	tickMS         float64
	maxCatchUp     int
	circleResponse string
	steps          int
	noSave         bool
	outFile        string
	braille        bool
	fromRun        string
	sweepParam     string
	sweepMin       float64
	sweepMax       float64
	sweepSteps     int
	sweepTicks     int
	grid           []string
	tuneMetric     string
)

var log logging.Log = logging.Nop()

func main() {
	rootCmd := &cobra.Command{
		Use:           "collidesim",
		Short:         "real-time 2D collision simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log = logging.New(level)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".collidesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario headless and print the final state",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", 0, "step N ticks synchronously instead of running in real time")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario in the terminal renderer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot object trajectories of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [scenario]",
		Short: "render a scenario or a saved trajectory to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderSVG,
	}
	svgCmd.Flags().IntVar(&steps, "steps", 0, "advance the scenario N ticks before drawing")
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	svgCmd.Flags().BoolVar(&braille, "braille", false, "draw through the terminal canvas")
	svgCmd.Flags().StringVar(&fromRun, "run", "", "draw the trajectory of a saved run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tOBJECTS\tDURATION")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.1fs\n", name, len(cfg.Objects), cfg.Duration)
			}
			return w.Flush()
		},
	}

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run every step of a batch scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "step a scenario across a range of one parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "restitution", "parameter to sweep: restitution or percent")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first parameter value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last parameter value")
	sweepCmd.Flags().IntVar(&sweepSteps, "n", 5, "number of values")
	sweepCmd.Flags().IntVar(&sweepTicks, "ticks", 300, "ticks per value")

	tuneCmd := &cobra.Command{
		Use:   "tune [scenario]",
		Short: "grid-search parameters that minimize a metric",
		Args:  cobra.ExactArgs(1),
		RunE:  runTune,
	}
	tuneCmd.Flags().StringArrayVar(&grid, "grid", []string{"restitution=0:1:5"}, "parameter range as name=min:max:n (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "energy_drift", "metric to minimize")
	tuneCmd.Flags().IntVar(&sweepTicks, "ticks", 300, "ticks per candidate")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportJSONCmd, svgCmd, presetsCmd, batchCmd, sweepCmd, tuneCmd)

	err := rootCmd.Execute()
	_ = log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "wall-clock duration in seconds")
	cmd.Flags().Float64Var(&tickMS, "tick", config.DefaultTickMS, "tick interval in milliseconds")
	cmd.Flags().IntVar(&maxCatchUp, "catch-up", 0, "extra ticks allowed per wake-up after an overrun")
	cmd.Flags().StringVar(&circleResponse, "circle-response", "none", "circle/circle contacts: none or impulse")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the run")
}

// loadScenario resolves preset, then config file, then explicit flags.
func loadScenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown scenario: %s (available: %v)", args[0], config.ListPresets())
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
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("tick") {
		cfg.TickMS = tickMS
	}
	if flags.Changed("catch-up") {
		cfg.MaxCatchUp = maxCatchUp
	}
	if flags.Changed("circle-response") {
		cfg.CircleResponse = circleResponse
	}
	if err := applyLogLevel(cmd, cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyLogLevel switches the logger to a scenario's level unless
// --log-level was given explicitly.
func applyLogLevel(cmd *cobra.Command, name string) error {
	if name == "" {
		return nil
	}
	if f := cmd.Flag("log-level"); f != nil && f.Changed {
		return nil
	}
	level, err := logging.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("config log_level: %w", err)
	}
	log = logging.New(level)
	return nil
}

func newExperiment(cmd *cobra.Command, args []string) (*experiment.Experiment, error) {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return nil, err
	}
	return experiment.New(cfg, experiment.NewRegistry(), log)
}

func save(exp *experiment.Experiment, res *sim.Result) error {
	if noSave {
		return nil
	}
	runID, err := exp.Save(storage.New(dataDir), res)
	if err != nil {
		return err
	}
	log.Info("run saved", logging.String("id", runID), logging.Int("frames", exp.Recorder().Frames()))
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd, args)
	if err != nil {
		return err
	}

	var res *sim.Result
	if steps > 0 {
		res = exp.StepN(steps)
	} else {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		res, err = exp.Run(ctx)
		if err != nil {
			return err
		}
	}

	printFinal(cmd.OutOrStdout(), res.Final)
	return save(exp, res)
}

func runLive(cmd *cobra.Command, args []string) error {
	exp, err := newExperiment(cmd, args)
	if err != nil {
		return err
	}
	engine, cfg, simCfg := exp.Engine(), exp.Config(), exp.SimConfig()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return engine.Run(gctx) })
	g.Go(func() error {
		defer engine.Stop()
		model := viz.NewModel(engine, viz.Options{
			Scenario: cfg.Scenario,
			Frame:    simCfg.Frame,
			Duration: simCfg.Duration,
			Width:    cfg.Width,
			Height:   cfg.Height,
			OnFrame:  exp.Recorder().Record,
		})
		_, err := tea.NewProgram(model, tea.WithContext(gctx)).Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	res := engine.Result(time.Since(start))
	printFinal(cmd.OutOrStdout(), res.Final)
	return save(exp, res)
}

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	results, err := automation.RunScenario(ctx, sc, experiment.NewRegistry(), storage.New(dataDir), log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENARIO\tTICKS\tCONTACTS\tRESOLVED\tFINGERPRINT\tRUN")
	for i, r := range results {
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%016x\t%s\n",
			i+1, r.Scenario, r.Result.Ticks, r.Result.Contacts, r.Result.Resolved, r.Fingerprint, runID)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	results, err := automation.RunSweep(&automation.ParameterSweep{
		Preset:   args[0],
		Param:    sweepParam,
		ParamMin: sweepMin,
		ParamMax: sweepMax,
		NumSteps: sweepSteps,
		Ticks:    sweepTicks,
	}, experiment.NewRegistry(), log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tKINETIC\tMOMENTUM\tRESOLVED\tFINGERPRINT\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%016x\n",
			formatFloat(r.ParamValue), formatFloat(r.KineticEnergy), formatFloat(r.Momentum), r.Resolved, r.Fingerprint)
	}
	return w.Flush()
}

// parseGrid reads "name=min:max:n" into a parameter name and its values.
func parseGrid(arg string) (string, []float64, error) {
	name, rng, ok := strings.Cut(arg, "=")
	if !ok {
		return "", nil, fmt.Errorf("invalid grid %q: want name=min:max:n", arg)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("invalid grid %q: want name=min:max:n", arg)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("invalid grid %q: %w", arg, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("invalid grid %q: %w", arg, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("invalid grid %q: bad count", arg)
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func runTune(cmd *cobra.Command, args []string) error {
	base := config.GetPreset(args[0])
	if base == nil {
		return fmt.Errorf("unknown scenario: %s (available: %v)", args[0], config.ListPresets())
	}

	var names []string
	var ranges [][]float64
	for _, g := range grid {
		name, values, err := parseGrid(g)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	reg := experiment.NewRegistry()
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for name, v := range params {
			if err := cfg.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		return experiment.New(cfg, reg, log)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	best, value, err := optim.NewGridSearch(names, ranges).Search(ctx, build, sweepTicks, tuneMetric)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range names {
		fmt.Fprintf(out, "%s = %s\n", name, formatFloat(best[name]))
	}
	fmt.Fprintf(out, "%s = %s\n", tuneMetric, formatFloat(value))
	return nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }

// printFinal writes one report per object in world order.
func printFinal(w io.Writer, objs []body.Object) {
	for _, o := range objs {
		switch o.Kind() {
		case body.KindCircle:
			c, _ := o.Circle()
			fmt.Fprintf(w, "Circle final pos: %s %s\n", formatFloat(c.Center.X), formatFloat(c.Center.Y))
		case body.KindBox:
			b, _ := o.Box()
			fmt.Fprintf(w, "AABB final pos: (%s, %s), (%s, %s)\n",
				formatFloat(b.Min.X), formatFloat(b.Min.Y), formatFloat(b.Max.X), formatFloat(b.Max.Y))
			fmt.Fprintf(w, "AABB final velocity: (%s, %s)\n", formatFloat(b.Velocity.X), formatFloat(b.Velocity.Y))
		}
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tTICKS\tCONTACTS\tFINGERPRINT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%d\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Ticks,
			run.Contacts,
			run.Fingerprint,
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

	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "scenario: %s\n", meta.Scenario)
	fmt.Fprintf(out, "samples: %d\n\n", len(samples))

	const maxPlots = 6
	series := make(map[int][2][]float64)
	kinds := make(map[int]string)
	for _, smp := range samples {
		if smp.Object >= maxPlots {
			continue
		}
		xy := series[smp.Object]
		xy[0] = append(xy[0], smp.X)
		xy[1] = append(xy[1], smp.Y)
		series[smp.Object] = xy
		kinds[smp.Object] = smp.Kind
	}

	for obj := 0; obj < maxPlots; obj++ {
		xy, ok := series[obj]
		if !ok {
			continue
		}
		graph := asciigraph.PlotMany([][]float64{xy[0], xy[1]},
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Magenta),
			asciigraph.Caption(fmt.Sprintf("object %d (%s): x, y vs frame", obj, kinds[obj])),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outFile != "" {
		return st.ExportJSONFile(outFile, args[0])
	}
	return st.ExportJSON(cmd.OutOrStdout(), args[0])
}

func renderSVG(cmd *cobra.Command, args []string) error {
	var svg string
	if fromRun != "" {
		st := storage.New(dataDir)
		samples, err := st.LoadTrajectory(fromRun)
		if err != nil {
			return err
		}
		svg = export.TrajectoryToSVG(samples, config.DefaultWidth, config.DefaultHeight)
	} else {
		exp, err := newExperiment(cmd, args)
		if err != nil {
			return err
		}
		res := exp.StepN(steps)
		cfg := exp.Config()
		if braille {
			scene := viz.NewScene(viz.NewCanvas(80, 40), cfg.Width, cfg.Height)
			scene.Draw(res.Final)
			svg = export.CanvasToSVG(scene.Canvas(), 4)
		} else {
			svg = export.SnapshotToSVG(res.Final, cfg.Width, cfg.Height)
		}
	}

	if outFile == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), svg)
		return err
	}
	return os.WriteFile(outFile, []byte(svg), 0644)
}
