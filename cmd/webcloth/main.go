package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/webcloth/internal/automation"
	"github.com/san-kum/webcloth/internal/config"
	"github.com/san-kum/webcloth/internal/export"
	"github.com/san-kum/webcloth/internal/metrics"
	"github.com/san-kum/webcloth/internal/raster"
	"github.com/san-kum/webcloth/internal/sim"
	"github.com/san-kum/webcloth/internal/store"
	"github.com/san-kum/webcloth/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	debug      bool
	// overrides on top of preset and config file
	seed   int64
	fps    int
	theme  string
	repel  bool
	wind   bool
	width  float64
	height float64
	// headless runs
	frames  int
	out     string
	poke    bool
	every   int
	csvPath string
	save    bool
	// bench and sweep
	runs      int
	paramName string
	paramMin  float64
	paramMax  float64
	steps     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "webcloth",
		Short: "reactive cloth background simulation",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".webcloth", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "default", "preset configuration")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log to debug.log")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 1, "random seed")
	rootCmd.PersistentFlags().IntVar(&fps, "fps", sim.DefaultFPS, "frame rate")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", config.DefaultTheme, "palette")
	rootCmd.PersistentFlags().BoolVar(&repel, "repel", false, "pointer pushes the web away")
	rootCmd.PersistentFlags().BoolVar(&wind, "wind", true, "enable wind")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run the web live in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render frames headlessly to PNG or GIF",
		RunE:  runRender,
	}
	addHeadlessFlags(renderCmd)
	renderCmd.Flags().StringVarP(&out, "out", "o", "webcloth.png", "output file (.png or .gif)")
	renderCmd.Flags().IntVar(&every, "every", 2, "frames between GIF captures")

	svgCmd := &cobra.Command{
		Use:   "svg",
		Short: "render the last frame as SVG",
		RunE:  runSVG,
	}
	addHeadlessFlags(svgCmd)
	svgCmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "plot per-frame metrics of a headless run",
		RunE:  runTrace,
	}
	addHeadlessFlags(traceCmd)
	traceCmd.Flags().StringVar(&csvPath, "csv", "", "write the trace as CSV")
	traceCmd.Flags().BoolVar(&save, "save", false, "store the run in the data directory")
	traceCmd.Flags().IntVar(&every, "every", 1, "frames between samples")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run seeds in parallel and report throughput",
		RunE:  runBench,
	}
	addHeadlessFlags(benchCmd)
	benchCmd.Flags().IntVar(&runs, "runs", 8, "number of seeds")

	playCmd := &cobra.Command{
		Use:   "play [scenario.yaml]",
		Short: "replay a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlay,
	}
	playCmd.Flags().StringVarP(&out, "out", "o", "", "write a GIF of the replay")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "measure the response to one ripple across a parameter range",
		RunE:  runSweep,
	}
	addHeadlessFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&paramName, "param", "damping", "parameter to vary")
	sweepCmd.Flags().Float64Var(&paramMin, "min", 0.9, "lowest value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 0.99, "highest value")
	sweepCmd.Flags().IntVar(&steps, "steps", 5, "number of values")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	})

	rootCmd.AddCommand(liveCmd, renderCmd, svgCmd, traceCmd, benchCmd, playCmd, sweepCmd, runsCmd, showCmd, exportCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addHeadlessFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&width, "width", 800, "viewport width")
	cmd.Flags().Float64Var(&height, "height", 600, "viewport height")
	cmd.Flags().IntVar(&frames, "frames", 300, "frames to simulate")
	cmd.Flags().BoolVar(&poke, "poke", true, "ripple from the centre before the first frame")
}

// setupLogging keeps log output off the terminal the TUI draws on.
func setupLogging() error {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}
	if _, err := tea.LogToFile("debug.log", "webcloth"); err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	return nil
}

// loadConfig resolves preset, then config file, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Resolve(preset, configFile)
	if errors.Is(err, config.ErrUnknownPreset) {
		return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.Render.FPS = fps
	}
	if flags.Changed("theme") {
		cfg.Render.Theme = theme
	}
	if flags.Changed("repel") {
		cfg.Pointer.Repel = repel
	}
	if flags.Changed("wind") {
		cfg.Wind.Enabled = wind
	}
	return cfg, nil
}

func newSimulator(cmd *cobra.Command) (*sim.Simulator, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	log.Printf("preset=%s seed=%d viewport=%vx%v", preset, opts.Seed, width, height)

	s := sim.New(width, height, opts)
	if poke {
		s.Ripple(width/2, height/2, 0)
	}
	return s, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		preset = args[0]
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	return viz.RunLive(sim.New(800, 600, opts), preset)
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := newSimulator(cmd)
	if err != nil {
		return err
	}

	surface := raster.New(int(width), int(height))
	sched := sim.NewScheduler(s)
	isGIF := strings.EqualFold(filepath.Ext(out), ".gif")
	if every < 1 {
		every = 1
	}
	anim := raster.NewAnimation(every * 100 / s.Options().FPS)

	start := time.Now()
	for i := 1; i <= frames; i++ {
		if err := sched.Advance(time.Duration(i)*sched.FrameInterval, surface); err != nil {
			return err
		}
		if isGIF && i%every == 0 {
			anim.Add(surface.Image())
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if isGIF {
		err = anim.Encode(f)
	} else {
		err = surface.WritePNG(f)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	fmt.Printf("rendered %d frames in %v\n", frames, time.Since(start))
	fmt.Printf("wrote %s\n", out)
	return nil
}

func runSVG(cmd *cobra.Command, args []string) error {
	s, err := newSimulator(cmd)
	if err != nil {
		return err
	}
	if _, err := sim.NewScheduler(s).RunFrames(context.Background(), frames, nil); err != nil {
		return err
	}

	svg := export.NewSVG(width, height)
	s.Draw(svg)

	if out == "" {
		_, err = svg.WriteTo(os.Stdout)
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := svg.WriteTo(f); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	s, err := newSimulator(cmd)
	if err != nil {
		return err
	}
	for _, m := range metrics.All() {
		s.AddMetric(m)
	}
	trace := store.NewTrace(every)
	s.AddObserver(trace)

	result, err := sim.NewScheduler(s).RunFrames(context.Background(), frames, nil)
	if err != nil {
		return err
	}

	fmt.Printf("simulated %d frames (%v of web time) in %v\n", result.Frames, result.Elapsed, result.Wall)
	if len(trace.Samples) > 1 {
		for _, col := range []string{"max_displacement", "kinetic_energy"} {
			graph := asciigraph.Plot(trace.Column(col),
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(col),
			)
			fmt.Println(graph)
			fmt.Println()
		}
	}
	fmt.Println("metrics:")
	for _, name := range metrics.Names() {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := store.WriteCSV(f, trace); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvPath)
	}

	if save {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(store.Metadata(preset, s, result), trace)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	ens := sim.NewEnsemble(width, height, opts, runs, opts.Seed, frames)
	ens.Metrics = func() []sim.Metric {
		return []sim.Metric{metrics.NewMaxDisplacement(), metrics.NewKineticEnergy()}
	}

	fmt.Printf("benchmarking %d seeds x %d frames at %vx%v\n\n", runs, frames, width, height)
	start := time.Now()
	results, err := ens.Run(context.Background())
	if err != nil {
		return err
	}
	total := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tTIME\tFRAMES/SEC\tPEAK\tENERGY\tRIPPLES")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.2f\t%.4f\t%d\n",
			opts.Seed+int64(i),
			r.Frames,
			r.Wall.Round(time.Microsecond),
			float64(r.Frames)/r.Wall.Seconds(),
			r.Metrics["max_displacement"],
			r.Metrics["kinetic_energy"],
			r.Ripples,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d frames in %v (%.0f frames/sec overall)\n", runs*frames, total, float64(runs*frames)/total.Seconds())
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if scenario.Preset != "" && !cmd.Flags().Changed("preset") {
		preset = scenario.Preset
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	s := sim.New(scenario.Width, scenario.Height, opts)

	var surface *raster.Surface
	var anim *raster.Animation
	var onFrame func(int)
	if out != "" {
		surface = raster.New(int(scenario.Width), int(scenario.Height))
		anim = raster.NewAnimation(3)
		onFrame = func(frame int) {
			if frame%2 == 0 {
				anim.Add(surface.Image())
			}
		}
	}

	fmt.Printf("playing %s: %s\n", scenario.Name, scenario.Description)
	var result *sim.Result
	if surface != nil {
		result, err = automation.RunScenario(context.Background(), scenario, s, surface, onFrame)
	} else {
		result, err = automation.RunScenario(context.Background(), scenario, s, nil, nil)
	}
	if err != nil {
		return err
	}

	fmt.Printf("frames: %d\n", result.Frames)
	fmt.Printf("ripples: %d\n", result.Ripples)
	fmt.Printf("final max displacement: %.3f\n", result.Metrics["max_displacement"])
	fmt.Printf("final kinetic energy: %.6f\n", result.Metrics["kinetic_energy"])

	if anim != nil {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := anim.Encode(f); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", out)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		ParamName: paramName,
		ParamMin:  paramMin,
		ParamMax:  paramMax,
		NumSteps:  steps,
		Frames:    frames,
		Width:     width,
		Height:    height,
	}
	results, err := automation.RunSweep(context.Background(), sweep, opts)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPEAK\tENERGY\tRESIDUAL\n", strings.ToUpper(paramName))
	peaks := make([]float64, len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%.4f\t%.3f\t%.6f\t%.6f\n", r.ParamValue, r.PeakDisplacement, r.MeanEnergy, r.Residual)
		peaks[i] = r.PeakDisplacement
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(peaks) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(peaks, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("peak displacement vs "+paramName)))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	all, err := st.List()
	if err != nil {
		return err
	}

	if len(all) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSEED\tVIEWPORT\tFRAMES\tRIPPLES")

	for _, run := range all {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%vx%v\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Width, run.Height,
			run.Frames,
			run.Ripples,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	if len(trace.Samples) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s seed: %d frames: %d\n\n", meta.Preset, meta.Seed, meta.Frames)
	for _, col := range []string{"max_displacement", "kinetic_energy", "residual"} {
		fmt.Println(asciigraph.Plot(trace.Column(col), asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption(col)))
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	return store.ExportJSON(os.Stdout, *meta, trace)
}
