package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/clothsim/internal/analysis"
	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/export"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/storage"
	"github.com/san-kum/clothsim/internal/viz"
)

var (
	dataDir string

	width      float64
	height     float64
	resX       int
	resY       int
	dt         float64
	duration   float64
	gravity    float64
	noGravity  bool
	damping    float64
	iterations int
	amplitude  float64
	frequency  float64
	driven     int
	probes     []int
	sampleRate int

	configFile string
	preset     string

	outPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clothsim",
		Short: "position-based dynamics cloth simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".clothsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store the result",
		RunE:  runSimulation,
	}
	addClothFlags(runCmd)
	runCmd.Flags().IntSliceVar(&probes, "probes", nil, "vertex indices to record")
	runCmd.Flags().IntVar(&sampleRate, "sample", 1, "record every Nth tick")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with interactive terminal visualization",
		RunE:  runLive,
	}
	addClothFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded probe trajectories",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a recorded probe",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write recorded probe data as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write full run data as JSON to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportOBJCmd := &cobra.Command{
		Use:   "export-obj",
		Short: "simulate and write the final cloth mesh as Wavefront OBJ",
		RunE:  exportOBJ,
	}
	addClothFlags(exportOBJCmd)
	exportOBJCmd.Flags().StringVar(&outPath, "out", "cloth.obj", "output path")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg",
		Short: "simulate and write a wireframe snapshot as SVG",
		RunE:  exportSVG,
	}
	addClothFlags(exportSVGCmd)
	exportSVGCmd.Flags().StringVar(&outPath, "out", "cloth.svg", "output path")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time the solver across resolutions and iteration counts",
		RunE:  benchSolver,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run an iteration-count sweep and rank by mean strain",
		RunE:  sweepIterations,
	}
	addClothFlags(sweepCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd,
		exportCmd, exportCSVCmd, exportJSONCmd, exportOBJCmd, exportSVGCmd,
		benchCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addClothFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&width, "width", config.DefaultWidth, "cloth width")
	cmd.Flags().Float64Var(&height, "height", config.DefaultHeight, "cloth height")
	cmd.Flags().IntVar(&resX, "resx", config.DefaultResolution, "vertices along x")
	cmd.Flags().IntVar(&resY, "resy", config.DefaultResolution, "vertices along y")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravity magnitude")
	cmd.Flags().BoolVar(&noGravity, "no-gravity", false, "disable gravity")
	cmd.Flags().Float64Var(&damping, "damping", config.DefaultDamping, "velocity damping per tick")
	cmd.Flags().IntVar(&iterations, "iterations", config.DefaultIterations, "constraint iterations per tick")
	cmd.Flags().Float64Var(&amplitude, "amplitude", config.DefaultAmplitude, "driven vertex amplitude")
	cmd.Flags().Float64Var(&frequency, "frequency", config.DefaultFrequency, "driven vertex frequency (rad/s)")
	cmd.Flags().IntVar(&driven, "driven", cloth.DrivenCenter, "driven vertex index (-1 center, -2 none)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig resolves precedence: preset, then config file, then
// explicit flags on top.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		tmp := *p
		cfg = &tmp
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("resx") {
		cfg.ResX = resX
	}
	if flags.Changed("resy") {
		cfg.ResY = resY
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if noGravity {
		cfg.GravityEnabled = false
	}
	if flags.Changed("damping") {
		cfg.Damping = damping
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("amplitude") {
		cfg.Amplitude = amplitude
	}
	if flags.Changed("frequency") {
		cfg.Frequency = frequency
	}
	if flags.Changed("driven") {
		cfg.Driven = driven
	}
	if flags.Changed("probes") {
		cfg.Probes = probes
	}

	return cfg, nil
}

func defaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewMeanStrain(),
		metrics.NewMaxStretch(),
		metrics.NewKinetic(),
		metrics.NewStability(100.0),
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	c, err := cloth.New(cfg.ClothConfig())
	if err != nil {
		return err
	}

	runProbes := cfg.Probes
	if len(runProbes) == 0 && c.Driven() >= 0 {
		runProbes = []int{c.Driven()}
	}

	runner := sim.New(c, cfg.Params())
	for _, m := range defaultMetrics() {
		runner.AddMetric(m)
	}

	fmt.Printf("running %dx%d cloth for %.1fs...\n", cfg.ResX, cfg.ResY, cfg.Duration)
	start := time.Now()

	result, err := runner.Run(context.Background(), sim.Config{
		Duration:      cfg.Duration,
		SampleEvery:   sampleRate,
		Probes:        runProbes,
		ValidateState: true,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Width: cfg.Width, Height: cfg.Height,
		ResX: cfg.ResX, ResY: cfg.ResY,
		Dt: cfg.Dt, Duration: cfg.Duration,
		Gravity: cfg.Gravity, GravityEnabled: cfg.GravityEnabled,
		Damping: cfg.Damping, Iterations: cfg.Iterations,
		Amplitude: cfg.Amplitude, Frequency: cfg.Frequency,
		Driven: c.Driven(), Probes: runProbes,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.Ticks)
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	c, err := cloth.New(cfg.ClothConfig())
	if err != nil {
		return err
	}

	m := viz.NewModel(c, cfg.Params())
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
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
	fmt.Fprintln(w, "ID\tTIME\tGRID\tDURATION\tDT\tITER\tSTRAIN")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%.2fs\t%.4fs\t%d\t%.5f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.ResX, run.ResY,
			run.Duration,
			run.Dt,
			run.Iterations,
			run.Metrics["mean_strain"],
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

	frames, _, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("grid: %dx%d\n", meta.ResX, meta.ResY)
	fmt.Printf("samples: %d\n\n", len(frames))

	axes := []string{"x", "y", "z"}
	for pi, probe := range meta.Probes {
		for axis := 0; axis < 3; axis++ {
			col := pi*3 + axis
			if col >= len(frames[0]) {
				continue
			}
			data := make([]float64, len(frames))
			for i := range frames {
				data[i] = frames[i][col]
			}
			graph := asciigraph.Plot(data,
				asciigraph.Height(8),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("vertex %d %s", probe, axes[axis])),
			)
			fmt.Println(graph)
			fmt.Println()
		}
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

	frames, _, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 || len(frames[0]) < 2 {
		return fmt.Errorf("no data")
	}

	// Y of the first recorded probe carries the wave.
	data := make([]float64, len(frames))
	for i := range frames {
		data[i] = frames[i][1]
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	if len(meta.Probes) > 0 {
		fmt.Printf("probe: vertex %d (y)\n\n", meta.Probes[0])
	}

	ps := analysis.PowerSpectrum(data)
	plotData := ps
	if len(ps) >= 8 {
		plotData = ps[:len(ps)/4]
	}

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	sampleDt := meta.Dt
	if len(frames) > 1 && meta.Duration > 0 {
		sampleDt = meta.Duration / float64(len(frames))
	}
	omega := analysis.DominantFrequency(data, sampleDt)
	fmt.Printf("dominant frequency: %.3f rad/s\n", omega)
	if omega > 0 {
		fmt.Printf("period: %.3f s\n", 2*math.Pi/omega)
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, times, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	for _, p := range meta.Probes {
		header = append(header,
			fmt.Sprintf("p%d_x", p), fmt.Sprintf("p%d_y", p), fmt.Sprintf("p%d_z", p))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range frames {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range frames[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, times, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	result := &sim.Result{
		Times:   times,
		Frames:  frames,
		Metrics: meta.Metrics,
		Ticks:   len(frames),
	}
	return storage.ExportJSONStdout(meta, result)
}

// simulateOnce runs a cloth to the configured duration and returns it
// for snapshot export.
func simulateOnce(cfg *config.Config) (*cloth.Cloth, error) {
	c, err := cloth.New(cfg.ClothConfig())
	if err != nil {
		return nil, err
	}

	runner := sim.New(c, cfg.Params())
	_, err = runner.Run(context.Background(), sim.Config{
		Duration:      cfg.Duration,
		ValidateState: true,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func exportOBJ(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	c, err := simulateOnce(cfg)
	if err != nil {
		return err
	}

	if err := export.SaveOBJ(outPath, c); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d vertices, %d triangles)\n", outPath, c.VertexCount(), c.TriangleCount())
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	c, err := simulateOnce(cfg)
	if err != nil {
		return err
	}

	if err := export.SaveSVG(outPath, c, 800, 600); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func benchSolver(cmd *cobra.Command, args []string) error {
	resolutions := []int{16, 32, 64}
	iterCounts := []int{1, 10, 40}

	fmt.Println("benchmarking solver")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GRID\tITER\tTICKS\tTIME\tTICKS/SEC")

	for _, res := range resolutions {
		for _, iter := range iterCounts {
			c, err := cloth.New(cloth.Config{
				Width: 3.0, Height: 3.0, ResX: res, ResY: res,
				Dt: 1.0 / 60.0, Driven: cloth.DrivenCenter,
			})
			if err != nil {
				return err
			}

			params := cloth.DefaultParams()
			params.Iterations = iter

			runner := sim.New(c, params)
			start := time.Now()
			result, err := runner.Run(context.Background(), sim.Config{Duration: 2.0})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			ticksPerSec := float64(result.Ticks) / elapsed.Seconds()
			fmt.Fprintf(w, "%dx%d\t%d\t%d\t%v\t%.0f\n",
				res, res, iter, result.Ticks, elapsed.Round(time.Microsecond), ticksPerSec)
		}
	}

	return w.Flush()
}

func sweepIterations(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	base := cfg.Params()
	points := make([]sim.SweepPoint, 0, 6)
	for _, iter := range []int{1, 2, 5, 10, 20, 40} {
		p := base
		p.Iterations = iter
		points = append(points, sim.SweepPoint{
			Name:   fmt.Sprintf("iter_%d", iter),
			Params: p,
		})
	}

	fmt.Printf("sweeping iteration counts on %dx%d cloth (%.1fs each)...\n\n", cfg.ResX, cfg.ResY, cfg.Duration)

	results := sim.Sweep(context.Background(), cfg.ClothConfig(),
		sim.Config{Duration: cfg.Duration, ValidateState: true},
		points, defaultMetrics)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMEAN_STRAIN\tMAX_STRETCH\tKINETIC\tSTABILITY")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", r.Name, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.6f\t%.4f\t%.4f\t%.3f\n",
			r.Name,
			r.Metrics["mean_strain"],
			r.Metrics["max_stretch"],
			r.Metrics["kinetic_energy"],
			r.Metrics["stability"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if winner, ok := sim.Best(results, "mean_strain"); ok {
		fmt.Printf("\nlowest mean strain: %s (%.6f)\n", winner.Name, winner.Metrics["mean_strain"])
	}
	return nil
}
