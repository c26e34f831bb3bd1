package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/sparsedyn/internal/config"
	"github.com/san-kum/sparsedyn/internal/dynamo"
	"github.com/san-kum/sparsedyn/internal/experiment"
	"github.com/san-kum/sparsedyn/internal/sparse"
	"github.com/san-kum/sparsedyn/internal/storage"
	"github.com/san-kum/sparsedyn/internal/sweep"
	"github.com/san-kum/sparsedyn/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	seed       int64
	noiseLevel float64
	initState  string

	optimizer string
	threshold float64
	ridge     float64
	rho       float64
	nu        float64
	kernel    string
	maxIter   int
	parallel  bool

	degree    int
	trig      bool
	harmonics int

	// Implicit recovery
	channel int
	rankTol float64

	// Threshold sweep
	sweepMin    float64
	sweepMax    float64
	sweepPoints int
	sweepLog    bool
	workers     int

	configFile string
	preset     string
)

// main registers the sparsedyn commands and executes the root command,
// exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "sparsedyn",
		Short: "sparse identification of nonlinear dynamics",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".sparsedyn", "data directory")

	discoverCmd := &cobra.Command{
		Use:   "discover [system]",
		Short: "identify governing equations from simulated data",
		Args:  cobra.ExactArgs(1),
		RunE:  runDiscover,
	}
	discoverCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	discoverCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	discoverCmd.Flags().Int64Var(&seed, "seed", 0, "measurement noise seed")
	discoverCmd.Flags().Float64Var(&noiseLevel, "noise", 0, "noise standard deviation added to derivatives")
	discoverCmd.Flags().StringVar(&initState, "init", "", "initial state, comma separated")
	discoverCmd.Flags().StringVar(&optimizer, "optimizer", "strridge", "optimizer (strridge, admm, sr3)")
	discoverCmd.Flags().Float64Var(&threshold, "threshold", config.DefaultThreshold, "sparsification threshold")
	discoverCmd.Flags().Float64Var(&ridge, "ridge", config.DefaultRidge, "ridge penalty (strridge)")
	discoverCmd.Flags().Float64Var(&rho, "rho", config.DefaultRho, "penalty ratio (admm)")
	discoverCmd.Flags().Float64Var(&nu, "nu", config.DefaultNu, "relaxation strength (sr3)")
	discoverCmd.Flags().StringVar(&kernel, "kernel", "soft", "threshold kernel (soft, hard)")
	discoverCmd.Flags().IntVar(&maxIter, "max-iter", config.DefaultMaxIter, "iteration budget")
	discoverCmd.Flags().BoolVar(&parallel, "parallel", false, "fit output channels concurrently (strridge)")
	discoverCmd.Flags().IntVar(&degree, "degree", config.DefaultDegree, "polynomial library degree")
	discoverCmd.Flags().BoolVar(&trig, "trig", false, "add trigonometric terms to the library")
	discoverCmd.Flags().IntVar(&harmonics, "harmonics", 1, "trigonometric harmonics")
	discoverCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	discoverCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	implicitCmd := &cobra.Command{
		Use:   "implicit [system]",
		Short: "recover an implicit relationship for one channel",
		Args:  cobra.ExactArgs(1),
		RunE:  runImplicit,
	}
	implicitCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	implicitCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	implicitCmd.Flags().Int64Var(&seed, "seed", 0, "measurement noise seed")
	implicitCmd.Flags().Float64Var(&noiseLevel, "noise", 0, "noise standard deviation added to derivatives")
	implicitCmd.Flags().StringVar(&initState, "init", "", "initial state, comma separated")
	implicitCmd.Flags().IntVar(&channel, "channel", 0, "state channel to differentiate")
	implicitCmd.Flags().Float64Var(&threshold, "threshold", config.DefaultThreshold, "sparsification threshold")
	implicitCmd.Flags().StringVar(&kernel, "kernel", "soft", "threshold kernel (soft, hard)")
	implicitCmd.Flags().IntVar(&maxIter, "max-iter", config.DefaultMaxIter, "iteration budget")
	implicitCmd.Flags().Float64Var(&rankTol, "rank-tol", 0, "relative singular value cutoff for the null space")
	implicitCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	implicitCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	sweepCmd := &cobra.Command{
		Use:   "sweep [system]",
		Short: "fit across a threshold grid and pick the best",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	sweepCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	sweepCmd.Flags().Int64Var(&seed, "seed", 0, "measurement noise seed")
	sweepCmd.Flags().Float64Var(&noiseLevel, "noise", 0, "noise standard deviation added to derivatives")
	sweepCmd.Flags().StringVar(&initState, "init", "", "initial state, comma separated")
	sweepCmd.Flags().StringVar(&optimizer, "optimizer", "strridge", "optimizer (strridge, admm, sr3)")
	sweepCmd.Flags().Float64Var(&ridge, "ridge", config.DefaultRidge, "ridge penalty (strridge)")
	sweepCmd.Flags().Float64Var(&rho, "rho", config.DefaultRho, "penalty ratio (admm)")
	sweepCmd.Flags().Float64Var(&nu, "nu", config.DefaultNu, "relaxation strength (sr3)")
	sweepCmd.Flags().StringVar(&kernel, "kernel", "soft", "threshold kernel (soft, hard)")
	sweepCmd.Flags().IntVar(&maxIter, "max-iter", config.DefaultMaxIter, "iteration budget per fit")
	sweepCmd.Flags().IntVar(&degree, "degree", config.DefaultDegree, "polynomial library degree")
	sweepCmd.Flags().BoolVar(&trig, "trig", false, "add trigonometric terms to the library")
	sweepCmd.Flags().IntVar(&harmonics, "harmonics", 1, "trigonometric harmonics")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.001, "lowest threshold")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.0, "highest threshold")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 20, "grid size")
	sweepCmd.Flags().BoolVar(&sweepLog, "log", true, "logarithmic grid spacing")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent fits (0 = all at once)")
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	simulateCmd := &cobra.Command{
		Use:   "simulate [system]",
		Short: "integrate a system and plot the trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulate,
	}
	simulateCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	simulateCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	simulateCmd.Flags().StringVar(&initState, "init", "", "initial state, comma separated")
	simulateCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	simulateCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	liveCmd := &cobra.Command{
		Use:   "live [system]",
		Short: "watch a fit converge interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	liveCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	liveCmd.Flags().Int64Var(&seed, "seed", 0, "measurement noise seed")
	liveCmd.Flags().Float64Var(&noiseLevel, "noise", 0, "noise standard deviation added to derivatives")
	liveCmd.Flags().StringVar(&initState, "init", "", "initial state, comma separated")
	liveCmd.Flags().StringVar(&optimizer, "optimizer", "strridge", "optimizer (strridge, admm, sr3)")
	liveCmd.Flags().Float64Var(&threshold, "threshold", config.DefaultThreshold, "sparsification threshold")
	liveCmd.Flags().Float64Var(&ridge, "ridge", config.DefaultRidge, "ridge penalty (strridge)")
	liveCmd.Flags().Float64Var(&rho, "rho", config.DefaultRho, "penalty ratio (admm)")
	liveCmd.Flags().Float64Var(&nu, "nu", config.DefaultNu, "relaxation strength (sr3)")
	liveCmd.Flags().StringVar(&kernel, "kernel", "soft", "threshold kernel (soft, hard)")
	liveCmd.Flags().IntVar(&degree, "degree", config.DefaultDegree, "polynomial library degree")
	liveCmd.Flags().BoolVar(&trig, "trig", false, "add trigonometric terms to the library")
	liveCmd.Flags().IntVar(&harmonics, "harmonics", 1, "trigonometric harmonics")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	systemsCmd := &cobra.Command{
		Use:   "systems",
		Short: "list available systems and optimizers",
		Run: func(cmd *cobra.Command, args []string) {
			reg := experiment.NewRegistry()
			fmt.Println("systems:")
			for _, name := range reg.ListSystems() {
				fmt.Printf("  %s\n", name)
			}
			fmt.Println("optimizers:")
			for _, name := range reg.ListOptimizers() {
				fmt.Printf("  %s\n", name)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [system]",
		Short: "list available presets for a system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for system: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(discoverCmd, implicitCmd, sweepCmd, simulateCmd, liveCmd, listCmd, showCmd, exportCmd, systemsCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig resolves a command's settings: preset first, then config
// file, then explicit flags on top.
func buildConfig(cmd *cobra.Command, system string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(system, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(system))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	cfg.System = system

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("noise") {
		cfg.NoiseLevel = noiseLevel
	}
	if flags.Changed("optimizer") {
		cfg.Optimizer = optimizer
	}
	if flags.Changed("threshold") {
		cfg.Fit.Threshold = threshold
	}
	if flags.Changed("ridge") {
		cfg.Fit.Ridge = ridge
	}
	if flags.Changed("rho") {
		cfg.Fit.Rho = rho
	}
	if flags.Changed("nu") {
		cfg.Fit.Nu = nu
	}
	if flags.Changed("kernel") {
		cfg.Fit.Kernel = kernel
	}
	if flags.Changed("max-iter") {
		cfg.Fit.MaxIter = maxIter
	}
	if flags.Changed("parallel") {
		cfg.Fit.Parallel = parallel
	}
	if flags.Changed("degree") {
		cfg.Library.Degree = degree
	}
	if flags.Changed("trig") {
		cfg.Library.Trig = trig
	}
	if flags.Changed("harmonics") {
		cfg.Library.Harmonics = harmonics
	}
	if flags.Changed("min") {
		cfg.Sweep.Min = sweepMin
	}
	if flags.Changed("max") {
		cfg.Sweep.Max = sweepMax
	}
	if flags.Changed("points") {
		cfg.Sweep.Points = sweepPoints
	}
	if flags.Changed("log") {
		cfg.Sweep.LogScale = sweepLog
	}
	if flags.Changed("workers") {
		cfg.Sweep.Workers = workers
	}
	if flags.Changed("init") {
		state, err := parseState(initState)
		if err != nil {
			return nil, err
		}
		cfg.InitState = state
	}

	return cfg, nil
}

func parseState(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	state := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad initial state %q: %w", s, err)
		}
		state = append(state, v)
	}
	return state, nil
}

func printMetrics(metrics map[string]float64) {
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Println("\nmetrics:")
	for _, k := range keys {
		fmt.Printf("  %s: %.6g\n", k, metrics[k])
	}
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	disc, err := experiment.NewDiscovery(cfg, reg)
	if err != nil {
		return err
	}

	fmt.Printf("discovering %s dynamics...\n", cfg.System)
	start := time.Now()

	res, err := disc.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		System:     cfg.System,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Optimizer:  cfg.Optimizer,
		Threshold:  cfg.Fit.Threshold,
		Iterations: res.Report.Iterations,
		Converged:  res.Report.Converged,
		Equations:  res.Equations,
		Metrics:    res.Metrics,
	}, res.Names, res.Xi)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", res.Trajectory.Len())
	fmt.Println("\nequations:")
	for _, eq := range res.Equations {
		fmt.Printf("  %s\n", eq)
	}
	printMetrics(res.Metrics)

	return nil
}

func runImplicit(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	im, err := experiment.NewImplicit(cfg, reg, channel)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("rank-tol") {
		im.RankTol = rankTol
	}

	fmt.Printf("recovering implicit relationship for %s channel %d...\n", cfg.System, channel)
	res, err := im.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("\n%s\n\n", res.Equation)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CANDIDATE\tTERMS\tRESIDUAL\tSCORE")
	for _, c := range res.Candidates {
		marker := "  "
		if c.Index == res.Best.Index {
			marker = "* "
		}
		fmt.Fprintf(w, "%s%d\t%d\t%.3e\t%.4f\n", marker, c.Index, c.NonZeros, c.Residual, c.Score)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	disc, err := experiment.NewDiscovery(cfg, reg)
	if err != nil {
		return err
	}

	theta, dx, _, err := disc.Dataset(context.Background())
	if err != nil {
		return err
	}

	var grid []float64
	if cfg.Sweep.LogScale {
		grid = sweep.Log(cfg.Sweep.Min, cfg.Sweep.Max, cfg.Sweep.Points)
	} else {
		grid = sweep.Linear(cfg.Sweep.Min, cfg.Sweep.Max, cfg.Sweep.Points)
	}

	runner := &sweep.Runner{
		NewOptimizer: func(th float64) sparse.Optimizer {
			fc := cfg.Fit
			fc.Threshold = th
			opt, _ := reg.GetOptimizer(cfg.Optimizer, fc)
			return opt
		},
		MaxIter: cfg.Fit.MaxIter,
		Workers: cfg.Sweep.Workers,
	}

	fmt.Printf("sweeping %d thresholds on %s...\n", len(grid), cfg.System)
	start := time.Now()
	res, err := runner.Run(context.Background(), theta, dx, grid)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "THRESHOLD\tITERS\tCONV\tTERMS\tRESIDUAL\tAIC")
	for i, p := range res.Points {
		marker := "  "
		if i == res.Best {
			marker = "* "
		}
		fmt.Fprintf(w, "%s%.4g\t%d\t%v\t%d\t%.3e\t%.1f\n",
			marker, p.Threshold, p.Iterations, p.Converged, p.NonZeros, p.Residual, p.AIC)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	best := res.BestPoint()
	fmt.Printf("\nbest threshold: %.4g (%d terms)\n", best.Threshold, best.NonZeros)
	fmt.Println("\nequations:")
	for _, eq := range experiment.Equations(disc.Library(), best.Xi) {
		fmt.Printf("  %s\n", eq)
	}
	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	sys, err := reg.GetSystem(cfg.System)
	if err != nil {
		return err
	}
	if err := experiment.ApplyParams(sys, cfg.Params); err != nil {
		return err
	}

	x0 := dynamo.State(cfg.InitState)
	if len(x0) == 0 {
		x0 = sys.DefaultState()
	}

	simCfg := dynamo.Config{Dt: cfg.Dt, Duration: cfg.Duration, ValidateState: true}
	start := time.Now()
	traj, err := dynamo.Simulate(context.Background(), sys, x0, simCfg)
	if err != nil {
		return err
	}

	fmt.Printf("simulated %s: %d samples in %v\n\n", cfg.System, traj.Len(), time.Since(start))

	channels := traj.Dim()
	if channels > 6 {
		channels = 6
	}
	for c := 0; c < channels; c++ {
		data := make([]float64, traj.Len())
		for i := range data {
			data[i] = traj.States[i][c]
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("x%d vs time", c)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	disc, err := experiment.NewDiscovery(cfg, reg)
	if err != nil {
		return err
	}
	theta, dx, traj, err := disc.Dataset(context.Background())
	if err != nil {
		return err
	}
	opt, err := reg.GetOptimizer(cfg.Optimizer, cfg.Fit)
	if err != nil {
		return err
	}

	m := viz.NewModel(cfg.System, traj, disc.Library().Names(), theta, dx, opt)
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
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tOPTIMIZER\tTHRESHOLD\tTERMS\tCONV")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4g\t%.0f\t%v\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Optimizer,
			run.Threshold,
			run.Metrics["nonzeros"],
			run.Converged,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	terms, xi, err := st.LoadCoefficients(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s\n", meta.System)
	fmt.Printf("optimizer: %s (threshold %.4g)\n", meta.Optimizer, meta.Threshold)
	fmt.Printf("converged: %v after %d iterations\n", meta.Converged, meta.Iterations)
	if len(meta.Equations) > 0 {
		fmt.Println("\nequations:")
		for _, eq := range meta.Equations {
			fmt.Printf("  %s\n", eq)
		}
	}
	printMetrics(meta.Metrics)

	fmt.Println("\ncoefficients:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, cols := xi.Dims()
	header := "TERM"
	for j := 0; j < cols; j++ {
		header += fmt.Sprintf("\tDX%d", j)
	}
	fmt.Fprintln(w, header)
	for i, term := range terms {
		nonzero := false
		for j := 0; j < cols; j++ {
			if xi.At(i, j) != 0 {
				nonzero = true
				break
			}
		}
		if !nonzero {
			continue
		}
		row := term
		for j := 0; j < cols; j++ {
			row += fmt.Sprintf("\t%.6g", xi.At(i, j))
		}
		fmt.Fprintln(w, row)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	terms, xi, err := st.LoadCoefficients(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, terms, xi)
}
