package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sparsedyn/internal/config"
	"github.com/san-kum/sparsedyn/internal/dynamo"
	"github.com/san-kum/sparsedyn/internal/library"
	"github.com/san-kum/sparsedyn/internal/models"
	"github.com/san-kum/sparsedyn/internal/quality"
	"github.com/san-kum/sparsedyn/internal/sparse"
)

// renderTol suppresses exact zeros when printing equations.
const renderTol = 1e-10

// Result holds everything a finished discovery produced.
type Result struct {
	System     string
	Trajectory *dynamo.Trajectory
	Names      []string
	Xi         *mat.Dense
	Report     *sparse.Report
	Equations  []string
	Metrics    map[string]float64
}

// Discovery identifies governing equations for one simulated system: it
// integrates the model, differentiates the trajectory, evaluates the
// candidate library on it, and fits sparse coefficients.
type Discovery struct {
	cfg    *config.Config
	system models.Model
	lib    *library.Library
	opt    sparse.Optimizer
}

// NewDiscovery resolves the configured system and optimizer against reg and
// builds the candidate library.
func NewDiscovery(cfg *config.Config, reg *Registry) (*Discovery, error) {
	sys, err := reg.GetSystem(cfg.System)
	if err != nil {
		return nil, err
	}
	if err := ApplyParams(sys, cfg.Params); err != nil {
		return nil, err
	}
	opt, err := reg.GetOptimizer(cfg.Optimizer, cfg.Fit)
	if err != nil {
		return nil, err
	}
	lib := library.Polynomial(sys.Dim(), cfg.Library.Degree)
	if cfg.Library.Trig {
		lib = lib.WithTrig(cfg.Library.Harmonics)
	}
	return &Discovery{cfg: cfg, system: sys, lib: lib, opt: opt}, nil
}

// System returns the resolved model with configured parameters applied.
func (d *Discovery) System() models.Model { return d.system }

// Library returns the candidate term library.
func (d *Discovery) Library() *library.Library { return d.lib }

// Dataset simulates the system and differentiates the trajectory, returning
// the design matrix and the derivative targets without fitting anything.
// When the config asks for measurement noise it is added to the derivative
// targets, seeded so runs reproduce exactly.
func (d *Discovery) Dataset(ctx context.Context) (theta, dx *mat.Dense, traj *dynamo.Trajectory, err error) {
	x0, err := initialState(d.system, d.cfg.InitState)
	if err != nil {
		return nil, nil, nil, err
	}
	simCfg := dynamo.Config{Dt: d.cfg.Dt, Duration: d.cfg.Duration, ValidateState: true}
	traj, err = dynamo.Simulate(ctx, d.system, x0, simCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	dx, err = dynamo.Derivatives(traj)
	if err != nil {
		return nil, nil, nil, err
	}
	noisify(dx, d.cfg.NoiseLevel, d.cfg.Seed)
	theta, err = d.lib.Evaluate(traj.Matrix())
	if err != nil {
		return nil, nil, nil, err
	}
	return theta, dx, traj, nil
}

// noisify adds zero-mean Gaussian noise with standard deviation level to
// every entry of dst. A non-positive level leaves dst untouched.
func noisify(dst *mat.Dense, level float64, seed int64) {
	if level <= 0 {
		return
	}
	rng := rand.New(rand.NewSource(seed))
	r, c := dst.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst.Set(i, j, dst.At(i, j)+level*rng.NormFloat64())
		}
	}
}

// Run executes the full pipeline. opts pass through to the fit, so callers
// can watch iterations with sparse.WithObserver.
func (d *Discovery) Run(ctx context.Context, opts ...sparse.Option) (*Result, error) {
	theta, dx, traj, err := d.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	xi := &mat.Dense{}
	report, err := sparse.Fit(ctx, xi, theta, dx, d.opt, d.cfg.Fit.MaxIter, opts...)
	if err != nil {
		return nil, err
	}
	return &Result{
		System:     d.system.Name(),
		Trajectory: traj,
		Names:      d.lib.Names(),
		Xi:         xi,
		Report:     report,
		Equations:  Equations(d.lib, xi),
		Metrics:    Metrics(theta, xi, dx, report),
	}, nil
}

// Equations renders one governing equation per state channel.
func Equations(lib *library.Library, xi *mat.Dense) []string {
	names := lib.Names()
	_, channels := xi.Dims()
	eqs := make([]string, channels)
	for j := 0; j < channels; j++ {
		lhs := fmt.Sprintf("dx%d/dt", j)
		eqs[j] = library.FormatEquation(lhs, names, mat.Col(nil, j, xi), renderTol)
	}
	return eqs
}

// Metrics collects the fit quality numbers reported alongside a result.
func Metrics(theta, xi, y mat.Matrix, report *sparse.Report) map[string]float64 {
	m := map[string]float64{
		"residual":     quality.Residual(theta, xi, y),
		"rel_residual": quality.RelativeResidual(theta, xi, y),
		"r2":           quality.RSquared(theta, xi, y),
		"aic":          quality.AIC(theta, xi, y),
		"nonzeros":     float64(quality.NonZeros(xi)),
		"sparsity":     quality.Sparsity(xi),
	}
	if report != nil {
		m["iterations"] = float64(report.Iterations)
	}
	return m
}

func initialState(sys models.Model, init []float64) (dynamo.State, error) {
	if len(init) == 0 {
		return sys.DefaultState(), nil
	}
	if len(init) != sys.Dim() {
		return nil, fmt.Errorf("initial state has %d components, %s needs %d", len(init), sys.Name(), sys.Dim())
	}
	x0 := make(dynamo.State, len(init))
	copy(x0, init)
	return x0, nil
}
