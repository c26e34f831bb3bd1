package sparse

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sparsedyn/internal/lstsq"
)

// Report summarizes a completed fit.
type Report struct {
	// Iterations counts the solver steps that ran.
	Iterations int
	// Converged is false when the iteration budget ran out first. The
	// coefficients are still the best found; this is a flag, not an error.
	Converged bool
	// Residual is the final Frobenius norm of Θ·Ξ − Y.
	Residual float64
}

// Option adjusts a single Fit run.
type Option func(*fitConfig)

type fitConfig struct {
	observer func(iter int, xi mat.Matrix)
}

// WithObserver calls fn after every completed iteration with the current
// coefficients. The matrix is live solver state and must not be retained or
// written.
func WithObserver(fn func(iter int, xi mat.Matrix)) Option {
	return func(c *fitConfig) { c.observer = fn }
}

// Fit drives opt until it converges or maxIter steps have run, whichever
// comes first. xi may be empty (it is then seeded by the solver) or hold a
// warm start with one row per theta column and one column per y column.
// theta and y are never written. A cancelled context aborts between
// iterations; xi then holds the last fully-completed iterate and the partial
// report is returned alongside the context error.
func Fit(ctx context.Context, xi *mat.Dense, theta, y mat.Matrix, opt Optimizer, maxIter int, opts ...Option) (*Report, error) {
	if err := validateFit(theta, y, xi, maxIter); err != nil {
		return nil, err
	}
	var cfg fitConfig
	for _, o := range opts {
		o(&cfg)
	}
	if err := opt.Init(theta, y, xi); err != nil {
		return nil, err
	}

	rep := &Report{}
	for i := 0; i < maxIter; i++ {
		select {
		case <-ctx.Done():
			rep.Residual = residual(theta, y, xi)
			return rep, ctx.Err()
		default:
		}
		if err := opt.Step(xi); err != nil {
			return nil, err
		}
		rep.Iterations = i + 1
		if cfg.observer != nil {
			cfg.observer(i, xi)
		}
		if opt.Converged() {
			rep.Converged = true
			break
		}
	}
	rep.Residual = residual(theta, y, xi)
	return rep, nil
}

// InitialGuess seeds xi with the ordinary least-squares solution of
// theta·xi ≈ y, the conventional warm start for the explicit solvers.
func InitialGuess(xi *mat.Dense, theta, y mat.Matrix) error {
	tr, _ := theta.Dims()
	yr, _ := y.Dims()
	if tr != yr {
		return fmt.Errorf("%w: theta has %d samples, y has %d", ErrDimensionMismatch, tr, yr)
	}
	return lstsq.Solve(xi, theta, y)
}

func validateFit(theta, y mat.Matrix, xi *mat.Dense, maxIter int) error {
	tr, tc := theta.Dims()
	yr, yc := y.Dims()
	if tr == 0 || tc == 0 {
		return fmt.Errorf("%w: empty feature matrix", ErrDimensionMismatch)
	}
	if yc == 0 {
		return fmt.Errorf("%w: empty target matrix", ErrDimensionMismatch)
	}
	if yr != tr {
		return fmt.Errorf("%w: theta has %d samples, y has %d", ErrDimensionMismatch, tr, yr)
	}
	if !xi.IsEmpty() {
		xr, xc := xi.Dims()
		if xr != tc || xc != yc {
			return fmt.Errorf("%w: coefficients are %dx%d, want %dx%d", ErrDimensionMismatch, xr, xc, tc, yc)
		}
	}
	if maxIter < 0 {
		return fmt.Errorf("sparse: iteration budget must not be negative, got %d", maxIter)
	}
	return nil
}

// seed fills an empty coefficient matrix with the least-squares warm start.
// Non-empty matrices are left alone so callers can supply their own.
func seed(xi *mat.Dense, theta, y mat.Matrix) error {
	if !xi.IsEmpty() {
		return nil
	}
	return lstsq.Solve(xi, theta, y)
}

func residual(theta, y mat.Matrix, xi *mat.Dense) float64 {
	var r mat.Dense
	r.Mul(theta, xi)
	r.Sub(&r, y)
	return mat.Norm(&r, 2)
}

// relChange measures ‖a−b‖F against ‖b‖F, saturating at an absolute scale of
// one so near-zero iterates do not blow the ratio up.
func relChange(a, b mat.Matrix) float64 {
	var d mat.Dense
	d.Sub(a, b)
	return mat.Norm(&d, 2) / math.Max(1, mat.Norm(b, 2))
}

func copyInto(dst *mat.Dense, src mat.Matrix) {
	r, c := src.Dims()
	dst.ReuseAs(r, c)
	dst.Copy(src)
}

func zeroInto(dst *mat.Dense, r, c int) {
	dst.ReuseAs(r, c)
	dst.Zero()
}
