// Package sweep evaluates an optimizer across a grid of thresholds and
// selects the best one by information criterion.
package sweep

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/san-kum/sparsedyn/internal/quality"
	"github.com/san-kum/sparsedyn/internal/sparse"
	"gonum.org/v1/gonum/mat"
)

const defaultMaxIter = 100

var (
	// ErrEmptyGrid indicates a sweep over zero thresholds.
	ErrEmptyGrid = errors.New("sweep: threshold grid is empty")

	// ErrNoBuilder indicates a Runner without an optimizer factory.
	ErrNoBuilder = errors.New("sweep: NewOptimizer is not set")
)

// Point is the outcome of fitting at one threshold.
type Point struct {
	Threshold  float64
	Iterations int
	Converged  bool
	Residual   float64 // relative to ||y||
	NonZeros   int
	AIC        float64
	Score      float64
	Xi         *mat.Dense
}

// Result holds all grid points in grid order plus the selected index.
type Result struct {
	Points []Point
	Best   int
}

func (r *Result) BestPoint() Point {
	return r.Points[r.Best]
}

// Linear returns n thresholds evenly spaced over [lo, hi].
func Linear(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	grid := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range grid {
		grid[i] = lo + float64(i)*step
	}
	return grid
}

// Log returns n thresholds logarithmically spaced over [lo, hi].
// Both bounds must be positive.
func Log(lo, hi float64, n int) []float64 {
	if n <= 0 || lo <= 0 || hi <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	grid := make([]float64, n)
	step := (math.Log(hi) - math.Log(lo)) / float64(n-1)
	for i := range grid {
		grid[i] = math.Exp(math.Log(lo) + float64(i)*step)
	}
	return grid
}

// Runner fits one optimizer configuration at every grid threshold.
type Runner struct {
	// NewOptimizer builds a fresh optimizer for each threshold; optimizers
	// carry per-fit state and must not be shared across workers.
	NewOptimizer func(threshold float64) sparse.Optimizer

	// MaxIter bounds each fit. Non-positive means 100.
	MaxIter int

	// Workers bounds concurrent fits. Non-positive runs all thresholds
	// at once.
	Workers int
}

// Run evaluates the grid and selects the point with the lowest AIC
// (stable argmin, earlier threshold wins ties). The information
// criterion puts residual and term count on one scale; the raw Pareto
// score of each point is still reported.
func (r *Runner) Run(ctx context.Context, theta, y mat.Matrix, grid []float64) (*Result, error) {
	if r.NewOptimizer == nil {
		return nil, ErrNoBuilder
	}
	if len(grid) == 0 {
		return nil, ErrEmptyGrid
	}
	maxIter := r.MaxIter
	if maxIter <= 0 {
		maxIter = defaultMaxIter
	}
	workers := r.Workers
	if workers <= 0 || workers > len(grid) {
		workers = len(grid)
	}

	points := make([]Point, len(grid))
	errs := make([]error, len(grid))
	idx := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				points[i], errs[i] = r.fitOne(ctx, theta, y, grid[i], maxIter)
			}
		}()
	}
	for i := range grid {
		idx <- i
	}
	close(idx)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	best := 0
	for i := 1; i < len(points); i++ {
		if points[i].AIC < points[best].AIC {
			best = i
		}
	}
	return &Result{Points: points, Best: best}, nil
}

func (r *Runner) fitOne(ctx context.Context, theta, y mat.Matrix, threshold float64, maxIter int) (Point, error) {
	opt := r.NewOptimizer(threshold)
	xi := &mat.Dense{}
	rep, err := sparse.Fit(ctx, xi, theta, y, opt, maxIter)
	if err != nil {
		return Point{}, err
	}

	nnz := quality.NonZeros(xi)
	rel := quality.RelativeResidual(theta, xi, y)
	return Point{
		Threshold:  threshold,
		Iterations: rep.Iterations,
		Converged:  rep.Converged,
		Residual:   rel,
		NonZeros:   nnz,
		AIC:        quality.AIC(theta, xi, y),
		Score:      quality.ParetoScore(nnz, rel),
		Xi:         xi,
	}, nil
}
