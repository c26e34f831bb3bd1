package sweep

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/sparsedyn/internal/sparse"
	"gonum.org/v1/gonum/mat"
)

// noisyProblem builds theta (samples x terms) and y = theta*truth + noise.
// Only the first three library terms matter: truth carries 6 non-zero
// coefficients there and zero rows for the rest, so small thresholds keep
// plenty of noise terms alive.
func noisyProblem(samples, terms int, sigma float64, seed int64) (theta, y, truth *mat.Dense) {
	a := mat.NewDense(3, 3, []float64{
		1, 0, -0.1,
		0, -2, 0,
		0.1, 0.5, -1,
	})
	truth = mat.NewDense(terms, 3, nil)
	truth.Slice(0, 3, 0, 3).(*mat.Dense).Copy(a.T())

	rng := rand.New(rand.NewSource(seed))
	theta = mat.NewDense(samples, terms, nil)
	for i := 0; i < samples; i++ {
		for j := 0; j < terms; j++ {
			theta.Set(i, j, rng.Float64()*2-1)
		}
	}

	y = mat.NewDense(samples, 3, nil)
	y.Mul(theta, truth)
	for i := 0; i < samples; i++ {
		for j := 0; j < 3; j++ {
			y.Set(i, j, y.At(i, j)+sigma*rng.NormFloat64())
		}
	}
	return theta, y, truth
}

func strridgeRunner(workers int) *Runner {
	return &Runner{
		NewOptimizer: func(th float64) sparse.Optimizer {
			return sparse.NewSTRRidge(th, 0)
		},
		MaxIter: 100,
		Workers: workers,
	}
}

func TestRunPicksRecoveringThreshold(t *testing.T) {
	theta, y, truth := noisyProblem(200, 27, 0.01, 7)

	// Too small keeps noise terms, too large wipes everything out.
	grid := []float64{1e-5, 0.05, 3.0}
	res, err := strridgeRunner(0).Run(context.Background(), theta, y, grid)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if res.Best != 1 {
		t.Fatalf("Best = %d (threshold %g), want 1", res.Best, res.BestPoint().Threshold)
	}
	best := res.BestPoint()
	if best.NonZeros != 6 {
		t.Errorf("best NonZeros = %d, want 6", best.NonZeros)
	}
	if !best.Converged {
		t.Error("best point should have converged")
	}

	if res.Points[0].NonZeros <= 6 {
		t.Errorf("undersized threshold kept %d terms, expected noise terms to survive", res.Points[0].NonZeros)
	}
	if res.Points[2].NonZeros != 0 {
		t.Errorf("oversized threshold kept %d terms, want 0", res.Points[2].NonZeros)
	}

	rows, cols := truth.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if math.Abs(best.Xi.At(i, j)-truth.At(i, j)) > 0.02 {
				t.Errorf("coef (%d,%d) = %.4f, want %.4f", i, j, best.Xi.At(i, j), truth.At(i, j))
			}
		}
	}
}

func TestRunParallelMatchesSerial(t *testing.T) {
	theta, y, _ := noisyProblem(120, 8, 0.01, 11)
	grid := Log(1e-3, 1, 6)

	serial, err := strridgeRunner(1).Run(context.Background(), theta, y, grid)
	if err != nil {
		t.Fatalf("serial run failed: %v", err)
	}
	parallel, err := strridgeRunner(4).Run(context.Background(), theta, y, grid)
	if err != nil {
		t.Fatalf("parallel run failed: %v", err)
	}

	if serial.Best != parallel.Best {
		t.Errorf("Best differs: serial %d, parallel %d", serial.Best, parallel.Best)
	}
	for i := range serial.Points {
		if !mat.Equal(serial.Points[i].Xi, parallel.Points[i].Xi) {
			t.Errorf("point %d coefficients differ between serial and parallel", i)
		}
	}
}

func TestLinearGrid(t *testing.T) {
	got := Linear(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("grid[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if got := Linear(2, 9, 1); len(got) != 1 || got[0] != 2 {
		t.Errorf("single-point grid = %v, want [2]", got)
	}
	if Linear(0, 1, 0) != nil {
		t.Error("expected nil grid for n=0")
	}
}

func TestLogGrid(t *testing.T) {
	got := Log(1e-3, 1, 4)
	want := []float64{1e-3, 1e-2, 1e-1, 1}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("grid[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if Log(0, 1, 4) != nil || Log(1e-3, -1, 4) != nil {
		t.Error("expected nil grid for non-positive bounds")
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	theta, y, _ := noisyProblem(20, 3, 0, 3)

	_, err := strridgeRunner(1).Run(context.Background(), theta, y, nil)
	if !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("expected ErrEmptyGrid, got %v", err)
	}

	r := &Runner{}
	_, err = r.Run(context.Background(), theta, y, []float64{0.1})
	if !errors.Is(err, ErrNoBuilder) {
		t.Errorf("expected ErrNoBuilder, got %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	theta, y, _ := noisyProblem(50, 3, 0.01, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := strridgeRunner(2).Run(ctx, theta, y, Linear(0.01, 0.5, 4))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
