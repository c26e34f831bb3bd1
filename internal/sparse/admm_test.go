package sparse

import (
	"context"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestADMMRecoversLinearSystem(t *testing.T) {
	a := benchA()
	theta, y := synthetic(a, 200, 1)

	// A small penalty ratio keeps the soft-shrinkage bias well under the
	// tolerance.
	opt := NewADMM(0.09, 0.1)
	var xi mat.Dense
	if _, err := Fit(context.Background(), &xi, theta, y, opt, 1000); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if d := maxAbsDiff(xi.T(), a); d > 1e-2 {
		t.Errorf("max coefficient error = %g, want <= 1e-2", d)
	}
	if n := countNonZeros(&xi); n != 6 {
		t.Errorf("recovered %d nonzeros, want 6", n)
	}
}

func TestADMMHardKernel(t *testing.T) {
	a := benchA()
	theta, y := synthetic(a, 200, 2)

	opt := NewADMM(0.09, 1)
	opt.Kernel = Hard
	var xi mat.Dense
	rep, err := Fit(context.Background(), &xi, theta, y, opt, 1000)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !rep.Converged {
		t.Errorf("hard-kernel fit did not converge in %d iterations", rep.Iterations)
	}
	// Hard thresholding carries no shrinkage bias, so exact data comes back
	// almost exactly.
	if d := maxAbsDiff(xi.T(), a); d > 1e-8 {
		t.Errorf("max coefficient error = %g, want <= 1e-8", d)
	}
}

func TestADMMReturnsSparsifiedCopy(t *testing.T) {
	theta, y := synthetic(benchA(), 200, 3)

	opt := NewADMM(0.09, 0.1)
	var xi mat.Dense
	if _, err := Fit(context.Background(), &xi, theta, y, opt, 1000); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	// The returned matrix is Z: entries the proximal step zeroed must be
	// exactly zero, not merely small.
	r, c := xi.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := xi.At(i, j)
			if v != 0 && math.Abs(v) < 0.001 {
				t.Errorf("entry (%d,%d) = %g is neither zero nor a surviving coefficient", i, j, v)
			}
		}
	}
}

func TestADMMRejectsNonpositiveRho(t *testing.T) {
	theta, y := synthetic(benchA(), 200, 1)
	var xi mat.Dense
	if _, err := Fit(context.Background(), &xi, theta, y, NewADMM(0.09, 0), 10); err == nil {
		t.Error("Fit() accepted ρ = 0")
	}
}

func TestADMMSingularFeatures(t *testing.T) {
	// Duplicate feature columns make ΘᵀΘ singular on its own; the ρI term
	// keeps the solve well posed, so the fit must still complete.
	theta := mat.NewDense(6, 2, []float64{
		1, 1,
		2, 2,
		-1, -1,
		0.5, 0.5,
		-2, -2,
		1.5, 1.5,
	})
	y := mat.NewDense(6, 1, []float64{2, 4, -2, 1, -4, 3})

	opt := NewADMM(0.05, 1)
	var xi mat.Dense
	rep, err := Fit(context.Background(), &xi, theta, y, opt, 2000)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if rep.Residual > 0.1 {
		t.Errorf("residual = %g, want a close reconstruction", rep.Residual)
	}
	// The duplicated columns share the weight between them.
	if got := xi.At(0, 0) + xi.At(1, 0); got < 1.9 || got > 2.1 {
		t.Errorf("combined coefficient = %g, want about 2", got)
	}
}
