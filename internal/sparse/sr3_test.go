package sparse

import (
	"context"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSR3RecoversLinearSystem(t *testing.T) {
	a := benchA()
	theta, y := synthetic(a, 200, 1)

	opt := NewSR3(0.09, 1)
	var xi mat.Dense
	rep, err := Fit(context.Background(), &xi, theta, y, opt, 10000)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !rep.Converged {
		t.Errorf("fit did not converge in %d iterations", rep.Iterations)
	}
	// The relaxation tolerates a larger bias than the other solvers.
	if d := maxAbsDiff(xi.T(), a); d > 2e-1 {
		t.Errorf("max coefficient error = %g, want <= 2e-1", d)
	}
	if n := countNonZeros(&xi); n != 6 {
		t.Errorf("recovered %d nonzeros, want 6", n)
	}
}

func TestSR3HardKernel(t *testing.T) {
	a := benchA()
	theta, y := synthetic(a, 200, 2)

	opt := NewSR3(0.09, 1)
	opt.Kernel = Hard
	var xi mat.Dense
	rep, err := Fit(context.Background(), &xi, theta, y, opt, 10000)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !rep.Converged {
		t.Errorf("hard-kernel fit did not converge in %d iterations", rep.Iterations)
	}
	if d := maxAbsDiff(xi.T(), a); d > 1e-8 {
		t.Errorf("max coefficient error = %g, want <= 1e-8", d)
	}
}

func TestSR3RelaxationScalesThreshold(t *testing.T) {
	a := benchA()
	theta, y := synthetic(a, 200, 3)

	// With ν = 10 the proximal threshold drops to λ/ν = 0.009, an order of
	// magnitude below the smallest true coefficient, so the shrinkage bias
	// shrinks with it.
	opt := NewSR3(0.09, 10)
	var xi mat.Dense
	if _, err := Fit(context.Background(), &xi, theta, y, opt, 10000); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if d := maxAbsDiff(xi.T(), a); d > 5e-2 {
		t.Errorf("max coefficient error = %g, want <= 5e-2", d)
	}
	if n := countNonZeros(&xi); n != 6 {
		t.Errorf("recovered %d nonzeros, want 6", n)
	}
}

func TestSR3RejectsNonpositiveNu(t *testing.T) {
	theta, y := synthetic(benchA(), 200, 1)
	var xi mat.Dense
	if _, err := Fit(context.Background(), &xi, theta, y, NewSR3(0.09, -1), 10); err == nil {
		t.Error("Fit() accepted ν = -1")
	}
}
