package sparse

import (
	"context"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSTRRidgeRecoversLinearSystem(t *testing.T) {
	a := benchA()
	theta, y := synthetic(a, 200, 1)

	opt := NewSTRRidge(0.09, 0)
	var xi mat.Dense
	rep, err := Fit(context.Background(), &xi, theta, y, opt, 500)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !rep.Converged {
		t.Errorf("fit did not converge in %d iterations", rep.Iterations)
	}
	if d := maxAbsDiff(xi.T(), a); d > 1e-3 {
		t.Errorf("max coefficient error = %g, want <= 1e-3", d)
	}
	if n := countNonZeros(&xi); n != 6 {
		t.Errorf("recovered %d nonzeros, want 6", n)
	}
}

func TestSTRRidgeWithRidgePenalty(t *testing.T) {
	a := benchA()
	theta, y := synthetic(a, 200, 2)

	opt := NewSTRRidge(0.09, 1e-6)
	var xi mat.Dense
	rep, err := Fit(context.Background(), &xi, theta, y, opt, 500)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !rep.Converged {
		t.Errorf("fit did not converge in %d iterations", rep.Iterations)
	}
	// The tiny penalty barely perturbs the exact-data solution.
	if d := maxAbsDiff(xi.T(), a); d > 1e-3 {
		t.Errorf("max coefficient error = %g, want <= 1e-3", d)
	}
}

func TestSTRRidgeParallelMatchesSerial(t *testing.T) {
	theta, y := synthetic(benchA(), 200, 3)

	var serial mat.Dense
	if _, err := Fit(context.Background(), &serial, theta, y, NewSTRRidge(0.09, 0), 500); err != nil {
		t.Fatalf("serial Fit() error = %v", err)
	}

	par := NewSTRRidge(0.09, 0)
	par.Parallel = true
	var parallel mat.Dense
	if _, err := Fit(context.Background(), &parallel, theta, y, par, 500); err != nil {
		t.Fatalf("parallel Fit() error = %v", err)
	}

	if !mat.Equal(&serial, &parallel) {
		t.Error("parallel column updates changed the result")
	}
}

func TestSTRRidgeTotalSparsity(t *testing.T) {
	theta, y := synthetic(benchA(), 200, 4)

	// A threshold above every coefficient magnitude empties all columns.
	opt := NewSTRRidge(100, 0)
	var xi mat.Dense
	rep, err := Fit(context.Background(), &xi, theta, y, opt, 500)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !rep.Converged {
		t.Error("empty active sets should count as converged")
	}
	if n := countNonZeros(&xi); n != 0 {
		t.Errorf("found %d nonzeros, want an all-zero result", n)
	}
}

func TestSTRRidgeZeroThresholdKeepsLeastSquares(t *testing.T) {
	a := benchA()
	theta, y := synthetic(a, 200, 6)

	var want mat.Dense
	if err := InitialGuess(&want, theta, y); err != nil {
		t.Fatalf("InitialGuess() error = %v", err)
	}

	var xi mat.Dense
	rep, err := Fit(context.Background(), &xi, theta, y, NewSTRRidge(0, 0), 500)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if !rep.Converged {
		t.Error("zero-threshold fit did not converge")
	}
	if !mat.EqualApprox(&xi, &want, 1e-10) {
		t.Error("zero threshold should reproduce the least-squares solution")
	}
}
