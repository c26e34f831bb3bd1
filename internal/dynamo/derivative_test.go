package dynamo

import (
	"context"
	"errors"
	"math"
	"testing"
)

func sampled(f func(t float64) State, n int, dt float64) *Trajectory {
	tr := &Trajectory{
		States: make([]State, n),
		Times:  make([]float64, n),
	}
	for i := 0; i < n; i++ {
		ti := float64(i) * dt
		tr.States[i] = f(ti)
		tr.Times[i] = ti
	}
	return tr
}

func TestDerivativesSine(t *testing.T) {
	dt := 0.01
	tr := sampled(func(ti float64) State {
		return State{math.Sin(ti), math.Cos(ti)}
	}, 101, dt)

	d, err := Derivatives(tr)
	if err != nil {
		t.Fatalf("derivatives failed: %v", err)
	}

	var maxInterior, maxBoundary float64
	for i := 0; i < tr.Len(); i++ {
		ti := tr.Times[i]
		want := [2]float64{math.Cos(ti), -math.Sin(ti)}
		for j := 0; j < 2; j++ {
			e := math.Abs(d.At(i, j) - want[j])
			if i >= 2 && i < tr.Len()-2 {
				if e > maxInterior {
					maxInterior = e
				}
			} else if e > maxBoundary {
				maxBoundary = e
			}
		}
	}

	if maxInterior > 1e-8 {
		t.Errorf("interior error %.3e exceeds 1e-8", maxInterior)
	}
	if maxBoundary > 1e-4 {
		t.Errorf("boundary error %.3e exceeds 1e-4", maxBoundary)
	}
}

func TestDerivativesExactForCubic(t *testing.T) {
	dt := 0.1
	tr := sampled(func(ti float64) State {
		return State{ti*ti*ti - 2*ti}
	}, 21, dt)

	d, err := Derivatives(tr)
	if err != nil {
		t.Fatalf("derivatives failed: %v", err)
	}

	// The five-point central stencil is exact on cubics.
	for i := 2; i < tr.Len()-2; i++ {
		ti := tr.Times[i]
		want := 3*ti*ti - 2
		if math.Abs(d.At(i, 0)-want) > 1e-10 {
			t.Errorf("at t=%.2f: got %.12f, want %.12f", ti, d.At(i, 0), want)
		}
	}
}

func TestDerivativesAfterSimulate(t *testing.T) {
	cfg := Config{Dt: 0.01, Duration: 2.0, ValidateState: true}
	tr, err := Simulate(context.Background(), &decay{}, State{1.0}, cfg)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	d, err := Derivatives(tr)
	if err != nil {
		t.Fatalf("derivatives failed: %v", err)
	}

	// dx/dt = -x along the decay trajectory.
	for i := 2; i < tr.Len()-2; i++ {
		want := -tr.States[i][0]
		if math.Abs(d.At(i, 0)-want) > 1e-6 {
			t.Fatalf("at sample %d: got %.9f, want %.9f", i, d.At(i, 0), want)
		}
	}
}

func TestDerivativesTooFewSamples(t *testing.T) {
	tr := sampled(func(ti float64) State { return State{ti} }, 4, 0.1)
	_, err := Derivatives(tr)
	if !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("expected ErrTooFewSamples, got %v", err)
	}
}

func TestDerivativesNonUniform(t *testing.T) {
	tr := sampled(func(ti float64) State { return State{ti} }, 10, 0.1)
	tr.Times[5] += 0.05

	_, err := Derivatives(tr)
	if !errors.Is(err, ErrNonUniform) {
		t.Errorf("expected ErrNonUniform, got %v", err)
	}
}
