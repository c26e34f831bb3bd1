package models

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/sparsedyn/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

func almostEqual(a, b dynamo.State, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func TestLorenzDerive(t *testing.T) {
	l := NewLorenz()

	got := l.Derive(dynamo.State{1, 1, 1}, 0)
	want := dynamo.State{0, 26, 1 - 8.0/3.0}

	if !almostEqual(got, want, 1e-12) {
		t.Errorf("Derive(1,1,1) = %v, want %v", got, want)
	}
}

func TestVanDerPolDerive(t *testing.T) {
	v := NewVanDerPol()

	got := v.Derive(dynamo.State{2, 0}, 0)
	want := dynamo.State{0, -2}

	if !almostEqual(got, want, 1e-12) {
		t.Errorf("Derive(2,0) = %v, want %v", got, want)
	}
}

func TestDuffingDerive(t *testing.T) {
	d := NewDuffing()

	got := d.Derive(dynamo.State{1, 0, 0}, 0)
	want := dynamo.State{0, 0.5, 1.2}

	if !almostEqual(got, want, 1e-12) {
		t.Errorf("Derive(1,0,0) = %v, want %v", got, want)
	}
}

func TestPendulumDerive(t *testing.T) {
	p := NewPendulum()

	got := p.Derive(dynamo.State{math.Pi / 2, 1}, 0)
	want := dynamo.State{1, -0.1 - 9.81}

	if !almostEqual(got, want, 1e-12) {
		t.Errorf("Derive(pi/2,1) = %v, want %v", got, want)
	}
}

func TestLinearDerive(t *testing.T) {
	l := NewLinear(mat.NewDense(2, 2, []float64{0, 1, -1, 0}))

	got := l.Derive(dynamo.State{3, 4}, 0)
	want := dynamo.State{4, -3}

	if !almostEqual(got, want, 1e-12) {
		t.Errorf("Derive(3,4) = %v, want %v", got, want)
	}
}

func TestLinearMatrixIsCopy(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	l := NewLinear(a)

	a.Set(0, 0, 99)
	if l.Matrix().At(0, 0) != 1 {
		t.Error("NewLinear should copy its input matrix")
	}

	m := l.Matrix()
	m.Set(0, 1, 99)
	if l.Matrix().At(0, 1) != 2 {
		t.Error("Matrix should return an independent copy")
	}
}

func TestSetParam(t *testing.T) {
	l := NewLorenz()

	if err := l.SetParam("rho", 20); err != nil {
		t.Fatalf("SetParam failed: %v", err)
	}
	if got := l.GetParams()["rho"]; got != 20 {
		t.Errorf("rho = %v after SetParam, want 20", got)
	}

	// (1,1,1) now gives dy = 1*(20-1) - 1 = 18.
	dy := l.Derive(dynamo.State{1, 1, 1}, 0)[1]
	if math.Abs(dy-18) > 1e-12 {
		t.Errorf("dy = %v after rho change, want 18", dy)
	}
}

func TestSetParamUnknown(t *testing.T) {
	ms := []Model{NewLorenz(), NewVanDerPol(), NewDuffing(), NewPendulum()}
	for _, m := range ms {
		cfg, ok := m.(dynamo.Configurable)
		if !ok {
			t.Fatalf("%s does not implement Configurable", m.Name())
		}
		if err := cfg.SetParam("bogus", 1); !errors.Is(err, ErrUnknownParam) {
			t.Errorf("%s: expected ErrUnknownParam, got %v", m.Name(), err)
		}
	}
}

func TestModelsSimulate(t *testing.T) {
	ms := []Model{
		NewLorenz(),
		NewVanDerPol(),
		NewDuffing(),
		NewPendulum(),
		NewLinear(mat.NewDense(2, 2, []float64{0, 1, -1, 0})),
	}

	cfg := dynamo.Config{Dt: 0.01, Duration: 1.0, ValidateState: true}
	for _, m := range ms {
		t.Run(m.Name(), func(t *testing.T) {
			if len(m.DefaultState()) != m.Dim() {
				t.Fatalf("DefaultState has %d components, Dim is %d", len(m.DefaultState()), m.Dim())
			}
			tr, err := dynamo.Simulate(context.Background(), m, m.DefaultState(), cfg)
			if err != nil {
				t.Fatalf("simulate failed: %v", err)
			}
			if tr.Len() != 101 {
				t.Errorf("expected 101 samples, got %d", tr.Len())
			}
		})
	}
}
