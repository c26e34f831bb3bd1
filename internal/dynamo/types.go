package dynamo

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// State is a point in the phase space of a [System].
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// System is an ODE dX/dt = f(X, t). Derive must return a fresh State of
// length Dim and must not retain x.
type System interface {
	Name() string
	Dim() int
	Derive(x State, t float64) State
}

// Configurable systems expose their parameters for sweeps and presets.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Config controls a [Simulate] run.
type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		ValidateState: true,
	}
}

// Trajectory is a uniformly sampled solution: States[i] at Times[i].
type Trajectory struct {
	States []State
	Times  []float64
}

func (tr *Trajectory) Len() int {
	return len(tr.States)
}

func (tr *Trajectory) Dim() int {
	if len(tr.States) == 0 {
		return 0
	}
	return len(tr.States[0])
}

// Dt is the sample spacing. Zero when the trajectory has fewer than two
// samples.
func (tr *Trajectory) Dt() float64 {
	if len(tr.Times) < 2 {
		return 0
	}
	return tr.Times[1] - tr.Times[0]
}

// Matrix copies the trajectory into a samples-by-dim matrix, one state per
// row.
func (tr *Trajectory) Matrix() *mat.Dense {
	if tr.Len() == 0 {
		return &mat.Dense{}
	}
	m := mat.NewDense(tr.Len(), tr.Dim(), nil)
	for i, x := range tr.States {
		m.SetRow(i, x)
	}
	return m
}
