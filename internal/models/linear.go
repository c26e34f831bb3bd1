package models

import (
	"github.com/san-kum/sparsedyn/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// Linear is the system dx/dt = A*x. It is the ground-truth generator for
// recovery tests: identify the trajectory and compare against A.
type Linear struct {
	a   *mat.Dense
	dim int
}

// NewLinear copies a, which must be square.
func NewLinear(a *mat.Dense) *Linear {
	r, c := a.Dims()
	if r != c {
		panic("models: linear system matrix must be square")
	}
	l := &Linear{a: mat.NewDense(r, c, nil), dim: r}
	l.a.Copy(a)
	return l
}

func (l *Linear) Name() string { return "linear" }
func (l *Linear) Dim() int     { return l.dim }

func (l *Linear) Derive(s dynamo.State, _ float64) dynamo.State {
	d := make(dynamo.State, l.dim)
	for i := 0; i < l.dim; i++ {
		sum := 0.0
		for j := 0; j < l.dim; j++ {
			sum += l.a.At(i, j) * s[j]
		}
		d[i] = sum
	}
	return d
}

func (l *Linear) DefaultState() dynamo.State {
	x0 := make(dynamo.State, l.dim)
	for i := range x0 {
		x0[i] = 1.0
	}
	return x0
}

// Matrix returns a copy of the coefficient matrix.
func (l *Linear) Matrix() *mat.Dense {
	m := mat.NewDense(l.dim, l.dim, nil)
	m.Copy(l.a)
	return m
}
