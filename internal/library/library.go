// Package library builds candidate feature matrices for sparse regression.
// A library is an ordered list of scalar terms over the state vector; its
// evaluation over sampled states produces the design matrix the optimizers
// consume.
package library

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrEmptyLibrary is returned when a library holds no terms.
	ErrEmptyLibrary = errors.New("library: no candidate terms")
	// ErrStateDimension reports states whose width a library was not built
	// for.
	ErrStateDimension = errors.New("library: state dimension mismatch")
)

// Term is one candidate function with a printable name.
type Term struct {
	Name string
	Eval func(x []float64) float64
}

// Library is an ordered set of candidate terms over a fixed state
// dimension.
type Library struct {
	dim   int
	terms []Term
}

// New returns a library over dim-dimensional states holding the given
// terms.
func New(dim int, terms ...Term) *Library {
	return &Library{dim: dim, terms: terms}
}

// Polynomial builds the monomial library of all cross terms with total
// degree up to maxDegree, starting with the constant term. For dim = 2,
// maxDegree = 2 the terms are 1, x0, x1, x0^2, x0*x1, x1^2.
func Polynomial(dim, maxDegree int) *Library {
	l := &Library{dim: dim}
	for deg := 0; deg <= maxDegree; deg++ {
		walkExponents(make([]int, dim), 0, deg, func(expo []int) {
			l.terms = append(l.terms, monomial(expo))
		})
	}
	return l
}

// walkExponents visits every exponent vector over positions pos.. summing
// exactly to left, in lexicographic order.
func walkExponents(expo []int, pos, left int, visit func([]int)) {
	if pos == len(expo)-1 {
		expo[pos] = left
		visit(expo)
		return
	}
	for e := left; e >= 0; e-- {
		expo[pos] = e
		walkExponents(expo, pos+1, left-e, visit)
	}
}

func monomial(expo []int) Term {
	owned := make([]int, len(expo))
	copy(owned, expo)

	var parts []string
	for i, e := range owned {
		switch {
		case e == 1:
			parts = append(parts, fmt.Sprintf("x%d", i))
		case e > 1:
			parts = append(parts, fmt.Sprintf("x%d^%d", i, e))
		}
	}
	name := "1"
	if len(parts) > 0 {
		name = strings.Join(parts, "*")
	}
	return Term{
		Name: name,
		Eval: func(x []float64) float64 {
			v := 1.0
			for i, e := range owned {
				for k := 0; k < e; k++ {
					v *= x[i]
				}
			}
			return v
		},
	}
}

// Identity returns the library of the raw state components themselves, the
// usual constant-free base for implicit identification.
func Identity(dim int) *Library {
	l := &Library{dim: dim}
	for i := 0; i < dim; i++ {
		idx := i
		l.terms = append(l.terms, Term{
			Name: fmt.Sprintf("x%d", i),
			Eval: func(x []float64) float64 { return x[idx] },
		})
	}
	return l
}

// WithTrig appends sin(k·xi) and cos(k·xi) terms for every state component
// and harmonic k = 1..harmonics, returning the library for chaining.
func (l *Library) WithTrig(harmonics int) *Library {
	for k := 1; k <= harmonics; k++ {
		for i := 0; i < l.dim; i++ {
			freq := float64(k)
			idx := i
			sinName := fmt.Sprintf("sin(x%d)", i)
			cosName := fmt.Sprintf("cos(x%d)", i)
			if k > 1 {
				sinName = fmt.Sprintf("sin(%d*x%d)", k, i)
				cosName = fmt.Sprintf("cos(%d*x%d)", k, i)
			}
			l.terms = append(l.terms,
				Term{Name: sinName, Eval: func(x []float64) float64 { return math.Sin(freq * x[idx]) }},
				Term{Name: cosName, Eval: func(x []float64) float64 { return math.Cos(freq * x[idx]) }},
			)
		}
	}
	return l
}

// With appends custom terms, returning the library for chaining.
func (l *Library) With(terms ...Term) *Library {
	l.terms = append(l.terms, terms...)
	return l
}

// Dim returns the state dimension the terms expect.
func (l *Library) Dim() int { return l.dim }

// Len returns the number of candidate terms.
func (l *Library) Len() int { return len(l.terms) }

// Names returns the term names in evaluation order.
func (l *Library) Names() []string {
	names := make([]string, len(l.terms))
	for i, t := range l.terms {
		names[i] = t.Name
	}
	return names
}

// Evaluate builds the design matrix for the sampled states, one row per
// sample and one column per term. states must be samples×dim.
func (l *Library) Evaluate(states mat.Matrix) (*mat.Dense, error) {
	if len(l.terms) == 0 {
		return nil, ErrEmptyLibrary
	}
	samples, dim := states.Dims()
	if dim != l.dim {
		return nil, fmt.Errorf("%w: states have %d components, library expects %d", ErrStateDimension, dim, l.dim)
	}
	if samples == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrStateDimension)
	}
	theta := mat.NewDense(samples, len(l.terms), nil)
	row := make([]float64, dim)
	for s := 0; s < samples; s++ {
		for i := 0; i < dim; i++ {
			row[i] = states.At(s, i)
		}
		for t, term := range l.terms {
			theta.Set(s, t, term.Eval(row))
		}
	}
	return theta, nil
}
