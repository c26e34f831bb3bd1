package library

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrNoNullSpace is returned when a feature matrix has full column rank and
// therefore carries no implicit relationship to recover.
var ErrNoNullSpace = errors.New("library: matrix has no null space")

// nullTol is the relative singular-value cutoff separating the numerical
// null space from the rest of the spectrum.
const nullTol = 1e-10

// Implicit augments a base library for implicit identification of a single
// measured channel z: the candidate terms become z itself, z times every
// base term, and the base terms alone. A sparse vector in the null space of
// the augmented design matrix is then an implicit relationship between z
// and the states.
type Implicit struct {
	base *Library
}

// NewImplicit wraps base for implicit identification.
func NewImplicit(base *Library) *Implicit {
	return &Implicit{base: base}
}

// Len returns the number of augmented terms, 1 + 2·len(base).
func (im *Implicit) Len() int { return 1 + 2*im.base.Len() }

// Names returns the augmented term names with the measured channel rendered
// as label.
func (im *Implicit) Names(label string) []string {
	base := im.base.Names()
	names := make([]string, 0, im.Len())
	names = append(names, label)
	for _, n := range base {
		names = append(names, label+"*"+n)
	}
	return append(names, base...)
}

// Evaluate builds the augmented design matrix, one row per sample: the
// measured channel, the channel times each base term, then the base terms.
// states must be samples×dim and z must hold one value per sample.
func (im *Implicit) Evaluate(states mat.Matrix, z []float64) (*mat.Dense, error) {
	base, err := im.base.Evaluate(states)
	if err != nil {
		return nil, err
	}
	samples, terms := base.Dims()
	if len(z) != samples {
		return nil, fmt.Errorf("%w: %d channel values over %d samples", ErrStateDimension, len(z), samples)
	}
	theta := mat.NewDense(samples, 1+2*terms, nil)
	for s := 0; s < samples; s++ {
		theta.Set(s, 0, z[s])
		for t := 0; t < terms; t++ {
			v := base.At(s, t)
			theta.Set(s, 1+t, z[s]*v)
			theta.Set(s, 1+terms+t, v)
		}
	}
	return theta, nil
}

// NullSpaceBasis returns an orthonormal basis for the numerical null space
// of a, one column per near-zero singular value. The cutoff is relative to
// the largest singular value.
func NullSpaceBasis(a mat.Matrix) (*mat.Dense, error) {
	return NullSpaceBasisTol(a, nullTol)
}

// NullSpaceBasisTol is NullSpaceBasis with a caller-chosen relative cutoff,
// for data too noisy for the default.
func NullSpaceBasisTol(a mat.Matrix, rtol float64) (*mat.Dense, error) {
	rows, n := a.Dims()
	// A thin SVD drops the right singular vectors past min(m,n); wide
	// matrices need all of them.
	kind := mat.SVDThin
	if rows < n {
		kind = mat.SVDFull
	}
	var svd mat.SVD
	if !svd.Factorize(a, kind) {
		return nil, errors.New("library: svd factorization failed")
	}
	var v mat.Dense
	svd.VTo(&v)
	vals := svd.Values(nil)
	if len(vals) == 0 {
		return nil, ErrNoNullSpace
	}
	cut := rtol * vals[0]
	var cols []int
	for i, s := range vals {
		if s <= cut {
			cols = append(cols, i)
		}
	}
	// Right singular vectors beyond min(m,n) belong to exact zeros.
	_, vc := v.Dims()
	for i := len(vals); i < vc; i++ {
		cols = append(cols, i)
	}
	if len(cols) == 0 {
		return nil, ErrNoNullSpace
	}
	basis := mat.NewDense(n, len(cols), nil)
	for p, c := range cols {
		for i := 0; i < n; i++ {
			basis.Set(i, p, v.At(i, c))
		}
	}
	return basis, nil
}
