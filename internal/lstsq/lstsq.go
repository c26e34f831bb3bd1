package lstsq

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrFactorization is returned when no factorization of the system can be
// computed, not even the SVD fallback.
var ErrFactorization = errors.New("lstsq: factorization failed")

// svdCutoff scales the relative tolerance below which singular values are
// treated as zero.
const svdCutoff = 1e-14

// Solver solves (AᵀA + γI) X = C for many right-hand sides using a single
// factorization. The Cholesky factors are computed at construction; if the
// regularized Gram matrix is not positive definite, solves fall back to an
// SVD pseudo-inverse of the Gram matrix.
type Solver struct {
	chol   mat.Cholesky
	cholOK bool
	pinv   *mat.Dense
	n      int
}

// NewSolver builds and factorizes AᵀA + γI for the design matrix a.
func NewSolver(a mat.Matrix, gamma float64) *Solver {
	_, n := a.Dims()
	var gram mat.SymDense
	gram.SymOuterK(1, a.T())
	for i := 0; i < n; i++ {
		gram.SetSym(i, i, gram.At(i, i)+gamma)
	}
	s := &Solver{n: n}
	if s.chol.Factorize(&gram) {
		s.cholOK = true
		return s
	}
	var pinv mat.Dense
	if err := PseudoInverse(&pinv, &gram); err == nil {
		s.pinv = &pinv
	}
	return s
}

// Dim returns the order of the factorized system.
func (s *Solver) Dim() int { return s.n }

// SolveTo solves (AᵀA + γI) X = C, placing the result in dst. C must have as
// many rows as the design matrix has columns.
func (s *Solver) SolveTo(dst *mat.Dense, c mat.Matrix) error {
	if s.cholOK {
		return s.chol.SolveTo(dst, c)
	}
	if s.pinv == nil {
		return ErrFactorization
	}
	dst.Mul(s.pinv, c)
	return nil
}

// Solve solves the least-squares problem min ‖AX − B‖², placing the
// coefficient matrix in dst. Rank-deficient systems are recovered through the
// minimum-norm pseudo-inverse solution instead of failing.
func Solve(dst *mat.Dense, a, b mat.Matrix) error {
	if err := dst.Solve(a, b); err == nil {
		return nil
	}
	var pinv mat.Dense
	if err := PseudoInverse(&pinv, a); err != nil {
		return err
	}
	dst.Mul(&pinv, b)
	return nil
}

// Ridge solves min ‖AX − B‖² + γ‖X‖², placing the coefficient matrix in dst.
// With γ = 0 it reduces to Solve.
func Ridge(dst *mat.Dense, a, b mat.Matrix, gamma float64) error {
	if gamma == 0 {
		return Solve(dst, a, b)
	}
	var atb mat.Dense
	atb.Mul(a.T(), b)
	return NewSolver(a, gamma).SolveTo(dst, &atb)
}

// PseudoInverse computes the Moore-Penrose pseudo-inverse of a through a thin
// SVD, placing the result in dst. Singular values below a cutoff relative to
// the largest one are treated as zero.
func PseudoInverse(dst *mat.Dense, a mat.Matrix) error {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return ErrFactorization
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	vals := svd.Values(nil)

	m, n := a.Dims()
	tol := 0.0
	if len(vals) > 0 {
		tol = svdCutoff * float64(max(m, n)) * vals[0]
	}
	rows, _ := v.Dims()
	for j, sv := range vals {
		inv := 0.0
		if sv > tol {
			inv = 1 / sv
		}
		for i := 0; i < rows; i++ {
			v.Set(i, j, v.At(i, j)*inv)
		}
	}
	dst.Mul(&v, u.T())
	return nil
}
