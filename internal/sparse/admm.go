package sparse

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sparsedyn/internal/lstsq"
)

const defaultTol = 1e-6

// ADMM implements the alternating direction method of multipliers for
// sparse regression. Each iteration solves the augmented ridge system for
// Ξ, thresholds Ξ+U into the auxiliary variable Z, and performs the dual
// ascent U ← U + Ξ − Z. The coefficients handed back to the caller are Z,
// the sparsified copy. The Gram factorization is computed once per fit.
type ADMM struct {
	lambda float64
	rho    float64

	// Kernel selects the proximal step, soft shrinkage unless changed.
	Kernel Kernel
	// Tol bounds the relative Ξ change and the primal and dual residuals
	// at convergence.
	Tol float64

	solver  *lstsq.Solver
	thetaTY mat.Dense
	xi      mat.Dense
	u       mat.Dense
	xiPrev  mat.Dense
	zPrev   mat.Dense
	rhs     mat.Dense
	scratch mat.Dense
	conv    bool
}

// NewADMM returns an ADMM optimizer with the given sparsification threshold
// and penalty ratio ρ.
func NewADMM(threshold, rho float64) *ADMM {
	return &ADMM{lambda: threshold, rho: rho, Kernel: Soft, Tol: defaultTol}
}

func (a *ADMM) Name() string { return "admm" }

func (a *ADMM) Threshold() float64 { return a.lambda }

func (a *ADMM) SetThreshold(v float64) { a.lambda = v }

func (a *ADMM) Init(theta, y mat.Matrix, xi *mat.Dense) error {
	if a.rho <= 0 {
		return fmt.Errorf("sparse: admm penalty ratio must be positive, got %v", a.rho)
	}
	if a.Tol <= 0 {
		a.Tol = defaultTol
	}
	if err := seed(xi, theta, y); err != nil {
		return err
	}
	a.solver = lstsq.NewSolver(theta, a.rho)
	a.thetaTY.Mul(theta.T(), y)
	copyInto(&a.xi, xi)
	r, c := xi.Dims()
	zeroInto(&a.u, r, c)
	a.conv = false
	return nil
}

// Step runs one ADMM iteration. z is the caller's coefficient matrix and
// holds the thresholded iterate Z.
func (a *ADMM) Step(z *mat.Dense) error {
	if a.conv {
		return nil
	}
	copyInto(&a.xiPrev, &a.xi)

	// Ξ-update: (ΘᵀΘ + ρI) Ξ = ΘᵀY + ρ(Z − U).
	a.rhs.Sub(z, &a.u)
	a.rhs.Scale(a.rho, &a.rhs)
	a.rhs.Add(&a.rhs, &a.thetaTY)
	if err := a.solver.SolveTo(&a.xi, &a.rhs); err != nil {
		return err
	}

	// Z-update: proximal threshold of Ξ + U.
	copyInto(&a.zPrev, z)
	a.scratch.Add(&a.xi, &a.u)
	Threshold(z, &a.scratch, a.lambda, a.Kernel)

	// U-update: dual ascent.
	a.scratch.Sub(&a.xi, z)
	a.u.Add(&a.u, &a.scratch)

	a.conv = relChange(&a.xi, &a.xiPrev) <= a.Tol &&
		relChange(&a.xi, z) <= a.Tol &&
		relChange(z, &a.zPrev) <= a.Tol
	return nil
}

func (a *ADMM) Converged() bool { return a.conv }
