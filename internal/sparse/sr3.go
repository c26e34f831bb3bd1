package sparse

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sparsedyn/internal/lstsq"
)

// SR3 implements sparse relaxed regularized regression. A relaxation
// variable W carries the sparse estimate: each iteration thresholds the
// relaxed coefficients Ξ into W, then refits Ξ against the data with a
// ν-weighted pull toward W. The caller's matrix holds W, the clean sparse
// result. The regularized Gram factorization is computed once per fit.
type SR3 struct {
	lambda float64
	nu     float64

	// Kernel selects the proximal step, soft shrinkage unless changed.
	Kernel Kernel
	// Tol bounds the relative change of Ξ and W at convergence. The gap
	// Ξ−W itself stays open by construction and is not part of the test.
	Tol float64

	solver  *lstsq.Solver
	thetaTY mat.Dense
	xi      mat.Dense
	xiPrev  mat.Dense
	wPrev   mat.Dense
	rhs     mat.Dense
	conv    bool
}

// NewSR3 returns an SR3 optimizer with the given sparsification threshold
// and relaxation strength ν. The proximal step uses threshold/ν.
func NewSR3(threshold, nu float64) *SR3 {
	return &SR3{lambda: threshold, nu: nu, Kernel: Soft, Tol: defaultTol}
}

func (s *SR3) Name() string { return "sr3" }

func (s *SR3) Threshold() float64 { return s.lambda }

func (s *SR3) SetThreshold(v float64) { s.lambda = v }

func (s *SR3) Init(theta, y mat.Matrix, xi *mat.Dense) error {
	if s.nu <= 0 {
		return fmt.Errorf("sparse: sr3 relaxation strength must be positive, got %v", s.nu)
	}
	if s.Tol <= 0 {
		s.Tol = defaultTol
	}
	if err := seed(xi, theta, y); err != nil {
		return err
	}
	s.solver = lstsq.NewSolver(theta, s.nu)
	s.thetaTY.Mul(theta.T(), y)
	copyInto(&s.xi, xi)
	s.conv = false
	return nil
}

// Step runs one SR3 iteration. w is the caller's coefficient matrix and
// holds the thresholded relaxation variable W.
func (s *SR3) Step(w *mat.Dense) error {
	if s.conv {
		return nil
	}
	copyInto(&s.wPrev, w)
	copyInto(&s.xiPrev, &s.xi)

	// W-update: proximal threshold of the relaxed estimate.
	Threshold(w, &s.xi, s.lambda/s.nu, s.Kernel)

	// Ξ-update: (ΘᵀΘ + νI) Ξ = ΘᵀY + νW.
	s.rhs.Scale(s.nu, w)
	s.rhs.Add(&s.rhs, &s.thetaTY)
	if err := s.solver.SolveTo(&s.xi, &s.rhs); err != nil {
		return err
	}

	s.conv = relChange(&s.xi, &s.xiPrev) <= s.Tol &&
		relChange(w, &s.wPrev) <= s.Tol
	return nil
}

func (s *SR3) Converged() bool { return s.conv }
