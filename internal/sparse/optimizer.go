package sparse

import (
	"gonum.org/v1/gonum/mat"
)

// Optimizer is one sparse regression solver driven by [Fit]. Implementations
// keep whatever per-fit state they need between Init and the final Step.
type Optimizer interface {
	// Name identifies the solver in reports and the CLI.
	Name() string

	// Threshold returns the sparsification threshold.
	Threshold() float64

	// SetThreshold replaces the sparsification threshold. Calling it during
	// a fit applies from the next Step.
	SetThreshold(v float64)

	// Init prepares solver state for fitting y against theta. If xi is empty
	// it is seeded with a least-squares solution; otherwise the caller's
	// values serve as the warm start.
	Init(theta, y mat.Matrix, xi *mat.Dense) error

	// Step advances one iteration, updating xi in place. After convergence
	// further calls leave xi unchanged.
	Step(xi *mat.Dense) error

	// Converged reports whether the last Step reached the solver's stopping
	// criterion.
	Converged() bool
}
