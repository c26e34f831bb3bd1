// Package sparse implements the sparse-coefficient optimizers used to recover
// governing equations from measured data.
//
// The explicit solvers fit Θ·Ξ ≈ Y where Θ holds candidate feature columns,
// Y holds measured outputs, and most entries of Ξ should be exactly zero:
//
//   - [STRRidge]: sequential thresholded ridge regression
//   - [ADMM]: alternating direction method of multipliers
//   - [SR3]: sparse relaxed regularized regression
//
// All three satisfy [Optimizer] and are driven by [Fit], which validates
// shapes, seeds the coefficients, and iterates until the solver converges or
// the iteration budget runs out. [ADM] solves the implicit variant: given a
// basis for the null space of a feature matrix, it sparsifies each basis
// column while keeping it inside the span, and [SelectCandidate] picks the
// best column by a sparsity-versus-residual trade-off.
//
// # Ownership
//
// A fit call treats the feature and target matrices as read-only and mutates
// only the coefficient matrix it was handed. Optimizer instances hold state
// between Init and the last Step of one fit; reusing an instance for a new
// fit is fine, sharing one instance across concurrent fits is not.
package sparse
