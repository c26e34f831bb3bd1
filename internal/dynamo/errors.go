package dynamo

import "errors"

// Domain errors for simulation and differentiation.
var (
	// ErrInvalidState indicates an initial state with NaN or Inf entries.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnstable indicates the integration became numerically unstable.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrBadConfig indicates a non-positive step size or duration.
	ErrBadConfig = errors.New("dynamo: step size and duration must be positive")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrTooFewSamples indicates a trajectory too short to differentiate.
	ErrTooFewSamples = errors.New("dynamo: too few samples for differentiation")

	// ErrNonUniform indicates unevenly spaced samples.
	ErrNonUniform = errors.New("dynamo: differentiation requires uniform sample spacing")
)
