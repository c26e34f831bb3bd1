package sparse

import "errors"

var (
	// ErrDimensionMismatch reports incompatible matrix shapes. It is returned
	// before any iteration runs.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")

	// ErrNoCandidates reports that every null-space candidate column was
	// driven to zero, leaving nothing to select.
	ErrNoCandidates = errors.New("sparse: no nonzero candidates")
)
