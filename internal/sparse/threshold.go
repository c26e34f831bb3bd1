package sparse

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Kernel selects how coefficients are sparsified.
type Kernel int

const (
	// Hard zeroes entries with magnitude below the threshold and passes the
	// rest through unchanged.
	Hard Kernel = iota
	// Soft zeroes entries with magnitude below the threshold and shrinks the
	// survivors toward zero by the threshold amount.
	Soft
)

func (k Kernel) String() string {
	if k == Soft {
		return "soft"
	}
	return "hard"
}

func (k Kernel) apply(v, lambda float64) float64 {
	if lambda <= 0 {
		return v
	}
	if k == Soft {
		return softThreshold(v, lambda)
	}
	return hardThreshold(v, lambda)
}

func hardThreshold(v, lambda float64) float64 {
	if math.Abs(v) < lambda {
		return 0
	}
	return v
}

func softThreshold(v, lambda float64) float64 {
	if v > lambda {
		return v - lambda
	}
	if v < -lambda {
		return v + lambda
	}
	return 0
}

// Threshold applies the kernel entrywise, writing the result to dst. dst may
// be the same matrix as src; an empty dst is sized to match. A threshold at
// or below zero copies src through unchanged.
func Threshold(dst *mat.Dense, src mat.Matrix, lambda float64, k Kernel) {
	r, c := src.Dims()
	dst.ReuseAs(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst.Set(i, j, k.apply(src.At(i, j), lambda))
		}
	}
}

// ThresholdCols applies the kernel with a separate threshold per column.
// lambdas must have one entry per column of src.
func ThresholdCols(dst *mat.Dense, src mat.Matrix, lambdas []float64, k Kernel) {
	r, c := src.Dims()
	if len(lambdas) != c {
		panic("sparse: one threshold per column required")
	}
	dst.ReuseAs(r, c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			dst.Set(i, j, k.apply(src.At(i, j), lambdas[j]))
		}
	}
}

// ThresholdVec applies the kernel to a single vector.
func ThresholdVec(dst *mat.VecDense, src mat.Vector, lambda float64, k Kernel) {
	n := src.Len()
	dst.ReuseAsVec(n)
	for i := 0; i < n; i++ {
		dst.SetVec(i, k.apply(src.AtVec(i), lambda))
	}
}
