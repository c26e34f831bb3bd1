// Package quality scores fitted coefficient matrices: reconstruction
// error, sparsity, and the combined measures used to rank fits against
// each other.
package quality

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Residual returns the Frobenius reconstruction error ||theta*xi - y||.
func Residual(theta, xi, y mat.Matrix) float64 {
	var pred mat.Dense
	pred.Mul(theta, xi)
	pred.Sub(&pred, y)
	return mat.Norm(&pred, 2)
}

// RelativeResidual normalizes [Residual] by ||y||. A zero-norm y returns
// the absolute residual.
func RelativeResidual(theta, xi, y mat.Matrix) float64 {
	res := Residual(theta, xi, y)
	norm := mat.Norm(y, 2)
	if norm == 0 {
		return res
	}
	return res / norm
}

// NonZeros counts the exactly non-zero entries of m.
func NonZeros(m mat.Matrix) int {
	r, c := m.Dims()
	n := 0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if m.At(i, j) != 0 {
				n++
			}
		}
	}
	return n
}

// Sparsity is the fraction of zero entries in m, 1 meaning all zero.
func Sparsity(m mat.Matrix) float64 {
	r, c := m.Dims()
	if r*c == 0 {
		return 0
	}
	return 1 - float64(NonZeros(m))/float64(r*c)
}

// RSquared is the coefficient of determination of theta*xi against y,
// pooled over all output channels with per-channel means.
func RSquared(theta, xi, y mat.Matrix) float64 {
	res := Residual(theta, xi, y)
	ssRes := res * res

	r, c := y.Dims()
	ssTot := 0.0
	for j := 0; j < c; j++ {
		mean := 0.0
		for i := 0; i < r; i++ {
			mean += y.At(i, j)
		}
		mean /= float64(r)
		for i := 0; i < r; i++ {
			d := y.At(i, j) - mean
			ssTot += d * d
		}
	}

	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// AIC is the Akaike information criterion n*ln(RSS/n) + 2k with k the
// number of surviving coefficients. A zero-residual fit gives -Inf.
func AIC(theta, xi, y mat.Matrix) float64 {
	res := Residual(theta, xi, y)
	r, c := y.Dims()
	n := float64(r * c)
	k := float64(NonZeros(xi))
	return n*math.Log(res*res/n) + 2*k
}

// ParetoScore combines a non-zero count and a residual into the single
// scalar used to rank candidate fits. All-zero candidates score +Inf so
// they are never preferred.
func ParetoScore(nonZeros int, residual float64) float64 {
	if nonZeros == 0 {
		return math.Inf(1)
	}
	return math.Hypot(float64(nonZeros), residual)
}
