package sparse

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// benchA is the benchmark system used across the solver tests: sparse, with
// a smallest nonzero magnitude of 0.1.
func benchA() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, -0.1,
		0, -2, 0,
		0.1, 0.5, -1,
	})
}

// synthetic draws X uniformly from [-1,1], forms Y = A·X, and returns the
// transposed pair the explicit solvers consume. Recovering Ξ then means
// Ξᵀ ≈ A.
func synthetic(a *mat.Dense, samples int, seed int64) (theta, y *mat.Dense) {
	_, states := a.Dims()
	rng := rand.New(rand.NewSource(seed))
	x := mat.NewDense(states, samples, nil)
	for i := 0; i < states; i++ {
		for j := 0; j < samples; j++ {
			x.Set(i, j, 2*rng.Float64()-1)
		}
	}
	var prod mat.Dense
	prod.Mul(a, x)
	theta = mat.DenseCopyOf(x.T())
	y = mat.DenseCopyOf(prod.T())
	return theta, y
}

func countNonZeros(m mat.Matrix) int {
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

func maxAbsDiff(a, b mat.Matrix) float64 {
	var d mat.Dense
	d.Sub(a, b)
	r, c := d.Dims()
	worst := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			worst = math.Max(worst, math.Abs(d.At(i, j)))
		}
	}
	return worst
}
