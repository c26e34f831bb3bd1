package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Relative spacing deviation tolerated before a trajectory is rejected as
// non-uniform.
const uniformTol = 1e-6

// Derivatives estimates dX/dt at every sample of a uniformly spaced
// trajectory and returns a samples-by-dim matrix. Interior points use the
// fourth-order central stencil, the two samples at each end fall back to
// second-order one-sided and central stencils.
func Derivatives(tr *Trajectory) (*mat.Dense, error) {
	n := tr.Len()
	if n < 5 {
		return nil, fmt.Errorf("%w: have %d, need at least 5", ErrTooFewSamples, n)
	}
	dt := tr.Dt()
	if err := checkUniform(tr.Times, dt); err != nil {
		return nil, err
	}

	dim := tr.Dim()
	s := tr.States
	d := mat.NewDense(n, dim, nil)
	for j := 0; j < dim; j++ {
		d.Set(0, j, (-3*s[0][j]+4*s[1][j]-s[2][j])/(2*dt))
		d.Set(1, j, (s[2][j]-s[0][j])/(2*dt))
		for i := 2; i < n-2; i++ {
			d.Set(i, j, (s[i-2][j]-8*s[i-1][j]+8*s[i+1][j]-s[i+2][j])/(12*dt))
		}
		d.Set(n-2, j, (s[n-1][j]-s[n-3][j])/(2*dt))
		d.Set(n-1, j, (3*s[n-1][j]-4*s[n-2][j]+s[n-3][j])/(2*dt))
	}
	return d, nil
}

func checkUniform(times []float64, dt float64) error {
	tol := uniformTol * math.Abs(dt)
	for i := 1; i < len(times); i++ {
		if math.Abs(times[i]-times[i-1]-dt) > tol {
			return fmt.Errorf("%w: spacing %g at sample %d, expected %g",
				ErrNonUniform, times[i]-times[i-1], i, dt)
		}
	}
	return nil
}
