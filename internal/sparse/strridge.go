package sparse

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sparsedyn/internal/lstsq"
)

// STRRidge implements sequential thresholded ridge regression. Each
// iteration refits the still-active terms of every output column with a
// ridge-regularized least squares solve, then zeroes any coefficient whose
// magnitude fell below the threshold. The active set only ever shrinks; a
// column is finished once its active set stops changing or empties out.
type STRRidge struct {
	lambda float64
	ridge  float64

	// Parallel fans the per-column refits out across goroutines. Columns
	// are independent, so the coefficients come out identical either way.
	Parallel bool

	theta mat.Matrix
	ycols []*mat.VecDense
	masks [][]int
	done  []bool
	conv  bool
}

// NewSTRRidge returns a sequential thresholded ridge optimizer with the
// given sparsification threshold and ridge penalty.
func NewSTRRidge(threshold, ridge float64) *STRRidge {
	return &STRRidge{lambda: threshold, ridge: ridge}
}

func (s *STRRidge) Name() string { return "strridge" }

func (s *STRRidge) Threshold() float64 { return s.lambda }

func (s *STRRidge) SetThreshold(v float64) { s.lambda = v }

func (s *STRRidge) Init(theta, y mat.Matrix, xi *mat.Dense) error {
	if err := seed(xi, theta, y); err != nil {
		return err
	}
	s.theta = theta
	yr, yc := y.Dims()
	_, terms := theta.Dims()
	s.ycols = make([]*mat.VecDense, yc)
	s.masks = make([][]int, yc)
	for j := 0; j < yc; j++ {
		s.ycols[j] = mat.NewVecDense(yr, mat.Col(nil, j, y))
		m := make([]int, 0, terms)
		for i := 0; i < terms; i++ {
			if xi.At(i, j) != 0 {
				m = append(m, i)
			}
		}
		s.masks[j] = m
	}
	s.done = make([]bool, yc)
	s.conv = false
	return nil
}

func (s *STRRidge) Step(xi *mat.Dense) error {
	if s.conv {
		return nil
	}
	cols := len(s.ycols)
	if s.Parallel && cols > 1 {
		errs := make([]error, cols)
		var wg sync.WaitGroup
		for j := 0; j < cols; j++ {
			wg.Add(1)
			go func(j int) {
				defer wg.Done()
				errs[j] = s.stepCol(xi, j)
			}(j)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return err
			}
		}
	} else {
		for j := 0; j < cols; j++ {
			if err := s.stepCol(xi, j); err != nil {
				return err
			}
		}
	}
	s.conv = true
	for _, d := range s.done {
		if !d {
			s.conv = false
			break
		}
	}
	return nil
}

func (s *STRRidge) Converged() bool { return s.conv }

// stepCol refits column j on its active terms and thresholds the result.
// Only entries inside the active set are touched; everything else is
// already zero.
func (s *STRRidge) stepCol(xi *mat.Dense, j int) error {
	if s.done[j] {
		return nil
	}
	active := s.masks[j]
	if len(active) == 0 {
		s.done[j] = true
		return nil
	}
	sub := subColumns(s.theta, active)
	var coef mat.Dense
	if err := lstsq.Ridge(&coef, sub, s.ycols[j], s.ridge); err != nil {
		return err
	}
	next := make([]int, 0, len(active))
	for p, i := range active {
		v := coef.At(p, 0)
		if math.Abs(v) < s.lambda {
			xi.Set(i, j, 0)
			continue
		}
		xi.Set(i, j, v)
		next = append(next, i)
	}
	if len(next) == 0 || equalMask(next, active) {
		s.done[j] = true
	}
	s.masks[j] = next
	return nil
}

func equalMask(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func subColumns(a mat.Matrix, idx []int) *mat.Dense {
	r, _ := a.Dims()
	sub := mat.NewDense(r, len(idx), nil)
	for p, c := range idx {
		for i := 0; i < r; i++ {
			sub.Set(i, p, a.At(i, c))
		}
	}
	return sub
}
