package sparse

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sparsedyn/internal/lstsq"
)

// ADM implements the alternating directions method for implicit null-space
// recovery. Given a basis L whose columns approximately span the null space
// of a feature matrix, each iteration projects every column back into
// span(L), thresholds it, and renormalizes it to unit length, trading a
// little null-space accuracy for a much sparser basis.
type ADM struct {
	lambda float64

	// Kernel selects the sparsification step, soft shrinkage unless changed.
	Kernel Kernel
}

// NewADM returns an ADM optimizer with the given sparsification threshold.
func NewADM(threshold float64) *ADM {
	return &ADM{lambda: threshold, Kernel: Soft}
}

func (a *ADM) Name() string { return "adm" }

func (a *ADM) Threshold() float64 { return a.lambda }

func (a *ADM) SetThreshold(v float64) { a.lambda = v }

// Fit sparsifies the basis l into m, running exactly iters iterations. The
// iteration count is authoritative; there is no early exit, so identical
// inputs always produce identical bases. m may be empty or sized like l.
// Columns driven entirely to zero by the threshold stay zero, a valid
// terminal state reported through selection rather than an error. A
// cancelled context aborts between iterations, leaving the last completed
// iteration in m.
func (a *ADM) Fit(ctx context.Context, m *mat.Dense, l mat.Matrix, iters int) error {
	lr, lc := l.Dims()
	if lr == 0 || lc == 0 {
		return fmt.Errorf("%w: empty null-space basis", ErrDimensionMismatch)
	}
	if iters < 0 {
		return fmt.Errorf("sparse: iteration budget must not be negative, got %d", iters)
	}

	// Least-squares reprojection onto span(L) through the pseudo-inverse.
	var pinv, proj mat.Dense
	if err := lstsq.PseudoInverse(&pinv, l); err != nil {
		return err
	}
	proj.Mul(l, &pinv)

	m.ReuseAs(lr, lc)
	m.Copy(l)
	for j := 0; j < lc; j++ {
		normalizeCol(m, j)
	}

	var work mat.Dense
	for it := 0; it < iters; it++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		work.Mul(&proj, m)
		for j := 0; j < lc; j++ {
			a.sparsifyCol(m, &work, j)
		}
	}
	return nil
}

// sparsifyCol thresholds column j of src into dst and renormalizes it to
// unit length. A column with nothing left keeps its zeros.
func (a *ADM) sparsifyCol(dst, src *mat.Dense, j int) {
	r, _ := src.Dims()
	ss := 0.0
	for i := 0; i < r; i++ {
		v := a.Kernel.apply(src.At(i, j), a.lambda)
		dst.Set(i, j, v)
		ss += v * v
	}
	if ss == 0 {
		return
	}
	inv := 1 / math.Sqrt(ss)
	for i := 0; i < r; i++ {
		dst.Set(i, j, dst.At(i, j)*inv)
	}
}

func normalizeCol(m *mat.Dense, j int) {
	r, _ := m.Dims()
	ss := 0.0
	for i := 0; i < r; i++ {
		v := m.At(i, j)
		ss += v * v
	}
	if ss == 0 {
		return
	}
	inv := 1 / math.Sqrt(ss)
	for i := 0; i < r; i++ {
		m.Set(i, j, m.At(i, j)*inv)
	}
}
