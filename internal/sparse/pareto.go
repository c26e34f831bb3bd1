package sparse

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Candidate scores one column of a recovered null-space basis.
type Candidate struct {
	// Index is the column position in the basis.
	Index int
	// NonZeros counts the nonzero entries of the column.
	NonZeros int
	// Residual is ‖theta·q‖₂, how far the column strays from the null space.
	Residual float64
	// Score is the Pareto trade-off hypot(NonZeros, Residual); lower wins.
	Score float64
}

// RankCandidates scores every column of m against theta, the matrix whose
// null space the columns should span. All-zero columns score +Inf so they
// can never win selection.
func RankCandidates(m *mat.Dense, theta mat.Matrix) []Candidate {
	var res mat.Dense
	res.Mul(theta, m)
	rows, cols := m.Dims()
	cands := make([]Candidate, cols)
	for j := 0; j < cols; j++ {
		nnz := 0
		for i := 0; i < rows; i++ {
			if m.At(i, j) != 0 {
				nnz++
			}
		}
		c := Candidate{
			Index:    j,
			NonZeros: nnz,
			Residual: mat.Norm(res.ColView(j), 2),
			Score:    math.Inf(1),
		}
		if nnz > 0 {
			c.Score = math.Hypot(float64(nnz), c.Residual)
		}
		cands[j] = c
	}
	return cands
}

// SelectCandidate returns the lowest-scoring candidate column of m. Ties
// keep the earliest column, so repeated runs over identical input always
// select the same index. Selection fails only when every column is zero.
func SelectCandidate(m *mat.Dense, theta mat.Matrix) (Candidate, error) {
	_, tc := theta.Dims()
	mr, _ := m.Dims()
	if tc != mr {
		return Candidate{}, fmt.Errorf("%w: theta has %d columns, basis has %d rows", ErrDimensionMismatch, tc, mr)
	}
	best := Candidate{Index: -1, Score: math.Inf(1)}
	for _, c := range RankCandidates(m, theta) {
		if c.Score < best.Score {
			best = c
		}
	}
	if best.Index < 0 {
		return Candidate{}, ErrNoCandidates
	}
	return best, nil
}
