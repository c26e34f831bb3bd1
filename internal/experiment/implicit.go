package experiment

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/sparsedyn/internal/config"
	"github.com/san-kum/sparsedyn/internal/dynamo"
	"github.com/san-kum/sparsedyn/internal/library"
	"github.com/san-kum/sparsedyn/internal/models"
	"github.com/san-kum/sparsedyn/internal/sparse"
)

// defaultRankTol is the relative singular-value cutoff for the null-space
// search. Differentiated trajectories carry finite-difference error well
// above machine precision, so the cutoff sits looser than the library
// default.
const defaultRankTol = 1e-6

// ImplicitResult holds a recovered implicit relationship for one channel.
type ImplicitResult struct {
	System     string
	Channel    int
	Names      []string
	Basis      *mat.Dense
	Candidates []sparse.Candidate
	Best       sparse.Candidate
	Coeffs     []float64
	Equation   string
}

// Implicit recovers a relationship f(x, dxk/dt) = 0 for a single state
// channel. Unlike Discovery it never solves for the derivative directly,
// so it also handles dynamics where the derivative appears multiplied by
// state terms.
type Implicit struct {
	cfg     *config.Config
	system  models.Model
	base    *library.Library
	channel int

	// RankTol overrides the relative singular-value cutoff separating the
	// null space from the data; zero keeps the default.
	RankTol float64
}

// NewImplicit resolves the configured system and prepares a constant-free
// base library for channel. The augmentation multiplies the measured
// derivative by every base term, so a constant in the base would duplicate
// the derivative column itself.
func NewImplicit(cfg *config.Config, reg *Registry, channel int) (*Implicit, error) {
	sys, err := reg.GetSystem(cfg.System)
	if err != nil {
		return nil, err
	}
	if err := ApplyParams(sys, cfg.Params); err != nil {
		return nil, err
	}
	if channel < 0 || channel >= sys.Dim() {
		return nil, fmt.Errorf("channel %d out of range for %s with %d states", channel, sys.Name(), sys.Dim())
	}
	return &Implicit{cfg: cfg, system: sys, base: library.Identity(sys.Dim()), channel: channel}, nil
}

// Run executes the implicit pipeline: simulate, differentiate the chosen
// channel, build the augmented design matrix, recover its null space, and
// sparsify the basis by alternating directions.
func (im *Implicit) Run(ctx context.Context) (*ImplicitResult, error) {
	x0, err := initialState(im.system, im.cfg.InitState)
	if err != nil {
		return nil, err
	}
	simCfg := dynamo.Config{Dt: im.cfg.Dt, Duration: im.cfg.Duration, ValidateState: true}
	traj, err := dynamo.Simulate(ctx, im.system, x0, simCfg)
	if err != nil {
		return nil, err
	}
	dx, err := dynamo.Derivatives(traj)
	if err != nil {
		return nil, err
	}
	noisify(dx, im.cfg.NoiseLevel, im.cfg.Seed)
	z := mat.Col(nil, im.channel, dx)

	aug := library.NewImplicit(im.base)
	theta, err := aug.Evaluate(traj.Matrix(), z)
	if err != nil {
		return nil, err
	}
	rtol := im.RankTol
	if rtol <= 0 {
		rtol = defaultRankTol
	}
	basis, err := library.NullSpaceBasisTol(theta, rtol)
	if err != nil {
		return nil, err
	}

	k, err := kernelByName(im.cfg.Fit.Kernel)
	if err != nil {
		return nil, err
	}
	adm := sparse.NewADM(im.cfg.Fit.Threshold)
	adm.Kernel = k
	sparsified := &mat.Dense{}
	if err := adm.Fit(ctx, sparsified, basis, im.cfg.Fit.MaxIter); err != nil {
		return nil, err
	}
	best, err := sparse.SelectCandidate(sparsified, theta)
	if err != nil {
		return nil, err
	}

	names := aug.Names(fmt.Sprintf("dx%d/dt", im.channel))
	coeffs := normalizeLeading(mat.Col(nil, best.Index, sparsified))
	return &ImplicitResult{
		System:     im.system.Name(),
		Channel:    im.channel,
		Names:      names,
		Basis:      sparsified,
		Candidates: sparse.RankCandidates(sparsified, theta),
		Best:       best,
		Coeffs:     coeffs,
		Equation:   library.FormatImplicit(names, coeffs, renderTol),
	}, nil
}

// normalizeLeading rescales q so its first nonzero entry becomes one,
// turning a unit-norm basis column into readable coefficients.
func normalizeLeading(q []float64) []float64 {
	for _, v := range q {
		if math.Abs(v) > renderTol {
			for i := range q {
				q[i] /= v
			}
			return q
		}
	}
	return q
}
