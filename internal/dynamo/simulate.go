package dynamo

import (
	"context"
	"fmt"
)

// Simulate integrates sys from x0 over cfg.Duration with fixed-step RK4,
// recording every sample including the initial condition. On cancellation
// it returns the samples collected so far together with ctx.Err().
func Simulate(ctx context.Context, sys System, x0 State, cfg Config) (*Trajectory, error) {
	if cfg.Dt <= 0 || cfg.Duration <= 0 {
		return nil, fmt.Errorf("%w: dt=%g duration=%g", ErrBadConfig, cfg.Dt, cfg.Duration)
	}
	if len(x0) != sys.Dim() {
		return nil, fmt.Errorf("%w: state has %d components, %s needs %d",
			ErrDimensionMismatch, len(x0), sys.Name(), sys.Dim())
	}
	if !x0.IsValid() {
		return nil, ErrInvalidState
	}

	steps := int(cfg.Duration / cfg.Dt)
	tr := &Trajectory{
		States: make([]State, 0, steps+1),
		Times:  make([]float64, 0, steps+1),
	}
	tr.States = append(tr.States, x0.Clone())
	tr.Times = append(tr.Times, 0)

	rk := NewRK4()
	x := x0.Clone()
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return tr, ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		x = rk.Step(sys, x, t, cfg.Dt)
		tNext := float64(i+1) * cfg.Dt

		if cfg.ValidateState && !x.IsValid() {
			return tr, fmt.Errorf("%w: %s at t=%.4f", ErrUnstable, sys.Name(), tNext)
		}

		tr.States = append(tr.States, x.Clone())
		tr.Times = append(tr.Times, tNext)
	}
	return tr, nil
}
