// Package dynamo generates the measurement data the identification pipeline
// consumes: it integrates ordinary differential equations with a fixed-step
// method and differentiates the sampled trajectories numerically.
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Simulate]: fixed-step RK4 integration into a [Trajectory]
//   - [Derivatives]: finite-difference differentiation of a trajectory
//
// # Example
//
//	sys := models.NewLorenz()
//	traj, _ := dynamo.Simulate(ctx, sys, x0, dynamo.DefaultConfig())
//	dx, _ := dynamo.Derivatives(traj)
//
// # Sampling
//
// [Simulate] always records at fixed, uniform time steps: the
// finite-difference stencils in [Derivatives] require evenly spaced
// samples, so there is no adaptive stepping here.
package dynamo
