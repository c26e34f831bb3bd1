// Package models provides the dynamical systems used to generate
// identification data.
//
// Each model implements the [dynamo.System] interface, defining the
// differential equations governing the system's evolution:
//
//   - [Lorenz]: butterfly attractor
//   - [VanDerPol]: self-sustaining nonlinear oscillator
//   - [Duffing]: forced nonlinear oscillator, phase-embedded
//   - [Pendulum]: damped planar pendulum
//   - [Linear]: dx/dt = A*x for an arbitrary coefficient matrix
//
// Every model exposes a DefaultState initial condition, and the named
// systems implement [dynamo.Configurable] for parameter adjustment. The
// experiment registry maps config and CLI names onto constructors.
package models
