package models

import (
	"math"

	"github.com/san-kum/sparsedyn/internal/dynamo"
)

// Pendulum implements a damped planar pendulum in angle and angular
// velocity. The restoring term is sinusoidal, so recovery needs a library
// with trigonometric terms.
type Pendulum struct {
	Mass, Length, Damping, Gravity float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{Mass: 1.0, Length: 1.0, Damping: 0.1, Gravity: 9.81}
}

func (p *Pendulum) Name() string { return "pendulum" }
func (p *Pendulum) Dim() int     { return 2 }

func (p *Pendulum) Derive(s dynamo.State, _ float64) dynamo.State {
	theta, omega := s[0], s[1]
	alpha := -p.Damping/(p.Mass*p.Length*p.Length)*omega - p.Gravity/p.Length*math.Sin(theta)
	return dynamo.State{omega, alpha}
}

func (p *Pendulum) DefaultState() dynamo.State { return dynamo.State{2.0, 0.0} }

func (p *Pendulum) GetParams() map[string]float64 {
	return map[string]float64{"mass": p.Mass, "length": p.Length, "damping": p.Damping, "gravity": p.Gravity}
}

func (p *Pendulum) SetParam(n string, v float64) error {
	switch n {
	case "mass":
		p.Mass = v
	case "length":
		p.Length = v
	case "damping":
		p.Damping = v
	case "gravity":
		p.Gravity = v
	default:
		return unknownParam("pendulum", n)
	}
	return nil
}
