package models

import (
	"math"

	"github.com/san-kum/sparsedyn/internal/dynamo"
)

// Duffing implements a forced nonlinear oscillator. The drive phase is
// carried as a third state (dφ/dt = Ω) so the system stays autonomous and
// the forcing term appears as cos(φ) in a trig library.
type Duffing struct {
	Alpha, Beta, Delta, Gamma, Omega float64
}

func NewDuffing() *Duffing {
	return &Duffing{-1.0, 1.0, 0.3, 0.5, 1.2}
}

func (d *Duffing) Name() string { return "duffing" }
func (d *Duffing) Dim() int     { return 3 }

func (d *Duffing) Derive(s dynamo.State, _ float64) dynamo.State {
	x, v, phi := s[0], s[1], s[2]
	return dynamo.State{v, -d.Delta*v - d.Alpha*x - d.Beta*x*x*x + d.Gamma*math.Cos(phi), d.Omega}
}

func (d *Duffing) DefaultState() dynamo.State { return dynamo.State{1.0, 0.0, 0.0} }

func (d *Duffing) GetParams() map[string]float64 {
	return map[string]float64{"alpha": d.Alpha, "beta": d.Beta, "delta": d.Delta, "gamma": d.Gamma, "omega": d.Omega}
}

func (d *Duffing) SetParam(n string, v float64) error {
	switch n {
	case "alpha":
		d.Alpha = v
	case "beta":
		d.Beta = v
	case "delta":
		d.Delta = v
	case "gamma":
		d.Gamma = v
	case "omega":
		d.Omega = v
	default:
		return unknownParam("duffing", n)
	}
	return nil
}
