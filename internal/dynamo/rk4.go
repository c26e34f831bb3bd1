package dynamo

// RK4 is the classical fourth-order Runge-Kutta stepper. The zero value is
// ready to use; scratch buffers are reused across steps, so a single RK4
// must not be shared between goroutines.
type RK4 struct {
	k1, k2, k3, k4 State
	scratch        State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(State, n)
		r.k2 = make(State, n)
		r.k3 = make(State, n)
		r.k4 = make(State, n)
		r.scratch = make(State, n)
	}
}

// Step advances x by one step of size dt and returns the new state.
func (r *RK4) Step(sys System, x State, t, dt float64) State {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k1, sys.Derive(x, t))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + 0.5*dt*r.k1[i]
	}
	copy(r.k2, sys.Derive(r.scratch, t+0.5*dt))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + 0.5*dt*r.k2[i]
	}
	copy(r.k3, sys.Derive(r.scratch, t+0.5*dt))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	copy(r.k4, sys.Derive(r.scratch, t+dt))

	result := make(State, n)
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt/6.0*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	return result
}
