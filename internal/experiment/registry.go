package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/sparsedyn/internal/config"
	"github.com/san-kum/sparsedyn/internal/dynamo"
	"github.com/san-kum/sparsedyn/internal/models"
	"github.com/san-kum/sparsedyn/internal/sparse"
)

// Registry maps the names used in configs and on the command line to
// constructors for systems and optimizers.
type Registry struct {
	systems    map[string]func() models.Model
	optimizers map[string]func(config.FitConfig) (sparse.Optimizer, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		systems:    make(map[string]func() models.Model),
		optimizers: make(map[string]func(config.FitConfig) (sparse.Optimizer, error)),
	}

	r.systems["lorenz"] = func() models.Model { return models.NewLorenz() }
	r.systems["vanderpol"] = func() models.Model { return models.NewVanDerPol() }
	r.systems["duffing"] = func() models.Model { return models.NewDuffing() }
	r.systems["pendulum"] = func() models.Model { return models.NewPendulum() }

	r.optimizers["strridge"] = func(fc config.FitConfig) (sparse.Optimizer, error) {
		o := sparse.NewSTRRidge(fc.Threshold, fc.Ridge)
		o.Parallel = fc.Parallel
		return o, nil
	}
	r.optimizers["admm"] = func(fc config.FitConfig) (sparse.Optimizer, error) {
		k, err := kernelByName(fc.Kernel)
		if err != nil {
			return nil, err
		}
		o := sparse.NewADMM(fc.Threshold, fc.Rho)
		o.Kernel = k
		return o, nil
	}
	r.optimizers["sr3"] = func(fc config.FitConfig) (sparse.Optimizer, error) {
		k, err := kernelByName(fc.Kernel)
		if err != nil {
			return nil, err
		}
		o := sparse.NewSR3(fc.Threshold, fc.Nu)
		o.Kernel = k
		return o, nil
	}

	return r
}

func (r *Registry) GetSystem(name string) (models.Model, error) {
	fn, ok := r.systems[name]
	if !ok {
		return nil, fmt.Errorf("unknown system: %s", name)
	}
	return fn(), nil
}

// GetOptimizer builds a fresh optimizer. Optimizers carry per-fit state, so
// every fit needs its own instance.
func (r *Registry) GetOptimizer(name string, fc config.FitConfig) (sparse.Optimizer, error) {
	fn, ok := r.optimizers[name]
	if !ok {
		return nil, fmt.Errorf("unknown optimizer: %s", name)
	}
	return fn(fc)
}

func (r *Registry) ListSystems() []string {
	names := make([]string, 0, len(r.systems))
	for name := range r.systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListOptimizers() []string {
	names := make([]string, 0, len(r.optimizers))
	for name := range r.optimizers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func kernelByName(name string) (sparse.Kernel, error) {
	switch name {
	case "", "soft":
		return sparse.Soft, nil
	case "hard":
		return sparse.Hard, nil
	}
	return 0, fmt.Errorf("unknown kernel: %s", name)
}

// ApplyParams overrides system parameters by name. The system must be
// configurable when params is non-empty.
func ApplyParams(sys models.Model, params map[string]float64) error {
	if len(params) == 0 {
		return nil
	}
	c, ok := sys.(dynamo.Configurable)
	if !ok {
		return fmt.Errorf("system %s has no adjustable parameters", sys.Name())
	}
	for name, value := range params {
		if err := c.SetParam(name, value); err != nil {
			return err
		}
	}
	return nil
}
