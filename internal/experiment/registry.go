package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/collidesim/internal/config"
	"github.com/san-kum/collidesim/internal/integrators"
	"github.com/san-kum/collidesim/internal/metrics"
	"github.com/san-kum/collidesim/internal/sim"
)

type Registry struct {
	integrators map[string]func() sim.Integrator
	metrics     map[string]func(cfg *config.Config) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() sim.Integrator),
		metrics:     make(map[string]func(cfg *config.Config) sim.Metric),
	}

	r.integrators["euler"] = func() sim.Integrator { return integrators.NewEuler() }

	r.metrics["kinetic_energy"] = func(*config.Config) sim.Metric { return metrics.NewEnergy() }
	r.metrics["energy_drift"] = func(*config.Config) sim.Metric { return metrics.NewEnergyDrift() }
	r.metrics["momentum_drift"] = func(*config.Config) sim.Metric { return metrics.NewMomentumDrift() }
	r.metrics["stability"] = func(cfg *config.Config) sim.Metric {
		return metrics.NewStability(cfg.Width, cfg.Height)
	}

	return r
}

func (r *Registry) GetIntegrator(name string) (sim.Integrator, error) {
	if name == "" {
		name = config.DefaultIntegrator
	}
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

// DefaultMetrics builds one instance of every registered metric, in name
// order.
func (r *Registry) DefaultMetrics(cfg *config.Config) []sim.Metric {
	names := sortedKeys(r.metrics)
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		out = append(out, r.metrics[name](cfg))
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
