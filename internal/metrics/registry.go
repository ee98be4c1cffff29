package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/webcloth/internal/sim"
)

// DefaultStabilityThreshold is the displacement that counts as the web
// tearing loose in the stability metric.
const DefaultStabilityThreshold = 150.0

var constructors = map[string]func() sim.Metric{
	"kinetic_energy":      func() sim.Metric { return NewKineticEnergy() },
	"max_displacement":    func() sim.Metric { return NewMaxDisplacement() },
	"constraint_residual": func() sim.Metric { return NewConstraintResidual() },
	"stability":           func() sim.Metric { return NewStability(DefaultStabilityThreshold) },
}

// Names lists the known metrics in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for n := range constructors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func Get(name string) (sim.Metric, error) {
	c, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric %q", name)
	}
	return c(), nil
}

// All returns a fresh instance of every metric, in Names order.
func All() []sim.Metric {
	out := make([]sim.Metric, 0, len(constructors))
	for _, n := range Names() {
		out = append(out, constructors[n]())
	}
	return out
}
