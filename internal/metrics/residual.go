package metrics

import (
	"time"

	"github.com/san-kum/webcloth/internal/lattice"
	"github.com/san-kum/webcloth/internal/solver"
)

// ConstraintResidual is the mean relative constraint error over a run.
type ConstraintResidual struct {
	name    string
	sum     float64
	last    float64
	samples int
}

func NewConstraintResidual() *ConstraintResidual {
	return &ConstraintResidual{
		name: "constraint_residual",
	}
}

func (c *ConstraintResidual) Name() string {
	return c.name
}

func (c *ConstraintResidual) Observe(l *lattice.Lattice, now time.Duration) {
	c.last = solver.Residual(l)
	c.sum += c.last
	c.samples++
}

func (c *ConstraintResidual) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ConstraintResidual) Last() float64 { return c.last }

func (c *ConstraintResidual) Reset() {
	c.sum = 0
	c.last = 0
	c.samples = 0
}
