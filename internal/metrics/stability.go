package metrics

import "github.com/san-kum/gravsim/internal/sim"

// Coverage is the fraction of frames in which the tree tracked every live
// particle.
type Coverage struct {
	name       string
	violations int
	samples    int
}

func NewCoverage() *Coverage {
	return &Coverage{name: "coverage"}
}

func (c *Coverage) Name() string {
	return c.name
}

func (c *Coverage) Observe(f sim.Frame) {
	c.samples++
	if f.Tracked < f.Particles {
		c.violations++
	}
}

func (c *Coverage) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Coverage) Reset() {
	c.violations = 0
	c.samples = 0
}

// MaxDepth is the deepest node seen over a run.
type MaxDepth struct {
	depth int
}

func NewMaxDepth() *MaxDepth { return &MaxDepth{} }

func (m *MaxDepth) Name() string { return "max_depth" }

func (m *MaxDepth) Observe(f sim.Frame) {
	if f.Depth > m.depth {
		m.depth = f.Depth
	}
}

func (m *MaxDepth) Value() float64 { return float64(m.depth) }
func (m *MaxDepth) Reset()         { m.depth = 0 }
