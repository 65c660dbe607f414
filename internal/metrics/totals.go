package metrics

import "github.com/san-kum/gravsim/internal/sim"

// Total sums one per-step counter over a run.
type Total struct {
	name  string
	field func(sim.Frame) int
	sum   int
}

func NewTotal(name string, field func(sim.Frame) int) *Total {
	return &Total{name: name, field: field}
}

func NewMoves() *Total {
	return NewTotal("moves", func(f sim.Frame) int { return f.Moved })
}

func NewEscapes() *Total {
	return NewTotal("escapes", func(f sim.Frame) int { return f.Escaped })
}

func NewMerges() *Total {
	return NewTotal("merges", func(f sim.Frame) int { return f.Merged })
}

func (t *Total) Name() string        { return t.name }
func (t *Total) Observe(f sim.Frame) { t.sum += t.field(f) }
func (t *Total) Value() float64      { return float64(t.sum) }
func (t *Total) Reset()              { t.sum = 0 }

// Default returns the metrics recorded for every stored run.
func Default() []sim.Metric {
	return []sim.Metric{
		NewEnergyDrift(),
		NewMomentumDrift(),
		NewCoverage(),
		NewMaxDepth(),
		NewMoves(),
		NewEscapes(),
		NewMerges(),
	}
}
