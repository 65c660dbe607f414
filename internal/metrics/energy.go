package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/sim"
)

// EnergyDrift tracks the largest relative change of total energy from the
// first observed frame.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f sim.Frame) {
	if e.samples == 0 {
		e.initialEnergy = f.Energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(f.Energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift tracks the largest change in total momentum magnitude from
// the first observed frame. Merges and attraction both conserve momentum, so
// anything above rounding noise points at a bug.
type MomentumDrift struct {
	name     string
	initial  mgl64.Vec3
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(f sim.Frame) {
	if m.samples == 0 {
		m.initial = f.Momentum
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, f.Momentum.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = mgl64.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}
