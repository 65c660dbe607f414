package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Particle is a point mass.
type Particle struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Mass     float64
}

func (p Particle) validate() error {
	if !(p.Mass > 0) || math.IsInf(p.Mass, 0) {
		return fmt.Errorf("%w: %v", ErrMass, p.Mass)
	}
	return nil
}

func (p Particle) Momentum() mgl64.Vec3 { return p.Velocity.Mul(p.Mass) }

func (p Particle) KineticEnergy() float64 {
	return 0.5 * p.Mass * p.Velocity.Dot(p.Velocity)
}

// Step advances the position by one explicit Euler step.
func (p *Particle) Step(dt float64) {
	p.Position = p.Position.Add(p.Velocity.Mul(dt))
}

// Radius returns the radius of a sphere of the given mass and density.
func Radius(mass, density float64) float64 {
	return math.Cbrt(3 * mass / (4 * math.Pi * density))
}

// Overlaps reports whether two particles of the given density touch. Spheres
// that meet at exactly their combined radius count as touching.
func Overlaps(a, b Particle, density float64) bool {
	reach := Radius(a.Mass, density) + Radius(b.Mass, density)
	d := b.Position.Sub(a.Position)
	return d.Dot(d) <= reach*reach
}

// Merge combines two particles into one that carries their total mass,
// their total momentum, and sits at their center of mass.
func Merge(a, b Particle) Particle {
	m := a.Mass + b.Mass
	return Particle{
		Position: a.Position.Mul(a.Mass).Add(b.Position.Mul(b.Mass)).Mul(1 / m),
		Velocity: a.Momentum().Add(b.Momentum()).Mul(1 / m),
		Mass:     m,
	}
}
