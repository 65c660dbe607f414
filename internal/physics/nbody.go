package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// minChunk is the smallest slice of particles worth a goroutine.
const minChunk = 64

// Gravity applies softened Newtonian attraction between every pair of live
// particles in a Set.
type Gravity struct {
	G         float64
	Softening float64
}

func NewGravity(g, softening float64) *Gravity {
	return &Gravity{G: g, Softening: softening}
}

// accelerations returns the acceleration of each particle in ids, in order.
func (g *Gravity) accelerations(s *Set, ids []int) []mgl64.Vec3 {
	acc := make([]mgl64.Vec3, len(ids))
	eps2 := g.Softening * g.Softening

	parallelFor(len(ids), minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			pi := s.particles[ids[i]].Position
			var a mgl64.Vec3
			for j, id := range ids {
				if j == i {
					continue
				}
				pj := s.particles[id]
				r := pj.Position.Sub(pi)
				r2 := r.Dot(r) + eps2
				if r2 == 0 {
					continue
				}
				rInv := 1 / math.Sqrt(r2)
				a = a.Add(r.Mul(g.G * pj.Mass * rInv * rInv * rInv))
			}
			acc[i] = a
		}
	})
	return acc
}

// Attract updates the velocity of every live particle from the pull of all
// others over dt. Positions are not touched.
func (g *Gravity) Attract(s *Set, dt float64) {
	ids := s.liveIndices()
	acc := g.accelerations(s, ids)
	for i, id := range ids {
		p := &s.particles[id]
		p.Velocity = p.Velocity.Add(acc[i].Mul(dt))
	}
}

// Energy returns the kinetic plus softened potential energy of the set.
func (g *Gravity) Energy(s *Set) float64 {
	ids := s.liveIndices()
	eps2 := g.Softening * g.Softening
	ke, pe := 0.0, 0.0

	for i, a := range ids {
		pa := s.particles[a]
		ke += pa.KineticEnergy()
		for _, b := range ids[i+1:] {
			pb := s.particles[b]
			r := pb.Position.Sub(pa.Position)
			d := math.Sqrt(r.Dot(r) + eps2)
			if d == 0 {
				continue
			}
			pe -= g.G * pa.Mass * pb.Mass / d
		}
	}
	return ke + pe
}
