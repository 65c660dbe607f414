package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/octree"
)

// Set is an arena of particles. Ids are slice indices; they are never
// reused, and a merged-away particle stays in place as a tombstone.
type Set struct {
	particles []Particle
	alive     []bool
	live      int
}

var _ octree.Particles = (*Set)(nil)

func NewSet(ps ...Particle) (*Set, error) {
	s := &Set{
		particles: make([]Particle, 0, len(ps)),
		alive:     make([]bool, 0, len(ps)),
	}
	for _, p := range ps {
		if _, err := s.Add(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends a particle and returns its id.
func (s *Set) Add(p Particle) (octree.ID, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}
	s.particles = append(s.particles, p)
	s.alive = append(s.alive, true)
	s.live++
	return octree.ID(len(s.particles) - 1), nil
}

func (s *Set) Position(id octree.ID) mgl64.Vec3 { return s.particles[id].Position }
func (s *Set) Mass(id octree.ID) float64        { return s.particles[id].Mass }

// Len returns the number of live particles.
func (s *Set) Len() int { return s.live }

// Cap returns the number of ids ever allocated.
func (s *Set) Cap() int { return len(s.particles) }

func (s *Set) Alive(id octree.ID) bool {
	return id >= 0 && int(id) < len(s.alive) && s.alive[id]
}

// Get returns a copy of a live particle.
func (s *Set) Get(id octree.ID) (Particle, error) {
	if !s.Alive(id) {
		return Particle{}, fmt.Errorf("%w: %d", ErrUnknownParticle, id)
	}
	return s.particles[id], nil
}

// Replace overwrites a live particle.
func (s *Set) Replace(id octree.ID, p Particle) error {
	if !s.Alive(id) {
		return fmt.Errorf("%w: %d", ErrUnknownParticle, id)
	}
	if err := p.validate(); err != nil {
		return err
	}
	s.particles[id] = p
	return nil
}

// Kill tombstones a particle.
func (s *Set) Kill(id octree.ID) error {
	if !s.Alive(id) {
		return fmt.Errorf("%w: %d", ErrUnknownParticle, id)
	}
	s.alive[id] = false
	s.live--
	return nil
}

// IDs returns the live ids in ascending order.
func (s *Set) IDs() []octree.ID {
	ids := make([]octree.ID, 0, s.live)
	for i, ok := range s.alive {
		if ok {
			ids = append(ids, octree.ID(i))
		}
	}
	return ids
}

// Step integrates the position of every live particle.
func (s *Set) Step(dt float64) {
	for i := range s.particles {
		if s.alive[i] {
			s.particles[i].Step(dt)
		}
	}
}

func (s *Set) TotalMass() float64 {
	m := 0.0
	for i, p := range s.particles {
		if s.alive[i] {
			m += p.Mass
		}
	}
	return m
}

func (s *Set) Momentum() mgl64.Vec3 {
	var sum mgl64.Vec3
	for i, p := range s.particles {
		if s.alive[i] {
			sum = sum.Add(p.Momentum())
		}
	}
	return sum
}

// CenterOfMass returns the mass-weighted mean position of the live
// particles, or the origin for an empty set.
func (s *Set) CenterOfMass() mgl64.Vec3 {
	var sum mgl64.Vec3
	m := 0.0
	for i, p := range s.particles {
		if s.alive[i] {
			sum = sum.Add(p.Position.Mul(p.Mass))
			m += p.Mass
		}
	}
	if m == 0 {
		return mgl64.Vec3{}
	}
	return sum.Mul(1 / m)
}

func (s *Set) liveIndices() []int {
	idx := make([]int, 0, s.live)
	for i, ok := range s.alive {
		if ok {
			idx = append(idx, i)
		}
	}
	return idx
}
