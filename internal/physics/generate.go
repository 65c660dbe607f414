package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/rand"
)

// Spawn describes a random initial cloud of equal-mass particles.
type Spawn struct {
	Count    int
	Extent   float64
	MaxSpeed float64
	Mass     float64
	Seed     uint64
}

// DefaultSpawn matches a 200-particle cloud at rest-ish in a 200-wide cube.
func DefaultSpawn() Spawn {
	return Spawn{Count: 200, Extent: 100, MaxSpeed: 0.2, Mass: 1, Seed: 42}
}

// Generate draws positions uniformly from [-Extent, Extent) and velocities
// from [-MaxSpeed, MaxSpeed) on each axis. The same seed yields the same set.
func Generate(sp Spawn) (*Set, error) {
	if sp.Count < 0 {
		return nil, fmt.Errorf("particle count must not be negative, got %d", sp.Count)
	}
	if sp.Extent <= 0 {
		return nil, fmt.Errorf("spawn extent must be positive, got %f", sp.Extent)
	}
	if sp.MaxSpeed < 0 {
		return nil, fmt.Errorf("max speed must not be negative, got %f", sp.MaxSpeed)
	}

	rng := rand.New(rand.NewSource(sp.Seed))
	uniform := func(scale float64) mgl64.Vec3 {
		return mgl64.Vec3{
			(rng.Float64()*2 - 1) * scale,
			(rng.Float64()*2 - 1) * scale,
			(rng.Float64()*2 - 1) * scale,
		}
	}

	s := &Set{
		particles: make([]Particle, 0, sp.Count),
		alive:     make([]bool, 0, sp.Count),
	}
	for i := 0; i < sp.Count; i++ {
		p := Particle{Position: uniform(sp.Extent), Velocity: uniform(sp.MaxSpeed), Mass: sp.Mass}
		if _, err := s.Add(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}
