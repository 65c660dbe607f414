package physics

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/octree"
)

// Merger records that Absorbed was folded into Survivor.
type Merger struct {
	Survivor octree.ID
	Absorbed octree.ID
}

// Collide merges overlapping live particles until none overlap. Particles
// are scanned in id order; the scanned particle survives each merge and is
// checked again against the rest after it grows. Absorbed particles are
// tombstoned in s.
func Collide(s *Set, density float64) ([]Merger, error) {
	if !(density > 0) {
		return nil, fmt.Errorf("%w: %v", ErrDensity, density)
	}

	var merged []Merger
	ids := s.liveIndices()
	for _, i := range ids {
		for grew := true; grew && s.alive[i]; {
			grew = false
			for _, j := range ids {
				if j == i || !s.alive[j] {
					continue
				}
				if !Overlaps(s.particles[i], s.particles[j], density) {
					continue
				}
				s.particles[i] = Merge(s.particles[i], s.particles[j])
				s.alive[j] = false
				s.live--
				merged = append(merged, Merger{Survivor: octree.ID(i), Absorbed: octree.ID(j)})
				grew = true
				break
			}
		}
	}
	return merged, nil
}
