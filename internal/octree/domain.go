package octree

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// NumOctants is the number of children a node can have.
const NumOctants = 8

// Domain is an axis-aligned box. Membership is half-open on every axis:
// min <= p < max.
type Domain struct {
	min, max mgl64.Vec3
}

// NewDomain builds the box spanned by two corners given in any order.
func NewDomain(a, b mgl64.Vec3) Domain {
	return Domain{
		min: mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])},
		max: mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])},
	}
}

// Cube returns the domain [-halfWidth, halfWidth) on every axis.
func Cube(halfWidth float64) Domain {
	return NewDomain(
		mgl64.Vec3{-halfWidth, -halfWidth, -halfWidth},
		mgl64.Vec3{halfWidth, halfWidth, halfWidth},
	)
}

func (d Domain) Min() mgl64.Vec3  { return d.min }
func (d Domain) Max() mgl64.Vec3  { return d.max }
func (d Domain) Size() mgl64.Vec3 { return d.max.Sub(d.min) }

// Mid returns min + (max-min)/2, the split point for octants.
func (d Domain) Mid() mgl64.Vec3 {
	return d.min.Add(d.max.Sub(d.min).Mul(0.5))
}

// Contains reports whether pos lies in the half-open box.
func (d Domain) Contains(pos mgl64.Vec3) bool {
	inX := pos[0] >= d.min[0] && pos[0] < d.max[0]
	inY := pos[1] >= d.min[1] && pos[1] < d.max[1]
	inZ := pos[2] >= d.min[2] && pos[2] < d.max[2]
	return inX && inY && inZ
}

// OctantIndex classifies pos against the midpoint, z first, then y, then x.
// A coordinate equal to the midpoint belongs to the high side. The result is
// unspecified when pos is outside the domain.
func (d Domain) OctantIndex(pos mgl64.Vec3) int {
	mid := d.Mid()
	if pos[2] >= mid[2] {
		if pos[1] >= mid[1] {
			if pos[0] >= mid[0] {
				return 0
			}
			return 1
		}
		if pos[0] >= mid[0] {
			return 2
		}
		return 3
	}
	if pos[1] >= mid[1] {
		if pos[0] >= mid[0] {
			return 4
		}
		return 5
	}
	if pos[0] >= mid[0] {
		return 6
	}
	return 7
}

// SubDomain returns the box between the midpoint and the outer corner of the
// given octant. It inverts OctantIndex.
func (d Domain) SubDomain(index int) (Domain, error) {
	if index < 0 || index >= NumOctants {
		return Domain{}, fmt.Errorf("%w: %d", ErrOctantIndex, index)
	}
	return NewDomain(d.Mid(), d.outerCorner(index)), nil
}

func (d Domain) outerCorner(index int) mgl64.Vec3 {
	lo, hi := d.min, d.max
	switch index {
	case 0:
		return hi
	case 1:
		return mgl64.Vec3{lo[0], hi[1], hi[2]}
	case 2:
		return mgl64.Vec3{hi[0], lo[1], hi[2]}
	case 3:
		return mgl64.Vec3{lo[0], lo[1], hi[2]}
	case 4:
		return mgl64.Vec3{hi[0], hi[1], lo[2]}
	case 5:
		return mgl64.Vec3{lo[0], hi[1], lo[2]}
	case 6:
		return mgl64.Vec3{hi[0], lo[1], lo[2]}
	default:
		return lo
	}
}

// Corners returns the eight corners of the box, indexed like octants.
func (d Domain) Corners() [NumOctants]mgl64.Vec3 {
	var c [NumOctants]mgl64.Vec3
	for i := range c {
		c[i] = d.outerCorner(i)
	}
	return c
}

func (d Domain) String() string {
	return fmt.Sprintf("[(%g, %g, %g), (%g, %g, %g))",
		d.min[0], d.min[1], d.min[2], d.max[0], d.max[1], d.max[2])
}
