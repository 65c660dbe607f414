package octree

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Domain", func() {
	var d Domain

	BeforeEach(func() {
		d = NewDomain(vec(-100, -100, -100), vec(100, 100, 100))
	})

	It("normalizes corner order per axis", func() {
		n := NewDomain(vec(10, -5, 3), vec(-10, 5, -3))
		Expect(n.Min()).To(Equal(vec(-10, -5, -3)))
		Expect(n.Max()).To(Equal(vec(10, 5, 3)))
		Expect(n.Size()).To(Equal(vec(20, 10, 6)))
		Expect(n.Mid()).To(Equal(vec(0, 0, 0)))
	})

	It("uses half-open membership", func() {
		Expect(d.Contains(vec(-100, -100, -100))).To(BeTrue())
		Expect(d.Contains(vec(0, 0, 0))).To(BeTrue())
		Expect(d.Contains(vec(100, 0, 0))).To(BeFalse())
		Expect(d.Contains(vec(0, 100, 0))).To(BeFalse())
		Expect(d.Contains(vec(0, 0, 100))).To(BeFalse())
		Expect(d.Contains(vec(99.999, 99.999, 99.999))).To(BeTrue())
		Expect(d.Contains(vec(-100.001, 0, 0))).To(BeFalse())
	})

	DescribeTable("octant index",
		func(pos mgl64.Vec3, want int) {
			Expect(d.OctantIndex(pos)).To(Equal(want))
		},
		Entry("z+ y+ x+", vec(50, 50, 50), 0),
		Entry("z+ y+ x-", vec(-50, 50, 50), 1),
		Entry("z+ y- x+", vec(50, -50, 50), 2),
		Entry("z+ y- x-", vec(-50, -50, 50), 3),
		Entry("z- y+ x+", vec(50, 50, -50), 4),
		Entry("z- y+ x-", vec(-50, 50, -50), 5),
		Entry("z- y- x+", vec(50, -50, -50), 6),
		Entry("z- y- x-", vec(-50, -50, -50), 7),
		Entry("midpoint goes high", vec(0, 0, 0), 0),
	)

	DescribeTable("octant sub-domain corners",
		func(index int, min, max mgl64.Vec3) {
			sub, err := d.SubDomain(index)
			Expect(err).NotTo(HaveOccurred())
			Expect(sub.Min()).To(Equal(min))
			Expect(sub.Max()).To(Equal(max))
		},
		Entry("0", 0, vec(0, 0, 0), vec(100, 100, 100)),
		Entry("1", 1, vec(-100, 0, 0), vec(0, 100, 100)),
		Entry("2", 2, vec(0, -100, 0), vec(100, 0, 100)),
		Entry("3", 3, vec(-100, -100, 0), vec(0, 0, 100)),
		Entry("4", 4, vec(0, 0, -100), vec(100, 100, 0)),
		Entry("5", 5, vec(-100, 0, -100), vec(0, 100, 0)),
		Entry("6", 6, vec(0, -100, -100), vec(100, 0, 0)),
		Entry("7", 7, vec(-100, -100, -100), vec(0, 0, 0)),
	)

	It("rejects octant indices outside 0-7", func() {
		for _, index := range []int{-1, 8} {
			_, err := d.SubDomain(index)
			Expect(err).To(MatchError(ErrOctantIndex))
			Expect(err).To(MatchError(ErrInvalidArgument))
		}
	})

	It("inverts the octant index for positions inside the domain", func() {
		for x := -100.0; x < 100; x += 13.7 {
			for y := -100.0; y < 100; y += 17.3 {
				for z := -100.0; z < 100; z += 19.1 {
					p := vec(x, y, z)
					sub, err := d.SubDomain(d.OctantIndex(p))
					Expect(err).NotTo(HaveOccurred())
					Expect(sub.Contains(p)).To(BeTrue(), "position %v", p)
				}
			}
		}
	})

	Context("at the midpoint boundary", func() {
		It("puts an exact midpoint coordinate in the high octant", func() {
			p := vec(0, 0, 0)
			sub, _ := d.SubDomain(d.OctantIndex(p))
			Expect(sub.Contains(p)).To(BeTrue())
			low, _ := d.SubDomain(7)
			Expect(low.Contains(p)).To(BeFalse())
		})

		It("puts a coordinate just below the midpoint in the low octant", func() {
			below := math.Nextafter(0, -1)
			p := vec(below, below, below)
			Expect(d.OctantIndex(p)).To(Equal(7))
			sub, _ := d.SubDomain(7)
			Expect(sub.Contains(p)).To(BeTrue())
			high, _ := d.SubDomain(0)
			Expect(high.Contains(p)).To(BeFalse())
		})
	})

	It("lists corners in octant order", func() {
		c := d.Corners()
		Expect(c[0]).To(Equal(d.Max()))
		Expect(c[7]).To(Equal(d.Min()))
		Expect(c[6]).To(Equal(vec(100, -100, -100)))
	})

	It("builds cubes around the origin", func() {
		Expect(Cube(100)).To(Equal(d))
	})
})
