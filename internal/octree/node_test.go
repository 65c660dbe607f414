package octree

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func newSpace(t table) *space {
	return &space{particles: t, maxDepth: DefaultMaxDepth}
}

func childContaining(n *Node, id ID) *Node {
	for _, c := range n.Children() {
		if c.Contains(id) {
			return c
		}
	}
	return nil
}

var _ = Describe("Node", func() {
	cube := Cube(100)

	Describe("construction", func() {
		It("fails on an empty particle collection", func() {
			_, err := newNode(newSpace(nil), nil, cube, 0)
			Expect(err).To(MatchError(ErrEmpty))
			Expect(err).To(MatchError(ErrInvalidArgument))
		})

		It("makes a leaf from a single particle", func() {
			bodies := table{{pos: vec(12.5, -3, 7), mass: 4.5}}
			n, err := newNode(newSpace(bodies), bodies.ids(), cube, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(n.IsLeaf()).To(BeTrue())
			Expect(n.Mass()).To(Equal(4.5))
			Expect(n.CenterOfMass()).To(Equal(vec(12.5, -3, 7)))
			Expect(n.Particles()).To(Equal([]ID{0}))
		})

		It("splits two particles at opposite corners into two leaves", func() {
			bodies := table{
				{pos: vec(-99, -99, -99), mass: 1},
				{pos: vec(99, 99, 99), mass: 3},
			}
			n, err := newNode(newSpace(bodies), bodies.ids(), cube, 0)
			Expect(err).NotTo(HaveOccurred())

			children := n.Children()
			Expect(children).To(HaveLen(2))
			for _, c := range children {
				Expect(c.IsLeaf()).To(BeTrue())
				Expect(c.Depth()).To(Equal(1))
			}
			Expect(children[0].Mass() + children[1].Mass()).To(Equal(4.0))
			Expect(n.Mass()).To(Equal(4.0))
			Expect(n.CenterOfMass().ApproxEqual(vec(49.5, 49.5, 49.5))).To(BeTrue())
		})

		It("groups close particles under one octant", func() {
			bodies := unitBodies(vec(-50, -50, -50), vec(50, 50, 50), vec(49, 49, 49))
			n, err := newNode(newSpace(bodies), bodies.ids(), cube, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(n.Mass()).To(Equal(3.0))
			Expect(n.Children()).To(HaveLen(2))

			lonely := childContaining(n, 0)
			Expect(lonely.IsLeaf()).To(BeTrue())
			Expect(lonely.Len()).To(Equal(1))

			pair := childContaining(n, 1)
			Expect(pair).To(BeIdenticalTo(childContaining(n, 2)))
			Expect(pair.IsLeaf()).To(BeFalse())
			Expect(pair.Mass()).To(Equal(2.0))
			Expect(pair.CenterOfMass().ApproxEqual(vec(49.5, 49.5, 49.5))).To(BeTrue())
			Expect(pair.Children()).To(HaveLen(2))
		})

		It("refuses to build children for fewer than two particles", func() {
			bodies := unitBodies(vec(1, 1, 1))
			_, err := buildChildren(newSpace(bodies), bodies.ids(), cube, 0)
			Expect(err).To(MatchError(ErrTooFewParticles))
		})

		It("stops subdividing coincident particles at the depth limit", func() {
			bodies := unitBodies(vec(10, 10, 10), vec(10, 10, 10))
			sp := newSpace(bodies)
			sp.maxDepth = 6
			_, err := newNode(sp, bodies.ids(), cube, 0)
			Expect(err).To(MatchError(ErrMaxDepth))
			Expect(errors.Is(err, ErrInvalidArgument)).To(BeFalse())

			var depthErr *DepthError
			Expect(errors.As(err, &depthErr)).To(BeTrue())
			Expect(depthErr.Depth).To(Equal(6))
		})
	})

	Describe("aggregation helpers", func() {
		It("sums masses and weights centers", func() {
			nodes := []*Node{
				{mass: 1, centerOfMass: vec(0, 0, 0)},
				{mass: 3, centerOfMass: vec(4, 8, -4)},
			}
			Expect(computeMass(nodes)).To(Equal(4.0))
			Expect(computeCenterOfMass(nodes)).To(Equal(vec(3, 6, -3)))
		})

		It("returns the origin for massless nodes", func() {
			Expect(computeCenterOfMass([]*Node{{centerOfMass: vec(5, 5, 5)}})).To(Equal(vec(0, 0, 0)))
		})
	})

	Describe("addParticle", func() {
		var (
			bodies table
			n      *Node
		)

		BeforeEach(func() {
			bodies = unitBodies(vec(-50, -50, -50), vec(50, 50, 50), vec(60, -60, 10), vec(150, 0, 0))
			var err error
			n, err = newNode(newSpace(bodies), []ID{0, 1}, cube, 0)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects particles outside the domain", func() {
			Expect(n.addParticle(3)).To(MatchError(ErrOutsideDomain))
			Expect(n.Contains(3)).To(BeFalse())
		})

		It("rejects particles it already holds and keeps its aggregates", func() {
			mass, com := n.Mass(), n.CenterOfMass()
			Expect(n.addParticle(1)).To(MatchError(ErrDuplicate))
			n.refresh()
			Expect(n.Mass()).To(Equal(mass))
			Expect(n.CenterOfMass()).To(Equal(com))
			Expect(n.Len()).To(Equal(2))
		})

		It("creates a new leaf child for an unoccupied octant", func() {
			Expect(n.addParticle(2)).To(Succeed())
			n.refresh()
			Expect(n.Children()).To(HaveLen(3))
			leaf := childContaining(n, 2)
			Expect(leaf.IsLeaf()).To(BeTrue())
			sub, _ := cube.SubDomain(cube.OctantIndex(bodies[2].pos))
			Expect(leaf.Domain()).To(Equal(sub))
			Expect(n.Mass()).To(Equal(3.0))
		})

		It("turns a leaf into an internal node", func() {
			bodies[2].pos = vec(40, 40, 40)
			leaf := childContaining(n, 1)
			Expect(n.addParticle(2)).To(Succeed())
			n.refresh()
			Expect(leaf.IsLeaf()).To(BeFalse())
			Expect(leaf.Len()).To(Equal(2))
			Expect(leaf.Mass()).To(Equal(2.0))
			Expect(n.Len()).To(Equal(3))
		})

		It("lets an emptied leaf adopt a particle", func() {
			leaf := childContaining(n, 1)
			Expect(n.removeParticle(1)).To(Succeed())
			n.refresh()
			Expect(leaf.Len()).To(Equal(0))
			Expect(leaf.Mass()).To(Equal(0.0))

			bodies[2].pos = vec(10, 10, 10)
			Expect(n.addParticle(2)).To(Succeed())
			n.refresh()
			Expect(leaf.IsLeaf()).To(BeTrue())
			Expect(leaf.Particles()).To(Equal([]ID{2}))
			Expect(leaf.CenterOfMass()).To(Equal(vec(10, 10, 10)))
		})

		It("rolls back when the depth limit is hit", func() {
			n.sp.maxDepth = 4
			bodies[2].pos = bodies[1].pos
			Expect(n.addParticle(2)).To(MatchError(ErrMaxDepth))
			Expect(n.Contains(2)).To(BeFalse())
			Expect(childContaining(n, 1).IsLeaf()).To(BeTrue())
			Expect(n.Len()).To(Equal(2))
		})
	})

	Describe("removeParticle", func() {
		It("fails for particles it does not hold", func() {
			bodies := unitBodies(vec(1, 1, 1), vec(-1, -1, -1), vec(5, 5, 5))
			n, _ := newNode(newSpace(bodies), []ID{0, 1}, cube, 0)
			Expect(n.removeParticle(2)).To(MatchError(ErrNotFound))
			Expect(n.Len()).To(Equal(2))
		})

		It("removes from every node on the path without demoting", func() {
			bodies := unitBodies(vec(-50, -50, -50), vec(50, 50, 50), vec(49, 49, 49))
			n, _ := newNode(newSpace(bodies), bodies.ids(), cube, 0)
			pair := childContaining(n, 1)

			Expect(n.removeParticle(2)).To(Succeed())
			n.refresh()
			Expect(n.Contains(2)).To(BeFalse())
			Expect(pair.Contains(2)).To(BeFalse())
			Expect(pair.IsLeaf()).To(BeFalse())
			Expect(pair.Len()).To(Equal(1))
			Expect(pair.Mass()).To(Equal(1.0))
			Expect(n.Mass()).To(Equal(2.0))
		})
	})

	Describe("updateNodeValues", func() {
		It("recomputes aggregates from moved and reweighted particles", func() {
			bodies := unitBodies(vec(-50, -50, -50), vec(50, 50, 50))
			n, _ := newNode(newSpace(bodies), bodies.ids(), cube, 0)
			bodies[0].pos = vec(-40, -40, -40)
			bodies[1].mass = 3
			n.updateNodeValues()
			Expect(n.Mass()).To(Equal(4.0))
			Expect(n.CenterOfMass().ApproxEqual(vec(27.5, 27.5, 27.5))).To(BeTrue())
		})
	})

	Describe("rebalanceNode", func() {
		It("requires the history to end in the node", func() {
			bodies := unitBodies(vec(-50, -50, -50), vec(50, 50, 50))
			n, _ := newNode(newSpace(bodies), bodies.ids(), cube, 0)
			var report RebalanceReport
			Expect(n.rebalanceNode(nil, &report)).To(MatchError(ErrHistory))
			Expect(n.rebalanceNode([]*Node{n.Children()[0]}, &report)).To(MatchError(ErrInvalidArgument))
			Expect(n.rebalanceNode([]*Node{n}, &report)).To(Succeed())
		})
	})
})
