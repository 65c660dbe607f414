package octree

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func scatter(rng *rand.Rand, n int, extent float64) table {
	bodies := make(table, n)
	for i := range bodies {
		bodies[i] = body{
			pos:  vec((rng.Float64()*2-1)*extent, (rng.Float64()*2-1)*extent, (rng.Float64()*2-1)*extent),
			mass: 0.5 + rng.Float64()*2,
		}
	}
	return bodies
}

func leafOf(t *Octree, id ID) *Node {
	var found *Node
	t.Walk(func(n *Node) bool {
		if n.IsLeaf() && n.Contains(id) {
			found = n
			return false
		}
		return true
	})
	return found
}

var _ = Describe("Octree", func() {
	cube := Cube(100)

	Describe("New", func() {
		It("fails without particles", func() {
			_, err := New(table{}, nil, cube)
			Expect(err).To(MatchError(ErrEmpty))
		})

		It("rejects repeated ids", func() {
			bodies := unitBodies(vec(1, 2, 3), vec(4, 5, 6))
			_, err := New(bodies, []ID{0, 1, 0}, cube)
			Expect(err).To(MatchError(ErrDuplicate))
		})

		It("rejects particles outside the domain", func() {
			bodies := unitBodies(vec(1, 2, 3), vec(400, 5, 6))
			_, err := New(bodies, bodies.ids(), cube)
			Expect(err).To(MatchError(ErrOutsideDomain))
		})

		It("builds a leaf root from one particle", func() {
			bodies := table{{pos: vec(-7, 8, 9), mass: 2}}
			tree, err := New(bodies, bodies.ids(), cube)
			Expect(err).NotTo(HaveOccurred())
			Expect(tree.Root().IsLeaf()).To(BeTrue())
			Expect(tree.Mass()).To(Equal(2.0))
			Expect(tree.CenterOfMass()).To(Equal(vec(-7, 8, 9)))
			Expect(tree.Domain()).To(Equal(cube))
		})

		It("fails on coincident particles instead of recursing forever", func() {
			bodies := unitBodies(vec(3, 3, 3), vec(3, 3, 3), vec(-3, -3, -3))
			_, err := New(bodies, bodies.ids(), cube, WithMaxDepth(10))
			Expect(err).To(MatchError(ErrMaxDepth))
		})

		It("ignores a non-positive depth limit", func() {
			bodies := unitBodies(vec(1, 1, 1))
			tree, err := New(bodies, bodies.ids(), cube, WithMaxDepth(0))
			Expect(err).NotTo(HaveOccurred())
			Expect(tree.MaxDepth()).To(Equal(DefaultMaxDepth))
		})
	})

	It("places the three-particle scenario", func() {
		bodies := unitBodies(vec(-50, -50, -50), vec(50, 50, 50), vec(49, 49, 49))
		tree, err := New(bodies, bodies.ids(), cube)
		Expect(err).NotTo(HaveOccurred())
		Expect(tree.Mass()).To(Equal(3.0))
		Expect(tree.Len()).To(Equal(3))

		root := tree.Root()
		Expect(childContaining(root, 1)).To(BeIdenticalTo(childContaining(root, 2)))
		Expect(childContaining(root, 0)).NotTo(BeIdenticalTo(childContaining(root, 1)))
		Expect(childContaining(root, 0).IsLeaf()).To(BeTrue())
		Expect(tree.Check()).To(Succeed())
	})

	Describe("mass conservation", func() {
		var (
			bodies table
			tree   *Octree
		)

		BeforeEach(func() {
			bodies = scatter(rand.New(rand.NewSource(7)), 300, 99)
			var err error
			tree, err = New(bodies, bodies.ids()[:250], cube)
			Expect(err).NotTo(HaveOccurred())
		})

		sumOf := func(ids []ID) float64 {
			s := 0.0
			for _, id := range ids {
				s += bodies[id].mass
			}
			return s
		}

		It("matches the sum of the input masses", func() {
			Expect(tree.Mass()).To(BeNumerically("~", sumOf(bodies.ids()[:250]), 1e-9))
			Expect(tree.Check()).To(Succeed())
		})

		It("holds across insertion and removal", func() {
			for id := ID(250); id < 300; id++ {
				Expect(tree.Insert(id)).To(Succeed())
			}
			Expect(tree.Mass()).To(BeNumerically("~", bodies.totalMass(), 1e-9))

			for id := ID(0); id < 300; id += 3 {
				Expect(tree.Remove(id)).To(Succeed())
			}
			var kept []ID
			for id := ID(0); id < 300; id++ {
				if id%3 != 0 {
					kept = append(kept, id)
				}
			}
			Expect(tree.Len()).To(Equal(len(kept)))
			Expect(tree.Mass()).To(BeNumerically("~", sumOf(kept), 1e-9))
			Expect(tree.Check()).To(Succeed())
		})

		It("leaves aggregates untouched on a duplicate insert", func() {
			mass, com := tree.Mass(), tree.CenterOfMass()
			Expect(tree.Insert(5)).To(MatchError(ErrDuplicate))
			Expect(tree.Mass()).To(Equal(mass))
			Expect(tree.CenterOfMass()).To(Equal(com))
		})

		It("fails to remove an absent particle", func() {
			Expect(tree.Remove(299)).To(MatchError(ErrNotFound))
			Expect(tree.Len()).To(Equal(250))
		})
	})

	Describe("Rebalance", func() {
		var (
			bodies table
			tree   *Octree
		)

		BeforeEach(func() {
			bodies = unitBodies(
				vec(-50, -50, -50),
				vec(50, 50, 50),
				vec(49, 49, 49),
				vec(-60, 70, 20),
				vec(30, -80, -10),
			)
			var err error
			tree, err = New(bodies, bodies.ids(), cube)
			Expect(err).NotTo(HaveOccurred())
		})

		It("does nothing when no particle left its leaf", func() {
			before := tree.Stats()
			report, err := tree.Rebalance()
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Moved).To(BeEmpty())
			Expect(report.Escaped).To(BeEmpty())
			Expect(tree.Stats()).To(Equal(before))
		})

		It("returns a displaced particle to a leaf that contains it", func() {
			Expect(leafOf(tree, 0).Domain().Contains(vec(80, -20, 60))).To(BeFalse())
			bodies[0].pos = vec(80, -20, 60)

			report, err := tree.Rebalance()
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Moved).To(Equal([]ID{0}))
			Expect(tree.Check()).To(Succeed())
			Expect(leafOf(tree, 0).Domain().Contains(bodies[0].pos)).To(BeTrue())
			Expect(tree.Len()).To(Equal(5))
			Expect(tree.Mass()).To(Equal(5.0))
		})

		It("re-homes under the nearest containing ancestor only", func() {
			// 2 leaves its leaf but stays inside the pair's octant
			bodies[2].pos = vec(20, 80, 30)
			pair := childContaining(tree.Root(), 1)
			Expect(pair.Domain().Contains(bodies[2].pos)).To(BeTrue())

			report, err := tree.Rebalance()
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Moved).To(Equal([]ID{2}))
			Expect(pair.Contains(2)).To(BeTrue())
			Expect(tree.Root().Len()).To(Equal(5))
			Expect(tree.Check()).To(Succeed())
		})

		It("keeps the center of mass current", func() {
			bodies[3].pos = vec(-60, 70, -20)
			_, err := tree.Rebalance()
			Expect(err).NotTo(HaveOccurred())

			var want mgl64.Vec3
			for _, b := range bodies {
				want = want.Add(b.pos)
			}
			Expect(tree.CenterOfMass().ApproxEqual(want.Mul(1.0 / 5))).To(BeTrue())
		})

		It("reports particles that left the root domain", func() {
			bodies[4].pos = vec(30, -180, -10)
			report, err := tree.Rebalance()
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Escaped).To(Equal([]ID{4}))
			Expect(tree.Contains(4)).To(BeFalse())
			Expect(tree.Len()).To(Equal(4))
			Expect(tree.Mass()).To(Equal(4.0))
			Expect(tree.Check()).To(Succeed())

			bodies[4].pos = vec(30, -80, -10)
			Expect(tree.Insert(4)).To(Succeed())
			Expect(tree.Len()).To(Equal(5))
			Expect(tree.Check()).To(Succeed())
		})

		It("drops a particle that cannot be separated from its new neighbour", func() {
			shallow, err := New(bodies, bodies.ids(), cube, WithMaxDepth(8))
			Expect(err).NotTo(HaveOccurred())
			bodies[0].pos = bodies[3].pos

			report, err := shallow.Rebalance()
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Dropped).To(Equal([]ID{0}))
			Expect(shallow.Contains(0)).To(BeFalse())
			Expect(shallow.Len()).To(Equal(4))
			Expect(shallow.Check()).To(Succeed())
		})

		It("keeps every leaf particle inside its leaf after random motion", func() {
			rng := rand.New(rand.NewSource(3))
			many := scatter(rng, 200, 90)
			big, err := New(many, many.ids(), cube)
			Expect(err).NotTo(HaveOccurred())
			inner := Cube(99)

			for step := 0; step < 20; step++ {
				for i := range many {
					jitter := vec(rng.NormFloat64()*4, rng.NormFloat64()*4, rng.NormFloat64()*4)
					if p := many[i].pos.Add(jitter); inner.Contains(p) {
						many[i].pos = p
					}
				}
				report, err := big.Rebalance()
				Expect(err).NotTo(HaveOccurred())
				Expect(report.Escaped).To(BeEmpty())
				Expect(big.Check()).To(Succeed())
				for _, leaf := range big.Leaves() {
					id := leaf.Particles()[0]
					Expect(leaf.Domain().Contains(many[id].pos)).To(BeTrue())
				}
			}
			Expect(big.Len()).To(Equal(200))
			Expect(big.Mass()).To(BeNumerically("~", many.totalMass(), 1e-9))
		})
	})

	Describe("Check", func() {
		var tree *Octree

		BeforeEach(func() {
			bodies := unitBodies(vec(-50, -50, -50), vec(50, 50, 50))
			var err error
			tree, err = New(bodies, bodies.ids(), cube)
			Expect(err).NotTo(HaveOccurred())
			Expect(tree.Check()).To(Succeed())
		})

		It("catches a stale root mass", func() {
			tree.root.mass = 999
			Expect(tree.Check()).To(MatchError(ContainSubstring("mass 999")))
		})

		It("catches a leaf center of mass that drifted from its particle", func() {
			leaf := leafOf(tree, 1)
			leaf.centerOfMass = vec(7, 7, 7)
			Expect(tree.Check()).To(MatchError(ContainSubstring("center of mass")))
		})

		It("catches an internal center of mass that disagrees with its children", func() {
			tree.root.centerOfMass = vec(1, 0, 0)
			Expect(tree.Check()).To(HaveOccurred())

			tree.Update()
			Expect(tree.Check()).To(Succeed())
		})

		It("catches a particle that moved without a rebalance", func() {
			bodies := unitBodies(vec(-50, -50, -50), vec(50, 50, 50), vec(49, 49, 49))
			moved, err := New(bodies, bodies.ids(), cube)
			Expect(err).NotTo(HaveOccurred())
			bodies[2].pos = vec(49, 49, 48)
			Expect(moved.Check()).To(HaveOccurred())

			_, err = moved.Rebalance()
			Expect(err).NotTo(HaveOccurred())
			Expect(moved.Check()).To(Succeed())
		})
	})

	Describe("Stats and Walk", func() {
		It("counts nodes, leaves and depth", func() {
			bodies := unitBodies(vec(-50, -50, -50), vec(50, 50, 50), vec(49, 49, 49))
			tree, _ := New(bodies, bodies.ids(), cube)
			s := tree.Stats()
			Expect(s.Nodes).To(Equal(5))
			Expect(s.Leaves).To(Equal(3))
			Expect(s.Empty).To(Equal(0))
			Expect(s.MaxDepth).To(Equal(2))
			Expect(tree.Leaves()).To(HaveLen(3))

			visited := 0
			tree.Walk(func(*Node) bool {
				visited++
				return visited < 2
			})
			Expect(visited).To(Equal(2))
		})
	})
})
