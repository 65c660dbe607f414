package octree

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultMaxDepth bounds subdivision. Halving a domain 48 times leaves cells
// far below any separation the simulation resolves.
const DefaultMaxDepth = 48

// Option configures an Octree.
type Option func(*space)

// WithMaxDepth sets the deepest level a node may be created at. Values below
// one are ignored.
func WithMaxDepth(depth int) Option {
	return func(sp *space) {
		if depth > 0 {
			sp.maxDepth = depth
		}
	}
}

// RebalanceReport lists what a rebalance pass did.
type RebalanceReport struct {
	// Moved particles were re-inserted under a new leaf.
	Moved []ID
	// Escaped particles left the root domain and are no longer in the tree.
	Escaped []ID
	// Dropped particles could not be re-inserted without exceeding the
	// maximum depth and are no longer in the tree.
	Dropped []ID
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Nodes    int
	Leaves   int
	Empty    int
	MaxDepth int
}

// Octree owns the root node of a tree over a particle collection.
type Octree struct {
	sp   *space
	root *Node
}

// New builds a tree over ids inside domain. Every particle must lie in the
// domain and appear once.
func New(ps Particles, ids []ID, domain Domain, opts ...Option) (*Octree, error) {
	if len(ids) == 0 {
		return nil, ErrEmpty
	}

	sp := &space{particles: ps, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(sp)
	}

	seen := make(idSet, len(ids))
	for _, id := range ids {
		if seen.has(id) {
			return nil, fmt.Errorf("%w: particle %d", ErrDuplicate, id)
		}
		seen.add(id)
		if pos := ps.Position(id); !domain.Contains(pos) {
			return nil, fmt.Errorf("%w: particle %d at %v, domain %v", ErrOutsideDomain, id, pos, domain)
		}
	}

	root, err := newNode(sp, ids, domain, 0)
	if err != nil {
		return nil, err
	}
	return &Octree{sp: sp, root: root}, nil
}

func (t *Octree) Domain() Domain           { return t.root.domain }
func (t *Octree) Root() *Node              { return t.root }
func (t *Octree) Len() int                 { return t.root.Len() }
func (t *Octree) Mass() float64            { return t.root.mass }
func (t *Octree) CenterOfMass() mgl64.Vec3 { return t.root.centerOfMass }
func (t *Octree) Contains(id ID) bool      { return t.root.Contains(id) }
func (t *Octree) MaxDepth() int            { return t.sp.maxDepth }

// Insert adds a particle and refreshes the aggregates on its path.
func (t *Octree) Insert(id ID) error {
	if err := t.root.addParticle(id); err != nil {
		return err
	}
	t.root.refresh()
	return nil
}

// Remove drops a particle and refreshes the aggregates on its path.
func (t *Octree) Remove(id ID) error {
	if err := t.root.removeParticle(id); err != nil {
		return err
	}
	t.root.refresh()
	return nil
}

// Rebalance re-homes every particle whose position left its leaf's domain,
// then recomputes all aggregates from the current particle state. It is
// meant to run once per simulation step, after positions are integrated.
func (t *Octree) Rebalance() (RebalanceReport, error) {
	var report RebalanceReport
	if err := t.root.rebalanceNode([]*Node{t.root}, &report); err != nil {
		return report, err
	}
	t.root.updateNodeValues()
	return report, nil
}

// Update recomputes every aggregate from the current particle state without
// moving anything, e.g. after masses change.
func (t *Octree) Update() {
	t.root.updateNodeValues()
}

// Walk visits nodes in pre-order until fn returns false.
func (t *Octree) Walk(fn func(*Node) bool) {
	walk(t.root, fn)
}

func walk(n *Node, fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.children {
		if !walk(child, fn) {
			return false
		}
	}
	return true
}

// Leaves returns every leaf that holds a particle.
func (t *Octree) Leaves() []*Node {
	var leaves []*Node
	t.Walk(func(n *Node) bool {
		if n.IsLeaf() && n.Len() == 1 {
			leaves = append(leaves, n)
		}
		return true
	})
	return leaves
}

func (t *Octree) Stats() Stats {
	var s Stats
	t.Walk(func(n *Node) bool {
		s.Nodes++
		if n.IsLeaf() {
			s.Leaves++
			if n.Len() == 0 {
				s.Empty++
			}
		}
		if n.depth > s.MaxDepth {
			s.MaxDepth = n.depth
		}
		return true
	})
	return s
}

// aggregateTolerance is the relative error allowed between a stored aggregate
// and one recomputed by Check.
const aggregateTolerance = 1e-9

// Check verifies the structural invariants: every node holds exactly the
// union of its children's particles, children nest inside their parent, and
// every leaf particle lies in its leaf's domain. It also verifies that each
// node's mass and center of mass match its payload or its children, so it is
// only meaningful after Rebalance or Update has seen the latest positions.
func (t *Octree) Check() error {
	return check(t.root)
}

func check(n *Node) error {
	if n.IsLeaf() {
		if n.Len() > 1 {
			return fmt.Errorf("leaf at depth %d holds %d particles", n.depth, n.Len())
		}
		if n.Len() == 1 {
			id := n.particles.one()
			pos := n.sp.particles.Position(id)
			if !n.domain.Contains(pos) {
				return fmt.Errorf("particle %d at %v outside leaf domain %v", id, pos, n.domain)
			}
			return checkAggregates(n, n.sp.particles.Mass(id), pos)
		}
		return checkAggregates(n, 0, mgl64.Vec3{})
	}

	count := 0
	for _, child := range n.children {
		if child.depth != n.depth+1 {
			return fmt.Errorf("child depth %d under depth %d", child.depth, n.depth)
		}
		if !n.domain.Contains(child.domain.Mid()) {
			return fmt.Errorf("child domain %v outside %v", child.domain, n.domain)
		}
		for id := range child.particles {
			if !n.particles.has(id) {
				return fmt.Errorf("particle %d in child but not in parent at depth %d", id, n.depth)
			}
		}
		count += child.Len()
		if err := check(child); err != nil {
			return err
		}
	}
	if count != n.Len() {
		return fmt.Errorf("node at depth %d holds %d particles, children hold %d", n.depth, n.Len(), count)
	}
	return checkAggregates(n, computeMass(n.children), computeCenterOfMass(n.children))
}

func checkAggregates(n *Node, mass float64, com mgl64.Vec3) error {
	if !near(n.mass, mass) {
		return fmt.Errorf("node at depth %d has mass %g, expected %g", n.depth, n.mass, mass)
	}
	for i := range com {
		if !near(n.centerOfMass[i], com[i]) {
			return fmt.Errorf("node at depth %d has center of mass %v, expected %v", n.depth, n.centerOfMass, com)
		}
	}
	return nil
}

// near compares relative to the larger magnitude, or absolutely below one.
func near(a, b float64) bool {
	return math.Abs(a-b) <= aggregateTolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
