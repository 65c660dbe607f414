package octree

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// ID is the stable identifier of a particle in the caller's collection.
type ID int

// Particles resolves ids to the current state of their payload.
type Particles interface {
	Position(id ID) mgl64.Vec3
	Mass(id ID) float64
}

type idSet map[ID]struct{}

func newIDSet(ids []ID) idSet {
	s := make(idSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s idSet) has(id ID) bool {
	_, ok := s[id]
	return ok
}

func (s idSet) add(id ID)    { s[id] = struct{}{} }
func (s idSet) remove(id ID) { delete(s, id) }

func (s idSet) sorted() []ID {
	ids := make([]ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// one returns the member of a single-element set.
func (s idSet) one() ID {
	for id := range s {
		return id
	}
	return -1
}

// space is shared by every node of one tree.
type space struct {
	particles Particles
	maxDepth  int
}

// Node is either a leaf holding one particle or an internal node grouping the
// particles of up to eight children. Every node holds the ids of all
// particles anywhere in its subtree.
type Node struct {
	sp           *space
	mass         float64
	centerOfMass mgl64.Vec3
	domain       Domain
	depth        int
	particles    idSet
	children     []*Node
	dirty        bool
}

// newNode builds the subtree for ids inside domain.
func newNode(sp *space, ids []ID, domain Domain, depth int) (*Node, error) {
	if len(ids) == 0 {
		return nil, ErrEmpty
	}
	if len(ids) == 1 {
		return newLeaf(sp, ids[0], domain, depth), nil
	}

	children, err := buildChildren(sp, ids, domain, depth)
	if err != nil {
		return nil, err
	}
	return &Node{
		sp:           sp,
		mass:         computeMass(children),
		centerOfMass: computeCenterOfMass(children),
		domain:       domain,
		depth:        depth,
		particles:    newIDSet(ids),
		children:     children,
	}, nil
}

func newLeaf(sp *space, id ID, domain Domain, depth int) *Node {
	return &Node{
		sp:           sp,
		mass:         sp.particles.Mass(id),
		centerOfMass: sp.particles.Position(id),
		domain:       domain,
		depth:        depth,
		particles:    idSet{id: {}},
	}
}

// buildChildren partitions ids by octant and builds one child per non-empty
// octant. Single particles must go through newLeaf instead.
func buildChildren(sp *space, ids []ID, domain Domain, depth int) ([]*Node, error) {
	if len(ids) < 2 {
		return nil, ErrTooFewParticles
	}
	if depth+1 > sp.maxDepth {
		return nil, &DepthError{Depth: depth, Domain: domain}
	}

	var octants [NumOctants][]ID
	for _, id := range ids {
		i := domain.OctantIndex(sp.particles.Position(id))
		octants[i] = append(octants[i], id)
	}

	children := make([]*Node, 0, NumOctants)
	for i, bucket := range octants {
		if len(bucket) == 0 {
			continue
		}
		sub, err := domain.SubDomain(i)
		if err != nil {
			return nil, err
		}
		child, err := newNode(sp, bucket, sub, depth+1)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func computeMass(nodes []*Node) float64 {
	sum := 0.0
	for _, n := range nodes {
		sum += n.mass
	}
	return sum
}

// computeCenterOfMass returns the mass-weighted average of the nodes' centers.
// Nodes without mass yield the origin.
func computeCenterOfMass(nodes []*Node) mgl64.Vec3 {
	sumMass := 0.0
	var sumProduct mgl64.Vec3
	for _, n := range nodes {
		sumProduct = sumProduct.Add(n.centerOfMass.Mul(n.mass))
		sumMass += n.mass
	}
	if sumMass == 0 {
		return mgl64.Vec3{}
	}
	return sumProduct.Mul(1 / sumMass)
}

func (n *Node) Mass() float64            { return n.mass }
func (n *Node) CenterOfMass() mgl64.Vec3 { return n.centerOfMass }
func (n *Node) Domain() Domain           { return n.domain }
func (n *Node) Depth() int               { return n.depth }
func (n *Node) Len() int                 { return len(n.particles) }
func (n *Node) IsLeaf() bool             { return len(n.children) == 0 }
func (n *Node) Contains(id ID) bool      { return n.particles.has(id) }
func (n *Node) Particles() []ID          { return n.particles.sorted() }
func (n *Node) Children() []*Node        { return slices.Clone(n.children) }

// addParticle inserts id into this subtree. The node is left unchanged when
// an error is returned.
func (n *Node) addParticle(id ID) error {
	pos := n.sp.particles.Position(id)
	if !n.domain.Contains(pos) {
		return fmt.Errorf("%w: particle %d at %v, domain %v", ErrOutsideDomain, id, pos, n.domain)
	}
	if n.Contains(id) {
		return fmt.Errorf("%w: particle %d", ErrDuplicate, id)
	}

	n.particles.add(id)
	if err := n.place(id, pos); err != nil {
		n.particles.remove(id)
		return err
	}
	n.dirty = true
	return nil
}

// place finds the child that takes a particle already added to n.particles.
func (n *Node) place(id ID, pos mgl64.Vec3) error {
	if n.IsLeaf() {
		// a leaf emptied by removal adopts the particle
		if len(n.particles) == 1 {
			return nil
		}
		children, err := buildChildren(n.sp, n.particles.sorted(), n.domain, n.depth)
		if err != nil {
			return err
		}
		n.children = children
		return nil
	}

	for _, child := range n.children {
		if child.domain.Contains(pos) {
			return child.addParticle(id)
		}
	}

	if n.depth+1 > n.sp.maxDepth {
		return &DepthError{Depth: n.depth, Domain: n.domain}
	}
	sub, err := n.domain.SubDomain(n.domain.OctantIndex(pos))
	if err != nil {
		return err
	}
	n.children = append(n.children, newLeaf(n.sp, id, sub, n.depth+1))
	return nil
}

// removeParticle drops id from this subtree. Internal nodes are never turned
// back into leaves; an emptied leaf stays in place with zero mass.
func (n *Node) removeParticle(id ID) error {
	if !n.Contains(id) {
		return fmt.Errorf("%w: particle %d", ErrNotFound, id)
	}
	n.particles.remove(id)
	n.dirty = true
	for _, child := range n.children {
		if child.Contains(id) {
			return child.removeParticle(id)
		}
	}
	return nil
}

// recompute sets mass and center of mass from the children, or from the
// payload for a leaf.
func (n *Node) recompute() {
	switch {
	case len(n.children) > 0:
		n.mass = computeMass(n.children)
		n.centerOfMass = computeCenterOfMass(n.children)
	case len(n.particles) == 1:
		id := n.particles.one()
		n.mass = n.sp.particles.Mass(id)
		n.centerOfMass = n.sp.particles.Position(id)
	default:
		n.mass = 0
		n.centerOfMass = mgl64.Vec3{}
	}
	n.dirty = false
}

// updateNodeValues recomputes every node of the subtree bottom-up.
func (n *Node) updateNodeValues() {
	for _, child := range n.children {
		child.updateNodeValues()
	}
	n.recompute()
}

// refresh recomputes only the nodes touched since the last recompute.
func (n *Node) refresh() {
	if !n.dirty {
		return
	}
	for _, child := range n.children {
		child.refresh()
	}
	n.recompute()
}

// rebalanceNode relocates particles that left their leaf's domain. history
// is the path from the root to n, with n last.
func (n *Node) rebalanceNode(history []*Node, report *RebalanceReport) error {
	if len(history) == 0 || history[len(history)-1] != n {
		return ErrHistory
	}

	if !n.IsLeaf() {
		children := n.children
		for _, child := range children {
			path := make([]*Node, len(history), len(history)+1)
			copy(path, history)
			if err := child.rebalanceNode(append(path, child), report); err != nil {
				return err
			}
		}
		return nil
	}

	if len(n.particles) != 1 {
		return nil
	}
	id := n.particles.one()
	pos := n.sp.particles.Position(id)
	if n.domain.Contains(pos) {
		return nil
	}

	n.particles.remove(id)
	n.dirty = true

	// Ancestor domains nest, so the nearest one containing pos is the only
	// insertion point; everything above it already holds the id.
	for i := len(history) - 2; i >= 0; i-- {
		ancestor := history[i]
		ancestor.particles.remove(id)
		ancestor.dirty = true
		if !ancestor.domain.Contains(pos) {
			continue
		}
		err := ancestor.addParticle(id)
		if errors.Is(err, ErrMaxDepth) {
			for _, above := range history[:i] {
				above.particles.remove(id)
				above.dirty = true
			}
			report.Dropped = append(report.Dropped, id)
			return nil
		}
		if err != nil {
			return err
		}
		report.Moved = append(report.Moved, id)
		return nil
	}

	report.Escaped = append(report.Escaped, id)
	return nil
}
