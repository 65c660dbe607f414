// Package octree implements an incrementally maintained octree over a set of
// point masses.
//
// The tree never owns particle payloads. Nodes hold sets of particle ids and
// resolve positions and masses through the [Particles] interface, so the
// particle collection (see package physics) stays the single owner of its
// data:
//
//   - [Domain]: axis-aligned box with half-open membership and octant math
//   - [Node]: aggregate mass, center of mass, domain, ids and children
//   - [Octree]: owns the root and is the entry point for rebalancing
//
// # Rebalancing
//
// After the simulation moves particles, [Octree.Rebalance] finds every leaf
// whose particle left the leaf's domain and walks the ancestor history to the
// nearest node that still contains the new position, re-inserting it there.
// Particles that leave the root domain are reported as escaped.
//
// # Thread Safety
//
// An Octree is NOT safe for concurrent use.
package octree
