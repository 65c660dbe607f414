// Package physics holds the particle payload the octree indexes and the
// brute-force rules that move it.
//
//   - [Particle]: position, velocity and mass of one point mass
//   - [Set]: arena of particles keyed by stable [octree.ID]
//   - [Gravity]: pairwise softened attraction over a [Set]
//   - [Collide]: merges overlapping particles, conserving momentum
//   - [Generate]: seeded random initial conditions
//
// A particle's collision radius follows from its mass and a uniform density:
//
//	r = cbrt(3m / (4πρ))
//
// # Thread Safety
//
// A [Set] is not safe for concurrent mutation. [Gravity.Attract] splits the
// force pass over disjoint index ranges; each worker writes only the
// velocities of its own range.
package physics
