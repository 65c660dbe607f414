package octree

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the kind shared by every precondition failure.
var ErrInvalidArgument = errors.New("octree: invalid argument")

// Precondition failures. All of them satisfy errors.Is(err, ErrInvalidArgument).
var (
	// ErrEmpty indicates a node or tree built from no particles.
	ErrEmpty = fmt.Errorf("%w: at least one particle is required", ErrInvalidArgument)

	// ErrOctantIndex indicates an octant index outside 0-7.
	ErrOctantIndex = fmt.Errorf("%w: octant index out of range", ErrInvalidArgument)

	// ErrOutsideDomain indicates a particle whose position is not in the node's domain.
	ErrOutsideDomain = fmt.Errorf("%w: particle is not in the node's domain", ErrInvalidArgument)

	// ErrDuplicate indicates a particle that is already held by the node.
	ErrDuplicate = fmt.Errorf("%w: particle is already held by the node", ErrInvalidArgument)

	// ErrNotFound indicates a particle that is not held by the node.
	ErrNotFound = fmt.Errorf("%w: particle is not held by the node", ErrInvalidArgument)

	// ErrTooFewParticles indicates buildChildren called with fewer than two particles.
	ErrTooFewParticles = fmt.Errorf("%w: at least two particles are required", ErrInvalidArgument)

	// ErrHistory indicates a rebalance history whose top is not the node being rebalanced.
	ErrHistory = fmt.Errorf("%w: history does not end in the current node", ErrInvalidArgument)
)

// ErrMaxDepth indicates subdivision beyond the configured maximum depth,
// usually caused by coincident particles.
var ErrMaxDepth = errors.New("octree: maximum subdivision depth exceeded")

// DepthError wraps ErrMaxDepth with the node that could not be subdivided.
type DepthError struct {
	Depth  int
	Domain Domain
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%v (depth %d, domain %v)", ErrMaxDepth, e.Depth, e.Domain)
}

func (e *DepthError) Unwrap() error {
	return ErrMaxDepth
}
