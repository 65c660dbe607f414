package physics

import "errors"

var (
	// ErrMass indicates a non-positive or non-finite particle mass.
	ErrMass = errors.New("physics: mass must be positive and finite")

	// ErrUnknownParticle indicates an id that was never allocated or has
	// been merged away.
	ErrUnknownParticle = errors.New("physics: unknown particle")

	// ErrDensity indicates a non-positive density.
	ErrDensity = errors.New("physics: density must be positive")
)
