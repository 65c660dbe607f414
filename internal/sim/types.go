package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/octree"
)

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

type Config struct {
	Steps     int
	Dt        float64
	G         float64
	Softening float64
	// Density sets the collision radius of a particle from its mass.
	Density  float64
	Domain   octree.Domain
	MaxDepth int
	// Verify runs the tree's structural check after every step.
	Verify bool
}

func DefaultConfig() Config {
	return Config{
		Steps:     500,
		Dt:        1.0,
		G:         1.0,
		Softening: 0.5,
		Density:   1.0,
		Domain:    octree.Cube(100),
		MaxDepth:  octree.DefaultMaxDepth,
	}
}

// Frame is the state of a run after one step. Step 0 is the initial state.
type Frame struct {
	Step         int
	Particles    int
	Tracked      int
	TreeMass     float64
	CenterOfMass mgl64.Vec3
	Momentum     mgl64.Vec3
	Energy       float64
	Nodes        int
	Leaves       int
	Depth        int
	Moved        int
	Escaped      int
	Dropped      int
	Reentered    int
	Merged       int
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
}

// Final returns the last recorded frame.
func (r *Result) Final() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}
