package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/gravsim/internal/logging"
	"github.com/san-kum/gravsim/internal/octree"
	"github.com/san-kum/gravsim/internal/physics"
)

// Simulator advances a particle set and keeps an octree over it current.
// Each step merges colliding particles, applies attraction, integrates
// positions and rebalances the tree.
type Simulator struct {
	cfg       Config
	set       *physics.Set
	tree      *octree.Octree
	gravity   *physics.Gravity
	outside   map[octree.ID]struct{}
	step      int
	metrics   []Metric
	observers []Observer
	log       *logrus.Entry
}

// New builds the tree over every particle of set that lies in cfg.Domain.
// Particles outside it are tracked by the physics but kept out of the tree
// until they enter the domain.
func New(set *physics.Set, cfg Config) (*Simulator, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	s := &Simulator{
		cfg:     cfg,
		set:     set,
		gravity: physics.NewGravity(cfg.G, cfg.Softening),
		outside: make(map[octree.ID]struct{}),
		log:     logging.WithComponent("sim"),
	}

	var inside []octree.ID
	for _, id := range set.IDs() {
		if cfg.Domain.Contains(set.Position(id)) {
			inside = append(inside, id)
		} else {
			s.outside[id] = struct{}{}
		}
	}

	tree, err := octree.New(set, inside, cfg.Domain, octree.WithMaxDepth(cfg.MaxDepth))
	if err != nil {
		return nil, fmt.Errorf("build tree: %w", err)
	}
	s.tree = tree

	s.log.WithFields(logrus.Fields{
		"particles": set.Len(),
		"outside":   len(s.outside),
		"domain":    cfg.Domain.String(),
	}).Debug("tree built")
	return s, nil
}

func validateConfig(cfg Config) error {
	if cfg.Steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", cfg.Steps)
	}
	if !(cfg.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.G < 0 || math.IsInf(cfg.G, 0) || math.IsNaN(cfg.G) {
		return fmt.Errorf("g must be finite and non-negative, got %f", cfg.G)
	}
	if cfg.Softening < 0 {
		return fmt.Errorf("softening must not be negative, got %f", cfg.Softening)
	}
	if !(cfg.Density > 0) {
		return fmt.Errorf("density must be positive, got %f", cfg.Density)
	}
	size := cfg.Domain.Size()
	if !(size.X() > 0 && size.Y() > 0 && size.Z() > 0) {
		return fmt.Errorf("domain %v has no volume", cfg.Domain)
	}
	return nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Set() *physics.Set         { return s.set }
func (s *Simulator) Tree() *octree.Octree      { return s.tree }
func (s *Simulator) Config() Config            { return s.cfg }
func (s *Simulator) StepCount() int            { return s.step }
func (s *Simulator) Gravity() *physics.Gravity { return s.gravity }

// Outside returns the live particles currently kept out of the tree.
func (s *Simulator) Outside() []octree.ID {
	ids := make([]octree.ID, 0, len(s.outside))
	for id := range s.outside {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Run advances cfg.Steps steps, recording a frame before the first step and
// after each one. A cancelled context stops the run between steps and the
// frames recorded so far are returned with the context's error.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		Frames:  make([]Frame, 0, s.cfg.Steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.record(result, s.Frame())

	for i := 0; i < s.cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		f, err := s.Step()
		if err != nil {
			s.collect(result)
			return result, err
		}
		s.record(result, f)
		result.StepsTaken++
	}

	s.collect(result)
	return result, nil
}

// RunWithCallback steps until cfg.Steps is reached, the context is done, or
// callback returns false. The callback sees every frame including the
// initial one.
func (s *Simulator) RunWithCallback(ctx context.Context, callback func(Frame) bool) error {
	if !callback(s.Frame()) {
		return nil
	}
	for i := 0; i < s.cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f, err := s.Step()
		if err != nil {
			return err
		}
		if !callback(f) {
			return nil
		}
	}
	return nil
}

func (s *Simulator) record(result *Result, f Frame) {
	result.Frames = append(result.Frames, f)
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, o := range s.observers {
		o.OnFrame(f)
	}
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// Step advances one step and returns the resulting frame.
func (s *Simulator) Step() (Frame, error) {
	step := s.step + 1
	fail := func(err error) (Frame, error) {
		return Frame{}, &StepError{Step: step, Err: err}
	}

	merged, err := physics.Collide(s.set, s.cfg.Density)
	if err != nil {
		return fail(err)
	}
	for _, m := range merged {
		if _, ok := s.outside[m.Absorbed]; ok {
			delete(s.outside, m.Absorbed)
			continue
		}
		if err := s.tree.Remove(m.Absorbed); err != nil {
			return fail(fmt.Errorf("remove merged particle: %w", err))
		}
	}

	s.gravity.Attract(s.set, s.cfg.Dt)
	s.set.Step(s.cfg.Dt)

	report, err := s.tree.Rebalance()
	if err != nil {
		return fail(fmt.Errorf("rebalance: %w", err))
	}
	for _, id := range report.Escaped {
		s.outside[id] = struct{}{}
	}
	for _, id := range report.Dropped {
		s.log.WithField("particle", id).Warn("particle dropped at depth limit")
		s.outside[id] = struct{}{}
	}

	reentered, err := s.reenter()
	if err != nil {
		return fail(err)
	}

	if s.cfg.Verify {
		if err := s.tree.Check(); err != nil {
			return fail(fmt.Errorf("tree check: %w", err))
		}
	}

	s.step = step
	f := s.Frame()
	f.Moved = len(report.Moved)
	f.Escaped = len(report.Escaped)
	f.Dropped = len(report.Dropped)
	f.Reentered = reentered
	f.Merged = len(merged)

	s.log.WithFields(logrus.Fields{
		"step":    step,
		"moved":   f.Moved,
		"escaped": f.Escaped,
		"merged":  f.Merged,
	}).Trace("step done")
	return f, nil
}

// reenter inserts outside particles that are back inside the domain.
func (s *Simulator) reenter() (int, error) {
	n := 0
	for _, id := range s.Outside() {
		if !s.cfg.Domain.Contains(s.set.Position(id)) {
			continue
		}
		err := s.tree.Insert(id)
		if errors.Is(err, octree.ErrMaxDepth) {
			continue
		}
		if err != nil {
			return n, fmt.Errorf("reinsert particle %d: %w", id, err)
		}
		delete(s.outside, id)
		n++
	}
	return n, nil
}

// Frame describes the current state without the per-step counters.
func (s *Simulator) Frame() Frame {
	st := s.tree.Stats()
	return Frame{
		Step:         s.step,
		Particles:    s.set.Len(),
		Tracked:      s.tree.Len(),
		TreeMass:     s.tree.Mass(),
		CenterOfMass: s.tree.CenterOfMass(),
		Momentum:     s.set.Momentum(),
		Energy:       s.gravity.Energy(s.set),
		Nodes:        st.Nodes,
		Leaves:       st.Leaves - st.Empty,
		Depth:        st.MaxDepth,
	}
}
