// Package automation runs scripted batches of simulations described in
// YAML and stores every run.
package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/logging"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
)

// Scenario is a named sequence of runs.
type Scenario struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Runs        []RunSpec `yaml:"runs"`
}

// RunSpec starts from a preset or config file (defaults if neither) and
// applies Params on top. Repeat > 1 runs consecutive seeds.
type RunSpec struct {
	Name   string             `yaml:"name"`
	Preset string             `yaml:"preset"`
	Config string             `yaml:"config"`
	Params map[string]float64 `yaml:"params"`
	Repeat int                `yaml:"repeat"`
}

// Outcome is one stored run of a scenario.
type Outcome struct {
	Spec    string
	RunID   string
	Seed    uint64
	Steps   int
	Final   sim.Frame
	Metrics map[string]float64
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Runs) == 0 {
		return nil, fmt.Errorf("scenario %s has no runs", path)
	}
	return &scenario, nil
}

// Resolve builds the configuration a spec describes.
func (r RunSpec) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case r.Config != "":
		loaded, err := config.Load(r.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case r.Preset != "":
		if cfg = config.GetPreset(r.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", r.Preset)
		}
	}
	for name, v := range r.Params {
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// RunScenario executes every run in order and saves each to st. It stops at
// the first failure and returns the outcomes so far.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store) ([]Outcome, error) {
	log := logging.WithComponent("automation").WithField("scenario", scenario.Name)
	if err := st.Init(); err != nil {
		return nil, err
	}

	var outcomes []Outcome
	for i, spec := range scenario.Runs {
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("run-%d", i+1)
		}
		cfg, err := spec.Resolve()
		if err != nil {
			return outcomes, fmt.Errorf("%s: %w", name, err)
		}

		repeat := max(spec.Repeat, 1)
		for k := 0; k < repeat; k++ {
			c := cfg.Clone()
			c.Seed = cfg.Seed + uint64(k)

			out, err := runOne(ctx, name, spec.Preset, c, st)
			if err != nil {
				return outcomes, fmt.Errorf("%s seed %d: %w", name, c.Seed, err)
			}
			log.WithFields(logrus.Fields{
				"run":   name,
				"id":    out.RunID,
				"seed":  c.Seed,
				"steps": out.Steps,
			}).Info("scenario run stored")
			outcomes = append(outcomes, out)
		}
	}
	return outcomes, nil
}

func runOne(ctx context.Context, name, preset string, cfg *config.Config, st *storage.Store) (Outcome, error) {
	set, err := physics.Generate(cfg.SpawnParams())
	if err != nil {
		return Outcome{}, err
	}
	s, err := sim.New(set, cfg.SimConfig())
	if err != nil {
		return Outcome{}, err
	}
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	result, err := s.Run(ctx)
	if err != nil {
		return Outcome{}, err
	}

	id, err := st.Save(storage.RunMetadata{
		Preset:    preset,
		Seed:      cfg.Seed,
		Particles: cfg.Particles,
		Steps:     cfg.Steps,
		Dt:        cfg.Dt,
		G:         cfg.G,
		Softening: cfg.Softening,
		Density:   cfg.Density,
		DomainMin: cfg.Domain.Min,
		DomainMax: cfg.Domain.Max,
		MaxDepth:  cfg.Tree.MaxDepth,
	}, result)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Spec:    name,
		RunID:   id,
		Seed:    cfg.Seed,
		Steps:   result.StepsTaken,
		Final:   result.Final(),
		Metrics: result.Metrics,
	}, nil
}

// StableCount splits outcomes by whether every particle stayed in the tree.
func StableCount(outcomes []Outcome) (stable, unstable int) {
	for _, o := range outcomes {
		if o.Final.Tracked == o.Final.Particles {
			stable++
		} else {
			unstable++
		}
	}
	return
}
