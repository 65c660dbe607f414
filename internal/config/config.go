package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/octree"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	DefaultParticles = 200
	DefaultSteps     = 500
	DefaultDt        = 1.0
	DefaultG         = 1.0
	DefaultSoftening = 0.5
	DefaultSeed      = 42
	DefaultDensity   = 1.0
	DefaultHalfWidth = 100.0
	DefaultMaxSpeed  = 0.2
	DefaultMass      = 1.0
)

type Config struct {
	Particles int          `yaml:"particles"`
	Steps     int          `yaml:"steps"`
	Dt        float64      `yaml:"dt"`
	G         float64      `yaml:"g"`
	Softening float64      `yaml:"softening"`
	Seed      uint64       `yaml:"seed"`
	Density   float64      `yaml:"density"`
	Domain    DomainConfig `yaml:"domain"`
	Spawn     SpawnConfig  `yaml:"spawn"`
	Tree      TreeConfig   `yaml:"tree"`
}

type DomainConfig struct {
	Min [3]float64 `yaml:"min"`
	Max [3]float64 `yaml:"max"`
}

type SpawnConfig struct {
	Extent   float64 `yaml:"extent"`
	MaxSpeed float64 `yaml:"max_speed"`
	Mass     float64 `yaml:"mass"`
}

type TreeConfig struct {
	MaxDepth int  `yaml:"max_depth"`
	Verify   bool `yaml:"verify"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles: DefaultParticles,
		Steps:     DefaultSteps,
		Dt:        DefaultDt,
		G:         DefaultG,
		Softening: DefaultSoftening,
		Seed:      DefaultSeed,
		Density:   DefaultDensity,
		Domain: DomainConfig{
			Min: [3]float64{-DefaultHalfWidth, -DefaultHalfWidth, -DefaultHalfWidth},
			Max: [3]float64{DefaultHalfWidth, DefaultHalfWidth, DefaultHalfWidth},
		},
		Spawn: SpawnConfig{
			Extent:   DefaultHalfWidth,
			MaxSpeed: DefaultMaxSpeed,
			Mass:     DefaultMass,
		},
		Tree: TreeConfig{MaxDepth: octree.DefaultMaxDepth},
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a copy safe to modify.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("particles must be positive, got %d", c.Particles)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must not be negative, got %d", c.Steps)
	}
	if c.Spawn.Extent <= 0 {
		return fmt.Errorf("spawn extent must be positive, got %f", c.Spawn.Extent)
	}
	if c.Spawn.Mass <= 0 {
		return fmt.Errorf("spawn mass must be positive, got %f", c.Spawn.Mass)
	}
	return nil
}

func (c *Config) DomainBounds() octree.Domain {
	return octree.NewDomain(mgl64.Vec3(c.Domain.Min), mgl64.Vec3(c.Domain.Max))
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Steps:     c.Steps,
		Dt:        c.Dt,
		G:         c.G,
		Softening: c.Softening,
		Density:   c.Density,
		Domain:    c.DomainBounds(),
		MaxDepth:  c.Tree.MaxDepth,
		Verify:    c.Tree.Verify,
	}
}

func (c *Config) SpawnParams() physics.Spawn {
	return physics.Spawn{
		Count:    c.Particles,
		Extent:   c.Spawn.Extent,
		MaxSpeed: c.Spawn.MaxSpeed,
		Mass:     c.Spawn.Mass,
		Seed:     c.Seed,
	}
}

// ParamNames lists the scalar settings SetParam and Params understand.
var ParamNames = []string{"particles", "steps", "dt", "g", "softening", "density", "seed", "extent", "max_speed", "mass"}

// Params returns the scalar settings by name.
func (c *Config) Params() map[string]float64 {
	return map[string]float64{
		"particles": float64(c.Particles),
		"steps":     float64(c.Steps),
		"dt":        c.Dt,
		"g":         c.G,
		"softening": c.Softening,
		"density":   c.Density,
		"seed":      float64(c.Seed),
		"extent":    c.Spawn.Extent,
		"max_speed": c.Spawn.MaxSpeed,
		"mass":      c.Spawn.Mass,
	}
}

// SetParam sets one scalar setting. Counts are truncated toward zero.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "particles":
		c.Particles = int(v)
	case "steps":
		c.Steps = int(v)
	case "dt":
		c.Dt = v
	case "g":
		c.G = v
	case "softening":
		c.Softening = v
	case "density":
		c.Density = v
	case "seed":
		if v < 0 {
			return fmt.Errorf("seed must not be negative, got %g", v)
		}
		c.Seed = uint64(v)
	case "extent":
		c.Spawn.Extent = v
	case "max_speed":
		c.Spawn.MaxSpeed = v
	case "mass":
		c.Spawn.Mass = v
	default:
		return fmt.Errorf("unknown parameter %q (available: %v)", name, ParamNames)
	}
	return nil
}
