package config

import "sort"

// Presets are named starting points for a run. GetPreset returns copies.
var Presets = map[string]*Config{
	"cloud": DefaultConfig(),
	"dense": withChanges(func(c *Config) {
		c.Particles = 500
		c.Spawn.Extent = 30
		c.Steps = 300
	}),
	"sparse": withChanges(func(c *Config) {
		c.Particles = 50
		c.Steps = 1000
	}),
	"collapse": withChanges(func(c *Config) {
		c.Particles = 300
		c.G = 5
		c.Spawn.MaxSpeed = 0
		c.Steps = 400
	}),
	"explode": withChanges(func(c *Config) {
		c.Particles = 150
		c.Spawn.Extent = 20
		c.Spawn.MaxSpeed = 2
		c.Steps = 200
	}),
	"heavy": withChanges(func(c *Config) {
		c.Particles = 100
		c.Spawn.Mass = 10
		c.Density = 5
		c.Softening = 1
	}),
}

func withChanges(fn func(*Config)) *Config {
	c := DefaultConfig()
	fn(c)
	return c
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
