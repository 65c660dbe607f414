package analysis

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/sim"
)

var columns = map[string]func(sim.Frame) float64{
	"particles": func(f sim.Frame) float64 { return float64(f.Particles) },
	"tracked":   func(f sim.Frame) float64 { return float64(f.Tracked) },
	"tree_mass": func(f sim.Frame) float64 { return f.TreeMass },
	"energy":    func(f sim.Frame) float64 { return f.Energy },
	"momentum":  func(f sim.Frame) float64 { return f.Momentum.Len() },
	"com_dist":  func(f sim.Frame) float64 { return f.CenterOfMass.Len() },
	"nodes":     func(f sim.Frame) float64 { return float64(f.Nodes) },
	"leaves":    func(f sim.Frame) float64 { return float64(f.Leaves) },
	"depth":     func(f sim.Frame) float64 { return float64(f.Depth) },
	"moved":     func(f sim.Frame) float64 { return float64(f.Moved) },
	"escaped":   func(f sim.Frame) float64 { return float64(f.Escaped) },
	"merged":    func(f sim.Frame) float64 { return float64(f.Merged) },
}

// SeriesNames lists the quantities Series accepts.
func SeriesNames() []string {
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Series extracts one quantity from every frame.
func Series(frames []sim.Frame, name string) ([]float64, error) {
	get, ok := columns[name]
	if !ok {
		return nil, fmt.Errorf("unknown series %q (available: %v)", name, SeriesNames())
	}
	xs := make([]float64, len(frames))
	for i, f := range frames {
		xs[i] = get(f)
	}
	return xs, nil
}
