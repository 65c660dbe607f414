package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
)

// weighted reports the number of frames it saw times a per-run weight.
type weighted struct{ w, n float64 }

func (m *weighted) Name() string      { return "weighted" }
func (m *weighted) Observe(sim.Frame) { m.n++ }
func (m *weighted) Value() float64    { return m.w * m.n }
func (m *weighted) Reset()            { m.n = 0 }

func builder() func(map[string]float64) (*sim.Simulator, error) {
	return func(p map[string]float64) (*sim.Simulator, error) {
		if p["fail"] > 0 {
			return nil, errors.New("refused")
		}
		set, err := physics.NewSet(
			physics.Particle{Position: mgl64.Vec3{-10, 0, 0}, Mass: 1},
			physics.Particle{Position: mgl64.Vec3{10, 0, 0}, Mass: 1},
		)
		if err != nil {
			return nil, err
		}
		cfg := sim.DefaultConfig()
		cfg.Steps = 3
		s, err := sim.New(set, cfg)
		if err != nil {
			return nil, err
		}
		s.AddMetric(&weighted{w: (p["a"]-2)*(p["a"]-2) + p["b"]})
		return s, nil
	}
}

func TestGrid(t *testing.T) {
	g, err := NewGridSearch([]string{"a", "b"}, [][]float64{{1, 2, 3}, {0, 1}})
	require.NoError(t, err)
	grid := g.Grid()
	require.Len(t, grid, 6)
	assert.Equal(t, map[string]float64{"a": 1, "b": 0}, grid[0])
	assert.Equal(t, map[string]float64{"a": 1, "b": 1}, grid[1])
	assert.Equal(t, map[string]float64{"a": 3, "b": 1}, grid[5])
}

func TestNewGridSearchErrors(t *testing.T) {
	_, err := NewGridSearch([]string{"a"}, nil)
	assert.Error(t, err)
	_, err = NewGridSearch([]string{"a"}, [][]float64{{}})
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	g, err := NewGridSearch([]string{"a", "b"}, [][]float64{{1, 2, 3}, {0.5, 1}})
	require.NoError(t, err)
	g.SetWorkers(2)

	res, err := g.Search(context.Background(), builder(), "weighted")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 2, "b": 0.5}, res.Best)
	assert.InDelta(t, 2.0, res.BestValue, 1e-12) // 0.5 * 4 frames
	assert.Len(t, res.Points, 6)
}

func TestSearchSkipsFailures(t *testing.T) {
	g, _ := NewGridSearch([]string{"fail"}, [][]float64{{1, 0}})
	res, err := g.Search(context.Background(), builder(), "weighted")
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Best["fail"])
	assert.Error(t, res.Points[0].Err)

	g, _ = NewGridSearch([]string{"fail"}, [][]float64{{1}})
	_, err = g.Search(context.Background(), builder(), "weighted")
	assert.ErrorContains(t, err, "refused")

	g, _ = NewGridSearch([]string{"a"}, [][]float64{{1}})
	_, err = g.Search(context.Background(), builder(), "missing")
	assert.ErrorContains(t, err, "not recorded")
}
