// Package optim searches parameter grids for the settings that minimize a
// run metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gravsim/internal/sim"
)

type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type Result struct {
	Best      map[string]float64
	BestValue float64
	Points    []Point
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	workers    int
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("parameter %s has no values", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges, workers: runtime.GOMAXPROCS(0)}, nil
}

// SetWorkers bounds how many simulations run at once.
func (g *GridSearch) SetWorkers(n int) {
	if n > 0 {
		g.workers = n
	}
}

// Grid returns every combination of parameter values, first parameter
// varying slowest.
func (g *GridSearch) Grid() []map[string]float64 {
	grid := []map[string]float64{{}}
	for i, name := range g.paramNames {
		next := make([]map[string]float64, 0, len(grid)*len(g.ranges[i]))
		for _, base := range grid {
			for _, v := range g.ranges[i] {
				p := make(map[string]float64, len(base)+1)
				for k, bv := range base {
					p[k] = bv
				}
				p[name] = v
				next = append(next, p)
			}
		}
		grid = next
	}
	return grid
}

// Search runs one simulation per grid point and keeps the point with the
// smallest value of metric. Points whose build or run fails are reported
// with their error and skipped. Search fails only if ctx is cancelled or no
// point succeeds.
func (g *GridSearch) Search(
	ctx context.Context,
	build func(params map[string]float64) (*sim.Simulator, error),
	metric string,
) (*Result, error) {
	grid := g.Grid()
	points := make([]Point, len(grid))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, params := range grid {
		points[i].Params = params
		eg.Go(func() error {
			points[i].Value, points[i].Err = evaluate(ctx, build, params, metric)
			return ctx.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := &Result{BestValue: math.Inf(1), Points: points}
	for _, p := range points {
		if p.Err == nil && p.Value < res.BestValue {
			res.Best, res.BestValue = p.Params, p.Value
		}
	}
	if res.Best == nil {
		for _, p := range points {
			if p.Err != nil {
				return res, fmt.Errorf("no grid point completed: %w", p.Err)
			}
		}
		return res, fmt.Errorf("metric %q has no finite value on the grid", metric)
	}
	return res, nil
}

func evaluate(
	ctx context.Context,
	build func(map[string]float64) (*sim.Simulator, error),
	params map[string]float64,
	metric string,
) (float64, error) {
	s, err := build(params)
	if err != nil {
		return 0, err
	}
	result, err := s.Run(ctx)
	if err != nil {
		return 0, err
	}
	v, ok := result.Metrics[metric]
	if !ok {
		return 0, fmt.Errorf("metric %q not recorded", metric)
	}
	return v, nil
}
