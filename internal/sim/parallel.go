package sim

import (
	"context"
	"sync"
)

// Ensemble runs independent simulations concurrently, one per seed.
type Ensemble struct {
	build     func(seed uint64) (*Simulator, error)
	numRuns   int
	seedStart uint64
}

func NewEnsemble(build func(seed uint64) (*Simulator, error), numRuns int, seedStart uint64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// Run returns one result per seed in seed order, or the first error.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			s, err := e.build(e.seedStart + uint64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = s.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
