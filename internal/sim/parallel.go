package sim

import (
	"context"
	"sync"

	"github.com/san-kum/springlab/internal/dynamo"
)

// Factory builds a fresh stepper and its metrics for one ensemble member.
type Factory func(idx int) (dynamo.Stepper, []dynamo.Metric, error)

// Ensemble runs independent simulations concurrently. Each run owns its own
// stepper, so nothing is shared across goroutines.
type Ensemble struct {
	factory Factory
	numRuns int
}

func NewEnsemble(factory Factory, numRuns int) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns}
}

func (e *Ensemble) Run(ctx context.Context, cfg dynamo.Config) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			st, metrics, err := e.factory(idx)
			if err != nil {
				errs[idx] = err
				return
			}

			cfgCopy := cfg
			cfgCopy.Seed = cfg.Seed + int64(idx)

			s := New()
			for _, m := range metrics {
				s.AddMetric(m)
			}

			results[idx], errs[idx] = s.Run(ctx, st, cfgCopy)
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
