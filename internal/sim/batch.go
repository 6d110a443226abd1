package sim

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/papapumpkin/pheno/internal/scenario"
)

// BatchItem is one scenario to run as part of a batch.
type BatchItem struct {
	Scenario *scenario.Scenario
	Options  []RunnerOption
}

// BatchResult pairs a run's result with its error. Result is nil when the
// runner could not be built.
type BatchResult struct {
	Result *Result
	Err    error
}

// RunBatch runs every item on its own plant, at most jobs at a time, and
// returns results in item order. jobs <= 0 runs them one at a time. Each
// engine is still driven from a single goroutine.
func RunBatch(ctx context.Context, items []BatchItem, jobs int) []BatchResult {
	if jobs <= 0 {
		jobs = 1
	}
	sem := semaphore.NewWeighted(int64(jobs))
	results := make([]BatchResult, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = BatchResult{Err: err}
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = runOne(ctx, item)
		}()
	}
	wg.Wait()
	return results
}

func runOne(ctx context.Context, item BatchItem) BatchResult {
	r, err := NewRunner(item.Scenario, item.Options...)
	if err != nil {
		return BatchResult{Err: err}
	}
	res, err := r.Run(ctx)
	return BatchResult{Result: res, Err: err}
}
