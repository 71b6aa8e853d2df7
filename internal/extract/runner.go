// internal/extract/runner.go
package extract

import (
	"context"
	"sync"

	"github.com/storylens/storylens/internal/monitoring"
	"github.com/storylens/storylens/internal/rawitem"
	"github.com/storylens/storylens/internal/utils"
	"github.com/storylens/storylens/pkg/types"
)

// Result pairs one extracted record with the error that produced it, if
// any. Exactly one of Record and Err is set.
type Result struct {
	Record *types.StoryRecord
	Err    error
}

// Runner fans a tray of items across a fixed worker pool. Output order
// matches input order regardless of which worker finishes first.
type Runner struct {
	engine  *Engine
	workers int
	metrics *monitoring.MetricsManager
	logger  utils.Logger
}

// NewRunner creates a runner over engine with the given concurrency.
// Non-positive worker counts run sequentially.
func NewRunner(engine *Engine, workers int, metrics *monitoring.MetricsManager, logger utils.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = utils.NopLogger{}
	}
	return &Runner{
		engine:  engine,
		workers: workers,
		metrics: metrics,
		logger:  logger,
	}
}

// Run extracts every item and returns results in input order. Workers stop
// picking up new items once the context is canceled; items never started
// report the context error.
func (r *Runner) Run(ctx context.Context, items []rawitem.Item, opts Options) []Result {
	results := make([]Result, len(items))
	if len(items) == 0 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := r.workers
	if workers > len(items) {
		workers = len(items)
	}
	if r.metrics != nil {
		r.metrics.UpdateWorkersActive(workers)
		defer r.metrics.UpdateWorkersActive(0)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				record, err := r.engine.Extract(ctx, items[i], opts)
				results[i] = Result{Record: record, Err: err}
			}
		}()
	}

	queued := len(items)
feed:
	for i := range items {
		select {
		case jobs <- i:
			queued--
			if r.metrics != nil {
				r.metrics.UpdateItemsQueued(queued)
			}
		case <-ctx.Done():
			for j := i; j < len(items); j++ {
				results[j] = Result{Err: ctx.Err()}
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

// Records filters successful results, preserving order.
func Records(results []Result) []*types.StoryRecord {
	out := make([]*types.StoryRecord, 0, len(results))
	for _, res := range results {
		if res.Err == nil && res.Record != nil {
			out = append(out, res.Record)
		}
	}
	return out
}
