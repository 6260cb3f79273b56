package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/calder-labs/maestro/pkg/models"
)

// ParallelDispatcher fans out a batch of independent tasks, runs each
// task's full fallback chain concurrently, and collects every result.
// The only concurrency bound is each backend's own ceiling, enforced
// transitively through the load tracker.
type ParallelDispatcher struct {
	fallback *FallbackCoordinator
}

// NewParallelDispatcher creates a dispatcher over the given coordinator.
func NewParallelDispatcher(fallback *FallbackCoordinator) *ParallelDispatcher {
	return &ParallelDispatcher{fallback: fallback}
}

// ExecuteBatch runs every task concurrently and returns results in input
// order once all are terminal. One task's failure, retries, or panic
// never affects its siblings; panics become failed results instead of
// crossing this boundary.
func (d *ParallelDispatcher) ExecuteBatch(ctx context.Context, tasks []models.Task) []models.TaskResult {
	results := make([]models.TaskResult, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task models.Task) {
			defer wg.Done()
			results[i] = d.runIsolated(ctx, task)
		}(i, task)
	}
	wg.Wait()

	return results
}

// runIsolated executes one task's chain with panic containment and the
// task's own deadline applied.
func (d *ParallelDispatcher) runIsolated(ctx context.Context, task models.Task) (result models.TaskResult) {
	defer func() {
		if r := recover(); r != nil {
			debugLog("[dispatcher] task %s panicked: %v", task.ID, r)
			result = models.TaskResult{
				TaskID:  task.ID,
				Success: false,
				Err:     fmt.Sprintf("panic during execution: %v", r),
			}
		}
	}()

	taskCtx := ctx
	if task.Deadline > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, task.Deadline)
		defer cancel()
	}

	return d.fallback.ExecuteWithFallback(taskCtx, task)
}
