package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/calder-labs/maestro/pkg/models"
)

// defaultMaxAttempts bounds how many backends one task may try.
const defaultMaxAttempts = 3

// defaultBackoff is the fixed delay between fallback attempts. Each
// attempt targets a different backend, so exponential growth buys nothing;
// the pause just avoids hammering shared infrastructure back to back.
const defaultBackoff = time.Second

// FallbackCoordinator drives sequential attempts across an ordered
// candidate list until one succeeds or the list is exhausted. It is the
// single place retry semantics live.
type FallbackCoordinator struct {
	matcher  *CapabilityMatcher
	executor *Executor

	maxAttempts int
	backoff     time.Duration
}

// NewFallbackCoordinator creates a coordinator with default attempt limit
// and backoff.
func NewFallbackCoordinator(matcher *CapabilityMatcher, executor *Executor) *FallbackCoordinator {
	return &FallbackCoordinator{
		matcher:     matcher,
		executor:    executor,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
	}
}

// SetMaxAttempts overrides the attempt limit. Values below 1 are clamped.
func (f *FallbackCoordinator) SetMaxAttempts(n int) {
	if n < 1 {
		n = 1
	}
	f.maxAttempts = n
}

// SetBackoff overrides the fixed delay between attempts.
func (f *FallbackCoordinator) SetBackoff(d time.Duration) {
	f.backoff = d
}

// ExecuteWithFallback runs the task against candidates in order until one
// succeeds. Every failed attempt is kept in the result's attempt trail.
// Within one task the attempts are strictly sequential; no two backends
// ever run the same task concurrently.
func (f *FallbackCoordinator) ExecuteWithFallback(ctx context.Context, task models.Task) models.TaskResult {
	start := time.Now()

	candidates, err := f.candidateChain(task)
	if err != nil {
		// Configuration error: no backend supports this type. Surface
		// immediately with no attempts made.
		return models.TaskResult{
			TaskID:  task.ID,
			Success: false,
			Err:     err.Error(),
		}
	}

	limit := min(f.maxAttempts, len(candidates))
	var attempts []models.Attempt

	for i := 0; i < limit; i++ {
		if err := ctx.Err(); err != nil {
			reason := "cancelled"
			if errors.Is(err, context.DeadlineExceeded) {
				reason = "deadline exceeded"
			}
			return models.TaskResult{
				TaskID:   task.ID,
				Success:  false,
				Latency:  time.Since(start),
				Attempts: attempts,
				Err:      reason + ": " + err.Error(),
			}
		}

		desc := candidates[i]
		debugLog("[fallback] task %s attempt %d/%d on %s", task.ID, i+1, limit, desc.ID)

		result := f.executor.Execute(ctx, task, desc)
		if result.Success {
			result.Attempts = attempts
			return result
		}

		attempts = append(attempts, models.Attempt{BackendID: desc.ID, Err: result.Err})

		if i+1 < limit && f.backoff > 0 {
			select {
			case <-time.After(f.backoff):
			case <-ctx.Done():
			}
		}
	}

	debugLog("[fallback] task %s exhausted %d attempts", task.ID, len(attempts))
	return models.TaskResult{
		TaskID:   task.ID,
		Success:  false,
		Latency:  time.Since(start),
		Attempts: attempts,
		Err:      errAllExhausted,
	}
}

// candidateChain builds the ordered attempt list: the matcher's top pick
// first (it accounts for current load), then the remaining capable
// backends in rank order, each backend at most once.
func (f *FallbackCoordinator) candidateChain(task models.Task) ([]*models.BackendDescriptor, error) {
	candidates, err := f.matcher.Candidates(task.Type, task.Complexity)
	if err != nil {
		return nil, err
	}

	pick, err := f.matcher.SelectBackend(task.Type, task.Complexity)
	if err != nil {
		return nil, err
	}

	chain := make([]*models.BackendDescriptor, 0, len(candidates))
	chain = append(chain, pick)
	for _, desc := range candidates {
		if desc.ID != pick.ID {
			chain = append(chain, desc)
		}
	}
	return chain, nil
}
