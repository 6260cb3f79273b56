package orchestrator

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/calder-labs/maestro/internal/backend"
	"github.com/calder-labs/maestro/internal/ledger"
	"github.com/calder-labs/maestro/internal/scoring"
	"github.com/calder-labs/maestro/pkg/models"
)

// Executor runs a single task attempt against a single backend. It does
// not retry; fallback across backends belongs to the FallbackCoordinator,
// which keeps this layer simple to test in isolation.
type Executor struct {
	registry *backend.Registry
	loads    *LoadTracker
	ledger   *ledger.Ledger

	mu       sync.RWMutex
	timeouts map[models.Tier]time.Duration
}

// NewExecutor creates an executor over the given registry, load tracker,
// and ledger. Per-tier timeouts start at the tier defaults.
func NewExecutor(registry *backend.Registry, loads *LoadTracker, l *ledger.Ledger) *Executor {
	return &Executor{
		registry: registry,
		loads:    loads,
		ledger:   l,
		timeouts: map[models.Tier]time.Duration{
			models.TierFast:     models.TierFast.DefaultTimeout(),
			models.TierBalanced: models.TierBalanced.DefaultTimeout(),
			models.TierPowerful: models.TierPowerful.DefaultTimeout(),
		},
	}
}

// SetTimeout overrides the attempt timeout for a tier.
func (e *Executor) SetTimeout(tier models.Tier, timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.timeouts[tier] = timeout
}

// TimeoutFor returns the attempt timeout for the given tier.
func (e *Executor) TimeoutFor(tier models.Tier) time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if t, ok := e.timeouts[tier]; ok && t > 0 {
		return t
	}
	return tier.DefaultTimeout()
}

// Execute runs one attempt of the task on the given backend. Capacity is
// acquired before the call and released on every exit path; the ledger is
// updated win or lose.
func (e *Executor) Execute(ctx context.Context, task models.Task, desc *models.BackendDescriptor) models.TaskResult {
	result := models.TaskResult{TaskID: task.ID, BackendID: desc.ID}

	invoker := e.registry.Invoker(desc.ID)
	if invoker == nil {
		result.Err = errUnknownBackend(desc.ID).Error()
		return result
	}

	e.loads.Ensure(desc.ID, desc.MaxConcurrent)
	if err := e.loads.Acquire(ctx, desc.ID); err != nil {
		result.Err = err.Error()
		return result
	}
	defer e.loads.Release(desc.ID)

	attemptCtx, cancel := context.WithTimeout(ctx, e.TimeoutFor(desc.Tier))
	defer cancel()

	start := time.Now()
	output, err := invoker.Invoke(attemptCtx, enhancePayload(task.Payload, task.Type), backend.InvokeOptions{
		Temperature: desc.Temperature,
		MaxTokens:   desc.MaxTokens,
	})
	latency := time.Since(start)
	result.Latency = latency

	if err == nil && output == "" {
		err = backend.ErrEmptyOutput
	}

	if err != nil {
		debugLog("[executor] %s failed task %s after %s: %v", desc.ID, task.ID, latency, err)
		result.Err = err.Error()
		e.ledger.Record(desc.ID, task.Type, latency, 0, false)
		return result
	}

	result.Success = true
	result.Output = output
	result.QualityScore = scoring.Score(output, task.Type, latency)
	// Word count approximates tokens closely enough for cost estimates.
	result.TokensUsed = len(strings.Fields(output))
	result.Cost = float64(result.TokensUsed) / 1000 * desc.CostPer1KTokens

	e.ledger.Record(desc.ID, task.Type, latency, result.QualityScore, true)
	e.ledger.AddCost(desc.ID, result.Cost)

	debugLog("[executor] %s completed task %s in %s (quality %.2f)",
		desc.ID, task.ID, latency, result.QualityScore)

	return result
}
