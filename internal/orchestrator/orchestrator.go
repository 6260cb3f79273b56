package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/calder-labs/maestro/internal/backend"
	"github.com/calder-labs/maestro/internal/ledger"
	"github.com/calder-labs/maestro/pkg/models"
)

// RequiredConfig contains the minimal required configuration for an
// Orchestrator. All fields are required and have no defaults.
type RequiredConfig struct {
	// Registry is the catalog of available backends.
	Registry *backend.Registry
	// Ledger is the performance ledger updated after every attempt.
	Ledger *ledger.Ledger
}

// Orchestrator is the engine's facade. Callers construct it with an
// explicit registry and ledger (no process-wide globals) and submit tasks
// through Submit and SubmitBatch.
type Orchestrator struct {
	registry   *backend.Registry
	ledger     *ledger.Ledger
	loads      *LoadTracker
	matcher    *CapabilityMatcher
	executor   *Executor
	fallback   *FallbackCoordinator
	dispatcher *ParallelDispatcher
	logger     *DebugLogger
}

// New creates an Orchestrator from the required configuration and options.
func New(cfg RequiredConfig, opts ...Option) *Orchestrator {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	loads := NewLoadTracker()
	for _, desc := range cfg.Registry.List() {
		loads.Ensure(desc.ID, desc.MaxConcurrent)
	}

	matcher := NewCapabilityMatcher(cfg.Registry, loads)
	matcher.SetPreferCheapSimple(options.preferCheapSimple)

	executor := NewExecutor(cfg.Registry, loads, cfg.Ledger)
	for tier, timeout := range options.tierTimeouts {
		executor.SetTimeout(tier, timeout)
	}

	fallback := NewFallbackCoordinator(matcher, executor)
	fallback.SetMaxAttempts(options.maxAttempts)
	fallback.SetBackoff(options.backoff)

	setPackageLogger(options.logger)

	return &Orchestrator{
		registry:   cfg.Registry,
		ledger:     cfg.Ledger,
		loads:      loads,
		matcher:    matcher,
		executor:   executor,
		fallback:   fallback,
		dispatcher: NewParallelDispatcher(fallback),
		logger:     options.logger,
	}
}

// Submit executes one task through selection, execution, and fallback,
// returning a terminal result. The result always has the same shape;
// backend unavailability is reported as data, never as a crash.
func (o *Orchestrator) Submit(ctx context.Context, task models.Task) models.TaskResult {
	task = o.prepare(task)
	if err := validateTask(task); err != nil {
		return models.TaskResult{TaskID: task.ID, Success: false, Err: err.Error()}
	}
	return o.dispatcher.runIsolated(ctx, task)
}

// SubmitBatch executes independent tasks concurrently, returning results
// in input order once every task is terminal.
func (o *Orchestrator) SubmitBatch(ctx context.Context, tasks []models.Task) []models.TaskResult {
	prepared := make([]models.Task, len(tasks))
	for i, task := range tasks {
		prepared[i] = o.prepare(task)
	}

	// Tasks with unroutable types fail individually through the matcher's
	// capability check; the rest of the batch is unaffected.
	return o.dispatcher.ExecuteBatch(ctx, prepared)
}

// SelectBackend exposes the matcher for callers that only want a routing
// decision without executing anything.
func (o *Orchestrator) SelectBackend(taskType models.TaskType, complexity models.Complexity) (*models.BackendDescriptor, error) {
	return o.matcher.SelectBackend(taskType, complexity)
}

// Report returns the ledger's point-in-time performance report. Safe to
// call concurrently with active execution.
func (o *Orchestrator) Report() *ledger.Report {
	return o.ledger.Report()
}

// Recommend returns ranked backend ids for the task type based on
// recorded performance.
func (o *Orchestrator) Recommend(taskType models.TaskType) []string {
	return o.ledger.Recommend(taskType)
}

// Loads exposes the load tracker, mainly for status reporting.
func (o *Orchestrator) Loads() *LoadTracker {
	return o.loads
}

// Close releases the orchestrator's logger. The package logger is only
// cleared if it still belongs to this instance.
func (o *Orchestrator) Close() error {
	clearPackageLogger(o.logger)
	return o.logger.Close()
}

// prepare fills in generated fields and normalizes defaults.
func (o *Orchestrator) prepare(task models.Task) models.Task {
	if task.ID == "" {
		task.ID = uuid.New().String()[:8]
	}
	if task.Complexity == "" {
		task.Complexity = models.ComplexityMedium
	}
	return task
}

// validateTask rejects tasks the engine cannot route.
func validateTask(task models.Task) error {
	if !task.Type.Valid() {
		return fmt.Errorf("invalid task type %q", task.Type)
	}
	if !task.Complexity.Valid() {
		return fmt.Errorf("invalid complexity %q", task.Complexity)
	}
	return nil
}
