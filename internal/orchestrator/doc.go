// Package orchestrator coordinates task execution across backends.
//
// The orchestrator package provides functionality for:
//   - Backend selection: Matching tasks to capable backends by type,
//     complexity, priority, and current load
//   - Load tracking: Enforcing per-backend concurrency ceilings
//   - Fallback: Trying alternate backends in order when attempts fail
//   - Parallel dispatch: Running batches of independent tasks concurrently
//     with isolated failure domains
//
// Callers construct an Orchestrator with an explicit backend registry and
// performance ledger, then submit tasks:
//
//	orch := orchestrator.New(orchestrator.RequiredConfig{
//		Registry: registry,
//		Ledger:   ledger,
//	})
//	result := orch.Submit(ctx, models.Task{
//		Type:       models.TaskTypeCoding,
//		Payload:    "Write a React component for user authentication",
//		Complexity: models.ComplexitySimple,
//	})
package orchestrator
