package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calder-labs/maestro/internal/backend"
	"github.com/calder-labs/maestro/internal/ledger"
	"github.com/calder-labs/maestro/pkg/models"
)

func newTestOrchestrator(t *testing.T, opts ...Option) (*Orchestrator, *backend.Registry) {
	t.Helper()

	reg := backend.NewRegistry()
	for _, s := range []spec{
		{id: "fast-coder", tier: models.TierFast, types: []models.TaskType{models.TaskTypeCoding, models.TaskTypeTesting}, priority: 3},
		{id: "big-coder", tier: models.TierPowerful, types: []models.TaskType{models.TaskTypeCoding, models.TaskTypeReview}, priority: 8},
	} {
		desc := &models.BackendDescriptor{
			ID:                 s.id,
			Tier:               s.tier,
			SupportedTaskTypes: s.types,
			MaxConcurrent:      2,
			Priority:           s.priority,
		}
		if err := reg.Register(desc, backend.NewMockInvoker(s.id)); err != nil {
			t.Fatal(err)
		}
	}

	opts = append([]Option{WithBackoff(0)}, opts...)
	o := New(RequiredConfig{Registry: reg, Ledger: ledger.New(reg)}, opts...)
	t.Cleanup(func() { o.Close() })
	return o, reg
}

func TestSubmit(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	result := o.Submit(context.Background(), models.Task{
		Type:    models.TaskTypeCoding,
		Payload: "write a parser",
	})

	if !result.Success {
		t.Fatalf("Submit: %s", result.Err)
	}
	// ID and complexity are filled in when omitted.
	if len(result.TaskID) != 8 {
		t.Errorf("generated TaskID = %q, want 8 characters", result.TaskID)
	}
	// Medium complexity has no tier preference, so priority wins.
	if result.BackendID != "big-coder" {
		t.Errorf("BackendID = %s, want big-coder", result.BackendID)
	}
}

func TestSubmitSimpleComplexityPrefersFast(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	result := o.Submit(context.Background(), models.Task{
		Type:       models.TaskTypeCoding,
		Payload:    "rename a variable",
		Complexity: models.ComplexitySimple,
	})
	if !result.Success {
		t.Fatalf("Submit: %s", result.Err)
	}
	if result.BackendID != "fast-coder" {
		t.Errorf("BackendID = %s, want fast-coder for a simple task", result.BackendID)
	}
}

func TestSubmitInvalidTask(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	result := o.Submit(context.Background(), models.Task{Type: "gardening"})
	if result.Success {
		t.Fatal("invalid task type should fail")
	}
	if !strings.Contains(result.Err, "invalid task type") {
		t.Errorf("Err = %q", result.Err)
	}

	result = o.Submit(context.Background(), models.Task{
		Type:       models.TaskTypeCoding,
		Complexity: "extreme",
	})
	if result.Success || !strings.Contains(result.Err, "invalid complexity") {
		t.Errorf("Err = %q, want invalid complexity", result.Err)
	}
}

func TestSubmitPreservesCallerID(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	result := o.Submit(context.Background(), models.Task{
		ID:   "my-task",
		Type: models.TaskTypeCoding,
	})
	if result.TaskID != "my-task" {
		t.Errorf("TaskID = %s, want my-task", result.TaskID)
	}
}

func TestSubmitBatchMixedOutcomes(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	tasks := []models.Task{
		{ID: "ok", Type: models.TaskTypeCoding},
		{ID: "unroutable", Type: models.TaskTypeDeployment},
		{ID: "ok2", Type: models.TaskTypeReview},
	}
	results := o.SubmitBatch(context.Background(), tasks)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if !results[0].Success || !results[2].Success {
		t.Errorf("routable tasks failed: %s / %s", results[0].Err, results[2].Err)
	}
	if results[1].Success {
		t.Error("unroutable task should fail")
	}
	if !strings.Contains(results[1].Err, ErrNoBackend.Error()) {
		t.Errorf("unroutable Err = %q", results[1].Err)
	}
	for i, task := range tasks {
		if results[i].TaskID != task.ID {
			t.Errorf("results[%d].TaskID = %s, want %s", i, results[i].TaskID, task.ID)
		}
	}
}

func TestSelectBackendSurface(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	desc, err := o.SelectBackend(models.TaskTypeReview, models.ComplexityMedium)
	if err != nil {
		t.Fatalf("SelectBackend: %v", err)
	}
	if desc.ID != "big-coder" {
		t.Errorf("selected %s, want big-coder", desc.ID)
	}

	if _, err := o.SelectBackend(models.TaskTypeDeployment, models.ComplexityMedium); err == nil {
		t.Error("unroutable type should error")
	}
}

func TestReportAndRecommendSurface(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	for i := 0; i < 3; i++ {
		result := o.Submit(context.Background(), models.Task{Type: models.TaskTypeCoding})
		if !result.Success {
			t.Fatalf("Submit: %s", result.Err)
		}
	}

	report := o.Report()
	if report.Overall.Successes != 3 {
		t.Errorf("Overall.Successes = %d, want 3", report.Overall.Successes)
	}

	recs := o.Recommend(models.TaskTypeCoding)
	if len(recs) == 0 || recs[0] != "big-coder" {
		t.Errorf("Recommend = %v, want big-coder first", recs)
	}
}

func TestWithMaxAttemptsOption(t *testing.T) {
	o, _ := newTestOrchestrator(t, WithMaxAttempts(1))
	if o.fallback.maxAttempts != 1 {
		t.Errorf("maxAttempts = %d, want 1", o.fallback.maxAttempts)
	}
}

func TestCloseKeepsNewerLogger(t *testing.T) {
	reg, _ := newTestRegistry(t, spec{id: "coder"})
	dir := t.TempDir()
	logPath := filepath.Join(dir, "second.log")

	first, err := NewDebugLogger(filepath.Join(dir, "first.log"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewDebugLogger(logPath)
	if err != nil {
		t.Fatal(err)
	}

	o1 := New(RequiredConfig{Registry: reg, Ledger: ledger.New(reg)}, WithDebugLogger(first))
	o2 := New(RequiredConfig{Registry: reg, Ledger: ledger.New(reg)}, WithDebugLogger(second))
	t.Cleanup(func() { o2.Close() })

	// Closing the older orchestrator must not silence the newer one.
	if err := o1.Close(); err != nil {
		t.Fatalf("close first orchestrator: %v", err)
	}
	debugLog("still logging")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "still logging") {
		t.Errorf("second log = %q, want message written after first Close", data)
	}
}
