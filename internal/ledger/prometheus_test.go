package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/calder-labs/maestro/pkg/models"
)

func TestCollectorExposesLedger(t *testing.T) {
	l := New(nil)
	l.Record("b1", models.TaskTypeCoding, 2*time.Second, 0.8, true)
	l.Record("b1", models.TaskTypeCoding, time.Second, 0, false)
	l.AddCost("b1", 0.25)

	registry := prometheus.NewRegistry()
	if err := registry.Register(NewCollector(l)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	expected := `
		# HELP maestro_backend_attempts_total Total attempts per backend and task type.
		# TYPE maestro_backend_attempts_total counter
		maestro_backend_attempts_total{backend="b1",task_type="coding"} 2
		# HELP maestro_backend_successes_total Successful attempts per backend and task type.
		# TYPE maestro_backend_successes_total counter
		maestro_backend_successes_total{backend="b1",task_type="coding"} 1
		# HELP maestro_backend_cost_dollars_total Estimated spend per backend.
		# TYPE maestro_backend_cost_dollars_total counter
		maestro_backend_cost_dollars_total{backend="b1"} 0.25
	`
	err := testutil.GatherAndCompare(registry, strings.NewReader(expected),
		"maestro_backend_attempts_total",
		"maestro_backend_successes_total",
		"maestro_backend_cost_dollars_total")
	if err != nil {
		t.Errorf("GatherAndCompare: %v", err)
	}
}

func TestCollectorEmptyLedger(t *testing.T) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(NewCollector(New(nil))); err != nil {
		t.Fatalf("Register: %v", err)
	}
	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) != 0 {
		t.Errorf("empty ledger exported %d metric families", len(families))
	}
}
