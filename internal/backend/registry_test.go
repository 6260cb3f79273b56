package backend

import (
	"testing"

	"github.com/calder-labs/maestro/pkg/models"
)

func testDescriptor(id string, taskTypes ...models.TaskType) *models.BackendDescriptor {
	if len(taskTypes) == 0 {
		taskTypes = []models.TaskType{models.TaskTypeCoding}
	}
	return &models.BackendDescriptor{
		ID:                 id,
		Tier:               models.TierBalanced,
		SupportedTaskTypes: taskTypes,
		MaxConcurrent:      2,
		Priority:           5,
	}
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(testDescriptor("b1"), NewMockInvoker("b1")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !reg.Has("b1") {
		t.Error("Has(b1) = false after Register")
	}
	if reg.Count() != 1 {
		t.Errorf("Count() = %d, want 1", reg.Count())
	}

	if err := reg.Register(testDescriptor("b1"), NewMockInvoker("b1")); err == nil {
		t.Error("duplicate Register should fail")
	}
	if err := reg.Register(testDescriptor(""), NewMockInvoker("x")); err == nil {
		t.Error("invalid descriptor should fail")
	}
	if err := reg.Register(testDescriptor("b2"), nil); err == nil {
		t.Error("nil invoker should fail")
	}
}

func TestRegistryAppendIgnoresDuplicates(t *testing.T) {
	reg := NewRegistry()
	reg.Append(testDescriptor("b1"), NewMockInvoker("b1"))
	reg.Append(testDescriptor("b1"), NewMockInvoker("b1"))

	if reg.Count() != 1 {
		t.Errorf("Count() = %d, want 1 after duplicate Append", reg.Count())
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	invoker := NewMockInvoker("b1")
	reg.Append(testDescriptor("b1"), invoker)

	if desc := reg.Descriptor("b1"); desc == nil || desc.ID != "b1" {
		t.Errorf("Descriptor(b1) = %v", desc)
	}
	if got := reg.Invoker("b1"); got != invoker {
		t.Error("Invoker(b1) did not return the registered invoker")
	}
	if reg.Descriptor("missing") != nil || reg.Invoker("missing") != nil {
		t.Error("unknown id should return nil")
	}
}

func TestRegistryListSorted(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		reg.Append(testDescriptor(id), NewMockInvoker(id))
	}

	list := reg.List()
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if list[i].ID != want[i] {
			t.Fatalf("List()[%d] = %s, want %s", i, list[i].ID, want[i])
		}
	}
}

func TestRegistrySupporting(t *testing.T) {
	reg := NewRegistry()
	reg.Append(testDescriptor("coder", models.TaskTypeCoding), NewMockInvoker("coder"))
	reg.Append(testDescriptor("planner", models.TaskTypePlanning), NewMockInvoker("planner"))
	reg.Append(testDescriptor("both", models.TaskTypeCoding, models.TaskTypePlanning), NewMockInvoker("both"))

	got := reg.Supporting(models.TaskTypeCoding)
	if len(got) != 2 || got[0].ID != "both" || got[1].ID != "coder" {
		ids := make([]string, len(got))
		for i, d := range got {
			ids[i] = d.ID
		}
		t.Errorf("Supporting(coding) = %v, want [both coder]", ids)
	}

	if got := reg.Supporting(models.TaskTypeDeployment); len(got) != 0 {
		t.Errorf("Supporting(deployment) = %d backends, want 0", len(got))
	}
}

func TestRegistrySetReliability(t *testing.T) {
	reg := NewRegistry()
	reg.Append(testDescriptor("b1"), NewMockInvoker("b1"))

	reg.SetReliability("b1", 0.75)
	if got := reg.Descriptor("b1").Reliability; got != 0.75 {
		t.Errorf("Reliability = %v, want 0.75", got)
	}

	// Unknown ids are a no-op.
	reg.SetReliability("missing", 0.5)
}

func TestRegistryReturnsSnapshots(t *testing.T) {
	reg := NewRegistry()
	reg.Append(testDescriptor("b1"), NewMockInvoker("b1"))

	// A reliability write after the read must not show up in the copy the
	// caller already holds.
	got := reg.Supporting(models.TaskTypeCoding)
	reg.SetReliability("b1", 0.5)
	if got[0].Reliability != 0 {
		t.Errorf("snapshot Reliability = %v after SetReliability, want 0", got[0].Reliability)
	}

	// Mutating a returned descriptor must not reach the registry.
	got[0].Priority = 99
	if p := reg.Descriptor("b1").Priority; p == 99 {
		t.Error("mutating a returned descriptor altered the registry")
	}
}
