package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/calder-labs/maestro/pkg/models"
)

const testCatalogYAML = `
backends:
  - id: codellama:13b-instruct
    tier: balanced
    supported_task_types: [coding, review, debugging]
    max_concurrent: 2
    priority: 6
    cost_weight: 0.3
    max_tokens: 4096
    temperature: 0.3
  - id: wizard
    provider: mock
    model: wizardcoder:34b
    tier: powerful
    supported_task_types: [coding]
    max_concurrent: 1
    priority: 9
    cost_weight: 0.8
`

func TestParseCatalog(t *testing.T) {
	cat, err := ParseCatalog([]byte(testCatalogYAML))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if len(cat.Backends) != 2 {
		t.Fatalf("parsed %d backends, want 2", len(cat.Backends))
	}

	first := cat.Backends[0]
	if first.ID != "codellama:13b-instruct" || first.Tier != models.TierBalanced {
		t.Errorf("first entry = %+v", first.BackendDescriptor)
	}
	if len(first.SupportedTaskTypes) != 3 || first.SupportedTaskTypes[0] != models.TaskTypeCoding {
		t.Errorf("task types = %v", first.SupportedTaskTypes)
	}
	if first.Temperature != 0.3 || first.MaxTokens != 4096 {
		t.Errorf("generation params = %v/%d", first.Temperature, first.MaxTokens)
	}

	second := cat.Backends[1]
	if second.Provider != "mock" || second.Model != "wizardcoder:34b" {
		t.Errorf("second entry provider/model = %s/%s", second.Provider, second.Model)
	}
}

func TestParseCatalogEmpty(t *testing.T) {
	if _, err := ParseCatalog([]byte("backends: []")); err == nil {
		t.Error("empty catalog should fail")
	}
	if _, err := ParseCatalog([]byte("{invalid yaml")); err == nil {
		t.Error("malformed yaml should fail")
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backends.yaml")
	if err := os.WriteFile(path, []byte(testCatalogYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(cat.Backends) != 2 {
		t.Errorf("loaded %d backends, want 2", len(cat.Backends))
	}

	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestBuildRegistry(t *testing.T) {
	cat, err := ParseCatalog([]byte(testCatalogYAML))
	if err != nil {
		t.Fatal(err)
	}

	reg, err := BuildRegistry(cat, Credentials{})
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}
	if reg.Count() != 2 {
		t.Errorf("Count() = %d, want 2", reg.Count())
	}

	// Default provider is ollama; explicit mock provider builds a mock.
	if _, ok := reg.Invoker("codellama:13b-instruct").(*OllamaInvoker); !ok {
		t.Errorf("default provider invoker = %T, want *OllamaInvoker", reg.Invoker("codellama:13b-instruct"))
	}
	if _, ok := reg.Invoker("wizard").(*MockInvoker); !ok {
		t.Errorf("mock provider invoker = %T, want *MockInvoker", reg.Invoker("wizard"))
	}
}

func TestBuildRegistryUnknownProvider(t *testing.T) {
	cat := &Catalog{Backends: []CatalogEntry{{
		BackendDescriptor: *testDescriptor("b1"),
		Provider:          "carrier-pigeon",
	}}}
	if _, err := BuildRegistry(cat, Credentials{}); err == nil {
		t.Error("unknown provider should fail")
	}
}

func TestMergeCatalog(t *testing.T) {
	cat, err := ParseCatalog([]byte(testCatalogYAML))
	if err != nil {
		t.Fatal(err)
	}
	reg, err := BuildRegistry(cat, Credentials{})
	if err != nil {
		t.Fatal(err)
	}

	updated := &Catalog{Backends: append(cat.Backends, CatalogEntry{
		BackendDescriptor: *testDescriptor("newcomer"),
		Provider:          "mock",
	})}

	added, err := MergeCatalog(reg, updated, Credentials{})
	if err != nil {
		t.Fatalf("MergeCatalog: %v", err)
	}
	if len(added) != 1 || added[0] != "newcomer" {
		t.Errorf("added = %v, want [newcomer]", added)
	}
	if reg.Count() != 3 {
		t.Errorf("Count() = %d, want 3", reg.Count())
	}

	// Merging again adds nothing.
	added, err = MergeCatalog(reg, updated, Credentials{})
	if err != nil {
		t.Fatalf("MergeCatalog: %v", err)
	}
	if len(added) != 0 {
		t.Errorf("second merge added %v", added)
	}
}

func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()
	if len(cat.Backends) == 0 {
		t.Fatal("default catalog is empty")
	}

	ids := make(map[string]bool)
	for _, entry := range cat.Backends {
		if err := entry.Validate(); err != nil {
			t.Errorf("default entry %q invalid: %v", entry.ID, err)
		}
		if ids[entry.ID] {
			t.Errorf("duplicate default entry %q", entry.ID)
		}
		ids[entry.ID] = true
	}

	// Every tier is represented.
	tiers := make(map[models.Tier]bool)
	for _, entry := range cat.Backends {
		tiers[entry.Tier] = true
	}
	for _, tier := range []models.Tier{models.TierFast, models.TierBalanced, models.TierPowerful} {
		if !tiers[tier] {
			t.Errorf("default catalog has no %s backend", tier)
		}
	}
}

func TestDiscoverOllama(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[{"name":"llama2:7b"},{"name":"phi3:mini"}]}`))
	}))
	defer server.Close()

	reg := NewRegistry()
	reg.Append(testDescriptor("llama2:7b"), NewMockInvoker("llama2:7b"))

	if err := DiscoverOllama(context.Background(), reg, server.URL); err != nil {
		t.Fatalf("DiscoverOllama: %v", err)
	}

	if reg.Count() != 2 {
		t.Errorf("Count() = %d, want 2 (one discovered)", reg.Count())
	}
	desc := reg.Descriptor("phi3:mini")
	if desc == nil {
		t.Fatal("discovered model not registered")
	}
	if desc.Tier != models.TierBalanced || desc.MaxConcurrent != 2 {
		t.Errorf("discovered descriptor = %+v", desc)
	}
}
