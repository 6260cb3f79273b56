package backend

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/calder-labs/maestro/pkg/models"
)

// CatalogEntry pairs a backend descriptor with the provider details needed
// to construct its invoker.
type CatalogEntry struct {
	models.BackendDescriptor `yaml:",inline"`

	// Provider selects the invoker implementation: "ollama", "openai",
	// "anthropic", "google", or "mock". Defaults to "ollama".
	Provider string `yaml:"provider"`
	// Model is the provider-side model name. Defaults to the entry ID.
	Model string `yaml:"model"`
}

// Catalog is the YAML shape of a backend catalog file.
type Catalog struct {
	Backends []CatalogEntry `yaml:"backends"`
}

// Credentials holds the provider credentials used when constructing
// invokers from a catalog.
type Credentials struct {
	AnthropicAPIKey string
	UseAWSBedrock   bool
	AWSRegion       string
	AWSProfile      string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	GoogleAPIKey    string
	OllamaBaseURL   string
}

// LoadCatalog reads a backend catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses a backend catalog from YAML bytes.
func ParseCatalog(data []byte) (*Catalog, error) {
	cat := &Catalog{}
	if err := yaml.Unmarshal(data, cat); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(cat.Backends) == 0 {
		return nil, fmt.Errorf("catalog defines no backends")
	}
	return cat, nil
}

// BuildRegistry constructs a registry from a catalog, creating an invoker
// for each entry using the given credentials.
func BuildRegistry(cat *Catalog, creds Credentials) (*Registry, error) {
	reg := NewRegistry()
	for i := range cat.Backends {
		entry := &cat.Backends[i]
		invoker, err := buildInvoker(entry, creds)
		if err != nil {
			return nil, fmt.Errorf("backend %q: %w", entry.ID, err)
		}
		desc := entry.BackendDescriptor
		if err := reg.Register(&desc, invoker); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// MergeCatalog appends catalog entries missing from the registry. Used by
// the catalog watcher to pick up newly declared backends without a
// restart; existing entries are left untouched. Returns the ids added.
func MergeCatalog(reg *Registry, cat *Catalog, creds Credentials) ([]string, error) {
	var added []string
	for i := range cat.Backends {
		entry := &cat.Backends[i]
		if reg.Has(entry.ID) {
			continue
		}
		invoker, err := buildInvoker(entry, creds)
		if err != nil {
			return added, fmt.Errorf("backend %q: %w", entry.ID, err)
		}
		desc := entry.BackendDescriptor
		reg.Append(&desc, invoker)
		added = append(added, entry.ID)
	}
	return added, nil
}

func buildInvoker(entry *CatalogEntry, creds Credentials) (Invoker, error) {
	model := entry.Model
	if model == "" {
		model = entry.ID
	}

	switch strings.ToLower(entry.Provider) {
	case "", "ollama":
		return NewOllamaInvoker(model, creds.OllamaBaseURL), nil
	case "openai", "openrouter":
		return NewOpenAIInvoker(model, creds.OpenAIAPIKey, creds.OpenAIBaseURL)
	case "anthropic":
		return NewAnthropicInvoker(AnthropicConfig{
			Model:         model,
			APIKey:        creds.AnthropicAPIKey,
			UseAWSBedrock: creds.UseAWSBedrock,
			AWSRegion:     creds.AWSRegion,
			AWSProfile:    creds.AWSProfile,
		})
	case "google":
		return NewGoogleInvoker(model, creds.GoogleAPIKey)
	case "mock":
		return NewMockInvoker(model).WithDefaultResponse("mock response from " + model), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", entry.Provider)
	}
}

// DiscoverOllama queries a running Ollama server and appends any installed
// models missing from the registry. Discovered models get a balanced
// general-purpose descriptor.
func DiscoverOllama(ctx context.Context, reg *Registry, baseURL string) error {
	names, err := ListOllamaModels(ctx, baseURL)
	if err != nil {
		return err
	}
	for _, name := range names {
		if reg.Has(name) {
			continue
		}
		reg.Append(&models.BackendDescriptor{
			ID:   name,
			Tier: models.TierBalanced,
			SupportedTaskTypes: []models.TaskType{
				models.TaskTypePlanning,
				models.TaskTypeCoding,
				models.TaskTypeReview,
			},
			MaxConcurrent: 2,
			Priority:      5,
			CostWeight:    0.3,
			MaxTokens:     4096,
			Temperature:   0.7,
		}, NewOllamaInvoker(name, baseURL))
	}
	return nil
}

// DefaultCatalog returns the built-in backend catalog covering common
// locally hosted models.
func DefaultCatalog() *Catalog {
	fastTypes := []models.TaskType{models.TaskTypePlanning, models.TaskTypeTesting, models.TaskTypeDocumentation}
	codeTypes := []models.TaskType{models.TaskTypeCoding, models.TaskTypeReview, models.TaskTypeDebugging}

	return &Catalog{Backends: []CatalogEntry{
		{BackendDescriptor: models.BackendDescriptor{
			ID: "llama2:7b-chat", Tier: models.TierFast,
			SupportedTaskTypes: fastTypes,
			MaxConcurrent:      3, Priority: 3, CostWeight: 0.1,
			MaxTokens: 4096, Temperature: 0.7,
		}},
		{BackendDescriptor: models.BackendDescriptor{
			ID: "mistral:7b-instruct", Tier: models.TierFast,
			SupportedTaskTypes: fastTypes,
			MaxConcurrent:      3, Priority: 4, CostWeight: 0.1,
			MaxTokens: 4096, Temperature: 0.7,
		}},
		{BackendDescriptor: models.BackendDescriptor{
			ID: "llama2:13b-chat", Tier: models.TierBalanced,
			SupportedTaskTypes: []models.TaskType{models.TaskTypePlanning, models.TaskTypeReview, models.TaskTypeDocumentation},
			MaxConcurrent:      2, Priority: 5, CostWeight: 0.3,
			MaxTokens: 4096, Temperature: 0.7,
		}},
		{BackendDescriptor: models.BackendDescriptor{
			ID: "codellama:13b-instruct", Tier: models.TierBalanced,
			SupportedTaskTypes: codeTypes,
			MaxConcurrent:      2, Priority: 6, CostWeight: 0.3,
			MaxTokens: 4096, Temperature: 0.3,
		}},
		{BackendDescriptor: models.BackendDescriptor{
			ID: "deepseek-coder:33b", Tier: models.TierPowerful,
			SupportedTaskTypes: codeTypes,
			MaxConcurrent:      1, Priority: 8, CostWeight: 0.8,
			MaxTokens: 8192, Temperature: 0.2,
		}},
		{BackendDescriptor: models.BackendDescriptor{
			ID: "codellama:34b-instruct", Tier: models.TierPowerful,
			SupportedTaskTypes: codeTypes,
			MaxConcurrent:      1, Priority: 7, CostWeight: 0.8,
			MaxTokens: 8192, Temperature: 0.2,
		}},
		{BackendDescriptor: models.BackendDescriptor{
			ID: "wizardcoder:34b", Tier: models.TierPowerful,
			SupportedTaskTypes: codeTypes,
			MaxConcurrent:      1, Priority: 9, CostWeight: 0.8,
			MaxTokens: 8192, Temperature: 0.2,
		}},
		{BackendDescriptor: models.BackendDescriptor{
			ID: "llama2:7b", Tier: models.TierFast,
			SupportedTaskTypes: []models.TaskType{models.TaskTypePlanning, models.TaskTypeTesting},
			MaxConcurrent:      3, Priority: 2, CostWeight: 0.1,
			MaxTokens: 4096, Temperature: 0.7,
		}},
		{BackendDescriptor: models.BackendDescriptor{
			ID: "neural-chat:7b", Tier: models.TierFast,
			SupportedTaskTypes: []models.TaskType{models.TaskTypePlanning, models.TaskTypeDocumentation},
			MaxConcurrent:      3, Priority: 3, CostWeight: 0.1,
			MaxTokens: 4096, Temperature: 0.7,
		}},
	}}
}
