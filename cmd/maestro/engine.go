package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calder-labs/maestro/internal/backend"
	"github.com/calder-labs/maestro/internal/config"
	"github.com/calder-labs/maestro/internal/ledger"
	"github.com/calder-labs/maestro/internal/orchestrator"
	"github.com/calder-labs/maestro/pkg/models"
)

var (
	engineCatalog   string
	engineDebugLog  string
	engineNoHistory bool
	engineDiscover  bool
)

// addEngineFlags registers the flags shared by commands that construct a
// full engine.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&engineCatalog, "catalog", "", "Path to a backend catalog YAML file (default: built-in catalog)")
	cmd.Flags().StringVar(&engineDebugLog, "debug-log", "", "Write a detailed execution log to this file")
	cmd.Flags().BoolVar(&engineNoHistory, "no-history", false, "Skip loading and persisting performance history")
	cmd.Flags().BoolVar(&engineDiscover, "discover", false, "Discover installed Ollama models and add them to the registry")
}

// engine bundles the orchestrator with the pieces commands need to report
// on it and tear it down.
type engine struct {
	cfg      *config.Config
	registry *backend.Registry
	ledger   *ledger.Ledger
	store    *ledger.Store
	orch     *orchestrator.Orchestrator
	watcher  *backend.CatalogWatcher
}

// buildEngine loads configuration, constructs the backend registry from
// the catalog, replays persisted history, and wires the orchestrator.
func buildEngine(ctx context.Context) (*engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cat := backend.DefaultCatalog()
	if engineCatalog != "" {
		cat, err = backend.LoadCatalog(engineCatalog)
		if err != nil {
			return nil, err
		}
	}

	creds := backend.Credentials{
		AnthropicAPIKey: cfg.Anthropic.APIKey,
		UseAWSBedrock:   cfg.Anthropic.UseAWSBedrock,
		AWSRegion:       cfg.Anthropic.AWSRegion,
		AWSProfile:      cfg.Anthropic.AWSProfile,
		OpenAIAPIKey:    cfg.OpenAI.APIKey,
		OpenAIBaseURL:   cfg.OpenAI.BaseURL,
		GoogleAPIKey:    cfg.Google.APIKey,
		OllamaBaseURL:   cfg.Ollama.BaseURL,
	}

	registry, err := backend.BuildRegistry(cat, creds)
	if err != nil {
		return nil, err
	}

	if engineDiscover || cfg.Ollama.Discover {
		if err := backend.DiscoverOllama(ctx, registry, cfg.Ollama.BaseURL); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Ollama discovery failed: %v\n", err)
		}
	}

	led := ledger.New(registry)

	var store *ledger.Store
	if cfg.History.Enabled && !engineNoHistory {
		dbPath := cfg.History.Path
		if dbPath == "" {
			dbPath = ledger.DefaultDBPath()
		}
		store, err = ledger.NewStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		if err := store.Replay(led); err != nil {
			store.Close()
			return nil, fmt.Errorf("replay history: %w", err)
		}
		led.AttachStore(store)
	}

	opts := []orchestrator.Option{
		orchestrator.WithMaxAttempts(cfg.Defaults.MaxAttempts),
		orchestrator.WithPreferCheapSimple(cfg.Defaults.PreferCheapSimple),
		orchestrator.WithTierTimeout(models.TierFast, cfg.Timeouts.Fast),
		orchestrator.WithTierTimeout(models.TierBalanced, cfg.Timeouts.Balanced),
		orchestrator.WithTierTimeout(models.TierPowerful, cfg.Timeouts.Powerful),
	}
	if cfg.Defaults.Backoff > 0 {
		opts = append(opts, orchestrator.WithBackoff(cfg.Defaults.Backoff))
	}
	if engineDebugLog != "" {
		logger, err := orchestrator.NewDebugLogger(engineDebugLog)
		if err != nil {
			return nil, fmt.Errorf("open debug log: %w", err)
		}
		opts = append(opts, orchestrator.WithDebugLogger(logger))
	}

	orch := orchestrator.New(orchestrator.RequiredConfig{
		Registry: registry,
		Ledger:   led,
	}, opts...)

	// Pick up backends added to the catalog file while tasks are running.
	var watcher *backend.CatalogWatcher
	if engineCatalog != "" {
		watcher, err = backend.WatchCatalog(engineCatalog, func(path string) {
			updated, err := backend.LoadCatalog(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: catalog reload failed: %v\n", err)
				return
			}
			added, err := backend.MergeCatalog(registry, updated, creds)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: catalog merge failed: %v\n", err)
			}
			for _, id := range added {
				orch.Loads().Ensure(id, registry.Descriptor(id).MaxConcurrent)
			}
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: catalog watch failed: %v\n", err)
		}
	}

	return &engine{
		cfg:      cfg,
		registry: registry,
		ledger:   led,
		store:    store,
		orch:     orch,
		watcher:  watcher,
	}, nil
}

func (e *engine) Close() {
	if e.watcher != nil {
		e.watcher.Close()
	}
	e.orch.Close()
	if e.store != nil {
		e.store.Close()
	}
}
