package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
anthropic:
  api_key: test-anthropic-key
openai:
  base_url: https://openrouter.ai/api/v1
ollama:
  discover: true
defaults:
  max_attempts: 5
  backoff: 250ms
  prefer_cheap_simple: false
timeouts:
  fast: 10s
  powerful: 300s
history:
  enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-anthropic-key" {
		t.Errorf("Anthropic.APIKey = %q", cfg.Anthropic.APIKey)
	}
	if cfg.OpenAI.BaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("OpenAI.BaseURL = %q", cfg.OpenAI.BaseURL)
	}
	if !cfg.Ollama.Discover {
		t.Error("Ollama.Discover = false")
	}
	if cfg.Defaults.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", cfg.Defaults.MaxAttempts)
	}
	if cfg.Defaults.Backoff != 250*time.Millisecond {
		t.Errorf("Backoff = %v, want 250ms", cfg.Defaults.Backoff)
	}
	if cfg.Defaults.PreferCheapSimple {
		t.Error("PreferCheapSimple = true, want false")
	}
	if cfg.Timeouts.Fast != 10*time.Second {
		t.Errorf("Timeouts.Fast = %v, want 10s", cfg.Timeouts.Fast)
	}
	// Unset values fall back to defaults.
	if cfg.Timeouts.Balanced != 60*time.Second {
		t.Errorf("Timeouts.Balanced = %v, want default 60s", cfg.Timeouts.Balanced)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
}

func TestLoadFromPathDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.Defaults.MaxAttempts != 3 {
		t.Errorf("default MaxAttempts = %d, want 3", cfg.Defaults.MaxAttempts)
	}
	if cfg.Defaults.Backoff != time.Second {
		t.Errorf("default Backoff = %v, want 1s", cfg.Defaults.Backoff)
	}
	if !cfg.Defaults.PreferCheapSimple {
		t.Error("default PreferCheapSimple = false, want true")
	}
	if cfg.Timeouts.Fast != 30*time.Second || cfg.Timeouts.Powerful != 120*time.Second {
		t.Errorf("default timeouts = %v/%v", cfg.Timeouts.Fast, cfg.Timeouts.Powerful)
	}
	if !cfg.History.Enabled {
		t.Error("default History.Enabled = false, want true")
	}
}

func TestLoadFromPathMissing(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing config file should fail")
	}
}

func TestLoadFromPathExpandsEnv(t *testing.T) {
	t.Setenv("MAESTRO_TEST_KEY", "from-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "openai:\n  api_key: ${MAESTRO_TEST_KEY}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.OpenAI.APIKey != "from-env" {
		t.Errorf("APIKey = %q, want env expansion", cfg.OpenAI.APIKey)
	}
}

func TestGetUserConfigDirXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	if got := getUserConfigDir(); got != filepath.Join("/tmp/xdg-test", "maestro") {
		t.Errorf("getUserConfigDir = %q", got)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Defaults.MaxAttempts != 3 || !cfg.Defaults.PreferCheapSimple {
		t.Errorf("Default() defaults = %+v", cfg.Defaults)
	}
	if cfg.Timeouts.Balanced != 60*time.Second {
		t.Errorf("Default() balanced timeout = %v", cfg.Timeouts.Balanced)
	}
}
