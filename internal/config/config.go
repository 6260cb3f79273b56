// Package config handles configuration loading and management for Maestro.
// It supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for Maestro.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Google    GoogleConfig    `mapstructure:"google"`
	Ollama    OllamaConfig    `mapstructure:"ollama"`
	Defaults  DefaultsConfig  `mapstructure:"defaults"`
	Timeouts  TimeoutsConfig  `mapstructure:"timeouts"`
	History   HistoryConfig   `mapstructure:"history"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	// UseAWSBedrock routes Claude calls through AWS Bedrock.
	UseAWSBedrock bool   `mapstructure:"use_aws_bedrock"`
	AWSRegion     string `mapstructure:"aws_region"`
	AWSProfile    string `mapstructure:"aws_profile"`
}

// OpenAIConfig holds OpenAI-compatible API settings. Pointing BaseURL at
// OpenRouter routes requests through its model catalog.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// GoogleConfig holds Google GenAI settings.
type GoogleConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// OllamaConfig holds local Ollama server settings.
type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Discover appends models found on the running server to the registry
	// with a default balanced descriptor.
	Discover bool `mapstructure:"discover"`
}

// DefaultsConfig holds engine-wide defaults.
type DefaultsConfig struct {
	// MaxAttempts is the fallback attempt limit per task.
	MaxAttempts int `mapstructure:"max_attempts"`
	// Backoff is the fixed delay between fallback attempts.
	Backoff time.Duration `mapstructure:"backoff"`
	// PreferCheapSimple biases simple tasks toward cheaper backends.
	PreferCheapSimple bool `mapstructure:"prefer_cheap_simple"`
}

// TimeoutsConfig holds per-tier attempt timeouts.
type TimeoutsConfig struct {
	Fast     time.Duration `mapstructure:"fast"`
	Balanced time.Duration `mapstructure:"balanced"`
	Powerful time.Duration `mapstructure:"powerful"`
}

// HistoryConfig holds performance history persistence settings.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables.
// Precedence (highest to lowest):
//  1. Environment variables (ANTHROPIC_API_KEY, OPENAI_API_KEY, ...)
//  2. Project config (.maestro.yaml in current directory or parent)
//  3. User config (~/.config/maestro/config.yaml)
//  4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	v.BindEnv("google.api_key", "GOOGLE_API_KEY")
	v.BindEnv("ollama.base_url", "OLLAMA_HOST")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references in credentials
	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	cfg.OpenAI.APIKey = expandEnv(cfg.OpenAI.APIKey)
	cfg.Google.APIKey = expandEnv(cfg.Google.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	cfg.OpenAI.APIKey = expandEnv(cfg.OpenAI.APIKey)
	cfg.Google.APIKey = expandEnv(cfg.Google.APIKey)

	return cfg, nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("google.api_key", "")
	v.SetDefault("ollama.base_url", "")
	v.SetDefault("ollama.discover", false)

	v.SetDefault("defaults.max_attempts", 3)
	v.SetDefault("defaults.backoff", "1s")
	v.SetDefault("defaults.prefer_cheap_simple", true)

	v.SetDefault("timeouts.fast", "30s")
	v.SetDefault("timeouts.balanced", "60s")
	v.SetDefault("timeouts.powerful", "120s")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
}

// getUserConfigDir returns the XDG config directory for Maestro.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "maestro")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "maestro")
	}
	return filepath.Join(home, ".config", "maestro")
}

// findProjectConfig searches for .maestro.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".maestro.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			MaxAttempts:       3,
			Backoff:           time.Second,
			PreferCheapSimple: true,
		},
		Timeouts: TimeoutsConfig{
			Fast:     30 * time.Second,
			Balanced: 60 * time.Second,
			Powerful: 120 * time.Second,
		},
		History: HistoryConfig{Enabled: true},
	}
}
