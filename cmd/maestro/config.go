package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/calder-labs/maestro/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long: `Display the resolved Maestro configuration.

Configuration is stored at ~/.config/maestro/config.yaml
Project-specific overrides can be placed in .maestro.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		displayConfig(cfg)
	},
}

// displayConfig prints the resolved configuration with credentials masked.
func displayConfig(cfg *config.Config) {
	fmt.Println("API Keys:")
	fmt.Printf("  anthropic: %s\n", maskKey(cfg.Anthropic.APIKey))
	fmt.Printf("  openai:    %s\n", maskKey(cfg.OpenAI.APIKey))
	fmt.Printf("  google:    %s\n", maskKey(cfg.Google.APIKey))
	if cfg.Anthropic.UseAWSBedrock {
		fmt.Printf("  bedrock:   enabled (region=%s)\n", cfg.Anthropic.AWSRegion)
	}

	fmt.Println("\nOllama:")
	baseURL := cfg.Ollama.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434 (default)"
	}
	fmt.Printf("  base_url: %s\n", baseURL)
	fmt.Printf("  discover: %v\n", cfg.Ollama.Discover)

	fmt.Println("\nDefaults:")
	fmt.Printf("  max_attempts:        %d\n", cfg.Defaults.MaxAttempts)
	fmt.Printf("  backoff:             %s\n", cfg.Defaults.Backoff)
	fmt.Printf("  prefer_cheap_simple: %v\n", cfg.Defaults.PreferCheapSimple)

	fmt.Println("\nTimeouts:")
	fmt.Printf("  fast:     %s\n", cfg.Timeouts.Fast)
	fmt.Printf("  balanced: %s\n", cfg.Timeouts.Balanced)
	fmt.Printf("  powerful: %s\n", cfg.Timeouts.Powerful)

	fmt.Println("\nHistory:")
	fmt.Printf("  enabled: %v\n", cfg.History.Enabled)
	if cfg.History.Path != "" {
		fmt.Printf("  path:    %s\n", cfg.History.Path)
	}

	fmt.Printf("\nUser config:    %s\n", config.GetUserConfigPath())
	if projectPath := config.GetProjectConfigPath(); projectPath != "" {
		fmt.Printf("Project config: %s\n", projectPath)
	}
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return "****"
}
