package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/calder-labs/maestro/internal/backend"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List configured backends",
	Long: `List the backends in the active catalog with their tier, supported
task types, priority, and concurrency limit.`,
	RunE: runBackends,
}

func init() {
	backendsCmd.Flags().StringVar(&engineCatalog, "catalog", "", "Path to a backend catalog YAML file (default: built-in catalog)")
}

func runBackends(cmd *cobra.Command, args []string) error {
	cat := backend.DefaultCatalog()
	if engineCatalog != "" {
		var err error
		cat, err = backend.LoadCatalog(engineCatalog)
		if err != nil {
			return err
		}
	}

	for _, entry := range cat.Backends {
		types := make([]string, len(entry.SupportedTaskTypes))
		for i, t := range entry.SupportedTaskTypes {
			types[i] = string(t)
		}
		fmt.Printf("%s\n", color.CyanString(entry.ID))
		fmt.Printf("  tier=%s priority=%d concurrency=%d cost=%.1f\n",
			entry.Tier, entry.Priority, entry.MaxConcurrent, entry.CostWeight)
		fmt.Printf("  tasks: %s\n", strings.Join(types, ", "))
	}
	return nil
}
