package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "maestro",
	Short: "Multi-backend LLM task orchestrator",
	Long: `Maestro routes generation tasks across a pool of LLM backends,
picking the best backend for each task by capability, tier, priority,
and observed reliability.

Core capabilities:
- Matches tasks to backends by task type and complexity
- Falls back to alternate backends when one fails
- Dispatches batches in parallel with per-backend concurrency limits
- Scores output quality and keeps a performance ledger
- Recommends backends from accumulated history`,
}

// exitCode is set by commands that complete their work but need a
// non-zero exit status, such as a failed task. Returning normally and
// exiting here keeps deferred cleanup (history store, watcher, debug
// logger) running on the failure path.
var exitCode int

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(backendsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
