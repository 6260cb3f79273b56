package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/calder-labs/maestro/pkg/models"
)

var batchShowOutput bool

// batchFile is the YAML shape of a task batch file.
type batchFile struct {
	Tasks []batchTask `yaml:"tasks"`
}

type batchTask struct {
	ID         string        `yaml:"id"`
	Type       string        `yaml:"type"`
	Payload    string        `yaml:"payload"`
	Complexity string        `yaml:"complexity"`
	Deadline   time.Duration `yaml:"deadline"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Run a batch of tasks in parallel",
	Long: `Run every task in a YAML batch file concurrently, respecting
per-backend concurrency limits.

The file lists tasks under a top-level "tasks" key:

  tasks:
    - type: coding
      payload: "Write a binary search in Go"
      complexity: medium
    - type: documentation
      payload: "Document the REST API endpoints"

One failed task does not stop the others; the exit code is non-zero if
any task failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().BoolVar(&batchShowOutput, "show-output", false, "Print each task's full output")
	addEngineFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read batch file: %w", err)
	}

	var file batchFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse batch file: %w", err)
	}
	if len(file.Tasks) == 0 {
		return fmt.Errorf("batch file defines no tasks")
	}

	tasks := make([]models.Task, len(file.Tasks))
	for i, bt := range file.Tasks {
		tasks[i] = models.Task{
			ID:         bt.ID,
			Type:       models.TaskType(bt.Type),
			Payload:    bt.Payload,
			Complexity: models.Complexity(bt.Complexity),
			Deadline:   bt.Deadline,
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	eng, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	fmt.Printf("Running %d tasks...\n\n", len(tasks))
	start := time.Now()
	results := eng.orch.SubmitBatch(ctx, tasks)

	failed := 0
	for _, result := range results {
		if result.Success {
			fmt.Printf("%s %s [%s] quality=%.2f latency=%s\n",
				color.GreenString("✓"), result.TaskID, result.BackendID,
				result.QualityScore, result.Latency.Round(time.Millisecond))
			if batchShowOutput {
				fmt.Println(result.Output)
				fmt.Println()
			}
		} else {
			failed++
			fmt.Printf("%s %s: %s\n", color.RedString("✗"), result.TaskID, result.Err)
		}
	}

	fmt.Printf("\n%d/%d tasks succeeded in %s\n",
		len(results)-failed, len(results), time.Since(start).Round(time.Millisecond))

	if failed > 0 {
		exitCode = 1
	}
	return nil
}
