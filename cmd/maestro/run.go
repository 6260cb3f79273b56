package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/calder-labs/maestro/pkg/models"
)

var (
	runComplexity string
	runDeadline   time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run <task-type> <payload>",
	Short: "Run a single task",
	Long: `Run a single task against the best matching backend.

The task type selects which backends are eligible and how the payload
is framed. Complexity (--complexity) biases tier selection:
  - simple:  prefer fast, cheap backends
  - medium:  no tier preference (default)
  - complex: prefer powerful backends

Task types: planning, coding, review, testing, debugging,
documentation, deployment.

Examples:
  maestro run coding "Write a function that reverses a linked list"
  maestro run review --complexity complex "$(cat main.go)"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runComplexity, "complexity", "medium", "Task complexity: simple, medium, or complex")
	runCmd.Flags().DurationVar(&runDeadline, "deadline", 0, "Per-task deadline (overrides tier timeout, e.g. 45s)")
	addEngineFlags(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	taskType := models.TaskType(args[0])
	if !taskType.Valid() {
		return fmt.Errorf("unknown task type %q (valid: %s)", args[0], joinTaskTypes())
	}
	complexity := models.Complexity(runComplexity)
	if !complexity.Valid() {
		return fmt.Errorf("unknown complexity %q (valid: simple, medium, complex)", runComplexity)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	eng, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	task := models.Task{
		Type:       taskType,
		Payload:    strings.Join(args[1:], " "),
		Complexity: complexity,
		Deadline:   runDeadline,
	}

	result := eng.orch.Submit(ctx, task)
	printResult(result)

	if !result.Success {
		exitCode = 1
	}
	return nil
}

// printResult renders a task result to stdout.
func printResult(result models.TaskResult) {
	if result.Success {
		fmt.Printf("%s backend=%s quality=%.2f latency=%s tokens=%d\n",
			color.GreenString("✓"), result.BackendID, result.QualityScore,
			result.Latency.Round(time.Millisecond), result.TokensUsed)
		if result.Cost > 0 {
			fmt.Printf("  cost=$%.4f\n", result.Cost)
		}
		fmt.Println()
		fmt.Println(result.Output)
	} else {
		fmt.Printf("%s task %s failed: %s\n", color.RedString("✗"), result.TaskID, result.Err)
	}

	for _, attempt := range result.Attempts {
		fmt.Fprintf(os.Stderr, "  %s %s: %s\n", color.YellowString("⚠"), attempt.BackendID, attempt.Err)
	}
}

func joinTaskTypes() string {
	names := make([]string, len(models.AllTaskTypes))
	for i, t := range models.AllTaskTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
