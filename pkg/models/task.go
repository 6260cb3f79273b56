package models

import "time"

// TaskType identifies the kind of generation work a task requests.
type TaskType string

const (
	// TaskTypePlanning is for specifications and architecture planning.
	TaskTypePlanning TaskType = "planning"
	// TaskTypeCoding is for writing production code.
	TaskTypeCoding TaskType = "coding"
	// TaskTypeReview is for reviewing code quality and security.
	TaskTypeReview TaskType = "review"
	// TaskTypeTesting is for writing tests.
	TaskTypeTesting TaskType = "testing"
	// TaskTypeDebugging is for finding and fixing issues.
	TaskTypeDebugging TaskType = "debugging"
	// TaskTypeDocumentation is for writing documentation.
	TaskTypeDocumentation TaskType = "documentation"
	// TaskTypeDeployment is for deployment configuration work.
	TaskTypeDeployment TaskType = "deployment"
)

// AllTaskTypes lists every known task type.
var AllTaskTypes = []TaskType{
	TaskTypePlanning,
	TaskTypeCoding,
	TaskTypeReview,
	TaskTypeTesting,
	TaskTypeDebugging,
	TaskTypeDocumentation,
	TaskTypeDeployment,
}

// Valid returns true if the task type is a known value.
func (t TaskType) Valid() bool {
	switch t {
	case TaskTypePlanning, TaskTypeCoding, TaskTypeReview, TaskTypeTesting,
		TaskTypeDebugging, TaskTypeDocumentation, TaskTypeDeployment:
		return true
	default:
		return false
	}
}

// Complexity is the caller's estimate of how demanding a task is.
type Complexity string

const (
	// ComplexitySimple marks quick tasks suited to fast, cheap backends.
	ComplexitySimple Complexity = "simple"
	// ComplexityMedium marks standard tasks with no tier preference.
	ComplexityMedium Complexity = "medium"
	// ComplexityComplex marks demanding tasks suited to powerful backends.
	ComplexityComplex Complexity = "complex"
)

// Valid returns true if the complexity is a known value.
func (c Complexity) Valid() bool {
	switch c {
	case ComplexitySimple, ComplexityMedium, ComplexityComplex:
		return true
	default:
		return false
	}
}

// Task represents one unit of requested generation work.
type Task struct {
	// ID is the unique identifier for this task. Generated if empty.
	ID string `json:"id"`
	// Type is the kind of work requested.
	Type TaskType `json:"type"`
	// Payload is the prompt or instruction to send to the backend.
	Payload string `json:"payload"`
	// Complexity is the caller's complexity estimate.
	Complexity Complexity `json:"complexity"`
	// Deadline is an optional per-task time limit. Zero means no deadline.
	Deadline time.Duration `json:"deadline,omitempty"`
}

// Attempt records one failed try against a backend during fallback.
type Attempt struct {
	// BackendID is the backend that was tried.
	BackendID string `json:"backend_id"`
	// Err is the error message from the failed attempt.
	Err string `json:"error"`
}

// TaskResult is the outcome of one task's attempt chain.
type TaskResult struct {
	// TaskID is the task this result belongs to.
	TaskID string `json:"task_id"`
	// BackendID is the backend that produced the output, or empty on
	// total failure.
	BackendID string `json:"backend_id,omitempty"`
	// Output is the generated text.
	Output string `json:"output,omitempty"`
	// Success indicates whether any attempt succeeded.
	Success bool `json:"success"`
	// QualityScore is the heuristic quality estimate in [0,1].
	QualityScore float64 `json:"quality_score"`
	// Latency is the wall-clock time of the successful attempt, or the
	// total time spent when every attempt failed.
	Latency time.Duration `json:"latency"`
	// TokensUsed is an approximate token count for the output.
	TokensUsed int `json:"tokens_used"`
	// Cost is the estimated cost in dollars for the successful attempt.
	Cost float64 `json:"cost"`
	// Attempts lists every failed try, in order.
	Attempts []Attempt `json:"attempts,omitempty"`
	// Err contains the terminal error message when Success is false.
	Err string `json:"error,omitempty"`
}
