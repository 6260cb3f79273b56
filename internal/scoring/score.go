// Package scoring provides the heuristic quality scorer for task output.
package scoring

import (
	"strings"
	"time"

	"github.com/calder-labs/maestro/pkg/models"
)

const (
	baseScore = 0.5
	// lengthPlateau is the output length at which the length term saturates.
	lengthPlateau = 1000
	lengthWeight  = 0.2
	// speedHorizon is the latency beyond which the speed term vanishes.
	speedHorizon = 5 * time.Second
	speedWeight  = 0.1
	// taskBonusCap bounds the task-type-specific bonus.
	taskBonusCap = 0.3
)

// Keyword signals per task type. Each hit adds 0.1 up to the task bonus cap.
var (
	reviewKeywords        = []string{"security", "performance", "best practice", "improvement", "issue"}
	planningKeywords      = []string{"architecture", "structure", "components", "database", "api"}
	testingKeywords       = []string{"test", "assert", "expect", "coverage", "scenario"}
	documentationKeywords = []string{"usage", "example", "parameter", "return", "description"}
	codeSyntaxKeywords    = []string{"function", "class", "import", "export"}
)

// Score produces a comparable quality estimate in [0,1] for a completed
// task's output. It is a pure function of its inputs: a base of 0.5, plus
// a length term that saturates, a speed term that vanishes past the
// horizon, and a task-type keyword/structure bonus.
func Score(output string, taskType models.TaskType, latency time.Duration) float64 {
	lengthFactor := min(float64(len(output))/lengthPlateau, 1.0) * lengthWeight

	speedFactor := 0.0
	if latency < speedHorizon {
		speedFactor = float64(speedHorizon-latency) / float64(speedHorizon) * speedWeight
	}

	score := baseScore + lengthFactor + speedFactor + taskBonus(output, taskType)

	return min(max(score, 0), 1)
}

// taskBonus computes the task-type-specific bonus, capped at taskBonusCap.
func taskBonus(output string, taskType models.TaskType) float64 {
	lower := strings.ToLower(output)

	switch taskType {
	case models.TaskTypeCoding:
		return codingBonus(output, lower)
	case models.TaskTypeReview:
		return keywordBonus(lower, reviewKeywords)
	case models.TaskTypePlanning:
		return keywordBonus(lower, planningKeywords)
	case models.TaskTypeTesting:
		return keywordBonus(lower, testingKeywords)
	case models.TaskTypeDocumentation:
		return keywordBonus(lower, documentationKeywords)
	default:
		// Debugging and deployment have no reliable textual signal.
		return 0.2
	}
}

// codingBonus rewards fenced code blocks, recognizable syntax, and comments.
func codingBonus(output, lower string) float64 {
	bonus := 0.0

	if strings.Contains(output, "```") {
		bonus += 0.2
	}
	for _, kw := range codeSyntaxKeywords {
		if strings.Contains(lower, kw) {
			bonus += 0.2
			break
		}
	}
	if strings.Contains(output, "//") || strings.Contains(output, "#") {
		bonus += 0.1
	}

	return min(bonus, taskBonusCap)
}

// keywordBonus adds 0.1 per matched keyword, capped.
func keywordBonus(lower string, keywords []string) float64 {
	bonus := 0.0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			bonus += 0.1
		}
	}
	return min(bonus, taskBonusCap)
}
