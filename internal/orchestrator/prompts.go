package orchestrator

import "github.com/calder-labs/maestro/pkg/models"

// taskInstructions are role framings prepended to each payload, tuned per
// task type.
var taskInstructions = map[models.TaskType]string{
	models.TaskTypePlanning:      "You are a Product Manager. Create a detailed technical specification.",
	models.TaskTypeCoding:        "You are a Senior Full-Stack Developer. Write production-ready code.",
	models.TaskTypeReview:        "You are a Lead Engineer. Review code for quality and security.",
	models.TaskTypeTesting:       "You are a QA Engineer. Create comprehensive tests.",
	models.TaskTypeDebugging:     "You are a Senior Debugger. Find and fix issues.",
	models.TaskTypeDocumentation: "You are a Technical Writer. Create clear documentation.",
	models.TaskTypeDeployment:    "You are a DevOps Engineer. Set up deployment configurations.",
}

// enhancePayload prepends the task-type instruction to the payload.
func enhancePayload(payload string, taskType models.TaskType) string {
	instruction, ok := taskInstructions[taskType]
	if !ok {
		return payload
	}
	return instruction + "\n\n" + payload
}
