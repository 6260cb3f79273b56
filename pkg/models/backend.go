package models

// BackendDescriptor identifies one callable model or service and the
// scheduling metadata used to pick among backends.
type BackendDescriptor struct {
	// ID is the unique backend identifier (e.g. "codellama:13b-instruct").
	ID string `json:"id" yaml:"id"`
	// Tier is the coarse speed/quality classification.
	Tier Tier `json:"tier" yaml:"tier"`
	// SupportedTaskTypes lists the task types this backend can serve.
	// Must be non-empty.
	SupportedTaskTypes []TaskType `json:"supported_task_types" yaml:"supported_task_types"`
	// MaxConcurrent is the concurrency ceiling for this backend. Must be >= 1.
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`
	// Priority orders backends during selection. Higher is preferred.
	Priority int `json:"priority" yaml:"priority"`
	// CostWeight is the relative cost of using this backend.
	CostWeight float64 `json:"cost_weight" yaml:"cost_weight"`
	// Reliability is the running success rate in [0,1]. Written only by
	// the performance ledger.
	Reliability float64 `json:"reliability" yaml:"reliability"`
	// MaxTokens is the generation token limit passed to the backend.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
	// Temperature is the sampling temperature passed to the backend.
	Temperature float64 `json:"temperature" yaml:"temperature"`
	// CostPer1KTokens is the estimated dollar cost per thousand tokens.
	CostPer1KTokens float64 `json:"cost_per_1k_tokens" yaml:"cost_per_1k_tokens"`
}

// Supports returns true if the backend can serve the given task type.
func (d *BackendDescriptor) Supports(taskType TaskType) bool {
	for _, t := range d.SupportedTaskTypes {
		if t == taskType {
			return true
		}
	}
	return false
}

// Validate checks the descriptor invariants.
func (d *BackendDescriptor) Validate() error {
	if d.ID == "" {
		return ErrEmptyBackendID
	}
	if !d.Tier.Valid() {
		return ErrInvalidTier
	}
	if len(d.SupportedTaskTypes) == 0 {
		return ErrNoTaskTypes
	}
	for _, t := range d.SupportedTaskTypes {
		if !t.Valid() {
			return ErrInvalidTaskType
		}
	}
	if d.MaxConcurrent < 1 {
		return ErrInvalidConcurrency
	}
	if d.CostWeight < 0 {
		return ErrNegativeCostWeight
	}
	return nil
}
