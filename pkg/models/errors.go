package models

import "errors"

// Validation errors for backend descriptors.
var (
	ErrEmptyBackendID     = errors.New("backend id must not be empty")
	ErrInvalidTier        = errors.New("unknown backend tier")
	ErrNoTaskTypes        = errors.New("backend must support at least one task type")
	ErrInvalidTaskType    = errors.New("unknown task type")
	ErrInvalidConcurrency = errors.New("max_concurrent must be at least 1")
	ErrNegativeCostWeight = errors.New("cost_weight must not be negative")
)
