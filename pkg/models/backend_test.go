package models

import (
	"errors"
	"testing"
)

func validDescriptor() BackendDescriptor {
	return BackendDescriptor{
		ID:                 "codellama:13b-instruct",
		Tier:               TierBalanced,
		SupportedTaskTypes: []TaskType{TaskTypeCoding, TaskTypeReview},
		MaxConcurrent:      2,
		Priority:           6,
		CostWeight:         0.3,
	}
}

func TestDescriptorValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BackendDescriptor)
		wantErr error
	}{
		{"valid", func(d *BackendDescriptor) {}, nil},
		{"empty id", func(d *BackendDescriptor) { d.ID = "" }, ErrEmptyBackendID},
		{"unknown tier", func(d *BackendDescriptor) { d.Tier = "turbo" }, ErrInvalidTier},
		{"no task types", func(d *BackendDescriptor) { d.SupportedTaskTypes = nil }, ErrNoTaskTypes},
		{"bad task type", func(d *BackendDescriptor) {
			d.SupportedTaskTypes = []TaskType{"gardening"}
		}, ErrInvalidTaskType},
		{"zero concurrency", func(d *BackendDescriptor) { d.MaxConcurrent = 0 }, ErrInvalidConcurrency},
		{"negative cost", func(d *BackendDescriptor) { d.CostWeight = -0.1 }, ErrNegativeCostWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := validDescriptor()
			tt.mutate(&desc)
			err := desc.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDescriptorSupports(t *testing.T) {
	desc := validDescriptor()
	if !desc.Supports(TaskTypeCoding) {
		t.Error("Supports(coding) = false, want true")
	}
	if desc.Supports(TaskTypePlanning) {
		t.Error("Supports(planning) = true, want false")
	}
}
