package models

import (
	"testing"
	"time"
)

func TestTaskTypeValid(t *testing.T) {
	for _, taskType := range AllTaskTypes {
		if !taskType.Valid() {
			t.Errorf("%s should be valid", taskType)
		}
	}
	for _, bad := range []TaskType{"", "refactoring", "CODING"} {
		if bad.Valid() {
			t.Errorf("%q should be invalid", bad)
		}
	}
}

func TestComplexityValid(t *testing.T) {
	for _, c := range []Complexity{ComplexitySimple, ComplexityMedium, ComplexityComplex} {
		if !c.Valid() {
			t.Errorf("%s should be valid", c)
		}
	}
	if Complexity("trivial").Valid() {
		t.Error("unknown complexity should be invalid")
	}
}

func TestTierDefaultTimeout(t *testing.T) {
	tests := []struct {
		tier Tier
		want time.Duration
	}{
		{TierFast, 30 * time.Second},
		{TierBalanced, 60 * time.Second},
		{TierPowerful, 120 * time.Second},
		{Tier("unknown"), 60 * time.Second},
	}
	for _, tt := range tests {
		if got := tt.tier.DefaultTimeout(); got != tt.want {
			t.Errorf("%s DefaultTimeout() = %v, want %v", tt.tier, got, tt.want)
		}
	}
}

func TestTierValid(t *testing.T) {
	for _, tier := range []Tier{TierFast, TierBalanced, TierPowerful} {
		if !tier.Valid() {
			t.Errorf("%s should be valid", tier)
		}
	}
	if Tier("mega").Valid() {
		t.Error("unknown tier should be invalid")
	}
}
