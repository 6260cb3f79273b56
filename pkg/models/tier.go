package models

import "time"

// Tier classifies backend speed and capability.
type Tier string

const (
	// TierFast is for small, quick models suited to simple tasks.
	TierFast Tier = "fast"
	// TierBalanced is for mid-size models with a good speed/quality trade.
	TierBalanced Tier = "balanced"
	// TierPowerful is for large models that produce the best output.
	TierPowerful Tier = "powerful"
)

// Valid returns true if the tier is a known value.
func (t Tier) Valid() bool {
	switch t {
	case TierFast, TierBalanced, TierPowerful:
		return true
	default:
		return false
	}
}

// DefaultTimeout returns the default per-attempt timeout for the tier.
// Unknown tiers get the balanced timeout.
func (t Tier) DefaultTimeout() time.Duration {
	switch t {
	case TierFast:
		return 30 * time.Second
	case TierPowerful:
		return 120 * time.Second
	default:
		return 60 * time.Second
	}
}
