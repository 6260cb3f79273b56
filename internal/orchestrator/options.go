package orchestrator

import (
	"time"

	"github.com/calder-labs/maestro/pkg/models"
)

// Option configures an Orchestrator. Use With* functions to create Options.
type Option func(*orchestratorOptions)

// orchestratorOptions holds all optional configuration.
type orchestratorOptions struct {
	maxAttempts       int
	backoff           time.Duration
	tierTimeouts      map[models.Tier]time.Duration
	preferCheapSimple bool
	logger            *DebugLogger
}

// defaultOptions returns the option set used when no Option overrides it.
func defaultOptions() *orchestratorOptions {
	return &orchestratorOptions{
		maxAttempts:  defaultMaxAttempts,
		backoff:      defaultBackoff,
		tierTimeouts: make(map[models.Tier]time.Duration),
		logger:       NopLogger(),
	}
}

// WithMaxAttempts sets the fallback attempt limit per task.
func WithMaxAttempts(n int) Option {
	return func(o *orchestratorOptions) { o.maxAttempts = n }
}

// WithBackoff sets the fixed delay between fallback attempts.
func WithBackoff(d time.Duration) Option {
	return func(o *orchestratorOptions) { o.backoff = d }
}

// WithTierTimeout overrides the attempt timeout for one tier.
func WithTierTimeout(tier models.Tier, timeout time.Duration) Option {
	return func(o *orchestratorOptions) { o.tierTimeouts[tier] = timeout }
}

// WithPreferCheapSimple biases simple-task selection toward cheaper
// backends within the fast tier.
func WithPreferCheapSimple(v bool) Option {
	return func(o *orchestratorOptions) { o.preferCheapSimple = v }
}

// WithDebugLogger sets the debug logger for orchestrator internals.
func WithDebugLogger(l *DebugLogger) Option {
	return func(o *orchestratorOptions) { o.logger = l }
}
