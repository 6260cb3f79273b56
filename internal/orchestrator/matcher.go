package orchestrator

import (
	"fmt"
	"sort"

	"github.com/calder-labs/maestro/internal/backend"
	"github.com/calder-labs/maestro/pkg/models"
)

// CapabilityMatcher filters the registry to backends that support a task
// type and ranks them by tier fit, priority, reliability, and load.
type CapabilityMatcher struct {
	registry *backend.Registry
	loads    *LoadTracker
	// preferCheapSimple biases Simple-complexity selection toward lower
	// cost weight within the fast tier.
	preferCheapSimple bool
}

// NewCapabilityMatcher creates a matcher over the given registry and
// load tracker.
func NewCapabilityMatcher(registry *backend.Registry, loads *LoadTracker) *CapabilityMatcher {
	return &CapabilityMatcher{registry: registry, loads: loads}
}

// SetPreferCheapSimple enables cost-biased selection for simple tasks.
func (m *CapabilityMatcher) SetPreferCheapSimple(v bool) {
	m.preferCheapSimple = v
}

// SelectBackend picks the best backend for the task type and complexity.
// Returns ErrNoBackend when no registered backend supports the type. When
// every qualifying backend is saturated, the highest-ranked one is
// returned anyway; queuing is the executor's job, not the matcher's.
func (m *CapabilityMatcher) SelectBackend(taskType models.TaskType, complexity models.Complexity) (*models.BackendDescriptor, error) {
	candidates, err := m.Candidates(taskType, complexity)
	if err != nil {
		return nil, err
	}

	for _, desc := range candidates {
		if m.loads.Active(desc.ID) < desc.MaxConcurrent {
			return desc, nil
		}
	}

	// All candidates saturated. Return the best one so the caller can
	// still make progress once capacity frees up.
	debugLog("[matcher] all %d candidates for %s saturated, picking %s",
		len(candidates), taskType, candidates[0].ID)
	return candidates[0], nil
}

// Candidates returns every backend supporting the task type, ranked best
// first with the complexity tier preference applied.
func (m *CapabilityMatcher) Candidates(taskType models.TaskType, complexity models.Complexity) ([]*models.BackendDescriptor, error) {
	supporting := m.registry.Supporting(taskType)
	if len(supporting) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoBackend, taskType)
	}

	cheap := m.preferCheapSimple && complexity == models.ComplexitySimple

	preferred := m.preferredTierSubset(supporting, complexity)
	m.rank(preferred, cheap)

	// Backends outside the preferred tier stay available as lower-ranked
	// fallback candidates.
	var rest []*models.BackendDescriptor
	if len(preferred) < len(supporting) {
		inPreferred := make(map[string]bool, len(preferred))
		for _, d := range preferred {
			inPreferred[d.ID] = true
		}
		for _, d := range supporting {
			if !inPreferred[d.ID] {
				rest = append(rest, d)
			}
		}
		m.rank(rest, cheap)
	}

	return append(preferred, rest...), nil
}

// preferredTierSubset narrows candidates to the complexity's preferred
// tier: Fast for simple tasks, Powerful for complex ones. Medium tasks
// and empty subsets use the full candidate list.
func (m *CapabilityMatcher) preferredTierSubset(candidates []*models.BackendDescriptor, complexity models.Complexity) []*models.BackendDescriptor {
	var want models.Tier
	switch complexity {
	case models.ComplexitySimple:
		want = models.TierFast
	case models.ComplexityComplex:
		want = models.TierPowerful
	default:
		return append([]*models.BackendDescriptor{}, candidates...)
	}

	var subset []*models.BackendDescriptor
	for _, d := range candidates {
		if d.Tier == want {
			subset = append(subset, d)
		}
	}
	if len(subset) == 0 {
		return append([]*models.BackendDescriptor{}, candidates...)
	}
	return subset
}

// rank sorts descriptors in place: priority descending, ties broken by
// higher reliability, then lower current load, then id for stability.
// With cheap set, cost weight ascending leads.
func (m *CapabilityMatcher) rank(descs []*models.BackendDescriptor, cheap bool) {
	sort.SliceStable(descs, func(i, j int) bool {
		a, b := descs[i], descs[j]
		if cheap && a.CostWeight != b.CostWeight {
			return a.CostWeight < b.CostWeight
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Reliability != b.Reliability {
			return a.Reliability > b.Reliability
		}
		la, lb := m.loads.Active(a.ID), m.loads.Active(b.ID)
		if la != lb {
			return la < lb
		}
		return a.ID < b.ID
	})
}
