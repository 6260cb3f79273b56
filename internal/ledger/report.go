package ledger

import (
	"sort"
	"time"

	"github.com/calder-labs/maestro/pkg/models"
)

// TaskTypeReport aggregates one backend's statistics for one task type.
type TaskTypeReport struct {
	Attempts    int           `json:"attempts"`
	Successes   int           `json:"successes"`
	SuccessRate float64       `json:"success_rate"`
	MeanLatency time.Duration `json:"mean_latency"`
	MeanQuality float64       `json:"mean_quality"`
}

// BackendReport aggregates one backend's statistics across task types.
type BackendReport struct {
	TaskTypes   map[models.TaskType]TaskTypeReport `json:"task_types"`
	Attempts    int                                `json:"attempts"`
	Successes   int                                `json:"successes"`
	SuccessRate float64                            `json:"success_rate"`
	MeanLatency time.Duration                      `json:"mean_latency"`
	MeanQuality float64                            `json:"mean_quality"`
	Cost        float64                            `json:"cost"`
}

// Report is the full performance report.
type Report struct {
	Backends map[string]BackendReport `json:"backends"`
	Overall  struct {
		Attempts    int           `json:"attempts"`
		Successes   int           `json:"successes"`
		SuccessRate float64       `json:"success_rate"`
		MeanLatency time.Duration `json:"mean_latency"`
		MeanQuality float64       `json:"mean_quality"`
		Cost        float64       `json:"cost"`
	} `json:"overall"`
}

// BackendIDs returns the report's backend ids in sorted order.
func (r *Report) BackendIDs() []string {
	ids := make([]string, 0, len(r.Backends))
	for id := range r.Backends {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Report builds a point-in-time performance report across all backends.
// Safe to call concurrently with active task execution.
func (l *Ledger) Report() *Report {
	report := &Report{Backends: make(map[string]BackendReport)}

	// Weighted-mean accumulators, keyed by backend. Means are weighted by
	// successful sample count since only successes feed the means.
	type acc struct {
		latencyWeighted float64
		qualityWeighted float64
		samples         int
	}
	backendAccs := make(map[string]*acc)
	overall := &acc{}

	for _, s := range l.snapshotAll() {
		if s.Attempts == 0 {
			continue
		}

		br, ok := report.Backends[s.BackendID]
		if !ok {
			br = BackendReport{TaskTypes: make(map[models.TaskType]TaskTypeReport)}
		}
		br.TaskTypes[s.TaskType] = TaskTypeReport{
			Attempts:    s.Attempts,
			Successes:   s.Successes,
			SuccessRate: s.SuccessRate,
			MeanLatency: s.MeanLatency,
			MeanQuality: s.MeanQuality,
		}
		br.Attempts += s.Attempts
		br.Successes += s.Successes
		report.Backends[s.BackendID] = br

		a, ok := backendAccs[s.BackendID]
		if !ok {
			a = &acc{}
			backendAccs[s.BackendID] = a
		}
		a.latencyWeighted += s.MeanLatency.Seconds() * float64(s.SampleCount)
		a.qualityWeighted += s.MeanQuality * float64(s.SampleCount)
		a.samples += s.SampleCount

		overall.latencyWeighted += s.MeanLatency.Seconds() * float64(s.SampleCount)
		overall.qualityWeighted += s.MeanQuality * float64(s.SampleCount)
		overall.samples += s.SampleCount
		report.Overall.Attempts += s.Attempts
		report.Overall.Successes += s.Successes
	}

	l.mu.RLock()
	for id, cost := range l.costs {
		if br, ok := report.Backends[id]; ok {
			br.Cost = cost
			report.Backends[id] = br
		}
		report.Overall.Cost += cost
	}
	l.mu.RUnlock()

	for id, br := range report.Backends {
		if br.Attempts > 0 {
			br.SuccessRate = float64(br.Successes) / float64(br.Attempts)
		}
		if a := backendAccs[id]; a.samples > 0 {
			br.MeanLatency = time.Duration(a.latencyWeighted / float64(a.samples) * float64(time.Second))
			br.MeanQuality = a.qualityWeighted / float64(a.samples)
		}
		report.Backends[id] = br
	}

	if report.Overall.Attempts > 0 {
		report.Overall.SuccessRate = float64(report.Overall.Successes) / float64(report.Overall.Attempts)
	}
	if overall.samples > 0 {
		report.Overall.MeanLatency = time.Duration(overall.latencyWeighted / float64(overall.samples) * float64(time.Second))
		report.Overall.MeanQuality = overall.qualityWeighted / float64(overall.samples)
	}

	return report
}
