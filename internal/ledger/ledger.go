// Package ledger tracks per-backend, per-task-type performance statistics
// and produces backend recommendations from them.
package ledger

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/calder-labs/maestro/pkg/models"
)

// minRecommendSamples is the minimum successful sample count before a
// backend is eligible for recommendation.
const minRecommendSamples = 3

// latencyEpsilon keeps the efficiency ratio finite for near-zero latencies.
const latencyEpsilon = 0.1

// ReliabilitySink receives reliability updates for backends. Implemented
// by the backend registry; the ledger is the only writer.
type ReliabilitySink interface {
	SetReliability(id string, reliability float64)
}

// key identifies one (backend, task type) statistics cell.
type key struct {
	backendID string
	taskType  models.TaskType
}

// record holds the running statistics for one cell. Each record has its
// own lock so unrelated backends and task types never contend.
type record struct {
	mu sync.Mutex
	// attempts counts every recorded attempt, success or failure.
	attempts int
	// successes counts successful attempts.
	successes int
	// samples counts the successful attempts feeding the running means.
	samples int
	// meanLatency is the running mean latency in seconds over samples.
	meanLatency float64
	// meanQuality is the running mean quality score over samples.
	meanQuality float64
}

// Stats is a read-only snapshot of one cell.
type Stats struct {
	BackendID   string          `json:"backend_id"`
	TaskType    models.TaskType `json:"task_type"`
	Attempts    int             `json:"attempts"`
	Successes   int             `json:"successes"`
	SampleCount int             `json:"sample_count"`
	MeanLatency time.Duration   `json:"mean_latency"`
	MeanQuality float64         `json:"mean_quality"`
	SuccessRate float64         `json:"success_rate"`
}

// Ledger is the process-wide aggregate of backend performance. Safe for
// concurrent use; updates lock only the affected cell.
type Ledger struct {
	mu      sync.RWMutex
	records map[key]*record
	costs   map[string]float64

	sink  ReliabilitySink
	store *Store
}

// New creates an empty ledger. The sink receives reliability refreshes
// and may be nil.
func New(sink ReliabilitySink) *Ledger {
	return &Ledger{
		records: make(map[key]*record),
		costs:   make(map[string]float64),
		sink:    sink,
	}
}

// AttachStore starts persisting every recorded sample to the store.
// Attach after replaying history, not before, or replayed samples get
// written back as duplicates. Not safe to call concurrently with Record.
func (l *Ledger) AttachStore(store *Store) {
	l.store = store
}

// Record updates the running statistics for the given cell. Failures count
// toward the success rate; only successes feed the latency and quality
// means. The backend's reliability is refreshed afterwards.
func (l *Ledger) Record(backendID string, taskType models.TaskType, latency time.Duration, quality float64, success bool) {
	rec := l.cell(backendID, taskType)

	rec.mu.Lock()
	rec.attempts++
	if success {
		rec.successes++
		rec.samples++
		n := float64(rec.samples)
		rec.meanLatency += (latency.Seconds() - rec.meanLatency) / n
		rec.meanQuality += (quality - rec.meanQuality) / n
	}
	rec.mu.Unlock()

	if l.sink != nil {
		l.sink.SetReliability(backendID, l.successRate(backendID))
	}

	if l.store != nil {
		if err := l.store.Append(Sample{
			BackendID: backendID,
			TaskType:  taskType,
			Latency:   latency,
			Quality:   quality,
			Success:   success,
			CreatedAt: time.Now(),
		}); err != nil {
			log.Printf("[ledger] persist sample for %s: %v", backendID, err)
		}
	}
}

// AddCost accumulates estimated spend for a backend.
func (l *Ledger) AddCost(backendID string, cost float64) {
	if cost <= 0 {
		return
	}
	l.mu.Lock()
	l.costs[backendID] += cost
	l.mu.Unlock()
}

// Get returns a snapshot of the statistics for one cell. The zero Stats
// is returned for cells that have never been recorded.
func (l *Ledger) Get(backendID string, taskType models.TaskType) Stats {
	l.mu.RLock()
	rec, ok := l.records[key{backendID, taskType}]
	l.mu.RUnlock()
	if !ok {
		return Stats{BackendID: backendID, TaskType: taskType}
	}
	return rec.snapshot(backendID, taskType)
}

// Recommend returns up to three backend ids for the task type, ranked by
// efficiency (mean quality over mean latency), best first. Backends with
// fewer than three successful samples are not eligible.
func (l *Ledger) Recommend(taskType models.TaskType) []string {
	type ranked struct {
		id         string
		efficiency float64
	}

	var candidates []ranked
	for _, s := range l.snapshotAll() {
		if s.TaskType != taskType || s.SampleCount < minRecommendSamples {
			continue
		}
		eff := s.MeanQuality / max(s.MeanLatency.Seconds(), latencyEpsilon)
		candidates = append(candidates, ranked{id: s.BackendID, efficiency: eff})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].efficiency != candidates[j].efficiency {
			return candidates[i].efficiency > candidates[j].efficiency
		}
		return candidates[i].id < candidates[j].id
	})

	ids := make([]string, 0, 3)
	for _, c := range candidates {
		ids = append(ids, c.id)
		if len(ids) == 3 {
			break
		}
	}
	return ids
}

// Reliability returns the overall success rate for a backend across all
// task types, or 1.0 when nothing has been recorded yet.
func (l *Ledger) Reliability(backendID string) float64 {
	return l.successRate(backendID)
}

// cell returns the record for the given cell, creating it if needed.
func (l *Ledger) cell(backendID string, taskType models.TaskType) *record {
	k := key{backendID, taskType}

	l.mu.RLock()
	rec, ok := l.records[k]
	l.mu.RUnlock()
	if ok {
		return rec
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if rec, ok = l.records[k]; ok {
		return rec
	}
	rec = &record{}
	l.records[k] = rec
	return rec
}

// successRate computes the all-task-type success rate for a backend.
// Returns 1.0 when the backend has no recorded attempts.
func (l *Ledger) successRate(backendID string) float64 {
	attempts, successes := 0, 0
	for _, s := range l.snapshotAll() {
		if s.BackendID != backendID {
			continue
		}
		attempts += s.Attempts
		successes += s.Successes
	}
	if attempts == 0 {
		return 1.0
	}
	return float64(successes) / float64(attempts)
}

// snapshotAll returns a snapshot of every cell.
func (l *Ledger) snapshotAll() []Stats {
	l.mu.RLock()
	keys := make([]key, 0, len(l.records))
	recs := make([]*record, 0, len(l.records))
	for k, r := range l.records {
		keys = append(keys, k)
		recs = append(recs, r)
	}
	l.mu.RUnlock()

	out := make([]Stats, len(recs))
	for i, r := range recs {
		out[i] = r.snapshot(keys[i].backendID, keys[i].taskType)
	}
	return out
}

// snapshot copies the record under its lock.
func (r *record) snapshot(backendID string, taskType models.TaskType) Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	rate := 0.0
	if r.attempts > 0 {
		rate = float64(r.successes) / float64(r.attempts)
	}
	return Stats{
		BackendID:   backendID,
		TaskType:    taskType,
		Attempts:    r.attempts,
		Successes:   r.successes,
		SampleCount: r.samples,
		MeanLatency: time.Duration(r.meanLatency * float64(time.Second)),
		MeanQuality: r.meanQuality,
		SuccessRate: rate,
	}
}
