package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes ledger statistics as Prometheus metrics. It reads a
// snapshot on every scrape, so it never blocks task execution.
type Collector struct {
	ledger *Ledger

	attempts    *prometheus.Desc
	successes   *prometheus.Desc
	successRate *prometheus.Desc
	meanLatency *prometheus.Desc
	meanQuality *prometheus.Desc
	cost        *prometheus.Desc
}

// NewCollector creates a Prometheus collector over the given ledger.
func NewCollector(l *Ledger) *Collector {
	labels := []string{"backend", "task_type"}
	return &Collector{
		ledger: l,
		attempts: prometheus.NewDesc(
			"maestro_backend_attempts_total",
			"Total attempts per backend and task type.",
			labels, nil),
		successes: prometheus.NewDesc(
			"maestro_backend_successes_total",
			"Successful attempts per backend and task type.",
			labels, nil),
		successRate: prometheus.NewDesc(
			"maestro_backend_success_rate",
			"Success rate per backend and task type.",
			labels, nil),
		meanLatency: prometheus.NewDesc(
			"maestro_backend_mean_latency_seconds",
			"Running mean latency of successful attempts.",
			labels, nil),
		meanQuality: prometheus.NewDesc(
			"maestro_backend_mean_quality",
			"Running mean quality score of successful attempts.",
			labels, nil),
		cost: prometheus.NewDesc(
			"maestro_backend_cost_dollars_total",
			"Estimated spend per backend.",
			[]string{"backend"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.attempts
	ch <- c.successes
	ch <- c.successRate
	ch <- c.meanLatency
	ch <- c.meanQuality
	ch <- c.cost
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, s := range c.ledger.snapshotAll() {
		labels := []string{s.BackendID, string(s.TaskType)}
		ch <- prometheus.MustNewConstMetric(c.attempts, prometheus.CounterValue, float64(s.Attempts), labels...)
		ch <- prometheus.MustNewConstMetric(c.successes, prometheus.CounterValue, float64(s.Successes), labels...)
		ch <- prometheus.MustNewConstMetric(c.successRate, prometheus.GaugeValue, s.SuccessRate, labels...)
		ch <- prometheus.MustNewConstMetric(c.meanLatency, prometheus.GaugeValue, s.MeanLatency.Seconds(), labels...)
		ch <- prometheus.MustNewConstMetric(c.meanQuality, prometheus.GaugeValue, s.MeanQuality, labels...)
	}

	c.ledger.mu.RLock()
	for id, cost := range c.ledger.costs {
		ch <- prometheus.MustNewConstMetric(c.cost, prometheus.CounterValue, cost, id)
	}
	c.ledger.mu.RUnlock()
}
