// Package metrics records evaluation statistics for a single evaldbt run
// and exports them in the Prometheus text format for node_exporter's
// textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/leapstack-labs/evaldbt/internal/dag"
	"github.com/leapstack-labs/evaldbt/pkg/lint"
)

// Registry holds the metrics for one run.
type Registry struct {
	NodesTotal          *prometheus.GaugeVec
	EdgesTotal          prometheus.Gauge
	RulesEvaluatedTotal prometheus.Counter
	ViolationsTotal     *prometheus.GaugeVec
	CheckDuration       prometheus.Histogram
	LastRunTimestamp    prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a registry with all metrics initialized.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.NodesTotal = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "evaldbt_nodes_total",
			Help: "Number of manifest nodes by resource type",
		},
		[]string{"resource_type"},
	)

	r.EdgesTotal = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "evaldbt_edges_total",
		Help: "Number of parent to child edges in the manifest graph",
	})

	r.RulesEvaluatedTotal = promauto.With(r.registry).NewCounter(prometheus.CounterOpts{
		Name: "evaldbt_rules_evaluated_total",
		Help: "Total number of rule evaluations (rules x nodes)",
	})

	r.ViolationsTotal = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "evaldbt_violations_total",
			Help: "Number of violating nodes per rule in the last run",
		},
		[]string{"rule"},
	)

	r.CheckDuration = promauto.With(r.registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "evaldbt_check_duration_seconds",
		Help:    "Time spent building the graph and evaluating rules",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
	})

	r.LastRunTimestamp = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "evaldbt_last_run_timestamp_seconds",
		Help: "Unix time of the last completed run",
	})

	return r
}

// RecordGraph records node and edge counts.
func (r *Registry) RecordGraph(g *dag.Graph) {
	for rt, n := range g.CountByType() {
		r.NodesTotal.WithLabelValues(string(rt)).Set(float64(n))
	}
	r.EdgesTotal.Set(float64(g.EdgeCount()))
}

// RecordCheck records the outcome of one evaluation. Every selected rule
// gets a series, zero when it found nothing.
func (r *Registry) RecordCheck(rules []lint.Rule, nodes int, report *lint.Report, duration time.Duration) {
	r.RulesEvaluatedTotal.Add(float64(len(rules) * nodes))
	for _, rule := range rules {
		r.ViolationsTotal.WithLabelValues(rule.String()).Set(float64(len(report.Get(rule.Description()))))
	}
	r.CheckDuration.Observe(duration.Seconds())
	r.LastRunTimestamp.Set(float64(time.Now().Unix()))
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics to path atomically.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
