package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Outcome labels used by the cat operation counter.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Metrics holds the counters of a single command run.
// Each command owns a private registry; nothing is served over HTTP.
type Metrics struct {
	registry      *prometheus.Registry
	catOperations *prometheus.CounterVec
	seededRows    *prometheus.CounterVec
}

// New creates and registers the counters on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		catOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dbtools_cat_operations_total",
				Help: "Total number of cat collection operations by outcome.",
			},
			[]string{"operation", "outcome"},
		),
		seededRows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dbtools_seeded_rows_total",
				Help: "Total number of rows inserted by the seeder.",
			},
			[]string{"table"},
		),
	}
	m.registry.MustRegister(m.catOperations, m.seededRows)
	return m
}

// ObserveCatOperation counts one cat operation outcome.
func (m *Metrics) ObserveCatOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.catOperations.WithLabelValues(operation, outcome).Inc()
}

// AddSeededRows counts rows inserted into table.
func (m *Metrics) AddSeededRows(table string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.seededRows.WithLabelValues(table).Add(float64(n))
}

// Registry exposes the gatherer for tests and pushers.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Push sends every counter to a Prometheus Pushgateway.
// It is a no-op when url is empty.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if m == nil || url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
