// Package metrics provides Prometheus instrumentation for intake, lifecycle,
// query, and export operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector registers and records all Custodia metrics. It implements the
// intake controller's Metrics interface.
type Collector struct {
	registry *prometheus.Registry

	intakeTotal    *prometheus.CounterVec
	intakeDuration *prometheus.HistogramVec

	statusChanges *prometheus.CounterVec

	queryTotal    prometheus.Counter
	queryDuration prometheus.Histogram

	exportTotal *prometheus.CounterVec
}

// NewCollector creates a collector and registers its metrics with registry.
// If registry is nil a new one is created.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		intakeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "custodia",
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "Intake submissions by device type, initial status, and outcome.",
		}, []string{"device_type", "status", "outcome"}),

		intakeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "custodia",
			Subsystem: "intake",
			Name:      "duration_seconds",
			Help:      "Intake submission duration.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		}, []string{"outcome"}),

		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "custodia",
			Subsystem: "lifecycle",
			Name:      "status_changes_total",
			Help:      "Committed status transitions by target status.",
		}, []string{"to"}),

		queryTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "custodia",
			Subsystem: "register",
			Name:      "queries_total",
			Help:      "Register list and search queries.",
		}),

		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "custodia",
			Subsystem: "register",
			Name:      "query_duration_seconds",
			Help:      "Register query duration.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),

		exportTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "custodia",
			Subsystem: "export",
			Name:      "exports_total",
			Help:      "Register exports by format.",
		}, []string{"format"}),
	}

	registry.MustRegister(
		c.intakeTotal,
		c.intakeDuration,
		c.statusChanges,
		c.queryTotal,
		c.queryDuration,
		c.exportTotal,
	)

	return c
}

// Registry returns the Prometheus registry the collector registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordIntake records one intake submission outcome.
func (c *Collector) RecordIntake(deviceType, status, outcome string, duration time.Duration) {
	c.intakeTotal.WithLabelValues(deviceType, status, outcome).Inc()
	c.intakeDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordStatusChange records one committed status transition.
func (c *Collector) RecordStatusChange(to string) {
	c.statusChanges.WithLabelValues(to).Inc()
}

// RecordQuery records one register query.
func (c *Collector) RecordQuery(duration time.Duration) {
	c.queryTotal.Inc()
	c.queryDuration.Observe(duration.Seconds())
}

// RecordExport records one register export.
func (c *Collector) RecordExport(format string) {
	c.exportTotal.WithLabelValues(format).Inc()
}
