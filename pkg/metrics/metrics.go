// Package metrics records statistics about index runs for the Prometheus
// node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "materials"

// Run results used as the "result" label
const (
	ResultSuccess = "success"
	ResultEmpty   = "empty"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// Metrics holds the collectors for one process. Each instance owns its
// registry so tests and repeated runs never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	ItemsIndexed  prometheus.Gauge
	FilesSkipped  *prometheus.CounterVec
	IndexDuration prometheus.Gauge
	LastRun       prometheus.Gauge
	Runs          *prometheus.CounterVec
}

// New creates and registers all collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ItemsIndexed: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items_indexed",
			Help:      "Number of items written by the last index run",
		}),
		FilesSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_skipped_total",
			Help:      "Files left out of the index, by reason",
		}, []string{"reason"}),
		IndexDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_duration_seconds",
			Help:      "Wall time of the last index run",
		}),
		LastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last index run finished",
		}),
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_runs_total",
			Help:      "Index runs, by result",
		}, []string{"result"}),
	}
}

// Registry exposes the underlying registry as a gatherer
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordSkip counts one skipped file
func (m *Metrics) RecordSkip(reason string) {
	m.FilesSkipped.WithLabelValues(reason).Inc()
}

// RecordRun stores the outcome of a finished run
func (m *Metrics) RecordRun(result string, items int, elapsed time.Duration, finished time.Time) {
	m.Runs.WithLabelValues(result).Inc()
	m.ItemsIndexed.Set(float64(items))
	m.IndexDuration.Set(elapsed.Seconds())
	m.LastRun.Set(float64(finished.Unix()))
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is written atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
