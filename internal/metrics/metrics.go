// Package metrics records batch outcomes as Prometheus metrics and writes
// them in the node_exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nao1215/ucma/internal/model"
)

const namespace = "ucma"

// Collector aggregates per-item outcomes of a run.
// Observe is safe for concurrent use.
type Collector struct {
	registry *prometheus.Registry

	items        *prometheus.CounterVec
	failures     *prometheus.CounterVec
	itemDuration *prometheus.HistogramVec
	lastRun      prometheus.Gauge
	runDuration  prometheus.Gauge
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		// items counts processed refs.
		// Labels: status (succeeded, failed)
		items: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "items_total",
			Help:      "Refs processed by status",
		}, []string{"status"}),

		// failures counts failed refs by the capability that failed.
		// Labels: stage (extractor, analyzer, reporter)
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_failures_total",
			Help:      "Failed refs by failing stage",
		}, []string{"stage"}),

		itemDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "item_duration_seconds",
			Help:      "Time to run all stages for one ref",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"status"}),

		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),

		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
	}
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Observe records one outcome. Its signature matches pipeline.Observer.
func (c *Collector) Observe(_ int, o model.Outcome) {
	status := o.Status.String()
	c.items.WithLabelValues(status).Inc()
	c.itemDuration.WithLabelValues(status).Observe(o.Duration.Seconds())
	if !o.Succeeded() {
		stage := o.Stage
		if stage == "" {
			stage = "unknown"
		}
		c.failures.WithLabelValues(stage).Inc()
	}
}

// Finish records the run's completion time and duration.
func (c *Collector) Finish(end time.Time, d time.Duration) {
	c.lastRun.Set(float64(end.Unix()))
	c.runDuration.Set(d.Seconds())
}

// WriteTextfile atomically writes the metrics to path.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
