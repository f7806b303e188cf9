// Package prommetrics records composer activity as Prometheus metrics.
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/user/slideshow/pkg/ports"
)

// Metrics implements ports.Metrics.
type Metrics struct {
	started   prometheus.Counter
	finished  *prometheus.CounterVec
	duration  prometheus.Histogram
	bytes     prometheus.Histogram
	progress  prometheus.Gauge
	artifacts prometheus.Counter
}

// New registers the slideshow metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		started: factory.NewCounter(prometheus.CounterOpts{
			Name: "slideshow_compose_started_total",
			Help: "Total number of compose runs started",
		}),
		finished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "slideshow_compose_finished_total",
			Help: "Total number of compose runs by outcome",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "slideshow_compose_duration_seconds",
			Help:    "Compose wall time in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		bytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "slideshow_artifact_bytes",
			Help:    "Size of produced videos in bytes",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 8), // 64KB - 1GB
		}),
		progress: factory.NewGauge(prometheus.GaugeOpts{
			Name: "slideshow_compose_progress_percent",
			Help: "Progress of the current compose run",
		}),
		artifacts: factory.NewCounter(prometheus.CounterOpts{
			Name: "slideshow_artifacts_total",
			Help: "Total number of videos produced",
		}),
	}
}

func (m *Metrics) ComposeStarted() {
	m.started.Inc()
	m.progress.Set(0)
}

func (m *Metrics) ComposeFinished(outcome string, elapsed time.Duration) {
	m.finished.WithLabelValues(outcome).Inc()
	if outcome != ports.OutcomeRejected {
		m.duration.Observe(elapsed.Seconds())
	}
}

func (m *Metrics) ArtifactProduced(bytes int) {
	m.artifacts.Inc()
	m.bytes.Observe(float64(bytes))
}

func (m *Metrics) Progress(percent int) {
	m.progress.Set(float64(percent))
}

var _ ports.Metrics = (*Metrics)(nil)
