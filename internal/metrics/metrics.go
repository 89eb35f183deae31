// Package metrics exposes Prometheus collectors for the render engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/autochroma/autochroma/internal/model"
)

// Metrics implements the registry's Recorder over Prometheus collectors.
type Metrics struct {
	jobsFinished *prometheus.CounterVec
	activeJobs   prometheus.Gauge
	duration     prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		jobsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autochroma_jobs_finished_total",
			Help: "Render jobs by terminal status.",
		}, []string{"status"}),
		activeJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "autochroma_jobs_active",
			Help: "Render jobs currently running.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "autochroma_render_duration_seconds",
			Help:    "Observed encoder run time of finished jobs.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
	}
	reg.MustRegister(m.jobsFinished, m.activeJobs, m.duration)
	return m
}

// JobStarted records a queued->running transition.
func (m *Metrics) JobStarted() {
	m.activeJobs.Inc()
}

// JobFinished records a terminal transition. started must mirror whether
// JobStarted was called for the job; queued-cancels and launch failures
// finish without ever running.
func (m *Metrics) JobFinished(status model.JobStatus, duration time.Duration, started bool) {
	m.jobsFinished.WithLabelValues(string(status)).Inc()
	if started {
		m.activeJobs.Dec()
		m.duration.Observe(duration.Seconds())
	}
}
