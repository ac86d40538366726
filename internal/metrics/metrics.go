// Package metrics exposes queue observability counters and gauges.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is the narrow interface the queue records through, so tests and
// callers that do not scrape metrics can run without a registry.
type Recorder interface {
	JobSubmitted()
	JobCompleted(duration time.Duration)
	JobFailed(duration time.Duration)
	SetQueueDepth(queued, active int)
}

// PrometheusRecorder implements Recorder on a prometheus registry.
type PrometheusRecorder struct {
	submitted prometheus.Counter
	completed prometheus.Counter
	failed    prometheus.Counter
	queued    prometheus.Gauge
	active    prometheus.Gauge
	duration  prometheus.Histogram
}

// NewPrometheusRecorder creates the queue collectors and registers them on
// the provided registerer.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Subsystem: "dictate",
			Name:      "jobs_submitted_total",
			Help:      "Number of transcription jobs accepted for processing",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Subsystem: "dictate",
			Name:      "jobs_completed_total",
			Help:      "Number of transcription jobs that completed successfully",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Subsystem: "dictate",
			Name:      "jobs_failed_total",
			Help:      "Number of transcription jobs that ended in failure",
		}),
		queued: prometheus.NewGauge(prometheus.GaugeOpts{
			Subsystem: "dictate",
			Name:      "jobs_queued",
			Help:      "Jobs currently waiting for a free execution slot",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Subsystem: "dictate",
			Name:      "jobs_active",
			Help:      "Jobs currently executing",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Subsystem: "dictate",
			Name:      "job_duration_seconds",
			Help:      "Time from dispatch to terminal state",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
	}

	reg.MustRegister(r.submitted, r.completed, r.failed, r.queued, r.active, r.duration)
	return r
}

func (r *PrometheusRecorder) JobSubmitted() {
	r.submitted.Inc()
}

func (r *PrometheusRecorder) JobCompleted(duration time.Duration) {
	r.completed.Inc()
	r.duration.Observe(duration.Seconds())
}

func (r *PrometheusRecorder) JobFailed(duration time.Duration) {
	r.failed.Inc()
	r.duration.Observe(duration.Seconds())
}

func (r *PrometheusRecorder) SetQueueDepth(queued, active int) {
	r.queued.Set(float64(queued))
	r.active.Set(float64(active))
}

// NopRecorder discards all measurements.
type NopRecorder struct{}

func (NopRecorder) JobSubmitted()              {}
func (NopRecorder) JobCompleted(time.Duration) {}
func (NopRecorder) JobFailed(time.Duration)    {}
func (NopRecorder) SetQueueDepth(int, int)     {}

var (
	_ Recorder = (*PrometheusRecorder)(nil)
	_ Recorder = NopRecorder{}
)
