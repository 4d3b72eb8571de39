package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	pipelineRuns   *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
	stageErrors    *prometheus.CounterVec
	eventsDetected *prometheus.CounterVec
	postsPublished *prometheus.CounterVec
	lastPrice      *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		pipelineRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradeiq_pipeline_runs_total",
				Help: "Total number of pipeline runs by terminal status",
			},
			[]string{"status"},
		),
		stageDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradeiq_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		stageErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradeiq_stage_errors_total",
				Help: "Total number of pipeline stage failures",
			},
			[]string{"stage"},
		),
		eventsDetected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradeiq_events_detected_total",
				Help: "Total volatility events detected",
			},
			[]string{"instrument", "magnitude"},
		),
		postsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradeiq_posts_published_total",
				Help: "Total commentary posts published",
			},
			[]string{"platform"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tradeiq_last_price",
				Help: "Last quoted price for an instrument",
			},
			[]string{"instrument"},
		),
	}
}

// RecordPipelineRun records a finished pipeline run.
func (r *Recorder) RecordPipelineRun(status string) {
	r.pipelineRuns.WithLabelValues(status).Inc()
}

// RecordStageDuration records a stage duration in seconds.
func (r *Recorder) RecordStageDuration(stage string, seconds float64) {
	r.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordStageError records a stage failure.
func (r *Recorder) RecordStageError(stage string) {
	r.stageErrors.WithLabelValues(stage).Inc()
}

// RecordEventDetected records a detected volatility event.
func (r *Recorder) RecordEventDetected(instrument, magnitude string) {
	r.eventsDetected.WithLabelValues(instrument, magnitude).Inc()
}

// RecordPostPublished records a published post.
func (r *Recorder) RecordPostPublished(platform string) {
	r.postsPublished.WithLabelValues(platform).Inc()
}

// RecordLastPrice records the last price for an instrument.
func (r *Recorder) RecordLastPrice(instrument string, price float64) {
	r.lastPrice.WithLabelValues(instrument).Set(price)
}
