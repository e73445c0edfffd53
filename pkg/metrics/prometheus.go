package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	cellsTotal       *prometheus.CounterVec
	validationsTotal *prometheus.CounterVec
	batchDuration    prometheus.Histogram
	successRate      prometheus.Gauge
	providerLatency  *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cellsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bondlens_cells_total",
				Help: "Batch cells by outcome (processed, skipped)",
			},
			[]string{"outcome"},
		),
		validationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bondlens_validations_total",
				Help: "Metric comparisons by metric name and verdict",
			},
			[]string{"metric", "verdict"},
		),
		batchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bondlens_batch_duration_seconds",
				Help:    "Wall-clock duration of batch validation runs",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),
		successRate: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "bondlens_batch_success_rate",
				Help: "Pass rate of the most recent batch run (0-1)",
			},
		),
		providerLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bondlens_provider_duration_seconds",
				Help:    "Duration of data provider operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordCell records one batch cell outcome.
func (r *Recorder) RecordCell(outcome string) {
	r.cellsTotal.WithLabelValues(outcome).Inc()
}

// RecordValidation records one metric comparison verdict.
func (r *Recorder) RecordValidation(metric string, passed bool) {
	verdict := "fail"
	if passed {
		verdict = "pass"
	}
	r.validationsTotal.WithLabelValues(metric, verdict).Inc()
}

// RecordBatchDuration records the wall-clock time of a batch run.
func (r *Recorder) RecordBatchDuration(seconds float64) {
	r.batchDuration.Observe(seconds)
}

// RecordSuccessRate records the pass rate of the latest batch run.
func (r *Recorder) RecordSuccessRate(rate float64) {
	r.successRate.Set(rate)
}

// RecordProviderLatency records data provider latency in seconds.
func (r *Recorder) RecordProviderLatency(op string, seconds float64) {
	r.providerLatency.WithLabelValues(op).Observe(seconds)
}
