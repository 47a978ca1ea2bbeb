package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder records chart metrics using Prometheus.
type Recorder struct {
	charts  *prometheus.CounterVec
	errors  *prometheus.CounterVec
	cache   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// New registers the chart metrics on reg. Pass prometheus.DefaultRegisterer
// to expose them on /metrics.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		charts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astrochart_charts_total",
				Help: "Total number of charts computed",
			},
			[]string{"house_system"},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astrochart_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		cache: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "astrochart_cache_total",
				Help: "Chart cache lookups by result",
			},
			[]string{"result"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "astrochart_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"operation"},
		),
	}
}

// RecordChart counts a computed chart.
func (r *Recorder) RecordChart(system string) {
	r.charts.WithLabelValues(system).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errors.WithLabelValues(kind).Inc()
}

// RecordCache records a cache hit, miss or error.
func (r *Recorder) RecordCache(result string) {
	r.cache.WithLabelValues(result).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordChart(string) {}
func (Nop) RecordError(string) {}
func (Nop) RecordCache(string) {}
func (Nop) RecordLatency(string, float64) {}
