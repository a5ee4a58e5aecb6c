package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the minutes service
type Metrics struct {
	registry *prometheus.Registry

	// Job metrics
	JobsStarted   prometheus.Counter
	JobsSucceeded prometheus.Counter
	JobsFailed    *prometheus.CounterVec
	JobsInFlight  prometheus.Gauge
	JobDuration   prometheus.Histogram
	AudioDuration prometheus.Histogram

	// Chunk metrics
	ChunksTranscribed *prometheus.CounterVec
	ChunkLatency      *prometheus.HistogramVec

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a registry with the Go and process collectors and registers all metrics on it
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewMetricsWithRegistry(reg)
}

// NewMetricsWithRegistry registers all metrics on reg
func NewMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		JobsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "minutes_jobs_started_total",
			Help: "Total number of minutes jobs started",
		}),
		JobsSucceeded: factory.NewCounter(prometheus.CounterOpts{
			Name: "minutes_jobs_succeeded_total",
			Help: "Total number of minutes jobs that produced a document",
		}),
		JobsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "minutes_jobs_failed_total",
			Help: "Total number of failed minutes jobs by error kind",
		}, []string{"kind"}),
		JobsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "minutes_jobs_in_flight",
			Help: "Current number of running minutes jobs",
		}),
		JobDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "minutes_job_duration_seconds",
			Help:    "Wall time of a minutes job from decode to rendered document",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~1 hour
		}),
		AudioDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "minutes_audio_duration_seconds",
			Help:    "Duration of decoded input audio",
			Buckets: prometheus.ExponentialBuckets(15, 2, 10), // 15s to ~2 hours
		}),

		ChunksTranscribed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "minutes_chunks_transcribed_total",
			Help: "Total number of audio chunks sent to a provider",
		}, []string{"provider", "status"}),
		ChunkLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "minutes_chunk_transcription_duration_seconds",
			Help:    "Provider latency per audio chunk",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2 minutes
		}, []string{"provider"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "minutes_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "minutes_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordJobStarted increments the started counter and the in-flight gauge
func (m *Metrics) RecordJobStarted() {
	m.JobsStarted.Inc()
	m.JobsInFlight.Inc()
}

// RecordJobSucceeded records a finished job
func (m *Metrics) RecordJobSucceeded(durationSeconds float64) {
	m.JobsInFlight.Dec()
	m.JobsSucceeded.Inc()
	m.JobDuration.Observe(durationSeconds)
}

// RecordJobFailed records a failed job under its error kind
func (m *Metrics) RecordJobFailed(kind string, durationSeconds float64) {
	if kind == "" {
		kind = "unknown"
	}
	m.JobsInFlight.Dec()
	m.JobsFailed.WithLabelValues(kind).Inc()
	m.JobDuration.Observe(durationSeconds)
}

// RecordAudioDuration observes the length of a decoded input
func (m *Metrics) RecordAudioDuration(seconds float64) {
	m.AudioDuration.Observe(seconds)
}

// RecordChunk records one provider call
func (m *Metrics) RecordChunk(provider string, ok bool, durationSeconds float64) {
	status := "success"
	if !ok {
		status = "failure"
	}
	m.ChunksTranscribed.WithLabelValues(provider, status).Inc()
	m.ChunkLatency.WithLabelValues(provider).Observe(durationSeconds)
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}
