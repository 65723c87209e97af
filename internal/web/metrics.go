package web

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics for the dashboard server.
type Metrics struct {
	RecordsStreamed  prometheus.Counter
	RecordsFiltered  prometheus.Counter
	LinesSkipped     prometheus.Counter
	ActiveStreams    prometheus.Gauge
	PollErrors       prometheus.Counter
	StreamDuration   prometheus.Histogram
	IndexBuildTime   prometheus.Histogram
	ArtifactRequests *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers all server metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		RecordsStreamed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loglab_records_streamed_total",
			Help: "Total records pushed to SSE consumers",
		}),
		RecordsFiltered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loglab_records_filtered_total",
			Help: "Total records dropped by filter criteria",
		}),
		LinesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loglab_lines_skipped_total",
			Help: "Total malformed or empty lines skipped by the parser",
		}),
		ActiveStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "loglab_active_streams",
			Help: "Currently connected SSE consumers",
		}),
		PollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loglab_poll_errors_total",
			Help: "Total file poll failures (missing file excluded)",
		}),
		StreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "loglab_stream_duration_seconds",
			Help:    "Lifetime of SSE connections",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		IndexBuildTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "loglab_runindex_build_seconds",
			Help:    "Duration of run index builds",
			Buckets: prometheus.DefBuckets,
		}),
		ArtifactRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loglab_artifact_requests_total",
			Help: "Artifact proxy requests by outcome",
		}, []string{"outcome"}),
		registry: reg,
	}
	reg.MustRegister(
		m.RecordsStreamed,
		m.RecordsFiltered,
		m.LinesSkipped,
		m.ActiveStreams,
		m.PollErrors,
		m.StreamDuration,
		m.IndexBuildTime,
		m.ArtifactRequests,
	)
	return m
}

// Handler exposes the registry for the /metrics route.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
