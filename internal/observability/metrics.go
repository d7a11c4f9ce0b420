package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the HTTP service.
type Metrics struct {
	// Registry owns these metrics; the /metrics endpoint serves it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	uploads         *prometheus.CounterVec
	uploadedRows    prometheus.Counter
	reports         *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it, so tests can call it more than once.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "basbook_http_request_duration_seconds",
				Help:    "Duration of HTTP requests by route and status.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "status"},
		),
		uploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "basbook_uploads_total",
				Help: "CSV uploads by outcome.",
			},
			[]string{"outcome"},
		),
		uploadedRows: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "basbook_uploaded_rows_total",
				Help: "Normalized transactions accepted from uploads.",
			},
		),
		reports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "basbook_reports_total",
				Help: "Summaries and listings served, by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
	}
}

// RecordRequest observes one HTTP request.
func (m *Metrics) RecordRequest(path string, status int, d time.Duration) {
	m.requestDuration.WithLabelValues(path, strconv.Itoa(status)).Observe(d.Seconds())
}

// IncrUpload counts an upload outcome ("ok", "schema_error", "error") and,
// on success, the rows it carried.
func (m *Metrics) IncrUpload(outcome string, rows int) {
	m.uploads.WithLabelValues(outcome).Inc()
	if rows > 0 {
		m.uploadedRows.Add(float64(rows))
	}
}

// IncrReport counts a served report ("summary" or "transactions").
func (m *Metrics) IncrReport(kind, outcome string) {
	m.reports.WithLabelValues(kind, outcome).Inc()
}
