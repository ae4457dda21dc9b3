// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one process. Each instance owns its
// registry so tests can build as many as they like.
type Metrics struct {
	reg *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	validations     *prometheus.CounterVec
	saves           *prometheus.CounterVec
	sessions        prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxonomy_http_requests_total",
				Help: "HTTP requests by method, route and status code.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taxonomy_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxonomy_form_validations_total",
				Help: "Form validations by source and outcome.",
			},
			[]string{"source", "outcome"},
		),
		saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxonomy_product_type_saves_total",
				Help: "Product type saves by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "taxonomy_edit_sessions_active",
			Help: "Edit sessions currently held in memory.",
		}),
	}

	m.reg.MustRegister(
		m.requests,
		m.requestDuration,
		m.validations,
		m.saves,
		m.sessions,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveValidation counts one validator run. source is "api", "preview" or
// "cli".
func (m *Metrics) ObserveValidation(source string, success bool) {
	m.validations.WithLabelValues(source, outcome(success)).Inc()
}

// ObserveSave counts one product type save. operation is "create" or
// "update".
func (m *Metrics) ObserveSave(operation string, success bool) {
	m.saves.WithLabelValues(operation, outcome(success)).Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	m.sessions.Set(float64(n))
}

// WriteTextfile dumps the registry in the text exposition format, for
// node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
