// Package metrics holds HTTP-level Prometheus metrics shared by all routes.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP request metrics.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge
}

// New registers the metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics on reg, so tests can use a fresh
// registry.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name: "ptacheck_http_request_duration_seconds",
			Help: "HTTP request latency by route, method, and status code",
			// /verify drives a browser, so the tail is long.
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"route", "method", "code"}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "ptacheck_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		}),
	}
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(route, method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method, strconv.Itoa(code)).Observe(d.Seconds())
}

func (m *Metrics) IncInFlight() {
	if m != nil {
		m.InFlight.Inc()
	}
}

func (m *Metrics) DecInFlight() {
	if m != nil {
		m.InFlight.Dec()
	}
}
