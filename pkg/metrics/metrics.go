package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeFailure = "failure"
)

// Metrics holds the application's counters. A nil *Metrics is a valid no-op.
type Metrics struct {
	ProductSaves    *prometheus.CounterVec
	ExpiryReminders *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// New registers the metrics on reg using prefix for every metric name.
func New(reg prometheus.Registerer, prefix string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProductSaves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_product_saves_total",
				Help: "Product save attempts by outcome",
			},
			[]string{"outcome"},
		),
		ExpiryReminders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_expiry_reminders_total",
				Help: "Expiry reminders by publish outcome",
			},
			[]string{"outcome"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

func (m *Metrics) ObserveSave(outcome string) {
	if m == nil {
		return
	}
	m.ProductSaves.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveReminder(outcome string) {
	if m == nil {
		return
	}
	m.ExpiryReminders.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRequest(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, status).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(seconds)
}
