// Package metrics registers the app's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry           *prometheus.Registry
	httpRequests       *prometheus.CounterVec
	allowanceProcessed prometheus.Counter
	allowanceFailed    prometheus.Counter
	allowanceRuns      prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		allowanceProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "allowance_credits_processed_total",
			Help: "Kids successfully credited by the recurring allowance job.",
		}),
		allowanceFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "allowance_credits_failed_total",
			Help: "Kids the recurring allowance job failed to credit.",
		}),
		allowanceRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "allowance_runs_total",
			Help: "Recurring allowance job runs.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) HTTPRequest(method string, status int) {
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) AllowanceProcessed() {
	m.allowanceProcessed.Inc()
}

func (m *Metrics) AllowanceFailed() {
	m.allowanceFailed.Inc()
}

func (m *Metrics) AllowanceRun() {
	m.allowanceRuns.Inc()
}
