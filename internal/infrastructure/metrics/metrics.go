// Package metrics exposes Prometheus collectors for authorization decisions
// and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomePermitted = "permitted"
	OutcomeBlocked   = "blocked"
	OutcomeError     = "error"
)

// Metrics owns its registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	gateDecisions       *prometheus.CounterVec
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	ruleLoads           *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		gateDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "casework",
				Name:      "authorization_decisions_total",
				Help:      "Sealed authorization gate decisions by route and outcome.",
			},
			[]string{"route", "outcome"},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "casework",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "casework",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latencies in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ruleLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "casework",
				Name:      "rule_set_loads_total",
				Help:      "Account rule set loads by result.",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.gateDecisions,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.ruleLoads,
	)
	return m
}

// ObserveDecision counts one sealed gate. A guard error is reported as
// OutcomeError even though the request was blocked.
func (m *Metrics) ObserveDecision(route string, permitted bool, err error) {
	outcome := OutcomeBlocked
	switch {
	case err != nil:
		outcome = OutcomeError
	case permitted:
		outcome = OutcomePermitted
	}
	m.gateDecisions.WithLabelValues(route, outcome).Inc()
}

// ObserveRequest records a completed HTTP request. route is the matched
// route template, not the raw path.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveRuleLoad counts a rule set load attempt.
func (m *Metrics) ObserveRuleLoad(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ruleLoads.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
