// Package metrics defines the prometheus collectors of the API server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "emi_planner"

// Metrics holds the server's collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	// Requests counts API requests by handler and status class.
	Requests *prometheus.CounterVec
	// RequestDuration observes handler latency.
	RequestDuration *prometheus.HistogramVec
	// CalculationErrors counts rejected inputs by handler and error kind.
	CalculationErrors *prometheus.CounterVec
	// PlannedLoans counts loans planned, by prepayment mode.
	PlannedLoans *prometheus.CounterVec
	// InterestSaved observes the interest saved per plan.
	InterestSaved prometheus.Histogram
	// SavedLoans tracks saved-loan store operations by outcome.
	SavedLoans *prometheus.CounterVec
}

// New registers every collector in a fresh registry, alongside the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "API requests by handler and status.",
			},
			[]string{"handler", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "API request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"handler"},
		),
		CalculationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calculation_errors_total",
				Help:      "Rejected calculation inputs.",
			},
			[]string{"handler", "error_type"},
		),
		PlannedLoans: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "planned_loans_total",
				Help:      "Loans planned, by prepayment mode.",
			},
			[]string{"mode"},
		),
		InterestSaved: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "interest_saved",
				Help:      "Interest saved per plan.",
				Buckets:   prometheus.ExponentialBuckets(1000, 10, 6),
			},
		),
		SavedLoans: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "saved_loan_operations_total",
				Help:      "Saved-loan store operations.",
			},
			[]string{"operation", "status"},
		),
	}
}

// Registry returns the registry the collectors are registered in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
