// Package metrics defines Prometheus collectors for the HTTP API and the profit engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelSource = "source"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sellsheet_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status.",
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sellsheet_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sellsheet_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)
)

// Business metrics
var (
	AnalysesComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sellsheet_analyses_computed_total",
			Help: "Profit analyses computed, by source (state, draft, recipe).",
		},
		[]string{LabelSource},
	)

	ExportsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sellsheet_exports_rendered_total",
			Help: "Exports rendered, by format.",
		},
		[]string{"format"},
	)
)
