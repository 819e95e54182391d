package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shipping",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shipping",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template and status",
		},
		[]string{"method", "route", "status"},
	)
)
