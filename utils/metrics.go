package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	ReqCount    *prometheus.CounterVec
	ReqDuration *prometheus.HistogramVec
	ErrorCount  *prometheus.CounterVec
}

// NewMetrics creates the HTTP metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReqCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "app_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		ReqDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "app_request_duration_seconds",
				Help:    "Request duration seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		// handler is the route, type is the error class (not_found, validation, storage)
		ErrorCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "app_errors_total",
				Help: "Total app errors",
			},
			[]string{"handler", "type"},
		),
	}

	reg.MustRegister(m.ReqCount, m.ReqDuration, m.ErrorCount)
	return m
}
