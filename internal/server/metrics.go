package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	conversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidmux_conversions_total",
			Help: "Total number of conversion requests by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	conversionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vidmux_conversion_duration_seconds",
			Help:    "Conversion duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"kind"},
	)

	requestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vidmux_requests_in_flight",
			Help: "Number of conversion requests currently being processed",
		},
	)
)

func observeConversion(kind, status string, seconds float64) {
	conversionsTotal.WithLabelValues(kind, status).Inc()
	conversionDuration.WithLabelValues(kind).Observe(seconds)
}
