package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	extractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eclcli_extractions_total",
		Help: "Extraction requests by kind and outcome.",
	}, []string{"kind", "outcome"})

	rowsEmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eclcli_rows_emitted_total",
		Help: "Table rows emitted by extraction kind.",
	}, []string{"kind"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eclcli_extraction_duration_seconds",
		Help:    "Extraction request duration.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
)

// MetricsHandler serves the prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

func observeExtraction(kind, outcome string, rows int, seconds float64) {
	extractionsTotal.WithLabelValues(kind, outcome).Inc()
	if rows > 0 {
		rowsEmittedTotal.WithLabelValues(kind).Add(float64(rows))
	}
	requestDuration.WithLabelValues(kind).Observe(seconds)
}
