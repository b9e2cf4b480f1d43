package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	catalogLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Catalog loads by resolved dataset source",
		},
		[]string{"source"},
	)

	catalogRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_records",
			Help: "Number of records in the active catalog",
		},
	)

	catalogRowsSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_rows_skipped_total",
			Help: "Rows dropped while parsing datasets",
		},
	)

	renderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "render_requests_total",
			Help: "Glyph render requests by outcome",
		},
		[]string{"outcome"}, // cache_hit, rendered, failed
	)

	renderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "render_duration_seconds",
			Help:    "Time spent rasterizing a glyph",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)
)
