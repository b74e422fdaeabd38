package storage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	insertTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barstore_insert_total",
			Help: "Total number of bar insert attempts",
		},
		[]string{"status"}, // "inserted", "duplicate" or "error"
	)

	queryLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "barstore_query_latency_seconds",
			Help:    "Latency of bar store read operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		},
		[]string{"operation"},
	)
)
