package webhook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	webhookBarsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_bars_total",
			Help: "Total number of bars received over the webhook",
		},
		[]string{"endpoint", "status"}, // "accepted" or "rejected"
	)
)
