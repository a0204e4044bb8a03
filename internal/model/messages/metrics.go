package messages

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var histogramResponseTime = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "personal_ledger",
		Subsystem: "telegram",
		Name:      "histogram_response_time_seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
	},
	[]string{"command", "status"},
)

func observeResponse(command string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	histogramResponseTime.
		WithLabelValues(command, status).
		Observe(elapsed.Seconds())
}
