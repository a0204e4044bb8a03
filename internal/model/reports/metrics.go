package reports

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var histogramReportTime = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "personal_ledger",
		Subsystem: "reports",
		Name:      "histogram_report_time_seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	},
	[]string{"error"},
)

func observeReport(elapsed time.Duration, err error) {
	histogramReportTime.
		WithLabelValues(strconv.FormatBool(err != nil)).
		Observe(elapsed.Seconds())
}
