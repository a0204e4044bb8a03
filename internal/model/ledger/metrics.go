package ledger

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"max.ks1230/personal-ledger/internal/model/customerr"
)

var histogramOperationTime = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "personal_ledger",
		Subsystem: "ledger",
		Name:      "histogram_operation_time_seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
	},
	[]string{"operation", "result"},
)

func observeOperation(op Operation, elapsed time.Duration, err error) {
	histogramOperationTime.
		WithLabelValues(string(op), resultLabel(err)).
		Observe(elapsed.Seconds())
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case customerr.IsValidation(err):
		return "validation"
	case customerr.IsAuth(err):
		return "auth"
	case customerr.IsNotFound(err):
		return "not_found"
	case customerr.IsStoreUnavailable(err):
		return "store_unavailable"
	}
	return "error"
}
