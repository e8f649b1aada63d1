package numberreport

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/malonaz/libphonenumber/go/phonenumber"
)

const (
	kindSingle   = "single"
	kindBatchRow = "batch_row"

	outcomeValid   = "valid"
	outcomeInvalid = "invalid"
)

var (
	metricsOnce sync.Once
	metrics     *reportMetrics
)

type reportMetrics struct {
	reportsTotal   *prometheus.CounterVec
	batchesTotal   prometheus.Counter
	batchRowsTotal prometheus.Histogram
}

func getMetrics() *reportMetrics {
	metricsOnce.Do(func() {
		metrics = &reportMetrics{
			reportsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "numberreport_reports_total",
					Help: "Total number of numbers reported on, by kind and outcome",
				},
				[]string{"kind", "outcome"},
			),
			batchesTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "numberreport_batches_total",
					Help: "Total number of batch reports built",
				},
			),
			batchRowsTotal: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "numberreport_batch_rows",
					Help:    "Number of rows in batch reports",
					Buckets: prometheus.ExponentialBuckets(1, 4, 6),
				},
			),
		}
	})
	return metrics
}

// outcome is the metric label of a report, the parse error type when parsing failed.
func outcome(valid bool, err error) string {
	if err != nil {
		return phonenumber.ErrorTypeOf(err).String()
	}
	if valid {
		return outcomeValid
	}
	return outcomeInvalid
}
