package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricOpsTotal    = "ivindex.ops.total"
	metricOpDuration  = "ivindex.op.duration.seconds"
	metricErrorsTotal = "ivindex.errors.total"
	metricOpResults   = "ivindex.op.results"
	metricIndexSize   = "ivindex.index.entries"
	metricIndexLows   = "ivindex.index.lows"

	attrOp     = "op"
	attrStatus = "status"

	// StatusOK marks an operation that completed.
	StatusOK = "ok"
	// StatusError marks an operation that returned an error.
	StatusError = "error"
)

// durationBucketBoundaries covers 1µs to 1s: single tree operations sit
// at the bottom, full verification walks of large indexes at the top.
var durationBucketBoundaries = []float64{
	0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1,
}

// resultBucketBoundaries buckets the number of entries a query returns.
var resultBucketBoundaries = []float64{0, 1, 2, 5, 10, 50, 100, 500, 1000, 10000}

// REDMetrics holds the rate, error and duration instruments for index
// operations plus gauges for the index shape.
type REDMetrics struct {
	opsTotal    metric.Int64Counter
	opDuration  metric.Float64Histogram
	errorsTotal metric.Int64Counter
	opResults   metric.Int64Histogram
	indexSize   metric.Int64Gauge
	indexLows   metric.Int64Gauge
}

// NewREDMetrics creates the metric instruments from the given meter.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	b := newMetricBuilder(mt)

	rm := &REDMetrics{
		opsTotal:    b.counter(metricOpsTotal, "Total number of index operations", "{op}"),
		opDuration:  b.histogram(metricOpDuration, "Index operation duration in seconds", "s", durationBucketBoundaries...),
		errorsTotal: b.counter(metricErrorsTotal, "Total number of failed index operations", "{error}"),
		opResults:   b.intHistogram(metricOpResults, "Entries returned per query", "{entry}", resultBucketBoundaries...),
		indexSize:   b.gauge(metricIndexSize, "Intervals stored in the index", "{entry}"),
		indexLows:   b.gauge(metricIndexLows, "Distinct low endpoints in the index", "{key}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return rm, nil
}

// RecordOp records one completed operation with its status, duration and
// the number of entries it returned.
func (rm *REDMetrics) RecordOp(ctx context.Context, op, status string, duration time.Duration, results int) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.opsTotal.Add(ctx, 1, attrs)
	rm.opDuration.Record(ctx, duration.Seconds(), attrs)
	rm.opResults.Record(ctx, int64(results), metric.WithAttributes(attribute.String(attrOp, op)))

	if status == StatusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
	}
}

// RecordShape records the current entry and low endpoint counts.
func (rm *REDMetrics) RecordShape(ctx context.Context, entries, lows int) {
	rm.indexSize.Record(ctx, int64(entries))
	rm.indexLows.Record(ctx, int64(lows))
}
