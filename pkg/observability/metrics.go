package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRequestsTotal    = "spreadsent.requests.total"
	metricRequestDuration  = "spreadsent.request.duration.seconds"
	metricErrorsTotal      = "spreadsent.errors.total"
	metricInflightRequests = "spreadsent.inflight.requests"

	metricUnitsTotal     = "spreadsent.units.total"
	metricEntitiesTotal  = "spreadsent.entities.total"
	metricLexiconEntries = "spreadsent.lexicon.entries"
	metricEntityDuration = "spreadsent.entity.duration.seconds"

	attrOp      = "op"
	attrStatus  = "status"
	attrLexicon = "lexicon"

	statusError = "error"
)

// Unit statuses recorded by [PipelineMetrics.RecordUnit].
const (
	UnitScored  = "scored"
	UnitSkipped = "skipped"
	UnitEmpty   = "empty"
)

// durationBucketBoundaries covers 1ms to 60s: single texts score in
// milliseconds, whole timelines in seconds.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// REDMetrics holds the OTel instruments for Rate, Error, Duration metrics.
type REDMetrics struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	errorsTotal      metric.Int64Counter
	inflightRequests metric.Int64UpDownCounter
}

// NewREDMetrics creates RED metric instruments from the given meter.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	reqTotal, err := mt.Int64Counter(metricRequestsTotal,
		metric.WithDescription("Total number of requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestsTotal, err)
	}

	reqDuration, err := mt.Float64Histogram(metricRequestDuration,
		metric.WithDescription("Request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestDuration, err)
	}

	errTotal, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Total number of errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricInflightRequests,
		metric.WithDescription("Number of in-flight requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInflightRequests, err)
	}

	return &REDMetrics{
		requestsTotal:    reqTotal,
		requestDuration:  reqDuration,
		errorsTotal:      errTotal,
		inflightRequests: inflight,
	}, nil
}

// RecordRequest records a completed request with its operation, status, and duration.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.requestsTotal.Add(ctx, 1, attrs)
	rm.requestDuration.Record(ctx, duration.Seconds(), attrs)

	if status == statusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrOp, op),
		))
	}
}

// TrackInflight increments the in-flight gauge and returns a function to decrement it.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightRequests.Add(ctx, 1, attrs)

	return func() {
		rm.inflightRequests.Add(ctx, -1, attrs)
	}
}

// PipelineMetrics counts batch scoring progress. A nil *PipelineMetrics
// is valid and records nothing.
type PipelineMetrics struct {
	units          metric.Int64Counter
	entities       metric.Int64Counter
	lexiconEntries metric.Int64Gauge
	entityDuration metric.Float64Histogram
}

// NewPipelineMetrics creates the batch instruments from the given meter.
func NewPipelineMetrics(mt metric.Meter) (*PipelineMetrics, error) {
	units, err := mt.Int64Counter(metricUnitsTotal,
		metric.WithDescription("Text units processed, by outcome"),
		metric.WithUnit("{unit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricUnitsTotal, err)
	}

	entities, err := mt.Int64Counter(metricEntitiesTotal,
		metric.WithDescription("Entities fully processed"),
		metric.WithUnit("{entity}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricEntitiesTotal, err)
	}

	entries, err := mt.Int64Gauge(metricLexiconEntries,
		metric.WithDescription("Entries loaded per lexicon"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricLexiconEntries, err)
	}

	duration, err := mt.Float64Histogram(metricEntityDuration,
		metric.WithDescription("Time spent processing one entity"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricEntityDuration, err)
	}

	return &PipelineMetrics{
		units:          units,
		entities:       entities,
		lexiconEntries: entries,
		entityDuration: duration,
	}, nil
}

// RecordUnit counts one text unit with the given status.
func (pm *PipelineMetrics) RecordUnit(ctx context.Context, status string) {
	if pm == nil {
		return
	}

	pm.units.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, status)))
}

// RecordEntity counts one finished entity and its processing time.
func (pm *PipelineMetrics) RecordEntity(ctx context.Context, duration time.Duration) {
	if pm == nil {
		return
	}

	pm.entities.Add(ctx, 1)
	pm.entityDuration.Record(ctx, duration.Seconds())
}

// RecordLexicons reports loaded entry counts keyed by lexicon name.
func (pm *PipelineMetrics) RecordLexicons(ctx context.Context, counts map[string]int) {
	if pm == nil {
		return
	}

	for name, n := range counts {
		pm.lexiconEntries.Record(ctx, int64(n), metric.WithAttributes(attribute.String(attrLexicon, name)))
	}
}
