package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/spreadsent/pkg/observability"
)

func setupTestMeter(t *testing.T) (*observability.REDMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := mp.Meter("test")

	red, err := observability.NewREDMetrics(meter)
	require.NoError(t, err)

	return red, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func TestREDMetrics_RecordRequest(t *testing.T) {
	t.Parallel()
	red, reader := setupTestMeter(t)
	ctx := context.Background()

	red.RecordRequest(ctx, "score", "ok", time.Millisecond*100)

	rm := collectMetrics(t, reader)

	reqTotal := findMetric(rm, "spreadsent.requests.total")
	require.NotNil(t, reqTotal, "spreadsent.requests.total metric not found")

	reqDuration := findMetric(rm, "spreadsent.request.duration.seconds")
	require.NotNil(t, reqDuration, "spreadsent.request.duration.seconds metric not found")
}

func TestREDMetrics_RecordRequestError(t *testing.T) {
	t.Parallel()
	red, reader := setupTestMeter(t)
	ctx := context.Background()

	red.RecordRequest(ctx, "normalize", "error", time.Second)

	rm := collectMetrics(t, reader)

	errTotal := findMetric(rm, "spreadsent.errors.total")
	require.NotNil(t, errTotal, "spreadsent.errors.total metric not found")
}

func TestREDMetrics_TrackInflight(t *testing.T) {
	t.Parallel()
	red, reader := setupTestMeter(t)
	ctx := context.Background()

	done := red.TrackInflight(ctx, "score")

	rm := collectMetrics(t, reader)

	inflight := findMetric(rm, "spreadsent.inflight.requests")
	require.NotNil(t, inflight, "spreadsent.inflight.requests metric not found")

	done()

	rm = collectMetrics(t, reader)
	inflight = findMetric(rm, "spreadsent.inflight.requests")
	require.NotNil(t, inflight)
}

func TestNewREDMetrics_WithNilMeter(t *testing.T) {
	t.Parallel()
	// Should not panic with a no-op meter.
	cfg := observability.DefaultConfig()

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	red, err := observability.NewREDMetrics(providers.Meter)
	require.NoError(t, err)
	assert.NotNil(t, red)

	// Should not panic on recording.
	red.RecordRequest(context.Background(), "test", "ok", time.Millisecond)
}

func setupPipelineMeter(t *testing.T) (*observability.PipelineMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	pm, err := observability.NewPipelineMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return pm, reader
}

func sumInt(t *testing.T, m *metricdata.Metrics) map[string]int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	out := make(map[string]int64)

	for _, dp := range sum.DataPoints {
		status, _ := dp.Attributes.Value("status")
		out[status.AsString()] += dp.Value
	}

	return out
}

func TestPipelineMetrics_RecordUnit(t *testing.T) {
	t.Parallel()
	pm, reader := setupPipelineMeter(t)
	ctx := context.Background()

	pm.RecordUnit(ctx, observability.UnitScored)
	pm.RecordUnit(ctx, observability.UnitScored)
	pm.RecordUnit(ctx, observability.UnitSkipped)
	pm.RecordUnit(ctx, observability.UnitEmpty)

	rm := collectMetrics(t, reader)

	units := findMetric(rm, "spreadsent.units.total")
	require.NotNil(t, units)

	assert.Equal(t, map[string]int64{"scored": 2, "skipped": 1, "empty": 1}, sumInt(t, units))
}

func TestPipelineMetrics_RecordEntity(t *testing.T) {
	t.Parallel()
	pm, reader := setupPipelineMeter(t)

	pm.RecordEntity(context.Background(), 20*time.Millisecond)

	rm := collectMetrics(t, reader)

	require.NotNil(t, findMetric(rm, "spreadsent.entities.total"))

	hist := findMetric(rm, "spreadsent.entity.duration.seconds")
	require.NotNil(t, hist)

	data, ok := hist.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, data.DataPoints, 1)
	assert.Equal(t, uint64(1), data.DataPoints[0].Count)
}

func TestPipelineMetrics_RecordLexicons(t *testing.T) {
	t.Parallel()
	pm, reader := setupPipelineMeter(t)

	pm.RecordLexicons(context.Background(), map[string]int{"senticnet": 5, "vader": 10})

	rm := collectMetrics(t, reader)

	entries := findMetric(rm, "spreadsent.lexicon.entries")
	require.NotNil(t, entries)

	gauge, ok := entries.Data.(metricdata.Gauge[int64])
	require.True(t, ok)

	got := make(map[string]int64)

	for _, dp := range gauge.DataPoints {
		name, _ := dp.Attributes.Value("lexicon")
		got[name.AsString()] = dp.Value
	}

	assert.Equal(t, map[string]int64{"senticnet": 5, "vader": 10}, got)
}

func TestPipelineMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var pm *observability.PipelineMetrics

	assert.NotPanics(t, func() {
		pm.RecordUnit(context.Background(), observability.UnitScored)
		pm.RecordEntity(context.Background(), time.Second)
		pm.RecordLexicons(context.Background(), map[string]int{"vader": 1})
	})
}
