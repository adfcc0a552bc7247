package observability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/treemap/pkg/observability"
)

func setupTestMeter(t *testing.T) (*observability.REDMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return red, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

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

func counterTotal(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()
	require.NotNil(t, m)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func TestREDMetrics_RecordCommand(t *testing.T) {
	t.Parallel()

	red, reader := setupTestMeter(t)
	ctx := context.Background()

	red.RecordCommand(ctx, "dump", observability.StatusOK, 100*time.Millisecond)
	red.RecordCommand(ctx, "dump", observability.StatusError, time.Second)

	rm := collectMetrics(t, reader)

	assert.Equal(t, int64(2), counterTotal(t, findMetric(rm, "treemap.commands.total")))
	assert.Equal(t, int64(1), counterTotal(t, findMetric(rm, "treemap.errors.total")))
	require.NotNil(t, findMetric(rm, "treemap.command.duration.seconds"))
}

func TestREDMetrics_TrackInflight(t *testing.T) {
	t.Parallel()

	red, reader := setupTestMeter(t)
	done := red.TrackInflight(context.Background(), "load")

	assert.Equal(t, int64(1), counterTotal(t, findMetric(collectMetrics(t, reader), "treemap.inflight.commands")))

	done()

	assert.Equal(t, int64(0), counterTotal(t, findMetric(collectMetrics(t, reader), "treemap.inflight.commands")))
}

func TestREDMetrics_RecordSnapshot(t *testing.T) {
	t.Parallel()

	red, reader := setupTestMeter(t)
	red.RecordSnapshot(context.Background(), observability.DirectionWrite, 42, 1024)

	rm := collectMetrics(t, reader)

	pairs := findMetric(rm, "treemap.snapshot.pairs")
	require.NotNil(t, pairs)

	hist, ok := pairs.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, int64(42), hist.DataPoints[0].Sum)

	require.NotNil(t, findMetric(rm, "treemap.snapshot.bytes"))
}

func TestRunCommand(t *testing.T) {
	t.Parallel()

	red, reader := setupTestMeter(t)
	spans := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spans))
	tracer := tp.Tracer("test")

	require.NoError(t, observability.RunCommand(context.Background(), tracer, red, "query",
		func(context.Context) error { return nil }))

	errBoom := errors.New("boom")

	err := observability.RunCommand(context.Background(), tracer, red, "query",
		func(context.Context) error { return errBoom })
	require.ErrorIs(t, err, errBoom)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(2), counterTotal(t, findMetric(rm, "treemap.commands.total")))
	assert.Equal(t, int64(1), counterTotal(t, findMetric(rm, "treemap.errors.total")))

	ended := spans.GetSpans()
	require.Len(t, ended, 2)
	assert.Equal(t, "treemap.query", ended[0].Name)
	assert.Len(t, ended[1].Events, 1)
}

func TestNewREDMetrics_WithNoopMeter(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(context.Background(), observability.DefaultConfig())
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	red, err := observability.NewREDMetrics(providers.Meter)
	require.NoError(t, err)

	red.RecordCommand(context.Background(), "test", observability.StatusOK, time.Millisecond)
}
