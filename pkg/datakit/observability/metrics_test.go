package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest builds a meter provider with a manual reader.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	})

	return reader, provider
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumFor returns the counter value for the data point carrying operation=op,
// or the first data point when op is empty.
func sumFor(t *testing.T, m *metricdata.Metrics, op string) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Expected Sum type")
	for _, dp := range sum.DataPoints {
		if op == "" {
			return dp.Value
		}
		if v, ok := dp.Attributes.Value("operation"); ok && v.AsString() == op {
			return dp.Value
		}
	}
	return 0
}

func TestNewMetricsRecorder(t *testing.T) {
	_, provider := setupMetricsTest(t)

	recorder := NewMetricsRecorder(provider)
	require.NotNil(t, recorder)

	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")

	_, isNoop = NewMetricsRecorder(nil).(NoopMetrics)
	assert.True(t, isNoop, "nil provider should yield noop recorder")
}

func TestRecordRegistryOp(t *testing.T) {
	reader, provider := setupMetricsTest(t)
	m, err := newOtelMetrics(provider.Meter("datakit"))
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordRegistryOp(ctx, "add", true, time.Millisecond)
	m.RecordRegistryOp(ctx, "add", false, time.Millisecond)
	m.RecordRegistryOp(ctx, "delete", true, time.Millisecond)

	rm := collectMetrics(t, reader)

	ops := findMetric(rm, "datakit.registry.ops")
	require.NotNil(t, ops)
	assert.Equal(t, int64(2), sumFor(t, ops, "add"))
	assert.Equal(t, int64(1), sumFor(t, ops, "delete"))

	failures := findMetric(rm, "datakit.registry.failures")
	require.NotNil(t, failures)
	assert.Equal(t, int64(1), sumFor(t, failures, "add"))
	assert.Equal(t, int64(0), sumFor(t, failures, "delete"))

	latency := findMetric(rm, "datakit.registry.latency_ms")
	require.NotNil(t, latency)
	_, ok := latency.Data.(metricdata.Histogram[float64])
	assert.True(t, ok, "Expected Histogram type")
}

func TestRecordAnalysis(t *testing.T) {
	reader, provider := setupMetricsTest(t)
	m, err := newOtelMetrics(provider.Meter("datakit"))
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordAnalysis(ctx, 6, 1, 2*time.Millisecond)
	m.RecordAnalysis(ctx, 2, 0, time.Millisecond)

	rm := collectMetrics(t, reader)

	runs := findMetric(rm, "datakit.analysis.runs")
	require.NotNil(t, runs)
	assert.Equal(t, int64(2), sumFor(t, runs, ""))

	outliers := findMetric(rm, "datakit.analysis.outliers")
	require.NotNil(t, outliers)
	assert.Equal(t, int64(1), sumFor(t, outliers, ""))

	size := findMetric(rm, "datakit.analysis.sample_size")
	require.NotNil(t, size)
	hist, ok := size.Data.(metricdata.Histogram[int64])
	require.True(t, ok, "Expected Histogram type")
	require.NotEmpty(t, hist.DataPoints)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.Equal(t, int64(8), hist.DataPoints[0].Sum)
}

func TestRecordFileOp(t *testing.T) {
	reader, provider := setupMetricsTest(t)
	m, err := newOtelMetrics(provider.Meter("datakit"))
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordFileOp(ctx, "write", 10, nil)
	m.RecordFileOp(ctx, "read", 0, errors.New("missing"))

	rm := collectMetrics(t, reader)

	ops := findMetric(rm, "datakit.file.ops")
	require.NotNil(t, ops)
	assert.Equal(t, int64(1), sumFor(t, ops, "write"))
	assert.Equal(t, int64(1), sumFor(t, ops, "read"))

	errs := findMetric(rm, "datakit.file.errors")
	require.NotNil(t, errs)
	assert.Equal(t, int64(1), sumFor(t, errs, "read"))
	assert.Equal(t, int64(0), sumFor(t, errs, "write"))
}
