package observability

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records datakit metrics.
// Use NewMetricsRecorder for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordRegistryOp records a registry operation and whether it succeeded.
	RecordRegistryOp(ctx context.Context, op string, ok bool, duration time.Duration)

	// RecordAnalysis records a sample analysis.
	RecordAnalysis(ctx context.Context, sampleSize, removed int, duration time.Duration)

	// RecordFileOp records a file read or write.
	RecordFileOp(ctx context.Context, op string, sizeBytes int, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	registryOps      metric.Int64Counter
	registryFailures metric.Int64Counter
	registryLatency  metric.Float64Histogram
	analysisRuns     metric.Int64Counter
	analysisLatency  metric.Float64Histogram
	sampleSize       metric.Int64Histogram
	outliers         metric.Int64Counter
	fileOps          metric.Int64Counter
	fileErrors       metric.Int64Counter
	fileSize         metric.Int64Histogram
}

func newOtelMetrics(meter metric.Meter) (*otelMetrics, error) {
	registryOps, err := meter.Int64Counter("datakit.registry.ops",
		metric.WithDescription("Number of registry operations"),
	)
	if err != nil {
		return nil, err
	}

	registryFailures, err := meter.Int64Counter("datakit.registry.failures",
		metric.WithDescription("Number of registry operations that returned false"),
	)
	if err != nil {
		return nil, err
	}

	registryLatency, err := meter.Float64Histogram("datakit.registry.latency_ms",
		metric.WithDescription("Registry operation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	analysisRuns, err := meter.Int64Counter("datakit.analysis.runs",
		metric.WithDescription("Number of sample analyses"),
	)
	if err != nil {
		return nil, err
	}

	analysisLatency, err := meter.Float64Histogram("datakit.analysis.latency_ms",
		metric.WithDescription("Sample analysis latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	sampleSize, err := meter.Int64Histogram("datakit.analysis.sample_size",
		metric.WithDescription("Number of values per analyzed sample"),
	)
	if err != nil {
		return nil, err
	}

	outliers, err := meter.Int64Counter("datakit.analysis.outliers",
		metric.WithDescription("Number of values removed as outliers"),
	)
	if err != nil {
		return nil, err
	}

	fileOps, err := meter.Int64Counter("datakit.file.ops",
		metric.WithDescription("Number of file operations"),
	)
	if err != nil {
		return nil, err
	}

	fileErrors, err := meter.Int64Counter("datakit.file.errors",
		metric.WithDescription("Number of failed file operations"),
	)
	if err != nil {
		return nil, err
	}

	fileSize, err := meter.Int64Histogram("datakit.file.size_bytes",
		metric.WithDescription("Bytes read or written per file operation"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		registryOps:      registryOps,
		registryFailures: registryFailures,
		registryLatency:  registryLatency,
		analysisRuns:     analysisRuns,
		analysisLatency:  analysisLatency,
		sampleSize:       sampleSize,
		outliers:         outliers,
		fileOps:          fileOps,
		fileErrors:       fileErrors,
		fileSize:         fileSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder backed by mp.
// A nil provider or failed instrument creation yields a no-op recorder.
func NewMetricsRecorder(mp metric.MeterProvider) MetricsRecorder {
	if mp == nil {
		return NoopMetrics{}
	}
	m, err := newOtelMetrics(mp.Meter("datakit"))
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordRegistryOp records a registry operation.
func (m *otelMetrics) RecordRegistryOp(ctx context.Context, op string, ok bool, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("operation", op))

	m.registryOps.Add(ctx, 1, attrs)
	m.registryLatency.Record(ctx, Milliseconds(duration), attrs)
	if !ok {
		m.registryFailures.Add(ctx, 1, attrs)
	}
}

// RecordAnalysis records a sample analysis.
func (m *otelMetrics) RecordAnalysis(ctx context.Context, sampleSize, removed int, duration time.Duration) {
	m.analysisRuns.Add(ctx, 1)
	m.analysisLatency.Record(ctx, Milliseconds(duration))
	m.sampleSize.Record(ctx, int64(sampleSize))
	if removed > 0 {
		m.outliers.Add(ctx, int64(removed))
	}
}

// RecordFileOp records a file operation.
func (m *otelMetrics) RecordFileOp(ctx context.Context, op string, sizeBytes int, err error) {
	attrs := metric.WithAttributes(attribute.String("operation", op))

	m.fileOps.Add(ctx, 1, attrs)
	if err != nil {
		m.fileErrors.Add(ctx, 1, attrs)
		return
	}
	m.fileSize.Record(ctx, int64(sizeBytes), attrs)
}
