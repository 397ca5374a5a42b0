package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

var _ MetricsRecorder = NoopMetrics{}

// RecordRegistryOp does nothing.
func (NoopMetrics) RecordRegistryOp(_ context.Context, _ string, _ bool, _ time.Duration) {}

// RecordAnalysis does nothing.
func (NoopMetrics) RecordAnalysis(_ context.Context, _, _ int, _ time.Duration) {}

// RecordFileOp does nothing.
func (NoopMetrics) RecordFileOp(_ context.Context, _ string, _ int, _ error) {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartAnalysisSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartAnalysisSpan(ctx context.Context, _ string, _ int) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartFileSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartFileSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
