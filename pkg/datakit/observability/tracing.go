package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanManager handles trace span lifecycle.
// Use NewSpanManager for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartAnalysisSpan starts a span for one sample analysis.
	StartAnalysisSpan(ctx context.Context, reportID string, sampleSize int) (context.Context, trace.Span)

	// StartFileSpan starts a span for a file read or write.
	StartFileSpan(ctx context.Context, op, path string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

type otelSpanManager struct {
	tracer trace.Tracer
}

// NewSpanManager returns a SpanManager whose spans come from tp.
// A nil provider yields a no-op span manager.
func NewSpanManager(tp trace.TracerProvider) SpanManager {
	if tp == nil {
		return NoopSpanManager{}
	}
	return &otelSpanManager{tracer: tp.Tracer("datakit")}
}

func (m *otelSpanManager) StartAnalysisSpan(ctx context.Context, reportID string, sampleSize int) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "datakit.analyze",
		trace.WithAttributes(
			attribute.String("report.id", reportID),
			attribute.Int("sample.size", sampleSize),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) StartFileSpan(ctx context.Context, op, path string) (context.Context, trace.Span) {
	return m.tracer.Start(ctx, "datakit.file."+op,
		trace.WithAttributes(
			attribute.String("file.path", path),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
