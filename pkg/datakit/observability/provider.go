package observability

import (
	"context"
	"errors"
	"log/slog"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Telemetry owns SDK meter and tracer providers for one process.
// Finished spans and, at Shutdown, collected metrics are written to the
// logger instead of a collector.
type Telemetry struct {
	logger *slog.Logger

	reader *sdkmetric.ManualReader
	mp     *sdkmetric.MeterProvider
	tp     *sdktrace.TracerProvider
}

// NewTelemetry creates providers for the enabled signals. The global OTel
// providers are left alone. With both disabled Metrics and Spans return
// no-ops.
func NewTelemetry(logger *slog.Logger, metrics, tracing bool) *Telemetry {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Telemetry{logger: logger}

	if metrics {
		t.reader = sdkmetric.NewManualReader()
		t.mp = sdkmetric.NewMeterProvider(sdkmetric.WithReader(t.reader))
	}
	if tracing {
		t.tp = sdktrace.NewTracerProvider(sdktrace.WithSyncer(&logExporter{logger: logger}))
	}
	return t
}

// Metrics returns a recorder bound to t's meter provider, or a
// no-op when metrics are disabled.
func (t *Telemetry) Metrics() MetricsRecorder {
	if t.mp == nil {
		return NoopMetrics{}
	}
	return NewMetricsRecorder(t.mp)
}

// Spans returns a span manager bound to t's tracer provider, or
// a no-op when tracing is disabled.
func (t *Telemetry) Spans() SpanManager {
	if t.tp == nil {
		return NoopSpanManager{}
	}
	return NewSpanManager(t.tp)
}

// Shutdown logs collected metrics and stops the providers. It is safe to
// call more than once.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.mp != nil {
		var rm metricdata.ResourceMetrics
		if err := t.reader.Collect(ctx, &rm); err != nil {
			errs = append(errs, err)
		} else {
			t.logMetrics(rm)
		}
		errs = append(errs, t.mp.Shutdown(ctx))
		t.mp = nil
	}
	if t.tp != nil {
		errs = append(errs, t.tp.Shutdown(ctx))
		t.tp = nil
	}
	return errors.Join(errs...)
}

func (t *Telemetry) logMetrics(rm metricdata.ResourceMetrics) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch d := m.Data.(type) {
			case metricdata.Sum[int64]:
				var total int64
				for _, dp := range d.DataPoints {
					total += dp.Value
				}
				t.logger.Info("metric", slog.String("name", m.Name), slog.Int64("sum", total))
			case metricdata.Histogram[float64]:
				var count uint64
				var sum float64
				for _, dp := range d.DataPoints {
					count += dp.Count
					sum += dp.Sum
				}
				t.logger.Info("metric", slog.String("name", m.Name),
					slog.Uint64("count", count), slog.Float64("sum", sum))
			case metricdata.Histogram[int64]:
				var count uint64
				var sum int64
				for _, dp := range d.DataPoints {
					count += dp.Count
					sum += dp.Sum
				}
				t.logger.Info("metric", slog.String("name", m.Name),
					slog.Uint64("count", count), slog.Int64("sum", sum))
			}
		}
	}
}

// logExporter writes finished spans to a slog logger.
type logExporter struct {
	logger *slog.Logger
}

var _ sdktrace.SpanExporter = (*logExporter)(nil)

func (e *logExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		e.logger.Info("span",
			slog.String("name", s.Name()),
			slog.String("trace_id", s.SpanContext().TraceID().String()),
			slog.String("status", s.Status().Code.String()),
			slog.Float64("duration_ms", Milliseconds(s.EndTime().Sub(s.StartTime()))),
		)
	}
	return nil
}

func (e *logExporter) Shutdown(context.Context) error {
	return nil
}
