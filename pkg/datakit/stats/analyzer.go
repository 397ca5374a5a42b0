package stats

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/datakit/pkg/datakit/observability"
)

// Report is the outcome of one Analyze call.
type Report struct {
	// ID correlates the report with its log line and trace span.
	ID string `json:"id"`
	// Summary describes the unfiltered sample. Zero when Valid is false.
	Summary Summary `json:"summary"`
	// Valid is false for an empty sample.
	Valid bool `json:"valid"`
	// Threshold is the number of standard deviations used for filtering.
	Threshold float64 `json:"threshold"`
	// Filtered is the sample with outliers removed, in input order.
	Filtered []float64 `json:"filtered"`
	// Removed is the number of values dropped by the filter.
	Removed int `json:"removed"`
}

// Analyzer runs Calculate and FilterOutliers together with logging,
// metrics and tracing.
type Analyzer struct {
	threshold float64
	logger    *slog.Logger
	metrics   observability.MetricsRecorder
	spans     observability.SpanManager
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithThreshold sets the outlier threshold. Negative values and NaN are
// ignored; zero keeps only values equal to the mean.
func WithThreshold(threshold float64) AnalyzerOption {
	return func(a *Analyzer) {
		if threshold >= 0 {
			a.threshold = threshold
		}
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		a.logger = observability.EnrichLogger(logger, "stats")
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) AnalyzerOption {
	return func(a *Analyzer) {
		if m != nil {
			a.metrics = m
		}
	}
}

// WithSpanManager sets the span manager.
func WithSpanManager(sm observability.SpanManager) AnalyzerOption {
	return func(a *Analyzer) {
		if sm != nil {
			a.spans = sm
		}
	}
}

// NewAnalyzer creates an Analyzer using DefaultThreshold and no-op telemetry.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		threshold: DefaultThreshold,
		metrics:   observability.NoopMetrics{},
		spans:     observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Threshold returns the configured outlier threshold.
func (a *Analyzer) Threshold() float64 {
	return a.threshold
}

// Analyze summarizes samples and filters their outliers.
func (a *Analyzer) Analyze(ctx context.Context, samples []float64) Report {
	report := Report{
		ID:        uuid.NewString(),
		Threshold: a.threshold,
	}

	ctx, span := a.spans.StartAnalysisSpan(ctx, report.ID, len(samples))
	done := observability.TimedOperation()

	report.Summary, report.Valid = Calculate(samples)
	report.Filtered = FilterOutliers(samples, a.threshold)
	report.Removed = len(samples) - len(report.Filtered)

	if report.Removed > 0 {
		a.spans.AddSpanEvent(ctx, "outliers.filtered",
			attribute.Int("removed", report.Removed),
			attribute.Float64("threshold", a.threshold),
		)
	}

	elapsed := done()
	a.metrics.RecordAnalysis(ctx, len(samples), report.Removed, elapsed)
	observability.LogAnalysis(a.logger, report.ID, len(samples), report.Removed, observability.Milliseconds(elapsed))
	a.spans.EndSpanWithError(span, nil)

	return report
}
