// Package textfile reads and writes whole UTF-8 text files.
//
// Failures never panic and are never returned as bare errors: every call
// yields a Result whose Err field carries the cause, and the failure is
// logged through the Manager's logger.
//
//	res := textfile.WriteText("out/report.txt", "hello")
//	if !res.OK() {
//	    return res.Err
//	}
package textfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/datakit/pkg/datakit/observability"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// ErrInvalidUTF8 is returned when a file's bytes are not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// Result is the outcome of a file operation.
type Result struct {
	// Content is the file text for reads and the written text for writes.
	// Empty when Err is set.
	Content string
	// Err is nil on success.
	Err error
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Manager performs file operations with logging, metrics and tracing.
type Manager struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// Option configures a Manager.
type Option func(*Manager)

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(fm *Manager) {
		if m != nil {
			fm.metrics = m
		}
	}
}

// WithSpanManager sets the span manager.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(fm *Manager) {
		if sm != nil {
			fm.spans = sm
		}
	}
}

// New creates a Manager. A nil logger disables logging.
func New(logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		logger:  observability.EnrichLogger(logger, "textfile"),
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Read returns the full contents of the file at path.
func (m *Manager) Read(ctx context.Context, path string) Result {
	ctx, span := m.spans.StartFileSpan(ctx, "read", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return m.fail(ctx, span, "read", path, fmt.Errorf("read %s: %w", path, err))
	}
	if !utf8.Valid(data) {
		return m.fail(ctx, span, "read", path, fmt.Errorf("read %s: %w", path, ErrInvalidUTF8))
	}

	m.metrics.RecordFileOp(ctx, "read", len(data), nil)
	m.spans.EndSpanWithError(span, nil)
	return Result{Content: string(data)}
}

// Write replaces the file at path with content, creating missing parent
// directories first.
func (m *Manager) Write(ctx context.Context, path, content string) Result {
	ctx, span := m.spans.StartFileSpan(ctx, "write", path)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return m.fail(ctx, span, "write", path, fmt.Errorf("create parent of %s: %w", path, err))
		}
	}
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		return m.fail(ctx, span, "write", path, fmt.Errorf("write %s: %w", path, err))
	}

	m.metrics.RecordFileOp(ctx, "write", len(content), nil)
	observability.LogFileWritten(m.logger, path, len(content))
	m.spans.EndSpanWithError(span, nil)
	return Result{Content: content}
}

func (m *Manager) fail(ctx context.Context, span trace.Span, op, path string, err error) Result {
	m.metrics.RecordFileOp(ctx, op, 0, err)
	observability.LogFileError(m.logger, op, path, err)
	m.spans.EndSpanWithError(span, err)
	return Result{Err: err}
}

// ReadText reads path with a Manager that logs to slog.Default().
func ReadText(path string) Result {
	return New(slog.Default()).Read(context.Background(), path)
}

// WriteText writes content to path with a Manager that logs to
// slog.Default().
func WriteText(path, content string) Result {
	return New(slog.Default()).Write(context.Background(), path, content)
}
