// Package observability provides structured logging, metrics, and tracing
// for datakit.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// NewLogger builds a slog logger writing to w.
// format is "json" or "text" (the default); level is parsed with ParseLevel.
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a level name to a slog.Level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EnrichLogger tags a logger with the emitting component.
func EnrichLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", component))
}

// LogRecordAdded logs a successful insert.
func LogRecordAdded(logger *slog.Logger, id int64) {
	if logger == nil {
		return
	}
	logger.Debug("record added",
		slog.Int64("record_id", id),
	)
}

// LogRecordUpdated logs a successful partial update.
func LogRecordUpdated(logger *slog.Logger, id int64, fields []string) {
	if logger == nil {
		return
	}
	logger.Debug("record updated",
		slog.Int64("record_id", id),
		slog.Any("fields", fields),
	)
}

// LogRecordDeleted logs a successful delete.
func LogRecordDeleted(logger *slog.Logger, id int64) {
	if logger == nil {
		return
	}
	logger.Debug("record deleted",
		slog.Int64("record_id", id),
	)
}

// LogRecordRejected logs an expected failure such as a duplicate id
// or a missing record.
func LogRecordRejected(logger *slog.Logger, op string, id int64, reason string) {
	if logger == nil {
		return
	}
	logger.Debug("record operation rejected",
		slog.String("operation", op),
		slog.Int64("record_id", id),
		slog.String("reason", reason),
	)
}

// LogStoreError logs an unexpected storage failure.
func LogStoreError(logger *slog.Logger, op string, id int64, err error) {
	if logger == nil {
		return
	}
	logger.Error("record store failed",
		slog.String("operation", op),
		slog.Int64("record_id", id),
		slog.String("error", err.Error()),
	)
}

// LogFileWritten logs a completed file write.
func LogFileWritten(logger *slog.Logger, path string, sizeBytes int) {
	if logger == nil {
		return
	}
	logger.Debug("file written",
		slog.String("path", path),
		slog.Int("size_bytes", sizeBytes),
	)
}

// LogFileError logs a failed file operation. The error is reported, not
// propagated.
func LogFileError(logger *slog.Logger, op, path string, err error) {
	if logger == nil {
		return
	}
	logger.Error("file operation failed",
		slog.String("operation", op),
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
}

// LogAnalysis logs a completed sample analysis.
func LogAnalysis(logger *slog.Logger, reportID string, count, removed int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("sample analyzed",
		slog.String("report_id", reportID),
		slog.Int("count", count),
		slog.Int("outliers_removed", removed),
		slog.Float64("duration_ms", durationMs),
	)
}

// TimedOperation measures the duration of an operation.
// The returned function reports the elapsed time.
//
//	done := TimedOperation()
//	// ... do work ...
//	elapsed := done()
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// Milliseconds converts a duration to fractional milliseconds for logging.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
