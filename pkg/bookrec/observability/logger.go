// Package observability provides production-grade observability features
// for bookrec: structured logging, metrics, and tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// LogScanStart logs the start of a reconstruction scan.
func LogScanStart(logger *slog.Logger, runID, source string) {
	if logger == nil {
		return
	}
	logger.Info("scan starting",
		slog.String("run_id", runID),
		slog.String("source", source),
	)
}

// LogScanComplete logs successful scan completion.
func LogScanComplete(logger *slog.Logger, runID string, durationMs float64, lines, records int) {
	if logger == nil {
		return
	}
	logger.Info("scan completed",
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("lines_scanned", lines),
		slog.Int("records_emitted", records),
	)
}

// LogScanError logs scan failure.
func LogScanError(logger *slog.Logger, runID string, err error, line int) {
	if logger == nil {
		return
	}
	logger.Error("scan failed",
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
		slog.Int("line", line),
	)
}

// LogRecordEmitted logs one finalized record.
func LogRecordEmitted(logger *slog.Logger, id int, outcome string, line int) {
	if logger == nil {
		return
	}
	logger.Debug("record emitted",
		slog.Int("record_id", id),
		slog.String("outcome", outcome),
		slog.Int("request_line", line),
	)
}

// LogRecordDropped logs a record that will never be emitted. Dropping is
// always observable: a warn log plus a ScanStats counter.
func LogRecordDropped(logger *slog.Logger, id int, reason string, line int) {
	if logger == nil {
		return
	}
	logger.Warn("record dropped",
		slog.Int("record_id", id),
		slog.String("reason", reason),
		slog.Int("request_line", line),
	)
}

// LogLineIgnored logs a line that matched a classifier marker but not the
// extraction grammar for its kind.
func LogLineIgnored(logger *slog.Logger, kind string, line int) {
	if logger == nil {
		return
	}
	logger.Debug("line ignored",
		slog.String("kind", kind),
		slog.Int("line", line),
	)
}

// LogProgress logs periodic scan progress.
func LogProgress(logger *slog.Logger, lines int) {
	if logger == nil {
		return
	}
	logger.Debug("scan progress",
		slog.Int("lines_scanned", lines),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
