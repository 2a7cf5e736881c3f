package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records reconstruction metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordLineScanned records one classified input line.
	RecordLineScanned(ctx context.Context, kind string)

	// RecordLineIgnored records a line that matched a marker but not its
	// extraction grammar.
	RecordLineIgnored(ctx context.Context, kind string)

	// RecordRecordEmitted records a finalized record with its outcome.
	RecordRecordEmitted(ctx context.Context, outcome string)

	// RecordRecordDropped records a record that never reached the output,
	// with the drop reason ("replaced" or "unresolved").
	RecordRecordDropped(ctx context.Context, reason string)

	// RecordCorrelation records the number of window lines that
	// contributed data to one choice.
	RecordCorrelation(ctx context.Context, matches int)

	// RecordScan records a completed reconstruction pass.
	RecordScan(ctx context.Context, success bool, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	linesScanned       metric.Int64Counter
	linesIgnored       metric.Int64Counter
	recordsEmitted     metric.Int64Counter
	recordsDropped     metric.Int64Counter
	correlationMatches metric.Int64Histogram
	scanLatency        metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("bookrec")

	linesScanned, err := meter.Int64Counter("bookrec.lines.scanned",
		metric.WithDescription("Number of log lines scanned"),
	)
	if err != nil {
		return nil, err
	}

	linesIgnored, err := meter.Int64Counter("bookrec.lines.ignored",
		metric.WithDescription("Number of marker-matching lines that failed extraction"),
	)
	if err != nil {
		return nil, err
	}

	recordsEmitted, err := meter.Int64Counter("bookrec.records.emitted",
		metric.WithDescription("Number of finalized booking records"),
	)
	if err != nil {
		return nil, err
	}

	recordsDropped, err := meter.Int64Counter("bookrec.records.dropped",
		metric.WithDescription("Number of in-flight records that never reached the output"),
	)
	if err != nil {
		return nil, err
	}

	correlationMatches, err := meter.Int64Histogram("bookrec.correlation.matches",
		metric.WithDescription("Window lines contributing data per choice"),
	)
	if err != nil {
		return nil, err
	}

	scanLatency, err := meter.Float64Histogram("bookrec.scan.latency_ms",
		metric.WithDescription("Reconstruction pass latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		linesScanned:       linesScanned,
		linesIgnored:       linesIgnored,
		recordsEmitted:     recordsEmitted,
		recordsDropped:     recordsDropped,
		correlationMatches: correlationMatches,
		scanLatency:        scanLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordLineScanned records one classified line.
func (m *otelMetrics) RecordLineScanned(ctx context.Context, kind string) {
	m.linesScanned.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

// RecordLineIgnored records an extraction NoMatch.
func (m *otelMetrics) RecordLineIgnored(ctx context.Context, kind string) {
	m.linesIgnored.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

// RecordRecordEmitted records a finalized record.
func (m *otelMetrics) RecordRecordEmitted(ctx context.Context, outcome string) {
	m.recordsEmitted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordRecordDropped records a dropped record.
func (m *otelMetrics) RecordRecordDropped(ctx context.Context, reason string) {
	m.recordsDropped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordCorrelation records one window scan's match count.
func (m *otelMetrics) RecordCorrelation(ctx context.Context, matches int) {
	m.correlationMatches.Record(ctx, int64(matches))
}

// RecordScan records a completed pass.
func (m *otelMetrics) RecordScan(ctx context.Context, success bool, duration time.Duration) {
	m.scanLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(
		attribute.Bool("success", success),
	))
}
