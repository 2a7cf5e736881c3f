package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordLineScanned does nothing.
func (NoopMetrics) RecordLineScanned(_ context.Context, _ string) {}

// RecordLineIgnored does nothing.
func (NoopMetrics) RecordLineIgnored(_ context.Context, _ string) {}

// RecordRecordEmitted does nothing.
func (NoopMetrics) RecordRecordEmitted(_ context.Context, _ string) {}

// RecordRecordDropped does nothing.
func (NoopMetrics) RecordRecordDropped(_ context.Context, _ string) {}

// RecordCorrelation does nothing.
func (NoopMetrics) RecordCorrelation(_ context.Context, _ int) {}

// RecordScan does nothing.
func (NoopMetrics) RecordScan(_ context.Context, _ bool, _ time.Duration) {}

// NoopSpanManager is a SpanManager that does nothing.
// Use when tracing is disabled to avoid overhead.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

// noopSpan is a span that does nothing.
// We use the OTel noop package for a proper no-op span implementation.
var noopSpan = noop.Span{}

// StartScanSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartScanSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
