package bookrec

import (
	"log/slog"

	"github.com/averost/bookrec/pkg/bookrec/observability"
)

// DefaultFareClasses is the class set zero-filled in every availability
// snapshot when not configured otherwise.
var DefaultFareClasses = []string{"Y", "B", "M"}

// DefaultProgressInterval is how many lines pass between progress logs.
const DefaultProgressInterval = 10000

// engineConfig holds configuration for a reconstruction engine.
type engineConfig struct {
	windowSize       int
	fareClasses      []string
	replacePolicy    ReplacePolicy
	logger           *slog.Logger
	metrics          observability.MetricsRecorder
	spans            observability.SpanManager
	tracingEnabled   bool
	handler          RecordHandler
	runID            string
	progressInterval int
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() engineConfig {
	return engineConfig{
		windowSize:       DefaultWindowSize,
		fareClasses:      DefaultFareClasses,
		replacePolicy:    ReplaceInFlight,
		metrics:          observability.NoopMetrics{},
		spans:            observability.NoopSpanManager{},
		progressInterval: DefaultProgressInterval,
	}
}

// Option configures a reconstruction engine.
type Option func(*engineConfig)

// WithWindowSize sets the correlation window size in lines.
// Default: DefaultWindowSize (50).
func WithWindowSize(n int) Option {
	return func(c *engineConfig) {
		if n > 0 {
			c.windowSize = n
		}
	}
}

// WithFareClasses sets the class set zero-filled in availability
// snapshots. Default: Y, B, M.
func WithFareClasses(classes []string) Option {
	return func(c *engineConfig) {
		if len(classes) > 0 {
			c.fareClasses = classes
		}
	}
}

// WithReplacePolicy sets the behavior for a request line arriving while a
// record is still in flight. Default: ReplaceInFlight (drop and count).
func WithReplacePolicy(p ReplacePolicy) Option {
	return func(c *engineConfig) {
		c.replacePolicy = p
	}
}

// WithLogger enables structured logging. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics.
// Uses the global OTel meter provider.
func WithMetrics(enabled bool) Option {
	return func(c *engineConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry tracing.
// Uses the global OTel tracer provider.
func WithTracing(enabled bool) Option {
	return func(c *engineConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithRecordHandler streams each finalized record to fn as it is emitted,
// in addition to the collected result.
func WithRecordHandler(fn RecordHandler) Option {
	return func(c *engineConfig) {
		c.handler = fn
	}
}

// WithRunID sets the scan run ID used in logs, spans, and stored rows.
// Default: a generated UUID.
func WithRunID(id string) Option {
	return func(c *engineConfig) {
		c.runID = id
	}
}

// WithProgressInterval sets how many lines pass between progress logs.
// Default: DefaultProgressInterval (10000).
func WithProgressInterval(n int) Option {
	return func(c *engineConfig) {
		if n > 0 {
			c.progressInterval = n
		}
	}
}
