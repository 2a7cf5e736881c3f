package bookrec

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/averost/bookrec/pkg/bookrec/observability"
)

// Engine reconstructs booking records from a simulation log in a single
// sequential pass. It is safe for concurrent use: each Reconstruct call
// owns its own accumulator and finalizer.
type Engine struct {
	cfg engineConfig
}

// New creates a reconstruction engine.
func New(opts ...Option) *Engine {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{cfg: cfg}
}

// Result is the output of one reconstruction pass.
type Result struct {
	// Records is the output sequence, in emission order.
	Records []*BookingRecord

	// Stats counts everything the pass saw and decided.
	Stats ScanStats

	// RunID identifies the pass in logs, spans, and stored rows.
	RunID string
}

// maxLineBytes bounds a single log line. Simulator lines stay well under
// this; bufio.Scanner's default 64KiB token limit does not.
const maxLineBytes = 1 << 20

// ReconstructFile reads and reconstructs a log file. An unreadable path
// is the engine's only fatal input error and is reported before any
// parsing begins.
func (e *Engine) ReconstructFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	return e.ReconstructReader(ctx, f)
}

// ReconstructReader buffers all lines from r, then reconstructs them.
// The whole input is held in memory: correlation needs random access to a
// bounded neighborhood of already-seen lines.
func (e *Engine) ReconstructReader(ctx context.Context, r io.Reader) (*Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	return e.Reconstruct(ctx, lines)
}

// Reconstruct runs the single-pass scan over the buffered lines.
//
// Each line is classified; the classification drives a transition in the
// accumulator, which may trigger a backward window correlation and may
// finalize the in-flight record. A record left in flight at end of input
// never resolved and is dropped, counted in Stats.DroppedUnresolved.
func (e *Engine) Reconstruct(ctx context.Context, lines []string) (result *Result, err error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	cfg := e.cfg
	runID := cfg.runID
	if runID == "" {
		runID = uuid.New().String()
	}

	observability.LogScanStart(cfg.logger, runID, fmt.Sprintf("%d lines", len(lines)))

	var scanSpan trace.Span
	if cfg.tracingEnabled {
		ctx, scanSpan = cfg.spans.StartScanSpan(ctx, "lines", runID)
		defer func() {
			cfg.spans.EndSpanWithError(scanSpan, err)
		}()
	}

	start := time.Now()
	acc := NewRequestAccumulator(cfg.replacePolicy)
	fin := NewRecordFinalizer(cfg.fareClasses, cfg.handler)
	stats := ScanStats{}

	emit := func(rec *BookingRecord) {
		fin.Finalize(rec)
		stats.RecordsEmitted++
		switch rec.Outcome {
		case OutcomeSold:
			stats.Sold++
		case OutcomeDenied:
			stats.Denied++
		}
		cfg.metrics.RecordRecordEmitted(ctx, string(rec.Outcome))
		cfg.spans.AddSpanEvent(ctx, "record emitted",
			attribute.Int("record.id", rec.ID),
			attribute.String("record.outcome", string(rec.Outcome)),
		)
		observability.LogRecordEmitted(cfg.logger, rec.ID, string(rec.Outcome), rec.LineNumber)
	}

	for i, line := range lines {
		lineNumber := i + 1
		stats.LinesScanned++
		if cfg.progressInterval > 0 && lineNumber%cfg.progressInterval == 0 {
			observability.LogProgress(cfg.logger, lineNumber)
		}

		kind := Classify(line)
		cfg.metrics.RecordLineScanned(ctx, string(kind))

		switch kind {
		case KindRequest:
			stats.RequestLines++
			fields, ok := ExtractRequest(line)
			if !ok {
				stats.IgnoredMalformed++
				cfg.metrics.RecordLineIgnored(ctx, string(kind))
				observability.LogLineIgnored(cfg.logger, string(kind), lineNumber)
				continue
			}
			dropped, reqErr := acc.OnRequest(fields, lineNumber)
			if reqErr != nil {
				cfg.metrics.RecordScan(ctx, false, time.Since(start))
				observability.LogScanError(cfg.logger, runID, reqErr, lineNumber)
				return nil, reqErr
			}
			if dropped != nil {
				stats.DroppedReplaced++
				cfg.metrics.RecordRecordDropped(ctx, "replaced")
				observability.LogRecordDropped(cfg.logger, dropped.ID, "replaced", dropped.LineNumber)
			}

		case KindChoice:
			stats.ChoiceLines++
			fields, ok := ExtractChoice(line)
			if !ok {
				stats.IgnoredMalformed++
				cfg.metrics.RecordLineIgnored(ctx, string(kind))
				observability.LogLineIgnored(cfg.logger, string(kind), lineNumber)
				continue
			}
			// Quotes and availability are logged just before the choice,
			// so the correlation always looks backward from here.
			corr := Correlate(lines, i, cfg.windowSize, Backward)
			if acc.OnChoice(fields, corr) {
				cfg.metrics.RecordCorrelation(ctx, corr.Matches)
			}

		case KindSaleConfirmed:
			stats.SaleLines++
			fields, ok := ExtractSale(line)
			if !ok {
				stats.IgnoredMalformed++
				cfg.metrics.RecordLineIgnored(ctx, string(kind))
				observability.LogLineIgnored(cfg.logger, string(kind), lineNumber)
				continue
			}
			if rec := acc.OnSale(fields); rec != nil {
				emit(rec)
			}

		case KindDenied:
			stats.DeniedLines++
			if rec := acc.OnDenied(); rec != nil {
				emit(rec)
			}

		case KindFareQuote:
			// Consulted reactively by the window correlation; no
			// transition of its own.
			stats.FareQuoteLines++

		case KindAvailability:
			stats.AvailabilityLines++

		default:
			stats.OtherLines++
		}
	}

	if rec := acc.Finish(); rec != nil {
		stats.DroppedUnresolved++
		cfg.metrics.RecordRecordDropped(ctx, "unresolved")
		observability.LogRecordDropped(cfg.logger, rec.ID, "unresolved", rec.LineNumber)
	}

	duration := time.Since(start)
	cfg.metrics.RecordScan(ctx, true, duration)
	observability.LogScanComplete(cfg.logger, runID,
		float64(duration.Milliseconds()), stats.LinesScanned, stats.RecordsEmitted)

	return &Result{
		Records: fin.Records(),
		Stats:   stats,
		RunID:   runID,
	}, nil
}
