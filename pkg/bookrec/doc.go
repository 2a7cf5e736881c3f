/*
Package bookrec reconstructs discrete booking events from the flat,
interleaved line log of a travel-simulation engine.

# Overview

A simulator writes each logical booking as several non-adjacent log
lines: a popped request, zero or more quoted fare options, a per-class
availability snapshot, the customer's choice (or a denial), and the sale
outcome. The log carries no correlation identifier between them. bookrec
recovers the structure with a stateful, windowed correlation engine:

  - Classify maps each raw line to an event kind using prioritized
    substring markers.
  - Extract* functions parse the typed payload of a line via a fixed
    grammar table; a marker hit whose payload does not match is ignored,
    never an error.
  - Correlate scans a bounded window of lines around a trigger and
    collects the fare quotes and availability that belong to it.
  - RequestAccumulator is the state machine holding at most one
    in-flight record; sale and denial lines resolve it.
  - RecordFinalizer derives remaining fields, fills defaults, and
    appends the record to the output sequence.

# Basic Usage

	eng := bookrec.New()
	result, err := eng.ReconstructFile(context.Background(), "logs/tvlsim.log")
	if err != nil {
	    log.Fatal(err)
	}
	for _, rec := range result.Records {
	    fmt.Println(rec.ID, rec.Origin, rec.Destination, rec.Outcome)
	}

# Streaming

Records can be consumed as they finalize, in addition to the collected
result:

	eng := bookrec.New(bookrec.WithRecordHandler(func(rec *bookrec.BookingRecord) {
	    // consume rec; it is immutable from here on
	}))

# Dropped records

A record that never resolves is dropped, never emitted — but the drop is
always observable: ScanStats counts it, a warn log names it, and the
bookrec.records.dropped metric carries the reason. A request line that
arrives while another request is still in flight is governed by an
explicit policy (WithReplacePolicy): drop-and-count, or abort with an
InFlightError.

# Observability

Enable logging, metrics, and tracing:

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	eng := bookrec.New(
	    bookrec.WithLogger(logger),
	    bookrec.WithMetrics(true),
	    bookrec.WithTracing(true),
	)

Logs include structured fields: run_id, record_id, outcome, line.
OpenTelemetry metrics: bookrec.lines.scanned, bookrec.records.emitted,
bookrec.records.dropped, bookrec.scan.latency_ms.

# Thread Safety

  - Engine IS safe for concurrent use (each pass owns its state)
  - RequestAccumulator is NOT safe for concurrent use; one scan loop
    owns it exclusively
  - BookingRecord is immutable after finalization

# Subpackages

  - config: map-backed configuration with yaml/json file loading
  - observability: logging, metrics, and tracing helpers
  - export: CSV/JSON/demand-forecast exports and summary statistics
  - store: SQLite persistence and SQL demand aggregation
*/
package bookrec
