package bookrec

// ScanStats counts what a single reconstruction pass saw and decided.
// Every dropped record is counted here; the engine never discards data
// silently.
type ScanStats struct {
	// LinesScanned is the total number of input lines.
	LinesScanned int

	// Per-kind line counts as classified.
	RequestLines      int
	FareQuoteLines    int
	AvailabilityLines int
	ChoiceLines       int
	SaleLines         int
	DeniedLines       int
	OtherLines        int

	// IgnoredMalformed counts lines that matched a classifier marker but
	// not the extraction grammar for their kind.
	IgnoredMalformed int

	// RecordsEmitted is the number of finalized records, split by outcome.
	RecordsEmitted int
	Sold           int
	Denied         int

	// DroppedReplaced counts in-flight records discarded because a new
	// request arrived before they resolved (ReplaceInFlight policy).
	DroppedReplaced int

	// DroppedUnresolved counts records still in flight at end of input.
	// At most 1 per scan; the source log holds one open request at a time.
	DroppedUnresolved int
}

// Dropped is the total number of records that never reached the output.
func (s ScanStats) Dropped() int {
	return s.DroppedReplaced + s.DroppedUnresolved
}
