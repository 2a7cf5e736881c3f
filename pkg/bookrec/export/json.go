package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/averost/bookrec/pkg/bookrec"
)

// Metadata describes the provenance of a JSON export.
type Metadata struct {
	Source         string    `json:"source"`
	RunID          string    `json:"run_id"`
	ExtractionTime time.Time `json:"extraction_time"`
	TotalBookings  int       `json:"total_bookings"`
}

// document is the JSON export layout: provenance, the records, and the
// scan and summary statistics.
type document struct {
	Metadata   Metadata                 `json:"metadata"`
	Bookings   []*bookrec.BookingRecord `json:"bookings"`
	ScanStats  bookrec.ScanStats        `json:"scan_stats"`
	Statistics Summary                  `json:"statistics"`
}

// WriteJSON writes the full JSON export for one reconstruction pass.
func WriteJSON(w io.Writer, source string, result *bookrec.Result, classes []string) error {
	doc := document{
		Metadata: Metadata{
			Source:         source,
			RunID:          result.RunID,
			ExtractionTime: time.Now().UTC(),
			TotalBookings:  len(result.Records),
		},
		Bookings:   result.Records,
		ScanStats:  result.Stats,
		Statistics: Summarize(result.Records, classes),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode json export: %w", err)
	}
	return nil
}
