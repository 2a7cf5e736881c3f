package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/averost/bookrec/pkg/bookrec"
)

// DemandLevel is the three-level demand classification of one aggregate
// key.
type DemandLevel string

const (
	DemandHigh   DemandLevel = "HIGH"
	DemandMedium DemandLevel = "MEDIUM"
	DemandLow    DemandLevel = "LOW"
)

// Default demand classification thresholds (booking counts).
const (
	DefaultHighThreshold   = 20
	DefaultMediumThreshold = 10
)

// DemandRow is one aggregate of sold bookings keyed by departure date,
// origin, destination, and cabin.
type DemandRow struct {
	DepartureDate string
	Origin        string
	Destination   string
	Cabin         string

	BookingCount    int
	TotalPassengers int
	AvgWTP          float64

	// AvgLeadTime is the mean days-to-departure over the aggregated
	// bookings whose lead time could be derived.
	AvgLeadTime float64

	Level DemandLevel
}

// AggregateDemand rolls the sold records up by (departure date, origin,
// destination, cabin) and classifies each key's demand level. Rows come
// back sorted by key.
func AggregateDemand(records []*bookrec.BookingRecord, highThreshold, mediumThreshold int) []DemandRow {
	type bucket struct {
		row       DemandRow
		wtpTotal  float64
		leadTotal int
		leadCount int
	}

	buckets := make(map[string]*bucket)
	for _, rec := range records {
		if rec.Outcome != bookrec.OutcomeSold {
			continue
		}

		key := rec.DepartureDate + "_" + rec.Origin + "_" + rec.Destination + "_" + rec.Cabin
		b, ok := buckets[key]
		if !ok {
			b = &bucket{row: DemandRow{
				DepartureDate: rec.DepartureDate,
				Origin:        rec.Origin,
				Destination:   rec.Destination,
				Cabin:         rec.Cabin,
			}}
			buckets[key] = b
		}

		b.row.BookingCount++
		b.row.TotalPassengers += rec.PartySize
		b.wtpTotal += rec.WTP
		if rec.DaysToDeparture != nil {
			b.leadTotal += *rec.DaysToDeparture
			b.leadCount++
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]DemandRow, 0, len(buckets))
	for _, k := range keys {
		b := buckets[k]
		b.row.AvgWTP = b.wtpTotal / float64(b.row.BookingCount)
		if b.leadCount > 0 {
			b.row.AvgLeadTime = float64(b.leadTotal) / float64(b.leadCount)
		}
		switch {
		case b.row.BookingCount >= highThreshold:
			b.row.Level = DemandHigh
		case b.row.BookingCount >= mediumThreshold:
			b.row.Level = DemandMedium
		default:
			b.row.Level = DemandLow
		}
		rows = append(rows, b.row)
	}

	return rows
}

// WriteDemandCSV writes the demand-forecast aggregate export.
func WriteDemandCSV(w io.Writer, rows []DemandRow) error {
	cw := csv.NewWriter(w)
	header := []string{
		"departure_date", "origin", "destination", "cabin",
		"booking_count", "total_passengers", "avg_wtp",
		"avg_booking_lead_time", "demand_level",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		cells := []string{
			row.DepartureDate,
			row.Origin,
			row.Destination,
			row.Cabin,
			strconv.Itoa(row.BookingCount),
			strconv.Itoa(row.TotalPassengers),
			fmt.Sprintf("%.2f", row.AvgWTP),
			fmt.Sprintf("%.2f", row.AvgLeadTime),
			string(row.Level),
		}
		if err := cw.Write(cells); err != nil {
			return fmt.Errorf("write demand row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
