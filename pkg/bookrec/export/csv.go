// Package export turns finalized booking records into tabular and
// aggregate outputs: the full CSV, a simplified CSV without the
// offered-option columns, a JSON dump with metadata and statistics, the
// demand-forecast aggregate, and console summary statistics.
//
// The package only consumes the finalized-record stream; it never feeds
// back into reconstruction.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/averost/bookrec/pkg/bookrec"
)

// offeredColumns are the per-record offered-option columns dropped by the
// simplified export.
var offeredColumns = []string{
	"offered_classes",
	"offered_fares",
	"offered_change_fees",
	"offered_non_refundable",
	"offered_saturday_stay",
}

// columns returns the full export column order. Availability columns are
// one per configured class, in class-set order.
func columns(classes []string) []string {
	cols := []string{
		"request_id",
		"line_number",
		"request_timestamp",
		"departure_date",
		"days_to_departure",
		"stay_duration",
		"departure_time",
		"origin",
		"destination",
		"airline",
		"flight_number",
		"trip_type",
		"pos",
		"channel",
		"cabin",
		"party_size",
		"ff_status",
		"wtp",
		"value_of_time",
		"change_fees",
		"change_fee_disutility",
		"non_refundable",
		"non_refundable_disutility",
	}
	cols = append(cols, offeredColumns...)
	for _, class := range classes {
		cols = append(cols, fmt.Sprintf("availability_%s_before", class))
	}
	return append(cols,
		"customer_chose",
		"chosen_class",
		"chosen_fare",
		"chosen_change_fee",
		"chosen_non_refundable",
		"chosen_saturday_stay",
		"sale_successful",
		"sold_party_size",
	)
}

// row flattens one record into export cells keyed by column name.
func row(rec *bookrec.BookingRecord, classes []string) map[string]string {
	cells := map[string]string{
		"request_id":                strconv.Itoa(rec.ID),
		"line_number":               strconv.Itoa(rec.LineNumber),
		"request_timestamp":         rec.RequestTimestamp,
		"departure_date":            rec.DepartureDate,
		"days_to_departure":         "",
		"stay_duration":             strconv.Itoa(rec.StayDuration),
		"departure_time":            rec.DepartureTime,
		"origin":                    rec.Origin,
		"destination":               rec.Destination,
		"airline":                   rec.Airline,
		"flight_number":             rec.FlightNumber,
		"trip_type":                 rec.TripType,
		"pos":                       rec.POS,
		"channel":                   rec.Channel,
		"cabin":                     rec.Cabin,
		"party_size":                strconv.Itoa(rec.PartySize),
		"ff_status":                 rec.FFTier,
		"wtp":                       formatFloat(rec.WTP),
		"value_of_time":             formatFloat(rec.ValueOfTime),
		"change_fees":               strconv.Itoa(rec.ChangeFee),
		"change_fee_disutility":     strconv.Itoa(rec.ChangeFeeDisutility),
		"non_refundable":            strconv.Itoa(rec.NonRefundable),
		"non_refundable_disutility": strconv.Itoa(rec.NonRefundableDisutility),
		"customer_chose":            strconv.FormatBool(rec.CustomerChose),
		"chosen_class":              rec.ChosenClass,
		"chosen_fare":               formatFloat(rec.ChosenFare),
		"chosen_change_fee":         strconv.Itoa(rec.ChosenChangeFee),
		"chosen_non_refundable":     strconv.Itoa(rec.ChosenNonRefundable),
		"chosen_saturday_stay":      strconv.Itoa(rec.ChosenSaturdayStay),
		"sale_successful":           strconv.FormatBool(rec.SaleSuccessful),
		"sold_party_size":           strconv.Itoa(rec.SoldPartySize),
	}

	if rec.DaysToDeparture != nil {
		cells["days_to_departure"] = strconv.Itoa(*rec.DaysToDeparture)
	}

	// Offered options flatten to one comma-joined column per attribute,
	// preserving log order.
	var cls, fares, cfs, nrs, sats []string
	for _, opt := range rec.Offered {
		cls = append(cls, opt.Class)
		fares = append(fares, formatFloat(opt.Fare))
		cfs = append(cfs, strconv.Itoa(opt.ChangeFee))
		nrs = append(nrs, strconv.Itoa(opt.NonRefundable))
		sats = append(sats, strconv.Itoa(opt.SaturdayStay))
	}
	cells["offered_classes"] = strings.Join(cls, ",")
	cells["offered_fares"] = strings.Join(fares, ",")
	cells["offered_change_fees"] = strings.Join(cfs, ",")
	cells["offered_non_refundable"] = strings.Join(nrs, ",")
	cells["offered_saturday_stay"] = strings.Join(sats, ",")

	for _, class := range classes {
		cells[fmt.Sprintf("availability_%s_before", class)] = strconv.Itoa(rec.AvailabilityBefore[class])
	}

	return cells
}

// formatFloat renders a float the shortest way that round-trips.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// WriteCSV writes the full export: one row per record, fixed column
// order, one availability column per configured class.
func WriteCSV(w io.Writer, records []*bookrec.BookingRecord, classes []string) error {
	return writeCSV(w, records, classes, columns(classes))
}

// WriteSimplifiedCSV writes the export without the five offered-option
// columns.
func WriteSimplifiedCSV(w io.Writer, records []*bookrec.BookingRecord, classes []string) error {
	dropped := make(map[string]bool, len(offeredColumns))
	for _, col := range offeredColumns {
		dropped[col] = true
	}

	var kept []string
	for _, col := range columns(classes) {
		if !dropped[col] {
			kept = append(kept, col)
		}
	}
	return writeCSV(w, records, classes, kept)
}

func writeCSV(w io.Writer, records []*bookrec.BookingRecord, classes, cols []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	line := make([]string, len(cols))
	for _, rec := range records {
		cells := row(rec, classes)
		for i, col := range cols {
			line[i] = cells[col]
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write record %d: %w", rec.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
