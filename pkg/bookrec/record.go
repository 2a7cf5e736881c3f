package bookrec

import (
	"time"
)

// Outcome is the terminal resolution of a booking record.
type Outcome string

const (
	// OutcomeUnresolved is the initial outcome of every record. A record
	// still carrying it at end of input is dropped, never emitted.
	OutcomeUnresolved Outcome = "UNRESOLVED"

	// OutcomeSold indicates the request resolved with a sale confirmation.
	OutcomeSold Outcome = "SOLD"

	// OutcomeDenied indicates the customer rejected every offered option
	// (or no option could be offered at all).
	OutcomeDenied Outcome = "DENIED"
)

// DeniedClass is the sentinel chosen-class value written on denial.
const DeniedClass = "DENIED"

// FareOption is one fare quoted to the customer before the choice.
// Options are owned by the record that offered them and never shared.
type FareOption struct {
	// Class is the single-letter booking class code.
	Class string `json:"class"`

	// Fare is the quoted amount in EUR.
	Fare float64 `json:"fare"`

	// Condition flags as logged by the simulator (0/1).
	ChangeFee     int `json:"change_fee"`
	NonRefundable int `json:"non_refundable"`
	SaturdayStay  int `json:"saturday_stay"`
}

// Availability maps a booking class to the remaining-seat count observed
// just before the customer's choice. Classes from the configured class set
// that were never observed are zero-filled at finalization.
type Availability map[string]int

// BookingRecord is one reconstructed booking event. It is created when a
// request line is scanned, mutated while in flight, and immutable after
// finalization.
type BookingRecord struct {
	// ID is the 1-based sequence number assigned at creation.
	ID int `json:"request_id"`

	// LineNumber is the 1-based source line of the request.
	LineNumber int `json:"line_number"`

	// RequestTimestamp is the raw timestamp text from the request line.
	// RequestTime is its parsed form, nil if no known layout matched.
	RequestTimestamp string     `json:"request_timestamp"`
	RequestTime      *time.Time `json:"-"`

	// DepartureDate is the raw preferred departure date. DepartureDay is
	// its parsed form, nil if no known layout matched.
	DepartureDate string     `json:"departure_date"`
	DepartureDay  *time.Time `json:"-"`

	// DaysToDeparture is the calendar-day difference between the departure
	// date and the request date. Nil when either timestamp failed to parse.
	DaysToDeparture *int `json:"days_to_departure"`

	// StayDuration is the requested trip length in days.
	StayDuration int `json:"stay_duration"`

	// DepartureTime is the preferred departure time of day (HH:MM:SS).
	DepartureTime string `json:"departure_time"`

	Origin      string `json:"origin"`
	Destination string `json:"destination"`

	// Airline and FlightNumber come from the chosen travel solution and
	// stay empty for denied requests.
	Airline      string `json:"airline"`
	FlightNumber string `json:"flight_number"`

	// TripType is the round-trip / one-way code (RO, OW, RI).
	TripType string `json:"trip_type"`

	// POS is the point of sale, Channel the distribution channel code.
	POS     string `json:"pos"`
	Channel string `json:"channel"`

	// Cabin is the preferred cabin code (Y, J, F).
	Cabin     string `json:"cabin"`
	PartySize int    `json:"party_size"`

	// FFTier is the frequent-flyer tier code (G/S/M/N).
	FFTier string `json:"ff_status"`

	// WTP is the willingness to pay, ValueOfTime the customer's modeled
	// value of time.
	WTP         float64 `json:"wtp"`
	ValueOfTime float64 `json:"value_of_time"`

	// Change-fee and non-refundable preference flags with their
	// disutility values, as logged (0/1 flags, integer disutilities).
	ChangeFee               int `json:"change_fees"`
	ChangeFeeDisutility     int `json:"change_fee_disutility"`
	NonRefundable           int `json:"non_refundable"`
	NonRefundableDisutility int `json:"non_refundable_disutility"`

	// Offered is the ordered sequence of fare options quoted within the
	// correlation window before the choice. Duplicated class listings are
	// kept; the order is log order.
	Offered []FareOption `json:"offered_options"`

	// AvailabilityBefore is the per-class seat availability snapshot taken
	// just before the choice.
	AvailabilityBefore Availability `json:"availability_before"`

	// CustomerChose is true when a Chosen TS line was attached.
	CustomerChose bool `json:"customer_chose"`

	// Chosen fare details. ChosenClass is DeniedClass for denials and
	// empty while unresolved. ChosenFare is forced to zero on denial.
	ChosenClass         string  `json:"chosen_class"`
	ChosenFare          float64 `json:"chosen_fare"`
	ChosenChangeFee     int     `json:"chosen_change_fee"`
	ChosenNonRefundable int     `json:"chosen_non_refundable"`
	ChosenSaturdayStay  int     `json:"chosen_saturday_stay"`

	Outcome Outcome `json:"outcome"`

	// SaleSuccessful and SoldPartySize come from the sale confirmation.
	SaleSuccessful bool `json:"sale_successful"`
	SoldPartySize  int  `json:"sold_party_size"`
}

// Resolved reports whether the record reached a terminal outcome.
func (r *BookingRecord) Resolved() bool {
	return r.Outcome != OutcomeUnresolved
}

// Timestamp layouts observed in simulator logs. Parsing tries them in
// order; time.Parse accepts a trailing fractional second even when the
// layout omits it, which covers the ".ffffff" request-timestamp variant.
var timestampLayouts = []string{
	"2006-Jan-02 15:04:05",
	"2006-Jan-02",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp parses a log timestamp, returning nil when no layout
// matches. A nil result never fails an extraction.
func parseTimestamp(raw string) *time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// daysToDeparture computes the calendar-day lead time between the request
// and the departure date. The request's time of day is discarded: a
// request at 2009-Mar-13 01:54:26 for a 2009-Apr-20 departure is 38 days
// out, not 37.
func daysToDeparture(request, departure *time.Time) *int {
	if request == nil || departure == nil {
		return nil
	}
	reqDay := time.Date(request.Year(), request.Month(), request.Day(), 0, 0, 0, 0, time.UTC)
	depDay := time.Date(departure.Year(), departure.Month(), departure.Day(), 0, 0, 0, 0, time.UTC)
	days := int(depDay.Sub(reqDay).Hours() / 24)
	return &days
}
