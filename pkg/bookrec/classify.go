package bookrec

import "strings"

// EventKind classifies a raw log line.
type EventKind string

const (
	// KindRequest is a popped booking request.
	KindRequest EventKind = "request"

	// KindFareQuote is one fare option quoted by the fare engine.
	KindFareQuote EventKind = "fare_quote"

	// KindAvailability is a per-class seat availability line.
	KindAvailability EventKind = "availability"

	// KindChoice is the customer's chosen travel solution.
	KindChoice EventKind = "choice"

	// KindSaleConfirmed is the sale outcome line.
	KindSaleConfirmed EventKind = "sale_confirmed"

	// KindDenied marks a request for which no solution was chosen.
	KindDenied EventKind = "denied"

	// KindOther is every line matching no marker. Such lines are ignored;
	// classification never errors.
	KindOther EventKind = "other"
)

// Line markers, one prioritized rule per event kind. All tests are plain
// substring checks; a rule with two markers requires both.
const (
	markerRequest           = "Poped booking request:"
	markerRequestLoose      = "booking request"
	markerChoice            = "Chosen TS:"
	markerFareQuote         = "A corresponding fare option"
	markerAvailability      = "Fare option Class path:"
	markerAvailabilitySeats = "Availability"
	markerSale              = "Made a sell of"
	markerDenied            = "There is no chosen travel solution"
)

// Classify maps a raw log line to its event kind. Markers are tested in a
// fixed priority order so that specific markers win over looser ones: the
// exact request marker is checked before the generic "booking request"
// text, and the quoted-fare marker before the availability marker (an
// availability line repeats the fare-option text).
func Classify(line string) EventKind {
	switch {
	case strings.Contains(line, markerRequest):
		return KindRequest
	case strings.Contains(line, markerChoice):
		return KindChoice
	case strings.Contains(line, markerFareQuote):
		return KindFareQuote
	case strings.Contains(line, markerAvailability) && strings.Contains(line, markerAvailabilitySeats):
		return KindAvailability
	case strings.Contains(line, markerSale):
		return KindSaleConfirmed
	case strings.Contains(line, markerDenied):
		return KindDenied
	case strings.Contains(strings.ToLower(line), markerRequestLoose):
		return KindRequest
	default:
		return KindOther
	}
}
