package bookrec

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// basePatterns defines reusable regex components for the line grammars.
// Grammar patterns reference them with {PATTERN_NAME} syntax.
var basePatterns = map[string]string{
	// Timestamps. TIMESTAMP accepts an optional fractional-second suffix.
	"TIMESTAMP": `\d{4}-[A-Za-z]{3}-\d{2} \d{2}:\d{2}:\d{2}(?:\.\d+)?`,
	"DATE":      `\d{4}-[A-Za-z]{3}-\d{2}`,
	"TIME":      `\d{2}:\d{2}:\d{2}`,

	// Codes. CLASS is a single booking-class letter, CODE a 2+ letter
	// airline/channel/trip-type code.
	"IATA":  `[A-Z]{3}`,
	"CLASS": `[A-Z]`,
	"CODE":  `[A-Z]{2,}`,

	// Numerics. DEC deliberately over-matches ("1.2.3"); the strict
	// strconv parse afterwards turns such captures into a NoMatch.
	"INT": `\d+`,
	"DEC": `[\d.]+`,
	"BIT": `[01]`,
}

// grammar is one entry of the per-kind capture table: a pattern with
// {PLACEHOLDER} references and the field names in capture order.
type grammar struct {
	Kind    EventKind
	Pattern string
	Fields  []string

	re *regexp.Regexp
}

// expandPattern substitutes {NAME} placeholders with their base patterns.
func expandPattern(pattern string) string {
	expanded := pattern
	for name, re := range basePatterns {
		expanded = strings.ReplaceAll(expanded, "{"+name+"}", re)
	}
	return expanded
}

func mustGrammar(kind EventKind, pattern string, fields ...string) *grammar {
	return &grammar{
		Kind:    kind,
		Pattern: pattern,
		Fields:  fields,
		re:      regexp.MustCompile(expandPattern(pattern)),
	}
}

// Line grammars, one per event kind. Adding an event kind is a new table
// entry plus its typed extractor, not new control flow in the scanner.
var (
	requestGrammar = mustGrammar(KindRequest,
		`At ({TIMESTAMP}), for \(({IATA}), ({CODE})\) ({IATA})-({IATA}) \(({CODE})\) ({DATE}) \(({INT}) days\) ({TIME}) ({CLASS}) ({INT}) ({CLASS}) ({DEC}) ({DEC}) ({INT}) ({INT}) ({INT}) ({INT})`,
		"request_timestamp", "pos", "channel", "origin", "destination",
		"trip_type", "departure_date", "stay_duration", "departure_time",
		"cabin", "party_size", "ff_status", "wtp", "value_of_time",
		"change_fees", "change_fee_disutility", "non_refundable",
		"non_refundable_disutility")

	fareQuoteGrammar = mustGrammar(KindFareQuote,
		`A corresponding fare option for the '{CODE} {CLASS}' class is: Class path: ({CLASS}); ({DEC}) EUR; conditions: ({INT}) ({INT}) ({INT})`,
		"class", "fare", "change_fee_cond", "non_refundable_cond", "saturday_stay_cond")

	availabilityGrammar = mustGrammar(KindAvailability,
		`Fare option Class path: ({CLASS});.*Availability ({INT})`,
		"class", "seats")

	// The chosen solution carries two independently matched sections: the
	// segment path (airline, flight number) and the chosen fare option.
	// The fare section decides the match; the segment is best-effort.
	choiceSegmentGrammar = mustGrammar(KindChoice,
		`Segment path: ({CODE}); ({INT}),`,
		"airline", "flight_number")

	choiceFareGrammar = mustGrammar(KindChoice,
		`Chosen fare option: Class path: ({CLASS}); ({DEC}) EUR; conditions: ({INT}) ({INT}) ({INT})`,
		"chosen_class", "chosen_fare", "chosen_change_fee",
		"chosen_non_refundable", "chosen_saturday_stay")

	saleGrammar = mustGrammar(KindSaleConfirmed,
		`Made a sell of ({INT}) persons.*Successful\? ({BIT})`,
		"sold_party_size", "sale_successful")
)

// RequestFields is the typed payload of a booking-request line.
type RequestFields struct {
	RequestTimestamp string
	RequestTime      *time.Time
	POS              string
	Channel          string
	Origin           string
	Destination      string
	TripType         string
	DepartureDate    string
	DepartureDay     *time.Time
	StayDuration     int
	DepartureTime    string
	Cabin            string
	PartySize        int
	FFTier           string
	WTP              float64
	ValueOfTime      float64

	ChangeFee               int
	ChangeFeeDisutility     int
	NonRefundable           int
	NonRefundableDisutility int
}

// ChoiceFields is the typed payload of a chosen-travel-solution line.
type ChoiceFields struct {
	Airline      string
	FlightNumber string

	Class         string
	Fare          float64
	ChangeFee     int
	NonRefundable int
	SaturdayStay  int
}

// SaleFields is the typed payload of a sale-confirmation line.
type SaleFields struct {
	SoldPartySize int
	Successful    bool
}

// AvailabilityFields is the typed payload of one availability line.
type AvailabilityFields struct {
	Class string
	Seats int
}

// atoi is the strict base-10 integer parse used by all extractors. A
// failure invalidates the whole extraction for the line.
func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func atof(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ExtractRequest extracts the typed fields of a request line. The second
// return value is false when the line does not carry the full expected
// payload; such lines are ignored, never an error. Timestamp fields that
// fail every known layout parse to nil without failing the extraction.
func ExtractRequest(line string) (RequestFields, bool) {
	m := requestGrammar.re.FindStringSubmatch(line)
	if m == nil {
		return RequestFields{}, false
	}

	stay, ok := atoi(m[8])
	if !ok {
		return RequestFields{}, false
	}
	party, ok := atoi(m[11])
	if !ok {
		return RequestFields{}, false
	}
	wtp, ok := atof(m[13])
	if !ok {
		return RequestFields{}, false
	}
	vot, ok := atof(m[14])
	if !ok {
		return RequestFields{}, false
	}
	cf, ok := atoi(m[15])
	if !ok {
		return RequestFields{}, false
	}
	cfd, ok := atoi(m[16])
	if !ok {
		return RequestFields{}, false
	}
	nr, ok := atoi(m[17])
	if !ok {
		return RequestFields{}, false
	}
	nrd, ok := atoi(m[18])
	if !ok {
		return RequestFields{}, false
	}

	return RequestFields{
		RequestTimestamp:        m[1],
		RequestTime:             parseTimestamp(m[1]),
		POS:                     m[2],
		Channel:                 m[3],
		Origin:                  m[4],
		Destination:             m[5],
		TripType:                m[6],
		DepartureDate:           m[7],
		DepartureDay:            parseTimestamp(m[7]),
		StayDuration:            stay,
		DepartureTime:           m[9],
		Cabin:                   m[10],
		PartySize:               party,
		FFTier:                  m[12],
		WTP:                     wtp,
		ValueOfTime:             vot,
		ChangeFee:               cf,
		ChangeFeeDisutility:     cfd,
		NonRefundable:           nr,
		NonRefundableDisutility: nrd,
	}, true
}

// ExtractFareQuote extracts one quoted fare option.
func ExtractFareQuote(line string) (FareOption, bool) {
	m := fareQuoteGrammar.re.FindStringSubmatch(line)
	if m == nil {
		return FareOption{}, false
	}
	fare, ok := atof(m[2])
	if !ok {
		return FareOption{}, false
	}
	cf, ok := atoi(m[3])
	if !ok {
		return FareOption{}, false
	}
	nr, ok := atoi(m[4])
	if !ok {
		return FareOption{}, false
	}
	sat, ok := atoi(m[5])
	if !ok {
		return FareOption{}, false
	}
	return FareOption{
		Class:         m[1],
		Fare:          fare,
		ChangeFee:     cf,
		NonRefundable: nr,
		SaturdayStay:  sat,
	}, true
}

// ExtractAvailability extracts one per-class availability observation.
func ExtractAvailability(line string) (AvailabilityFields, bool) {
	m := availabilityGrammar.re.FindStringSubmatch(line)
	if m == nil {
		return AvailabilityFields{}, false
	}
	seats, ok := atoi(m[2])
	if !ok {
		return AvailabilityFields{}, false
	}
	return AvailabilityFields{Class: m[1], Seats: seats}, true
}

// ExtractChoice extracts the chosen fare option and, when present, the
// segment path. The chosen-fare section is required; a choice marker
// without it is a NoMatch.
func ExtractChoice(line string) (ChoiceFields, bool) {
	fm := choiceFareGrammar.re.FindStringSubmatch(line)
	if fm == nil {
		return ChoiceFields{}, false
	}
	fare, ok := atof(fm[2])
	if !ok {
		return ChoiceFields{}, false
	}
	cf, ok := atoi(fm[3])
	if !ok {
		return ChoiceFields{}, false
	}
	nr, ok := atoi(fm[4])
	if !ok {
		return ChoiceFields{}, false
	}
	sat, ok := atoi(fm[5])
	if !ok {
		return ChoiceFields{}, false
	}

	fields := ChoiceFields{
		Class:         fm[1],
		Fare:          fare,
		ChangeFee:     cf,
		NonRefundable: nr,
		SaturdayStay:  sat,
	}

	if sm := choiceSegmentGrammar.re.FindStringSubmatch(line); sm != nil {
		fields.Airline = sm[1]
		fields.FlightNumber = sm[2]
	}

	return fields, true
}

// ExtractSale extracts the sale outcome.
func ExtractSale(line string) (SaleFields, bool) {
	m := saleGrammar.re.FindStringSubmatch(line)
	if m == nil {
		return SaleFields{}, false
	}
	sold, ok := atoi(m[1])
	if !ok {
		return SaleFields{}, false
	}
	return SaleFields{
		SoldPartySize: sold,
		Successful:    m[2] == "1",
	}, true
}
