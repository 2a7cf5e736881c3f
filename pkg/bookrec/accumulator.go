package bookrec

// accumState is the RequestAccumulator's position in a booking lifecycle.
type accumState int

const (
	// stateIdle: no record in flight.
	stateIdle accumState = iota

	// stateOpen: one record in flight, no choice recorded yet.
	stateOpen

	// stateChosen: the in-flight record has a chosen fare and awaits its
	// sale or denial. Denial can also arrive straight from stateOpen.
	stateChosen
)

// ReplacePolicy decides what happens when a request line arrives while an
// earlier request is still in flight. The source log is not supposed to
// produce this, so it is surfaced as an explicit policy, not silently
// absorbed.
type ReplacePolicy int

const (
	// ReplaceInFlight drops the stale record, counts it, and opens the
	// new one. This mirrors the source system's behavior, made countable.
	ReplaceInFlight ReplacePolicy = iota

	// RejectInFlight aborts the scan with an InFlightError.
	RejectInFlight
)

// RequestAccumulator is the reconstruction state machine. It owns at most
// one in-flight record, applies classified events to it, and hands the
// record over once it resolves. It is exclusively owned by one scan loop
// and holds no locks.
type RequestAccumulator struct {
	state   accumState
	current *BookingRecord
	nextID  int
	policy  ReplacePolicy
}

// NewRequestAccumulator creates an accumulator with the given in-flight
// replacement policy. Sequence IDs start at 1.
func NewRequestAccumulator(policy ReplacePolicy) *RequestAccumulator {
	return &RequestAccumulator{nextID: 1, policy: policy}
}

// InFlight returns the current in-flight record, nil when idle.
func (a *RequestAccumulator) InFlight() *BookingRecord {
	return a.current
}

// OnRequest opens a new record for an extracted request line.
//
// When a record is already in flight the configured policy applies: with
// ReplaceInFlight the stale record is returned as dropped (the caller
// counts and logs it) and the new record opens anyway; with RejectInFlight
// an InFlightError is returned and the accumulator is left unchanged.
func (a *RequestAccumulator) OnRequest(f RequestFields, lineNumber int) (dropped *BookingRecord, err error) {
	if a.state != stateIdle {
		if a.policy == RejectInFlight {
			return nil, &InFlightError{
				OpenID:   a.current.ID,
				OpenLine: a.current.LineNumber,
				NewLine:  lineNumber,
			}
		}
		dropped = a.current
	}

	a.current = &BookingRecord{
		ID:                      a.nextID,
		LineNumber:              lineNumber,
		RequestTimestamp:        f.RequestTimestamp,
		RequestTime:             f.RequestTime,
		DepartureDate:           f.DepartureDate,
		DepartureDay:            f.DepartureDay,
		StayDuration:            f.StayDuration,
		DepartureTime:           f.DepartureTime,
		Origin:                  f.Origin,
		Destination:             f.Destination,
		TripType:                f.TripType,
		POS:                     f.POS,
		Channel:                 f.Channel,
		Cabin:                   f.Cabin,
		PartySize:               f.PartySize,
		FFTier:                  f.FFTier,
		WTP:                     f.WTP,
		ValueOfTime:             f.ValueOfTime,
		ChangeFee:               f.ChangeFee,
		ChangeFeeDisutility:     f.ChangeFeeDisutility,
		NonRefundable:           f.NonRefundable,
		NonRefundableDisutility: f.NonRefundableDisutility,
		Offered:                 []FareOption{},
		AvailabilityBefore:      make(Availability),
		Outcome:                 OutcomeUnresolved,
	}
	a.nextID++
	a.state = stateOpen
	return dropped, nil
}

// OnChoice attaches the chosen fare and the correlated window data to the
// in-flight record. Returns false when no record is in flight (the choice
// line is then ignored).
func (a *RequestAccumulator) OnChoice(f ChoiceFields, c Correlation) bool {
	if a.state != stateOpen && a.state != stateChosen {
		return false
	}

	rec := a.current
	rec.CustomerChose = true
	rec.Airline = f.Airline
	rec.FlightNumber = f.FlightNumber
	rec.ChosenClass = f.Class
	rec.ChosenFare = f.Fare
	rec.ChosenChangeFee = f.ChangeFee
	rec.ChosenNonRefundable = f.NonRefundable
	rec.ChosenSaturdayStay = f.SaturdayStay

	rec.Offered = append(rec.Offered, c.FareOptions...)
	for class, seats := range c.Availability {
		rec.AvailabilityBefore[class] = seats
	}

	a.state = stateChosen
	return true
}

// OnSale resolves the in-flight record as sold and detaches it. Returns
// nil when no record is in flight.
func (a *RequestAccumulator) OnSale(f SaleFields) *BookingRecord {
	if a.state != stateOpen && a.state != stateChosen {
		return nil
	}

	rec := a.current
	rec.Outcome = OutcomeSold
	rec.SaleSuccessful = f.Successful
	rec.SoldPartySize = f.SoldPartySize

	a.current = nil
	a.state = stateIdle
	return rec
}

// OnDenied resolves the in-flight record as denied and detaches it. The
// chosen class becomes the denial sentinel and the fare is forced to
// zero. Returns nil when no record is in flight.
func (a *RequestAccumulator) OnDenied() *BookingRecord {
	if a.state != stateOpen && a.state != stateChosen {
		return nil
	}

	rec := a.current
	rec.CustomerChose = false
	rec.ChosenClass = DeniedClass
	rec.ChosenFare = 0
	rec.Outcome = OutcomeDenied
	rec.SaleSuccessful = false

	a.current = nil
	a.state = stateIdle
	return rec
}

// Finish detaches and returns the record left in flight at end of input,
// nil when the accumulator is idle. The record never resolved, so the
// caller drops and counts it rather than emitting it.
func (a *RequestAccumulator) Finish() *BookingRecord {
	rec := a.current
	a.current = nil
	a.state = stateIdle
	return rec
}
