package bookrec

// RecordHandler receives each record as it is finalized, enabling
// streaming consumption alongside the collected output sequence.
type RecordHandler func(*BookingRecord)

// RecordFinalizer closes resolved records: it derives fields that were
// never computed, default-fills optional ones, and appends the record to
// the output sequence.
type RecordFinalizer struct {
	classes []string
	records []*BookingRecord
	handler RecordHandler
}

// NewRecordFinalizer creates a finalizer that zero-fills availability for
// the given class set. The handler may be nil.
func NewRecordFinalizer(classes []string, handler RecordHandler) *RecordFinalizer {
	return &RecordFinalizer{classes: classes, handler: handler}
}

// Finalize closes rec and appends it to the output sequence. The record
// is returned for immediate consumption and must not be mutated after.
func (f *RecordFinalizer) Finalize(rec *BookingRecord) *BookingRecord {
	if rec.DaysToDeparture == nil {
		rec.DaysToDeparture = daysToDeparture(rec.RequestTime, rec.DepartureDay)
	}

	if rec.Offered == nil {
		rec.Offered = []FareOption{}
	}
	if rec.AvailabilityBefore == nil {
		rec.AvailabilityBefore = make(Availability, len(f.classes))
	}
	for _, class := range f.classes {
		if _, ok := rec.AvailabilityBefore[class]; !ok {
			rec.AvailabilityBefore[class] = 0
		}
	}

	f.records = append(f.records, rec)
	if f.handler != nil {
		f.handler(rec)
	}
	return rec
}

// Records returns the output sequence in emission order.
func (f *RecordFinalizer) Records() []*BookingRecord {
	return f.records
}
