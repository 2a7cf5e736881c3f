package export

import (
	"sort"

	"github.com/averost/bookrec/pkg/bookrec"
)

// DTDBucket is one lead-time bucket of a per-departure-date breakdown.
type DTDBucket struct {
	// DaysToDeparture is the lead time this bucket aggregates.
	DaysToDeparture int

	// Requests counts booking requests at this lead time.
	Requests int

	// AvgWTP is the mean willingness to pay at this lead time.
	AvgWTP float64
}

// DemandByDTD breaks the requests for one departure date down by lead
// time. Records without a derivable lead time are skipped. Buckets come
// back sorted by ascending days to departure.
func DemandByDTD(records []*bookrec.BookingRecord, departureDate string) []DTDBucket {
	type agg struct {
		requests int
		wtpTotal float64
	}

	byDTD := make(map[int]*agg)
	for _, rec := range records {
		if rec.DepartureDate != departureDate || rec.DaysToDeparture == nil {
			continue
		}
		a, ok := byDTD[*rec.DaysToDeparture]
		if !ok {
			a = &agg{}
			byDTD[*rec.DaysToDeparture] = a
		}
		a.requests++
		a.wtpTotal += rec.WTP
	}

	dtds := make([]int, 0, len(byDTD))
	for dtd := range byDTD {
		dtds = append(dtds, dtd)
	}
	sort.Ints(dtds)

	buckets := make([]DTDBucket, 0, len(dtds))
	for _, dtd := range dtds {
		a := byDTD[dtd]
		buckets = append(buckets, DTDBucket{
			DaysToDeparture: dtd,
			Requests:        a.requests,
			AvgWTP:          a.wtpTotal / float64(a.requests),
		})
	}
	return buckets
}
