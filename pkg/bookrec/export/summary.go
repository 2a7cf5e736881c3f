package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/averost/bookrec/pkg/bookrec"
)

// Summary holds the aggregate statistics of one reconstruction pass.
type Summary struct {
	TotalRequests   int
	CustomerChose   int
	Denied          int
	SuccessfulSales int

	// ChosenClasses counts chosen booking classes, denials excluded.
	ChosenClasses map[string]int

	// AvgAvailability is the mean pre-booking seat availability per
	// class over all records.
	AvgAvailability map[string]float64

	// ByOrigin, ByDestination, ByODPair, ByCabin count requests.
	ByOrigin      map[string]int
	ByDestination map[string]int
	ByODPair      map[string]int
	ByCabin       map[string]int

	AvgPartySize float64
	AvgWTP       float64

	// AvgLeadTime is the mean days-to-departure over the records whose
	// lead time could be derived.
	AvgLeadTime float64
}

// Summarize computes aggregate statistics over the finalized records.
// classes is the availability class set to average.
func Summarize(records []*bookrec.BookingRecord, classes []string) Summary {
	s := Summary{
		ChosenClasses:   make(map[string]int),
		AvgAvailability: make(map[string]float64),
		ByOrigin:        make(map[string]int),
		ByDestination:   make(map[string]int),
		ByODPair:        make(map[string]int),
		ByCabin:         make(map[string]int),
	}

	availTotals := make(map[string]int, len(classes))
	var partyTotal int
	var wtpTotal float64
	var leadTotal, leadCount int

	for _, rec := range records {
		s.TotalRequests++

		if rec.CustomerChose {
			s.CustomerChose++
			s.ChosenClasses[rec.ChosenClass]++
		}
		if rec.Outcome == bookrec.OutcomeDenied {
			s.Denied++
		}
		if rec.SaleSuccessful {
			s.SuccessfulSales++
		}

		s.ByOrigin[rec.Origin]++
		s.ByDestination[rec.Destination]++
		s.ByODPair[rec.Origin+"-"+rec.Destination]++
		s.ByCabin[rec.Cabin]++

		for _, class := range classes {
			availTotals[class] += rec.AvailabilityBefore[class]
		}
		partyTotal += rec.PartySize
		wtpTotal += rec.WTP
		if rec.DaysToDeparture != nil {
			leadTotal += *rec.DaysToDeparture
			leadCount++
		}
	}

	if s.TotalRequests > 0 {
		for _, class := range classes {
			s.AvgAvailability[class] = float64(availTotals[class]) / float64(s.TotalRequests)
		}
		s.AvgPartySize = float64(partyTotal) / float64(s.TotalRequests)
		s.AvgWTP = wtpTotal / float64(s.TotalRequests)
	}
	if leadCount > 0 {
		s.AvgLeadTime = float64(leadTotal) / float64(leadCount)
	}

	return s
}

// pct renders n as a percentage of total, 0 when total is zero.
func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// topN returns the n highest-count keys of m, ties broken by key.
func topN(m map[string]int, n int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// WriteText renders the summary the way the console report prints it.
func (s Summary) WriteText(w io.Writer, classes []string) error {
	rule := strings.Repeat("=", 60)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n BOOKING RECONSTRUCTION SUMMARY\n%s\n", rule, rule)
	fmt.Fprintf(&b, "Total Requests:       %d\n", s.TotalRequests)
	fmt.Fprintf(&b, "Customer Made Choice: %d (%.1f%%)\n", s.CustomerChose, pct(s.CustomerChose, s.TotalRequests))
	fmt.Fprintf(&b, "Denied (No Choice):   %d (%.1f%%)\n", s.Denied, pct(s.Denied, s.TotalRequests))
	fmt.Fprintf(&b, "Successful Sales:     %d (%.1f%%)\n", s.SuccessfulSales, pct(s.SuccessfulSales, s.TotalRequests))
	fmt.Fprintf(&b, "Avg Party Size:       %.2f\n", s.AvgPartySize)
	fmt.Fprintf(&b, "Avg WTP:              %.2f\n", s.AvgWTP)
	fmt.Fprintf(&b, "Avg Booking Lead:     %.1f days\n", s.AvgLeadTime)

	if len(s.ChosenClasses) > 0 {
		fmt.Fprintf(&b, "\nChosen Class Distribution:\n")
		for _, class := range sortedKeys(s.ChosenClasses) {
			count := s.ChosenClasses[class]
			fmt.Fprintf(&b, "  Class %s: %6d (%5.1f%%)\n", class, count, pct(count, s.CustomerChose))
		}
	}

	fmt.Fprintf(&b, "\nAverage Availability (Before Booking):\n")
	for _, class := range classes {
		fmt.Fprintf(&b, "  Class %s: %.2f seats\n", class, s.AvgAvailability[class])
	}

	fmt.Fprintf(&b, "\nTop O-D Pairs:\n")
	for _, od := range topN(s.ByODPair, 10) {
		fmt.Fprintf(&b, "  %s: %d\n", od, s.ByODPair[od])
	}

	if len(s.ByCabin) > 0 {
		fmt.Fprintf(&b, "\nCabin Distribution:\n")
		for _, cabin := range sortedKeys(s.ByCabin) {
			fmt.Fprintf(&b, "  %s: %d\n", cabin, s.ByCabin[cabin])
		}
	}
	fmt.Fprintf(&b, "%s\n", rule)

	_, err := io.WriteString(w, b.String())
	return err
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
