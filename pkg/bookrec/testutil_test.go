package bookrec

import "fmt"

// Line builders producing simulator-format log lines for tests.

func requestLine(ts, departure string) string {
	return fmt.Sprintf("Poped booking request: 'At %s, for (SIN, IN) SIN-BKK (RO) %s (1 days) 08:00:00 Y 1 N 455.203 31.7392 0 50 1 50'", ts, departure)
}

func fareQuoteLine(class string, fare float64) string {
	return fmt.Sprintf("A corresponding fare option for the 'BA %s' class is: Class path: %s; %g EUR; conditions: 0 0 0", class, class, fare)
}

func availabilityLine(class string, seats int) string {
	return fmt.Sprintf("Fare option Class path: %s; 100 EUR; conditions: 0 0 0, Availability %d", class, seats)
}

func choiceLine(class string, fare float64) string {
	return fmt.Sprintf("Chosen TS: Segment path: BA; 9, 2009-Apr-20; SIN, BKK; 08:00:00 ### Chosen fare option: Class path: %s; %g EUR; conditions: 1 1 1", class, fare)
}

func saleLine(partySize int, successful bool) string {
	flag := 0
	if successful {
		flag = 1
	}
	return fmt.Sprintf("Made a sell of %d persons on the chosen travel solution. Successful? %d", partySize, flag)
}

const (
	deniedLine = "There is no chosen travel solution for this booking request."
	fillerLine = "Sample performance measures and statistics"
)

// soldSequence is one complete request lifecycle resolving in a sale.
func soldSequence() []string {
	return []string{
		requestLine("2009-Mar-13 01:54:26.501000", "2009-Apr-20"),
		fareQuoteLine("Y", 400),
		fareQuoteLine("M", 160),
		availabilityLine("Y", 16),
		availabilityLine("M", 42),
		choiceLine("M", 160),
		saleLine(1, true),
	}
}
