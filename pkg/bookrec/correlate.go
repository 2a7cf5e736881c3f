package bookrec

// Direction selects which side of the trigger line a correlation scans.
type Direction int

const (
	// Backward scans the window strictly before the trigger line. This is
	// the direction the simulator's log grammar requires: fare quotes and
	// availability are logged immediately before the choice they belong to.
	Backward Direction = iota

	// Forward scans the window starting at the trigger line.
	Forward
)

// DefaultWindowSize bounds the correlation search. The related log
// chatter of one booking fits well inside 50 lines; a larger bound risks
// attaching quotes that belong to an earlier request.
const DefaultWindowSize = 50

// Correlation holds everything a window scan attached to its trigger.
type Correlation struct {
	// FareOptions are all quoted options found in the window, in line
	// order. Repeated listings of the same class are all kept.
	FareOptions []FareOption

	// Availability is the per-class seat snapshot. When a class is listed
	// more than once inside the window, the entry closest to the trigger
	// wins (last write within the window).
	Availability Availability

	// Matches counts the window lines that contributed data.
	Matches int
}

// Correlate scans a bounded neighborhood of the trigger line and collects
// every fare-quote and availability match inside it. Lines outside the
// window are never consulted; an empty window result is not an error.
func Correlate(lines []string, trigger, windowSize int, dir Direction) Correlation {
	result := Correlation{Availability: make(Availability)}

	var start, end int
	switch dir {
	case Backward:
		start, end = trigger-windowSize, trigger
	default:
		start, end = trigger, trigger+windowSize
	}
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}

	for i := start; i < end; i++ {
		switch Classify(lines[i]) {
		case KindFareQuote:
			if opt, ok := ExtractFareQuote(lines[i]); ok {
				result.FareOptions = append(result.FareOptions, opt)
				result.Matches++
			}
		case KindAvailability:
			if av, ok := ExtractAvailability(lines[i]); ok {
				result.Availability[av.Class] = av.Seats
				result.Matches++
			}
		}
	}

	return result
}
