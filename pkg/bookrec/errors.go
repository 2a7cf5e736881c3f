package bookrec

import (
	"errors"
	"fmt"
)

// Sentinel errors for reconstruction.
var (
	// ErrNilContext indicates Reconstruct was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrInFlightConflict indicates a new request line arrived while a
	// record was still in flight and the engine runs with RejectInFlight.
	ErrInFlightConflict = errors.New("request arrived while another was in flight")
)

// InFlightError reports a request line that arrived while an earlier
// request was still unresolved. It names both source lines so the log
// anomaly can be located.
type InFlightError struct {
	// OpenID and OpenLine identify the record that was in flight.
	OpenID   int
	OpenLine int

	// NewLine is the source line of the conflicting request.
	NewLine int
}

// Error implements the error interface.
func (e *InFlightError) Error() string {
	return fmt.Sprintf("request at line %d while record %d (line %d) still in flight",
		e.NewLine, e.OpenID, e.OpenLine)
}

// Unwrap returns ErrInFlightConflict for errors.Is support.
func (e *InFlightError) Unwrap() error {
	return ErrInFlightConflict
}
