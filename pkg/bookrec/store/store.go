// Package store provides persistent storage for finalized booking
// records and SQL-backed demand aggregation.
package store

import (
	"errors"

	"github.com/averost/bookrec/pkg/bookrec"
	"github.com/averost/bookrec/pkg/bookrec/export"
)

// Store persists finalized booking records.
// Implementations must be safe for concurrent use.
type Store interface {
	// SaveRecords stores the finalized records of one reconstruction run.
	// Records of the same (runID, record ID) are overwritten.
	SaveRecords(runID string, records []*bookrec.BookingRecord) error

	// LoadRecords retrieves a run's records ordered by record ID.
	// Returns ErrRunNotFound when the run stored nothing.
	LoadRecords(runID string) ([]*bookrec.BookingRecord, error)

	// ListRuns returns the stored run IDs with their record counts.
	ListRuns() ([]RunInfo, error)

	// DemandAggregate rolls a run's sold records up by (departure date,
	// origin, destination, cabin), classified with the given thresholds.
	DemandAggregate(runID string, highThreshold, mediumThreshold int) ([]export.DemandRow, error)

	// DeleteRun removes all records of a run.
	// Returns nil if the run stored nothing.
	DeleteRun(runID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// RunInfo provides per-run metadata without loading the records.
type RunInfo struct {
	RunID   string
	Records int
}

// Sentinel errors for store operations.
var (
	// ErrRunNotFound indicates a run stored no records.
	ErrRunNotFound = errors.New("run not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("record store closed")
)
