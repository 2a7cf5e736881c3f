package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/averost/bookrec/pkg/bookrec"
	"github.com/averost/bookrec/pkg/bookrec/export"
)

// SQLiteStore persists booking records to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite record store.
// The path should be a file path (e.g., "./bookings.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bookings (
			run_id TEXT NOT NULL,
			record_id INTEGER NOT NULL,
			line_number INTEGER NOT NULL,
			request_timestamp TEXT NOT NULL,
			departure_date TEXT NOT NULL,
			days_to_departure INTEGER,
			stay_duration INTEGER NOT NULL,
			departure_time TEXT NOT NULL,
			origin TEXT NOT NULL,
			destination TEXT NOT NULL,
			airline TEXT NOT NULL,
			flight_number TEXT NOT NULL,
			trip_type TEXT NOT NULL,
			pos TEXT NOT NULL,
			channel TEXT NOT NULL,
			cabin TEXT NOT NULL,
			party_size INTEGER NOT NULL,
			ff_status TEXT NOT NULL,
			wtp REAL NOT NULL,
			value_of_time REAL NOT NULL,
			change_fees INTEGER NOT NULL,
			change_fee_disutility INTEGER NOT NULL,
			non_refundable INTEGER NOT NULL,
			non_refundable_disutility INTEGER NOT NULL,
			offered_options TEXT NOT NULL,
			availability_before TEXT NOT NULL,
			customer_chose INTEGER NOT NULL,
			chosen_class TEXT NOT NULL,
			chosen_fare REAL NOT NULL,
			chosen_change_fee INTEGER NOT NULL,
			chosen_non_refundable INTEGER NOT NULL,
			chosen_saturday_stay INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			sale_successful INTEGER NOT NULL,
			sold_party_size INTEGER NOT NULL,
			PRIMARY KEY (run_id, record_id)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_run_id
		ON bookings(run_id)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveRecords implements Store.
func (s *SQLiteStore) SaveRecords(runID string, records []*bookrec.BookingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO bookings (
			run_id, record_id, line_number, request_timestamp,
			departure_date, days_to_departure, stay_duration,
			departure_time, origin, destination, airline, flight_number,
			trip_type, pos, channel, cabin, party_size, ff_status, wtp,
			value_of_time, change_fees, change_fee_disutility,
			non_refundable, non_refundable_disutility, offered_options,
			availability_before, customer_chose, chosen_class,
			chosen_fare, chosen_change_fee, chosen_non_refundable,
			chosen_saturday_stay, outcome, sale_successful, sold_party_size
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare save: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		offered, err := json.Marshal(rec.Offered)
		if err != nil {
			return fmt.Errorf("serialize offered options of record %d: %w", rec.ID, err)
		}
		availability, err := json.Marshal(rec.AvailabilityBefore)
		if err != nil {
			return fmt.Errorf("serialize availability of record %d: %w", rec.ID, err)
		}

		var dtd any
		if rec.DaysToDeparture != nil {
			dtd = *rec.DaysToDeparture
		}

		if _, err := stmt.Exec(
			runID, rec.ID, rec.LineNumber, rec.RequestTimestamp,
			rec.DepartureDate, dtd, rec.StayDuration,
			rec.DepartureTime, rec.Origin, rec.Destination, rec.Airline, rec.FlightNumber,
			rec.TripType, rec.POS, rec.Channel, rec.Cabin, rec.PartySize, rec.FFTier, rec.WTP,
			rec.ValueOfTime, rec.ChangeFee, rec.ChangeFeeDisutility,
			rec.NonRefundable, rec.NonRefundableDisutility, string(offered),
			string(availability), rec.CustomerChose, rec.ChosenClass,
			rec.ChosenFare, rec.ChosenChangeFee, rec.ChosenNonRefundable,
			rec.ChosenSaturdayStay, string(rec.Outcome), rec.SaleSuccessful, rec.SoldPartySize,
		); err != nil {
			return fmt.Errorf("save record %d: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// LoadRecords implements Store.
func (s *SQLiteStore) LoadRecords(runID string) ([]*bookrec.BookingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT record_id, line_number, request_timestamp, departure_date,
			days_to_departure, stay_duration, departure_time, origin,
			destination, airline, flight_number, trip_type, pos, channel,
			cabin, party_size, ff_status, wtp, value_of_time, change_fees,
			change_fee_disutility, non_refundable,
			non_refundable_disutility, offered_options,
			availability_before, customer_chose, chosen_class,
			chosen_fare, chosen_change_fee, chosen_non_refundable,
			chosen_saturday_stay, outcome, sale_successful, sold_party_size
		FROM bookings
		WHERE run_id = ?
		ORDER BY record_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()

	var records []*bookrec.BookingRecord
	for rows.Next() {
		rec := &bookrec.BookingRecord{}
		var dtd sql.NullInt64
		var offered, availability, outcome string

		if err := rows.Scan(
			&rec.ID, &rec.LineNumber, &rec.RequestTimestamp, &rec.DepartureDate,
			&dtd, &rec.StayDuration, &rec.DepartureTime, &rec.Origin,
			&rec.Destination, &rec.Airline, &rec.FlightNumber, &rec.TripType, &rec.POS, &rec.Channel,
			&rec.Cabin, &rec.PartySize, &rec.FFTier, &rec.WTP, &rec.ValueOfTime, &rec.ChangeFee,
			&rec.ChangeFeeDisutility, &rec.NonRefundable,
			&rec.NonRefundableDisutility, &offered,
			&availability, &rec.CustomerChose, &rec.ChosenClass,
			&rec.ChosenFare, &rec.ChosenChangeFee, &rec.ChosenNonRefundable,
			&rec.ChosenSaturdayStay, &outcome, &rec.SaleSuccessful, &rec.SoldPartySize,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		if dtd.Valid {
			days := int(dtd.Int64)
			rec.DaysToDeparture = &days
		}
		if err := json.Unmarshal([]byte(offered), &rec.Offered); err != nil {
			return nil, fmt.Errorf("deserialize offered options of record %d: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(availability), &rec.AvailabilityBefore); err != nil {
			return nil, fmt.Errorf("deserialize availability of record %d: %w", rec.ID, err)
		}
		rec.Outcome = bookrec.Outcome(outcome)

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	if len(records) == 0 {
		return nil, ErrRunNotFound
	}
	return records, nil
}

// ListRuns implements Store.
func (s *SQLiteStore) ListRuns() ([]RunInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT run_id, COUNT(*)
		FROM bookings
		GROUP BY run_id
		ORDER BY run_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var infos []RunInfo
	for rows.Next() {
		var info RunInfo
		if err := rows.Scan(&info.RunID, &info.Records); err != nil {
			return nil, fmt.Errorf("scan run info: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return infos, nil
}

// DemandAggregate implements Store. The rollup itself runs in SQL; only
// the three-level classification happens in Go.
func (s *SQLiteStore) DemandAggregate(runID string, highThreshold, mediumThreshold int) ([]export.DemandRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT departure_date, origin, destination, cabin,
			COUNT(*), SUM(party_size), AVG(wtp),
			COALESCE(AVG(days_to_departure), 0)
		FROM bookings
		WHERE run_id = ? AND outcome = ?
		GROUP BY departure_date, origin, destination, cabin
		ORDER BY departure_date, origin, destination, cabin
	`, runID, string(bookrec.OutcomeSold))
	if err != nil {
		return nil, fmt.Errorf("aggregate demand: %w", err)
	}
	defer rows.Close()

	var result []export.DemandRow
	for rows.Next() {
		var row export.DemandRow
		if err := rows.Scan(
			&row.DepartureDate, &row.Origin, &row.Destination, &row.Cabin,
			&row.BookingCount, &row.TotalPassengers, &row.AvgWTP,
			&row.AvgLeadTime,
		); err != nil {
			return nil, fmt.Errorf("scan demand row: %w", err)
		}
		switch {
		case row.BookingCount >= highThreshold:
			row.Level = export.DemandHigh
		case row.BookingCount >= mediumThreshold:
			row.Level = export.DemandMedium
		default:
			row.Level = export.DemandLow
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate demand rows: %w", err)
	}

	return result, nil
}

// DeleteRun implements Store.
func (s *SQLiteStore) DeleteRun(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(`
		DELETE FROM bookings WHERE run_id = ?
	`, runID)
	if err != nil {
		return fmt.Errorf("delete run records: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
