package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averost/bookrec/pkg/bookrec"
	"github.com/averost/bookrec/pkg/bookrec/export"
)

var testClasses = []string{"Y", "B", "M"}

func intPtr(n int) *int { return &n }

// soldRecord builds a finalized sold record for export tests.
func soldRecord(id int) *bookrec.BookingRecord {
	return &bookrec.BookingRecord{
		ID:                      id,
		LineNumber:              id * 10,
		RequestTimestamp:        "2009-Mar-13 01:54:26",
		DepartureDate:           "2009-Apr-20",
		DaysToDeparture:         intPtr(38),
		StayDuration:            1,
		DepartureTime:           "08:00:00",
		Origin:                  "SIN",
		Destination:             "BKK",
		Airline:                 "BA",
		FlightNumber:            "9",
		TripType:                "RO",
		POS:                     "SIN",
		Channel:                 "IN",
		Cabin:                   "Y",
		PartySize:               2,
		FFTier:                  "N",
		WTP:                     455.203,
		ValueOfTime:             31.7392,
		ChangeFee:               0,
		ChangeFeeDisutility:     50,
		NonRefundable:           1,
		NonRefundableDisutility: 50,
		Offered: []bookrec.FareOption{
			{Class: "Y", Fare: 400, ChangeFee: 0, NonRefundable: 0, SaturdayStay: 0},
			{Class: "M", Fare: 160, ChangeFee: 1, NonRefundable: 1, SaturdayStay: 1},
		},
		AvailabilityBefore:  bookrec.Availability{"Y": 16, "B": 0, "M": 42},
		CustomerChose:       true,
		ChosenClass:         "M",
		ChosenFare:          160,
		ChosenChangeFee:     1,
		ChosenNonRefundable: 1,
		ChosenSaturdayStay:  1,
		Outcome:             bookrec.OutcomeSold,
		SaleSuccessful:      true,
		SoldPartySize:       2,
	}
}

// deniedRecord builds a finalized denied record for export tests.
func deniedRecord(id int) *bookrec.BookingRecord {
	return &bookrec.BookingRecord{
		ID:                 id,
		LineNumber:         id * 10,
		RequestTimestamp:   "2009-Mar-14 09:00:00",
		DepartureDate:      "2009-Apr-21",
		Origin:             "BKK",
		Destination:        "SIN",
		TripType:           "OW",
		POS:                "BKK",
		Channel:            "DF",
		Cabin:              "Y",
		PartySize:          1,
		FFTier:             "N",
		WTP:                120,
		Offered:            []bookrec.FareOption{},
		AvailabilityBefore: bookrec.Availability{"Y": 0, "B": 0, "M": 0},
		ChosenClass:        bookrec.DeniedClass,
		Outcome:            bookrec.OutcomeDenied,
	}
}

func parseCSV(t *testing.T, buf *bytes.Buffer) (header []string, rows []map[string]string) {
	t.Helper()
	all, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, all)

	header = all[0]
	for _, line := range all[1:] {
		require.Len(t, line, len(header))
		cells := make(map[string]string, len(header))
		for i, col := range header {
			cells[col] = line[i]
		}
		rows = append(rows, cells)
	}
	return header, rows
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := export.WriteCSV(&buf, []*bookrec.BookingRecord{soldRecord(1), deniedRecord(2)}, testClasses)
	require.NoError(t, err)

	header, rows := parseCSV(t, &buf)
	require.Len(t, rows, 2)

	t.Run("header carries one availability column per class", func(t *testing.T) {
		assert.Contains(t, header, "availability_Y_before")
		assert.Contains(t, header, "availability_B_before")
		assert.Contains(t, header, "availability_M_before")
		assert.Equal(t, "request_id", header[0])
	})

	t.Run("sold record cells", func(t *testing.T) {
		sold := rows[0]
		assert.Equal(t, "1", sold["request_id"])
		assert.Equal(t, "10", sold["line_number"])
		assert.Equal(t, "2009-Apr-20", sold["departure_date"])
		assert.Equal(t, "38", sold["days_to_departure"])
		assert.Equal(t, "455.203", sold["wtp"])
		assert.Equal(t, "Y,M", sold["offered_classes"])
		assert.Equal(t, "400,160", sold["offered_fares"])
		assert.Equal(t, "0,1", sold["offered_change_fees"])
		assert.Equal(t, "16", sold["availability_Y_before"])
		assert.Equal(t, "42", sold["availability_M_before"])
		assert.Equal(t, "true", sold["customer_chose"])
		assert.Equal(t, "M", sold["chosen_class"])
		assert.Equal(t, "160", sold["chosen_fare"])
		assert.Equal(t, "true", sold["sale_successful"])
		assert.Equal(t, "2", sold["sold_party_size"])
	})

	t.Run("denied record cells", func(t *testing.T) {
		denied := rows[1]
		assert.Equal(t, "DENIED", denied["chosen_class"])
		assert.Equal(t, "0", denied["chosen_fare"])
		assert.Equal(t, "false", denied["customer_chose"])
		assert.Empty(t, denied["offered_classes"])
		assert.Empty(t, denied["days_to_departure"], "unknown lead time stays empty")
		assert.Empty(t, denied["airline"])
	})
}

func TestWriteCSV_EmptyRecords(t *testing.T) {
	var buf bytes.Buffer
	err := export.WriteCSV(&buf, nil, testClasses)
	require.NoError(t, err)

	header, rows := parseCSV(t, &buf)
	assert.NotEmpty(t, header)
	assert.Empty(t, rows)
}

func TestWriteSimplifiedCSV(t *testing.T) {
	var buf bytes.Buffer
	err := export.WriteSimplifiedCSV(&buf, []*bookrec.BookingRecord{soldRecord(1)}, testClasses)
	require.NoError(t, err)

	header, rows := parseCSV(t, &buf)
	require.Len(t, rows, 1)

	t.Run("drops the offered-option columns", func(t *testing.T) {
		assert.NotContains(t, header, "offered_classes")
		assert.NotContains(t, header, "offered_fares")
		assert.NotContains(t, header, "offered_change_fees")
		assert.NotContains(t, header, "offered_non_refundable")
		assert.NotContains(t, header, "offered_saturday_stay")
	})

	t.Run("keeps everything else", func(t *testing.T) {
		assert.Contains(t, header, "request_id")
		assert.Contains(t, header, "availability_Y_before")
		assert.Contains(t, header, "chosen_class")
		assert.Equal(t, "M", rows[0]["chosen_class"])
	})
}
