package bookrec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFinalizer_Finalize(t *testing.T) {
	t.Run("derives days to departure", func(t *testing.T) {
		fin := NewRecordFinalizer(DefaultFareClasses, nil)
		rec := &BookingRecord{
			RequestTime:  parseTimestamp("2009-Mar-13 01:54:26"),
			DepartureDay: parseTimestamp("2009-Apr-20"),
		}

		fin.Finalize(rec)
		require.NotNil(t, rec.DaysToDeparture)
		assert.Equal(t, 38, *rec.DaysToDeparture)
	})

	t.Run("keeps a precomputed lead time", func(t *testing.T) {
		fin := NewRecordFinalizer(DefaultFareClasses, nil)
		precomputed := 7
		rec := &BookingRecord{
			DaysToDeparture: &precomputed,
			RequestTime:     parseTimestamp("2009-Mar-13 01:54:26"),
			DepartureDay:    parseTimestamp("2009-Apr-20"),
		}

		fin.Finalize(rec)
		assert.Equal(t, 7, *rec.DaysToDeparture)
	})

	t.Run("unparseable timestamps leave the lead time nil", func(t *testing.T) {
		fin := NewRecordFinalizer(DefaultFareClasses, nil)
		rec := &BookingRecord{}

		fin.Finalize(rec)
		assert.Nil(t, rec.DaysToDeparture)
	})

	t.Run("zero-fills unobserved availability classes", func(t *testing.T) {
		fin := NewRecordFinalizer([]string{"Y", "B", "M"}, nil)
		rec := &BookingRecord{AvailabilityBefore: Availability{"Y": 16}}

		fin.Finalize(rec)
		assert.Equal(t, Availability{"Y": 16, "B": 0, "M": 0}, rec.AvailabilityBefore)
	})

	t.Run("nil collections become empty", func(t *testing.T) {
		fin := NewRecordFinalizer(DefaultFareClasses, nil)
		rec := &BookingRecord{}

		fin.Finalize(rec)
		assert.NotNil(t, rec.Offered)
		assert.Empty(t, rec.Offered)
		assert.Equal(t, Availability{"Y": 0, "B": 0, "M": 0}, rec.AvailabilityBefore)
	})

	t.Run("appends in emission order", func(t *testing.T) {
		fin := NewRecordFinalizer(DefaultFareClasses, nil)
		first := fin.Finalize(&BookingRecord{ID: 1})
		second := fin.Finalize(&BookingRecord{ID: 2})

		records := fin.Records()
		require.Len(t, records, 2)
		assert.Same(t, first, records[0])
		assert.Same(t, second, records[1])
	})
}

func TestRecordFinalizer_Handler(t *testing.T) {
	var seen []int
	fin := NewRecordFinalizer(DefaultFareClasses, func(rec *BookingRecord) {
		seen = append(seen, rec.ID)
	})

	fin.Finalize(&BookingRecord{ID: 1})
	fin.Finalize(&BookingRecord{ID: 2})

	assert.Equal(t, []int{1, 2}, seen)
	assert.Len(t, fin.Records(), 2)
}
