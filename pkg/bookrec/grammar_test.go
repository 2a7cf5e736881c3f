package bookrec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPattern(t *testing.T) {
	t.Run("substitutes base patterns", func(t *testing.T) {
		expanded := expandPattern(`({IATA})-({IATA})`)
		assert.Equal(t, `([A-Z]{3})-([A-Z]{3})`, expanded)
	})

	t.Run("leaves unknown placeholders alone", func(t *testing.T) {
		assert.Equal(t, `{NOPE}`, expandPattern(`{NOPE}`))
	})
}

func TestExtractRequest(t *testing.T) {
	t.Run("extracts all fields", func(t *testing.T) {
		fields, ok := ExtractRequest(requestLine("2009-Mar-13 01:54:26.501000", "2009-Apr-20"))
		require.True(t, ok)

		assert.Equal(t, "2009-Mar-13 01:54:26.501000", fields.RequestTimestamp)
		require.NotNil(t, fields.RequestTime)
		assert.Equal(t, "SIN", fields.POS)
		assert.Equal(t, "IN", fields.Channel)
		assert.Equal(t, "SIN", fields.Origin)
		assert.Equal(t, "BKK", fields.Destination)
		assert.Equal(t, "RO", fields.TripType)
		assert.Equal(t, "2009-Apr-20", fields.DepartureDate)
		require.NotNil(t, fields.DepartureDay)
		assert.Equal(t, 1, fields.StayDuration)
		assert.Equal(t, "08:00:00", fields.DepartureTime)
		assert.Equal(t, "Y", fields.Cabin)
		assert.Equal(t, 1, fields.PartySize)
		assert.Equal(t, "N", fields.FFTier)
		assert.InDelta(t, 455.203, fields.WTP, 1e-9)
		assert.InDelta(t, 31.7392, fields.ValueOfTime, 1e-9)
		assert.Equal(t, 0, fields.ChangeFee)
		assert.Equal(t, 50, fields.ChangeFeeDisutility)
		assert.Equal(t, 1, fields.NonRefundable)
		assert.Equal(t, 50, fields.NonRefundableDisutility)
	})

	t.Run("timestamp without fractional seconds", func(t *testing.T) {
		fields, ok := ExtractRequest(requestLine("2009-Mar-13 01:54:26", "2009-Apr-20"))
		require.True(t, ok)
		assert.NotNil(t, fields.RequestTime)
	})

	t.Run("unparseable decimal is a no-match", func(t *testing.T) {
		// "455.203.1" slips through the permissive decimal pattern and
		// must be caught by the strict parse.
		line := "Poped booking request: 'At 2009-Mar-13 01:54:26, for (SIN, IN) SIN-BKK (RO) 2009-Apr-20 (1 days) 08:00:00 Y 1 N 455.203.1 31.7392 0 50 1 50'"
		_, ok := ExtractRequest(line)
		assert.False(t, ok)
	})

	t.Run("truncated payload is a no-match", func(t *testing.T) {
		_, ok := ExtractRequest("Poped booking request: 'At 2009-Mar-13 01:54:26, for (SIN, IN) SIN-BKK'")
		assert.False(t, ok)
	})

	t.Run("unrelated line is a no-match", func(t *testing.T) {
		_, ok := ExtractRequest(fillerLine)
		assert.False(t, ok)
	})
}

func TestExtractFareQuote(t *testing.T) {
	t.Run("extracts class, fare, and conditions", func(t *testing.T) {
		line := "A corresponding fare option for the 'BA Y' class is: Class path: Y; 400.5 EUR; conditions: 1 0 1"
		opt, ok := ExtractFareQuote(line)
		require.True(t, ok)
		assert.Equal(t, FareOption{Class: "Y", Fare: 400.5, ChangeFee: 1, NonRefundable: 0, SaturdayStay: 1}, opt)
	})

	t.Run("no-match on unrelated line", func(t *testing.T) {
		_, ok := ExtractFareQuote(fillerLine)
		assert.False(t, ok)
	})
}

func TestExtractAvailability(t *testing.T) {
	t.Run("extracts class and seats", func(t *testing.T) {
		av, ok := ExtractAvailability(availabilityLine("M", 42))
		require.True(t, ok)
		assert.Equal(t, AvailabilityFields{Class: "M", Seats: 42}, av)
	})

	t.Run("no-match without seat count", func(t *testing.T) {
		_, ok := ExtractAvailability("Fare option Class path: M; 100 EUR; conditions: 0 0 0")
		assert.False(t, ok)
	})
}

func TestExtractChoice(t *testing.T) {
	t.Run("extracts fare and segment sections", func(t *testing.T) {
		fields, ok := ExtractChoice(choiceLine("M", 160))
		require.True(t, ok)
		assert.Equal(t, "BA", fields.Airline)
		assert.Equal(t, "9", fields.FlightNumber)
		assert.Equal(t, "M", fields.Class)
		assert.InDelta(t, 160, fields.Fare, 1e-9)
		assert.Equal(t, 1, fields.ChangeFee)
		assert.Equal(t, 1, fields.NonRefundable)
		assert.Equal(t, 1, fields.SaturdayStay)
	})

	t.Run("segment section is optional", func(t *testing.T) {
		line := "Chosen TS: Chosen fare option: Class path: Y; 400 EUR; conditions: 0 0 0"
		fields, ok := ExtractChoice(line)
		require.True(t, ok)
		assert.Empty(t, fields.Airline)
		assert.Empty(t, fields.FlightNumber)
		assert.Equal(t, "Y", fields.Class)
	})

	t.Run("fare section is required", func(t *testing.T) {
		_, ok := ExtractChoice("Chosen TS: Segment path: BA; 9, 2009-Apr-20")
		assert.False(t, ok)
	})
}

func TestExtractSale(t *testing.T) {
	t.Run("successful sale", func(t *testing.T) {
		fields, ok := ExtractSale(saleLine(2, true))
		require.True(t, ok)
		assert.Equal(t, SaleFields{SoldPartySize: 2, Successful: true}, fields)
	})

	t.Run("failed sale", func(t *testing.T) {
		fields, ok := ExtractSale(saleLine(1, false))
		require.True(t, ok)
		assert.False(t, fields.Successful)
	})

	t.Run("no-match without outcome flag", func(t *testing.T) {
		_, ok := ExtractSale("Made a sell of 1 persons")
		assert.False(t, ok)
	})
}
