package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("Calendar date", func(t *testing.T) {
		d, err := ParseDate("2025-07-04")
		require.NoError(t, err)
		assert.Equal(t, "2025-07-04", d.String())
	})

	t.Run("Timestamp keeps its calendar day", func(t *testing.T) {
		d, err := ParseDate("2025-07-04T23:30:00-05:00")
		require.NoError(t, err)
		assert.Equal(t, "2025-07-04", d.String())
	})

	t.Run("Empty is unset", func(t *testing.T) {
		d, err := ParseDate("  ")
		require.NoError(t, err)
		assert.True(t, d.IsZero())
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ParseDate("07/04/2025")
		assert.Error(t, err)
	})
}

func TestDateComparisonIgnoresTimeOfDay(t *testing.T) {
	morning := DateOf(time.Date(2025, 7, 4, 8, 0, 0, 0, time.UTC))
	evening := DateOf(time.Date(2025, 7, 4, 22, 15, 0, 0, time.UTC))
	assert.True(t, morning.Equal(evening))
	assert.Equal(t, 2, NewDate(2025, 6, 1).DaysUntil(NewDate(2025, 6, 3)))
	assert.Equal(t, -2, NewDate(2025, 6, 3).DaysUntil(NewDate(2025, 6, 1)))
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		Event Date `json:"event_date"`
		Ship  Date `json:"ship_date"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"event_date":"2025-07-04","ship_date":null}`), &p))
	assert.Equal(t, MustParseDate("2025-07-04"), p.Event)
	assert.True(t, p.Ship.IsZero())

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event_date":"2025-07-04","ship_date":null}`, string(out))
}

func TestDateScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-07-04", d.String())

	require.NoError(t, d.Scan([]byte("2025-07-05T00:00:00Z")))
	assert.Equal(t, "2025-07-05", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	v, err := d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = MustParseDate("2025-07-04").Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-07-04", v)

	assert.Error(t, d.Scan(42))
}

func TestReservationStatusClassification(t *testing.T) {
	assert.True(t, ReservationStatusReserved.IsActive())
	assert.True(t, ReservationStatusOut.IsActive())
	assert.True(t, ReservationStatusReturned.IsTerminal())
	assert.True(t, ReservationStatusCancelled.IsTerminal())
	assert.False(t, ReservationStatus("lost").Valid())
	assert.True(t, ScheduleStatusCompleted.Blocks())
	assert.False(t, ScheduleStatusCancelled.Blocks())
}
