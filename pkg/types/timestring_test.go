package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		startA, endA, startB, endB TimeString
		want                       bool
	}{
		{"back to back", "09:00", "10:00", "10:00", "11:00", false},
		{"partial overlap", "09:00", "10:30", "10:00", "11:00", true},
		{"contained", "09:00", "12:00", "10:00", "11:00", true},
		{"reverse back to back", "10:00", "11:00", "09:00", "10:00", false},
		{"disjoint", "08:00", "09:00", "10:00", "11:00", false},
		{"identical", "10:00", "11:00", "10:00", "11:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RangesOverlap(tt.startA, tt.endA, tt.startB, tt.endB))
		})
	}
}

func TestAddMinutes_WrapsPastMidnight(t *testing.T) {
	assert.Equal(t, TimeString("00:30"), TimeString("23:00").AddMinutes(90))
	assert.Equal(t, TimeString("23:30"), TimeString("00:15").AddMinutes(-45))
	assert.Equal(t, TimeString("10:00"), TimeString("10:00").AddMinutes(MinutesPerDay))
}

func TestAddMinutes_RoundTrip(t *testing.T) {
	offsets := []int{0, 1, 59, 60, 90, 719, 1439, 1440, 2000, -30, -1500}

	for minute := 0; minute < MinutesPerDay; minute += 7 {
		ts := FromMinutes(minute)
		for _, m := range offsets {
			assert.Equal(t, ts, ts.AddMinutes(m).AddMinutes(-m), "t=%s m=%d", ts, m)
		}
	}
}

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30:00")
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:30"), ts)
	assert.Equal(t, 570, ts.Minutes())

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestScan(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan([]byte("14:05:00")))
	assert.Equal(t, TimeString("14:05"), ts)

	require.NoError(t, ts.Scan(time.Date(2025, 1, 1, 7, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("07:45"), ts)

	assert.Error(t, ts.Scan(42))
}

func TestOn(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 10, 15, 13, 20, 0, 0, time.UTC), TimeString("13:20").On(date))
}
