package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWeek(t *testing.T) {
	tests := []struct {
		date  string
		start string
		end   string
	}{
		{"2024-01-15", "2024-01-15", "2024-01-21"}, // Monday
		{"2024-01-17", "2024-01-15", "2024-01-21"},
		{"2024-01-21", "2024-01-15", "2024-01-21"}, // Sunday rolls back
		{"2024-01-01", "2024-01-01", "2024-01-07"},
		{"2023-12-31", "2023-12-25", "2023-12-31"},
		{"2024-02-29", "2024-02-26", "2024-03-03"},
		{"2025-01-01", "2024-12-30", "2025-01-05"},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			week, err := ParseWeek(tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.start, week.Start)
			assert.Equal(t, tt.end, week.End)
		})
	}
}

func TestResolveWeekAlwaysMondayToSunday(t *testing.T) {
	day := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 800; i++ {
		d := day.AddDate(0, 0, i)
		week := ResolveWeek(d)

		start, err := time.Parse("2006-01-02", week.Start)
		require.NoError(t, err)
		end, err := time.Parse("2006-01-02", week.End)
		require.NoError(t, err)

		assert.Equal(t, time.Monday, start.Weekday(), d)
		assert.Equal(t, 6*24*time.Hour, end.Sub(start), d)
		assert.False(t, d.Before(start), d)
		assert.False(t, d.After(end), d)
	}
}

func TestResolveWeekIgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2024, 1, 21, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, WeekRange{Start: "2024-01-15", End: "2024-01-21"}, ResolveWeek(late))

	week, err := ParseWeek("2024-01-21T23:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", week.Start)
}

func TestParseWeekErrors(t *testing.T) {
	_, err := ParseWeek("")
	assert.True(t, errors.Is(err, ErrMissingParameter))

	_, err = ParseWeek("   ")
	assert.True(t, errors.Is(err, ErrMissingParameter))

	_, err = ParseWeek("2024-13-45")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.True(t, IsClientError(err))
}
