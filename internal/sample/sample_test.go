package sample

import (
	"testing"
	"time"

	"github.com/dentalab/milldash/internal/record"
	"github.com/dentalab/milldash/internal/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func TestDaily_CoversFullYear(t *testing.T) {
	daily := Daily(testNow)

	require.Len(t, daily, dailyDays)
	assert.Equal(t, "2024-03-16", daily[0].Date)
	assert.Equal(t, "2025-03-15", daily[len(daily)-1].Date)
}

func TestDaily_FieldsConsistent(t *testing.T) {
	for _, d := range Daily(testNow) {
		_, ok := window.ParseDate(d.Date)
		assert.True(t, ok, d.Date)
		assert.Positive(t, d.TotalSessions)
		assert.GreaterOrEqual(t, d.TotalSessions, d.CompletedSessions)
		assert.GreaterOrEqual(t, d.CompletedSessions, 0)
		assert.Positive(t, d.UtilizationHours)
	}
}

func TestDaily_StableWithinDay(t *testing.T) {
	assert.Equal(t, Daily(testNow), Daily(testNow.Add(3*time.Hour)))
}

func TestSessions_FieldsValid(t *testing.T) {
	sessions := Sessions(testNow)
	require.Len(t, sessions, sessionCount)

	validStatuses := map[string]bool{
		record.StatusCompleted:  true,
		record.StatusIncomplete: true,
		record.StatusInProgress: true,
	}
	for _, s := range sessions {
		_, ok := window.ParseDate(s.StartDate)
		assert.True(t, ok, s.StartDate)
		assert.True(t, validStatuses[s.Status], s.Status)
		assert.GreaterOrEqual(t, s.StartHour, 0)
		assert.LessOrEqual(t, s.StartHour, 23)
		assert.Positive(t, s.DurationMinutes)
		assert.Equal(t, 1, s.JobCount)
	}
}

func TestSessions_UniqueIDs(t *testing.T) {
	seen := make(map[int]bool)
	for _, s := range Sessions(testNow) {
		assert.False(t, seen[s.SessionID])
		seen[s.SessionID] = true
	}
}
