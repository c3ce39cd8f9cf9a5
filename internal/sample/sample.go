// Package sample generates placeholder records so the dashboard always has
// a renderable dataset when a source document cannot be fetched.
package sample

import (
	"math/rand"
	"time"

	"github.com/dentalab/milldash/internal/record"
)

const (
	// A year of daily rows keeps the yearly view populated.
	dailyDays    = 365
	sessionCount = 400
)

var materials = []string{"Zirconia", "PMMA", "Wax", "Titanium", "Glass Ceramic"}

var shades = []string{"A1", "A2", "A3", "B1", "B2", "C2", "D3"}

var statuses = []string{
	record.StatusCompleted,
	record.StatusCompleted,
	record.StatusCompleted,
	record.StatusCompleted,
	record.StatusIncomplete,
	record.StatusInProgress,
}

// Daily generates one aggregate row per day for the year leading up to now.
// Seeding from the reference day keeps repeated loads consistent within it.
func Daily(now time.Time) []record.DailyAggregate {
	rng := rand.New(rand.NewSource(daySeed(now)))

	out := make([]record.DailyAggregate, 0, dailyDays)
	for i := dailyDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		total := 4 + rng.Intn(9)
		completed := total - rng.Intn(3)
		if completed < 0 {
			completed = 0
		}
		avg := 25 + rng.Float64()*35

		out = append(out, record.DailyAggregate{
			Date:                 day.Format("2006-01-02"),
			TotalSessions:        total,
			TotalDurationMinutes: float64(total) * avg,
			AvgDurationMinutes:   avg,
			CompletedSessions:    completed,
			MaterialTypes:        1 + rng.Intn(len(materials)),
			SuccessRate:          100 * float64(completed) / float64(total),
			UtilizationHours:     float64(total) * avg / 60,
			TotalJobs:            total,
		})
	}

	return out
}

// Sessions generates individual job rows spread over the last 30 days so
// the session-level panels have data at every granularity.
func Sessions(now time.Time) []record.JobSession {
	rng := rand.New(rand.NewSource(daySeed(now) + 1))

	out := make([]record.JobSession, 0, sessionCount)
	for i := 0; i < sessionCount; i++ {
		day := now.AddDate(0, 0, -rng.Intn(30))
		hour := 7 + rng.Intn(11)
		start := time.Date(day.Year(), day.Month(), day.Day(), hour, rng.Intn(60), 0, 0, day.Location())

		session := record.JobSession{
			SessionID:       1000 + i,
			SessionStart:    start.Format("2006-01-02T15:04:05"),
			StartDate:       start.Format("2006-01-02"),
			StartHour:       hour,
			Status:          statuses[rng.Intn(len(statuses))],
			DurationMinutes: 10 + rng.Float64()*80,
			JobCount:        1,
		}
		// Leave the occasional material null, mirroring real exports.
		if rng.Intn(10) > 0 {
			session.MaterialType = materials[rng.Intn(len(materials))]
			session.MaterialColor = shades[rng.Intn(len(shades))]
		}

		out = append(out, session)
	}

	return out
}

func daySeed(now time.Time) int64 {
	year, month, day := now.Date()
	return int64(year*10000 + int(month)*100 + day)
}
