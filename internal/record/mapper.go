package record

import (
	"strconv"

	"github.com/dentalab/milldash/internal/tabular"
)

// ParseDaily parses a raw daily-aggregates document into typed records.
func ParseDaily(text string) []DailyAggregate {
	return MapDaily(tabular.Parse(text))
}

// ParseSessions parses a raw job-sessions document into typed records.
func ParseSessions(text string) []JobSession {
	return MapSessions(tabular.Parse(text))
}

// MapDaily maps parsed rows onto DailyAggregate records. The first row is
// the header and defines column identity by exact name. Coercion failures
// degrade the single field to its zero value; no row is ever dropped.
func MapDaily(rows [][]string) []DailyAggregate {
	if len(rows) == 0 {
		return []DailyAggregate{}
	}

	cols := indexHeader(rows[0])
	out := make([]DailyAggregate, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, DailyAggregate{
			Date:                 cols.str(row, "date"),
			TotalSessions:        cols.integer(row, "total_sessions"),
			TotalDurationMinutes: cols.real(row, "total_duration_minutes"),
			AvgDurationMinutes:   cols.real(row, "avg_duration_minutes"),
			CompletedSessions:    cols.integer(row, "completed_sessions"),
			MaterialTypes:        cols.integer(row, "material_types"),
			SuccessRate:          cols.real(row, "success_rate"),
			UtilizationHours:     cols.real(row, "utilization_hours"),
			TotalJobs:            cols.integer(row, "total_jobs"),
		})
	}

	return out
}

// MapSessions maps parsed rows onto JobSession records with the same
// header and coercion rules as MapDaily.
func MapSessions(rows [][]string) []JobSession {
	if len(rows) == 0 {
		return []JobSession{}
	}

	cols := indexHeader(rows[0])
	out := make([]JobSession, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, JobSession{
			SessionID:       cols.integer(row, "session_id"),
			SessionStart:    cols.str(row, "session_start"),
			StartDate:       cols.str(row, "start_date"),
			StartHour:       cols.integer(row, "start_hour"),
			MaterialType:    cols.str(row, "material_type"),
			MaterialColor:   cols.str(row, "material_color"),
			Status:          cols.str(row, "status"),
			DurationMinutes: cols.real(row, "duration_minutes"),
			JobCount:        cols.integer(row, "job_count"),
		})
	}

	return out
}

// header maps column names to their position in the header row. Lookups for
// unknown names or positions past a short row yield the empty string.
type header map[string]int

func indexHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		h[name] = i
	}
	return h
}

func (h header) str(row []string, name string) string {
	idx, ok := h[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func (h header) integer(row []string, name string) int {
	v, err := strconv.Atoi(h.str(row, name))
	if err != nil {
		return 0
	}
	return v
}

func (h header) real(row []string, name string) float64 {
	v, err := strconv.ParseFloat(h.str(row, name), 64)
	if err != nil {
		return 0
	}
	return v
}
