// Package record defines the typed rows loaded from the two tabular sources
// and the header-driven mapping that produces them.
package record

// Session status values carried by the source data. Values outside this set
// pass through unchanged; the boundary is deliberately permissive.
const (
	StatusCompleted  = "Completed"
	StatusIncomplete = "Incomplete"
	StatusInProgress = "In Progress"
)

// DailyAggregate is one row of machine activity for a calendar day. Dates
// stay as raw strings; unparsable dates are only dropped when a time window
// is applied, never at mapping time.
type DailyAggregate struct {
	Date                 string  `json:"date"`
	TotalSessions        int     `json:"total_sessions"`
	TotalDurationMinutes float64 `json:"total_duration_minutes"`
	AvgDurationMinutes   float64 `json:"avg_duration_minutes"`
	CompletedSessions    int     `json:"completed_sessions"`
	MaterialTypes        int     `json:"material_types"`
	SuccessRate          float64 `json:"success_rate"`
	UtilizationHours     float64 `json:"utilization_hours"`
	TotalJobs            int     `json:"total_jobs"`
}

// JobSession is one individual manufacturing job. SessionStart is optional;
// consumers fall back to StartDate when it is absent.
type JobSession struct {
	SessionID       int     `json:"session_id"`
	SessionStart    string  `json:"session_start,omitempty"`
	StartDate       string  `json:"start_date"`
	StartHour       int     `json:"start_hour"`
	MaterialType    string  `json:"material_type,omitempty"`
	MaterialColor   string  `json:"material_color,omitempty"`
	Status          string  `json:"status"`
	DurationMinutes float64 `json:"duration_minutes"`
	JobCount        int     `json:"job_count"`
}
