// Package analytics filters the loaded records into a time window and
// reduces them to the single dashboard result the presentation layer
// consumes. Aggregate is a pure function of its inputs; every step over
// zero records degrades to a zero or empty value, never an error.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/dentalab/milldash/internal/record"
	"github.com/dentalab/milldash/internal/window"
)

const (
	recentSessionLimit = 10

	// Hour reported when no session carries one. Mid-morning is the
	// machines' typical busiest slot.
	defaultPeakHour = 9
)

// Result is the output of one aggregation pass.
//
// SuccessRate is the session-level rate at full precision; the per-bucket
// rate in ChartSeries comes from the daily aggregates and is rounded to one
// decimal. They answer different questions and stay separate fields.
type Result struct {
	TotalJobs         int                 `json:"total_jobs"`
	SuccessRate       float64             `json:"success_rate"`
	UtilizationHours  float64             `json:"utilization_hours"`
	MaterialTypes     int                 `json:"material_types"`
	AvgDuration       float64             `json:"avg_duration_minutes"`
	PeakHour          int                 `json:"peak_hour"`
	PeakHourCount     int                 `json:"peak_hour_count"`
	ErrorCount        int                 `json:"error_count"`
	ChartSeries       []ChartPoint        `json:"chart_series"`
	MaterialBreakdown []MaterialCount     `json:"material_breakdown"`
	RecentSessions    []record.JobSession `json:"recent_sessions"`
}

// ChartPoint is one period bucket of the chart series.
type ChartPoint struct {
	Bucket      string  `json:"bucket"`
	Jobs        int     `json:"jobs"`
	SuccessRate float64 `json:"success_rate"`
	Utilization float64 `json:"utilization"`
}

// MaterialCount is one entry of the material breakdown with its assigned
// display color.
type MaterialCount struct {
	Material string `json:"material"`
	Count    int    `json:"count"`
	Color    string `json:"color"`
}

type datedDaily struct {
	rec  record.DailyAggregate
	date time.Time
}

type datedSession struct {
	rec record.JobSession
	// effective is SessionStart when parsable, StartDate otherwise; it
	// orders the recent-sessions list.
	effective time.Time
}

// Aggregate filters both record sets into the lookback window for the
// granularity and computes the dashboard result. now is injected so callers
// own the reference instant.
func Aggregate(daily []record.DailyAggregate, sessions []record.JobSession, g window.Granularity, now time.Time) Result {
	win := window.Compute(g, now)
	filteredDaily := filterDaily(daily, win)
	filteredSessions := filterSessions(sessions, win)

	res := Result{
		PeakHour:         defaultPeakHour,
		TotalJobs:        len(filteredSessions),
		ChartSeries:      bucketDaily(filteredDaily, win),
		UtilizationHours: sumUtilization(filteredDaily),
	}

	var completed, incomplete int
	var durationSum float64
	for _, s := range filteredSessions {
		switch s.rec.Status {
		case record.StatusCompleted:
			completed++
		case record.StatusIncomplete:
			incomplete++
		}
		durationSum += s.rec.DurationMinutes
	}
	res.ErrorCount = incomplete
	if res.TotalJobs > 0 {
		res.SuccessRate = 100 * float64(completed) / float64(res.TotalJobs)
		res.AvgDuration = durationSum / float64(res.TotalJobs)
	}

	res.MaterialBreakdown = breakdownMaterials(filteredSessions)
	res.MaterialTypes = len(res.MaterialBreakdown)
	res.PeakHour, res.PeakHourCount = peakHour(filteredSessions)
	res.RecentSessions = recentSessions(filteredSessions)

	return res
}

// filterDaily keeps daily aggregates whose date parses and falls inside the
// window. Unparsable dates are excluded, not defaulted.
func filterDaily(daily []record.DailyAggregate, win window.Window) []datedDaily {
	out := make([]datedDaily, 0, len(daily))
	for _, d := range daily {
		date, ok := window.ParseDate(d.Date)
		if !ok || !win.Contains(date) {
			continue
		}
		out = append(out, datedDaily{rec: d, date: date})
	}
	return out
}

// filterSessions keeps sessions whose start_date parses and falls inside
// the window, and computes each survivor's effective timestamp.
func filterSessions(sessions []record.JobSession, win window.Window) []datedSession {
	out := make([]datedSession, 0, len(sessions))
	for _, s := range sessions {
		date, ok := window.ParseDate(s.StartDate)
		if !ok || !win.Contains(date) {
			continue
		}
		effective := date
		if ts, ok := window.ParseDate(s.SessionStart); ok {
			effective = ts
		}
		out = append(out, datedSession{rec: s, effective: effective})
	}
	return out
}

// bucketDaily groups filtered daily aggregates by the window's bucket key
// and emits one chart point per bucket in chronological order. Per-bucket
// jobs are summed total_sessions; the success rate is completed over jobs
// and both rate and utilization are rounded to one decimal.
func bucketDaily(daily []datedDaily, win window.Window) []ChartPoint {
	type bucket struct {
		start       time.Time
		jobs        int
		completed   int
		utilization float64
	}

	buckets := make(map[string]*bucket)
	for _, d := range daily {
		label, start := win.Bucket(d.date)
		b, ok := buckets[label]
		if !ok {
			b = &bucket{start: start}
			buckets[label] = b
		}
		b.jobs += d.rec.TotalSessions
		b.completed += d.rec.CompletedSessions
		b.utilization += d.rec.UtilizationHours
	}

	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	// Formatted labels do not sort chronologically; order by period start.
	sort.Slice(labels, func(i, j int) bool {
		return buckets[labels[i]].start.Before(buckets[labels[j]].start)
	})

	points := make([]ChartPoint, 0, len(labels))
	for _, label := range labels {
		b := buckets[label]
		var rate float64
		if b.jobs > 0 {
			rate = round1(100 * float64(b.completed) / float64(b.jobs))
		}
		points = append(points, ChartPoint{
			Bucket:      label,
			Jobs:        b.jobs,
			SuccessRate: rate,
			Utilization: round1(b.utilization),
		})
	}

	return points
}

func sumUtilization(daily []datedDaily) float64 {
	var total float64
	for _, d := range daily {
		total += d.rec.UtilizationHours
	}
	return total
}

// breakdownMaterials counts sessions per non-empty material type, sorted
// descending by count. Ties keep first-encountered order. Sessions without
// a material still count toward totals elsewhere but are absent here.
func breakdownMaterials(sessions []datedSession) []MaterialCount {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, s := range sessions {
		material := s.rec.MaterialType
		if material == "" {
			continue
		}
		if _, seen := counts[material]; !seen {
			order = append(order, material)
		}
		counts[material]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	breakdown := make([]MaterialCount, 0, len(order))
	for _, material := range order {
		breakdown = append(breakdown, MaterialCount{
			Material: material,
			Count:    counts[material],
			Color:    materialColor(material),
		})
	}

	return breakdown
}

// peakHour picks the start hour with the most sessions. Ties break toward
// the lowest hour; with no sessions at all the default hour reports with
// count zero.
func peakHour(sessions []datedSession) (int, int) {
	counts := make(map[int]int)
	for _, s := range sessions {
		counts[s.rec.StartHour]++
	}

	hour, best := defaultPeakHour, 0
	for h := 0; h <= 23; h++ {
		if counts[h] > best {
			hour, best = h, counts[h]
		}
	}

	return hour, best
}

// recentSessions returns the newest sessions by effective timestamp, capped.
func recentSessions(sessions []datedSession) []record.JobSession {
	ordered := make([]datedSession, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].effective.After(ordered[j].effective)
	})

	limit := min(len(ordered), recentSessionLimit)
	recent := make([]record.JobSession, 0, limit)
	for _, s := range ordered[:limit] {
		recent = append(recent, s.rec)
	}

	return recent
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
