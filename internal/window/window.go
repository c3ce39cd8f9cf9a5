// Package window computes lookback windows and bucket keys for the
// supported chart granularities.
package window

import (
	"fmt"
	"strings"
	"time"
)

type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

// ParseGranularity validates a raw range value from a request or payload.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case Daily, Weekly, Monthly, Yearly:
		return g, nil
	default:
		return "", fmt.Errorf("unknown granularity %q (available: daily, weekly, monthly, yearly)", s)
	}
}

// Window is the inclusive [Start, End] range records must fall in, plus the
// bucketing key used for chart grouping.
type Window struct {
	Start time.Time
	End   time.Time

	granularity Granularity
}

// Compute builds the lookback window for a granularity, measured from now:
// 30 days for daily, 12 weeks for weekly, 12 months for monthly, 5 years
// for yearly.
func Compute(g Granularity, now time.Time) Window {
	w := Window{End: now, granularity: g}
	switch g {
	case Weekly:
		w.Start = now.AddDate(0, 0, -12*7)
	case Monthly:
		w.Start = now.AddDate(0, -12, 0)
	case Yearly:
		w.Start = now.AddDate(-5, 0, 0)
	default:
		w.Start = now.AddDate(0, 0, -30)
	}

	return w
}

// Contains reports whether t falls inside the window, bounds inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Bucket returns the chart label for t plus the period start backing it.
// Labels like "Jan 02" do not sort chronologically as strings, so callers
// must order buckets by the returned start instant, not the label.
func (w Window) Bucket(t time.Time) (string, time.Time) {
	switch w.granularity {
	case Weekly:
		start := startOfWeek(t)
		return start.Format("Jan 02"), start
	case Monthly:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		return start.Format("Jan 2006"), start
	case Yearly:
		start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
		return start.Format("2006"), start
	default:
		day := startOfDay(t)
		return day.Format("Jan 02"), day
	}
}

// startOfWeek truncates to midnight of the preceding Sunday.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses the date and timestamp layouts carried by the sources.
// The second return is false for values no layout accepts; callers treat
// those records as outside every window rather than defaulting them.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
