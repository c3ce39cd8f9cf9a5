// Package jobs implements the job-listing view's filter, sort, and
// pagination as a pure function over the loaded sessions. Query parameters
// are explicit and immutable; every call returns a fresh page slice and
// never touches shared state.
package jobs

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dentalab/milldash/internal/record"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// Query carries the jobs-view parameters for one invocation.
type Query struct {
	Search   string
	Status   string
	Material string
	SortBy   string
	SortDesc bool
	Page     int
	PerPage  int
}

// Page is one slice of the filtered, sorted job listing.
type Page struct {
	Items      []record.JobSession `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PerPage    int                 `json:"per_page"`
	TotalPages int                 `json:"total_pages"`
}

// Apply filters sessions by the query, sorts them, and returns the
// requested page. The input slice is never modified.
func Apply(sessions []record.JobSession, q Query) Page {
	filtered := filter(sessions, q)
	sortSessions(filtered, q)

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	total := len(filtered)
	totalPages := (total + perPage - 1) / perPage

	page := q.Page
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := min(start+perPage, total)
	if start > total {
		start = total
	}

	items := make([]record.JobSession, end-start)
	copy(items, filtered[start:end])

	return Page{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}

func filter(sessions []record.JobSession, q Query) []record.JobSession {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]record.JobSession, 0, len(sessions))
	for _, s := range sessions {
		if q.Status != "" && s.Status != q.Status {
			continue
		}
		if q.Material != "" && s.MaterialType != q.Material {
			continue
		}
		if search != "" && !matchesSearch(s, search) {
			continue
		}
		out = append(out, s)
	}

	return out
}

func matchesSearch(s record.JobSession, search string) bool {
	for _, field := range []string{
		strconv.Itoa(s.SessionID),
		s.MaterialType,
		s.MaterialColor,
		s.Status,
		s.StartDate,
	} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// sortSessions orders the filtered slice in place. ISO start dates compare
// correctly as strings, so "date" works without parsing.
func sortSessions(sessions []record.JobSession, q Query) {
	var less func(a, b record.JobSession) bool

	switch q.SortBy {
	case "date":
		less = func(a, b record.JobSession) bool { return a.StartDate < b.StartDate }
	case "duration":
		less = func(a, b record.JobSession) bool { return a.DurationMinutes < b.DurationMinutes }
	case "material":
		less = func(a, b record.JobSession) bool { return a.MaterialType < b.MaterialType }
	case "status":
		less = func(a, b record.JobSession) bool { return a.Status < b.Status }
	default:
		less = func(a, b record.JobSession) bool { return a.SessionID < b.SessionID }
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		if q.SortDesc {
			return less(sessions[j], sessions[i])
		}
		return less(sessions[i], sessions[j])
	})
}
