// Package dashboard implements the JSON endpoints behind the analytics and
// job-listing views.
package dashboard

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dentalab/milldash/internal/analytics"
	"github.com/dentalab/milldash/internal/httputil"
	"github.com/dentalab/milldash/internal/jobs"
	"github.com/dentalab/milldash/internal/metrics"
	"github.com/dentalab/milldash/internal/source"
	"github.com/dentalab/milldash/internal/window"
)

type Dashboard struct {
	store *source.Store
}

// SourceStatus describes the current snapshot so the UI can surface the
// sample-data notice after a failed source fetch.
type SourceStatus struct {
	Fallback     bool      `json:"fallback"`
	LoadedAt     time.Time `json:"loaded_at"`
	DailyRecords int       `json:"daily_records"`
	Sessions     int       `json:"sessions"`
}

func NewDashboard(store *source.Store) *Dashboard {
	return &Dashboard{store: store}
}

// GetAnalytics runs one aggregation pass over the current snapshot for the
// requested range (default daily) and returns the full dashboard result.
func (d *Dashboard) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	granularity := window.Daily
	if raw := r.URL.Query().Get("range"); raw != "" {
		parsed, err := window.ParseGranularity(raw)
		if err != nil {
			httputil.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		granularity = parsed
	}

	snap := d.store.Snapshot()

	start := time.Now()
	result := analytics.Aggregate(snap.Daily, snap.Sessions, granularity, time.Now())
	metrics.RecordAggregation(string(granularity), time.Since(start))

	httputil.WriteJSON(w, http.StatusOK, result)
}

// GetJobs serves the filtered, sorted, paginated job listing.
func (d *Dashboard) GetJobs(w http.ResponseWriter, r *http.Request) {
	query := jobs.Query{
		Search:   r.URL.Query().Get("search"),
		Status:   r.URL.Query().Get("status"),
		Material: r.URL.Query().Get("material"),
		SortBy:   r.URL.Query().Get("sort"),
		SortDesc: r.URL.Query().Get("order") == "desc",
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			query.Page = v
		}
	}
	if raw := r.URL.Query().Get("per_page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			query.PerPage = v
		}
	}

	snap := d.store.Snapshot()
	page := jobs.Apply(snap.Sessions, query)

	httputil.WriteJSON(w, http.StatusOK, page)
}

// GetSources reports snapshot provenance and record counts.
func (d *Dashboard) GetSources(w http.ResponseWriter, _ *http.Request) {
	snap := d.store.Snapshot()

	httputil.WriteJSON(w, http.StatusOK, SourceStatus{
		Fallback:     snap.Fallback,
		LoadedAt:     snap.LoadedAt,
		DailyRecords: len(snap.Daily),
		Sessions:     len(snap.Sessions),
	})
}
