package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/dentalab/milldash/internal/dashboard"
	"github.com/dentalab/milldash/internal/httputil"
	"github.com/dentalab/milldash/internal/metrics"
	"github.com/dentalab/milldash/internal/queue"
	"github.com/dentalab/milldash/internal/source"
	"github.com/dentalab/milldash/internal/window"
)

type API struct {
	store  *source.Store
	queue  *queue.Queue
	mux    *http.ServeMux
	webDir string
}

type CreateExportRequest struct {
	Range  string `json:"range"`
	Format string `json:"format"`
	Email  string `json:"email"`
}

// NewAPI wires the HTTP surface. The queue may be nil when no Redis is
// configured, in which case export endpoints answer 503.
func NewAPI(store *source.Store, q *queue.Queue, webDir string) *API {
	api := &API{
		store:  store,
		queue:  q,
		mux:    http.NewServeMux(),
		webDir: webDir,
	}

	api.setupRoutes()
	return api
}

func (a *API) setupRoutes() {
	dash := dashboard.NewDashboard(a.store)
	a.mux.HandleFunc("/api/dashboard/analytics", dash.GetAnalytics)
	a.mux.HandleFunc("/api/dashboard/jobs", dash.GetJobs)
	a.mux.HandleFunc("/api/dashboard/sources", dash.GetSources)

	a.mux.HandleFunc("/api/reload", a.handleReload)
	a.mux.HandleFunc("/api/exports", a.handleExports)
	a.mux.HandleFunc("/api/exports/", a.handleExportByID)

	fs := http.FileServer(http.Dir(a.webDir))
	a.mux.Handle("/", fs)
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

func (a *API) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := a.store.Load(r.Context()); err != nil {
		metrics.RecordSourceLoad("fallback")
	} else {
		metrics.RecordSourceLoad("success")
	}

	snap := a.store.Snapshot()
	httputil.WriteJSON(w, http.StatusOK, dashboard.SourceStatus{
		Fallback:     snap.Fallback,
		LoadedAt:     snap.LoadedAt,
		DailyRecords: len(snap.Daily),
		Sessions:     len(snap.Sessions),
	})
}

func (a *API) handleExports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createExport(w, r)
	case http.MethodGet:
		a.listExports(w, r)
	default:
		httputil.WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (a *API) createExport(w http.ResponseWriter, r *http.Request) {
	if a.queue == nil {
		httputil.WriteJSONError(w, "Export queue is not configured", http.StatusServiceUnavailable)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.WriteJSONError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("failed to close request body: %v", err)
		}
	}()

	var req CreateExportRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httputil.WriteJSONError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if _, err := window.ParseGranularity(req.Range); err != nil {
		httputil.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	format := req.Format
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		httputil.WriteJSONError(w, "Unsupported format: "+format, http.StatusBadRequest)
		return
	}

	task := queue.NewTask(queue.TypeExportReport, map[string]any{
		"range":  req.Range,
		"format": format,
		"email":  req.Email,
	})

	if err := a.queue.Enqueue(task); err != nil {
		httputil.WriteJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	metrics.RecordExportEnqueued(format)
	httputil.WriteJSON(w, http.StatusCreated, task)
}

func (a *API) listExports(w http.ResponseWriter, _ *http.Request) {
	if a.queue == nil {
		httputil.WriteJSONError(w, "Export queue is not configured", http.StatusServiceUnavailable)
		return
	}

	tasks, err := a.queue.GetAllTasks()
	if err != nil {
		httputil.WriteJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, tasks)
}

func (a *API) handleExportByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if a.queue == nil {
		httputil.WriteJSONError(w, "Export queue is not configured", http.StatusServiceUnavailable)
		return
	}

	taskID := strings.TrimPrefix(r.URL.Path, "/api/exports/")
	if taskID == "" {
		httputil.WriteJSONError(w, "Export ID is required", http.StatusBadRequest)
		return
	}

	task, err := a.queue.GetTask(taskID)
	if err != nil {
		httputil.WriteJSONError(w, "Export not found", http.StatusNotFound)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, task)
}
