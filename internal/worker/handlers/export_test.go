package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dentalab/milldash/internal/queue"
	"github.com/dentalab/milldash/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The handler aggregates at time.Now(), so test data has to sit inside the
// lookback window.
var yesterday = time.Now().AddDate(0, 0, -1)

func setupExporter(t *testing.T) *ReportExporter {
	date := yesterday.Format("2006-01-02")
	dailyCSV := "date,total_sessions,completed_sessions,utilization_hours\n" +
		date + ",10,9,2.0"
	sessionsCSV := "session_id,start_date,start_hour,material_type,status,duration_minutes\n" +
		"1," + date + ",9,Zirconia,Completed,40"

	dir := t.TempDir()
	dailyPath := filepath.Join(dir, "daily.csv")
	sessionsPath := filepath.Join(dir, "sessions.csv")
	require.NoError(t, os.WriteFile(dailyPath, []byte(dailyCSV), 0o644))
	require.NoError(t, os.WriteFile(sessionsPath, []byte(sessionsCSV), 0o644))

	store := source.NewStore(dailyPath, sessionsPath)
	require.NoError(t, store.Load(context.Background()))

	return NewReportExporter(store, filepath.Join(dir, "reports"))
}

func TestExportReportHandler_CSV(t *testing.T) {
	exporter := setupExporter(t)

	task := queue.NewTask(queue.TypeExportReport, map[string]any{
		"range":  "daily",
		"format": "csv",
	})

	require.NoError(t, exporter.ExportReportHandler(task))
	require.NotEmpty(t, task.OutputFile)

	file, err := os.Open(task.OutputFile)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Period", "Jobs", "Success Rate (%)", "Utilization (h)"}, rows[0])
	assert.Equal(t, []string{yesterday.Format("Jan 02"), "10", "90.0", "2.0"}, rows[1])
}

func TestExportReportHandler_JSON(t *testing.T) {
	exporter := setupExporter(t)

	task := queue.NewTask(queue.TypeExportReport, map[string]any{
		"range":  "weekly",
		"format": "json",
	})

	require.NoError(t, exporter.ExportReportHandler(task))

	data, err := os.ReadFile(task.OutputFile)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "generated_at")
	assert.Contains(t, decoded, "report")
}

func TestExportReportHandler_DefaultsToCSV(t *testing.T) {
	exporter := setupExporter(t)

	task := queue.NewTask(queue.TypeExportReport, map[string]any{"range": "daily"})

	require.NoError(t, exporter.ExportReportHandler(task))
	assert.Equal(t, ".csv", filepath.Ext(task.OutputFile))
}

func TestExportReportHandler_MissingRange(t *testing.T) {
	exporter := setupExporter(t)

	task := queue.NewTask(queue.TypeExportReport, map[string]any{"format": "csv"})

	assert.Error(t, exporter.ExportReportHandler(task))
}

func TestExportReportHandler_InvalidRange(t *testing.T) {
	exporter := setupExporter(t)

	task := queue.NewTask(queue.TypeExportReport, map[string]any{"range": "hourly"})

	assert.Error(t, exporter.ExportReportHandler(task))
}

func TestExportReportHandler_UnsupportedFormat(t *testing.T) {
	exporter := setupExporter(t)

	task := queue.NewTask(queue.TypeExportReport, map[string]any{
		"range":  "daily",
		"format": "xlsx",
	})

	assert.Error(t, exporter.ExportReportHandler(task))
}

func TestParsePayload_Defaults(t *testing.T) {
	payload, err := parsePayload(map[string]any{"range": "monthly"})

	require.NoError(t, err)
	assert.Equal(t, "monthly", payload.Range)
	assert.Equal(t, "csv", payload.Format)
	assert.Empty(t, payload.Email)
}
