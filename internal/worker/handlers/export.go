// Package handlers provides task handlers for the export worker. Each
// handler implements the business logic for one task type and is registered
// with the worker that drains the queue.
package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dentalab/milldash/internal/analytics"
	"github.com/dentalab/milldash/internal/queue"
	"github.com/dentalab/milldash/internal/source"
	"github.com/dentalab/milldash/internal/window"
)

type ExportPayload struct {
	Range      string `json:"range"`
	Format     string `json:"format"`
	Email      string `json:"email"`
	OutputPath string `json:"output_path"`
}

// ReportExporter renders aggregation reports from the current snapshot.
type ReportExporter struct {
	store      *source.Store
	outputPath string
}

func NewReportExporter(store *source.Store, outputPath string) *ReportExporter {
	return &ReportExporter{store: store, outputPath: outputPath}
}

// ExportReportHandler aggregates the snapshot at the requested granularity
// and writes a CSV or JSON report file. When the payload names an email
// address, a summary is sent once the file exists.
func (re *ReportExporter) ExportReportHandler(t *queue.Task) error {
	payload, err := parsePayload(t.Payload)
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if payload.OutputPath == "" {
		payload.OutputPath = re.outputPath
	}

	granularity, err := window.ParseGranularity(payload.Range)
	if err != nil {
		return fmt.Errorf("invalid time range: %w", err)
	}

	snap := re.store.Snapshot()
	result := analytics.Aggregate(snap.Daily, snap.Sessions, granularity, time.Now())

	log.Printf("[Task %s] Generating %s report (format: %s, %d buckets, %d jobs)",
		t.ID, granularity, payload.Format, len(result.ChartSeries), result.TotalJobs)

	outputFile, err := saveReport(payload, granularity, result)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	t.OutputFile = outputFile

	if payload.Email != "" {
		if err := sendReportEmail(payload.Email, granularity, result, outputFile); err != nil {
			return fmt.Errorf("report saved but email failed: %w", err)
		}
	}

	log.Printf("[Task %s] Report generated successfully: %s", t.ID, outputFile)
	return nil
}

func parsePayload(payload map[string]any) (*ExportPayload, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var ep ExportPayload
	if err := json.Unmarshal(data, &ep); err != nil {
		return nil, err
	}

	if ep.Range == "" {
		return nil, errors.New("missing required field: range")
	}
	if ep.Format == "" {
		ep.Format = "csv"
	}

	return &ep, nil
}

func saveReport(payload *ExportPayload, granularity window.Granularity, result analytics.Result) (string, error) {
	if err := os.MkdirAll(payload.OutputPath, 0755); err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("milldash_%s_%s.%s", granularity, timestamp, payload.Format)
	fullPath := filepath.Join(payload.OutputPath, filename)

	switch payload.Format {
	case "csv":
		return fullPath, saveAsCSV(fullPath, result)
	case "json":
		return fullPath, saveAsJSON(fullPath, result)
	default:
		return "", fmt.Errorf("unsupported format: %s (available: csv, json)", payload.Format)
	}
}

func saveAsCSV(path string, result analytics.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if fileErr := file.Close(); fileErr != nil {
			log.Printf("failed to close file: %v", fileErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	rows := [][]string{
		{"Period", "Jobs", "Success Rate (%)", "Utilization (h)"},
	}
	for _, point := range result.ChartSeries {
		rows = append(rows, []string{
			point.Bucket,
			strconv.Itoa(point.Jobs),
			fmt.Sprintf("%.1f", point.SuccessRate),
			fmt.Sprintf("%.1f", point.Utilization),
		})
	}

	return writer.WriteAll(rows)
}

func saveAsJSON(path string, result analytics.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if fileErr := file.Close(); fileErr != nil {
			log.Printf("failed to close file: %v", fileErr)
		}
	}()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]any{
		"generated_at": time.Now().Format(time.RFC3339),
		"report":       result,
	})
}
