// Package metrics provides Prometheus metrics for the analytics service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SourceLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milldash_source_loads_total",
			Help: "Total number of source load attempts by outcome",
		},
		[]string{"outcome"},
	)
	RecordsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "milldash_records_loaded",
			Help: "Number of records in the current snapshot by source",
		},
		[]string{"source"},
	)
	SnapshotFallback = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "milldash_snapshot_fallback",
			Help: "Whether the current snapshot is generated sample data (1) or real source data (0)",
		},
	)
	SnapshotAgeSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "milldash_snapshot_age_seconds",
			Help: "Age of the current snapshot in seconds",
		},
	)
	AggregationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milldash_aggregations_total",
			Help: "Total number of aggregation passes by granularity",
		},
		[]string{"range"},
	)
	AggregationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "milldash_aggregation_duration_seconds",
			Help:    "Aggregation pass duration in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"range"},
	)
	ExportsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milldash_exports_enqueued_total",
			Help: "Total number of report exports enqueued by format",
		},
		[]string{"format"},
	)
	ExportsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milldash_exports_completed_total",
			Help: "Total number of export tasks completed successfully",
		},
		[]string{"type"},
	)
	ExportsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milldash_exports_failed_total",
			Help: "Total number of export tasks that failed permanently",
		},
		[]string{"type"},
	)
	ExportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "milldash_export_duration_seconds",
			Help:    "Export task execution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)
	ExportQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "milldash_export_queue_depth",
			Help: "Current number of pending export tasks",
		},
	)
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "milldash_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "milldash_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

func RecordSourceLoad(outcome string) {
	SourceLoads.WithLabelValues(outcome).Inc()
}

func UpdateSnapshot(dailyRecords, sessionRecords int, fallback bool, age time.Duration) {
	RecordsLoaded.WithLabelValues("daily").Set(float64(dailyRecords))
	RecordsLoaded.WithLabelValues("sessions").Set(float64(sessionRecords))
	if fallback {
		SnapshotFallback.Set(1)
	} else {
		SnapshotFallback.Set(0)
	}
	SnapshotAgeSeconds.Set(age.Seconds())
}

func RecordAggregation(granularity string, duration time.Duration) {
	AggregationsTotal.WithLabelValues(granularity).Inc()
	AggregationDuration.WithLabelValues(granularity).Observe(duration.Seconds())
}

func RecordExportEnqueued(format string) {
	ExportsEnqueued.WithLabelValues(format).Inc()
}

func RecordExportCompleted(taskType string, duration time.Duration) {
	ExportsCompleted.WithLabelValues(taskType).Inc()
	ExportDuration.WithLabelValues(taskType).Observe(duration.Seconds())
}

func RecordExportFailed(taskType string) {
	ExportsFailed.WithLabelValues(taskType).Inc()
}

func UpdateExportQueueDepth(depth int) {
	ExportQueueDepth.Set(float64(depth))
}

func RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
