package main

import (
	"log"
	"time"

	"github.com/dentalab/milldash/internal/metrics"
	"github.com/dentalab/milldash/internal/queue"
	"github.com/dentalab/milldash/internal/source"
)

func startMetricsCollector(store *source.Store, q *queue.Queue) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		updateSnapshotMetrics(store)
		if q != nil {
			updateQueueMetrics(q)
		}
	}
}

func updateSnapshotMetrics(store *source.Store) {
	snap := store.Snapshot()
	metrics.UpdateSnapshot(len(snap.Daily), len(snap.Sessions), snap.Fallback, time.Since(snap.LoadedAt))
}

func updateQueueMetrics(q *queue.Queue) {
	tasks, err := q.GetAllTasks()
	if err != nil {
		log.Printf("Failed to get tasks for metrics: %v", err)
		return
	}

	pending := 0
	for _, t := range tasks {
		if t.Status == queue.StatusPending {
			pending++
		}
	}

	metrics.UpdateExportQueueDepth(pending)
}
