package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dentalab/milldash/internal/queue"
	"github.com/dentalab/milldash/internal/source"
	"github.com/dentalab/milldash/internal/worker"
	"github.com/dentalab/milldash/internal/worker/handlers"
)

func main() {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		log.Fatal("REDIS_ADDR is required")
	}

	q, err := queue.NewQueue(redisAddr)
	if err != nil {
		log.Fatal(err)
	}

	defer func() {
		if err := q.Close(); err != nil {
			log.Printf("failed to close worker queue: %v", err)
		}
	}()

	store := source.NewStore(os.Getenv("DAILY_STATS_URL"), os.Getenv("SESSIONS_URL"))
	if err := store.Load(context.Background()); err != nil {
		log.Printf("continuing with sample data: %v", err)
	}

	reportsDir := os.Getenv("REPORTS_DIR")
	if reportsDir == "" {
		reportsDir = "./reports"
	}

	workerID := os.Getenv("WORKER_ID")
	if workerID == "" {
		workerID = fmt.Sprintf("worker-%d", time.Now().Unix())
	}

	w := worker.NewWorker(workerID, q)

	exporter := handlers.NewReportExporter(store, reportsDir)
	w.RegisterHandler(queue.TypeExportReport, exporter.ExportReportHandler)

	go w.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down worker...")
	w.Stop()
}
