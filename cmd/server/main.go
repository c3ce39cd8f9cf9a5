package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/dentalab/milldash/internal/api"
	"github.com/dentalab/milldash/internal/metrics"
	"github.com/dentalab/milldash/internal/middleware"
	"github.com/dentalab/milldash/internal/queue"
	"github.com/dentalab/milldash/internal/source"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	dailyURL := os.Getenv("DAILY_STATS_URL")
	sessionsURL := os.Getenv("SESSIONS_URL")

	store := source.NewStore(dailyURL, sessionsURL)
	if err := store.Load(context.Background()); err != nil {
		metrics.RecordSourceLoad("fallback")
	} else {
		metrics.RecordSourceLoad("success")
	}

	var q *queue.Queue
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr != "" {
		var err error
		q, err = queue.NewQueue(redisAddr)
		if err != nil {
			log.Fatal(err)
		}

		defer func() {
			if err := q.Close(); err != nil {
				log.Printf("failed to close server queue: %v", err)
			}
		}()
	} else {
		log.Println("REDIS_ADDR not set, report exports disabled")
	}

	webDir := os.Getenv("WEB_DIR")
	if webDir == "" {
		webDir = "./web"
	}

	apiHandler := api.NewAPI(store, q, webDir)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/", middleware.MetricsMiddleware(apiHandler))

	go startMetricsCollector(store, q)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal(err)
	}
}
