// Package source loads the two tabular documents and owns the in-memory
// snapshot the dashboard serves from. Snapshots are immutable; a reload
// swaps in a fresh one and never mutates records already handed out.
package source

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dentalab/milldash/internal/record"
	"github.com/dentalab/milldash/internal/sample"
)

// Snapshot is one loaded generation of both record sets. Fallback marks
// generated placeholder data installed after a fetch failure.
type Snapshot struct {
	Daily    []record.DailyAggregate
	Sessions []record.JobSession
	Fallback bool
	LoadedAt time.Time
}

// Store fetches the sources and guards the current snapshot. Aggregations
// read a snapshot reference and never re-fetch; only Load touches the
// network or filesystem.
type Store struct {
	dailyURL    string
	sessionsURL string
	client      *http.Client

	mu   sync.RWMutex
	snap Snapshot
}

// NewStore creates a store for the two source locations. Each location is
// either an http(s) URL or a local file path.
func NewStore(dailyURL, sessionsURL string) *Store {
	return &Store{
		dailyURL:    dailyURL,
		sessionsURL: sessionsURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Load fetches both documents and swaps in a fresh snapshot. When either
// fetch fails, generated sample data is installed instead so the dashboard
// always has a renderable result; the returned error carries the failure
// for a single user-visible notice.
func (s *Store) Load(ctx context.Context) error {
	now := time.Now()

	dailyText, err := s.fetch(ctx, s.dailyURL)
	if err == nil {
		var sessionsText string
		sessionsText, err = s.fetch(ctx, s.sessionsURL)
		if err == nil {
			s.swap(Snapshot{
				Daily:    record.ParseDaily(dailyText),
				Sessions: record.ParseSessions(sessionsText),
				LoadedAt: now,
			})
			return nil
		}
	}

	log.Printf("source load failed, serving sample data: %v", err)
	s.swap(Snapshot{
		Daily:    sample.Daily(now),
		Sessions: sample.Sessions(now),
		Fallback: true,
		LoadedAt: now,
	})

	return err
}

// Snapshot returns the current generation. The slices are shared with the
// store; callers treat records as read-only values.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Store) swap(snap Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func (s *Store) fetch(ctx context.Context, location string) (string, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return s.fetchHTTP(ctx, location)
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", location, err)
	}
	return string(data), nil
}

func (s *Store) fetchHTTP(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
