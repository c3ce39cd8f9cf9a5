package worker

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dentalab/milldash/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestWorker(t *testing.T) (*Worker, *queue.Queue, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	q, err := queue.NewQueue(mr.Addr())
	require.NoError(t, err)

	w := NewWorker("test-worker", q)
	w.SetPollInterval(10 * time.Millisecond)

	return w, q, mr
}

func TestRegisterHandler(t *testing.T) {
	w, q, mr := setupTestWorker(t)
	defer mr.Close()
	defer func() { _ = q.Close() }()

	w.RegisterHandler(queue.TypeExportReport, func(t *queue.Task) error { return nil })

	assert.Contains(t, w.handlers, queue.TypeExportReport)
}

func TestProcessTask_Success(t *testing.T) {
	w, q, mr := setupTestWorker(t)
	defer mr.Close()
	defer func() { _ = q.Close() }()

	handled := false
	w.RegisterHandler(queue.TypeExportReport, func(task *queue.Task) error {
		handled = true
		task.OutputFile = "/reports/out.csv"
		return nil
	})

	task := queue.NewTask(queue.TypeExportReport, map[string]any{"range": "daily"})
	require.NoError(t, q.Enqueue(task))

	dequeued, err := q.Dequeue()
	require.NoError(t, err)
	w.processTask(dequeued)

	assert.True(t, handled)

	stored, err := q.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, queue.StatusCompleted, stored.Status)
	assert.Equal(t, "/reports/out.csv", stored.OutputFile)
	assert.NotNil(t, stored.StartedAt)
	assert.NotNil(t, stored.CompletedAt)
}

func TestProcessTask_NoHandler(t *testing.T) {
	w, q, mr := setupTestWorker(t)
	defer mr.Close()
	defer func() { _ = q.Close() }()

	task := queue.NewTask("unknown_type", nil)
	require.NoError(t, q.Enqueue(task))

	dequeued, err := q.Dequeue()
	require.NoError(t, err)
	w.processTask(dequeued)

	stored, err := q.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, queue.StatusFailed, stored.Status)
	assert.Contains(t, stored.Error, "no handler")
}

func TestProcessTask_RetryOnFailure(t *testing.T) {
	w, q, mr := setupTestWorker(t)
	defer mr.Close()
	defer func() { _ = q.Close() }()

	w.RegisterHandler(queue.TypeExportReport, func(task *queue.Task) error {
		return errors.New("boom")
	})

	task := queue.NewTask(queue.TypeExportReport, nil)
	require.NoError(t, q.Enqueue(task))

	dequeued, err := q.Dequeue()
	require.NoError(t, err)
	w.processTask(dequeued)

	stored, err := q.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, queue.StatusPending, stored.Status)
	assert.Equal(t, 1, stored.Retries)
	assert.True(t, stored.ScheduledAt.After(time.Now()))
}

func TestProcessTask_FailsPermanentlyAfterMaxRetries(t *testing.T) {
	w, q, mr := setupTestWorker(t)
	defer mr.Close()
	defer func() { _ = q.Close() }()

	w.RegisterHandler(queue.TypeExportReport, func(task *queue.Task) error {
		return errors.New("boom")
	})

	task := queue.NewTask(queue.TypeExportReport, nil)
	task.Retries = task.MaxRetries - 1
	require.NoError(t, q.Enqueue(task))

	dequeued, err := q.Dequeue()
	require.NoError(t, err)
	w.processTask(dequeued)

	stored, err := q.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, queue.StatusFailed, stored.Status)
	assert.Equal(t, "boom", stored.Error)
}

func TestStartAndStop(t *testing.T) {
	w, q, mr := setupTestWorker(t)
	defer mr.Close()
	defer func() { _ = q.Close() }()

	done := make(chan struct{})
	w.RegisterHandler(queue.TypeExportReport, func(task *queue.Task) error {
		close(done)
		return nil
	})

	task := queue.NewTask(queue.TypeExportReport, nil)
	require.NoError(t, q.Enqueue(task))

	go w.Start()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task was not processed")
	}

	w.Stop()
}
