// Package queue provides the Redis-backed queue for report-export tasks.
package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	taskHashKey = "export_tasks"
	scheduleKey = "export_schedule"
)

type Queue struct {
	client *redis.Client
	ctx    context.Context
}

func NewQueue(redisAddr string) (*Queue, error) {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Queue{
		client: client,
		ctx:    ctx,
	}, nil
}

// Enqueue stores the task and schedules it by its ScheduledAt instant.
func (q *Queue) Enqueue(task *Task) error {
	taskJSON, err := task.ToJSON()
	if err != nil {
		return err
	}

	if err := q.client.HSet(q.ctx, taskHashKey, task.ID, taskJSON).Err(); err != nil {
		return err
	}

	return q.client.ZAdd(q.ctx, scheduleKey, redis.Z{
		Score:  float64(task.ScheduledAt.Unix()),
		Member: task.ID,
	}).Err()
}

// Dequeue pops the oldest task whose scheduled time has passed, or nil when
// nothing is due.
func (q *Queue) Dequeue() (*Task, error) {
	maxScore := fmt.Sprintf("%d", time.Now().Unix())

	results, err := q.client.ZRangeByScore(q.ctx, scheduleKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   maxScore,
		Count: 1,
	}).Result()

	if err != nil || len(results) == 0 {
		return nil, err
	}

	taskID := results[0]

	q.client.ZRem(q.ctx, scheduleKey, taskID)

	taskJSON, err := q.client.HGet(q.ctx, taskHashKey, taskID).Result()
	if err != nil {
		return nil, err
	}

	return TaskFromJSON(taskJSON)
}

func (q *Queue) UpdateTask(task *Task) error {
	taskJSON, err := task.ToJSON()
	if err != nil {
		return err
	}
	return q.client.HSet(q.ctx, taskHashKey, task.ID, taskJSON).Err()
}

func (q *Queue) GetTask(taskID string) (*Task, error) {
	taskJSON, err := q.client.HGet(q.ctx, taskHashKey, taskID).Result()
	if err != nil {
		return nil, err
	}
	return TaskFromJSON(taskJSON)
}

func (q *Queue) GetAllTasks() ([]*Task, error) {
	taskMap, err := q.client.HGetAll(q.ctx, taskHashKey).Result()
	if err != nil {
		return nil, err
	}

	tasks := make([]*Task, 0, len(taskMap))
	for _, taskJSON := range taskMap {
		task, err := TaskFromJSON(taskJSON)
		if err != nil {
			continue
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func (q *Queue) Close() error {
	return q.client.Close()
}
