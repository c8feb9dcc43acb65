package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/resumariner/engine/engine/domain"
)

const (
	keyMain     = "queue:main"
	keyRetries  = "queue:retries"
	keyInFlight = "queue:in_flight"
	keyCleanup  = "queue:cleanup"

	// MaxAttempts is the retry ceiling before a task's failure is surfaced
	// as final. Configurable via WithMaxAttempts.
	MaxAttempts = 3

	backoffBase = 4 * time.Second
	backoffCap  = 60 * time.Second

	// DefaultVisibilityTimeout bounds how long a dequeued task may stay
	// in_flight before CleanupExpired reclaims it.
	DefaultVisibilityTimeout = 10 * time.Minute
)

// Task is the envelope carried through queue:main and queue:retries.
type Task struct {
	TaskID     string    `json:"task_id"`
	JobID      string    `json:"job_id"`
	FilePath   string    `json:"file_path"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

type inFlightRecord struct {
	JobID          string `json:"job_id"`
	StartedAtEpoch int64  `json:"started_at_epoch_ms"`
	Attempts       int    `json:"attempts"`
}

// Queue implements the durable FIFO + retry + in-flight tracking described
// by the job queue encoding: queue:main (list), queue:retries (zset scored
// by next_at_epoch_ms), queue:in_flight (hash), queue:cleanup (list).
type Queue struct {
	rdb               *redis.Client
	maxAttempts       int
	visibilityTimeout time.Duration
	now               func() time.Time
	rand              func() float64
}

// Option configures a Queue.
type Option func(*Queue)

// WithMaxAttempts overrides MaxAttempts.
func WithMaxAttempts(n int) Option {
	return func(q *Queue) { q.maxAttempts = n }
}

// WithVisibilityTimeout overrides DefaultVisibilityTimeout.
func WithVisibilityTimeout(d time.Duration) Option {
	return func(q *Queue) { q.visibilityTimeout = d }
}

// New builds a Queue over an existing Redis client.
func New(rdb *redis.Client, opts ...Option) *Queue {
	q := &Queue{
		rdb:               rdb,
		maxAttempts:       MaxAttempts,
		visibilityTimeout: DefaultVisibilityTimeout,
		now:               time.Now,
		rand:              rand.Float64,
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

// Enqueue creates a task envelope for a job and left-pushes it onto
// queue:main, returning the generated task ID.
func (q *Queue) Enqueue(ctx context.Context, jobID, filePath string) (string, error) {
	task := Task{
		TaskID:     uuid.NewString(),
		JobID:      jobID,
		FilePath:   filePath,
		Attempts:   0,
		EnqueuedAt: q.now().UTC(),
	}
	data, err := json.Marshal(task)
	if err != nil {
		return "", fmt.Errorf("marshal task: %w", err)
	}
	if err := q.rdb.LPush(ctx, keyMain, data).Err(); err != nil {
		return "", domain.NewStoreUnavailable("queue.Queue.Enqueue", jobID, err)
	}
	return task.TaskID, nil
}

// Dequeue blocks up to timeout for a task on queue:main, then atomically
// records it in queue:in_flight before returning it.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Task, error) {
	result, err := q.rdb.BRPop(ctx, timeout, keyMain).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStoreUnavailable("queue.Queue.Dequeue", "", err)
	}
	if len(result) != 2 {
		return nil, fmt.Errorf("queue.Queue.Dequeue: unexpected BRPOP reply %v", result)
	}

	var task Task
	if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
		return nil, fmt.Errorf("unmarshal task: %w", err)
	}

	rec := inFlightRecord{JobID: task.JobID, StartedAtEpoch: q.now().UnixMilli(), Attempts: task.Attempts}
	recData, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal in_flight record: %w", err)
	}
	if err := q.rdb.HSet(ctx, keyInFlight, task.TaskID, recData).Err(); err != nil {
		return nil, domain.NewStoreUnavailable("queue.Queue.Dequeue", task.JobID, err)
	}
	return &task, nil
}

// MarkProcessing refreshes the in-flight record's started_at, extending
// the visibility window for long-running tasks.
func (q *Queue) MarkProcessing(ctx context.Context, taskID string) error {
	raw, err := q.rdb.HGet(ctx, keyInFlight, taskID).Result()
	if err == redis.Nil {
		return domain.NewNotFound("queue.Queue.MarkProcessing", taskID)
	}
	if err != nil {
		return domain.NewStoreUnavailable("queue.Queue.MarkProcessing", taskID, err)
	}
	var rec inFlightRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return fmt.Errorf("unmarshal in_flight record: %w", err)
	}
	rec.StartedAtEpoch = q.now().UnixMilli()
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal in_flight record: %w", err)
	}
	if err := q.rdb.HSet(ctx, keyInFlight, taskID, data).Err(); err != nil {
		return domain.NewStoreUnavailable("queue.Queue.MarkProcessing", taskID, err)
	}
	return nil
}

// MarkCompleted removes a task from in-flight tracking on success.
func (q *Queue) MarkCompleted(ctx context.Context, taskID string) error {
	if err := q.rdb.HDel(ctx, keyInFlight, taskID).Err(); err != nil {
		return domain.NewStoreUnavailable("queue.Queue.MarkCompleted", taskID, err)
	}
	return nil
}

// MarkFailed handles a task failure. When retry is true and attempts
// remain, the task is rescheduled into queue:retries with exponential
// backoff (base 4s, cap 60s, jitter +/-20%); otherwise it is dropped from
// in-flight and the caller should surface a final failure via the job
// store. Non-retryable errors (validation, unsupported file type) should
// be passed with retry=false to bypass the retry path entirely.
func (q *Queue) MarkFailed(ctx context.Context, task *Task, retry bool) error {
	if retry && task.Attempts < q.maxAttempts {
		task.Attempts++
		delay := backoff(task.Attempts, q.rand())
		nextAt := q.now().Add(delay)

		data, err := json.Marshal(task)
		if err != nil {
			return fmt.Errorf("marshal task: %w", err)
		}
		pipe := q.rdb.TxPipeline()
		pipe.ZAdd(ctx, keyRetries, redis.Z{Score: float64(nextAt.UnixMilli()), Member: data})
		pipe.HDel(ctx, keyInFlight, task.TaskID)
		if _, err := pipe.Exec(ctx); err != nil {
			return domain.NewStoreUnavailable("queue.Queue.MarkFailed", task.JobID, err)
		}
		return nil
	}

	if err := q.rdb.HDel(ctx, keyInFlight, task.TaskID).Err(); err != nil {
		return domain.NewStoreUnavailable("queue.Queue.MarkFailed", task.JobID, err)
	}
	return nil
}

// backoff computes the exponential backoff with jitter for a given
// attempt count: base * 2^(attempts-1), capped, then jittered +/-20%.
func backoff(attempts int, r float64) time.Duration {
	d := backoffBase
	for i := 1; i < attempts; i++ {
		d *= 2
		if d > backoffCap {
			d = backoffCap
			break
		}
	}
	jitter := 1 + (r*0.4 - 0.2)
	return time.Duration(float64(d) * jitter)
}

// ProcessRetries moves every queue:retries entry whose score has elapsed
// back onto queue:main, returning the number moved.
func (q *Queue) ProcessRetries(ctx context.Context) (int, error) {
	nowMS := q.now().UnixMilli()
	entries, err := q.rdb.ZRangeByScore(ctx, keyRetries, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", nowMS),
	}).Result()
	if err != nil {
		return 0, domain.NewStoreUnavailable("queue.Queue.ProcessRetries", "", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	pipe := q.rdb.TxPipeline()
	for _, e := range entries {
		pipe.LPush(ctx, keyMain, e)
	}
	pipe.ZRem(ctx, keyRetries, toAnySlice(entries)...)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, domain.NewStoreUnavailable("queue.Queue.ProcessRetries", "", err)
	}
	return len(entries), nil
}

// CleanupExpired scans queue:in_flight for records whose visibility
// timeout has elapsed and requeues them with incremented attempts,
// returning the number reclaimed.
func (q *Queue) CleanupExpired(ctx context.Context) (int, error) {
	all, err := q.rdb.HGetAll(ctx, keyInFlight).Result()
	if err != nil {
		return 0, domain.NewStoreUnavailable("queue.Queue.CleanupExpired", "", err)
	}
	cutoff := q.now().Add(-q.visibilityTimeout).UnixMilli()

	n := 0
	for taskID, raw := range all {
		var rec inFlightRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			continue
		}
		if rec.StartedAtEpoch > cutoff {
			continue
		}

		task := Task{
			TaskID:     uuid.NewString(),
			JobID:      rec.JobID,
			Attempts:   rec.Attempts + 1,
			EnqueuedAt: q.now().UTC(),
		}
		data, err := json.Marshal(task)
		if err != nil {
			continue
		}
		cleanupNote, _ := json.Marshal(map[string]any{"task_id": taskID, "job_id": rec.JobID, "reclaimed_at": q.now().UTC()})

		pipe := q.rdb.TxPipeline()
		pipe.LPush(ctx, keyMain, data)
		pipe.HDel(ctx, keyInFlight, taskID)
		pipe.LPush(ctx, keyCleanup, cleanupNote)
		if _, err := pipe.Exec(ctx); err != nil {
			return n, domain.NewStoreUnavailable("queue.Queue.CleanupExpired", rec.JobID, err)
		}
		n++
	}
	return n, nil
}

func toAnySlice(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
