// Package queue implements the job record store and the durable FIFO/retry
// queue backed by Redis, per the job lifecycle pending -> processing ->
// (completed | failed).
package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/resumariner/engine/engine/domain"
)

const jobKeyPrefix = "jobs:"

// JobStore persists Job records as Redis hashes at jobs:{job_id}, with a
// TTL equal to the configured retention window applied on every write.
type JobStore struct {
	rdb       *redis.Client
	retention time.Duration
	now       func() time.Time
}

// NewJobStore builds a JobStore. retention is the TTL applied to every job
// hash write (spec default 30 days).
func NewJobStore(rdb *redis.Client, retention time.Duration) *JobStore {
	return &JobStore{rdb: rdb, retention: retention, now: time.Now}
}

func jobKey(jobID string) string {
	return jobKeyPrefix + jobID
}

// Create writes a new job in pending status and returns it. reviewRequested
// records whether the optional Reviewer stage (§4.G) should run for this job.
func (s *JobStore) Create(ctx context.Context, jobID, filePath string, reviewRequested bool) (domain.Job, error) {
	now := s.now().UTC()
	job := domain.Job{
		JobID:           jobID,
		Status:          domain.JobPending,
		FilePath:        filePath,
		ReviewRequested: reviewRequested,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.write(ctx, job); err != nil {
		return domain.Job{}, domain.NewStoreUnavailable("queue.JobStore.Create", jobID, err)
	}
	return job, nil
}

// Get fetches a job by ID. ok is false if the key doesn't exist or has
// expired, without that being an error.
func (s *JobStore) Get(ctx context.Context, jobID string) (domain.Job, bool, error) {
	fields, err := s.rdb.HGetAll(ctx, jobKey(jobID)).Result()
	if err != nil {
		return domain.Job{}, false, domain.NewStoreUnavailable("queue.JobStore.Get", jobID, err)
	}
	if len(fields) == 0 {
		return domain.Job{}, false, nil
	}
	job, err := fromFields(fields)
	if err != nil {
		return domain.Job{}, false, domain.NewStoreUnavailable("queue.JobStore.Get", jobID, err)
	}
	return job, true, nil
}

// JobPatch carries the subset of job fields an Update call may change.
type JobPatch struct {
	Status    *domain.JobStatus
	Result    *string
	ResultURL *string
	Error     *string
}

// Update performs a read-modify-write against the existing job hash,
// refreshing updated_at and reapplying the retention TTL. A missing key
// returns a NotFound taxonomy error (kind domain.ErrNotFound), not a
// StoreUnavailable error.
func (s *JobStore) Update(ctx context.Context, jobID string, patch JobPatch) (domain.Job, error) {
	job, ok, err := s.Get(ctx, jobID)
	if err != nil {
		return domain.Job{}, err
	}
	if !ok {
		return domain.Job{}, domain.NewNotFound("queue.JobStore.Update", jobID)
	}

	if patch.Status != nil {
		job.Status = *patch.Status
	}
	if patch.Result != nil {
		job.Result = *patch.Result
	}
	if patch.ResultURL != nil {
		job.ResultURL = *patch.ResultURL
	}
	if patch.Error != nil {
		job.Error = *patch.Error
	}
	job.UpdatedAt = s.now().UTC()

	if err := s.write(ctx, job); err != nil {
		return domain.Job{}, domain.NewStoreUnavailable("queue.JobStore.Update", jobID, err)
	}
	return job, nil
}

// Delete removes a job record outright, ahead of its TTL.
func (s *JobStore) Delete(ctx context.Context, jobID string) (bool, error) {
	n, err := s.rdb.Del(ctx, jobKey(jobID)).Result()
	if err != nil {
		return false, domain.NewStoreUnavailable("queue.JobStore.Delete", jobID, err)
	}
	return n > 0, nil
}

// List scans up to limit job records. Redis has no native ordered listing
// over hash keys, so this walks the jobs:* keyspace with SCAN.
func (s *JobStore) List(ctx context.Context, limit int) ([]domain.Job, error) {
	if limit <= 0 {
		limit = 100
	}
	var jobs []domain.Job
	iter := s.rdb.Scan(ctx, 0, jobKeyPrefix+"*", int64(limit)).Iterator()
	for iter.Next(ctx) {
		jobID := iter.Val()[len(jobKeyPrefix):]
		job, ok, err := s.Get(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		jobs = append(jobs, job)
		if len(jobs) >= limit {
			break
		}
	}
	if err := iter.Err(); err != nil {
		return nil, domain.NewStoreUnavailable("queue.JobStore.List", "", err)
	}
	return jobs, nil
}

func (s *JobStore) write(ctx context.Context, job domain.Job) error {
	key := jobKey(job.JobID)
	fields, err := toFields(job)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, s.retention)
	_, err = pipe.Exec(ctx)
	return err
}

func toFields(job domain.Job) (map[string]any, error) {
	return map[string]any{
		"job_id":           job.JobID,
		"status":           string(job.Status),
		"file_path":        job.FilePath,
		"review_requested": job.ReviewRequested,
		"created_at":       job.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":       job.UpdatedAt.UTC().Format(time.RFC3339),
		"result":           job.Result,
		"result_url":       job.ResultURL,
		"error":            job.Error,
		"attempts":         job.Attempts,
	}, nil
}

func fromFields(fields map[string]string) (domain.Job, error) {
	job := domain.Job{
		JobID:           fields["job_id"],
		Status:          domain.JobStatus(fields["status"]),
		FilePath:        fields["file_path"],
		ReviewRequested: fields["review_requested"] == "true" || fields["review_requested"] == "1",
		Result:          fields["result"],
		ResultURL:       fields["result_url"],
		Error:           fields["error"],
	}
	if v := fields["created_at"]; v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return domain.Job{}, fmt.Errorf("parse created_at: %w", err)
		}
		job.CreatedAt = t
	}
	if v := fields["updated_at"]; v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return domain.Job{}, fmt.Errorf("parse updated_at: %w", err)
		}
		job.UpdatedAt = t
	}
	if v := fields["attempts"]; v != "" {
		fmt.Sscanf(v, "%d", &job.Attempts)
	}
	return job, nil
}
