package queue

import (
	"fmt"
	"testing"
	"time"

	"github.com/resumariner/engine/engine/domain"
)

func TestFieldsRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	job := domain.Job{
		JobID:     "abc",
		Status:    domain.JobCompleted,
		FilePath:  "/tmp/resume.pdf",
		CreatedAt: now,
		UpdatedAt: now,
		Result:    `{"uid":"u1"}`,
		ResultURL: "https://example.com/r/abc",
		Attempts:  2,
	}
	fields, err := toFields(job)
	if err != nil {
		t.Fatalf("toFields: %v", err)
	}
	strFields := map[string]string{}
	for k, v := range fields {
		if s, ok := v.(string); ok {
			strFields[k] = s
		} else {
			strFields[k] = fmt.Sprintf("%v", v)
		}
	}

	got, err := fromFields(strFields)
	if err != nil {
		t.Fatalf("fromFields: %v", err)
	}
	if got.JobID != job.JobID || got.Status != job.Status || got.FilePath != job.FilePath {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, job)
	}
	if got.Result != job.Result || got.ResultURL != job.ResultURL || got.Attempts != job.Attempts {
		t.Fatalf("round trip mismatch on result fields: got %+v, want %+v", got, job)
	}
	if !got.CreatedAt.Equal(job.CreatedAt) || !got.UpdatedAt.Equal(job.UpdatedAt) {
		t.Fatalf("round trip mismatch on timestamps: got %+v, want %+v", got, job)
	}
}
