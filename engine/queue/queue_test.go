package queue

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	q := New(nil)
	if q.maxAttempts != MaxAttempts {
		t.Fatalf("expected maxAttempts=%d, got %d", MaxAttempts, q.maxAttempts)
	}
	if q.visibilityTimeout != DefaultVisibilityTimeout {
		t.Fatalf("expected visibilityTimeout=%s, got %s", DefaultVisibilityTimeout, q.visibilityTimeout)
	}
}

func TestNewOptions(t *testing.T) {
	q := New(nil, WithMaxAttempts(5), WithVisibilityTimeout(2*time.Minute))
	if q.maxAttempts != 5 {
		t.Fatalf("expected maxAttempts=5, got %d", q.maxAttempts)
	}
	if q.visibilityTimeout != 2*time.Minute {
		t.Fatalf("expected visibilityTimeout=2m, got %s", q.visibilityTimeout)
	}
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	// no jitter (r=0.5 -> factor 1.0)
	d1 := backoff(1, 0.5)
	if d1 != backoffBase {
		t.Fatalf("expected attempt 1 backoff=%s, got %s", backoffBase, d1)
	}
	d2 := backoff(2, 0.5)
	if d2 != 2*backoffBase {
		t.Fatalf("expected attempt 2 backoff=%s, got %s", 2*backoffBase, d2)
	}
	d5 := backoff(5, 0.5)
	if d5 != backoffCap {
		t.Fatalf("expected attempt 5 backoff capped at %s, got %s", backoffCap, d5)
	}
}

func TestBackoffJitterBounds(t *testing.T) {
	lo := backoff(1, 0)
	hi := backoff(1, 1)
	if lo != time.Duration(float64(backoffBase)*0.8) {
		t.Fatalf("expected low jitter bound, got %s", lo)
	}
	if hi != time.Duration(float64(backoffBase)*1.2) {
		t.Fatalf("expected high jitter bound, got %s", hi)
	}
}

func TestTaskRoundTrip(t *testing.T) {
	task := Task{TaskID: "t1", JobID: "j1", FilePath: "/tmp/x.pdf", Attempts: 1, EnqueuedAt: time.Now().UTC()}
	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Task
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.TaskID != task.TaskID || got.JobID != task.JobID || got.FilePath != task.FilePath {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, task)
	}
}

func TestToAnySlice(t *testing.T) {
	in := []string{"a", "b", "c"}
	out := toAnySlice(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(out))
	}
	for i, v := range in {
		if out[i] != v {
			t.Fatalf("expected out[%d]=%s, got %v", i, v, out[i])
		}
	}
}
