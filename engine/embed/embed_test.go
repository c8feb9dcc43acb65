package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEncodeBatchSkipsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		json.NewDecoder(r.Body).Decode(&req)
		resp := embedResponse{}
		for range req.Input {
			resp.Data = append(resp.Data, struct {
				Embedding []float32 `json:"embedding"`
			}{Embedding: []float32{0.1, 0.2}})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := New(srv.URL, "key", "model")
	vecs, err := c.EncodeBatch(context.Background(), []string{"hello", "  ", "", "world"})
	if err != nil {
		t.Fatalf("EncodeBatch: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors (non-empty inputs only), got %d", len(vecs))
	}
}

func TestEncodeBatchAllEmptyReturnsNil(t *testing.T) {
	c := New("http://example.com", "key", "model")
	vecs, err := c.EncodeBatch(context.Background(), []string{"", "   "})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if vecs != nil {
		t.Fatalf("expected nil result, got %v", vecs)
	}
}

func TestEncodeBatchChunking(t *testing.T) {
	var chunkSizes []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		json.NewDecoder(r.Body).Decode(&req)
		chunkSizes = append(chunkSizes, len(req.Input))
		resp := embedResponse{}
		for range req.Input {
			resp.Data = append(resp.Data, struct {
				Embedding []float32 `json:"embedding"`
			}{Embedding: []float32{1}})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	texts := make([]string, BatchMax+10)
	for i := range texts {
		texts[i] = "text"
	}

	c := New(srv.URL, "key", "model")
	vecs, err := c.EncodeBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EncodeBatch: %v", err)
	}
	if len(vecs) != len(texts) {
		t.Fatalf("expected %d vectors, got %d", len(texts), len(vecs))
	}
	if len(chunkSizes) != 2 {
		t.Fatalf("expected 2 chunked requests, got %d (%v)", len(chunkSizes), chunkSizes)
	}
	if chunkSizes[0] != BatchMax || chunkSizes[1] != 10 {
		t.Fatalf("unexpected chunk sizes: %v", chunkSizes)
	}
}

func TestEncodeBatchMalformedURLNonRetryable(t *testing.T) {
	c := New("not-a-url", "key", "model")
	_, err := c.EncodeBatch(context.Background(), []string{"hello"})
	if err == nil {
		t.Fatal("expected malformed URL to fail")
	}
	// a single malformed-URL failure must not open the breaker
	if c.breaker.State().String() == "open" {
		t.Fatal("malformed URL failure should not trip the circuit breaker")
	}
}
