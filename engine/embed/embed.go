// Package embed implements the batched embedding client: chunked
// Encode/EncodeBatch over an HTTP embedding API, guarded by a circuit
// breaker per the fail_max=3/reset_timeout=30s contract.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/resumariner/engine/engine/domain"
	"github.com/resumariner/engine/pkg/resilience"
)

const (
	// BatchMax is the maximum inputs chunked per request (EMBEDDING_BATCH_MAX).
	BatchMax = 64
	// VectorSize is the expected embedding dimensionality.
	VectorSize = 384
	// RequestTimeout bounds a single batch request per spec §6.
	RequestTimeout = 60 * time.Second
	// chunkRate/chunkBurst shape how fast batch chunks hit the embedding
	// endpoint, independent of the breaker's failure tripwire.
	chunkRate  = 8.0
	chunkBurst = 16
)

// malformedURLPrefix tags the one non-retryable client-configuration
// error that must not count toward the breaker's fail_max, per spec §4.E.
const malformedURLPrefix = "embed: malformed endpoint url"

// Client batches text into embedding vectors over an HTTP API, protected
// by a circuit breaker (fail_max=3, reset_timeout=30s).
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	breaker *resilience.Breaker
	limiter *resilience.Limiter
}

// New builds a Client. baseURL, apiKey, and model are configuration.
func New(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: RequestTimeout},
		breaker: resilience.NewBreaker(resilience.BreakerOpts{
			FailThreshold: 3,
			Timeout:       30 * time.Second,
			HalfOpenMax:   1,
		}),
		limiter: resilience.NewLimiter(resilience.LimiterOpts{Rate: chunkRate, Burst: chunkBurst}),
	}
}

// Encode returns the embedding for a single text, or a zero-length slice
// if text is empty/whitespace.
func (c *Client) Encode(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, nil
	}
	return vecs[0], nil
}

// EncodeBatch embeds texts, skipping empty/whitespace entries; the order
// of returned vectors matches the order of non-empty inputs. Requests are
// chunked to BatchMax inputs and run through the circuit breaker.
func (c *Client) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	nonEmpty := make([]string, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			nonEmpty = append(nonEmpty, t)
		}
	}
	if len(nonEmpty) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(nonEmpty))
	for i := 0; i < len(nonEmpty); i += BatchMax {
		end := i + BatchMax
		if end > len(nonEmpty) {
			end = len(nonEmpty)
		}
		chunk := nonEmpty[i:end]

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, domain.NewStoreUnavailable("embed.EncodeBatch", c.baseURL, err)
		}

		var vecs [][]float32
		var nonRetryable error
		err := c.breaker.Call(ctx, func(ctx context.Context) error {
			v, callErr := c.embedChunk(ctx, chunk)
			if callErr != nil {
				if strings.HasPrefix(callErr.Error(), malformedURLPrefix) {
					nonRetryable = callErr
					return nil // non-retryable; does not count toward fail_max
				}
				return callErr
			}
			vecs = v
			return nil
		})
		if nonRetryable != nil {
			return nil, domain.NewValidationError("embed.EncodeBatch", c.baseURL, nonRetryable)
		}
		if err != nil {
			if err == resilience.ErrCircuitOpen {
				return nil, domain.NewStoreUnavailable("embed.EncodeBatch", c.baseURL, fmt.Errorf("%w: %v", domain.ErrCircuitOpen, err))
			}
			return nil, domain.NewStoreUnavailable("embed.EncodeBatch", c.baseURL, err)
		}
		out = append(out, vecs...)
	}
	return out, nil
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (c *Client) embedChunk(ctx context.Context, texts []string) ([][]float32, error) {
	if !strings.HasPrefix(c.baseURL, "http://") && !strings.HasPrefix(c.baseURL, "https://") {
		return nil, fmt.Errorf("%s: %q", malformedURLPrefix, c.baseURL)
	}

	body, err := json.Marshal(embedRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embed response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embed request failed: status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed embedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal embed response: %w", err)
	}

	vecs := make([][]float32, len(parsed.Data))
	for i, d := range parsed.Data {
		vecs[i] = d.Embedding
	}
	return vecs, nil
}
