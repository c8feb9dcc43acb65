// Package llm implements the typed, JSON-schema-constrained LLM client:
// Run[T] renders a prompt, enforces that the model's JSON output validates
// against T's schema, and retries once at a stricter temperature on
// schema failure.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/resumariner/engine/engine/domain"
	"github.com/resumariner/engine/pkg/resilience"
	"github.com/xeipuuv/gojsonschema"
)

const (
	// RequestTimeout bounds every outbound call per spec §6.
	RequestTimeout = 180 * time.Second
	// RetryTemperature is used for the single stricter retry after a
	// schema-validation failure.
	RetryTemperature = 0.1
	// transportMaxAttempts bounds transport-level retries (timeout, 5xx, 429).
	transportMaxAttempts = 3
	// requestRate/requestBurst shape outbound call pacing against the
	// model provider's own rate limit (spec §6).
	requestRate  = 4.0
	requestBurst = 8
)

// Options configure a single Run call.
type Options struct {
	Temperature float64
}

// Client is a JSON-schema-constrained chat completion client over an
// OpenAI-compatible HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	limiter *resilience.Limiter
}

// New builds a Client bound to an OpenAI-compatible chat completions
// endpoint. baseURL, apiKey, and model are configuration (spec §6).
func New(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: RequestTimeout},
		limiter: resilience.NewLimiter(resilience.LimiterOpts{Rate: requestRate, Burst: requestBurst}),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	ResponseFmt struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Run sends systemPrompt/userPrompt to the model, validates the JSON
// response against schema, and unmarshals it into out. On a schema
// validation failure it retries once with a stricter system prompt at
// RetryTemperature. Transport failures (timeout, 5xx, 429) are retried up
// to transportMaxAttempts times with exponential backoff; other 4xx
// errors are non-retryable.
func Run[T any](ctx context.Context, c *Client, systemPrompt, userPrompt string, schema *gojsonschema.Schema, opts Options, out *T) error {
	raw, err := c.complete(ctx, systemPrompt, userPrompt, opts.Temperature)
	if err != nil {
		return domain.NewLLMFailure("llm.Run", c.model, err)
	}

	if err := validateAndUnmarshal(raw, schema, out); err != nil {
		stricter := systemPrompt + "\n\nYour previous response did not match the required JSON schema. Respond with JSON matching the schema exactly, with no additional commentary."
		raw, err2 := c.complete(ctx, stricter, userPrompt, RetryTemperature)
		if err2 != nil {
			return domain.NewLLMFailure("llm.Run", c.model, err2)
		}
		if err := validateAndUnmarshal(raw, schema, out); err != nil {
			return domain.NewLLMFailure("llm.Run", c.model, fmt.Errorf("schema validation failed after retry: %w", err))
		}
	}
	return nil
}

func validateAndUnmarshal[T any](raw string, schema *gojsonschema.Schema, out *T) error {
	if schema != nil {
		result, err := schema.Validate(gojsonschema.NewStringLoader(raw))
		if err != nil {
			return fmt.Errorf("schema validate: %w", err)
		}
		if !result.Valid() {
			return fmt.Errorf("schema mismatch: %v", result.Errors())
		}
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}

func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
	}
	req.ResponseFmt.Type = "json_object"

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= transportMaxAttempts; attempt++ {
		content, retryable, err := c.doOnce(ctx, body)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !retryable || attempt == transportMaxAttempts {
			break
		}
		backoff := time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}
	return "", lastErr
}

func (c *Client) doOnce(ctx context.Context, body []byte) (content string, retryable bool, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", false, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, err
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return "", true, fmt.Errorf("llm transport error: status %d: %s", resp.StatusCode, string(respBody))
	default:
		return "", false, fmt.Errorf("llm request failed: status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", false, fmt.Errorf("unmarshal chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", false, fmt.Errorf("empty choices in chat response")
	}
	return parsed.Choices[0].Message.Content, false, nil
}
