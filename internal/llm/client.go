// ABOUTME: OpenAI-backed completion collaborator with retry and concurrency cap
// ABOUTME: Wraps sashabaranov/go-openai behind the Completer interface
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultModel is the completion model used when none is configured.
	DefaultModel = "gpt-4o-mini"
	// DefaultMaxTokens bounds the completion; verdicts are tiny.
	DefaultMaxTokens = 20
)

// Request is one completion call for one chunk's prompt. When Schema is
// set the model is asked for a structured JSON response matching it.
type Request struct {
	Prompt    string
	MaxTokens int
	// SchemaName and Schema select a JSON-schema response format.
	SchemaName string
	Schema     *jsonschema.Schema
}

// Completer is the external completion collaborator. The engine treats it
// as an opaque boundary; tests substitute a fake with call counting.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ClientConfig holds configuration for the OpenAI-backed completer.
type ClientConfig struct {
	APIKey        string
	Model         string
	MaxConcurrent int64
	MaxRetries    uint64
	RetryDelay    time.Duration
	Timeout       time.Duration
}

// DefaultClientConfig returns a config with the defaults used by the CLI.
func DefaultClientConfig(apiKey string) ClientConfig {
	return ClientConfig{
		APIKey:        apiKey,
		Model:         DefaultModel,
		MaxConcurrent: 20,
		MaxRetries:    3,
		RetryDelay:    time.Second,
		Timeout:       30 * time.Second,
	}
}

// Client wraps the OpenAI API client with bounded retries and a weighted
// semaphore capping in-flight completion calls across all classifiers.
type Client struct {
	api        *openai.Client
	model      string
	sem        *semaphore.Weighted
	maxRetries uint64
	retryDelay time.Duration
	timeout    time.Duration
}

// NewClient builds a Client from config.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 20
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		api:        openai.NewClient(cfg.APIKey),
		model:      cfg.Model,
		sem:        semaphore.NewWeighted(cfg.MaxConcurrent),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		timeout:    cfg.Timeout,
	}, nil
}

// Complete issues one chat completion for the prompt, retrying transport
// and rate-limit failures with fibonacci backoff. The returned error is a
// *TransportError or *RateLimitError once retries are exhausted.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.sem.Release(1)

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens: maxTokens,
	}
	if req.Schema != nil {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.SchemaName,
				Schema: req.Schema,
				Strict: true,
			},
		}
	}

	var content string
	backoff := retry.NewFibonacci(c.retryDelay)
	err := retry.Do(ctx, retry.WithMaxRetries(c.maxRetries, backoff), func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.api.CreateChatCompletion(attemptCtx, chatReq)
		if err != nil {
			return classifyCallError(err)
		}
		if len(resp.Choices) == 0 {
			return retry.RetryableError(&TransportError{Err: errors.New("no completion choices returned")})
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

// classifyCallError maps an OpenAI client error onto the engine taxonomy
// and marks the retryable cases for go-retry.
func classifyCallError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 429:
			return retry.RetryableError(&RateLimitError{Err: err})
		case apiErr.HTTPStatusCode >= 500:
			return retry.RetryableError(&TransportError{Err: err})
		default:
			// Client-side API errors (bad request, auth) will not
			// improve with retries.
			return &TransportError{Err: fmt.Errorf("non-retryable API error: %w", err)}
		}
	}
	// Timeouts, DNS failures, connection resets.
	return retry.RetryableError(&TransportError{Err: err})
}
