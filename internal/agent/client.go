package agent

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"strings"
	"time"

	"google.golang.org/genai"

	"snooscrape/internal/config"
)

// Turn is one aggregated model response: the raw parts for history
// replay, the concatenated narrative text and any function calls.
type Turn struct {
	Parts []*genai.Part
	Text  string
	Calls []*genai.FunctionCall
}

// generator abstracts the model invocation so the runner can be tested
// against scripted turns.
type generator interface {
	Generate(ctx context.Context, history []*genai.Content) (*Turn, error)
}

// GeminiClient wraps the Google Gemini API for the agent runtime.
type GeminiClient struct {
	client      *genai.Client
	model       string
	instruction string
	tools       []*genai.Tool
	maxRetries  int
	retryDelay  time.Duration
}

// NewGeminiClient creates the Gemini client the agent runs on. It fails
// when the API key is missing or the underlying client cannot be built.
func NewGeminiClient(ctx context.Context, cfg *config.Config, geminiTools []*genai.Tool, instruction string) (*GeminiClient, error) {
	if cfg.Agent.APIKey == "" {
		return nil, errors.New("GOOGLE_API_KEY is required to construct the agent")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  cfg.Agent.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		model:       cfg.Agent.Model,
		instruction: instruction,
		tools:       geminiTools,
		maxRetries:  3,
		retryDelay:  1 * time.Second,
	}, nil
}

// Generate streams one model response and aggregates it into a Turn,
// retrying transient failures with exponential backoff.
func (c *GeminiClient) Generate(ctx context.Context, history []*genai.Content) (*Turn, error) {
	var lastErr error

	maxDelay := 30 * time.Second
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := backoff(c.retryDelay, attempt-1, maxDelay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		turn, err := c.doGenerate(ctx, history)
		if err == nil {
			return turn, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// doGenerate performs a single streaming request attempt.
func (c *GeminiClient) doGenerate(ctx context.Context, contents []*genai.Content) (*Turn, error) {
	genConfig := &genai.GenerateContentConfig{}
	if c.instruction != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(c.instruction, genai.RoleUser)
	}
	if len(c.tools) > 0 {
		genConfig.Tools = c.tools
	}

	turn := &Turn{}
	for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, contents, genConfig) {
		if err != nil {
			return nil, err
		}
		if resp == nil || len(resp.Candidates) == 0 {
			continue
		}
		candidate := resp.Candidates[0]
		if candidate.Content == nil {
			continue
		}

		turn.Parts = append(turn.Parts, candidate.Content.Parts...)
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			if part.Text != "" {
				turn.Text += part.Text
			}
			if part.FunctionCall != nil {
				turn.Calls = append(turn.Calls, part.FunctionCall)
			}
		}
	}
	return turn, nil
}

// isRetryableError returns true if the error should trigger a retry.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	retryable := []string{
		"429", "500", "502", "503", "504",
		"connection refused",
		"connection reset",
		"timeout",
		"unavailable",
		"resource_exhausted",
	}
	for _, pattern := range retryable {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// backoff computes an exponential delay with jitter, capped at maxDelay.
func backoff(base time.Duration, attempt int, maxDelay time.Duration) time.Duration {
	delay := base << attempt
	if delay > maxDelay {
		delay = maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay) / 4))
	return delay + jitter
}
