package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v5"
)

// Generator produces free-form metadata text for a transcript excerpt.
// The production implementation speaks the OpenAI-compatible chat API;
// tests substitute fakes.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error)
}

// NewGenerationRequest builds the immutable request for one pipeline run.
func NewGenerationRequest(t Transcript) GenerationRequest {
	return GenerationRequest{
		TranscriptExcerpt: t.Text,
		Model:             cfg.LLMModel,
		Temperature:       cfg.LLMTemperature,
		MaxTokens:         cfg.LLMMaxTokens,
	}
}

// --- chat completions wire types (OpenAI-compatible, as served by Groq) ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// llmGenerator is the production Generator.
type llmGenerator struct{}

// Generate issues the chat call with capped exponential backoff on
// rate-limit and transient transport failures. The attempt budget is a
// hard bound: at most cfg.GenMaxAttempts outbound calls happen, after
// which the error kind is KindGenerationExhausted. Auth and quota
// failures are never retried.
func (llmGenerator) Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	attempts := 0

	operation := func() (string, error) {
		attempts++
		if attempts > 1 {
			IncrLLMRetries()
		}
		IncrLLMCalls()

		text, err := postChat(ctx, req)
		if err != nil {
			IncrLLMErrors()
			if KindOf(err) == KindGenerationAuth {
				return "", backoff.Permanent(err)
			}
			slog.Warn("generation attempt failed", slog.Int("attempt", attempts), slog.Any("error", err))
			return "", err
		}
		return text, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.GenInitialWait
	bo.MaxInterval = cfg.GenMaxWait
	bo.Multiplier = 2
	bo.RandomizationFactor = 0

	maxTries := cfg.GenMaxAttempts
	if maxTries < 1 {
		maxTries = 1
	}

	text, err := backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(uint(maxTries)))
	if err != nil {
		if KindOf(err) == KindGenerationAuth {
			return GenerationResult{Attempts: attempts}, err
		}
		// Stopping before the budget ran out means the failure was
		// permanent (or the context died), not a retry exhaustion.
		msg := fmt.Sprintf("generation failed after %d attempts", attempts)
		if attempts < maxTries {
			msg = "generation rejected"
		}
		return GenerationResult{Attempts: attempts}, E(KindGenerationExhausted, msg, err)
	}
	return GenerationResult{RawText: text, Attempts: attempts}, nil
}

// postChat performs one chat-completions call and classifies failures:
// 401/403 and quota errors are KindGenerationAuth (terminal), 429 and
// 5xx are retryable status errors, everything else surfaces as-is.
func postChat(ctx context.Context, genReq GenerationRequest) (string, error) {
	if cfg.LLMAPIKey == "" {
		return "", E(KindGenerationAuth, "generation API key is not configured", nil)
	}

	body, err := json.Marshal(chatRequest{
		Model:       genReq.Model,
		Messages:    []chatMessage{{Role: "user", Content: BuildPrompt(genReq.TranscriptExcerpt)}},
		Temperature: genReq.Temperature,
		MaxTokens:   genReq.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimSuffix(cfg.LLMAPIBase, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.LLMAPIKey)

	resp, err := cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", Ef(KindGenerationAuth, "generation API rejected credentials (HTTP %d)", resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		if quotaExceeded(data) {
			return "", E(KindGenerationAuth, "generation API quota exceeded", nil)
		}
		return "", &httpStatusError{StatusCode: resp.StatusCode}
	case isRetryableStatus(resp.StatusCode):
		return "", &httpStatusError{StatusCode: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		snippet := TruncateWith(string(data), 256, "")
		return "", backoff.Permanent(fmt.Errorf("chat API HTTP %d: %s", resp.StatusCode, snippet))
	}

	var out chatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat response has no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// quotaExceeded reports whether a 429 body is a quota/billing failure
// rather than a transient rate limit. Retrying cannot help those.
func quotaExceeded(data []byte) bool {
	var body chatErrorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return false
	}
	for _, s := range []string{body.Error.Code, body.Error.Type} {
		s = strings.ToLower(s)
		if strings.Contains(s, "insufficient_quota") || strings.Contains(s, "billing") {
			return true
		}
	}
	return false
}
