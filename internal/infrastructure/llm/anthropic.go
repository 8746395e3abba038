package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"NewsDigest/internal/config"
	"NewsDigest/internal/ports"
)

const anthropicVersion = "2023-06-01"

// AnthropicScorer implements ports.RelevanceScorer against the Anthropic
// messages API.
type AnthropicScorer struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ ports.RelevanceScorer = (*AnthropicScorer)(nil)

// NewAnthropicScorer builds a scorer from configuration.
func NewAnthropicScorer(cfg config.LLMConfig) *AnthropicScorer {
	return &AnthropicScorer{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: scoreTimeout,
		},
	}
}

// Name identifies the strategy.
func (s *AnthropicScorer) Name() string {
	return "anthropic"
}

// Score posts one messages request for the article and parses the structured
// summary/relevance reply.
func (s *AnthropicScorer) Score(ctx context.Context, title, text, topic string) (string, float64, error) {
	if s.apiKey == "" || s.endpoint == "" || s.model == "" {
		return "", 0, fmt.Errorf("anthropic scorer misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model":      s.model,
		"max_tokens": 300,
		"messages": []map[string]string{
			{"role": "user", "content": scorePrompt(title, text, topic)},
		},
	})
	if err != nil {
		return "", 0, fmt.Errorf("marshal messages payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("score request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", 0, fmt.Errorf("anthropic error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", 0, fmt.Errorf("decode message: %w", err)
	}
	if len(decoded.Content) == 0 {
		return "", 0, fmt.Errorf("message contained no content blocks")
	}

	return parseScoreResponse(decoded.Content[0].Text)
}
