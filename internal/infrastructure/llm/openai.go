package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"NewsDigest/internal/config"
	"NewsDigest/internal/ports"
)

const scoreTimeout = 30 * time.Second

// OpenAIScorer implements ports.RelevanceScorer backed by OpenAI-compatible
// chat-completions APIs.
type OpenAIScorer struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ ports.RelevanceScorer = (*OpenAIScorer)(nil)

// NewOpenAIScorer builds a scorer from configuration.
func NewOpenAIScorer(cfg config.LLMConfig) *OpenAIScorer {
	return &OpenAIScorer{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: scoreTimeout,
		},
	}
}

// Name identifies the strategy.
func (s *OpenAIScorer) Name() string {
	return "openai"
}

// Score posts one chat-completion request for the article and parses the
// structured summary/relevance reply.
func (s *OpenAIScorer) Score(ctx context.Context, title, text, topic string) (string, float64, error) {
	if s.apiKey == "" || s.endpoint == "" || s.model == "" {
		return "", 0, fmt.Errorf("openai scorer misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": s.model,
		"messages": []map[string]string{
			{"role": "user", "content": scorePrompt(title, text, topic)},
		},
		"temperature": 0.3,
		"max_tokens":  300,
	})
	if err != nil {
		return "", 0, fmt.Errorf("marshal completion payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("score request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", 0, fmt.Errorf("openai error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", 0, fmt.Errorf("decode completion: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", 0, fmt.Errorf("completion contained no choices")
	}

	return parseScoreResponse(decoded.Choices[0].Message.Content)
}
