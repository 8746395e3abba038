// Package llm implements the remote-summarization relevance scorers on top
// of OpenAI-compatible and Anthropic HTTP APIs.
package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// scoreResponse is the structured payload the scoring prompt asks for.
type scoreResponse struct {
	Summary   string  `json:"summary"`
	Relevance float64 `json:"relevance"`
}

// scorePrompt builds the single request the pipeline contract requires per
// article: summary plus relevance score for the configured topic.
func scorePrompt(title, text, topic string) string {
	return fmt.Sprintf(`Analyze this article and provide:
1. A concise 2-3 sentence summary
2. A relevance score from 0.0 to 1.0 for the topic %q

Article Title: %s
Article Description: %s

Respond in JSON format only, no other text:
{"summary": "your summary here", "relevance": 0.8}`, topic, title, text)
}

// parseScoreResponse decodes model output defensively: a fenced code block
// wrapper is stripped before parsing and the score is clamped to [0,1].
func parseScoreResponse(content string) (string, float64, error) {
	content = stripFences(strings.TrimSpace(content))

	var parsed scoreResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return "", 0, fmt.Errorf("decode score response: %w", err)
	}

	return parsed.Summary, clampScore(parsed.Relevance), nil
}

func stripFences(s string) string {
	switch {
	case strings.Contains(s, "```json"):
		s = s[strings.Index(s, "```json")+len("```json"):]
	case strings.Contains(s, "```"):
		s = s[strings.Index(s, "```")+len("```"):]
	default:
		return s
	}
	if end := strings.Index(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

func clampScore(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}
