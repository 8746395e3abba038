package relevance

import (
	"context"
	"math"
	"strings"

	"NewsDigest/internal/ports"
)

// matchWeight is the relevance contribution of one matched keyword.
const matchWeight = 0.2

// topicKeywords is the fixed keyword set the offline heuristic scans for.
var topicKeywords = []string{
	"ai",
	"artificial intelligence",
	"machine learning",
	"ml",
	"llm",
	"neural",
	"gpt",
	"claude",
}

// KeywordScorer is the no-network fallback scoring strategy. It rates an
// article by case-insensitive substring membership in a fixed keyword set
// and never produces a summary.
type KeywordScorer struct{}

var _ ports.RelevanceScorer = (*KeywordScorer)(nil)

// NewKeywordScorer builds the heuristic scorer.
func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{}
}

// Name identifies the strategy.
func (s *KeywordScorer) Name() string {
	return "keyword"
}

// Score counts each keyword at most once across title and text and maps the
// count to min(1.0, 0.2 x count). It cannot fail.
func (s *KeywordScorer) Score(_ context.Context, title, text, _ string) (string, float64, error) {
	haystack := strings.ToLower(title + " " + text)

	matches := 0
	for _, keyword := range topicKeywords {
		if strings.Contains(haystack, keyword) {
			matches++
		}
	}

	return "", math.Min(1.0, matchWeight*float64(matches)), nil
}
